package geometry

import "math"

// Size is a display size. Values stay fractional until Rounded is called
// so derived srcset entries do not compound rounding error.
type Size struct {
	Width  float64
	Height float64
}

// Rounded returns the size rounded to whole pixels.
func (s Size) Rounded() (int, int) {
	return int(math.Round(s.Width)), int(math.Round(s.Height))
}

// SizeMode records which of the mutually exclusive sizing branches applied.
type SizeMode int

const (
	// SizeDefault means neither dimension was requested.
	SizeDefault SizeMode = iota
	SizeWidth
	SizeHeight
	SizeBoth
)

func (m SizeMode) String() string {
	switch m {
	case SizeWidth:
		return "width"
	case SizeHeight:
		return "height"
	case SizeBoth:
		return "both"
	default:
		return "default"
	}
}

// SizeInput holds the inputs to ResolveDisplaySize. A zero requested
// dimension means "not requested".
type SizeInput struct {
	AspectRatio     float64
	RequestedWidth  float64
	RequestedHeight float64
	OriginalWidth   float64
	OriginalHeight  float64
	DefaultWidth    float64
}

// Mode reports the sizing branch for in.
func (in SizeInput) Mode() SizeMode {
	switch {
	case in.RequestedWidth > 0 && in.RequestedHeight > 0:
		return SizeBoth
	case in.RequestedWidth > 0:
		return SizeWidth
	case in.RequestedHeight > 0:
		return SizeHeight
	default:
		return SizeDefault
	}
}

// ResolveDisplaySize computes the rendered size. Requested dimensions are
// capped at the original; a missing dimension is derived from the aspect
// ratio. With nothing requested the width is min(DefaultWidth, original).
func ResolveDisplaySize(in SizeInput) Size {
	var s Size

	switch in.Mode() {
	case SizeDefault:
		s.Width = capAt(in.DefaultWidth, in.OriginalWidth)
	case SizeWidth:
		s.Width = capAt(in.RequestedWidth, in.OriginalWidth)
	case SizeHeight:
		s.Height = capAt(in.RequestedHeight, in.OriginalHeight)
	case SizeBoth:
		s.Width = capAt(in.RequestedWidth, in.OriginalWidth)
		s.Height = capAt(in.RequestedHeight, in.OriginalHeight)
	}

	if in.AspectRatio > 0 {
		if s.Width == 0 {
			s.Width = s.Height * in.AspectRatio
		}
		if s.Height == 0 {
			s.Height = s.Width / in.AspectRatio
		}
	}
	return s
}

// capAt returns min(v, limit), ignoring an unknown (non-positive) limit.
func capAt(v, limit float64) float64 {
	if limit > 0 && v > limit {
		return limit
	}
	return v
}
