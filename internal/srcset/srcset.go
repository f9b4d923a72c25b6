// Package srcset assembles src/srcset/sizes values for fixed and fluid
// layouts from CDN transformation URLs.
package srcset

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/AnyUserName/imgcdn-cli/internal/cdnurl"
	"github.com/AnyUserName/imgcdn-cli/internal/geometry"
)

// Layout selects how candidates are generated.
type Layout string

const (
	// Fixed renders one pixel size plus device-pixel-ratio variants.
	Fixed Layout = "fixed"
	// Fluid renders a width range chosen by viewport.
	Fluid Layout = "fluid"
)

// ParseLayout maps a user supplied name to a Layout. "constrained" and
// "fullWidth" are accepted as fluid.
func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fixed":
		return Fixed, nil
	case "fluid", "constrained", "fullwidth", "full_width":
		return Fluid, nil
	default:
		return "", fmt.Errorf("unknown layout %q", s)
	}
}

// DensityFactors are the fixed-layout pixel density multipliers.
var DensityFactors = []float64{1, 1.5, 2, 3}

// Input configures Build.
type Input struct {
	Identity cdnurl.Identity
	Request  cdnurl.Request
	Display  geometry.Size
	// BothExplicit emits a height token next to every width token.
	BothExplicit  bool
	Breakpoints   []int // fluid only
	OriginalWidth int   // 0 disables the upscale filter
	// SizesWidth is the fluid effective maximum width used in Sizes.
	// Zero falls back to the largest breakpoint.
	SizesWidth int
	Layout     Layout
}

// Entry is one srcset candidate.
type Entry struct {
	URL        string `json:"url"`
	Width      int    `json:"width"`
	Height     int    `json:"height,omitempty"`
	Descriptor string `json:"descriptor"`
}

// Set is the assembled responsive set.
type Set struct {
	Src     string
	SrcSet  string
	Sizes   string
	Entries []Entry
}

// Build generates the responsive set for in.Layout.
func Build(in Input) Set {
	var entries []Entry
	if in.Layout == Fluid {
		entries = fluidEntries(in)
	} else {
		entries = fixedEntries(in)
	}

	set := Set{Entries: entries, SrcSet: Join(entries)}
	if len(entries) == 0 {
		return set
	}

	if in.Layout == Fluid {
		last := entries[len(entries)-1]
		set.Src = last.URL
		w := in.SizesWidth
		if w <= 0 {
			w = last.Width
		}
		set.Sizes = fmt.Sprintf("(max-width: %dpx) 100vw, %dpx", w, w)
	} else {
		set.Src = entries[0].URL
	}
	return set
}

// Join renders entries as a srcset attribute value.
func Join(entries []Entry) string {
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = e.URL + " " + e.Descriptor
	}
	return strings.Join(parts, ", ")
}

func fixedEntries(in Input) []Entry {
	var out []Entry
	for _, f := range DensityFactors {
		w := int(math.Round(in.Display.Width * f))
		if in.OriginalWidth > 0 && w > in.OriginalWidth {
			continue // no upscaling past the source
		}
		h := 0
		if in.BothExplicit {
			h = int(math.Round(in.Display.Height * f))
		}
		out = append(out, Entry{
			URL:        candidateURL(in, w, h),
			Width:      w,
			Height:     h,
			Descriptor: strconv.FormatFloat(f, 'f', -1, 64) + "x",
		})
	}
	return out
}

func fluidEntries(in Input) []Entry {
	out := make([]Entry, 0, len(in.Breakpoints))
	for _, w := range in.Breakpoints {
		h := 0
		if in.BothExplicit && in.Display.Width > 0 {
			h = int(math.Round(float64(w) * in.Display.Height / in.Display.Width))
		}
		out = append(out, Entry{
			URL:        candidateURL(in, w, h),
			Width:      w,
			Height:     h,
			Descriptor: strconv.Itoa(w) + "w",
		})
	}
	return out
}

// candidateURL builds one candidate URL with the size tokens placed last
// in the primary group, replacing any caller-supplied size tokens.
func candidateURL(in Input, w, h int) string {
	req := in.Request
	req.Transformations = cdnurl.WithSize(req.Transformations, w, h)
	return cdnurl.Build(in.Identity, req)
}
