package geometry

import (
	"math"
	"sort"
)

// BreakpointInput configures PlanBreakpoints.
type BreakpointInput struct {
	// Explicit breakpoints (for example computed by the CDN at upload
	// time) replace the planned ones when present. They are sorted and
	// deduplicated; non-positive widths are dropped.
	Explicit      []int
	MinWidth      int
	MaxWidth      int // already folded with any caller maxWidth
	MaxCount      int
	OriginalWidth int
}

// EffectiveMax returns min(MaxWidth, OriginalWidth), ignoring unset values.
func (in BreakpointInput) EffectiveMax() int {
	switch {
	case in.MaxWidth <= 0:
		return in.OriginalWidth
	case in.OriginalWidth <= 0:
		return in.MaxWidth
	default:
		return min(in.MaxWidth, in.OriginalWidth)
	}
}

// PlanBreakpoints returns strictly ascending candidate widths for a fluid
// srcset. Without explicit breakpoints it spreads MaxCount widths evenly
// from the effective maximum down to MinWidth, which puts more candidates
// near the large sizes. When the effective maximum does not exceed
// MinWidth a single breakpoint is returned.
func PlanBreakpoints(in BreakpointInput) []int {
	if out := normalizeWidths(in.Explicit); len(out) > 0 {
		return out
	}

	top := in.EffectiveMax()
	if top <= in.MinWidth || in.MaxCount < 2 {
		return []int{top}
	}

	step := float64(top-in.MinWidth) / float64(in.MaxCount-1)
	seen := make(map[int]bool, in.MaxCount)
	out := make([]int, 0, in.MaxCount)
	for i := 0; i < in.MaxCount; i++ {
		w := int(math.Round(float64(top) - float64(i)*step))
		if seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	sort.Ints(out)
	return out
}

// normalizeWidths returns the positive widths of ws, ascending and unique.
// The CDN reports upload breakpoints largest first.
func normalizeWidths(ws []int) []int {
	out := make([]int, 0, len(ws))
	for _, w := range ws {
		if w > 0 {
			out = append(out, w)
		}
	}
	sort.Ints(out)
	n := 0
	for i, w := range out {
		if i > 0 && w == out[n-1] {
			continue
		}
		out[n] = w
		n++
	}
	return out[:n]
}
