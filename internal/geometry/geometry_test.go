package geometry

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAspectRatio_Original(t *testing.T) {
	for _, dims := range [][2]float64{{1920, 1080}, {1, 1}, {300, 7}, {7, 300}} {
		got, err := ResolveAspectRatio([]string{"c_fill"}, dims[0], dims[1])
		require.NoError(t, err)
		assert.Equal(t, dims[0]/dims[1], got)
	}
}

func TestResolveAspectRatio_Override(t *testing.T) {
	for _, tok := range [][2]float64{{16, 9}, {4, 3}, {1, 2}} {
		tokens := []string{"c_fill", "ar_" + ftoa(tok[0]) + ":" + ftoa(tok[1])}
		got, err := ResolveAspectRatio(tokens, 1000, 10)
		require.NoError(t, err)
		assert.Equal(t, tok[0]/tok[1], got)
	}

	got, err := ResolveAspectRatio([]string{"ar_1.5"}, 10, 10)
	require.NoError(t, err)
	assert.Equal(t, 1.5, got)
}

func TestResolveAspectRatio_LastTokenWins(t *testing.T) {
	got, err := ResolveAspectRatio([]string{"ar_1:1", "ar_2:1"}, 10, 10)
	require.NoError(t, err)
	assert.Equal(t, 2.0, got)
}

func TestResolveAspectRatio_Malformed(t *testing.T) {
	for _, tok := range []string{"ar_abc", "ar_16:0", "ar_x:9", "ar_-2", "ar_"} {
		got, err := ResolveAspectRatio([]string{tok}, 300, 200)
		assert.ErrorIs(t, err, ErrInvalidAspectRatioToken, tok)
		assert.Equal(t, 1.5, got, "falls back to original ratio for %s", tok)
	}
}

func TestResolveDisplaySize(t *testing.T) {
	tests := []struct {
		name  string
		in    SizeInput
		mode  SizeMode
		wantW int
		wantH int
	}{
		{
			name:  "default width",
			in:    SizeInput{AspectRatio: 2, OriginalWidth: 1000, OriginalHeight: 500, DefaultWidth: 400},
			mode:  SizeDefault,
			wantW: 400, wantH: 200,
		},
		{
			name:  "default capped by original",
			in:    SizeInput{AspectRatio: 2, OriginalWidth: 300, OriginalHeight: 150, DefaultWidth: 400},
			mode:  SizeDefault,
			wantW: 300, wantH: 150,
		},
		{
			name:  "width requested",
			in:    SizeInput{AspectRatio: 1920.0 / 1080.0, RequestedWidth: 300, OriginalWidth: 1920, OriginalHeight: 1080},
			mode:  SizeWidth,
			wantW: 300, wantH: 169,
		},
		{
			name:  "height requested and capped",
			in:    SizeInput{AspectRatio: 2, RequestedHeight: 900, OriginalWidth: 1000, OriginalHeight: 500},
			mode:  SizeHeight,
			wantW: 1000, wantH: 500,
		},
		{
			name:  "both requested",
			in:    SizeInput{AspectRatio: 2, RequestedWidth: 120, RequestedHeight: 100, OriginalWidth: 1000, OriginalHeight: 500},
			mode:  SizeBoth,
			wantW: 120, wantH: 100,
		},
		{
			name:  "width requested larger than original",
			in:    SizeInput{AspectRatio: 1, RequestedWidth: 5000, OriginalWidth: 640, OriginalHeight: 640},
			mode:  SizeWidth,
			wantW: 640, wantH: 640,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.mode, tt.in.Mode())
			w, h := ResolveDisplaySize(tt.in).Rounded()
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantH, h)
			assert.LessOrEqual(t, w, int(tt.in.OriginalWidth))
			assert.LessOrEqual(t, h, int(tt.in.OriginalHeight))
		})
	}
}

func TestResolveDisplaySize_KeepsFractions(t *testing.T) {
	s := ResolveDisplaySize(SizeInput{AspectRatio: 3, RequestedWidth: 100, OriginalWidth: 900, OriginalHeight: 300})
	assert.InDelta(t, 33.333, s.Height, 0.001)
}

func TestPlanBreakpoints_Default(t *testing.T) {
	got := PlanBreakpoints(BreakpointInput{MinWidth: 200, MaxWidth: 1000, MaxCount: 5, OriginalWidth: 4000})
	assert.Equal(t, []int{200, 400, 600, 800, 1000}, got)
}

func TestPlanBreakpoints_CappedByOriginal(t *testing.T) {
	got := PlanBreakpoints(BreakpointInput{MinWidth: 200, MaxWidth: 1000, MaxCount: 3, OriginalWidth: 600})
	assert.Equal(t, []int{200, 400, 600}, got)
}

func TestPlanBreakpoints_SingleBelowMinimum(t *testing.T) {
	got := PlanBreakpoints(BreakpointInput{MinWidth: 300, MaxWidth: 10000, MaxCount: 5, OriginalWidth: 200})
	assert.Equal(t, []int{200}, got)
}

func TestPlanBreakpoints_Deduplicates(t *testing.T) {
	got := PlanBreakpoints(BreakpointInput{MinWidth: 200, MaxWidth: 203, MaxCount: 10, OriginalWidth: 5000})
	assert.Equal(t, []int{200, 201, 202, 203}, got)
}

func TestPlanBreakpoints_Explicit(t *testing.T) {
	explicit := []int{320, 768, 1280}
	got := PlanBreakpoints(BreakpointInput{Explicit: explicit, MinWidth: 200, MaxWidth: 1000, MaxCount: 5, OriginalWidth: 5000})
	assert.Equal(t, explicit, got)
}

func TestPlanBreakpoints_ExplicitNormalized(t *testing.T) {
	in := BreakpointInput{MinWidth: 200, MaxWidth: 1000, MaxCount: 5, OriginalWidth: 2000}

	in.Explicit = []int{2000, 1200, 600, 1200, 0, -5}
	assert.Equal(t, []int{600, 1200, 2000}, PlanBreakpoints(in))
	assert.Equal(t, []int{2000, 1200, 600, 1200, 0, -5}, in.Explicit, "input is not modified")

	in.Explicit = []int{0, -1}
	assert.Equal(t, []int{200, 400, 600, 800, 1000}, PlanBreakpoints(in), "nothing usable falls back to planning")
}

func TestPlanBreakpoints_Properties(t *testing.T) {
	for _, orig := range []int{1, 150, 199, 200, 201, 999, 1000, 1001, 3840} {
		for _, count := range []int{1, 2, 5, 20} {
			in := BreakpointInput{MinWidth: 200, MaxWidth: 1000, MaxCount: count, OriginalWidth: orig}
			got := PlanBreakpoints(in)
			require.NotEmpty(t, got)
			assert.LessOrEqual(t, len(got), count)
			for i := 1; i < len(got); i++ {
				assert.Less(t, got[i-1], got[i], "strictly ascending for orig=%d count=%d", orig, count)
			}
			assert.LessOrEqual(t, got[len(got)-1], in.EffectiveMax())
		}
	}
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
