package upload

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `{
  "public_id": "blog/hero",
  "version": 1712345678,
  "width": 2400,
  "height": 1600,
  "format": "jpg",
  "responsive_breakpoints": [
    {"transformation": "c_scale", "breakpoints": [
      {"width": 2400, "height": 1600},
      {"width": 1100, "height": 733},
      {"width": 320, "height": 213}
    ]},
    {"breakpoints": [{"width": 1100, "height": 733}, {"width": 640, "height": 427}]}
  ]
}`

func TestReadResults_Single(t *testing.T) {
	results, err := ReadResults(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, []int{320, 640, 1100, 2400}, r.Breakpoints())

	src := r.Source("acct1")
	assert.Equal(t, "acct1", src.Identity.Account)
	assert.Equal(t, "blog/hero", src.Identity.PublicID)
	assert.Equal(t, "1712345678", src.Identity.Version)
	assert.True(t, src.Metadata.Complete())
	assert.Equal(t, r.Breakpoints(), src.Breakpoints)
}

func TestReadResults_List(t *testing.T) {
	results, err := ReadResults(strings.NewReader(`[{"public_id":"a"},{"public_id":"b"}]`))
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "b", results[1].PublicID)
	assert.Empty(t, results[1].Source("x").Identity.Version)
}

func TestReadResults_Invalid(t *testing.T) {
	_, err := ReadResults(strings.NewReader(`nope`))
	assert.Error(t, err)
}
