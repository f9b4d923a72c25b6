package fieldmap

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefault(t *testing.T) {
	raw := map[string]any{
		"cloudName":      "acct1",
		"publicId":       "pic",
		"originalWidth":  1920,
		"originalHeight": 1080.0,
		"version":        1712345,
	}
	m := Default()
	assert.Equal(t, "acct1", m.String(raw, Account))
	assert.Equal(t, "pic", m.String(raw, PublicID))
	assert.Equal(t, "1712345", m.String(raw, Version))
	assert.Equal(t, 1920, m.Int(raw, Width))
	assert.Equal(t, 1080, m.Int(raw, Height))
	assert.Empty(t, m.String(raw, Format))
	assert.Zero(t, m.Int(nil, Width))
}

func TestNew_PathOverride(t *testing.T) {
	var raw map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(`
asset:
  cloud: acct2
  id: folder/pic
  w: "640"
`), &raw))

	m, err := New(map[string]string{Account: "asset.cloud", PublicID: "asset.id", Width: "asset.w"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "acct2", m.String(raw, Account))
	assert.Equal(t, "folder/pic", m.String(raw, PublicID))
	assert.Equal(t, 640, m.Int(raw, Width))
	assert.Empty(t, m.String(raw, Height))
}

func TestNew_FuncWins(t *testing.T) {
	m, err := New(
		map[string]string{Account: "x"},
		map[string]Extractor{Account: func(map[string]any) (any, bool) { return "fixed", true }},
	)
	require.NoError(t, err)
	assert.Equal(t, "fixed", m.String(map[string]any{"x": "ignored"}, Account))
}

func TestNew_UnknownField(t *testing.T) {
	_, err := New(map[string]string{"colour": "c"}, nil)
	assert.Error(t, err)
	_, err = New(nil, map[string]Extractor{"colour": nil})
	assert.Error(t, err)
}

func TestInts(t *testing.T) {
	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(`{"breakpoints":[{"width":320},{"width":640.0},"x",1280]}`), &raw))
	assert.Equal(t, []int{320, 640, 1280}, Default().Ints(raw, Breakpoints))
	assert.Nil(t, Default().Ints(map[string]any{"breakpoints": "nope"}, Breakpoints))
}

func TestPath_NonMapIntermediate(t *testing.T) {
	_, ok := Path("a.b")(map[string]any{"a": "str"})
	assert.False(t, ok)
}
