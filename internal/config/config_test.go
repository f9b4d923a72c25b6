package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	o := Default("")
	require.NoError(t, o.Validate())
	assert.Equal(t, "default", o.Profile)
	assert.Equal(t, 200, o.FluidMinWidth)
	assert.Equal(t, 1000, o.FluidMaxWidth)
	assert.Equal(t, 400, o.FixedWidth)
	assert.Equal(t, 30, o.Placeholder.Base64Width)
	assert.Equal(t, []string{"c_fill", "g_auto", "q_auto"}, o.DefaultTransformations)
}

func TestLoad(t *testing.T) {
	raw := `
account: demo
profile: minimal
fluid_max_width: 1200
transformations: ["c_scale"]
domain:
  cname: img.example.com
placeholder:
  blur_sigma: 2.5
cache:
  size: 10
  ttl: 10m
http:
  rate_limit: 5
  timeout: 3s
fields:
  public_id: cloudinary.publicId
`
	path := filepath.Join(t.TempDir(), "imgcdn.yaml")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	o, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "demo", o.Account)
	assert.Equal(t, "minimal", o.Profile)
	assert.Equal(t, 320, o.FluidMinWidth, "profile default kept")
	assert.Equal(t, 1200, o.FluidMaxWidth)
	assert.Equal(t, []string{"c_scale"}, o.DefaultTransformations)
	assert.Equal(t, "img.example.com", o.Domain.CNAME)
	assert.Equal(t, 2.5, o.Placeholder.BlurSigma)
	assert.Equal(t, 20, o.Placeholder.Base64Width)
	assert.Equal(t, 10*time.Minute, o.Cache.TTL)
	assert.Equal(t, 3*time.Second, o.HTTP.Timeout)
	assert.Equal(t, 5.0, o.HTTP.RateLimit)
	assert.Equal(t, "cloudinary.publicId", o.Fields["public_id"])
}

func TestParse_Empty(t *testing.T) {
	o, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(""), o)
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse([]byte("fluid_maxwidth: 3\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	o := Default("")
	o.FluidMinWidth = 500
	o.FluidMaxWidth = 100
	o.BreakpointsMaxImages = 0
	err := o.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fluid_max_width")
	assert.Contains(t, err.Error(), "breakpoints_max_images")
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
