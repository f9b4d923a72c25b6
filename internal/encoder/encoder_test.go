package encoder

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestRegistry_ForImage(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, "jpeg", r.ForImage(solid(4, 4, color.NRGBA{R: 255, A: 255})).Format())
	assert.Equal(t, "png", r.ForImage(solid(4, 4, color.NRGBA{R: 255, A: 128})).Format())
	assert.Equal(t, "jpeg", r.ForImage(image.NewYCbCr(image.Rect(0, 0, 8, 8), image.YCbCrSubsampleRatio420)).Format())
}

func TestJPEGEncoder_Decodable(t *testing.T) {
	data, err := (&JPEGEncoder{}).Encode(solid(30, 20, color.NRGBA{G: 200, A: 255}), 0)
	require.NoError(t, err)
	img, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 30, img.Bounds().Dx())
}

func TestPNGEncoder_Decodable(t *testing.T) {
	data, err := (&PNGEncoder{}).Encode(solid(8, 8, color.NRGBA{B: 200, A: 10}), 90)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.True(t, HasAlpha(img))
}
