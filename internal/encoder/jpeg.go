package encoder

import (
	"bytes"
	"image"
	"image/jpeg"
)

// DefaultJPEGQuality is used when quality is out of range.
const DefaultJPEGQuality = 70

// JPEGEncoder encodes images to JPEG using Go's standard library.
type JPEGEncoder struct{}

func (e *JPEGEncoder) Format() string   { return "jpeg" }
func (e *JPEGEncoder) MimeType() string { return "image/jpeg" }

func (e *JPEGEncoder) Encode(img image.Image, quality int) ([]byte, error) {
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}

	var buf bytes.Buffer
	buf.Grow(4 * 1024) // placeholders are tiny

	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
