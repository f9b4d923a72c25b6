// Package encoder re-encodes decoded previews for embedding as data URIs.
package encoder

import (
	"image"
)

// Encoder encodes an image to a specific format.
type Encoder interface {
	// Format returns the output format name ("jpeg", "png").
	Format() string

	// MimeType returns the media type used in data URIs.
	MimeType() string

	// Encode converts the image to bytes at the given quality (1-100).
	// Lossless encoders ignore quality.
	Encode(img image.Image, quality int) ([]byte, error)
}
