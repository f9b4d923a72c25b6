package encoder

import (
	"image"
)

// Registry holds the placeholder encoders by format name.
type Registry struct {
	encoders map[string]Encoder
}

// NewRegistry creates a registry with the JPEG and PNG encoders.
func NewRegistry() *Registry {
	r := &Registry{encoders: make(map[string]Encoder)}
	for _, enc := range []Encoder{&JPEGEncoder{}, &PNGEncoder{}} {
		r.encoders[enc.Format()] = enc
	}
	return r
}

// ForImage picks PNG for images with transparency and JPEG otherwise.
func (r *Registry) ForImage(img image.Image) Encoder {
	if HasAlpha(img) {
		return r.encoders["png"]
	}
	return r.encoders["jpeg"]
}

// HasAlpha reports whether img has any non-opaque pixel.
func HasAlpha(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return !o.Opaque()
	}
	return false
}
