// Package imagedata resolves a source asset description and query
// arguments into the responsive image data consumed by page templates.
package imagedata

import (
	"github.com/AnyUserName/imgcdn-cli/internal/cdnurl"
	"github.com/AnyUserName/imgcdn-cli/internal/fieldmap"
	"github.com/AnyUserName/imgcdn-cli/internal/placeholder"
	"github.com/AnyUserName/imgcdn-cli/internal/srcset"
)

// Metadata describes the original asset.
type Metadata struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format,omitempty"`
}

// Complete reports whether no remote lookup is needed.
func (m Metadata) Complete() bool {
	return m.Width > 0 && m.Height > 0 && m.Format != ""
}

// Source is one asset reference as found in site content or an upload
// result.
type Source struct {
	Identity cdnurl.Identity
	Metadata Metadata

	// Precomputed placeholders, used verbatim when present.
	DefaultBase64    string
	DefaultTracedSVG string
	DominantColor    string

	// Breakpoints computed by the CDN at upload time, ascending.
	Breakpoints []int
}

// SourceFromMap reads a Source out of a raw object through m.
func SourceFromMap(m *fieldmap.Mapping, raw map[string]any) Source {
	return Source{
		Identity: cdnurl.Identity{
			Account:  m.String(raw, fieldmap.Account),
			PublicID: m.String(raw, fieldmap.PublicID),
			Version:  m.String(raw, fieldmap.Version),
		},
		Metadata: Metadata{
			Width:  m.Int(raw, fieldmap.Width),
			Height: m.Int(raw, fieldmap.Height),
			Format: m.String(raw, fieldmap.Format),
		},
		DefaultBase64:    m.String(raw, fieldmap.DefaultBase64),
		DefaultTracedSVG: m.String(raw, fieldmap.DefaultTracedSVG),
		DominantColor:    m.String(raw, fieldmap.DominantColor),
		Breakpoints:      m.Ints(raw, fieldmap.Breakpoints),
	}
}

// Query holds the per-request arguments. Zero values mean "not set".
type Query struct {
	Layout srcset.Layout `yaml:"layout" json:"layout,omitempty"`
	Width  int           `yaml:"width" json:"width,omitempty"`
	Height int           `yaml:"height" json:"height,omitempty"`
	// MaxWidth caps fluid breakpoints below the configured maximum.
	MaxWidth    int     `yaml:"max_width" json:"max_width,omitempty"`
	AspectRatio float64 `yaml:"aspect_ratio" json:"aspect_ratio,omitempty"`

	// Transformations replaces the configured defaults when non-nil.
	Transformations []string   `yaml:"transformations" json:"transformations,omitempty"`
	Chained         [][]string `yaml:"chained" json:"chained,omitempty"`
	Format          string     `yaml:"format" json:"format,omitempty"`

	Placeholder placeholder.Kind `yaml:"placeholder" json:"placeholder,omitempty"`
	Breakpoints []int            `yaml:"breakpoints" json:"breakpoints,omitempty"`

	// Domain and Insecure override the configured delivery host.
	Domain   *cdnurl.Domain `yaml:"domain" json:"domain,omitempty"`
	Insecure *bool          `yaml:"insecure" json:"insecure,omitempty"`
}

// ImageData is the resolved result. Fixed layouts carry Width/Height,
// fluid layouts PresentationWidth/PresentationHeight and Sizes.
type ImageData struct {
	Layout             srcset.Layout  `json:"layout"`
	Src                string         `json:"src"`
	SrcSet             string         `json:"srcset"`
	Sizes              string         `json:"sizes,omitempty"`
	Width              int            `json:"width,omitempty"`
	Height             int            `json:"height,omitempty"`
	AspectRatio        float64        `json:"aspect_ratio"`
	PresentationWidth  int            `json:"presentation_width,omitempty"`
	PresentationHeight int            `json:"presentation_height,omitempty"`
	Placeholder        string         `json:"placeholder,omitempty"`
	BackgroundColor    string         `json:"background_color,omitempty"`
	Entries            []srcset.Entry `json:"entries"`
}

// Normalize canonicalizes the layout and placeholder names, so aliases
// such as "constrained" or "base64" read from files are accepted.
func (q Query) Normalize() (Query, error) {
	layout, err := srcset.ParseLayout(string(q.Layout))
	if err != nil {
		return q, err
	}
	kind, err := placeholder.ParseKind(string(q.Placeholder))
	if err != nil {
		return q, err
	}
	q.Layout, q.Placeholder = layout, kind
	return q, nil
}
