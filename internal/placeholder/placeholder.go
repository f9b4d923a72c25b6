// Package placeholder produces small stand-in images shown before the full
// asset loads: a blurred raster, a traced SVG outline or a dominant color.
package placeholder

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/url"
	"strconv"
	"strings"

	"github.com/AnyUserName/imgcdn-cli/internal/cdnurl"
	"github.com/AnyUserName/imgcdn-cli/internal/encoder"
	"github.com/AnyUserName/imgcdn-cli/internal/fetchcache"
	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrPlaceholderFetchFailed wraps any failure while building a placeholder.
var ErrPlaceholderFetchFailed = errors.New("placeholder fetch failed")

// Kind selects the placeholder flavor.
type Kind string

const (
	None          Kind = ""
	Blurred       Kind = "blurred"
	TracedSVG     Kind = "tracedSVG"
	DominantColor Kind = "dominantColor"
)

// ParseKind accepts the canonical names plus a few aliases.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return None, nil
	case "blurred", "base64", "blur":
		return Blurred, nil
	case "tracedsvg", "traced_svg", "traced":
		return TracedSVG, nil
	case "dominantcolor", "dominant_color", "color":
		return DominantColor, nil
	default:
		return None, fmt.Errorf("unknown placeholder kind %q", s)
	}
}

// TracedConfig holds the fixed vectorization parameters.
type TracedConfig struct {
	Colors    int     `yaml:"colors"`
	Detail    float64 `yaml:"detail"`
	Despeckle float64 `yaml:"despeckle"`
	Width     int     `yaml:"width"`
}

// Token renders the e_vectorize effect token.
func (c TracedConfig) Token() string {
	return fmt.Sprintf("e_vectorize:colors:%d:detail:%s:despeckle:%s",
		c.Colors,
		strconv.FormatFloat(c.Detail, 'f', -1, 64),
		strconv.FormatFloat(c.Despeckle, 'f', -1, 64),
	)
}

// Config configures a Generator.
type Config struct {
	Base64Width int          `yaml:"base64_width"`
	BlurSigma   float64      `yaml:"blur_sigma"` // 0 embeds the CDN preview bytes as-is
	Quality     int          `yaml:"quality"`
	Traced      TracedConfig `yaml:"traced_svg"`
}

// Fetcher is the subset of fetchcache.Cache used here.
type Fetcher interface {
	FetchOnce(ctx context.Context, url string, opts fetchcache.Options) ([]byte, error)
}

// Input describes one placeholder request.
type Input struct {
	Identity cdnurl.Identity
	Kind     Kind
	// Request carries the base transformations the preview inherits.
	Request cdnurl.Request
	// Override is a precomputed placeholder returned without any fetch.
	Override string
}

// Generator builds placeholders through a shared fetch cache.
type Generator struct {
	fetcher  Fetcher
	cfg      Config
	encoders *encoder.Registry
}

// New creates a Generator.
func New(fetcher Fetcher, cfg Config) *Generator {
	return &Generator{
		fetcher:  fetcher,
		cfg:      cfg,
		encoders: encoder.NewRegistry(),
	}
}

var previewAccept = fetchcache.Options{Kind: fetchcache.Bytes, Accept: "image/jpeg"}

// Generate returns the placeholder for in. Blurred placeholders are the
// preview bytes as a data:image/jpeg;base64 URI; with BlurSigma set the
// preview is blurred and re-encoded (PNG when it has transparency).
// Traced ones are data:image/svg+xml URIs, dominant colors "#rrggbb".
func (g *Generator) Generate(ctx context.Context, in Input) (string, error) {
	if in.Override != "" {
		return in.Override, nil
	}

	var (
		out string
		err error
	)
	switch in.Kind {
	case None:
		return "", nil
	case Blurred:
		out, err = g.blurred(ctx, in)
	case TracedSVG:
		out, err = g.traced(ctx, in)
	case DominantColor:
		out, err = g.dominantColor(ctx, in)
	default:
		return "", fmt.Errorf("%w: unknown kind %q", ErrPlaceholderFetchFailed, in.Kind)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %s %s: %w", ErrPlaceholderFetchFailed, in.Kind, in.Identity.PublicID, err)
	}
	return out, nil
}

// PreviewURL is the low resolution JPEG URL shared by blurred and
// dominant color placeholders.
func (g *Generator) PreviewURL(id cdnurl.Identity, req cdnurl.Request) string {
	base := cdnurl.WithoutPrefix(req.Transformations, "f_")
	req.Transformations = cdnurl.WithSize(base, g.cfg.Base64Width, 0)
	req.Format = "jpg"
	return cdnurl.Build(id, req)
}

// TracedURL is the vectorized SVG URL.
func (g *Generator) TracedURL(id cdnurl.Identity, req cdnurl.Request) string {
	base := cdnurl.WithoutPrefix(req.Transformations, "f_")
	req.Transformations = cdnurl.WithSize(base, g.cfg.Traced.Width, 0)
	req.Format = "svg"
	chained := make([][]string, 0, len(req.Chained)+1)
	chained = append(chained, req.Chained...)
	req.Chained = append(chained, []string{g.cfg.Traced.Token()})
	return cdnurl.Build(id, req)
}

func (g *Generator) blurred(ctx context.Context, in Input) (string, error) {
	body, err := g.fetchPreviewBytes(ctx, in)
	if err != nil {
		return "", err
	}
	if g.cfg.BlurSigma <= 0 {
		return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(body), nil
	}

	img, err := decode(body)
	if err != nil {
		return "", err
	}
	img = imaging.Blur(img, g.cfg.BlurSigma)
	enc := g.encoders.ForImage(img)
	data, err := enc.Encode(img, g.cfg.Quality)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", enc.Format(), err)
	}
	return "data:" + enc.MimeType() + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func (g *Generator) traced(ctx context.Context, in Input) (string, error) {
	body, err := g.fetcher.FetchOnce(ctx, g.TracedURL(in.Identity, in.Request),
		fetchcache.Options{Kind: fetchcache.Bytes, Accept: "image/svg+xml"})
	if err != nil {
		return "", err
	}
	return SVGDataURI(string(body)), nil
}

func (g *Generator) dominantColor(ctx context.Context, in Input) (string, error) {
	img, err := g.fetchPreview(ctx, in)
	if err != nil {
		return "", err
	}
	c := averageColor(img)
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]), nil
}

func (g *Generator) fetchPreview(ctx context.Context, in Input) (image.Image, error) {
	body, err := g.fetchPreviewBytes(ctx, in)
	if err != nil {
		return nil, err
	}
	return decode(body)
}

func (g *Generator) fetchPreviewBytes(ctx context.Context, in Input) ([]byte, error) {
	body, err := g.fetcher.FetchOnce(ctx, g.PreviewURL(in.Identity, in.Request), previewAccept)
	if err != nil {
		return nil, err
	}
	if mt := mimetype.Detect(body); !strings.HasPrefix(mt.String(), "image/") {
		return nil, fmt.Errorf("preview is %s, not an image", mt.String())
	}
	return body, nil
}

func decode(body []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("decode preview: %w", err)
	}
	return img, nil
}

// SVGDataURI percent-encodes svg into a data URI. url.PathUnescape on the
// payload recovers the original text.
func SVGDataURI(svg string) string {
	return "data:image/svg+xml," + url.PathEscape(svg)
}

// averageColor calculates the average RGB color of an image.
func averageColor(img image.Image) [3]uint8 {
	bounds := img.Bounds()
	count := uint64(bounds.Dx()) * uint64(bounds.Dy())
	if count == 0 {
		return [3]uint8{}
	}
	var rSum, gSum, bSum uint64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			rSum += uint64(r >> 8)
			gSum += uint64(g >> 8)
			bSum += uint64(b >> 8)
		}
	}
	return [3]uint8{
		uint8(rSum / count),
		uint8(gSum / count),
		uint8(bSum / count),
	}
}
