package imagedata

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/AnyUserName/imgcdn-cli/internal/cdnurl"
	"github.com/AnyUserName/imgcdn-cli/internal/config"
	"github.com/AnyUserName/imgcdn-cli/internal/geometry"
	"github.com/AnyUserName/imgcdn-cli/internal/placeholder"
	"github.com/AnyUserName/imgcdn-cli/internal/srcset"
)

var (
	// ErrMissingIdentity means the account or public id is absent.
	ErrMissingIdentity = errors.New("missing asset identity")
	// ErrMetadataUnavailable means no valid original dimensions could be
	// found or fetched.
	ErrMetadataUnavailable = errors.New("asset metadata unavailable")
	// ErrNoCandidates means geometry produced an empty srcset.
	ErrNoCandidates = errors.New("no srcset candidates")
)

// State names the resolution steps; it appears in diagnostics.
type State string

const (
	ValidatingIdentity    State = "validating_identity"
	ResolvingMetadata     State = "resolving_metadata"
	ComputingGeometry     State = "computing_geometry"
	GeneratingPlaceholder State = "generating_placeholder"
	Done                  State = "done"
)

// Fetcher is the network side used by the resolver. fetchcache.Cache
// implements it.
type Fetcher interface {
	placeholder.Fetcher
	FetchJSON(ctx context.Context, url string, out any) error
}

// Resolver turns sources into ImageData. It is safe for concurrent use.
type Resolver struct {
	opts         config.Options
	fetcher      Fetcher
	placeholders *placeholder.Generator
	logger       *slog.Logger
}

// NewResolver creates a Resolver. All network access goes through fetcher.
func NewResolver(opts config.Options, fetcher Fetcher, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		opts:         opts,
		fetcher:      fetcher,
		placeholders: placeholder.New(fetcher, opts.Placeholder),
		logger:       logger,
	}
}

// infoResponse is the part of the fl_getinfo JSON read here. Output holds
// the dimensions after the upload-time transformations.
type infoResponse struct {
	Output Metadata `json:"output"`
}

// Resolve produces the image data for src under q. On failure it returns
// nil and an error wrapping ErrMissingIdentity or ErrMetadataUnavailable;
// the result is never partially populated. Placeholder failures are
// logged and leave the placeholder empty.
func (r *Resolver) Resolve(ctx context.Context, src Source, q Query) (*ImageData, error) {
	id, err := r.validateIdentity(src)
	if err != nil {
		return nil, err
	}
	log := r.logger.With("account", id.Account, "public_id", id.PublicID)

	meta, err := r.resolveMetadata(ctx, id, src, q)
	if err != nil {
		log.Debug("skipping image: metadata unavailable", "state", ResolvingMetadata, "error", err)
		return nil, err
	}

	data, req, err := r.computeGeometry(log, id, src, meta, q)
	if err != nil {
		log.Debug("skipping image", "state", ComputingGeometry, "error", err)
		return nil, err
	}

	if q.Placeholder != placeholder.None {
		r.generatePlaceholder(ctx, log, id, src, req, q.Placeholder, data)
	}

	log.Debug("resolved image", "state", Done, "layout", data.Layout, "candidates", len(data.Entries))
	return data, nil
}

func (r *Resolver) validateIdentity(src Source) (cdnurl.Identity, error) {
	id := src.Identity
	id.Account = strings.TrimSpace(id.Account)
	id.PublicID = strings.TrimSpace(id.PublicID)

	if id.Account == "" && id.PublicID == "" {
		// Most likely not a CDN asset at all.
		r.logger.Debug("skipping source without account and public id", "state", ValidatingIdentity)
		return id, fmt.Errorf("%w: account and public id absent", ErrMissingIdentity)
	}
	if id.Account == "" {
		id.Account = r.opts.Account
	}
	if id.Account == "" || id.PublicID == "" {
		r.logger.Warn("source is missing part of its identity",
			"state", ValidatingIdentity, "account", id.Account, "public_id", id.PublicID)
		return id, fmt.Errorf("%w: account=%q public_id=%q", ErrMissingIdentity, id.Account, id.PublicID)
	}
	return id, nil
}

func (r *Resolver) resolveMetadata(ctx context.Context, id cdnurl.Identity, src Source, q Query) (Metadata, error) {
	if src.Metadata.Complete() {
		return src.Metadata, nil
	}

	infoURL := cdnurl.Build(id, cdnurl.Request{
		Flag:     cdnurl.FlagGetInfo,
		Domain:   r.domain(q),
		Insecure: r.insecure(q),
	})
	var info infoResponse
	if err := r.fetcher.FetchJSON(ctx, infoURL, &info); err != nil {
		return Metadata{}, fmt.Errorf("%w: %w", ErrMetadataUnavailable, err)
	}

	meta := info.Output
	if meta.Width <= 0 || meta.Height <= 0 {
		return Metadata{}, fmt.Errorf("%w: invalid dimensions %dx%d from %s",
			ErrMetadataUnavailable, meta.Width, meta.Height, infoURL)
	}
	if meta.Format == "" {
		meta.Format = "auto"
	}
	return meta, nil
}

func (r *Resolver) computeGeometry(log *slog.Logger, id cdnurl.Identity, src Source, meta Metadata, q Query) (*ImageData, cdnurl.Request, error) {
	layout := q.Layout
	if layout == "" {
		layout = srcset.Fixed
	}

	tokens := r.transformations(q)
	ratio, err := geometry.ResolveAspectRatio(tokens, float64(meta.Width), float64(meta.Height))
	if err != nil {
		log.Warn("ignoring aspect ratio override", "state", ComputingGeometry, "error", err)
	}

	sizeIn := geometry.SizeInput{
		AspectRatio:     ratio,
		RequestedWidth:  float64(q.Width),
		RequestedHeight: float64(q.Height),
		OriginalWidth:   float64(meta.Width),
		OriginalHeight:  float64(meta.Height),
		DefaultWidth:    float64(r.opts.FixedWidth),
	}

	var (
		breakpoints []int
		sizesWidth  int
	)
	if layout == srcset.Fluid {
		maxWidth := r.opts.FluidMaxWidth
		if q.MaxWidth > 0 {
			maxWidth = min(maxWidth, q.MaxWidth)
		}
		if q.Width > 0 {
			maxWidth = min(maxWidth, q.Width)
		}
		bpIn := geometry.BreakpointInput{
			Explicit:      q.Breakpoints,
			MinWidth:      r.opts.FluidMinWidth,
			MaxWidth:      maxWidth,
			MaxCount:      r.opts.BreakpointsMaxImages,
			OriginalWidth: meta.Width,
		}
		if len(bpIn.Explicit) == 0 {
			bpIn.Explicit = src.Breakpoints
		}
		breakpoints = geometry.PlanBreakpoints(bpIn)
		sizesWidth = bpIn.EffectiveMax()
		sizeIn.DefaultWidth = float64(sizesWidth)
	}

	display := geometry.ResolveDisplaySize(sizeIn)
	req := cdnurl.Request{
		Transformations: tokens,
		Chained:         q.Chained,
		Format:          q.Format,
		Domain:          r.domain(q),
		Insecure:        r.insecure(q),
	}
	set := srcset.Build(srcset.Input{
		Identity:      id,
		Request:       req,
		Display:       display,
		BothExplicit:  sizeIn.Mode() == geometry.SizeBoth,
		Breakpoints:   breakpoints,
		OriginalWidth: meta.Width,
		SizesWidth:    sizesWidth,
		Layout:        layout,
	})
	if set.Src == "" {
		return nil, req, ErrNoCandidates
	}

	w, h := display.Rounded()
	data := &ImageData{
		Layout:      layout,
		Src:         set.Src,
		SrcSet:      set.SrcSet,
		Sizes:       set.Sizes,
		AspectRatio: ratio,
		Entries:     set.Entries,
	}
	if layout == srcset.Fluid {
		data.PresentationWidth, data.PresentationHeight = w, h
	} else {
		data.Width, data.Height = w, h
	}
	return data, req, nil
}

func (r *Resolver) generatePlaceholder(ctx context.Context, log *slog.Logger, id cdnurl.Identity, src Source, req cdnurl.Request, kind placeholder.Kind, data *ImageData) {
	in := placeholder.Input{Identity: id, Kind: kind, Request: req}
	switch kind {
	case placeholder.Blurred:
		in.Override = src.DefaultBase64
	case placeholder.TracedSVG:
		in.Override = src.DefaultTracedSVG
	case placeholder.DominantColor:
		in.Override = src.DominantColor
	}

	value, err := r.placeholders.Generate(ctx, in)
	if err != nil {
		log.Error("placeholder omitted", "state", GeneratingPlaceholder, "kind", kind, "error", err)
		return
	}
	if kind == placeholder.DominantColor {
		data.BackgroundColor = value
	} else {
		data.Placeholder = value
	}
}

// transformations returns the primary tokens: the query's own list or the
// configured defaults, plus an ar_ token for a requested aspect ratio.
func (r *Resolver) transformations(q Query) []string {
	src := q.Transformations
	if src == nil {
		src = r.opts.DefaultTransformations
	}
	tokens := append([]string(nil), src...)
	if q.AspectRatio > 0 && !hasToken(tokens, "ar_") {
		tokens = append(tokens, "ar_"+strconv.FormatFloat(q.AspectRatio, 'f', -1, 64))
	}
	return tokens
}

func (r *Resolver) domain(q Query) cdnurl.Domain {
	if q.Domain != nil {
		return *q.Domain
	}
	return r.opts.Domain
}

func (r *Resolver) insecure(q Query) bool {
	if q.Insecure != nil {
		return *q.Insecure
	}
	return r.opts.Insecure
}

func hasToken(tokens []string, prefix string) bool {
	for _, t := range tokens {
		if strings.HasPrefix(strings.TrimSpace(t), prefix) {
			return true
		}
	}
	return false
}
