package pipeline

import (
	"context"
	"errors"

	"github.com/AnyUserName/imgcdn-cli/internal/imagedata"
)

// Resolver is the per-image resolution step. imagedata.Resolver
// implements it.
type Resolver interface {
	Resolve(ctx context.Context, src imagedata.Source, q imagedata.Query) (*imagedata.ImageData, error)
}

// processResult holds the outcome for one item.
type processResult struct {
	key     string
	data    *imagedata.ImageData
	skipped bool // resolved to nothing; already logged by the resolver
	err     error
}

// processItem resolves one item under its own query or the run default.
func processItem(ctx context.Context, r Resolver, item Item, def imagedata.Query) processResult {
	result := processResult{key: item.Key}
	if err := ctx.Err(); err != nil {
		result.err = err
		return result
	}

	q := def
	if item.Query != nil {
		q = *item.Query
	}
	q, err := q.Normalize()
	if err != nil {
		result.err = err
		return result
	}

	data, err := r.Resolve(ctx, item.Source, q)
	switch {
	case errors.Is(err, imagedata.ErrMissingIdentity), errors.Is(err, imagedata.ErrMetadataUnavailable):
		result.skipped = true
	case err != nil:
		result.err = err
	default:
		result.data = data
	}
	return result
}
