package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/AnyUserName/imgcdn-cli/internal/imagedata"
	"github.com/AnyUserName/imgcdn-cli/internal/manifest"
)

// Config holds the parameters of a resolve run.
type Config struct {
	Profile   string
	Account   string
	Workers   int
	CacheSize int
	// Query applies to items without their own.
	Query imagedata.Query
}

// Pipeline resolves many items concurrently into a manifest.
type Pipeline struct {
	cfg      Config
	resolver Resolver
	logger   *slog.Logger
}

// New creates a configured pipeline.
func New(resolver Resolver, cfg Config, logger *slog.Logger) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{cfg: cfg, resolver: resolver, logger: logger}
}

// Run resolves every item and returns the manifest. Items that resolve to
// nothing are counted as skipped. Run fails only when no item resolved
// and at least one failed outright.
func (p *Pipeline) Run(ctx context.Context, items []Item) (*manifest.Manifest, error) {
	if len(items) == 0 {
		return nil, errors.New("no sources to resolve")
	}
	p.logger.Debug("resolving sources", "count", len(items), "workers", p.cfg.Workers)

	results := make([]processResult, len(items))
	var wg sync.WaitGroup
	sem := make(chan struct{}, p.cfg.Workers)

	for i, item := range items {
		wg.Add(1)
		go func(idx int, it Item) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results[idx] = processItem(ctx, p.resolver, it, p.cfg.Query)
		}(i, item)
	}
	wg.Wait()

	m := manifest.New(p.cfg.Profile)
	m.Account = p.cfg.Account
	m.BuildInfo = &manifest.BuildInfo{Workers: p.cfg.Workers, CacheSize: p.cfg.CacheSize}
	m.Stats.TotalSources = len(items)

	var errs []error
	for _, r := range results {
		switch {
		case r.err != nil:
			errs = append(errs, fmt.Errorf("%s: %w", r.key, r.err))
		case r.skipped:
			m.Stats.Skipped++
		default:
			m.Images[r.key] = *r.data
		}
	}

	if len(errs) > 0 {
		for _, e := range errs {
			p.logger.Error("resolve failed", "error", e)
		}
		if len(m.Images) == 0 {
			return nil, fmt.Errorf("all %d sources failed: %w", len(errs), errors.Join(errs...))
		}
		p.logger.Warn("some sources had errors", "failed", len(errs), "total", len(items))
	}

	m.ComputeStats()
	return m, nil
}
