// Package fetchcache de-duplicates and memoizes outbound fetches keyed by
// their final URL.
//
// Concurrent callers asking for the same key share one in-flight request.
// Successful responses are kept in a bounded LRU; failures are never
// cached, so the next caller retries.
package fetchcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/AnyUserName/imgcdn-cli/internal/hasher"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

// ErrUpstreamFetchFailed wraps every error returned by the Fetcher.
var ErrUpstreamFetchFailed = errors.New("upstream fetch failed")

// Kind tells the fetcher what kind of body is expected.
type Kind string

const (
	Bytes Kind = "bytes"
	JSON  Kind = "json"
)

// Options are part of the cache key: the same URL fetched with different
// options is cached separately.
type Options struct {
	Kind   Kind
	Accept string
}

func (o Options) signature() string {
	return hasher.Signature(string(o.Kind), o.Accept)
}

// Fetcher performs the actual network call.
type Fetcher interface {
	Fetch(ctx context.Context, url string, opts Options) ([]byte, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, url string, opts Options) ([]byte, error)

func (f FetcherFunc) Fetch(ctx context.Context, url string, opts Options) ([]byte, error) {
	return f(ctx, url, opts)
}

// Config bounds the cache. Zero values mean unbounded size and no expiry.
type Config struct {
	Size int           `yaml:"size"`
	TTL  time.Duration `yaml:"ttl"`
}

// Cache is safe for concurrent use.
type Cache struct {
	fetcher Fetcher
	entries *expirable.LRU[string, []byte]
	group   singleflight.Group
	fetches atomic.Int64
	logger  *slog.Logger
}

// New creates a cache in front of fetcher.
func New(fetcher Fetcher, cfg Config, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		fetcher: fetcher,
		entries: expirable.NewLRU[string, []byte](cfg.Size, nil, cfg.TTL),
		logger:  logger,
	}
}

// FetchOnce returns the body at url, issuing at most one network call per
// key at a time. The shared call is detached from the caller's
// cancellation: once issued it runs to completion and its result is cached
// for the callers that follow.
func (c *Cache) FetchOnce(ctx context.Context, url string, opts Options) ([]byte, error) {
	key := url + "#" + opts.signature()
	if body, ok := c.entries.Get(key); ok {
		return body, nil
	}

	v, err, shared := c.group.Do(key, func() (any, error) {
		if body, ok := c.entries.Get(key); ok {
			return body, nil
		}
		n := c.fetches.Add(1)
		c.logger.Debug("fetching remote asset", "url", url, "kind", opts.Kind, "fetch", n)

		body, err := c.fetcher.Fetch(context.WithoutCancel(ctx), url, opts)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrUpstreamFetchFailed, url, err)
		}
		c.entries.Add(key, body)
		return body, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.Debug("joined in-flight fetch", "url", url)
	}
	return v.([]byte), nil
}

// FetchJSON fetches url through the cache and decodes it into out.
func (c *Cache) FetchJSON(ctx context.Context, url string, out any) error {
	body, err := c.FetchOnce(ctx, url, Options{Kind: JSON, Accept: "application/json"})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

// Fetches returns the number of network calls issued so far.
func (c *Cache) Fetches() int64 {
	return c.fetches.Load()
}

// Len returns the number of cached responses.
func (c *Cache) Len() int {
	return c.entries.Len()
}
