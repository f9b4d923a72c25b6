package fetchcache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/time/rate"
)

// DefaultMaxBodyBytes caps a single response body.
const DefaultMaxBodyBytes = 8 << 20

// HTTPConfig configures HTTPFetcher.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	RateLimit    float64       `yaml:"rate_limit"` // requests per second, 0 = unlimited
	Burst        int           `yaml:"burst"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
	UserAgent    string        `yaml:"user_agent"`
	Retries      int           `yaml:"retries"`    // extra attempts after a transient failure
	RetryWait    time.Duration `yaml:"retry_wait"` // first backoff interval
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.Code)
}

// Temporary reports whether a retry may succeed.
func (e *StatusError) Temporary() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

// HTTPFetcher fetches over plain HTTP GET.
type HTTPFetcher struct {
	client    *http.Client
	limiter   *rate.Limiter
	maxBody   int64
	userAgent string
	retries   int
	retryWait time.Duration
}

// NewHTTPFetcher builds a fetcher from cfg.
func NewHTTPFetcher(cfg HTTPConfig) *HTTPFetcher {
	f := &HTTPFetcher{
		client:    &http.Client{Timeout: cfg.Timeout},
		maxBody:   cfg.MaxBodyBytes,
		userAgent: cfg.UserAgent,
		retries:   max(cfg.Retries, 0),
		retryWait: cfg.RetryWait,
	}
	if f.retryWait <= 0 {
		f.retryWait = backoff.DefaultInitialInterval
	}
	if f.maxBody <= 0 {
		f.maxBody = DefaultMaxBodyBytes
	}
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		f.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return f
}

// Fetch implements Fetcher. Network errors, 429 and 5xx responses are
// retried with exponential backoff up to the configured retry count.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string, opts Options) ([]byte, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = f.retryWait

	return backoff.Retry(ctx, func() ([]byte, error) {
		body, err := f.get(ctx, url, opts)
		var se *StatusError
		if errors.As(err, &se) && !se.Temporary() {
			return nil, backoff.Permanent(err)
		}
		return body, err
	}, backoff.WithBackOff(b), backoff.WithMaxTries(uint(f.retries)+1))
}

func (f *HTTPFetcher) get(ctx context.Context, url string, opts Options) ([]byte, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, backoff.Permanent(fmt.Errorf("rate limit: %w", err))
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	if accept := acceptHeader(opts); accept != "" {
		req.Header.Set("Accept", accept)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{URL: url, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > f.maxBody {
		return nil, backoff.Permanent(fmt.Errorf("body exceeds %d bytes", f.maxBody))
	}
	return body, nil
}

func acceptHeader(opts Options) string {
	if opts.Accept != "" {
		return opts.Accept
	}
	if opts.Kind == JSON {
		return "application/json"
	}
	return ""
}
