// Package source resolves an image reference, either a local path or an
// http(s) URL, into its raw bytes.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ysfklc/DigitalBrochure-sub001/pkg/types"
)

// DefaultTimeout bounds a remote fetch, including reading the body
const DefaultTimeout = 30 * time.Second

const userAgent = "DigitalBrochure/1.0"

// Fetcher resolves sources to bytes
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures a Fetcher
type Option func(*Fetcher)

// WithTimeout overrides the remote fetch deadline
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithHTTPClient sets the client used for remote fetches
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(f *Fetcher) {
		if l != nil {
			f.logger = l
		}
	}
}

// NewFetcher creates a Fetcher with a 30 second remote deadline
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:  &http.Client{},
		timeout: DefaultTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// IsRemote reports whether source is fetched over the network
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Resolve returns the bytes behind source. Remote sources are fetched once,
// without retries, and abandoned with types.ErrFetchTimeout when the deadline passes.
func (f *Fetcher) Resolve(ctx context.Context, source string) ([]byte, error) {
	if !IsRemote(source) {
		return f.readFile(source)
	}
	return f.fetch(ctx, source)
}

func (f *Fetcher) readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &types.FilesystemError{Op: "read", Path: path, Err: err}
	}
	return data, nil
}

func (f *Fetcher) fetch(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, f.classify(ctx, url, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &types.FetchFailedError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, f.classify(ctx, url, err)
	}

	f.logger.Debug("fetched source", "url", url, "bytes", len(data), "elapsed", time.Since(start))
	return data, nil
}

// classify maps a transport error to the fetch timeout when our own deadline fired
func (f *Fetcher) classify(ctx context.Context, url string, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		f.logger.Warn("source fetch timed out", "url", url, "timeout", f.timeout)
		return fmt.Errorf("%w after %s: %s", types.ErrFetchTimeout, f.timeout, url)
	}
	return fmt.Errorf("failed to download source: %w", err)
}
