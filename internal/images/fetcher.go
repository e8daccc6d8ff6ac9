package images

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const defaultTimeout = 10 * time.Second

// FetcherConfig configures the external image resolver.
type FetcherConfig struct {
	// BaseURL is the image service endpoint, e.g. https://cataas.com/cat.
	BaseURL string
	// Placeholder is returned whenever the external fetch cannot produce a URL.
	Placeholder string
	Timeout     time.Duration
	// Transport allows tests to intercept the outbound request.
	Transport http.RoundTripper
	Clock     func() time.Time
	Logger    *zap.Logger
}

// Fetcher resolves a fresh image URL from an external cat image service.
// Resolution never fails: any error degrades to the placeholder reference.
type Fetcher struct {
	baseURL     string
	placeholder string
	client      *http.Client
	clock       func() time.Time
	logger      *zap.Logger
}

// NewFetcher constructs a Fetcher with sane defaults.
func NewFetcher(cfg FetcherConfig) *Fetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	client := &http.Client{
		Timeout: timeout,
		// The image service answers with a redirect to the concrete image;
		// the Location header is the value we want, not the image bytes.
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	if cfg.Transport != nil {
		client.Transport = cfg.Transport
	}
	return &Fetcher{
		baseURL:     cfg.BaseURL,
		placeholder: cfg.Placeholder,
		client:      client,
		clock:       clock,
		logger:      logger,
	}
}

// Resolve returns a unique image URL, or the placeholder when the external
// service is unreachable or answers with something unusable.
func (f *Fetcher) Resolve(ctx context.Context) string {
	if f.baseURL == "" {
		return f.placeholder
	}

	// Cache-busting timestamp forces the service to pick a new image.
	requestURL := fmt.Sprintf("%s?_ts=%d", f.baseURL, f.clock().UnixMilli())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		f.logger.Warn("image request build failed", zap.Error(err))
		return f.placeholder
	}

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Warn("image fetch failed", zap.Error(err))
		return f.placeholder
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusFound || resp.StatusCode == http.StatusTemporaryRedirect:
		if location := resp.Header.Get("Location"); location != "" {
			return location
		}
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if resp.Request != nil && resp.Request.URL != nil {
			return resp.Request.URL.String()
		}
	}

	f.logger.Warn("image service returned unusable response", zap.Int("status", resp.StatusCode))
	return f.placeholder
}
