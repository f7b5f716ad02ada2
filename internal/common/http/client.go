// internal/common/http/client.go
package http

import (
	"net/http"
	"time"

	"material-selector/internal/common/logger"
)

// Client is the single outbound HTTP client shared by every model call in a
// process.
type Client struct {
	httpClient *http.Client
}

type Option func(*loggingTransport)

func WithUserAgent(ua string) Option {
	return func(t *loggingTransport) { t.userAgent = ua }
}

func WithLogger(log logger.Logger) Option {
	return func(t *loggingTransport) { t.log = log }
}

// WithTransport replaces the underlying round tripper (tests).
func WithTransport(rt http.RoundTripper) Option {
	return func(t *loggingTransport) { t.next = rt }
}

func NewClient(timeout time.Duration, opts ...Option) *Client {
	transport := &loggingTransport{next: http.DefaultTransport}
	for _, opt := range opts {
		opt(transport)
	}
	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// HTTPClient exposes the configured *http.Client for SDKs that take one.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.httpClient.Do(req)
}

type loggingTransport struct {
	next      http.RoundTripper
	userAgent string
	log       logger.Logger
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.userAgent != "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", t.userAgent)
	}

	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	if t.log == nil {
		return resp, err
	}

	fields := map[string]interface{}{
		"method":     req.Method,
		"host":       req.URL.Host,
		"path":       req.URL.Path,
		"durationMs": time.Since(start).Milliseconds(),
	}
	if err != nil {
		fields["error"] = err.Error()
		t.log.Debug("HTTP request failed", fields)
		return resp, err
	}
	fields["status"] = resp.StatusCode
	t.log.Debug("HTTP request completed", fields)
	return resp, nil
}
