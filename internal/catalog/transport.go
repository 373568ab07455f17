package catalog

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/floraapp/flora-gateway/internal/id"
	"github.com/floraapp/flora-gateway/internal/ratelimit"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultRPS       = 10.0
	defaultBurst     = 20
	defaultUserAgent = "FloraGateway/1.0"

	// RequestIDHeader carries the correlation id to the catalog service.
	RequestIDHeader = "X-Request-ID"
)

// Transport is the HTTP capability the Client depends on. Implementations
// return *StatusError for non-2xx responses.
type Transport interface {
	Get(ctx context.Context, path string, query url.Values) ([]byte, error)
	Post(ctx context.Context, path string, body any) error
	Put(ctx context.Context, path string, body any) error
	Delete(ctx context.Context, path string) error
}

// StatusError reports a non-2xx response from the catalog service.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Status     string // full status line, e.g. "404 Not Found"
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %s", e.Method, e.Path, e.Status)
}

// StatusText returns the reason phrase, e.g. "Not Found".
func (e *StatusError) StatusText() string {
	text := strings.TrimSpace(strings.TrimPrefix(e.Status, strconv.Itoa(e.StatusCode)))
	if text == "" {
		text = http.StatusText(e.StatusCode)
	}
	return text
}

type requestIDKey struct{}

// WithRequestID attaches a correlation id that HTTPTransport forwards upstream.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFrom returns the correlation id attached to ctx, if any.
func RequestIDFrom(ctx context.Context) string {
	rid, _ := ctx.Value(requestIDKey{}).(string)
	return rid
}

// HTTPTransportConfig configures an HTTPTransport. Zero values take defaults.
type HTTPTransportConfig struct {
	BaseURL   string
	Timeout   time.Duration
	RPS       float64
	Burst     int
	UserAgent string
}

// HTTPTransport is a rate-limited JSON transport over net/http.
type HTTPTransport struct {
	baseURL   *url.URL
	http      *http.Client
	limiter   *ratelimit.KeyedRateLimiter
	userAgent string
	logger    *slog.Logger
}

// NewHTTPTransport creates a transport rooted at cfg.BaseURL.
func NewHTTPTransport(cfg HTTPTransportConfig, logger *slog.Logger) (*HTTPTransport, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", cfg.BaseURL)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.RPS <= 0 {
		cfg.RPS = defaultRPS
	}
	if cfg.Burst <= 0 {
		cfg.Burst = defaultBurst
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}

	return &HTTPTransport{
		baseURL:   base,
		http:      &http.Client{Timeout: cfg.Timeout},
		limiter:   ratelimit.New(cfg.RPS, cfg.Burst),
		userAgent: cfg.UserAgent,
		logger:    logger,
	}, nil
}

// Close releases resources held by the transport.
func (t *HTTPTransport) Close() {
	t.limiter.Stop()
}

// Get issues a GET and returns the response body.
func (t *HTTPTransport) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return t.do(ctx, http.MethodGet, path, query, nil)
}

// Post issues a POST with a JSON body. The response body is discarded.
func (t *HTTPTransport) Post(ctx context.Context, path string, body any) error {
	_, err := t.do(ctx, http.MethodPost, path, nil, body)
	return err
}

// Put issues a PUT with a JSON body. The response body is discarded.
func (t *HTTPTransport) Put(ctx context.Context, path string, body any) error {
	_, err := t.do(ctx, http.MethodPut, path, nil, body)
	return err
}

// Delete issues a DELETE.
func (t *HTTPTransport) Delete(ctx context.Context, path string) error {
	_, err := t.do(ctx, http.MethodDelete, path, nil, nil)
	return err
}

func (t *HTTPTransport) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	if err := t.limiter.Wait(ctx, t.baseURL.Host); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	u := *t.baseURL
	u.Path = t.baseURL.Path + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", t.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rid := RequestIDFrom(ctx)
	if rid == "" {
		rid = id.RequestID()
	}
	req.Header.Set(RequestIDHeader, rid)

	start := time.Now()
	resp, err := t.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	t.logger.Debug("catalog request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
		"request_id", rid,
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
		}
	}

	return respBody, nil
}
