package courier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/courierdash/backend/internal/domain/shipping"
)

const (
	// maxResponseSize limits provider response bodies
	maxResponseSize = 2 * 1024 * 1024
	// maxLoggedBody limits how much of a failed response body is logged
	maxLoggedBody = 512
)

// TokenStore caches provider bearer tokens between calls.
// A miss is reported as ("", false, nil).
type TokenStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, token string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// StatusError is returned when a provider answers with a non-2xx status
type StatusError struct {
	Provider   shipping.ProviderCode
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: HTTP %d", e.Provider, e.StatusCode)
}

// Unwrap maps 401/403 to ErrProviderAuthFailed and everything else to ErrProviderRequestFailed
func (e *StatusError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden {
		return shipping.ErrProviderAuthFailed
	}
	return shipping.ErrProviderRequestFailed
}

// IsUnauthorized reports whether err carries an HTTP 401 from a provider
func IsUnauthorized(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusUnauthorized
}

// apiClient is the HTTP plumbing shared by the carrier adapters
type apiClient struct {
	provider   shipping.ProviderCode
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// newAPIClient builds a client; rps <= 0 disables outbound rate limiting.
func newAPIClient(provider shipping.ProviderCode, baseURL string, timeout time.Duration, rps float64, burst int, logger *zap.Logger) *apiClient {
	var limiter *rate.Limiter
	if rps > 0 {
		if burst <= 0 {
			burst = max(1, int(rps))
		}
		limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
	return &apiClient{
		provider: provider,
		baseURL:  strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		limiter: limiter,
		logger:  logger,
	}
}

func (c *apiClient) get(ctx context.Context, path string, query url.Values, header http.Header) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create request: %w", c.provider, err)
	}
	return c.do(req, header)
}

func (c *apiClient) postJSON(ctx context.Context, path string, payload any, header http.Header) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to marshal request: %w", c.provider, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create request: %w", c.provider, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, header)
}

func (c *apiClient) postForm(ctx context.Context, path string, form url.Values, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create request: %w", c.provider, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, header)
}

func (c *apiClient) do(req *http.Request, header http.Header) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return nil, fmt.Errorf("%w: rate limiter: %v", shipping.ErrProviderUnavailable, err)
		}
	}

	req.Header.Set("Accept", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shipping.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read response: %w", c.provider, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet := truncate(string(body), maxLoggedBody)
		c.logger.Debug("provider returned error status",
			zap.String("url", req.URL.Redacted()),
			zap.Int("status", resp.StatusCode),
			zap.String("body", snippet),
		)
		return nil, &StatusError{Provider: c.provider, StatusCode: resp.StatusCode, Body: snippet}
	}
	return body, nil
}

func (c *apiClient) decode(body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		c.logger.Debug("provider returned malformed body", zap.String("body", truncate(string(body), maxLoggedBody)))
		return fmt.Errorf("%w: %s: %v", shipping.ErrProviderInvalidResponse, c.provider, err)
	}
	return nil
}

func bearer(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func loggerOrNop(l *zap.Logger, name string) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l.Named(name)
}
