// Package serper is a client for the Serper local-business search API.
package serper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/bizscout/internal/resilience"
)

const (
	defaultBaseURL = "https://google.serper.dev"
	defaultTimeout = 15 * time.Second
)

// Client performs Serper place searches.
type Client interface {
	// Places returns the raw JSON body of a places search.
	Places(ctx context.Context, query string) (json.RawMessage, error)
}

// Limiter gates outbound calls. *ratelimit.Gate satisfies it.
type Limiter interface {
	Wait(ctx context.Context) error
}

// ProviderError is returned when Serper answers with a non-2xx status or a
// body that is not JSON. Reason is set only for the latter.
type ProviderError struct {
	StatusCode int
	Body       string
	Reason     string
}

func (e *ProviderError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("serper: %s (status %d): %s", e.Reason, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("serper: unexpected status %d: %s", e.StatusCode, e.Body)
}

// ConnectionError is returned once every attempt failed at the transport level.
type ConnectionError struct {
	Attempts int
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("serper: connection failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithTimeout sets the per-attempt request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *httpClient) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithLimiter sets the gate consulted before every attempt.
func WithLimiter(l Limiter) Option {
	return func(c *httpClient) {
		c.limiter = l
	}
}

// WithRetry overrides the retry policy.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(c *httpClient) {
		c.retry = cfg
	}
}

// WithOnRetry sets a callback invoked before each retry sleep.
func WithOnRetry(fn func(attempt int, err error)) Option {
	return func(c *httpClient) {
		c.retry.OnRetry = fn
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter Limiter
	retry   resilience.RetryConfig
}

type noLimit struct{}

func (noLimit) Wait(context.Context) error { return nil }

// NewClient creates a Serper API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: defaultTimeout,
		},
		limiter: noLimit{},
		retry:   resilience.DefaultRetryConfig(),
	}
	c.retry.OnRetry = resilience.RetryLogger("serper", "places")
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) Places(ctx context.Context, query string) (json.RawMessage, error) {
	cfg := c.retry
	cfg.ShouldRetry = resilience.IsTransient

	attempts := 0
	body, err := resilience.DoVal(ctx, cfg, func(ctx context.Context) ([]byte, error) {
		attempts++
		return c.placesOnce(ctx, query)
	})
	if err != nil {
		var te *resilience.TransientError
		if errors.As(err, &te) && ctx.Err() == nil {
			return nil, &ConnectionError{Attempts: attempts, Err: te.Err}
		}
		return nil, err
	}
	return json.RawMessage(body), nil
}

func (c *httpClient) placesOnce(ctx context.Context, query string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "serper: rate limit")
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("apiKey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/places?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "serper: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, resilience.NewTransientError(eris.Wrap(err, "serper: send request"), 0)
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resilience.NewTransientError(eris.Wrap(err, "serper: read response"), resp.StatusCode)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ProviderError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	if !json.Valid(respBody) {
		return nil, &ProviderError{StatusCode: resp.StatusCode, Body: string(respBody), Reason: "response is not valid JSON"}
	}

	return respBody, nil
}
