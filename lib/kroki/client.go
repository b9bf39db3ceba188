// Package kroki is a client for the kroki rendering service. It turns
// diagram source into SVG by issuing GETs of the form
// {base}/{language}/svg/{token} where token is the deflate+base64url
// encoding of the source.
package kroki

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/krokify/krokify/lib/urlenc"
)

const (
	DefaultBaseURL = "https://kroki.io"
	DefaultRetries = 3
	DefaultTimeout = 15 * time.Second
)

const svgContentType = "image/svg+xml"

// Config is the immutable connection configuration for one run.
type Config struct {
	// BaseURL must be an absolute http or https URL.
	BaseURL string
	// Retries is the number of retry attempts after a failed try.
	Retries int
	// Timeout bounds each individual request, including each retry.
	Timeout time.Duration
}

// Client issues render requests against one backend. It is safe for
// concurrent use; the underlying transport reuses connections across
// calls.
type Client struct {
	baseURL    *url.URL
	retries    uint64
	httpClient *http.Client

	// backoffInitial is the first retry interval. Tests shrink it.
	backoffInitial time.Duration
}

// ParseBaseURL validates that raw is an absolute http(s) URL.
func ParseBaseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, &ConfigError{Key: "url", Value: raw, Reason: err.Error()}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, &ConfigError{Key: "url", Value: raw, Reason: "scheme must be http or https"}
	}
	if u.Host == "" {
		return nil, &ConfigError{Key: "url", Value: raw, Reason: "missing host"}
	}
	return u, nil
}

// NewClient builds a Client from cfg. An invalid base URL is a
// ConfigError; no request is ever attempted with a bad configuration.
func NewClient(cfg Config) (*Client, error) {
	u, err := ParseBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, err
	}
	if cfg.Retries < 0 {
		return nil, &ConfigError{Key: "http_retries", Value: fmt.Sprint(cfg.Retries), Reason: "must be non-negative"}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:        u,
		retries:        uint64(cfg.Retries),
		httpClient:     &http.Client{Timeout: timeout},
		backoffInitial: 100 * time.Millisecond,
	}, nil
}

// BaseURL returns the configured backend address.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Render requests an SVG rendering of source in the given diagram
// language. Transport failures, timeouts and 5xx responses are retried
// with exponential backoff up to the configured budget; a 2xx response
// with the wrong content type fails immediately.
func (c *Client) Render(ctx context.Context, language, source string) ([]byte, error) {
	token, err := urlenc.Encode(source)
	if err != nil {
		return nil, err
	}
	reqURL := c.baseURL.JoinPath(language, "svg", token).String()

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.backoffInitial
	bo.Multiplier = 2
	bo.RandomizationFactor = 0.5
	bo.MaxElapsedTime = 0

	var body []byte
	attempts := 0
	err = backoff.Retry(func() error {
		attempts++
		b, err := c.get(ctx, reqURL)
		if err != nil {
			return err
		}
		body = b
		return nil
	}, backoff.WithContext(backoff.WithMaxRetries(bo, c.retries), ctx))
	if err != nil {
		var cte *ContentTypeError
		if errors.As(err, &cte) {
			return nil, cte
		}
		return nil, &TransportError{Attempts: attempts, Err: err}
	}
	return body, nil
}

func (c *Client) get(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Connection failures and timeouts count against the retry
		// budget like a transient server error.
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("backend returned status %s", resp.Status)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, backoff.Permanent(fmt.Errorf("backend returned status %s", resp.Status))
	}
	if ct := resp.Header.Get("Content-Type"); ct != svgContentType {
		return nil, backoff.Permanent(&ContentTypeError{Expected: svgContentType, Received: ct})
	}
	return io.ReadAll(resp.Body)
}
