package transport

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

	"github.com/cenkalti/backoff/v4"
)

const defaultMaxRetries = 3

// Client is the production API implementation backed by net/http.
type Client struct {
	base          *url.URL
	hc            *http.Client
	apiKey        string
	maxRetries    uint64
	retryInterval time.Duration
}

var _ API = (*Client)(nil)

type ClientOption func(*Client)

// WithHTTPClient replaces the underlying http.Client, e.g. to set timeouts or
// a custom TLS configuration.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.hc = hc
	}
}

// WithAPIKey sends key as the x-api-key header on every request.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithMaxRetries bounds how often an idempotent request is retried after a
// transient failure. Zero disables retries.
func WithMaxRetries(n uint64) ClientOption {
	return func(c *Client) {
		c.maxRetries = n
	}
}

// WithRetryInterval sets the initial backoff interval between retries.
func WithRetryInterval(d time.Duration) ClientOption {
	return func(c *Client) {
		c.retryInterval = d
	}
}

// New creates a Client rooted at baseURL, e.g. "https://usegalaxy.org/api".
func New(baseURL string, opts ...ClientOption) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}

	c := &Client{
		base:          base,
		hc:            http.DefaultClient,
		maxRetries:    defaultMaxRetries,
		retryInterval: backoff.DefaultInitialInterval,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func (c *Client) Get(ctx context.Context, path string, params url.Values, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, params, nil, out, true)
}

func (c *Client) Put(ctx context.Context, path string, payload any, out any) error {
	// PUTs carry step actions whose server-side effects may not be
	// idempotent, so they get a single attempt.
	return c.doJSON(ctx, http.MethodPut, path, nil, payload, out, false)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	// Cancellation is safe to repeat.
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil, out, true)
}

func (c *Client) GetStream(ctx context.Context, path string) (io.ReadCloser, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		defer resp.Body.Close()
		return nil, newAPIError(resp)
	}

	return resp.Body, nil
}

// doJSON performs one JSON exchange. Idempotent requests are retried with
// exponential backoff on transient failures: connection errors and 5xx
// responses. Everything else, including any 4xx, fails immediately.
func (c *Client) doJSON(ctx context.Context, method, path string, params url.Values, payload, out any, idempotent bool) error {
	attempt := func() error {
		req, err := c.newRequest(ctx, method, path, params, payload)
		if err != nil {
			return backoff.Permanent(err)
		}

		resp, err := c.hc.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
			apiErr := newAPIError(resp)
			if resp.StatusCode >= http.StatusInternalServerError {
				return apiErr
			}
			return backoff.Permanent(apiErr)
		}

		if out == nil {
			_, err := io.Copy(io.Discard, resp.Body)
			return err
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return backoff.Permanent(fmt.Errorf("decoding %s %s response: %w", method, path, err))
		}

		return nil
	}

	if !idempotent {
		err := attempt()
		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			return permanent.Err
		}
		return err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.retryInterval

	return backoff.Retry(attempt, backoff.WithContext(backoff.WithMaxRetries(bo, c.maxRetries), ctx))
}

func (c *Client) newRequest(ctx context.Context, method, path string, params url.Values, payload any) (*http.Request, error) {
	u := c.base.JoinPath(path)
	if len(params) > 0 {
		u.RawQuery = params.Encode()
	}

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	return req, nil
}

func newAPIError(resp *http.Response) *APIError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))

	return &APIError{
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}
