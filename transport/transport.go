// Package transport defines the request surface the invocation client issues
// its calls through, and provides the production net/http implementation.
package transport

import (
	"context"
	"fmt"
	"io"
	"net/url"
)

// API is the boundary to the remote server: synchronous request/response
// exchanges with JSON bodies, plus a streaming variant for binary payloads.
// Paths are relative to the API root the implementation was configured with.
//
// Non-2xx responses surface as *APIError.
type API interface {
	// Get issues a GET request and decodes the JSON response into out.
	Get(ctx context.Context, path string, params url.Values, out any) error

	// Put issues a PUT request with payload as the JSON body and decodes the
	// response into out. PUT requests are never retried, their server-side
	// side effects may not be idempotent.
	Put(ctx context.Context, path string, payload any, out any) error

	// Delete issues a DELETE request and decodes the response into out.
	Delete(ctx context.Context, path string, out any) error

	// GetStream issues a GET request and returns the undecoded response body.
	// The caller owns closing the returned reader. On a non-2xx status no
	// reader is returned.
	GetStream(ctx context.Context, path string) (io.ReadCloser, error)
}

// APIError is a non-2xx response from the server. It carries the status code
// so callers can tell not-found from forbidden and friends; no interpretation
// happens on this side.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status code %d", e.StatusCode)
	}

	return fmt.Sprintf("unexpected status code %d: %s", e.StatusCode, e.Body)
}
