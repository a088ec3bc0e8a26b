// Package extapi holds thin clients for the external HTTP APIs the
// application consumes: exchange rates, automotive news, weather and car
// specifications. Responses are decoded into narrow structs; anything beyond
// the fields the application reads is treated as opaque.
package extapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "carfleet/internal/errors"
)

// requestTimeout bounds every upstream call. A timeout surfaces to callers as
// ErrUpstreamUnavailable, never as a hung request.
const requestTimeout = 10 * time.Second

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: requestTimeout}
}

// get performs a GET with the given headers and returns the response body.
// Transport failures and non-200 statuses are wrapped as upstream errors.
func get(ctx context.Context, client *http.Client, url string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", apperrors.ErrUpstreamUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: body}
	}
	return body, nil
}

// StatusError reports a non-200 upstream response.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream status %d", e.StatusCode)
}

// Unwrap lets callers match StatusError against ErrUpstreamUnavailable.
func (e *StatusError) Unwrap() error {
	return apperrors.ErrUpstreamUnavailable
}
