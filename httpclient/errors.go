package httpclient

import (
	"fmt"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated: login or load tokens first")
	ErrIncompleteTokens = errors.New("oauth1 and oauth2 tokens must be set together")
	ErrCSRFNotFound     = errors.New("login: csrf token not found")
	ErrTicketNotFound   = errors.New("login: ticket not found")
	ErrAccountLocked    = errors.New("login: account locked")
	ErrMFARequired      = errors.New("login: multi-factor authentication is not supported")
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// newStatusError consumes up to 4 KiB of the response body.
func newStatusError(method, rawURL string, resp *http.Response) *StatusError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	return &StatusError{
		Method:     method,
		URL:        stripQuery(rawURL),
		StatusCode: resp.StatusCode,
		Body:       string(body),
	}
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}
