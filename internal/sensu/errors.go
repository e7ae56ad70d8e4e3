package sensu

import (
	"errors"
	"fmt"
	"net/http"
)

// RequestError reports a failed API call. StatusCode is zero when the request
// never produced a response (connection refused, timeout, DNS failure).
type RequestError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
	}
	if e.Body == "" {
		return fmt.Sprintf("%s %s returned status %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s returned status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// Unwrap returns the transport error, if any.
func (e *RequestError) Unwrap() error {
	return e.Err
}

// StatusCode extracts the HTTP status from err, or 0 when err is not a RequestError
// carrying a response.
func StatusCode(err error) int {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode
	}
	return 0
}

// IsUnauthorized reports whether the backend rejected the request's credentials.
func IsUnauthorized(err error) bool {
	code := StatusCode(err)
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}
