package httpclient

import (
	"fmt"
	"io"
	"net/http"
)

// maxErrorBody bounds how much of an unexpected response body is kept.
const maxErrorBody = 1 << 20

// StatusError describes a response whose status code the caller did not expect.
type StatusError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s returned status %d", e.Service, e.StatusCode)
	}
	return fmt.Sprintf("%s returned status %d: %s", e.Service, e.StatusCode, e.Body)
}

// ParseResponseError reads and closes the body of an unexpected response and
// returns it as a *StatusError.
func ParseResponseError(resp *http.Response, serviceName string) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", serviceName, resp.StatusCode, err)
	}
	return &StatusError{Service: serviceName, StatusCode: resp.StatusCode, Body: string(bodyBytes)}
}

// IsServerError returns true if the HTTP status code is a 5xx server error.
func IsServerError(status int) bool {
	return status >= 500 && status < 600
}
