package hub

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v62/github"
)

// APIError is a non-2xx response from the GitHub REST API.
type APIError struct {
	// StatusCode is the HTTP response status code.
	StatusCode int

	// Message is the top-level error description from GitHub.
	Message string

	// DocumentationURL points to the relevant API documentation.
	DocumentationURL string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("GitHub API returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("GitHub API returned HTTP %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a GitHub API 404 response.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsConflict reports whether err is a GitHub API 409 response, which the
// contents API returns when the supplied blob SHA is stale.
func IsConflict(err error) bool {
	return StatusCode(err) == http.StatusConflict
}

// StatusCode returns the HTTP status carried by err, or 0 when err is not an API error.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// ConvertError turns go-github's error types into *APIError. Transport
// errors and anything else are returned unchanged.
func ConvertError(err error) error {
	if err == nil {
		return nil
	}

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return &APIError{
			StatusCode: statusOf(rateErr.Response),
			Message:    rateErr.Message,
		}
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return &APIError{
			StatusCode: statusOf(abuseErr.Response),
			Message:    abuseErr.Message,
		}
	}

	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) {
		return &APIError{
			StatusCode:       statusOf(respErr.Response),
			Message:          respErr.Message,
			DocumentationURL: respErr.DocumentationURL,
		}
	}

	return err
}

func statusOf(resp *http.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}
