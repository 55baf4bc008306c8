package hub

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/go-github/v62/github"
)

func TestConvertError(t *testing.T) {
	respErr := &github.ErrorResponse{
		Response:         &http.Response{StatusCode: http.StatusNotFound},
		Message:          "Not Found",
		DocumentationURL: "https://docs.github.com/rest",
	}

	err := ConvertError(fmt.Errorf("wrapped: %w", respErr))

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.StatusCode != 404 || apiErr.Message != "Not Found" || apiErr.DocumentationURL != "https://docs.github.com/rest" {
		t.Errorf("unexpected APIError: %+v", apiErr)
	}
	if apiErr.Error() != "GitHub API returned HTTP 404: Not Found" {
		t.Errorf("Error() = %q", apiErr.Error())
	}
}

func TestConvertError_RateLimit(t *testing.T) {
	err := ConvertError(&github.RateLimitError{
		Response: &http.Response{StatusCode: http.StatusForbidden},
		Message:  "API rate limit exceeded",
	})
	if StatusCode(err) != http.StatusForbidden {
		t.Errorf("StatusCode = %d, want 403", StatusCode(err))
	}
}

func TestConvertError_PassesThroughOtherErrors(t *testing.T) {
	transportErr := errors.New("connection refused")
	if got := ConvertError(transportErr); got != transportErr {
		t.Errorf("expected error to pass through unchanged, got %v", got)
	}
	if ConvertError(nil) != nil {
		t.Error("expected nil for nil")
	}
	if StatusCode(transportErr) != 0 {
		t.Error("expected status 0 for non-API error")
	}
}
