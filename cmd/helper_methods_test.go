package cmd

import (
	"fmt"
	"strings"
	"testing"

	kerrors "github.com/9Mirrors-Lab/knowledge-index/internal/errors"
	"github.com/9Mirrors-Lab/knowledge-index/internal/hub"
)

func TestErrorHint_GitHubStatus(t *testing.T) {
	apiError := func(sentinel error, status int) error {
		return fmt.Errorf("%w: %w", sentinel, &hub.APIError{StatusCode: status})
	}

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "StaleIndexWrite", err: apiError(kerrors.ErrIndexWrite, 409), want: "run the sync again"},
		{name: "IndexRepositoryNotFound", err: apiError(kerrors.ErrIndexRead, 404), want: "Contents read and write"},
		{name: "ListingForbidden", err: apiError(kerrors.ErrListRepositories, 403), want: "Contents read and write"},
		{name: "RejectedAssertion", err: apiError(kerrors.ErrTokenExchange, 401), want: "APP_ID"},
		{name: "UnknownInstallation", err: apiError(kerrors.ErrTokenExchange, 404), want: "INSTALLATION_ID"},
		{name: "ServerError", err: apiError(kerrors.ErrIndexWrite, 502)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hint := errorHint(tt.err)
			if tt.want == "" {
				if hint != "" {
					t.Errorf("Expected no hint, got %q", hint)
				}
				return
			}
			if !strings.Contains(hint, tt.want) {
				t.Errorf("Expected hint to mention %q, got %q", tt.want, hint)
			}
		})
	}
}
