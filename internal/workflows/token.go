package workflows

import (
	"context"
	"time"

	"github.com/9Mirrors-Lab/knowledge-index/internal/configs"
)

// TokenOptions configures the token workflow.
type TokenOptions struct {
	// AssertionOnly stops after signing the app assertion.
	AssertionOnly bool

	Runtime Runtime
}

// TokenResult holds the signed assertion or the installation token.
type TokenResult struct {
	Assertion string    `json:"assertion,omitempty"`
	Token     string    `json:"token,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Token signs an app assertion and, unless AssertionOnly is set, exchanges it
// for an installation token.
//
// Returns ErrMissingConfig when APP_ID or INSTALLATION_ID is absent.
// Returns a key error when the private key cannot be used.
// Returns ErrTokenExchange when GitHub rejects the assertion.
func Token(ctx context.Context, cfg *configs.Config, opts TokenOptions) (*TokenResult, error) {
	if err := cfg.ValidateForToken(); err != nil {
		return nil, err
	}

	issuer, err := newIssuer(cfg, opts.Runtime)
	if err != nil {
		return nil, err
	}

	if opts.AssertionOnly {
		assertion, err := issuer.Assertion()
		if err != nil {
			return nil, err
		}
		return &TokenResult{
			Assertion: assertion,
			ExpiresAt: opts.Runtime.now().Add(10 * time.Minute).UTC(),
		}, nil
	}

	token, err := issuer.InstallationToken(ctx)
	if err != nil {
		return nil, err
	}
	return &TokenResult{Token: token.Token, ExpiresAt: token.ExpiresAt}, nil
}
