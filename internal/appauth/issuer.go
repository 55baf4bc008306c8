package appauth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	kerrors "github.com/9Mirrors-Lab/knowledge-index/internal/errors"
	"github.com/9Mirrors-Lab/knowledge-index/internal/hub"
	"github.com/9Mirrors-Lab/knowledge-index/internal/keys"
)

// IssuerConfig configures an Issuer.
type IssuerConfig struct {
	AppID          int64
	InstallationID int64
	Key            *keys.Key

	// BaseURL is the REST API root. Defaults to https://api.github.com.
	BaseURL string

	// HTTPClient defaults to http.DefaultClient.
	HTTPClient *http.Client

	// Now defaults to time.Now.
	Now func() time.Time
}

// InstallationToken is an installation access token and its expiry.
type InstallationToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Issuer signs app assertions and exchanges them for installation tokens.
type Issuer struct {
	config IssuerConfig
}

// NewIssuer validates config and returns an Issuer.
func NewIssuer(config IssuerConfig) (*Issuer, error) {
	if config.AppID <= 0 {
		return nil, fmt.Errorf("%w: app ID must be positive", kerrors.ErrInvalidConfig)
	}
	if config.InstallationID <= 0 {
		return nil, fmt.Errorf("%w: installation ID must be positive", kerrors.ErrInvalidConfig)
	}
	if config.Key == nil || config.Key.Private == nil {
		return nil, fmt.Errorf("%w: no private key", kerrors.ErrInvalidPrivateKey)
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	return &Issuer{config: config}, nil
}

// Assertion signs a fresh app assertion.
func (i *Issuer) Assertion() (string, error) {
	return SignAssertion(i.config.AppID, i.config.Key.Private, i.config.Now())
}

// InstallationToken exchanges a fresh assertion for an installation token.
func (i *Issuer) InstallationToken(ctx context.Context) (*InstallationToken, error) {
	assertion, err := i.Assertion()
	if err != nil {
		return nil, err
	}

	gh, err := hub.NewGitHubClient(i.config.BaseURL, i.config.HTTPClient)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", kerrors.ErrTokenExchange, err)
	}

	token, _, err := gh.WithAuthToken(assertion).Apps.CreateInstallationToken(ctx, i.config.InstallationID, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: installation %d: %w", kerrors.ErrTokenExchange, i.config.InstallationID, hub.ConvertError(err))
	}
	if token.GetToken() == "" {
		return nil, fmt.Errorf("%w: installation %d: response carried no token", kerrors.ErrTokenExchange, i.config.InstallationID)
	}

	return &InstallationToken{
		Token:     token.GetToken(),
		ExpiresAt: token.GetExpiresAt().Time,
	}, nil
}
