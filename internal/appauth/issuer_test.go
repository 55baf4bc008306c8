package appauth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	kerrors "github.com/9Mirrors-Lab/knowledge-index/internal/errors"
	"github.com/9Mirrors-Lab/knowledge-index/internal/hub"
	"github.com/9Mirrors-Lab/knowledge-index/internal/keys"
	"github.com/9Mirrors-Lab/knowledge-index/internal/testutil"

	"github.com/golang-jwt/jwt/v5"
)

func newTestIssuer(t *testing.T, baseURL string) *Issuer {
	t.Helper()
	issuer, err := NewIssuer(IssuerConfig{
		AppID:          12345,
		InstallationID: 67890,
		Key:            &keys.Key{Private: testutil.RSAKey(t), Format: keys.FormatPKCS1},
		BaseURL:        baseURL,
		Now:            func() time.Time { return fixedNow },
	})
	if err != nil {
		t.Fatalf("NewIssuer failed: %v", err)
	}
	return issuer
}

func TestNewIssuer_Validation(t *testing.T) {
	key := &keys.Key{Private: testutil.RSAKey(t)}

	testCases := []struct {
		name    string
		config  IssuerConfig
		wantErr error
	}{
		{"MissingAppID", IssuerConfig{InstallationID: 1, Key: key}, kerrors.ErrInvalidConfig},
		{"MissingInstallationID", IssuerConfig{AppID: 1, Key: key}, kerrors.ErrInvalidConfig},
		{"MissingKey", IssuerConfig{AppID: 1, InstallationID: 1}, kerrors.ErrInvalidPrivateKey},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewIssuer(tc.config)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got: %v", tc.wantErr, err)
			}
		})
	}
}

func TestInstallationToken_Exchange(t *testing.T) {
	fake := testutil.NewGitHub(t)
	fake.TokenExpiresAt = time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC)
	issuer := newTestIssuer(t, fake.URL())

	token, err := issuer.InstallationToken(context.Background())
	if err != nil {
		t.Fatalf("InstallationToken failed: %v", err)
	}
	if token.Token != testutil.InstallationToken {
		t.Errorf("Token = %q", token.Token)
	}
	if !token.ExpiresAt.Equal(fake.TokenExpiresAt) {
		t.Errorf("ExpiresAt = %v, want %v", token.ExpiresAt, fake.TokenExpiresAt)
	}

	requests := fake.Requests()
	if len(requests) != 1 || requests[0] != "POST /app/installations/67890/access_tokens" {
		t.Errorf("expected a single token exchange, got %v", requests)
	}

	assertions := fake.Assertions()
	if len(assertions) != 1 {
		t.Fatalf("expected one assertion, got %d", len(assertions))
	}
	claims := &jwt.RegisteredClaims{}
	_, err = jwt.ParseWithClaims(assertions[0], claims,
		func(*jwt.Token) (any, error) { return &testutil.RSAKey(t).PublicKey, nil },
		jwt.WithTimeFunc(func() time.Time { return fixedNow }),
	)
	if err != nil {
		t.Fatalf("presented assertion did not verify: %v", err)
	}
	if claims.Issuer != "12345" {
		t.Errorf("assertion issuer = %q", claims.Issuer)
	}
}

func TestInstallationToken_ExchangeRejected(t *testing.T) {
	fake := testutil.NewGitHub(t)
	fake.TokenStatus = http.StatusUnauthorized
	issuer := newTestIssuer(t, fake.URL())

	_, err := issuer.InstallationToken(context.Background())
	if !errors.Is(err, kerrors.ErrTokenExchange) {
		t.Fatalf("expected ErrTokenExchange, got: %v", err)
	}

	var apiErr *hub.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError in chain, got: %v", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d, want 401", apiErr.StatusCode)
	}
	if !strings.Contains(err.Error(), "public key") {
		t.Errorf("expected GitHub message in error, got: %v", err)
	}
	if got := len(fake.Requests()); got != 1 {
		t.Errorf("expected exactly one request (no retries), got %d", got)
	}
}

func TestInstallationToken_Unreachable(t *testing.T) {
	issuer := newTestIssuer(t, "http://127.0.0.1:1/")

	_, err := issuer.InstallationToken(context.Background())
	if !errors.Is(err, kerrors.ErrTokenExchange) {
		t.Errorf("expected ErrTokenExchange, got: %v", err)
	}
}
