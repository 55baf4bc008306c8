package appauth

import (
	"crypto/rsa"
	"fmt"
	"strconv"
	"time"

	kerrors "github.com/9Mirrors-Lab/knowledge-index/internal/errors"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// issuedAtSkew backdates iat so a GitHub clock running slightly behind
	// ours still accepts the assertion.
	issuedAtSkew = 60 * time.Second

	// assertionLifetime is the maximum GitHub allows.
	assertionLifetime = 10 * time.Minute
)

// AssertionClaims returns the claims of an app assertion issued at now.
func AssertionClaims(appID int64, now time.Time) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Issuer:    strconv.FormatInt(appID, 10),
		IssuedAt:  jwt.NewNumericDate(now.Add(-issuedAtSkew)),
		ExpiresAt: jwt.NewNumericDate(now.Add(assertionLifetime)),
	}
}

// SignAssertion signs the app assertion with RS256. The output is fully
// determined by the key and the instant.
func SignAssertion(appID int64, key *rsa.PrivateKey, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, AssertionClaims(appID, now))
	signed, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("%w: %w", kerrors.ErrSigningFailed, err)
	}
	return signed, nil
}
