package workflows

import (
	"fmt"
	"net/http"
	"time"

	"github.com/9Mirrors-Lab/knowledge-index/internal/appauth"
	"github.com/9Mirrors-Lab/knowledge-index/internal/configs"
	"github.com/9Mirrors-Lab/knowledge-index/internal/keys"
)

// Runtime carries process-level dependencies that tests replace.
type Runtime struct {
	// HTTPClient is used for every GitHub request. Defaults to http.DefaultClient.
	HTTPClient *http.Client

	// Now defaults to time.Now.
	Now func() time.Time
}

func (r Runtime) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

// KeySource returns the private key location configured in cfg.
func KeySource(cfg *configs.Config) keys.Source {
	return keys.Source{
		Path:   cfg.App.PrivateKeyPath,
		Inline: cfg.App.PrivateKey,
		Base64: cfg.App.PrivateKeyBase64,
	}
}

// newIssuer loads the private key and builds a token issuer. Any key
// problem is returned before a request is made.
func newIssuer(cfg *configs.Config, rt Runtime) (*appauth.Issuer, error) {
	key, err := keys.Load(KeySource(cfg))
	if err != nil {
		return nil, err
	}
	return appauth.NewIssuer(appauth.IssuerConfig{
		AppID:          cfg.App.ID,
		InstallationID: cfg.App.InstallationID,
		Key:            key,
		BaseURL:        cfg.GitHub.APIURL,
		HTTPClient:     rt.HTTPClient,
		Now:            rt.now,
	})
}

// withReportError attaches a failed report write to the error of a failed run.
func withReportError(err, reportErr error) error {
	if reportErr == nil {
		return err
	}
	return fmt.Errorf("%w (run report not written: %w)", err, reportErr)
}
