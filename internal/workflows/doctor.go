package workflows

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/9Mirrors-Lab/knowledge-index/internal/appauth"
	"github.com/9Mirrors-Lab/knowledge-index/internal/configs"
	kerrors "github.com/9Mirrors-Lab/knowledge-index/internal/errors"
	"github.com/9Mirrors-Lab/knowledge-index/internal/hub"
	"github.com/9Mirrors-Lab/knowledge-index/internal/index"
	"github.com/9Mirrors-Lab/knowledge-index/internal/keys"
	"github.com/9Mirrors-Lab/knowledge-index/internal/utils"
)

// CheckStatus represents the result status of a health check.
type CheckStatus int

const (
	// CheckPass means the check passed.
	CheckPass CheckStatus = iota
	// CheckWarning means the check found a non-critical issue.
	CheckWarning
	// CheckError means the check found a critical issue.
	CheckError
)

// String returns a string representation of CheckStatus.
func (s CheckStatus) String() string {
	switch s {
	case CheckPass:
		return "pass"
	case CheckWarning:
		return "warning"
	case CheckError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler for CheckStatus.
func (s CheckStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// CheckResult holds the result of a single health check.
type CheckResult struct {
	Name       string      `json:"name"`
	Status     CheckStatus `json:"status"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
}

// DoctorResult holds the complete result of the doctor workflow.
type DoctorResult struct {
	Checks      []CheckResult `json:"checks"`
	Summary     DoctorSummary `json:"summary"`
	Suggestions []string      `json:"suggestions,omitempty"`
}

// DoctorSummary holds counts of checks by status.
type DoctorSummary struct {
	Passed   int `json:"passed"`
	Warnings int `json:"warnings"`
	Errors   int `json:"errors"`
}

// ExitCode maps the summary to the doctor command's exit status:
// 0 when everything passed, 1 for warnings only, 2 when any check failed.
func (s DoctorSummary) ExitCode() int {
	switch {
	case s.Errors > 0:
		return 2
	case s.Warnings > 0:
		return 1
	default:
		return 0
	}
}

// DoctorOptions configures the doctor workflow.
type DoctorOptions struct {
	// Online also performs the token exchange against GitHub.
	Online bool

	Runtime Runtime
}

// doctorState carries what earlier checks found to later ones. Checks whose
// prerequisite failed are skipped rather than reported twice.
type doctorState struct {
	cfg      *configs.Config
	opts     DoctorOptions
	source   keys.Source
	material *keys.Material
	readErr  error
	key      *keys.Key
}

// Doctor runs health checks on the configuration and private key.
//
// The doctor workflow checks:
//   - Configuration completeness
//   - Private key source
//   - Private key readability and file permissions
//   - PEM framing and key format
//   - Assertion signing
//   - Custom template, when configured
//   - Token exchange (with Online)
func Doctor(ctx context.Context, cfg *configs.Config, opts DoctorOptions) (*DoctorResult, error) {
	state := &doctorState{cfg: cfg, opts: opts, source: KeySource(cfg)}

	checks := []func(context.Context) *CheckResult{
		state.checkConfiguration,
		state.checkKeySource,
		state.checkKeyReadable,
		state.checkKeyPermissions,
		state.checkKeyFormat,
		state.checkAssertion,
		state.checkTemplate,
		state.checkTokenExchange,
	}

	var results []CheckResult
	for _, check := range checks {
		if result := check(ctx); result != nil {
			results = append(results, *result)
		}
	}

	// Collect suggestions (deduplicated).
	var suggestions []string
	seen := make(map[string]bool)
	for _, result := range results {
		if result.Suggestion != "" && result.Status != CheckPass && !seen[result.Suggestion] {
			suggestions = append(suggestions, result.Suggestion)
			seen[result.Suggestion] = true
		}
	}

	return &DoctorResult{
		Checks:      results,
		Summary:     calculateDoctorSummary(results),
		Suggestions: suggestions,
	}, nil
}

// checkConfiguration checks that every setting sync needs is present.
func (s *doctorState) checkConfiguration(context.Context) *CheckResult {
	if err := s.cfg.ValidateForSync(); err != nil {
		missing := strings.TrimPrefix(err.Error(), kerrors.ErrMissingConfig.Error()+": ")
		return &CheckResult{
			Name:       "Configuration",
			Status:     CheckError,
			Message:    fmt.Sprintf("Missing settings: %s", missing),
			Suggestion: fmt.Sprintf("Set %s in the environment or the config file", missing),
		}
	}
	return &CheckResult{
		Name:   "Configuration",
		Status: CheckPass,
		Message: fmt.Sprintf("App %d, installation %d, indexing %s/%s",
			s.cfg.App.ID, s.cfg.App.InstallationID, s.cfg.Index.Organization, s.cfg.Index.Repository),
	}
}

// checkKeySource checks that exactly one key location is configured.
func (s *doctorState) checkKeySource(context.Context) *CheckResult {
	material, err := keys.ReadMaterial(s.source)
	s.readErr = err
	if err == nil {
		s.material = material
	}
	switch {
	case errors.Is(err, kerrors.ErrAmbiguousKeySource):
		return &CheckResult{
			Name:       "Private key source",
			Status:     CheckError,
			Message:    "More than one private key source is set",
			Suggestion: "Set only one of PRIVATE_KEY_PATH, PRIVATE_KEY or PRIVATE_KEY_BASE64",
		}
	case s.source.Kind() == "":
		return &CheckResult{
			Name:       "Private key source",
			Status:     CheckError,
			Message:    "No private key configured",
			Suggestion: "Set PRIVATE_KEY_PATH, PRIVATE_KEY or PRIVATE_KEY_BASE64",
		}
	}
	return &CheckResult{
		Name:    "Private key source",
		Status:  CheckPass,
		Message: fmt.Sprintf("Private key from %s", s.source),
	}
}

// checkKeyReadable reports on the material read by checkKeySource.
func (s *doctorState) checkKeyReadable(context.Context) *CheckResult {
	if s.source.Kind() == "" {
		return nil
	}
	material, err := s.material, s.readErr
	if errors.Is(err, kerrors.ErrAmbiguousKeySource) {
		return nil
	}
	if err != nil {
		suggestion := "Check that the private key file exists and is readable"
		if s.source.Kind() == "base64" {
			suggestion = "Re-encode the key with 'knowledge-index key encode'"
		}
		return &CheckResult{
			Name:       "Private key readable",
			Status:     CheckError,
			Message:    fmt.Sprintf("Cannot read private key: %v", err),
			Suggestion: suggestion,
		}
	}

	message := fmt.Sprintf("Read %d bytes", len(material.Data))
	if material.Unescaped {
		message += " (literal \\n sequences converted to line breaks)"
	}
	return &CheckResult{
		Name:    "Private key readable",
		Status:  CheckPass,
		Message: message,
	}
}

// checkKeyPermissions checks that a key file is not readable by others.
func (s *doctorState) checkKeyPermissions(context.Context) *CheckResult {
	if s.material == nil || s.source.Kind() != "file" {
		return nil
	}
	info, err := os.Stat(s.source.Path)
	if err != nil {
		return &CheckResult{
			Name:       "Private key permissions",
			Status:     CheckWarning,
			Message:    fmt.Sprintf("Cannot stat private key: %v", err),
			Suggestion: "Check that the private key file is accessible",
		}
	}
	if utils.LoosePermissions(info) {
		return &CheckResult{
			Name:       "Private key permissions",
			Status:     CheckWarning,
			Message:    fmt.Sprintf("Private key has loose permissions (%04o)", info.Mode().Perm()),
			Suggestion: fmt.Sprintf("Run 'chmod 600 %s' to fix permissions", s.source.Path),
		}
	}
	return &CheckResult{
		Name:    "Private key permissions",
		Status:  CheckPass,
		Message: "Private key permissions are secure",
	}
}

// checkKeyFormat parses the key and explains common formatting damage.
func (s *doctorState) checkKeyFormat(context.Context) *CheckResult {
	if s.material == nil {
		return nil
	}
	diagnosis := keys.Inspect(s.material)
	if !diagnosis.OK() {
		return &CheckResult{
			Name:       "Private key format",
			Status:     CheckError,
			Message:    fmt.Sprintf("Private key is unusable: %s", diagnosis.Error),
			Suggestion: formatSuggestion(diagnosis),
		}
	}

	s.key = diagnosis.Key

	if diagnosis.Bits < 2048 {
		return &CheckResult{
			Name:       "Private key format",
			Status:     CheckWarning,
			Message:    fmt.Sprintf("%s RSA key is only %d bits", diagnosis.Format, diagnosis.Bits),
			Suggestion: "Generate a new private key in the GitHub App settings",
		}
	}
	return &CheckResult{
		Name:    "Private key format",
		Status:  CheckPass,
		Message: fmt.Sprintf("%s RSA key, %d bits", diagnosis.Format, diagnosis.Bits),
	}
}

func formatSuggestion(diagnosis keys.Diagnosis) string {
	switch {
	case diagnosis.Base64WrappedPEM:
		return "The value is base64-encoded; set it as PRIVATE_KEY_BASE64 instead"
	case diagnosis.LiteralNewlines:
		return "Store the key with real line breaks, or as PRIVATE_KEY_BASE64 ('knowledge-index key encode')"
	case !diagnosis.HasPEMHeader:
		return "Use the .pem file downloaded from the GitHub App settings, including its BEGIN and END lines"
	case strings.Contains(diagnosis.Error, kerrors.ErrPassphraseRequired.Error()):
		return "Remove the passphrase, for example with 'ssh-keygen -p -N \"\" -f KEY'"
	case strings.Contains(diagnosis.Error, kerrors.ErrUnsupportedKeyType.Error()):
		return "GitHub Apps sign with RSA keys; download a new key from the GitHub App settings"
	default:
		return "Run 'knowledge-index key inspect' for details"
	}
}

// checkAssertion signs an app assertion with the parsed key.
func (s *doctorState) checkAssertion(context.Context) *CheckResult {
	if s.key == nil || s.cfg.App.ID == 0 {
		return nil
	}
	if _, err := appauth.SignAssertion(s.cfg.App.ID, s.key.Private, s.opts.Runtime.now()); err != nil {
		return &CheckResult{
			Name:    "Assertion signing",
			Status:  CheckError,
			Message: fmt.Sprintf("Cannot sign app assertion: %v", err),
		}
	}
	return &CheckResult{
		Name:    "Assertion signing",
		Status:  CheckPass,
		Message: fmt.Sprintf("Signed RS256 assertion for app %d", s.cfg.App.ID),
	}
}

// checkTemplate parses a custom index template.
func (s *doctorState) checkTemplate(context.Context) *CheckResult {
	if s.cfg.Index.TemplatePath == "" {
		return nil
	}
	if _, err := index.LoadRenderer(s.cfg.Index.TemplatePath); err != nil {
		return &CheckResult{
			Name:       "Index template",
			Status:     CheckError,
			Message:    fmt.Sprintf("Template is invalid: %v", err),
			Suggestion: "Fix the template or remove template_path to use the built-in one",
		}
	}
	return &CheckResult{
		Name:    "Index template",
		Status:  CheckPass,
		Message: fmt.Sprintf("Template %s parses", s.cfg.Index.TemplatePath),
	}
}

// checkTokenExchange exchanges an assertion for an installation token.
func (s *doctorState) checkTokenExchange(ctx context.Context) *CheckResult {
	if !s.opts.Online || s.key == nil || s.cfg.ValidateForToken() != nil {
		return nil
	}

	issuer, err := appauth.NewIssuer(appauth.IssuerConfig{
		AppID:          s.cfg.App.ID,
		InstallationID: s.cfg.App.InstallationID,
		Key:            s.key,
		BaseURL:        s.cfg.GitHub.APIURL,
		HTTPClient:     s.opts.Runtime.HTTPClient,
		Now:            s.opts.Runtime.now,
	})
	if err == nil {
		var token *appauth.InstallationToken
		token, err = issuer.InstallationToken(ctx)
		if err == nil {
			return &CheckResult{
				Name:    "Token exchange",
				Status:  CheckPass,
				Message: fmt.Sprintf("Installation token issued, expires %s", token.ExpiresAt.UTC().Format("2006-01-02 15:04:05 MST")),
			}
		}
	}

	suggestion := "Check network access to " + s.cfg.GitHub.APIURL
	switch hub.StatusCode(err) {
	case 401:
		suggestion = "GitHub rejected the assertion: check APP_ID and that the key belongs to this app"
	case 404:
		suggestion = "Installation not found: check INSTALLATION_ID and that the app is installed on the organization"
	}
	return &CheckResult{
		Name:       "Token exchange",
		Status:     CheckError,
		Message:    fmt.Sprintf("Token exchange failed: %v", err),
		Suggestion: suggestion,
	}
}

// calculateDoctorSummary counts results by status.
func calculateDoctorSummary(results []CheckResult) DoctorSummary {
	var summary DoctorSummary
	for _, result := range results {
		switch result.Status {
		case CheckPass:
			summary.Passed++
		case CheckWarning:
			summary.Warnings++
		case CheckError:
			summary.Errors++
		}
	}
	return summary
}
