package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	kerrors "github.com/9Mirrors-Lab/knowledge-index/internal/errors"
)

// Environment variable names. The first group matches the names used by the
// GitHub Actions workflow that runs the indexer.
const (
	EnvAppID            = "APP_ID"
	EnvInstallationID   = "INSTALLATION_ID"
	EnvPrivateKey       = "PRIVATE_KEY"
	EnvPrivateKeyBase64 = "PRIVATE_KEY_BASE64"
	EnvPrivateKeyPath   = "PRIVATE_KEY_PATH"
	EnvDispatchToken    = "GH_PERSONAL_ACCESS_TOKEN"

	EnvOrganization = "INDEX_ORG"
	EnvRepository   = "INDEX_REPO"
	EnvPath         = "INDEX_PATH"
	EnvPrefix       = "INDEX_PREFIX"
	EnvAPIURL       = "GITHUB_API_URL"
	EnvConfigFile   = "KNOWLEDGE_INDEX_CONFIG"
)

// Defaults applied before the config file and environment.
const (
	DefaultRepository    = "knowledge-index"
	DefaultPath          = "README.md"
	DefaultPrefix        = "know-"
	DefaultAPIURL        = "https://api.github.com"
	DefaultSourceBaseURL = "https://github.com"
	DefaultViewerBaseURL = "https://gitmcp.io"
	DefaultDispatchEvent = "repo-added"
)

// Config is the complete configuration for one run. It is built once by Load
// and passed explicitly to every component.
type Config struct {
	App    AppConfig    `toml:"app"`
	Index  IndexConfig  `toml:"index"`
	GitHub GitHubConfig `toml:"github"`
}

// AppConfig identifies the GitHub App and where its private key lives.
// Inline key material is only accepted from the environment.
type AppConfig struct {
	ID               int64  `toml:"id"`
	InstallationID   int64  `toml:"installation_id"`
	PrivateKeyPath   string `toml:"private_key_path,omitempty"`
	PrivateKey       string `toml:"-"`
	PrivateKeyBase64 string `toml:"-"`
}

// IndexConfig describes the README index document and which repositories it lists.
type IndexConfig struct {
	Organization  string   `toml:"organization" json:"organization"`
	Repository    string   `toml:"repository" json:"repository"`
	Path          string   `toml:"path" json:"path"`
	Prefix        string   `toml:"prefix" json:"prefix"`
	Exclude       []string `toml:"exclude,omitempty" json:"exclude,omitempty"`
	Title         string   `toml:"title,omitempty" json:"title,omitempty"`
	CommitMessage string   `toml:"commit_message,omitempty" json:"commit_message,omitempty"`
	TemplatePath  string   `toml:"template_path,omitempty" json:"template_path,omitempty"`
	SourceBaseURL string   `toml:"source_base_url" json:"source_base_url"`
	ViewerBaseURL string   `toml:"viewer_base_url" json:"viewer_base_url"`
}

// GitHubConfig holds API endpoint settings and the dispatch credentials.
type GitHubConfig struct {
	APIURL        string `toml:"api_url"`
	DispatchEvent string `toml:"dispatch_event"`
	DispatchToken string `toml:"-"`
}

// LoadOptions controls where Load reads settings from.
type LoadOptions struct {
	// Path is an optional TOML file. When empty, KNOWLEDGE_INDEX_CONFIG is consulted.
	Path string

	// Lookup reads environment variables. Defaults to os.LookupEnv.
	Lookup func(string) (string, bool)
}

// Default returns a Config populated with built-in defaults.
func Default() *Config {
	return &Config{
		Index: IndexConfig{
			Repository:    DefaultRepository,
			Path:          DefaultPath,
			Prefix:        DefaultPrefix,
			SourceBaseURL: DefaultSourceBaseURL,
			ViewerBaseURL: DefaultViewerBaseURL,
		},
		GitHub: GitHubConfig{
			APIURL:        DefaultAPIURL,
			DispatchEvent: DefaultDispatchEvent,
		},
	}
}

// Load builds a Config from defaults, then the TOML file, then the environment.
// Later sources override earlier ones.
func Load(opts LoadOptions) (*Config, error) {
	lookup := opts.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}

	config := Default()

	path := opts.Path
	if path == "" {
		path, _ = lookup(EnvConfigFile)
	}
	if path != "" {
		if err := LoadTOML(path, config); err != nil {
			return nil, fmt.Errorf("%w: loading %s: %w", kerrors.ErrInvalidConfig, path, err)
		}
	}

	if err := config.applyEnv(lookup); err != nil {
		return nil, err
	}
	config.fillDerived()

	return config, nil
}

// Save writes the file-backed part of the config to path. Secrets are never written.
func Save(path string, config *Config) error {
	if err := SaveTOML(path, config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if err := setInt(lookup, EnvAppID, &c.App.ID); err != nil {
		return err
	}
	if err := setInt(lookup, EnvInstallationID, &c.App.InstallationID); err != nil {
		return err
	}

	// A key source in the environment replaces the file's key settings as a whole.
	for _, name := range []string{EnvPrivateKeyPath, EnvPrivateKey, EnvPrivateKeyBase64} {
		if value, ok := lookup(name); ok && value != "" {
			c.App.PrivateKeyPath, c.App.PrivateKey, c.App.PrivateKeyBase64 = "", "", ""
			break
		}
	}
	setString(lookup, EnvPrivateKeyPath, &c.App.PrivateKeyPath)
	setString(lookup, EnvPrivateKey, &c.App.PrivateKey)
	setString(lookup, EnvPrivateKeyBase64, &c.App.PrivateKeyBase64)
	setString(lookup, EnvDispatchToken, &c.GitHub.DispatchToken)
	setString(lookup, EnvOrganization, &c.Index.Organization)
	setString(lookup, EnvRepository, &c.Index.Repository)
	setString(lookup, EnvPath, &c.Index.Path)
	setString(lookup, EnvPrefix, &c.Index.Prefix)
	setString(lookup, EnvAPIURL, &c.GitHub.APIURL)

	return nil
}

// fillDerived sets values that default from other settings.
func (c *Config) fillDerived() {
	if c.Index.Title == "" {
		c.Index.Title = "📘 Knowledge Index"
		if c.Index.Organization != "" {
			c.Index.Title = "📘 " + c.Index.Organization + " Knowledge Index"
		}
	}
	if c.Index.CommitMessage == "" {
		c.Index.CommitMessage = fmt.Sprintf("🔄 Auto-update README with latest `%s` repos", c.Index.Prefix)
	}
}

// ValidateForToken checks the settings needed to obtain an installation token.
func (c *Config) ValidateForToken() error {
	var missing []string
	if c.App.ID == 0 {
		missing = append(missing, EnvAppID)
	}
	if c.App.InstallationID == 0 {
		missing = append(missing, EnvInstallationID)
	}
	return missingError(missing)
}

// ValidateForSync checks the settings needed to regenerate the index.
func (c *Config) ValidateForSync() error {
	var missing []string
	if c.App.ID == 0 {
		missing = append(missing, EnvAppID)
	}
	if c.App.InstallationID == 0 {
		missing = append(missing, EnvInstallationID)
	}
	if c.Index.Organization == "" {
		missing = append(missing, EnvOrganization)
	}
	if c.Index.Repository == "" {
		missing = append(missing, EnvRepository)
	}
	if c.Index.Path == "" {
		missing = append(missing, EnvPath)
	}
	return missingError(missing)
}

// ValidateForDispatch checks the settings needed to send a repository dispatch.
func (c *Config) ValidateForDispatch() error {
	var missing []string
	if c.Index.Organization == "" {
		missing = append(missing, EnvOrganization)
	}
	if c.Index.Repository == "" {
		missing = append(missing, EnvRepository)
	}
	if c.GitHub.DispatchToken == "" {
		missing = append(missing, EnvDispatchToken)
	}
	return missingError(missing)
}

func missingError(missing []string) error {
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", kerrors.ErrMissingConfig, strings.Join(missing, ", "))
}

func setString(lookup func(string) (string, bool), name string, dst *string) {
	if value, ok := lookup(name); ok && value != "" {
		*dst = value
	}
}

func setInt(lookup func(string) (string, bool), name string, dst *int64) error {
	value, ok := lookup(name)
	if !ok || strings.TrimSpace(value) == "" {
		return nil
	}
	parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || parsed <= 0 {
		return fmt.Errorf("%w: %s must be a positive integer, got %q", kerrors.ErrInvalidConfig, name, value)
	}
	*dst = parsed
	return nil
}
