package workflows

import (
	"context"
	"fmt"

	"github.com/9Mirrors-Lab/knowledge-index/internal/audit"
	"github.com/9Mirrors-Lab/knowledge-index/internal/configs"
	kerrors "github.com/9Mirrors-Lab/knowledge-index/internal/errors"
	"github.com/9Mirrors-Lab/knowledge-index/internal/hub"
	"github.com/9Mirrors-Lab/knowledge-index/internal/index"
)

// SyncOptions configures the sync workflow.
type SyncOptions struct {
	// DryRun renders and compares without writing.
	DryRun bool

	// ReportPath, when set, receives one JSON Lines entry describing the run.
	ReportPath string

	Runtime Runtime
}

// SyncResult contains the outcome of a sync operation.
type SyncResult struct {
	Organization string         `json:"organization"`
	Repository   string         `json:"repository"`
	Path         string         `json:"path"`
	Listed       int            `json:"listed"`
	Repositories []index.Record `json:"repositories"`
	Changed      bool           `json:"changed"`
	Created      bool           `json:"created"`
	Written      bool           `json:"written"`
	CommitSHA    string         `json:"commit_sha,omitempty"`
	DryRun       bool           `json:"dry_run"`

	// Content is the rendered document.
	Content string `json:"content,omitempty"`

	// RunID identifies the report entry, when one was written.
	RunID string `json:"run_id,omitempty"`

	// ReportErr is set when the report could not be written. The sync
	// itself still succeeded.
	ReportErr error `json:"-"`
}

// Sync regenerates the index document.
//
// The private key and template are loaded before any request is made, so a
// malformed key fails without touching the network. The token is then
// exchanged, the organization listed and the document written only when it
// differs from the stored one.
//
// Returns ErrMissingConfig when required settings are absent, a key error
// (ErrNotPEM, ErrInvalidPrivateKey, ...) when the key cannot be used, and
// ErrTokenExchange, ErrListRepositories, ErrIndexRead or ErrIndexWrite for
// GitHub failures.
func Sync(ctx context.Context, cfg *configs.Config, opts SyncOptions) (*SyncResult, error) {
	result, err := runSync(ctx, cfg, opts)
	if opts.ReportPath == "" {
		return result, err
	}

	entry := audit.NewEntry("sync")
	entry.Org = cfg.Index.Organization
	entry.Repo = cfg.Index.Repository
	entry.Path = cfg.Index.Path
	entry.DryRun = opts.DryRun
	if err != nil {
		entry.Error = err.Error()
		return nil, withReportError(err, audit.Log(opts.ReportPath, entry))
	}

	entry.ListedCount = result.Listed
	entry.IndexedCount = len(result.Repositories)
	entry.Changed = result.Changed
	entry.Commit = result.CommitSHA
	result.RunID = entry.RunID
	result.ReportErr = audit.Log(opts.ReportPath, entry)
	return result, nil
}

func runSync(ctx context.Context, cfg *configs.Config, opts SyncOptions) (*SyncResult, error) {
	if err := cfg.ValidateForSync(); err != nil {
		return nil, err
	}

	issuer, err := newIssuer(cfg, opts.Runtime)
	if err != nil {
		return nil, err
	}

	renderer, err := index.LoadRenderer(cfg.Index.TemplatePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", kerrors.ErrInvalidConfig, err)
	}
	if err := index.ValidateExclude(cfg.Index.Exclude); err != nil {
		return nil, fmt.Errorf("%w: %w", kerrors.ErrInvalidConfig, err)
	}

	token, err := issuer.InstallationToken(ctx)
	if err != nil {
		return nil, err
	}

	client, err := hub.New(hub.Options{
		BaseURL:    cfg.GitHub.APIURL,
		Token:      token.Token,
		HTTPClient: opts.Runtime.HTTPClient,
	})
	if err != nil {
		return nil, err
	}

	indexer, err := index.NewIndexer(client, IndexTarget(cfg),
		index.WithRenderer(renderer),
		index.WithClock(opts.Runtime.now),
	)
	if err != nil {
		return nil, err
	}

	result, err := indexer.Sync(ctx, index.SyncOptions{DryRun: opts.DryRun})
	if err != nil {
		return nil, err
	}

	return &SyncResult{
		Organization: cfg.Index.Organization,
		Repository:   cfg.Index.Repository,
		Path:         cfg.Index.Path,
		Listed:       result.Listed,
		Repositories: result.Repositories,
		Changed:      result.Changed,
		Created:      result.Created,
		Written:      result.Written,
		CommitSHA:    result.CommitSHA,
		DryRun:       opts.DryRun,
		Content:      result.Content,
	}, nil
}

// IndexTarget describes the index document configured in cfg.
func IndexTarget(cfg *configs.Config) index.Target {
	return index.Target{
		Org:           cfg.Index.Organization,
		Repo:          cfg.Index.Repository,
		Path:          cfg.Index.Path,
		Prefix:        cfg.Index.Prefix,
		Exclude:       cfg.Index.Exclude,
		Title:         cfg.Index.Title,
		CommitMessage: cfg.Index.CommitMessage,
		Links: index.Links{
			SourceBaseURL: cfg.Index.SourceBaseURL,
			ViewerBaseURL: cfg.Index.ViewerBaseURL,
		},
	}
}
