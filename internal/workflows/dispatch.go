package workflows

import (
	"context"

	"github.com/9Mirrors-Lab/knowledge-index/internal/audit"
	"github.com/9Mirrors-Lab/knowledge-index/internal/configs"
	"github.com/9Mirrors-Lab/knowledge-index/internal/hub"
)

// DispatchOptions configures the dispatch workflow.
type DispatchOptions struct {
	// Event overrides the configured event type.
	Event string

	// ReportPath, when set, receives one JSON Lines entry describing the run.
	ReportPath string

	Runtime Runtime
}

// DispatchResult describes the event that was sent.
type DispatchResult struct {
	Organization string `json:"organization"`
	Repository   string `json:"repository"`
	Event        string `json:"event"`
	RunID        string `json:"run_id,omitempty"`
	ReportErr    error  `json:"-"`
}

// Dispatch sends a repository_dispatch event to the index repository so its
// regeneration workflow runs. It authenticates with the personal access
// token, not the GitHub App.
//
// Returns ErrMissingConfig when the organization, repository or token is absent.
// Returns ErrDispatchFailed when GitHub does not answer 204 No Content.
func Dispatch(ctx context.Context, cfg *configs.Config, opts DispatchOptions) (*DispatchResult, error) {
	if err := cfg.ValidateForDispatch(); err != nil {
		return nil, err
	}

	event := opts.Event
	if event == "" {
		event = cfg.GitHub.DispatchEvent
	}
	if event == "" {
		event = configs.DefaultDispatchEvent
	}

	client, err := hub.New(hub.Options{
		BaseURL:    cfg.GitHub.APIURL,
		Token:      cfg.GitHub.DispatchToken,
		HTTPClient: opts.Runtime.HTTPClient,
	})
	if err != nil {
		return nil, err
	}

	err = client.Dispatch(ctx, cfg.Index.Organization, cfg.Index.Repository, event)

	var entry audit.Entry
	if opts.ReportPath != "" {
		entry = audit.NewEntry("dispatch")
		entry.Org = cfg.Index.Organization
		entry.Repo = cfg.Index.Repository
		entry.Event = event
	}

	if err != nil {
		if opts.ReportPath != "" {
			entry.Error = err.Error()
			err = withReportError(err, audit.Log(opts.ReportPath, entry))
		}
		return nil, err
	}

	result := &DispatchResult{
		Organization: cfg.Index.Organization,
		Repository:   cfg.Index.Repository,
		Event:        event,
	}
	if opts.ReportPath != "" {
		result.RunID = entry.RunID
		result.ReportErr = audit.Log(opts.ReportPath, entry)
	}
	return result, nil
}
