package index

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/9Mirrors-Lab/knowledge-index/internal/hub"
)

// Store is the GitHub surface the indexer needs. *hub.Client satisfies it.
type Store interface {
	ListOrgRepositories(ctx context.Context, org string) ([]string, error)
	GetFile(ctx context.Context, owner, repo, path string) (*hub.File, error)
	PutFile(ctx context.Context, req hub.PutFileRequest) (string, error)
}

// Target identifies the index document and what it lists.
type Target struct {
	Org           string
	Repo          string
	Path          string
	Prefix        string
	Exclude       []string
	Title         string
	CommitMessage string
	Links         Links
}

// Indexer regenerates one index document.
type Indexer struct {
	store    Store
	renderer *Renderer
	target   Target
	now      func() time.Time
}

// Option customizes an Indexer.
type Option func(*Indexer)

// WithRenderer replaces the built-in template.
func WithRenderer(renderer *Renderer) Option {
	return func(i *Indexer) {
		i.renderer = renderer
	}
}

// WithClock sets the time used for the "Last updated" line.
func WithClock(now func() time.Time) Option {
	return func(i *Indexer) {
		i.now = now
	}
}

// NewIndexer returns an Indexer writing target through store.
func NewIndexer(store Store, target Target, opts ...Option) (*Indexer, error) {
	indexer := &Indexer{
		store:  store,
		target: target,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(indexer)
	}
	if indexer.renderer == nil {
		renderer, err := NewRenderer("")
		if err != nil {
			return nil, err
		}
		indexer.renderer = renderer
	}
	return indexer, nil
}

// SyncOptions configures a sync run.
type SyncOptions struct {
	// DryRun renders and compares but never writes.
	DryRun bool
}

// Result is the outcome of a sync run.
type Result struct {
	// Listed is the number of repositories in the organization.
	Listed int

	// Repositories are the indexed repositories in document order.
	Repositories []Record

	// Content is the rendered document.
	Content string

	// Changed reports whether Content differs from the stored document.
	Changed bool

	// Created reports whether the stored document did not exist.
	Created bool

	// Written reports whether a commit was made.
	Written bool

	// CommitSHA is set when Written is true.
	CommitSHA string
}

// Sync lists repositories, renders the index and writes it when it differs
// from the stored document.
func (i *Indexer) Sync(ctx context.Context, opts SyncOptions) (*Result, error) {
	names, err := i.store.ListOrgRepositories(ctx, i.target.Org)
	if err != nil {
		return nil, err
	}

	selected, err := Select(names, i.target.Prefix, i.target.Exclude)
	if err != nil {
		return nil, err
	}
	records := Records(i.target.Org, selected, i.target.Links)

	content, err := i.renderer.Render(Document{
		Title:         i.target.Title,
		Org:           i.target.Org,
		Repo:          i.target.Repo,
		Prefix:        i.target.Prefix,
		ViewerBaseURL: i.target.Links.ViewerBaseURL,
		Repositories:  records,
		Updated:       i.now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	result := &Result{
		Listed:       len(names),
		Repositories: records,
		Content:      content,
	}

	var sha string
	stored, err := i.store.GetFile(ctx, i.target.Org, i.target.Repo, i.target.Path)
	switch {
	case hub.IsNotFound(err):
		result.Created = true
		result.Changed = true
	case err != nil:
		return nil, err
	default:
		sha = stored.SHA
		result.Changed = !bytes.Equal(stored.Content, []byte(content))
	}

	if !result.Changed || opts.DryRun {
		return result, nil
	}

	commit, err := i.store.PutFile(ctx, hub.PutFileRequest{
		Owner:   i.target.Org,
		Repo:    i.target.Repo,
		Path:    i.target.Path,
		Message: i.target.CommitMessage,
		Content: []byte(content),
		SHA:     sha,
	})
	if err != nil {
		return nil, fmt.Errorf("updating %s: %w", i.target.Path, err)
	}
	result.Written = true
	result.CommitSHA = commit
	return result, nil
}
