package hub

import (
	"context"
	"fmt"

	kerrors "github.com/9Mirrors-Lab/knowledge-index/internal/errors"

	"github.com/google/go-github/v62/github"
)

// File is a file read through the contents API.
type File struct {
	Content []byte

	// SHA is the blob SHA, required to update the file.
	SHA string
}

// PutFileRequest describes a single-file commit.
type PutFileRequest struct {
	Owner   string
	Repo    string
	Path    string
	Message string
	Content []byte

	// SHA is the blob being replaced. Empty creates the file.
	SHA string
}

// GetFile reads path from the default branch of owner/repo. A missing file
// yields an error for which IsNotFound is true.
func (c *Client) GetFile(ctx context.Context, owner, repo, path string) (*File, error) {
	content, _, _, err := c.gh.Repositories.GetContents(ctx, owner, repo, path, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s/%s/%s: %w", kerrors.ErrIndexRead, owner, repo, path, ConvertError(err))
	}
	if content == nil {
		return nil, fmt.Errorf("%w: %s/%s/%s is a directory", kerrors.ErrIndexRead, owner, repo, path)
	}

	decoded, err := content.GetContent()
	if err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %w", kerrors.ErrIndexRead, path, err)
	}
	return &File{Content: []byte(decoded), SHA: content.GetSHA()}, nil
}

// PutFile creates or updates a file and returns the new commit SHA.
func (c *Client) PutFile(ctx context.Context, req PutFileRequest) (string, error) {
	opts := &github.RepositoryContentFileOptions{
		Message: github.String(req.Message),
		Content: req.Content,
	}

	var (
		result *github.RepositoryContentResponse
		err    error
	)
	if req.SHA == "" {
		result, _, err = c.gh.Repositories.CreateFile(ctx, req.Owner, req.Repo, req.Path, opts)
	} else {
		opts.SHA = github.String(req.SHA)
		result, _, err = c.gh.Repositories.UpdateFile(ctx, req.Owner, req.Repo, req.Path, opts)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %s/%s/%s: %w", kerrors.ErrIndexWrite, req.Owner, req.Repo, req.Path, ConvertError(err))
	}
	return result.Commit.GetSHA(), nil
}
