package hub

import (
	"context"
	"fmt"

	kerrors "github.com/9Mirrors-Lab/knowledge-index/internal/errors"

	"github.com/google/go-github/v62/github"
)

const listPageSize = 100

// ListOrgRepositories returns the names of every repository in org the
// token can see, following pagination to the end.
func (c *Client) ListOrgRepositories(ctx context.Context, org string) ([]string, error) {
	opts := &github.RepositoryListByOrgOptions{
		ListOptions: github.ListOptions{PerPage: listPageSize},
	}

	var names []string
	for {
		repos, resp, err := c.gh.Repositories.ListByOrg(ctx, org, opts)
		if err != nil {
			return nil, fmt.Errorf("%w: listing repositories for %s: %w", kerrors.ErrListRepositories, org, ConvertError(err))
		}
		for _, repo := range repos {
			names = append(names, repo.GetName())
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return names, nil
}

// Dispatch sends a repository_dispatch event to owner/repo. GitHub answers
// 204 No Content on success; any other status is an error.
func (c *Client) Dispatch(ctx context.Context, owner, repo, event string) error {
	_, resp, err := c.gh.Repositories.Dispatch(ctx, owner, repo, github.DispatchRequestOptions{EventType: event})
	if err != nil {
		return fmt.Errorf("%w: %s/%s: %w", kerrors.ErrDispatchFailed, owner, repo, ConvertError(err))
	}
	if resp.StatusCode != 204 {
		return fmt.Errorf("%w: %s/%s: %w", kerrors.ErrDispatchFailed, owner, repo, &APIError{
			StatusCode: resp.StatusCode,
			Message:    "expected 204 No Content",
		})
	}
	return nil
}
