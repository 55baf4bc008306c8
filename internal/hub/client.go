package hub

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"
)

// DefaultBaseURL is the public GitHub API.
const DefaultBaseURL = "https://api.github.com"

const userAgent = "knowledge-index"

// Options configures a Client.
type Options struct {
	// BaseURL is the REST API root. Defaults to DefaultBaseURL.
	BaseURL string

	// Token is sent as a bearer token on every request.
	Token string

	// HTTPClient is the underlying transport. Defaults to http.DefaultClient.
	HTTPClient *http.Client
}

// Client performs the GitHub calls used by the indexer and dispatcher.
type Client struct {
	gh *github.Client
}

// New returns a Client authenticated with opts.Token.
func New(opts Options) (*Client, error) {
	if opts.Token == "" {
		return nil, fmt.Errorf("hub: a token is required")
	}

	ctx := context.Background()
	if opts.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, opts.HTTPClient)
	}
	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token}))

	gh, err := NewGitHubClient(opts.BaseURL, httpClient)
	if err != nil {
		return nil, err
	}
	return &Client{gh: gh}, nil
}

// NewGitHubClient returns an unauthenticated go-github client rooted at baseURL.
func NewGitHubClient(baseURL string, httpClient *http.Client) (*github.Client, error) {
	gh := github.NewClient(httpClient)
	gh.UserAgent = userAgent

	if baseURL == "" || baseURL == DefaultBaseURL {
		return gh, nil
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("hub: invalid API URL %q: %w", baseURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("hub: invalid API URL %q: scheme and host are required", baseURL)
	}
	if !strings.HasSuffix(parsed.Path, "/") {
		parsed.Path += "/"
	}
	gh.BaseURL = parsed
	return gh, nil
}
