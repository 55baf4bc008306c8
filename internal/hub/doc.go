// Package hub is the knowledge-index adapter over the GitHub REST API.
//
// It wraps github.com/google/go-github with the four calls the tool needs:
// listing an organization's repositories, reading and writing a file through
// the contents API, and sending a repository_dispatch event. Requests are
// authenticated with a static bearer token (an installation token or a
// personal access token) through golang.org/x/oauth2.
//
// Non-2xx responses are converted to *APIError so callers can inspect the
// status code and message without importing go-github.
package hub
