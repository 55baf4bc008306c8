package testutil

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

// Credentials accepted by the fake server.
const (
	InstallationToken = "ghs_test_installation_token"
	PersonalToken     = "ghp_test_personal_token"
)

// FakeFile is a file held by the fake contents API.
type FakeFile struct {
	Content []byte
	SHA     string
}

// PutRequest is a recorded contents API write.
type PutRequest struct {
	Owner   string
	Repo    string
	Path    string
	Message string
	Content []byte
	SHA     string
}

// DispatchRequest is a recorded repository_dispatch call.
type DispatchRequest struct {
	Owner         string
	Repo          string
	EventType     string
	Authorization string
}

// GitHub is a fake GitHub REST API. Configure the exported fields before
// issuing requests.
type GitHub struct {
	Server *httptest.Server

	// Repositories maps an organization to the repository names it lists.
	Repositories map[string][]string

	// PageSize forces pagination of the repository listing. Zero honors per_page.
	PageSize int

	// TokenStatus, when non-zero, makes the token exchange fail with that status.
	TokenStatus int

	// TokenExpiresAt is reported with the installation token.
	TokenExpiresAt time.Time

	// DispatchStatus overrides the 204 returned for repository dispatch.
	DispatchStatus int

	mu          sync.Mutex
	files       map[string]FakeFile
	requests    []string
	assertions  []string
	writes      []PutRequest
	dispatches  []DispatchRequest
	commitCount int
}

// NewGitHub starts a fake GitHub server that is closed when the test ends.
func NewGitHub(t testing.TB) *GitHub {
	t.Helper()

	g := &GitHub{
		Repositories:   map[string][]string{},
		TokenExpiresAt: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
		files:          map[string]FakeFile{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /app/installations/{id}/access_tokens", g.handleAccessToken)
	mux.HandleFunc("GET /orgs/{org}/repos", g.handleListRepos)
	mux.HandleFunc("GET /repos/{owner}/{repo}/contents/{path...}", g.handleGetContents)
	mux.HandleFunc("PUT /repos/{owner}/{repo}/contents/{path...}", g.handlePutContents)
	mux.HandleFunc("POST /repos/{owner}/{repo}/dispatches", g.handleDispatch)

	g.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		g.mu.Lock()
		g.requests = append(g.requests, r.Method+" "+r.URL.Path)
		g.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(g.Server.Close)
	return g
}

// URL is the API root with a trailing slash, as go-github expects.
func (g *GitHub) URL() string {
	return g.Server.URL + "/"
}

// SetFile stores content at owner/repo/path with a SHA derived from it.
func (g *GitHub) SetFile(owner, repo, path string, content []byte) FakeFile {
	g.mu.Lock()
	defer g.mu.Unlock()
	file := FakeFile{Content: append([]byte(nil), content...), SHA: BlobSHA(content)}
	g.files[fileKey(owner, repo, path)] = file
	return file
}

// File returns the stored file and whether it exists.
func (g *GitHub) File(owner, repo, path string) (FakeFile, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	file, ok := g.files[fileKey(owner, repo, path)]
	return file, ok
}

// Requests returns every request received as "METHOD /path".
func (g *GitHub) Requests() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.requests...)
}

// Assertions returns the bearer tokens presented to the token exchange.
func (g *GitHub) Assertions() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.assertions...)
}

// Writes returns every contents API write.
func (g *GitHub) Writes() []PutRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]PutRequest(nil), g.writes...)
}

// Dispatches returns every repository_dispatch call.
func (g *GitHub) Dispatches() []DispatchRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]DispatchRequest(nil), g.dispatches...)
}

func (g *GitHub) handleAccessToken(w http.ResponseWriter, r *http.Request) {
	authorization := r.Header.Get("Authorization")
	assertion, ok := strings.CutPrefix(authorization, "Bearer ")
	if !ok || !strings.HasPrefix(assertion, "ey") {
		writeError(w, http.StatusUnauthorized, "A JSON web token could not be decoded")
		return
	}

	g.mu.Lock()
	g.assertions = append(g.assertions, assertion)
	status := g.TokenStatus
	expiresAt := g.TokenExpiresAt
	g.mu.Unlock()

	if status != 0 {
		writeError(w, status, "Integration must generate a public key")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"token":      InstallationToken,
		"expires_at": expiresAt.UTC().Format(time.RFC3339),
	})
}

func (g *GitHub) handleListRepos(w http.ResponseWriter, r *http.Request) {
	if !authorized(r, InstallationToken) {
		writeError(w, http.StatusUnauthorized, "Bad credentials")
		return
	}

	org := r.PathValue("org")
	g.mu.Lock()
	names, ok := g.Repositories[org]
	pageSize := g.PageSize
	g.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}

	if pageSize == 0 {
		pageSize = 30
		if perPage, err := strconv.Atoi(r.URL.Query().Get("per_page")); err == nil && perPage > 0 {
			pageSize = perPage
		}
	}
	page := 1
	if value, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && value > 0 {
		page = value
	}

	start := min((page-1)*pageSize, len(names))
	end := min(start+pageSize, len(names))
	if end < len(names) {
		next := fmt.Sprintf("%s%s?page=%d&per_page=%d", g.Server.URL, r.URL.Path, page+1, pageSize)
		w.Header().Set("Link", fmt.Sprintf(`<%s>; rel="next"`, next))
	}

	repos := make([]map[string]any, 0, end-start)
	for _, name := range names[start:end] {
		repos = append(repos, map[string]any{
			"name":      name,
			"full_name": org + "/" + name,
			"html_url":  "https://github.com/" + org + "/" + name,
		})
	}
	writeJSON(w, http.StatusOK, repos)
}

func (g *GitHub) handleGetContents(w http.ResponseWriter, r *http.Request) {
	if !authorized(r, InstallationToken) {
		writeError(w, http.StatusUnauthorized, "Bad credentials")
		return
	}

	path := r.PathValue("path")
	file, ok := g.File(r.PathValue("owner"), r.PathValue("repo"), path)
	if !ok {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"type":     "file",
		"encoding": "base64",
		"name":     path[strings.LastIndex(path, "/")+1:],
		"path":     path,
		"sha":      file.SHA,
		"content":  file.Content,
	})
}

func (g *GitHub) handlePutContents(w http.ResponseWriter, r *http.Request) {
	if !authorized(r, InstallationToken) {
		writeError(w, http.StatusUnauthorized, "Bad credentials")
		return
	}

	var body struct {
		Message string `json:"message"`
		Content []byte `json:"content"`
		SHA     string `json:"sha"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Problems parsing JSON")
		return
	}

	owner, repo, path := r.PathValue("owner"), r.PathValue("repo"), r.PathValue("path")

	g.mu.Lock()
	defer g.mu.Unlock()

	key := fileKey(owner, repo, path)
	existing, exists := g.files[key]
	switch {
	case exists && body.SHA == "":
		writeError(w, http.StatusUnprocessableEntity, `Invalid request. "sha" wasn't supplied.`)
		return
	case exists && body.SHA != existing.SHA:
		writeError(w, http.StatusConflict, fmt.Sprintf("%s does not match %s", path, body.SHA))
		return
	}

	g.writes = append(g.writes, PutRequest{
		Owner:   owner,
		Repo:    repo,
		Path:    path,
		Message: body.Message,
		Content: body.Content,
		SHA:     body.SHA,
	})
	file := FakeFile{Content: body.Content, SHA: BlobSHA(body.Content)}
	g.files[key] = file
	g.commitCount++

	status := http.StatusOK
	if !exists {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]any{
		"content": map[string]any{"path": path, "sha": file.SHA},
		"commit":  map[string]any{"sha": fmt.Sprintf("commit-%d", g.commitCount), "message": body.Message},
	})
}

func (g *GitHub) handleDispatch(w http.ResponseWriter, r *http.Request) {
	if !authorized(r, PersonalToken) {
		writeError(w, http.StatusUnauthorized, "Bad credentials")
		return
	}

	var body struct {
		EventType string `json:"event_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Problems parsing JSON")
		return
	}

	g.mu.Lock()
	g.dispatches = append(g.dispatches, DispatchRequest{
		Owner:         r.PathValue("owner"),
		Repo:          r.PathValue("repo"),
		EventType:     body.EventType,
		Authorization: r.Header.Get("Authorization"),
	})
	status := g.DispatchStatus
	g.mu.Unlock()

	switch {
	case status == 0 || status == http.StatusNoContent:
		w.WriteHeader(http.StatusNoContent)
	case status < 300:
		writeJSON(w, status, map[string]any{})
	default:
		writeError(w, status, "Resource not accessible by personal access token")
	}
}

func authorized(r *http.Request, token string) bool {
	return r.Header.Get("Authorization") == "Bearer "+token
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"message":           message,
		"documentation_url": "https://docs.github.com/rest",
	})
}

func fileKey(owner, repo, path string) string {
	return owner + "/" + repo + "/" + path
}

// BlobSHA computes the git blob SHA GitHub reports for content.
func BlobSHA(content []byte) string {
	h := sha1.New()
	fmt.Fprintf(h, "blob %d\x00", len(content))
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}
