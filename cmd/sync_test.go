package cmd

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/9Mirrors-Lab/knowledge-index/internal/audit"
	"github.com/9Mirrors-Lab/knowledge-index/internal/configs"
	kerrors "github.com/9Mirrors-Lab/knowledge-index/internal/errors"
	"github.com/9Mirrors-Lab/knowledge-index/internal/testutil"
)

func TestSyncCommand_CreatesIndex(t *testing.T) {
	fake := testutil.NewGitHub(t)
	fake.Repositories[testOrg] = []string{"know-b", "other", "know-a"}
	setEnv(t, appEnv(t, fake))

	output, err := runCLI(t, "sync")
	if err != nil {
		t.Fatalf("sync failed: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Created") {
		t.Errorf("Expected creation message, got: %s", output)
	}

	file, ok := fake.File(testOrg, testRepo, "README.md")
	if !ok {
		t.Fatal("README.md was not written")
	}
	content := string(file.Content)
	first, second := strings.Index(content, "know-a"), strings.Index(content, "know-b")
	if first < 0 || second < 0 || first > second {
		t.Errorf("Expected know-a before know-b in:\n%s", content)
	}
	if strings.Contains(content, "other") {
		t.Errorf("Unprefixed repository listed in:\n%s", content)
	}
}

func TestSyncCommand_SecondRunIsUpToDate(t *testing.T) {
	fake := testutil.NewGitHub(t)
	fake.Repositories[testOrg] = []string{"know-a"}
	setEnv(t, appEnv(t, fake))

	if output, err := runCLI(t, "sync"); err != nil {
		t.Fatalf("first sync failed: %v\n%s", err, output)
	}

	// Retry once in case the runs straddle midnight UTC.
	output, err := runCLI(t, "sync")
	if err == nil && !strings.Contains(output, "up to date") {
		output, err = runCLI(t, "sync")
	}
	if err != nil {
		t.Fatalf("second sync failed: %v\n%s", err, output)
	}
	if !strings.Contains(output, "up to date") {
		t.Errorf("Expected up to date message, got: %s", output)
	}
	if writes := len(fake.Writes()); writes < 1 || writes > 2 {
		t.Errorf("Expected one write, got %d", writes)
	}
}

func TestSyncCommand_DryRunPrintsDocument(t *testing.T) {
	fake := testutil.NewGitHub(t)
	fake.Repositories[testOrg] = []string{"know-a"}
	setEnv(t, appEnv(t, fake))

	output, err := runCLI(t, "sync", "--dry-run")
	if err != nil {
		t.Fatalf("sync --dry-run failed: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Would update") {
		t.Errorf("Expected dry-run message, got: %s", output)
	}
	if !strings.Contains(output, "https://github.com/9Mirrors-Lab/know-a") {
		t.Errorf("Expected rendered document in output, got: %s", output)
	}
	if len(fake.Writes()) != 0 {
		t.Errorf("Dry run wrote %d times", len(fake.Writes()))
	}
}

func TestSyncCommand_JSONOutput(t *testing.T) {
	fake := testutil.NewGitHub(t)
	fake.Repositories[testOrg] = []string{"know-a", "know-b", "misc"}
	setEnv(t, appEnv(t, fake))

	output, err := runCLI(t, "sync", "--json")
	if err != nil {
		t.Fatalf("sync --json failed: %v\n%s", err, output)
	}

	var result struct {
		Listed       int  `json:"listed"`
		Created      bool `json:"created"`
		Repositories []struct {
			Name string `json:"name"`
		} `json:"repositories"`
	}
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("Output is not JSON: %v\n%s", err, output)
	}
	if result.Listed != 3 || len(result.Repositories) != 2 || !result.Created {
		t.Errorf("Unexpected result: %+v", result)
	}
}

func TestSyncCommand_WritesReport(t *testing.T) {
	fake := testutil.NewGitHub(t)
	fake.Repositories[testOrg] = []string{"know-a"}
	setEnv(t, appEnv(t, fake))
	reportPath := filepath.Join(t.TempDir(), "runs.jsonl")

	if output, err := runCLI(t, "sync", "--report", reportPath); err != nil {
		t.Fatalf("sync failed: %v\n%s", err, output)
	}

	entries, err := audit.ReadEntries(reportPath)
	if err != nil {
		t.Fatalf("ReadEntries failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Operation != "sync" || entries[0].IndexedCount != 1 {
		t.Errorf("Unexpected report entries: %+v", entries)
	}
}

func TestSyncCommand_MissingConfiguration(t *testing.T) {
	setEnv(t, nil)

	output, err := runCLI(t, "sync")
	if !errors.Is(err, kerrors.ErrMissingConfig) {
		t.Fatalf("Expected ErrMissingConfig, got: %v", err)
	}
	if !IsReported(err) {
		t.Error("Expected the error to be reported by the command")
	}
	for _, name := range []string{configs.EnvAppID, configs.EnvInstallationID, configs.EnvOrganization} {
		if !strings.Contains(output, name) {
			t.Errorf("Expected %s in output: %s", name, output)
		}
	}
}

func TestSyncCommand_MalformedKeyMakesNoRequests(t *testing.T) {
	fake := testutil.NewGitHub(t)
	env := appEnv(t, fake)
	delete(env, configs.EnvPrivateKeyPath)
	env[configs.EnvPrivateKey] = "MIIEowIBAAKCAQEA7"
	setEnv(t, env)

	output, err := runCLI(t, "sync")
	if !errors.Is(err, kerrors.ErrNotPEM) {
		t.Fatalf("Expected ErrNotPEM, got: %v", err)
	}
	if !strings.Contains(output, "key inspect") {
		t.Errorf("Expected key inspect hint, got: %s", output)
	}
	if requests := fake.Requests(); len(requests) != 0 {
		t.Errorf("Expected no requests, got %v", requests)
	}
}
