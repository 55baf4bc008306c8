// Package shared contains testing utilities shared between integration tests.
// It drives the real root command against a fake GitHub API with the
// environment a CI workflow would provide.
package shared

import (
	"bytes"
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/9Mirrors-Lab/knowledge-index/cmd"
	"github.com/9Mirrors-Lab/knowledge-index/internal/configs"
	"github.com/9Mirrors-Lab/knowledge-index/internal/testutil"
)

const (
	TestOrg     = "9Mirrors-Lab"
	TestRepo    = "knowledge-index"
	TestAppID   = "12345"
	TestInstall = "67890"
)

// settings lists every environment variable the CLI reads.
var settings = []string{
	configs.EnvAppID,
	configs.EnvInstallationID,
	configs.EnvPrivateKey,
	configs.EnvPrivateKeyBase64,
	configs.EnvPrivateKeyPath,
	configs.EnvDispatchToken,
	configs.EnvOrganization,
	configs.EnvRepository,
	configs.EnvPath,
	configs.EnvPrefix,
	configs.EnvAPIURL,
	configs.EnvConfigFile,
}

// CaptureOutput captures both stdout and stderr during function execution.
func CaptureOutput(fn func() error) (string, error) {
	originalStdout := os.Stdout
	originalStderr := os.Stderr

	stdoutReader, stdoutWriter, _ := os.Pipe()
	stderrReader, stderrWriter, _ := os.Pipe()

	os.Stdout = stdoutWriter
	os.Stderr = stderrWriter

	stdoutChan := make(chan string, 1)
	stderrChan := make(chan string, 1)

	go func() {
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, stdoutReader); err != nil {
			log.Fatalf("Failed to copy stdout: %s", err)
		}
		stdoutChan <- buf.String()
	}()

	go func() {
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, stderrReader); err != nil {
			log.Fatalf("Failed to copy stderr: %s", err)
		}
		stderrChan <- buf.String()
	}()

	err := fn()

	stdoutWriter.Close()
	stderrWriter.Close()

	os.Stdout = originalStdout
	os.Stderr = originalStderr

	return <-stdoutChan + <-stderrChan, err
}

// RunCLI runs knowledge-index with args against freshly reset command state.
// Doctor exit codes are returned instead of terminating the test binary.
func RunCLI(t *testing.T, args ...string) (output string, exitCode int, err error) {
	t.Helper()
	cmd.ResetGlobalState()
	t.Cleanup(cmd.ResetGlobalState)

	cmd.SetDoctorExitFunc(func(code int) {
		exitCode = code
	})

	if args == nil {
		args = []string{}
	}
	output, err = CaptureOutput(func() error {
		cmd.RootCmd.SetArgs(args)
		return cmd.RootCmd.ExecuteContext(context.Background())
	})
	return output, exitCode, err
}

// SetEnv clears every setting the CLI reads and applies env on top.
func SetEnv(t *testing.T, env map[string]string) {
	t.Helper()
	for _, name := range settings {
		t.Setenv(name, env[name])
	}
	t.Setenv("NO_COLOR", "1")
}

// WriteKeyFile writes key material to an owner-only file and returns its path.
func WriteKeyFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.private-key.pem")
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("Failed to write key file: %v", err)
	}
	return path
}

// AppEnv is the environment of the index workflow, minus the private key.
func AppEnv(fake *testutil.GitHub) map[string]string {
	return map[string]string{
		configs.EnvAppID:          TestAppID,
		configs.EnvInstallationID: TestInstall,
		configs.EnvOrganization:   TestOrg,
		configs.EnvRepository:     TestRepo,
		configs.EnvAPIURL:         fake.URL(),
		configs.EnvDispatchToken:  testutil.PersonalToken,
	}
}
