package cmd

import (
	"bytes"
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/9Mirrors-Lab/knowledge-index/internal/configs"
	"github.com/9Mirrors-Lab/knowledge-index/internal/testutil"
)

const (
	testOrg  = "9Mirrors-Lab"
	testRepo = "knowledge-index"
)

// captureOutput captures both stdout and stderr during function execution.
func captureOutput(fn func() error) (string, error) {
	stdout, stderr, err := captureStreams(fn)
	return stdout + stderr, err
}

// captureStreams captures stdout and stderr separately during function execution.
func captureStreams(fn func() error) (string, string, error) {
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

	return <-stdoutChan, <-stderrChan, err
}

// runCLI executes the root command with args against freshly reset state.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	ResetGlobalState()
	SetDoctorExitFunc(func(int) {})
	t.Cleanup(ResetGlobalState)
	return executeCLI(args...)
}

// executeCLI executes the root command with args, keeping current state.
func executeCLI(args ...string) (string, error) {
	if args == nil {
		// A nil slice makes cobra fall back to os.Args.
		args = []string{}
	}
	return captureOutput(func() error {
		RootCmd.SetArgs(args)
		return RootCmd.ExecuteContext(context.Background())
	})
}

// setEnv clears every setting the CLI reads and applies env on top.
func setEnv(t *testing.T, env map[string]string) {
	t.Helper()
	for _, name := range []string{
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
	} {
		t.Setenv(name, env[name])
	}
	t.Setenv("NO_COLOR", "1")
}

// writeKeyFile writes a PKCS#1 key readable only by the owner.
func writeKeyFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.pem")
	if err := os.WriteFile(path, testutil.PKCS1PEM(t, testutil.RSAKey(t)), 0600); err != nil {
		t.Fatalf("Failed to write key: %v", err)
	}
	return path
}

// appEnv is a complete environment pointing at fake.
func appEnv(t *testing.T, fake *testutil.GitHub) map[string]string {
	t.Helper()
	return map[string]string{
		configs.EnvAppID:          "12345",
		configs.EnvInstallationID: "67890",
		configs.EnvPrivateKeyPath: writeKeyFile(t),
		configs.EnvOrganization:   testOrg,
		configs.EnvAPIURL:         fake.URL(),
	}
}
