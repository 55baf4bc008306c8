// Package workflows provides high-level orchestration for knowledge-index commands.
//
// Workflows coordinate the keys, appauth, hub, index and audit packages to
// implement complete user-facing features. Each workflow handles a single
// command's business logic, independent of CLI concerns like flag parsing,
// spinners, and output formatting.
//
// # Design Philosophy
//
// The cmd/ package should be a thin layer that:
//   - Loads configuration and parses command-line flags
//   - Calls the appropriate workflow function
//   - Formats the result for display
//
// Workflows handle everything else:
//   - Validating the settings the operation needs
//   - Loading the private key before any network call
//   - Performing the operation against GitHub
//   - Recording the optional run report
//
// # Available Workflows
//
//   - Sync: Regenerates the index document and commits it when it changed
//   - Token: Signs an app assertion and exchanges it for an installation token
//   - Dispatch: Sends the repository_dispatch event that triggers a sync in CI
//   - Doctor: Runs health checks on the configuration and private key
//   - InspectKey: Describes private key material without revealing it
//   - EncodeKey: Base64-encodes a key file for PRIVATE_KEY_BASE64
//
// # Error Handling
//
// Workflows return typed errors from the internal/errors package, allowing
// the CLI layer to provide appropriate user-facing messages without string
// matching. Use errors.Is() to check for specific error conditions:
//
//	result, err := workflows.Sync(ctx, cfg, opts)
//	if errors.Is(err, kerrors.ErrNotPEM) {
//	    // Suggest 'knowledge-index key inspect'
//	}
//
// # Context Usage
//
// Workflows that talk to GitHub accept a context.Context as their first
// parameter. Cancelling it aborts the in-flight request.
package workflows
