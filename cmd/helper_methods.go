package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	kerrors "github.com/9Mirrors-Lab/knowledge-index/internal/errors"
	"github.com/9Mirrors-Lab/knowledge-index/internal/hub"
	"github.com/9Mirrors-Lab/knowledge-index/internal/ui"
	"github.com/9Mirrors-Lab/knowledge-index/internal/utils"

	"github.com/briandowns/spinner"
)

// startSpinner creates and starts a spinner with the given message when not in
// verbose or debug mode and stdout is a terminal. Returns the spinner and a
// function that should be deferred to clean up.
//
// spinner.FinalMSG values do NOT need trailing newlines. The cleanup function
// prints the final message with ui.EnsureNewline. Calling cleanup more than
// once is safe.
func startSpinner(message string, verbose bool) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	if err := s.Color("cyan"); err != nil {
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	animate := !verbose && !debug && utils.IsStdoutTerminal()
	if animate {
		s.Start()
		log.SetOutput(io.Discard)
	} else {
		Logger.Infof("%s", message)
	}

	done := false
	cleanup := func() {
		if done {
			return
		}
		done = true

		if animate {
			log.SetOutput(os.Stderr)
		}

		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			s.FinalMSG = ""
		}

		if animate {
			s.Stop()
		}

		// Printed through fmt so tests capturing stdout see it.
		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}

// outputJSON writes v to stdout as indented JSON.
func outputJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// reportedError marks an error whose message has already been printed.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func reported(err error) error {
	return &reportedError{err: err}
}

// IsReported reports whether err was already shown to the user by the
// command that returned it.
func IsReported(err error) bool {
	var r *reportedError
	return errors.As(err, &r)
}

// formatError turns a workflow error into a failure line and a hint.
func formatError(action string, err error) string {
	line := ui.Cross() + " " + action + "\n" + ui.Error.Sprint("Error: ") + err.Error()

	hint := errorHint(err)
	if hint == "" {
		return line
	}
	return line + "\n" + ui.Arrow() + " " + hint
}

func errorHint(err error) string {
	switch {
	case errors.Is(err, kerrors.ErrMissingConfig):
		return "Set the missing environment variables, or run " + ui.Code.Sprint("knowledge-index config init") + " to create a config file"

	case errors.Is(err, kerrors.ErrInvalidConfig):
		return "Run " + ui.Code.Sprint("knowledge-index config show") + " to see the settings in effect"

	case errors.Is(err, kerrors.ErrAmbiguousKeySource):
		return "Set only one of PRIVATE_KEY_PATH, PRIVATE_KEY and PRIVATE_KEY_BASE64"

	case errors.Is(err, kerrors.ErrPrivateKeyNotFound):
		return "Download a private key from the GitHub App settings page and set PRIVATE_KEY_PATH"

	case errors.Is(err, kerrors.ErrNotPEM),
		errors.Is(err, kerrors.ErrInvalidPrivateKey):
		return "Run " + ui.Code.Sprint("knowledge-index key inspect") + " to see what the key contains, or store it with " + ui.Code.Sprint("knowledge-index key encode")

	case errors.Is(err, kerrors.ErrUnsupportedKeyType):
		return "GitHub Apps sign with RSA keys; generate a new private key in the app settings"

	case errors.Is(err, kerrors.ErrPassphraseRequired):
		return "Remove the passphrase with " + ui.Code.Sprint("ssh-keygen -p -N \"\" -f KEYFILE") + " or download a new key"

	case errors.Is(err, kerrors.ErrTokenExchange):
		switch hub.StatusCode(err) {
		case 401:
			return "GitHub rejected the assertion; check that APP_ID matches the app the private key belongs to"
		case 404:
			return "Check that INSTALLATION_ID is an installation of this app"
		}
		return ""

	case errors.Is(err, kerrors.ErrListRepositories),
		errors.Is(err, kerrors.ErrIndexRead),
		errors.Is(err, kerrors.ErrIndexWrite):
		switch {
		case hub.IsConflict(err):
			return "The index changed while it was being written; run the sync again"
		case hub.IsNotFound(err), hub.StatusCode(err) == 403:
			return "Check that the app is installed on the organization with Contents read and write access"
		}
		return ""

	case errors.Is(err, kerrors.ErrDispatchFailed):
		return "Check that GH_PERSONAL_ACCESS_TOKEN can access the index repository"

	default:
		return ""
	}
}
