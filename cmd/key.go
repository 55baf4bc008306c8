package cmd

import (
	"fmt"

	"github.com/9Mirrors-Lab/knowledge-index/internal/utils"

	"github.com/spf13/cobra"
)

// KeyCmd groups commands that examine and prepare the app's private key.
var KeyCmd = &cobra.Command{
	Use:   "key",
	Short: "Inspect and encode the GitHub App private key",
	Long: `Commands for the GitHub App private key.

Examples:
  # Explain why the configured key does not parse
  knowledge-index key inspect

  # Check a key piped from a secret store
  vault kv get -field=pem secret/app | knowledge-index key inspect -

  # Encode a key for storage as PRIVATE_KEY_BASE64
  knowledge-index key encode app.private-key.pem`,
}

func init() {
	KeyCmd.AddCommand(keyInspectCmd)
	KeyCmd.AddCommand(keyEncodeCmd)
}

func resetKeyCommandState() {
	resetKeyInspectState()
	resetKeyEncodeState()
}

// readKeyArgument returns the path named by args, or the stdin contents when
// the argument is "-".
func readKeyArgument(args []string) (path string, data []byte, err error) {
	if len(args) == 0 {
		return "", nil, nil
	}
	if args[0] != "-" {
		return args[0], nil, nil
	}
	Logger.Debugf("Reading key material from stdin")
	data, err = utils.ReadStdin()
	if err != nil {
		return "", nil, fmt.Errorf("reading stdin: %w", err)
	}
	return "", data, nil
}
