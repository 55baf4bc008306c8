package cmd

import (
	"fmt"
	"os"

	"github.com/9Mirrors-Lab/knowledge-index/internal/ui"
	"github.com/9Mirrors-Lab/knowledge-index/internal/utils"
	"github.com/9Mirrors-Lab/knowledge-index/internal/workflows"

	"github.com/spf13/cobra"
)

var keyEncodeJSONOutput bool

func init() {
	keyEncodeCmd.Flags().BoolVar(&keyEncodeJSONOutput, "json", false, "output in JSON format")
}

func resetKeyEncodeState() {
	keyEncodeJSONOutput = false
}

var keyEncodeCmd = &cobra.Command{
	Use:         "encode PATH | -",
	Annotations: map[string]string{stdoutIsOutput: ""},
	Short:       "Print a private key as base64 for PRIVATE_KEY_BASE64",
	Long: `Validates a private key file and prints it base64-encoded on one line.

Secret stores keep a single-line value intact, so PRIVATE_KEY_BASE64 avoids
the mangled line breaks that make GitHub reject a PEM key.

Examples:
  knowledge-index key encode app.private-key.pem | gh secret set PRIVATE_KEY_BASE64
  cat app.private-key.pem | knowledge-index key encode -`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting key encode command")

		path, data, err := readKeyArgument(args)
		if err != nil {
			fmt.Fprintln(os.Stderr, formatError("Failed to read key material", err))
			return reported(err)
		}

		result, err := workflows.EncodeKey(workflows.EncodeKeyOptions{Path: path, Data: data})
		if err != nil {
			fmt.Fprintln(os.Stderr, formatError("Refusing to encode an unusable key", err))
			return reported(err)
		}
		Logger.Infof("Encoding %s RSA key, %d bits", result.Format, result.Bits)

		if keyEncodeJSONOutput {
			return outputJSON(result)
		}
		fmt.Println(result.Encoded)
		if utils.IsStdoutTerminal() {
			fmt.Fprintln(os.Stderr, ui.Arrow()+" Store this value as "+ui.Code.Sprint("PRIVATE_KEY_BASE64"))
		}
		return nil
	},
}
