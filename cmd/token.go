package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/9Mirrors-Lab/knowledge-index/internal/workflows"
)

var (
	tokenAssertionOnly bool
	tokenJSONOutput    bool
)

func init() {
	tokenCmd.Flags().BoolVar(&tokenAssertionOnly, "assertion", false, "print the signed app assertion instead of exchanging it")
	tokenCmd.Flags().BoolVar(&tokenJSONOutput, "json", false, "output in JSON format, including the expiry")
}

func resetTokenCommandState() {
	tokenAssertionOnly = false
	tokenJSONOutput = false
}

var tokenCmd = &cobra.Command{
	Use:         "token",
	Annotations: map[string]string{stdoutIsOutput: ""},
	Short:       "Print an installation access token",
	Long: `Signs an app assertion with the private key and exchanges it for an
installation access token, then prints the token and nothing else.

Examples:
  # Use the token with the gh CLI
  GH_TOKEN=$(knowledge-index token) gh repo list 9Mirrors-Lab

  # Print the signed assertion without contacting GitHub
  knowledge-index token --assertion`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting token command")

		cfg, err := loadConfig()
		if err != nil {
			fmt.Fprintln(os.Stderr, formatError("Failed to load configuration", err))
			return reported(err)
		}

		result, err := workflows.Token(cmd.Context(), cfg, workflows.TokenOptions{
			AssertionOnly: tokenAssertionOnly,
		})
		if err != nil {
			// stdout is reserved for the token.
			fmt.Fprintln(os.Stderr, formatError("Failed to obtain a token", err))
			return reported(err)
		}
		Logger.Infof("Token expires at %s", result.ExpiresAt.Format("2006-01-02 15:04:05 MST"))

		if tokenJSONOutput {
			return outputJSON(result)
		}
		if tokenAssertionOnly {
			fmt.Println(result.Assertion)
			return nil
		}
		fmt.Println(result.Token)
		return nil
	},
}
