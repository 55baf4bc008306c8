package cmd

import (
	"github.com/spf13/cobra"
)

// ConfigCmd is the top-level config command.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Create and display knowledge-index configuration",
	Long: `Provides commands for managing the TOML configuration file.

Secrets (PRIVATE_KEY, PRIVATE_KEY_BASE64 and GH_PERSONAL_ACCESS_TOKEN) are
only read from the environment and are never written to the file.

Examples:
  # Write the current settings to knowledge-index.toml
  knowledge-index config init

  # Show the settings in effect, secrets redacted
  knowledge-index config show`,
}

func init() {
	ConfigCmd.AddCommand(configInitCmd)
	ConfigCmd.AddCommand(configShowCmd)
}

func resetConfigCommandState() {
	resetConfigInitState()
	resetConfigShowState()
}
