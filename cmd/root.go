package cmd

import (
	"fmt"
	"os"

	"github.com/9Mirrors-Lab/knowledge-index/internal/configs"
	logger "github.com/9Mirrors-Lab/knowledge-index/internal/logging"
	"github.com/9Mirrors-Lab/knowledge-index/internal/ui"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// stdoutIsOutput marks commands whose stdout is consumed by scripts. Their
// info and debug logs go to stderr.
const stdoutIsOutput = "knowledge-index/stdout-is-output"

var (
	verbose    bool
	debug      bool
	configPath string
	Logger     logger.Logger

	// RootCmd is the knowledge-index command.
	RootCmd = &cobra.Command{
		Use:   "knowledge-index",
		Short: "Keep an organization's knowledge index README up to date",
		Long: `knowledge-index authenticates as a GitHub App and regenerates a README that
lists every repository in an organization whose name starts with a prefix.

Settings come from environment variables, optionally layered over a TOML
file given with --config or KNOWLEDGE_INDEX_CONFIG:

  APP_ID, INSTALLATION_ID       GitHub App and installation
  PRIVATE_KEY_PATH              PEM file holding the app's private key
  PRIVATE_KEY                   the PEM text itself
  PRIVATE_KEY_BASE64            the PEM file, base64-encoded
  INDEX_ORG, INDEX_REPO         organization and index repository
  INDEX_PATH, INDEX_PREFIX      index document path and repository prefix
  GH_PERSONAL_ACCESS_TOKEN      token used by 'dispatch'
  GITHUB_API_URL                API endpoint (GitHub Enterprise)

Examples:
  # Regenerate the index
  knowledge-index sync

  # Show what would be written
  knowledge-index sync --dry-run

  # Diagnose a private key that GitHub rejects
  knowledge-index doctor
  knowledge-index key inspect`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			if _, ok := cmd.Annotations[stdoutIsOutput]; ok {
				Logger.Out = os.Stderr
			}
			Logger.Debugf("Initializing %s with verbose=%t, debug=%t", cmd.CommandPath(), verbose, debug)
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println()
			figure.NewColorFigure("Knowledge Index", "small", "cyan", true).Print()
			fmt.Println()
			fmt.Println("Run " + ui.Code.Sprint("knowledge-index --help") + " to see available commands.")
		},
	}
)

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	RootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a TOML config file")

	RootCmd.AddCommand(syncCmd)
	RootCmd.AddCommand(tokenCmd)
	RootCmd.AddCommand(dispatchCmd)
	RootCmd.AddCommand(doctorCmd)
	RootCmd.AddCommand(KeyCmd)
	RootCmd.AddCommand(ConfigCmd)
}

// loadConfig builds the run configuration from --config and the environment.
func loadConfig() (*configs.Config, error) {
	Logger.Debugf("Loading configuration (config file: %q)", configPath)
	cfg, err := configs.Load(configs.LoadOptions{Path: configPath})
	if err != nil {
		return nil, err
	}
	Logger.Debugf("Index target: %s/%s:%s, prefix %q", cfg.Index.Organization, cfg.Index.Repository, cfg.Index.Path, cfg.Index.Prefix)
	return cfg, nil
}

// Helper functions for testing

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	configPath = ""
	Logger = logger.Logger{}
	resetSyncCommandState()
	resetTokenCommandState()
	resetDispatchCommandState()
	resetDoctorCommandState()
	resetKeyCommandState()
	resetConfigCommandState()
	resetCobraFlagState(RootCmd)
}

// resetCobraFlagState clears parsed flag values on cmd and its children to
// prevent test pollution.
func resetCobraFlagState(cmd *cobra.Command) {
	reset := func(flag *pflag.Flag) {
		_ = flag.Value.Set(flag.DefValue)
		flag.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetCobraFlagState(child)
	}
}
