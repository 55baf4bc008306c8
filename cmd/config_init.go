package cmd

import (
	"fmt"
	"os"

	"github.com/9Mirrors-Lab/knowledge-index/internal/configs"
	"github.com/9Mirrors-Lab/knowledge-index/internal/ui"
	"github.com/9Mirrors-Lab/knowledge-index/internal/utils"

	"github.com/spf13/cobra"
)

const defaultConfigFile = "knowledge-index.toml"

var configInitForce bool

func init() {
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "overwrite an existing file")
}

func resetConfigInitState() {
	configInitForce = false
}

var configInitCmd = &cobra.Command{
	Use:   "init [PATH]",
	Short: "Write a config file from the current settings",
	Long: `Writes the settings in effect (built-in defaults, overlaid with the
environment) to PATH, which defaults to knowledge-index.toml.

Edit the file, then pass it with --config or KNOWLEDGE_INDEX_CONFIG.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config init command")

		path := defaultConfigFile
		if len(args) == 1 {
			path = args[0]
		}

		if _, err := os.Stat(path); err == nil && !configInitForce {
			fmt.Println(ui.Cross() + " " + ui.Path.Sprint(path) + " already exists")
			fmt.Println(ui.Arrow() + " Use " + ui.Code.Sprint("--force") + " to overwrite it")
			return reported(fmt.Errorf("%s already exists", path))
		}

		cfg, err := configs.Load(configs.LoadOptions{})
		if err != nil {
			fmt.Println(formatError("Failed to read the environment", err))
			return reported(err)
		}

		Logger.Debugf("Writing configuration to %s", path)
		if err := configs.Save(path, cfg); err != nil {
			fmt.Println(formatError("Failed to write configuration", err))
			return reported(err)
		}

		fmt.Println(ui.CheckMark() + " Wrote configuration to " + ui.Path.Sprint(path))
		if missing := missingForSync(cfg); len(missing) > 0 {
			fmt.Print(ui.Arrow() + " Still to set:" + utils.FormatList(missing, ui.Highlight))
		}
		return nil
	},
}

// missingForSync lists the settings sync still needs, secrets included.
func missingForSync(cfg *configs.Config) []string {
	var missing []string
	if cfg.App.ID == 0 {
		missing = append(missing, "app.id ("+configs.EnvAppID+")")
	}
	if cfg.App.InstallationID == 0 {
		missing = append(missing, "app.installation_id ("+configs.EnvInstallationID+")")
	}
	if cfg.Index.Organization == "" {
		missing = append(missing, "index.organization ("+configs.EnvOrganization+")")
	}
	if cfg.App.PrivateKeyPath == "" && cfg.App.PrivateKey == "" && cfg.App.PrivateKeyBase64 == "" {
		missing = append(missing, "app.private_key_path ("+configs.EnvPrivateKeyPath+", "+configs.EnvPrivateKey+" or "+configs.EnvPrivateKeyBase64+")")
	}
	return missing
}
