package cmd

import (
	"fmt"
	"strings"

	"github.com/9Mirrors-Lab/knowledge-index/internal/configs"
	"github.com/9Mirrors-Lab/knowledge-index/internal/ui"
	"github.com/9Mirrors-Lab/knowledge-index/internal/workflows"

	"github.com/spf13/cobra"
)

var configShowJSON bool

func init() {
	configShowCmd.Flags().BoolVar(&configShowJSON, "json", false, "output in JSON format")
}

// resetConfigShowState resets the config show command's global state for testing.
func resetConfigShowState() {
	configShowJSON = false
}

// configView is the displayed form of a Config. Secret values are redacted.
type configView struct {
	App struct {
		ID               int64  `json:"id"`
		InstallationID   int64  `json:"installation_id"`
		PrivateKeySource string `json:"private_key_source"`
		PrivateKey       string `json:"private_key,omitempty"`
		PrivateKeyBase64 string `json:"private_key_base64,omitempty"`
	} `json:"app"`
	Index  configs.IndexConfig `json:"index"`
	GitHub struct {
		APIURL        string `json:"api_url"`
		DispatchEvent string `json:"dispatch_event"`
		DispatchToken string `json:"dispatch_token,omitempty"`
	} `json:"github"`
}

func newConfigView(cfg *configs.Config) configView {
	var view configView
	view.App.ID = cfg.App.ID
	view.App.InstallationID = cfg.App.InstallationID
	view.App.PrivateKeySource = workflows.KeySource(cfg).String()
	view.App.PrivateKey = ui.Redact(cfg.App.PrivateKey)
	view.App.PrivateKeyBase64 = ui.Redact(cfg.App.PrivateKeyBase64)
	view.Index = cfg.Index
	view.GitHub.APIURL = cfg.GitHub.APIURL
	view.GitHub.DispatchEvent = cfg.GitHub.DispatchEvent
	view.GitHub.DispatchToken = ui.Redact(cfg.GitHub.DispatchToken)
	return view
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the configuration in effect",
	Long: `Displays the settings that sync, token and dispatch would use, after the
config file and environment are applied. Secrets are redacted.

Examples:
  knowledge-index config show
  knowledge-index --config ci.toml config show --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config show command")

		cfg, err := loadConfig()
		if err != nil {
			fmt.Println(formatError("Failed to load configuration", err))
			return reported(err)
		}

		view := newConfigView(cfg)
		if configShowJSON {
			return outputJSON(view)
		}

		printConfigView(view)
		return nil
	},
}

func printConfigView(view configView) {
	fmt.Println(ui.Info.Sprint("[app]"))
	printSetting("id", orUnset(view.App.ID))
	printSetting("installation_id", orUnset(view.App.InstallationID))
	printSetting("private_key", view.App.PrivateKeySource)

	fmt.Println()
	fmt.Println(ui.Info.Sprint("[index]"))
	printSetting("organization", orUnsetString(view.Index.Organization))
	printSetting("repository", view.Index.Repository)
	printSetting("path", view.Index.Path)
	printSetting("prefix", view.Index.Prefix)
	if len(view.Index.Exclude) > 0 {
		printSetting("exclude", strings.Join(view.Index.Exclude, ", "))
	}
	printSetting("title", view.Index.Title)
	printSetting("commit_message", view.Index.CommitMessage)
	if view.Index.TemplatePath != "" {
		printSetting("template_path", view.Index.TemplatePath)
	}
	printSetting("source_base_url", view.Index.SourceBaseURL)
	printSetting("viewer_base_url", view.Index.ViewerBaseURL)

	fmt.Println()
	fmt.Println(ui.Info.Sprint("[github]"))
	printSetting("api_url", view.GitHub.APIURL)
	printSetting("dispatch_event", view.GitHub.DispatchEvent)
	printSetting("dispatch_token", orUnsetString(view.GitHub.DispatchToken))
}

func printSetting(name, value string) {
	fmt.Printf("  %-16s %s\n", name+":", value)
}

func orUnset(value int64) string {
	if value == 0 {
		return ui.Muted.Sprint("not set")
	}
	return fmt.Sprint(value)
}

func orUnsetString(value string) string {
	if value == "" {
		return ui.Muted.Sprint("not set")
	}
	return value
}
