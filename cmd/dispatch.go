package cmd

import (
	"fmt"

	"github.com/9Mirrors-Lab/knowledge-index/internal/ui"
	"github.com/9Mirrors-Lab/knowledge-index/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	dispatchEvent      string
	dispatchReportPath string
)

func init() {
	dispatchCmd.Flags().StringVar(&dispatchEvent, "event", "", "event type to send (default from config, then \"repo-added\")")
	dispatchCmd.Flags().StringVar(&dispatchReportPath, "report", "", "append a JSON Lines run report to this file")
}

func resetDispatchCommandState() {
	dispatchEvent = ""
	dispatchReportPath = ""
}

var dispatchCmd = &cobra.Command{
	Use:   "dispatch",
	Short: "Trigger the index workflow with a repository_dispatch event",
	Long: `Sends a repository_dispatch event to the index repository so its workflow
regenerates the index. Run it from a new repository's setup workflow.

Authenticates with GH_PERSONAL_ACCESS_TOKEN, not the GitHub App.

Examples:
  knowledge-index dispatch
  knowledge-index dispatch --event repo-added`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting dispatch command")

		cfg, err := loadConfig()
		if err != nil {
			fmt.Println(formatError("Failed to load configuration", err))
			return reported(err)
		}

		spinner, cleanup := startSpinner("Sending repository dispatch...", verbose)
		defer cleanup()

		result, err := workflows.Dispatch(cmd.Context(), cfg, workflows.DispatchOptions{
			Event:      dispatchEvent,
			ReportPath: dispatchReportPath,
		})
		if err != nil {
			Logger.Debugf("Dispatch failed: %v", err)
			spinner.FinalMSG = formatError("Failed to send repository dispatch", err)
			return reported(err)
		}
		if result.ReportErr != nil {
			Logger.Warnf("Could not write run report to %s: %v", dispatchReportPath, result.ReportErr)
		}

		spinner.FinalMSG = ui.CheckMark() + " Sent " + ui.Highlight.Sprint(result.Event) +
			" to " + ui.Repo.Sprint(result.Organization+"/"+result.Repository)
		return nil
	},
}
