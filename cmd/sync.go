package cmd

import (
	"fmt"
	"strings"

	"github.com/9Mirrors-Lab/knowledge-index/internal/ui"
	"github.com/9Mirrors-Lab/knowledge-index/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	syncDryRun     bool
	syncReportPath string
	syncJSONOutput bool
)

func init() {
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "render and compare without writing")
	syncCmd.Flags().StringVar(&syncReportPath, "report", "", "append a JSON Lines run report to this file")
	syncCmd.Flags().BoolVar(&syncJSONOutput, "json", false, "output in JSON format")
}

func resetSyncCommandState() {
	syncDryRun = false
	syncReportPath = ""
	syncJSONOutput = false
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Regenerate the index README",
	Long: `Lists the organization's repositories, keeps those whose name starts with
the prefix, renders the index document and commits it to the index repository.

Nothing is committed when the rendered document matches the stored one.
The private key is validated before any request is sent to GitHub.

Examples:
  # Regenerate the index
  knowledge-index sync

  # Print the document that would be written
  knowledge-index sync --dry-run

  # Keep a record of each run
  knowledge-index sync --report ~/.local/state/knowledge-index/runs.jsonl`,
	RunE: runSync,
}

func runSync(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting sync command")

	cfg, err := loadConfig()
	if err != nil {
		fmt.Println(formatError("Failed to load configuration", err))
		return reported(err)
	}

	spinner, cleanup := startSpinner("Updating the knowledge index...", verbose)
	defer cleanup()

	result, err := workflows.Sync(cmd.Context(), cfg, workflows.SyncOptions{
		DryRun:     syncDryRun,
		ReportPath: syncReportPath,
	})
	if err != nil {
		Logger.Debugf("Sync failed: %v", err)
		spinner.FinalMSG = formatError("Failed to update the knowledge index", err)
		return reported(err)
	}
	if result.ReportErr != nil {
		Logger.Warnf("Could not write run report to %s: %v", syncReportPath, result.ReportErr)
	}

	Logger.Infof("Listed %d repositories, %d indexed", result.Listed, len(result.Repositories))
	for _, record := range result.Repositories {
		Logger.Debugf("Indexed %s", record.Name)
	}

	if syncJSONOutput {
		spinner.FinalMSG = ""
		cleanup()
		return outputJSON(result)
	}

	spinner.FinalMSG = formatSyncResult(result)
	if result.DryRun {
		cleanup()
		fmt.Println()
		fmt.Println(result.Content)
	}
	return nil
}

func formatSyncResult(result *workflows.SyncResult) string {
	target := ui.Repo.Sprint(result.Organization+"/"+result.Repository) + ":" + ui.Path.Sprint(result.Path)
	counts := ui.Muted.Sprintf("%d of %d repositories", len(result.Repositories), result.Listed)

	var b strings.Builder
	switch {
	case result.DryRun && !result.Changed:
		b.WriteString(ui.CheckMark() + " " + target + " is up to date " + counts)
	case result.DryRun:
		b.WriteString(ui.Arrow() + " Would update " + target + " " + counts)
	case !result.Changed:
		b.WriteString(ui.CheckMark() + " " + target + " is up to date " + counts)
	case result.Created:
		b.WriteString(ui.CheckMark() + " Created " + target + " " + counts)
	default:
		b.WriteString(ui.CheckMark() + " Updated " + target + " " + counts)
	}
	if result.CommitSHA != "" {
		b.WriteString("\n" + ui.Arrow() + " Commit " + ui.Highlight.Sprint(shortSHA(result.CommitSHA)))
	}
	return b.String()
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
