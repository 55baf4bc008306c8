package cmd

import (
	"fmt"
	"os"

	"github.com/9Mirrors-Lab/knowledge-index/internal/ui"
	"github.com/9Mirrors-Lab/knowledge-index/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	doctorOnline     bool
	doctorJSONOutput bool
	// doctorExitFunc is the function called to exit with a specific code.
	// Can be overridden for testing.
	doctorExitFunc = os.Exit
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorOnline, "online", false, "also exchange a token with GitHub")
	doctorCmd.Flags().BoolVar(&doctorJSONOutput, "json", false, "output in JSON format")
}

func resetDoctorCommandState() {
	doctorOnline = false
	doctorJSONOutput = false
	doctorExitFunc = os.Exit
}

// SetDoctorExitFunc sets the exit function for testing purposes.
func SetDoctorExitFunc(f func(int)) {
	doctorExitFunc = f
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the configuration and private key",
	Long: `Runs a series of health checks and reports issues without printing any
secret material.

The doctor command checks:
  - Required settings are present
  - Exactly one private key source is configured
  - The key can be read, and key files are not group or world readable
  - The key is a well-formed PEM block holding an RSA key
  - An app assertion can be signed
  - A custom index template parses
  - With --online, GitHub accepts the assertion

Exit codes:
  0 - All checks passed
  1 - Warnings found (non-critical issues)
  2 - Errors found (critical issues)

Use --json for machine-readable output.`,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting doctor command")

	cfg, err := loadConfig()
	if err != nil {
		fmt.Println(formatError("Failed to load configuration", err))
		doctorExitFunc(2)
		return nil
	}

	spinner, cleanup := startSpinner("Running health checks...", verbose)
	defer cleanup()

	result, err := workflows.Doctor(cmd.Context(), cfg, workflows.DoctorOptions{Online: doctorOnline})
	if err != nil {
		spinner.FinalMSG = ui.Cross() + " Failed to run health checks: " + err.Error()
		return reported(err)
	}

	for _, check := range result.Checks {
		Logger.Debugf("Check %s: status=%s, message=%s", check.Name, check.Status.String(), check.Message)
	}

	if doctorJSONOutput {
		spinner.FinalMSG = ""
		cleanup()
		if err := outputJSON(result); err != nil {
			return err
		}
	} else {
		spinner.FinalMSG = ""
		cleanup()
		printDoctorResults(result)
	}

	if code := result.Summary.ExitCode(); code != 0 {
		doctorExitFunc(code)
	}
	return nil
}

// printDoctorResults prints the doctor results in a human-readable format.
func printDoctorResults(result *workflows.DoctorResult) {
	fmt.Println("Running health checks...")
	fmt.Println()

	for _, check := range result.Checks {
		var statusIcon string
		switch check.Status {
		case workflows.CheckPass:
			statusIcon = ui.CheckMark()
		case workflows.CheckWarning:
			statusIcon = ui.WarnMark()
		case workflows.CheckError:
			statusIcon = ui.Cross()
		}
		fmt.Printf("%s %s: %s\n", statusIcon, check.Name, check.Message)
	}

	fmt.Println()
	fmt.Printf("Summary: %d passed", result.Summary.Passed)
	if result.Summary.Warnings > 0 {
		fmt.Printf(", %s", ui.Warning.Sprintf("%d warning(s)", result.Summary.Warnings))
	}
	if result.Summary.Errors > 0 {
		fmt.Printf(", %s", ui.Error.Sprintf("%d error(s)", result.Summary.Errors))
	}
	fmt.Println()

	if len(result.Suggestions) > 0 {
		fmt.Println()
		fmt.Println("Suggestions:")
		for _, suggestion := range result.Suggestions {
			fmt.Printf("  %s %s\n", ui.Arrow(), suggestion)
		}
	}
}
