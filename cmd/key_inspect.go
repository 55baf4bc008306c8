package cmd

import (
	"errors"
	"fmt"

	"github.com/9Mirrors-Lab/knowledge-index/internal/configs"
	"github.com/9Mirrors-Lab/knowledge-index/internal/keys"
	"github.com/9Mirrors-Lab/knowledge-index/internal/ui"
	"github.com/9Mirrors-Lab/knowledge-index/internal/workflows"

	"github.com/spf13/cobra"
)

var keyInspectJSONOutput bool

var errKeyUnusable = errors.New("private key is unusable")

func init() {
	keyInspectCmd.Flags().BoolVar(&keyInspectJSONOutput, "json", false, "output in JSON format")
}

func resetKeyInspectState() {
	keyInspectJSONOutput = false
}

var keyInspectCmd = &cobra.Command{
	Use:   "inspect [PATH | -]",
	Short: "Describe private key material without printing it",
	Long: `Reads the configured private key, or PATH, or stdin when PATH is "-", and
reports its size, leading bytes in hex, PEM framing and whether it parses.

Use this when GitHub rejects the app's assertion or a secret store may
have altered the key. The key itself is never printed.

Exits non-zero when the key cannot be used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting key inspect command")

		path, data, err := readKeyArgument(args)
		if err != nil {
			fmt.Println(formatError("Failed to read key material", err))
			return reported(err)
		}

		cfg := configs.Default()
		if path == "" && data == nil {
			if cfg, err = loadConfig(); err != nil {
				fmt.Println(formatError("Failed to load configuration", err))
				return reported(err)
			}
		}

		result, err := workflows.InspectKey(cfg, workflows.InspectKeyOptions{Path: path, Data: data})
		if err != nil {
			fmt.Println(formatError("Failed to read private key", err))
			return reported(err)
		}

		if keyInspectJSONOutput {
			if err := outputJSON(result); err != nil {
				return err
			}
		} else {
			printKeyDiagnosis(result)
		}

		if !result.Diagnosis.OK() {
			return reported(errKeyUnusable)
		}
		return nil
	},
}

func printKeyDiagnosis(result *workflows.InspectKeyResult) {
	d := result.Diagnosis

	fmt.Println("Source:         " + result.Source)
	fmt.Printf("Size:           %d bytes\n", d.Size)
	fmt.Println("Leading bytes:  " + ui.Muted.Sprint(d.HeadHex))
	fmt.Println("Valid UTF-8:    " + yesNo(d.ValidUTF8))
	fmt.Println("PEM header:     " + yesNo(d.HasPEMHeader) + pemTypeSuffix(d))
	fmt.Println("PEM footer:     " + yesNo(d.HasPEMFooter))
	if d.LiteralNewlines {
		fmt.Println("Literal \\n:     " + ui.Warning.Sprint("yes"))
	}
	if d.Unescaped {
		fmt.Println("Unescaped:      yes " + ui.Muted.Sprint("literal \\n sequences were converted to line breaks"))
	}
	if d.Base64WrappedPEM {
		fmt.Println("Base64 PEM:     " + ui.Warning.Sprint("yes"))
	}
	if result.LoosePermissions {
		fmt.Println("Permissions:    " + ui.Warning.Sprint("readable by group or others"))
	}
	fmt.Println()

	if d.OK() {
		fmt.Printf("%s %s RSA key, %d bits\n", ui.CheckMark(), d.Format, d.Bits)
		return
	}
	fmt.Println(ui.Cross() + " " + d.Error)
	if hint := diagnosisHint(d); hint != "" {
		fmt.Println(ui.Arrow() + " " + hint)
	}
}

func diagnosisHint(d keys.Diagnosis) string {
	switch {
	case d.Base64WrappedPEM:
		return "The value is base64-encoded; set it as PRIVATE_KEY_BASE64"
	case d.LiteralNewlines:
		return "Store the key with real line breaks, or run " + ui.Code.Sprint("knowledge-index key encode") + " and use PRIVATE_KEY_BASE64"
	case !d.HasPEMHeader:
		return "Use the .pem file downloaded from the GitHub App settings, including its BEGIN and END lines"
	default:
		return ""
	}
}

func pemTypeSuffix(d keys.Diagnosis) string {
	if d.PEMType == "" {
		return ""
	}
	return " " + ui.Muted.Sprint(d.PEMType)
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
