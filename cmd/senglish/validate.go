package main

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/senglish"
	"github.com/aretw0/senglish/internal/cli"
	"github.com/aretw0/senglish/internal/presentation/tui"
	"github.com/aretw0/senglish/internal/validator"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <script.sen|->",
	Short: "Check a script without running it",
	Long: `Reports unknown commands, malformed or unclosed when blocks and unterminated quotes.
Exits non-zero when any issue is found.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonMode, _ := cmd.Flags().GetBool("json")

		text, err := cli.ReadScript(args[0], cmd.InOrStdin())
		if err != nil {
			return err
		}

		in, err := senglish.New()
		if err != nil {
			return err
		}
		defer in.Close()

		issues := validator.Lint(text, validator.FromVocabulary(in.Vocabulary()))
		out := cmd.OutOrStdout()

		if jsonMode {
			if issues == nil {
				issues = []validator.Issue{}
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(issues); err != nil {
				return err
			}
		} else {
			for _, is := range issues {
				fmt.Fprintf(out, "%s %s\n", tui.ErrorColor("✗"), is)
			}
			if len(issues) == 0 {
				fmt.Fprintf(out, "%s %s\n", tui.SuccessColor("✓"), args[0])
			}
		}

		if len(issues) > 0 {
			return fmt.Errorf("%d issue(s) in %s", len(issues), args[0])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("json", false, "Print issues as JSON")
}
