package main

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/senglish"
	"github.com/aretw0/senglish/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var vocabCmd = &cobra.Command{
	Use:     "vocab",
	Aliases: []string{"commands"},
	Short:   "List the ScriptEnglish commands",
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonMode, _ := cmd.Flags().GetBool("json")
		raw, _ := cmd.Flags().GetBool("raw")

		in, err := senglish.New()
		if err != nil {
			return err
		}
		defer in.Close()
		usages := in.Vocabulary()

		if jsonMode {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(usages)
		}

		md := tui.VocabularyMarkdown(usages)
		if raw {
			_, err := fmt.Fprint(cmd.OutOrStdout(), md)
			return err
		}
		out, err := tui.NewRenderer()(md)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), out)
		return err
	},
}

func init() {
	rootCmd.AddCommand(vocabCmd)
	vocabCmd.Flags().Bool("json", false, "Print as JSON")
	vocabCmd.Flags().Bool("raw", false, "Print raw markdown")
}
