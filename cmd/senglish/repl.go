package main

import (
	"os"

	"github.com/aretw0/senglish/internal/cli"
	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive ScriptEnglish session",
	Long: `Reads one chain per line and runs it against a persistent element tree.
Meta commands start with ':' (try :help).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonMode, _ := cmd.Flags().GetBool("json")
		verbose, _ := cmd.Flags().GetBool("verbose")
		sessionID, _ := cmd.Flags().GetString("session")
		headless, _ := cmd.Flags().GetBool("headless")
		if !cmd.Flags().Changed("headless") && !cli.IsInteractive(os.Stdin) {
			headless = true
		}

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		stack, _, err := openStack(sigCtx)
		if err != nil {
			return err
		}
		defer stack.Close()

		return cli.RunREPL(sigCtx, stack, cli.REPLOptions{
			SessionID: sessionID,
			JSON:      jsonMode,
			Verbose:   verbose,
			Headless:  headless,
			In:        cmd.InOrStdin(),
			Out:       cmd.OutOrStdout(),
		})
	},
}

func init() {
	rootCmd.AddCommand(replCmd)

	replCmd.Flags().Bool("json", false, "NDJSON input/output")
	replCmd.Flags().BoolP("verbose", "v", false, "Print successful commands too")
	replCmd.Flags().Bool("headless", false, "No banner or prompt (default when Stdin is not a terminal)")
	replCmd.Flags().StringP("session", "s", "repl", "Session id (scopes persistent state)")

	// 'senglish' with no subcommand opens the REPL.
	rootCmd.RunE = replCmd.RunE
	rootCmd.Flags().AddFlagSet(replCmd.Flags())
}
