package main

import (
	"github.com/aretw0/senglish/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <script.sen|->",
	Short: "Run a ScriptEnglish script",
	Long: `Runs a script in a fresh interpreter and prints failed commands.
Lines starting with '#' are comments. Use '-' to read the script from Stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonMode, _ := cmd.Flags().GetBool("json")
		tree, _ := cmd.Flags().GetBool("tree")
		verbose, _ := cmd.Flags().GetBool("verbose")
		strict, _ := cmd.Flags().GetBool("strict")
		watch, _ := cmd.Flags().GetBool("watch")

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		stack, _, err := openStack(sigCtx)
		if err != nil {
			return err
		}
		defer stack.Close()

		return cli.Execute(sigCtx, stack, cli.RunOptions{
			Path:    args[0],
			JSON:    jsonMode,
			Tree:    tree,
			Verbose: verbose,
			Strict:  strict,
			Watch:   watch,
			Out:     cmd.OutOrStdout(),
			In:      cmd.InOrStdin(),
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("json", false, "Print the report as JSON")
	runCmd.Flags().Bool("tree", false, "Print the element tree after the run")
	runCmd.Flags().BoolP("verbose", "v", false, "Print successful commands too")
	runCmd.Flags().Bool("strict", false, "Exit non-zero when any command fails")
	runCmd.Flags().BoolP("watch", "w", false, cli.DescribeWatch())
}
