package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/senglish"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of senglish",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "senglish version %s\n", strings.TrimSpace(senglish.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
