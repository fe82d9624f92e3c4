package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/senglish/internal/cli"
	"github.com/aretw0/senglish/internal/config"
	"github.com/spf13/cobra"
)

// cfg is loaded once by the root PersistentPreRunE.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "senglish",
	Short: "senglish runs ScriptEnglish, an English-like command language for element trees",
	Long: `senglish interprets ScriptEnglish chains such as

  create div named box with text "Hi" .. style box with color:red

against an in-memory element tree. Run scripts, explore in a REPL,
or serve sessions over HTTP and MCP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			loaded.LogLevel, _ = cmd.Flags().GetString("log-level")
		}
		if cmd.Flags().Changed("state") {
			loaded.State.Backend, _ = cmd.Flags().GetString("state")
			if err := loaded.Validate(); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("quiet") {
			quiet, _ := cmd.Flags().GetBool("quiet")
			loaded.Debug = !quiet
			loaded.Warnings = !quiet
		}
		cfg = loaded
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openStack builds the logger and state backend for a command.
func openStack(ctx context.Context) (*cli.Stack, *slog.Logger, error) {
	logger := cli.CreateLogger(cfg)
	stack, err := cli.NewStack(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return stack, logger, nil
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "senglish.yaml", "Config file (.yaml, .toml or .json); missing is fine")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("state", "memory", "State backend: memory, redis or sqlite")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Silence diagnostic logging")
}
