package main

import (
	"fmt"
	"log"
	"os"

	"github.com/aretw0/senglish/internal/cli"
	"github.com/aretw0/senglish/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes ScriptEnglish to AI agents as MCP tools (execute, segment, validate, trigger, inspect)
and resources (senglish://tree, senglish://vocabulary).

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		stack, logger, err := openStack(sigCtx)
		if err != nil {
			return err
		}
		defer stack.Close()

		mgr := stack.Manager()
		defer mgr.Close()
		srv := mcp.NewServer(mgr, logger, mcp.WithMaxInputSize(cfg.MaxInputSize))

		switch transport {
		case "stdio":
			// Ensure logs don't corrupt JSON-RPC on Stdout
			log.SetOutput(os.Stderr)
			logger.Info("Starting senglish MCP Server (Stdio)...")
			return srv.ServeStdio()
		case "sse":
			logger.Info("Starting senglish MCP Server (SSE)", "port", port)
			return srv.ServeSSE(sigCtx, port)
		default:
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}
