package main

import (
	"github.com/aretw0/senglish/internal/cli"
	httpAdapter "github.com/aretw0/senglish/pkg/adapters/http"
	"github.com/aretw0/senglish/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Exposes interpreter sessions over a JSON API:

  POST   /sessions/{id}/cmd          run a chain
  POST   /sessions/{id}/events       fire an element event
  GET    /sessions/{id}/tree         element tree
  GET    /sessions/{id}/state/{key}  state value
  GET    /sessions/{id}/stream       diagnostics (SSE)
  DELETE /sessions/{id}              close a session
  GET    /health, /info, /metrics`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("addr") {
			cfg.HTTP.Addr, _ = cmd.Flags().GetString("addr")
		}

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		stack, logger, err := openStack(sigCtx)
		if err != nil {
			return err
		}
		defer stack.Close()

		reg := prometheus.NewRegistry()
		metrics := observability.NewMetrics(reg)
		mgr := stack.Manager(metrics.Hooks(), observability.AuditHooks(logger))
		defer mgr.Close()

		handler := httpAdapter.NewHandler(mgr,
			httpAdapter.WithLogger(logger),
			httpAdapter.WithMaxInputSize(cfg.MaxInputSize),
			httpAdapter.WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
		)
		return httpAdapter.ListenAndServe(sigCtx, cfg.HTTP.Addr, handler, logger)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
}
