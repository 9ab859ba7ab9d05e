package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/flowforge/internal/health"
	"github.com/felixgeelhaar/flowforge/internal/metrics"
	"github.com/felixgeelhaar/flowforge/internal/path"
	"github.com/felixgeelhaar/flowforge/internal/queue"
	"github.com/felixgeelhaar/flowforge/internal/server"
	"github.com/felixgeelhaar/flowforge/internal/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP server exposing the workflow engine, dependency graph,
path analysis, and queue ordering over a JSON API, with Kubernetes-style
health endpoints for zero-downtime deployments.

Probe endpoints:
  /health/live    - Liveness probe (process alive and responsive)
  /health/ready   - Readiness probe (ready to accept traffic)
  /health/startup - Startup probe (finished initialization)
  /healthz        - Backward-compatible readiness endpoint

The server drains connections gracefully on SIGTERM or SIGINT. API
endpoints live under /api/, the Prometheus registry under /metrics.

Example:
  # Start the server on the configured address (default :8080)
  flowforge serve

  # Override the listen address
  flowforge serve --address 127.0.0.1:9090`,
	RunE: runServe,
}

var (
	serveAddress         string
	serveShutdownTimeout time.Duration
)

func init() {
	serveCmd.Flags().StringVar(&serveAddress, "address", "", "Address to listen on (overrides config)")
	serveCmd.Flags().DurationVar(&serveShutdownTimeout, "shutdown-timeout", 0, "Maximum time to wait for connections to drain (overrides config)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	ws, err := openWorkspace(cfg)
	if err != nil {
		return err
	}

	// The API document is embedded; failing to load it means a broken build.
	if _, err := server.LoadOpenAPIDocument(ctx); err != nil {
		return err
	}

	address := cfg.Server.Address
	if serveAddress != "" {
		address = serveAddress
	}
	shutdownTimeout := cfg.Server.ShutdownTimeout
	if serveShutdownTimeout > 0 {
		shutdownTimeout = serveShutdownTimeout
	}

	info := version.GetInfo()

	pm := health.NewProbeManager(info.Version)
	pm.AddChecker(health.NewStoreChecker(ws.Items))
	pm.AddChecker(health.NewGraphChecker(ws.Graph, ws.Items))
	pm.AddChecker(health.NewWorkflowChecker())

	registry, m := metrics.NewRegistry()

	serverCfg := server.Config{
		Address:         address,
		ShutdownTimeout: shutdownTimeout,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
	}
	if cfg.Auth.Token != "" {
		auth, err := server.NewTokenAuth(cfg.Auth.Token, cfg.Auth.Salt)
		if err != nil {
			return err
		}
		serverCfg.Auth = auth
	}

	srv := server.NewServer(pm, server.Deps{
		Items:    ws.Items,
		Meta:     ws.Meta,
		History:  ws.History,
		Graph:    ws.Graph,
		Analyzer: path.New(ws.Graph, ws.Items),
		Orderer:  queue.New(ws.Meta, queue.NopNotifier{}),
		Logger:   logger,
		Metrics:  m,
		Registry: registry,
	}, serverCfg)

	logger.Info("starting server",
		"version", info.Version,
		"address", address,
		"workspace", cfg.Data.Path,
	)
	fmt.Printf("flowforge %s listening on http://%s\n", info.Version, address)
	fmt.Printf("  API:       http://%s/api/workitems\n", address)
	fmt.Printf("  Metrics:   http://%s/metrics\n", address)
	fmt.Printf("  Liveness:  http://%s/health/live\n", address)
	fmt.Printf("  Readiness: http://%s/health/ready\n", address)
	fmt.Println("Press Ctrl+C to stop the server")

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			serverErr <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)

	case sig := <-sigChan:
		logger.Info("shutting down", "signal", sig.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout+5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}

		// Mutating API calls only live in memory until the snapshot is written.
		if err := ws.Save(cfg.Data.Path); err != nil {
			return err
		}

		logger.Info("server stopped")
		return nil
	}
}
