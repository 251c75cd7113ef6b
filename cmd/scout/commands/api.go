package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mlefloch/stockscout/internal/api"
	"github.com/mlefloch/stockscout/internal/api/handlers"
	"github.com/mlefloch/stockscout/internal/api/ws"
	"github.com/mlefloch/stockscout/internal/pipeline"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Starts the REST API server.

Endpoints:
  GET  /health               - Health check
  GET  /metrics              - Prometheus metrics (when enabled)
  POST /api/scan             - Trigger a discovery scan
  GET  /api/scan/latest      - Latest persisted run
  GET  /api/scan/history     - Recent run summaries
  GET  /api/price/{ticker}   - Consensus price for one ticker
  GET  /ws/progress          - Scan progress stream (websocket)

Example:
  go run ./cmd/scout api
  go run ./cmd/scout api --port 8090`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (default from PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== StockScout API Server ===")

	// The hub is created after the logger exists, so progress events go
	// through this indirection.
	var hub *ws.Hub
	progress := func(e pipeline.Event) {
		if hub != nil {
			hub.Publish(e)
		}
	}

	rt, err := initRuntime(progress)
	if err != nil {
		return err
	}
	defer rt.Close()

	if apiPort != "" {
		rt.cfg.Port = apiPort
	}

	hub = ws.NewHub(rt.log)

	ctx := cmd.Context()
	if rt.repo != nil {
		if err := rt.repo.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	scanHandler := handlers.NewScanHandler(rt.pipe, rt.repo, rt.resolver, rt.log)
	router := api.NewRouter(scanHandler, hub, rt.cfg.MetricsEnabled, rt.log)
	server := api.New(rt.cfg, rt.log, router)

	go func() {
		if err := server.Start(); err != nil {
			rt.log.WithError(err).Fatal("Failed to start server")
		}
	}()

	rt.log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", rt.cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	rt.log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	rt.log.Info("Server stopped")
	return nil
}
