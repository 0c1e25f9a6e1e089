// ABOUTME: HTTP server command exposing the feed as an HTML card page and JSON API.
// ABOUTME: Refreshes in the background and shuts down gracefully on SIGINT/SIGTERM.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/2389-research/newsdeck/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the feed over HTTP",
	Long: `Serve the feed as a web page at / (with search, provider and type query
parameters), JSON at /api/posts, health at /healthz and Prometheus
metrics at /metrics.`,
	RunE: runServe,
}

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides serve.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	addr := globalConfig.Serve.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	if !globalController.CheckHealth(ctx) {
		log.WithFields(log.Fields{
			"api_url": globalClient.BaseURL(),
		}).Warn("API is not healthy yet; serving anyway")
	}

	server := web.NewServer(web.ServerConfig{
		Fetcher:  globalController,
		APIURL:   globalClient.BaseURL(),
		Interval: globalConfig.Refresh.Interval,
	})
	server.Start(ctx)
	defer server.Stop()

	app := server.App()
	errCh := make(chan error, 1)
	go func() {
		log.WithFields(log.Fields{"addr": addr}).Info("Serving feed")
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	return app.ShutdownWithTimeout(5 * time.Second)
}

