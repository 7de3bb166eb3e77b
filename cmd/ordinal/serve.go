package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	httpAdapter "github.com/aretw0/ordinal/pkg/adapters/http"
	"github.com/aretw0/ordinal/internal/presentation/tui"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serves the JSON API over the directory given by --dir. Requests name
subdirectories relative to it. Prometheus metrics are exposed on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		addr := cli.cfg.Server.Addr
		if cmd.Flags().Changed("addr") {
			addr, _ = cmd.Flags().GetString("addr")
		}
		root, err := filepath.Abs(cli.dir)
		if err != nil {
			return err
		}

		handler, err := httpAdapter.NewHandler(ctx, cli.engine,
			httpAdapter.WithRoot(root),
			httpAdapter.WithSessions(cli.sessions),
			httpAdapter.WithMetrics(promhttp.HandlerFor(cli.registry, promhttp.HandlerOpts{})),
			httpAdapter.WithLogger(cli.logger),
		)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		serverErrors := make(chan error, 1)
		go func() {
			out := cmd.ErrOrStderr()
			tui.PrintBanner(out, cli.printer.Profile())
			fmt.Fprintf(out, "Starting Ordinal Server on %s\n", srv.Addr)
			fmt.Fprintf(out, "Serving directory: %s\n", root)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case <-ctx.Done():
			cli.logger.Info("shutdown requested")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				cli.logger.Warn("graceful shutdown did not complete", "err", err)
				return srv.Close()
			}
			cli.logger.Info("server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
}
