package cmd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Taichi-iskw/yt-notes/internal/server"
)

// serveCmd starts the HTTP API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long:  `Serve job submission, job progress and history over HTTP. Jobs are kept in memory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cfg, log, err := factory.load()
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}

		orchestrator, err := newOrchestrator(cfg, log)
		if err != nil {
			return err
		}

		hist, cleanup, err := factory.History(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		tracker := server.NewTracker(ctx, orchestrator, hist, cfg.Server.MaxConcurrentJobs, log)
		srv := server.New(tracker, hist, log)

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Start(cfg.Server.Addr)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default from config, :8080)")
	rootCmd.AddCommand(serveCmd)
}
