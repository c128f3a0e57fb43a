package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/protofab/protofab/internal/config"
	"github.com/protofab/protofab/internal/server"
)

var serveCmd = &cobra.Command{
	Use:     "serve [path...]",
	Aliases: []string{"s"},
	Short:   "Start the preview server with hot reload",
	Long: `Start the preview server with hot reload capability.
Loads every definition from the configured component paths, serves the
preview shell, and pushes updates to connected browsers when files change.

Examples:
  protofab serve                   # Serve definitions from configured paths
  protofab serve ./components      # Serve definitions from a directory
  protofab serve card.json menu/   # Mix files and directories`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 8380, "Port to serve on")
	serveCmd.Flags().String("host", "localhost", "Host to bind to")
	serveCmd.Flags().Bool("no-open", false, "Don't open browser automatically")

	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	viper.BindPFlag("server.no-open", serveCmd.Flags().Lookup("no-open"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if len(args) > 0 {
		cfg.Components.Paths = args
	}

	logger := newLogger(cfg)

	srv, err := server.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Shut down cleanly on interrupt.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error(shutdownCtx, err, "shutdown failed")
		}
		cancel()
	}()

	return srv.Start(ctx)
}
