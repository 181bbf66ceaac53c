package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/user/hotscan/internal/api"
	"github.com/user/hotscan/internal/config"
	"github.com/user/hotscan/internal/extract"
	"github.com/user/hotscan/internal/monitoring"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the extraction API over HTTP",
	Long: `serve starts an HTTP server that accepts saved search pages in request
bodies and answers with the extracted records as JSON or CSV.`,
	RunE: serveAPI,
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "port to listen on (default from SERVER_PORT)")
	rootCmd.AddCommand(serveCmd)
}

func serveAPI(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cmd.Flags().Changed("port") {
		cfg.ServerPort = servePort
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	locators, err := cfg.Locators()
	if err != nil {
		return fmt.Errorf("load locators: %w", err)
	}

	metrics := monitoring.NewMetrics(prometheus.DefaultRegisterer)

	extractor, err := extract.NewExtractor(locators, metrics, logger)
	if err != nil {
		return fmt.Errorf("build extractor: %w", err)
	}
	scanner := extract.NewScanner(extractor, cfg.Workers, metrics, logger)

	server := api.NewServer(cfg, scanner, metrics, logger)

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("could not start server", zap.Error(err))
		}
	}()
	logger.Info("server started", zap.String("port", cfg.ServerPort))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exiting")
	return nil
}
