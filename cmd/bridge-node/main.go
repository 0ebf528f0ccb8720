package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/app"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/config"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to config file (default config.local.yaml or config.yaml)")
	flag.Parse()

	if err := config.LoadConfig(configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg := config.AppConfig
	logger := config.NewLogger(cfg.Log)

	container, err := app.InitializeContainer(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize services")
	}
	defer container.Cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := container.Bootstrap(ctx); err != nil {
		logger.WithError(err).Fatal("Failed to bootstrap program")
	}
	container.Monitoring.Start()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           container.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.WithField("addr", srv.Addr).Info("🚀 Bridge node listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("HTTP server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("Graceful shutdown failed")
	}
}
