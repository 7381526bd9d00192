package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"catalog-matcher/internal/config"
	"catalog-matcher/internal/engine"
	serverhttp "catalog-matcher/server/http"
)

func main() {
	cfg := config.Load()
	logger := config.SetupLogger(cfg)

	eng := engine.New(engine.Options{
		SettingsFile:  cfg.SettingsFile,
		MappingsFile:  cfg.MappingsFile,
		AutomationDir: cfg.AutomationDir,
		Logger:        logger,
	})
	eng.Reload()

	r := serverhttp.NewRouter(cfg, eng, logger)

	srv := &http.Server{Addr: cfg.Addr(), Handler: r, ReadHeaderTimeout: 10 * time.Second}
	logger.Info().Str("addr", cfg.Addr()).Msg("server starting")

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("listen")
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	logger.Info().Msg("bye")
}
