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

	"jkwi-ims/backend/config"
	"jkwi-ims/backend/global"
	"jkwi-ims/backend/initialize"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "Path to YAML config (empty for defaults)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}
	logCloser, err := initialize.InitLogger(cfg.LogPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "init logger:", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	app, err := initialize.BuildWith(cfg)
	if err != nil {
		global.Logger.Fatal().Err(err).Msg("build app")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.WatchData(ctx); err != nil {
		global.Logger.Warn().Err(err).Msg("listing cache watcher disabled")
	}

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr(),
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		global.Logger.Info().Str("addr", srv.Addr).Str("members_dir", cfg.Storage.MembersDir).Str("applications_dir", cfg.Storage.ApplicationsDir).Msg("JKWI record API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			global.Logger.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()
	global.Logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		global.Logger.Error().Err(err).Msg("shutdown")
	}
}
