package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"jkwi-ims/cmd/console/config"
	"jkwi-ims/cmd/console/ui"
	"jkwi-ims/store"
	"jkwi-ims/store/blob"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	ephemeral := flag.Bool("ephemeral", false, "keep all data in memory")
	flag.Parse()

	if err := run(*configPath, *ephemeral); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(configPath string, ephemeral bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if ephemeral {
		cfg.Storage.Driver = "memory"
	}

	// The terminal belongs to the UI; logs go to a file.
	log := zerolog.Nop()
	if cfg.LogPath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogPath), 0o755); err != nil {
			return err
		}
		f, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer f.Close()
		log = zerolog.New(f).With().Timestamp().Str("app", "console").Logger()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	blobs, closer, err := blob.Open(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer closer.Close()

	s, err := store.Open(ctx, blobs, store.WithLogger(log))
	if err != nil {
		return fmt.Errorf("load data: %w", err)
	}
	log.Info().Str("driver", cfg.Storage.Driver).Msg("console started")

	p := tea.NewProgram(ui.NewRootModel(ctx, ui.Options{
		Store:     s,
		ExportDir: cfg.ExportDir,
		Log:       log,
	}), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
