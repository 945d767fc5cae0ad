package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"jkwi-ims/agent/internal/auth"
	"jkwi-ims/agent/internal/config"
	"jkwi-ims/agent/internal/logger"
	"jkwi-ims/agent/internal/syncclient"
	"jkwi-ims/store/blob"
)

const usage = `usage: agent [-config path] <command> [flags]

commands:
  register      create an account and keep its token
  login         exchange username/password for a token
  logout        forget the saved token
  apply         submit a membership application
  members       list members
  applications  list applications
  stats         show user, member and application counts
  health        check the server and replay queued requests
  sync          replay queued requests now
  queue         show queued requests
  run           stay up: health checks, replay and periodic sync
`

type agent struct {
	cfg    config.AppConfig
	tokens *auth.FileStore
	client *syncclient.Client
	out    io.Writer
}

func main() {
	cfgPath := flag.String("config", "config/config.yaml", "Path to configuration file")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logCloser, err := logger.Init(cfg.LogPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "init logger:", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, closer, err := setup(ctx, cfg)
	if err != nil {
		logger.Error("Agent setup failed:", err)
		os.Exit(1)
	}
	defer closer.Close()

	if err := a.dispatch(ctx, flag.Arg(0), flag.Args()[1:]); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

func setup(ctx context.Context, cfg config.AppConfig) (*agent, io.Closer, error) {
	tokens, err := auth.Open(cfg.TokenPath)
	if err != nil {
		return nil, nil, err
	}
	blobs, closer, err := blob.Open(ctx, blob.Config{
		Driver:      cfg.QueueDriver,
		Path:        cfg.QueueDir,
		RedisAddr:   cfg.RedisAddr,
		RedisPrefix: "jkwi:agent:",
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open queue store: %w", err)
	}
	queue, err := syncclient.LoadQueue(ctx, blobs)
	if err != nil {
		_ = closer.Close()
		return nil, nil, err
	}
	return newAgent(cfg, tokens, queue, os.Stdout), closer, nil
}

// newAgent starts the client offline; the first probe decides otherwise.
func newAgent(cfg config.AppConfig, tokens *auth.FileStore, queue *syncclient.Queue, out io.Writer) *agent {
	a := &agent{cfg: cfg, tokens: tokens, out: out}
	a.client = syncclient.New(cfg.APIBaseURL, tokens, queue,
		syncclient.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		syncclient.WithLogger(logger.L),
		syncclient.WithOnline(false),
		syncclient.WithNotifier(a.report),
	)
	return a
}

func (a *agent) report(e syncclient.Event) {
	switch e.State {
	case syncclient.StateSynced:
		fmt.Fprintf(a.out, "synced   %s %s (%s)\n", e.Entry.Method, e.Entry.Endpoint, e.Entry.ID)
	case syncclient.StateReQueued:
		fmt.Fprintf(a.out, "requeued %s %s (%s): %v\n", e.Entry.Method, e.Entry.Endpoint, e.Entry.ID, e.Err)
	case syncclient.StateQueued:
		fmt.Fprintf(a.out, "queued   %s %s (%s)\n", e.Entry.Method, e.Entry.Endpoint, e.Entry.ID)
	}
}
