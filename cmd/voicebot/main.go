package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"voicebot/config"
	"voicebot/internal/application"
	"voicebot/internal/infra/archive"
	"voicebot/internal/infra/pushover"
	"voicebot/internal/infra/sqlite"
	"voicebot/internal/infra/telegram"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// Populate the environment before config expansion; a missing .env
	// is fine.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg.Log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutting down")
		cancel()
	}()

	store, err := sqlite.NewStore(cfg.Storage.DBPath)
	if err != nil {
		logger.Error("opening store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	clips, err := archive.NewDir(cfg.Storage.ArchiveDir)
	if err != nil {
		logger.Error("opening archive", "error", err)
		os.Exit(1)
	}

	var notifier application.Notifier
	if cfg.Pushover.Enabled {
		notifier = pushover.NewClient(cfg.Pushover.Token, cfg.Pushover.UserKey)
	} else {
		notifier = &application.NoopNotifier{}
	}

	var limiter *telegram.RateLimiter
	if cfg.RateLimit.PerMinute > 0 {
		limiter = telegram.NewRateLimiter(cfg.RateLimit.PerMinute, time.Minute)
	}

	client, err := telegram.NewClient(cfg.Telegram.Token, cfg.Telegram.PollTimeout, limiter, logger)
	if err != nil {
		logger.Error("connecting to telegram", "error", err)
		os.Exit(1)
	}

	relay := application.NewRelay(client, client, store, clips, notifier, logger)

	logger.Info("starting voice clip bot",
		"db", cfg.Storage.DBPath,
		"archive", cfg.Storage.ArchiveDir,
	)

	if err := relay.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("relay error", "error", err)
		os.Exit(1)
	}
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
