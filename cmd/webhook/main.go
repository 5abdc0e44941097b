package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"gopkg.in/natefinch/lumberjack.v2"

	"bookmark_sync/internal/config"
	"bookmark_sync/internal/notion"
	"bookmark_sync/internal/source/fxtwitter"
	"bookmark_sync/internal/webhook"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	port := flag.Int("port", 0, "listen port (overrides config)")
	flag.Parse()

	logger := setupLogger("info", "")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel, cfg.Sync.LogFile)

	if cfg.Webhook.SignatureValidationEnabled() && cfg.Webhook.TwilioAuthToken == "" {
		logger.Error("webhook.twilio_auth_token is required when signature validation is enabled")
		os.Exit(1)
	}

	listenPort := cfg.Webhook.Port
	if *port != 0 {
		listenPort = *port
	}

	fetcher := fxtwitter.New(fxtwitter.Config{}, logger)
	notionClient := notion.New(notion.Config{
		Token:      cfg.Notion.Token,
		DatabaseID: cfg.Notion.DatabaseID,
	}, logger)

	server := webhook.NewServer(cfg.Webhook, fetcher, notionClient, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	if err := server.ListenAndServe(ctx, listenPort); err != nil {
		logger.Error("webhook server error", "error", err)
		os.Exit(1)
	}
	logger.Info("webhook server stopped")
}

func setupLogger(level, logFile string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	var out io.Writer = os.Stdout
	if logFile != "" {
		_ = os.MkdirAll(filepath.Dir(logFile), 0o755)
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 5,
			MaxAge:     30, // days
		})
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	return slog.New(slog.NewJSONHandler(out, opts))
}
