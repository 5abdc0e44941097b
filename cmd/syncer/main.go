package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"gopkg.in/natefinch/lumberjack.v2"

	"bookmark_sync/internal/config"
	"bookmark_sync/internal/notion"
	"bookmark_sync/internal/publisher"
	"bookmark_sync/internal/scheduler"
	"bookmark_sync/internal/service"
	"bookmark_sync/internal/source/twitter"
	"bookmark_sync/internal/state"
	"bookmark_sync/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	backfill := flag.Bool("backfill", false, "walk the full bookmark history once and exit")
	backfillLimit := flag.Int("backfill-limit", 0, "maximum bookmarks to process during backfill (0 = no limit)")
	once := flag.Bool("once", false, "run a single sync cycle and exit")
	setupOnly := flag.Bool("setup-only", false, "prepare the Notion database schema and exit")
	status := flag.Bool("status", false, "print sync state counters and exit")
	flag.Parse()

	logger := setupLogger("info", "")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel, cfg.Sync.LogFile)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	stateManager := state.NewManager(cfg.Sync.StateFile, logger)

	if *status {
		printStatus(ctx, cfg, stateManager, logger)
		return
	}

	twitterClient := twitter.New(twitter.Config{
		AccessToken: cfg.Twitter.AccessToken,
		PageSize:    cfg.Sync.PageSize,
	}, logger)

	notionClient := notion.New(notion.Config{
		Token:      cfg.Notion.Token,
		DatabaseID: cfg.Notion.DatabaseID,
	}, logger)

	var archive service.Archive
	if cfg.Database != nil {
		db, err := sqlx.Connect("postgres", cfg.Database.DSN())
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		logger.Info("connected to archive database")
		archive = postgres.NewArchiveStore(db)
	}

	var pub service.Publisher
	if cfg.RabbitMQ.URL != "" {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			os.Exit(1)
		}
		defer rabbitMQ.Close()
		pub = rabbitMQ
	}

	syncService := service.NewSyncService(
		twitterClient,
		notionClient,
		stateManager,
		archive,
		pub,
		logger,
		cfg.Sync,
	)

	if err := syncService.Setup(ctx); err != nil {
		logger.Error("setup failed", "error", err)
		os.Exit(1)
	}

	accountID, err := twitterClient.AccountID(ctx)
	if err != nil {
		logger.Error("twitter authentication failed", "error", err)
		os.Exit(1)
	}
	logger.Info("authenticated with twitter", "account_id", accountID)

	if *setupOnly {
		logger.Info("database setup complete")
		return
	}

	switch {
	case *backfill:
		stats := syncService.RunBackfill(ctx, *backfillLimit)
		if stats.Failed() {
			os.Exit(1)
		}
	case *once:
		stats := syncService.RunCycle(ctx)
		if stats.Failed() {
			os.Exit(1)
		}
	default:
		sched := scheduler.NewScheduler(syncService, cfg.Sync.Interval, logger)
		logger.Info("starting bookmark syncer", "interval", cfg.Sync.Interval)
		if err := sched.Start(ctx); err != nil && err != context.Canceled {
			logger.Error("scheduler error", "error", err)
			os.Exit(1)
		}
	}
}

func printStatus(ctx context.Context, cfg *config.Config, manager *state.Manager, logger *slog.Logger) {
	stats := manager.Stats()
	fmt.Printf("Unique synced bookmarks: %d\n", stats.UniqueIDs)
	fmt.Printf("Total sync operations:   %d\n", stats.TotalSynced)
	if stats.LastSync != "" {
		fmt.Printf("Last sync:               %s\n", stats.LastSync)
	} else {
		fmt.Println("Last sync:               never")
	}

	if cfg.Database != nil {
		db, err := sqlx.Connect("postgres", cfg.Database.DSN())
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			return
		}
		defer db.Close()

		count, err := postgres.NewArchiveStore(db).Count(ctx)
		if err != nil {
			logger.Error("failed to count archive", "error", err)
			return
		}
		fmt.Printf("Archived bookmarks:      %d\n", count)
	}
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
