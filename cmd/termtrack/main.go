package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/conorfennell/termtrack/internal/config"
	"github.com/conorfennell/termtrack/internal/index"
	"github.com/conorfennell/termtrack/internal/reminder"
	"github.com/conorfennell/termtrack/internal/seed"
	"github.com/conorfennell/termtrack/internal/storage"
	"github.com/conorfennell/termtrack/internal/sync"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(log)

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database opened", "path", cfg.DBPath)

	if cfg.Seed {
		if err := seed.Run(db); err != nil {
			log.Error("failed to seed sample data", "error", err)
			os.Exit(1)
		}
	}

	idx := index.New()
	engine := sync.NewEngine(db, idx)
	if err := idx.Reload(db); err != nil {
		log.Error("failed to load index", "error", err)
		os.Exit(1)
	}
	if err := idx.Complete(); err != nil {
		log.Error("index failed referential check", "error", err)
		os.Exit(1)
	}

	scheduler := reminder.NewScheduler(reminder.NewLogNotifier(log), reminder.NewLogAlerter(log))
	result, err := scheduler.Scan(context.Background(), time.Now(), engine.Index())
	if err != nil {
		log.Error("reminder scan failed", "error", err)
		os.Exit(1)
	}

	log.Info("scan summary",
		"terms", len(idx.Terms()),
		"scheduled", len(result.Scheduled),
		"cancelled", len(result.Cancelled),
		"alerts", len(result.Alerts),
	)
}
