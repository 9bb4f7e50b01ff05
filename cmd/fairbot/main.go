package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/fairental/fairbot/internal/answer"
	"github.com/fairental/fairbot/internal/api"
	"github.com/fairental/fairbot/internal/bus"
	"github.com/fairental/fairbot/internal/chat"
	"github.com/fairental/fairbot/internal/config"
	"github.com/fairental/fairbot/internal/correction"
	"github.com/fairental/fairbot/internal/kb"
	"github.com/fairental/fairbot/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		// Missing .env is the normal case in deployed environments.
		slog.Debug("no .env file loaded", "error", err)
	}

	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("fairbot starting", "port", cfg.Port, "region", cfg.Region)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Event store
	db, err := store.New(ctx, cfg.DatabaseURL, cfg.EventsTable)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.EnsureSchema(ctx); err != nil {
		slog.Error("failed to ensure schema", "error", err)
		os.Exit(1)
	}
	slog.Info("event store ready", "table", cfg.EventsTable)

	// Answer engine
	llm := answer.NewClient(cfg.ModelEndpoint, cfg.ModelAPIKey, cfg.ModelID)
	retriever := kb.NewClient(cfg.KBEndpoint, cfg.KnowledgeBaseID)
	engine := answer.NewEngine(llm, retriever, db, slog.Default())
	slog.Info("answer engine ready", "model", cfg.ModelID, "knowledge_base", cfg.KnowledgeBaseID)

	// Event bus (optional — fairbot works without it, just no notifications)
	var publisher *bus.Publisher
	if cfg.NatsURL != "" {
		publisher, err = bus.Connect(cfg.NatsURL, cfg.NatsToken, slog.Default())
		if err != nil {
			slog.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer publisher.Close()
		slog.Info("event bus connected", "url", cfg.NatsURL)
	} else {
		slog.Warn("NATS not configured — running without log notifications")
	}

	chatSvc := chat.NewService(db, engine, publisher, slog.Default())
	corrSvc := correction.NewService(db, publisher, slog.Default())

	srv := api.NewServer(cfg.Port, cfg.APIToken, chatSvc, corrSvc, db, slog.Default())
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("fairbot ready", "port", cfg.Port)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("server shutdown error", "error", err)
	}
	cancel()
	slog.Info("fairbot stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
