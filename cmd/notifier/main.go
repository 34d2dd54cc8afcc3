package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/agentic-platform/notifier/internal/api"
	"github.com/agentic-platform/notifier/internal/audit"
	"github.com/agentic-platform/notifier/internal/config"
	"github.com/agentic-platform/notifier/internal/database"
	"github.com/agentic-platform/notifier/internal/decision"
	"github.com/agentic-platform/notifier/internal/events"
	"github.com/agentic-platform/notifier/internal/executor"
	"github.com/agentic-platform/notifier/internal/memory"
	"github.com/agentic-platform/notifier/internal/middleware"
	inats "github.com/agentic-platform/notifier/internal/nats"
	"github.com/agentic-platform/notifier/internal/pipeline"
	iredis "github.com/agentic-platform/notifier/internal/redis"
	"github.com/agentic-platform/notifier/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.Log)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// PostgreSQL
	pool, err := database.NewPostgresPool(ctx, cfg.DB)
	if err != nil {
		slog.Error("connecting to postgres", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.RunMigrations(cfg.DB.DSN(), "migrations"); err != nil {
		slog.Error("running migrations", "error", err)
		os.Exit(1)
	}

	// Redis
	redisClient, err := iredis.NewClient(ctx, cfg.Redis)
	if err != nil {
		slog.Error("connecting to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	// NATS JetStream
	natsClient, err := inats.NewClient(ctx, cfg.NATS)
	if err != nil {
		slog.Error("connecting to nats", "error", err)
		os.Exit(1)
	}
	defer natsClient.Close()

	// Semantic memory
	memStore := memory.NewPostgresStore(pool)
	embedder := memory.NewEmbeddingsClient(cfg.Embeddings.BaseURL)
	recent := memory.NewRecentStore(redisClient, cfg.Memory.RecentLen, cfg.Memory.RecentTTL)
	memSvc := memory.NewService(memStore, embedder, recent, cfg.Memory.Enabled, cfg.Memory.TopK)

	// Decision engine and action executor
	engine := decision.NewEngine(nil)

	channel := cfg.Notify.Channel
	if !cfg.Notify.Enabled {
		// With notifications disabled, deliveries route to the no-op SMTP
		// transport.
		channel = "smtp"
	}
	smtpN, slackN := buildNotifiers(cfg.Notify)
	exec := executor.NewForChannel(channel, smtpN, slackN)

	// Audit trail
	publisher := audit.NewPublisher(natsClient.JetStream())

	pipe := pipeline.New(engine, exec, publisher, time.Now)

	indexer := pipeline.NewIndexer(memSvc, cfg.Pipeline.IndexerSize)
	go indexer.Start(ctx)

	dispatcher := pipeline.NewDispatcher(cfg.Pipeline.Shards, cfg.Pipeline.QueueSize,
		func(ctx context.Context, ev events.EnrichedAccountEvent) {
			pipe.Handle(ctx, ev)
			indexer.Enqueue(ev)
		})
	dispatcher.Start(ctx)

	consumer := pipeline.NewConsumer(inats.NewConsumerManager(natsClient.JetStream()), dispatcher)
	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		if err := consumer.Start(ctx); err != nil {
			slog.Error("event consumer stopped", "error", err)
			cancel()
		}
	}()

	// HTTP surface
	memHandler := memory.NewHandler(memSvc)
	pipeHandler := pipeline.NewHandler(pipe, indexer)

	routerCfg := api.RouterConfig{CORSAllowedOrigins: cfg.Server.CORSOrigins}
	if cfg.Server.RateLimitMax > 0 {
		rl := middleware.NewRateLimiter(redisClient, cfg.Server.RateLimitMax, cfg.Server.RateLimitWindowSec)
		routerCfg.RateLimiter = rl.Middleware
	}

	router := api.NewRouter(pool, redisClient, natsClient, routerCfg, api.HandlerSet{
		AgentTest:      pipeHandler.AgentTest,
		MemoryRemember: memHandler.Remember,
		MemoryRecall:   memHandler.Recall,
	})

	srv := server.New(cfg.Server, router)
	srvErr := srv.Start()

	// Intake stops before the shard queues close: the consumer must not
	// dispatch into a stopped dispatcher.
	cancel()
	<-consumerDone
	dispatcher.Stop()

	if srvErr != nil {
		slog.Error("server error", "error", srvErr)
		os.Exit(1)
	}
}

// buildNotifiers selects the notification transports from config. The email
// notifier is always present (no-op when disabled); Slack only when a token
// is configured.
func buildNotifiers(cfg config.NotifyConfig) (executor.Notifier, executor.Notifier) {
	emailEnabled := cfg.Enabled && cfg.Channel == "smtp"
	email := executor.NewSMTPNotifier(cfg.SMTPAddr, cfg.From, cfg.To, emailEnabled)

	var slack executor.Notifier
	if cfg.SlackToken != "" {
		slack = executor.NewSlackNotifier(cfg.SlackToken, cfg.SlackChannel)
	}
	return email, slack
}

func setupLogger(cfg config.LogConfig) {
	var handler slog.Handler

	opts := &slog.HandlerOptions{}
	switch cfg.Level {
	case "debug":
		opts.Level = slog.LevelDebug
	case "info":
		opts.Level = slog.LevelInfo
	case "warn":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	default:
		opts.Level = slog.LevelInfo
	}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
