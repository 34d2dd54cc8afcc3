package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server     ServerConfig
	DB         DBConfig
	Redis      RedisConfig
	NATS       NATSConfig
	Embeddings EmbeddingsConfig
	Memory     MemoryConfig
	Notify     NotifyConfig
	Pipeline   PipelineConfig
	Log        LogConfig
}

type ServerConfig struct {
	Host        string
	Port        int
	CORSOrigins []string

	// RateLimitMax of 0 disables API rate limiting.
	RateLimitMax       int
	RateLimitWindowSec int
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type NATSConfig struct {
	URL string
}

type EmbeddingsConfig struct {
	BaseURL string
}

type MemoryConfig struct {
	Enabled   bool
	TopK      int
	RecentLen int
	RecentTTL time.Duration
}

type NotifyConfig struct {
	Enabled bool
	Channel string // "smtp" or "slack"

	SMTPAddr string
	From     string
	To       string

	SlackToken   string
	SlackChannel string
}

type PipelineConfig struct {
	Shards      int
	QueueSize   int
	IndexerSize int
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Load .env file if it exists (ignore error if missing)
	_ = k.Load(file.Provider(".env"), dotenv.Parser())

	// Load environment variables (override .env)
	err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(strings.ReplaceAll(s, "_", "."))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:               k.String("server.host"),
			Port:               k.Int("server.port"),
			CORSOrigins:        splitCommaList(k.String("server.cors.origins")),
			RateLimitMax:       k.Int("server.ratelimit.max"),
			RateLimitWindowSec: k.Int("server.ratelimit.window.sec"),
		},
		DB: DBConfig{
			Host:     k.String("db.host"),
			Port:     k.Int("db.port"),
			User:     k.String("db.user"),
			Password: k.String("db.password"),
			Name:     k.String("db.name"),
			SSLMode:  k.String("db.sslmode"),
			MaxConns: int32(k.Int("db.max.conns")),
		},
		Redis: RedisConfig{
			Host:     k.String("redis.host"),
			Port:     k.Int("redis.port"),
			Password: k.String("redis.password"),
			DB:       k.Int("redis.db"),
		},
		NATS: NATSConfig{
			URL: k.String("nats.url"),
		},
		Embeddings: EmbeddingsConfig{
			BaseURL: k.String("embeddings.base.url"),
		},
		Memory: MemoryConfig{
			Enabled:   k.Bool("memory.enabled"),
			TopK:      k.Int("memory.topk"),
			RecentLen: k.Int("memory.recent.len"),
		},
		Notify: NotifyConfig{
			Enabled:      k.Bool("notify.enabled"),
			Channel:      k.String("notify.channel"),
			SMTPAddr:     k.String("notify.smtp.addr"),
			From:         k.String("notify.from"),
			To:           k.String("notify.to"),
			SlackToken:   k.String("notify.slack.token"),
			SlackChannel: k.String("notify.slack.channel"),
		},
		Pipeline: PipelineConfig{
			Shards:      k.Int("pipeline.shards"),
			QueueSize:   k.Int("pipeline.queue.size"),
			IndexerSize: k.Int("pipeline.indexer.size"),
		},
		Log: LogConfig{
			Level:  k.String("log.level"),
			Format: k.String("log.format"),
		},
	}

	// Apply defaults
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitMax > 0 && cfg.Server.RateLimitWindowSec == 0 {
		cfg.Server.RateLimitWindowSec = 60
	}
	if cfg.DB.Host == "" {
		cfg.DB.Host = "localhost"
	}
	if cfg.DB.Port == 0 {
		cfg.DB.Port = 5432
	}
	if cfg.DB.User == "" {
		cfg.DB.User = "agentic"
	}
	if cfg.DB.Name == "" {
		cfg.DB.Name = "agentic"
	}
	if cfg.DB.SSLMode == "" {
		cfg.DB.SSLMode = "disable"
	}
	if cfg.DB.MaxConns == 0 {
		cfg.DB.MaxConns = 25
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.NATS.URL == "" {
		cfg.NATS.URL = "nats://localhost:4222"
	}
	if cfg.Embeddings.BaseURL == "" {
		cfg.Embeddings.BaseURL = "http://localhost:8000"
	}
	if cfg.Memory.TopK == 0 {
		cfg.Memory.TopK = 5
	}
	if cfg.Memory.RecentLen == 0 {
		cfg.Memory.RecentLen = 20
	}
	if cfg.Notify.Channel == "" {
		cfg.Notify.Channel = "smtp"
	}
	if cfg.Notify.SMTPAddr == "" {
		cfg.Notify.SMTPAddr = "localhost:1025"
	}
	if cfg.Notify.From == "" {
		cfg.Notify.From = "agentic@local.dev"
	}
	if cfg.Notify.To == "" {
		cfg.Notify.To = "ops@local.dev"
	}
	if cfg.Pipeline.Shards == 0 {
		cfg.Pipeline.Shards = 4
	}
	if cfg.Pipeline.QueueSize == 0 {
		cfg.Pipeline.QueueSize = 64
	}
	if cfg.Pipeline.IndexerSize == 0 {
		cfg.Pipeline.IndexerSize = 256
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}

	// Parse durations
	recentTTLStr := k.String("memory.recent.ttl")
	if recentTTLStr == "" {
		recentTTLStr = "24h"
	}
	cfg.Memory.RecentTTL, err = time.ParseDuration(recentTTLStr)
	if err != nil {
		return nil, fmt.Errorf("parsing memory recent ttl: %w", err)
	}

	return cfg, nil
}

func splitCommaList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
