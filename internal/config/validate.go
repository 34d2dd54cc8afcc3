package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Validate checks Config for production-critical problems.
// It collects all errors into a single joined error.
func (c *Config) Validate() error {
	var errs []string

	// DB password
	if c.DB.Password == "" {
		errs = append(errs, "DB_PASSWORD is required")
	}

	// Port ranges
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT must be 1-65535, got %d", c.Server.Port))
	}
	if c.DB.Port < 1 || c.DB.Port > 65535 {
		errs = append(errs, fmt.Sprintf("DB_PORT must be 1-65535, got %d", c.DB.Port))
	}
	if c.Redis.Port < 1 || c.Redis.Port > 65535 {
		errs = append(errs, fmt.Sprintf("REDIS_PORT must be 1-65535, got %d", c.Redis.Port))
	}

	if c.Memory.TopK < 1 {
		errs = append(errs, fmt.Sprintf("MEMORY_TOPK must be positive, got %d", c.Memory.TopK))
	}
	if c.Pipeline.Shards < 1 {
		errs = append(errs, fmt.Sprintf("PIPELINE_SHARDS must be positive, got %d", c.Pipeline.Shards))
	}

	switch c.Notify.Channel {
	case "smtp", "slack":
	default:
		errs = append(errs, fmt.Sprintf("NOTIFY_CHANNEL must be smtp or slack, got %q", c.Notify.Channel))
	}
	if c.Notify.Channel == "slack" && c.Notify.SlackToken == "" {
		errs = append(errs, "NOTIFY_SLACK_TOKEN is required when NOTIFY_CHANNEL=slack")
	}

	// Notification toggle: warn only
	if !c.Notify.Enabled {
		slog.Warn("NOTIFY_ENABLED is false, decided notifications will be dropped")
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n  " + strings.Join(errs, "\n  "))
	}
	return nil
}
