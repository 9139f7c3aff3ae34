// Package config loads environment variables and provides a typed Config used across the service.
// It applies sensible defaults so the binary can run locally with minimal setup; the
// only hard requirements are the bot token and the status API endpoint.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	// Telegram
	BotToken string `validate:"required"`

	// Train status API
	TrainAPIURL  string `validate:"required,url"`
	FetchTimeout time.Duration

	// Tracking cadence
	PollInterval    time.Duration
	BackoffInterval time.Duration
	StartDelay      time.Duration
	AnimationTick   time.Duration

	// Rendering
	Timezone *time.Location

	// HTTP
	HTTPAddr string
}

// Load reads environment variables, applies defaults, and validates the
// required fields. A validation failure is fatal configuration, not a
// per-chat concern.
func Load() (*Config, error) {
	cfg := &Config{
		BotToken:        os.Getenv("BOT_TOKEN"),
		TrainAPIURL:     os.Getenv("TRAIN_API_URL"),
		FetchTimeout:    durationEnv("FETCH_TIMEOUT", 10*time.Second),
		PollInterval:    durationEnv("POLL_INTERVAL", 30*time.Second),
		BackoffInterval: durationEnv("BACKOFF_INTERVAL", 20*time.Second),
		StartDelay:      durationEnv("START_DELAY", 2*time.Second),
		AnimationTick:   durationEnv("ANIMATION_TICK", time.Second),
		HTTPAddr:        os.Getenv("HTTP_ADDR"),
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	tzName := os.Getenv("TZ")
	if tzName == "" {
		// The upstream API reports Indian Railways times.
		tzName = "Asia/Kolkata"
	}
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid TZ %q: %w", tzName, err)
	}
	cfg.Timezone = loc

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func durationEnv(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}
