// Command train-live-bot runs the Telegram live train tracker.
// It:
//   - Loads configuration and initializes structured logging.
//   - Authenticates the Telegram bot and starts long polling for commands.
//   - Tracks one train per chat in a background task that polls the status
//     API and keeps a single message per chat edited in place.
//   - Exposes a minimal HTTP server with /healthz, /status, and /metrics.
//
// Shutdown is graceful on SIGINT/SIGTERM.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/railbeacon/train-live-bot/bot"
	"github.com/railbeacon/train-live-bot/config"
	"github.com/railbeacon/train-live-bot/railapi"
	"github.com/railbeacon/train-live-bot/server"
	"github.com/railbeacon/train-live-bot/telegram"
	"github.com/railbeacon/train-live-bot/telemetry"
	"github.com/railbeacon/train-live-bot/tracker"
)

func main() {
	// Load .env file if present (local dev convenience only; production relies on real env)
	_ = godotenv.Load()

	// Configure logging (level + format). Defaults: level=info, format=text.
	lvl := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	case "info", "":
		// keep default
	default:
		tmp := slog.New(slog.NewTextHandler(os.Stdout, nil))
		tmp.Warn("unknown LOG_LEVEL, using info", slog.String("value", os.Getenv("LOG_LEVEL")))
	}
	var handler slog.Handler
	switch strings.ToLower(os.Getenv("LOG_FORMAT")) {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	default:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	}
	slog.SetDefault(slog.New(handler))

	// Config
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", slog.Any("err", err))
		os.Exit(1)
	}

	// Metrics / telemetry init
	telemetry.Init()

	// Initialize OpenTelemetry tracing (optional; requires OTEL_EXPORTER_OTLP_ENDPOINT)
	shutdown, err := telemetry.InitTracing("train-live-bot", "1.0.0")
	if err != nil {
		slog.Error("tracing initialization failed", slog.Any("err", err))
		os.Exit(1)
	}
	defer shutdown()

	// Telegram transport
	tg, err := telegram.New(cfg.BotToken)
	if err != nil {
		slog.Error("telegram auth failed", slog.Any("err", err))
		os.Exit(1)
	}
	slog.Info("telegram bot authenticated", slog.String("username", tg.Username()))

	// Root context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tracker registry over the status API and Telegram transport
	api := railapi.NewClient(cfg.TrainAPIURL, cfg.FetchTimeout)
	reg := tracker.NewRegistry(api, tg, tracker.Options{
		PollInterval:    cfg.PollInterval,
		BackoffInterval: cfg.BackoffInterval,
		StartDelay:      cfg.StartDelay,
		AnimationTick:   cfg.AnimationTick,
		Timezone:        cfg.Timezone,
	})

	// Command dispatcher over long-poll updates
	dispatcher := bot.NewDispatcher(reg, tg)
	go dispatcher.Run(ctx, tg.Updates(ctx))

	// HTTP server (health/status/metrics)
	go func() {
		if err := server.Start(ctx, reg, cfg.HTTPAddr); err != nil {
			slog.Error("http server exited with error", slog.Any("err", err))
		}
	}()

	// Block until shutdown signal
	<-ctx.Done()
	slog.Info("shutting down")
}
