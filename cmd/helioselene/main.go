// Command helioselene serves satellite Sun/Moon transit predictions over
// HTTP.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/geraldgg/helioselene/internal/api"
	"github.com/geraldgg/helioselene/internal/auth"
	"github.com/geraldgg/helioselene/internal/ratelimit"
)

type config struct {
	httpAddr       string
	authEnabled    bool
	authToken      string
	rateLimitRPS   float64
	rateLimitBurst int
	maxWindowDays  int
	trustProxy     bool
}

func loadConfig(logger *slog.Logger) config {
	cfg := config{
		httpAddr:       ":8080",
		rateLimitRPS:   5,
		rateLimitBurst: 10,
		maxWindowDays:  30,
	}

	if v := os.Getenv("HELIOSELENE_HTTP_ADDR"); v != "" {
		cfg.httpAddr = v
	}
	cfg.authEnabled = envBool(logger, "HELIOSELENE_AUTH_ENABLED", false)
	cfg.authToken = os.Getenv("HELIOSELENE_AUTH_TOKEN")
	cfg.rateLimitRPS = envFloat(logger, "HELIOSELENE_RATE_LIMIT_RPS", cfg.rateLimitRPS)
	cfg.rateLimitBurst = envInt(logger, "HELIOSELENE_RATE_LIMIT_BURST", cfg.rateLimitBurst)
	cfg.maxWindowDays = envInt(logger, "HELIOSELENE_MAX_WINDOW_DAYS", cfg.maxWindowDays)
	cfg.trustProxy = envBool(logger, "HELIOSELENE_TRUST_PROXY", false)

	if cfg.authEnabled && cfg.authToken == "" {
		logger.Warn("auth enabled without HELIOSELENE_AUTH_TOKEN, disabling auth")
		cfg.authEnabled = false
	}
	return cfg
}

func envBool(logger *slog.Logger, key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		logger.Warn("invalid boolean, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envInt(logger *slog.Logger, key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logger.Warn("invalid integer, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envFloat(logger *slog.Logger, key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		logger.Warn("invalid number, using default", "key", key, "value", v, "default", def)
		return def
	}
	return f
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := loadConfig(logger)

	limiter := ratelimit.NewIPLimiter(ratelimit.Config{
		RPS:        cfg.rateLimitRPS,
		Burst:      cfg.rateLimitBurst,
		TrustProxy: cfg.trustProxy,
	})

	srv := api.NewServer(
		cfg.httpAddr,
		logger,
		auth.Config{Enabled: cfg.authEnabled, Token: cfg.authToken},
		limiter,
		time.Duration(cfg.maxWindowDays)*24*time.Hour,
	)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("shutdown failed", "error", err)
			os.Exit(1)
		}
	}
	logger.Info("stopped")
}
