package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/opcl/backend/internal/cache"
	"github.com/opcl/backend/internal/config"
	"github.com/opcl/backend/internal/genai"
	httpapi "github.com/opcl/backend/internal/http"
	"github.com/opcl/backend/internal/webhook"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	logger := log.Level(level).With().Str("service", "opcl-backend").Logger()

	if cfg.GoogleAPIKey == "" {
		logger.Warn().Msg("GOOGLE_API_KEY is not set; chat and STT will fail at call time")
	}

	var store cache.Store
	if cfg.RedisAddr == "" {
		store = cache.NewMemory()
		logger.Info().Msg("using in-memory draft cache")
	} else {
		redis := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer redis.Close()
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redis.Ping(pingCtx); err != nil {
			logger.Fatal().Err(err).Msg("failed to connect redis")
		}
		cancel()
		store = redis
	}

	relay := &webhook.Relay{
		Client: &http.Client{Timeout: 30 * time.Second},
		Logger: logger,
	}
	ai := &genai.Client{
		APIKey: cfg.GoogleAPIKey,
		Model:  cfg.GeminiModel,
	}

	router := httpapi.Router(cfg, relay, ai, store, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	logger.Info().Msg("server stopped")
}
