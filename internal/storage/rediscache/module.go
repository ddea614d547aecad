package rediscache

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/sourbakery/internal/config"
	"github.com/polkiloo/sourbakery/internal/usecase"
)

// Module provides the payment intent cache.
var Module = fx.Provide(newIntentCache)

func newIntentCache(lc fx.Lifecycle, cfg *config.Config, logger *slog.Logger) usecase.IntentCache {
	if cfg.RedisAddress == "" {
		logger.Info("redis address not configured, payment intent cache disabled")
		return NopCache{}
	}

	cache := NewCache(New(cfg.RedisAddress, cfg.RedisDB), cfg.IdempotencyTTL)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := cache.Ping(ctx); err != nil {
				logger.Warn("redis unreachable, continuing without cache hits", slog.String("error", err.Error()))
			}
			return nil
		},
		OnStop: func(context.Context) error {
			return cache.Close()
		},
	})
	return cache
}
