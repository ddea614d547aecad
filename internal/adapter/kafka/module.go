package kafka

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/sourbakery/internal/config"
	"github.com/polkiloo/sourbakery/internal/usecase"
)

// Module provides the escalation sink and order event publisher.
var Module = fx.Options(
	fx.Provide(newBus),
	fx.Provide(
		func(b bus) usecase.Escalator { return b },
		func(b bus) usecase.OrderEvents { return b },
	),
)

type bus interface {
	usecase.Escalator
	usecase.OrderEvents
}

func newBus(lc fx.Lifecycle, cfg *config.Config, logger *slog.Logger) bus {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("kafka brokers not configured, escalations are logged only")
		return NewLogPublisher(logger)
	}

	publisher := NewPublisher(cfg.KafkaBrokers, Topics{
		Escalations: cfg.EscalationTopic,
		OrderEvents: cfg.OrderEventsTopic,
	}, logger)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return publisher.Close()
		},
	})
	return publisher
}
