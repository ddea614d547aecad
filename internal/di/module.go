package di

import (
	"log/slog"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/polkiloo/sourbakery/internal/adapter/blob"
	"github.com/polkiloo/sourbakery/internal/adapter/kafka"
	"github.com/polkiloo/sourbakery/internal/adapter/payments"
	"github.com/polkiloo/sourbakery/internal/app"
	"github.com/polkiloo/sourbakery/internal/config"
	"github.com/polkiloo/sourbakery/internal/logger"
	"github.com/polkiloo/sourbakery/internal/pkg/auth"
	"github.com/polkiloo/sourbakery/internal/server/http/router"
	"github.com/polkiloo/sourbakery/internal/storage/postgres"
	"github.com/polkiloo/sourbakery/internal/storage/rediscache"
	"github.com/polkiloo/sourbakery/internal/usecase"
)

// Module assembles the full application graph. Extra options are appended
// last so callers can replace any component.
func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		fx.WithLogger(func(l *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: l}
		}),
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		rediscache.Module,
		kafka.Module,
		payments.Module,
		blob.Module,
		usecase.Module,
		fx.Provide(func(s *postgres.Storage) app.HealthChecker { return s }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}

// Maintenance is the slim graph used by one-shot CLI commands: storage and
// use cases without the HTTP server, payments or messaging.
func Maintenance(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		usecase.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
