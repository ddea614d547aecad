package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/sourbakery/internal/config"
	"github.com/polkiloo/sourbakery/internal/server/http/handlers"
	"github.com/polkiloo/sourbakery/internal/usecase"
	"github.com/polkiloo/sourbakery/internal/worker"
)

const readHeaderTimeout = 10 * time.Second

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		newBakeryFacade,
		func(f *BakeryFacade) handlers.BakeryFacade { return f },
		newHTTPServer,
		newResetScheduler,
	),
	fx.Invoke(registerLifecycle),
)

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:              p.Config.RunAddress,
		Handler:           p.Router,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

type schedulerParams struct {
	fx.In

	Ledger *usecase.InventoryLedger
	Config *config.Config
	Logger *slog.Logger
}

// newResetScheduler returns nil when no weekly reset is configured.
func newResetScheduler(p schedulerParams) (*worker.ResetScheduler, error) {
	if p.Config.WeeklyReset == "" {
		return nil, nil
	}
	weekday, minute, err := usecase.ParseWeeklyTime(p.Config.WeeklyReset)
	if err != nil {
		return nil, fmt.Errorf("weekly reset: %w", err)
	}
	return worker.NewResetScheduler(p.Ledger, weekday, minute, p.Config.Location, p.Config.ResetCheckInterval, p.Logger), nil
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Scheduler  *worker.ResetScheduler
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting sourbakery",
				slog.String("addr", p.Server.Addr),
				slog.String("timezone", p.Config.Timezone),
				slog.String("order_window", p.Config.OrderWindow))
			if p.Scheduler != nil {
				p.Scheduler.Start(ctx)
				p.Logger.Info("weekly reset scheduled", slog.String("at", p.Config.WeeklyReset))
			}
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if p.Scheduler != nil {
				p.Scheduler.Stop()
			}

			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("sourbakery stopped")
			return nil
		},
	})
}
