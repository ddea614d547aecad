package payments

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/sourbakery/internal/config"
	"github.com/polkiloo/sourbakery/internal/usecase"
)

// Module provides the Stripe backed payment processor and webhook verifier.
var Module = fx.Options(
	fx.Provide(newStripeGateway),
	fx.Provide(
		func(g *StripeGateway) usecase.PaymentProcessor { return g },
		func(g *StripeGateway) usecase.PaymentEventVerifier { return g },
	),
)

func newStripeGateway(cfg *config.Config, logger *slog.Logger) (*StripeGateway, error) {
	return NewStripeGateway(cfg.StripeSecretKey, cfg.StripeWebhookSecret, Options{BackendURL: cfg.StripeBackendURL}, logger)
}
