package usecase

import (
	"fmt"
	"log/slog"

	"github.com/polkiloo/sourbakery/internal/config"
	"github.com/polkiloo/sourbakery/internal/domain/repository"
	pkgAuth "github.com/polkiloo/sourbakery/internal/pkg/auth"
	"go.uber.org/fx"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	newOrderWindow,
	NewInventoryLedger,
	NewAdmissionUseCase,
	NewPaymentReconciler,
	newCheckoutUseCase,
	NewCatalogUseCase,
	newOrderUseCase,
	newAuthUseCase,
)

func newOrderWindow(cfg *config.Config) (*OrderWindow, error) {
	schedule, err := ParseSchedule(cfg.OrderWindow)
	if err != nil {
		return nil, fmt.Errorf("order window: %w", err)
	}
	return NewOrderWindow(schedule, cfg.Location), nil
}

type checkoutParams struct {
	fx.In

	Config   *config.Config
	Window   *OrderWindow
	Ledger   *InventoryLedger
	Products repository.ProductRepository
	Payments PaymentProcessor
	Logger   *slog.Logger
}

func newCheckoutUseCase(p checkoutParams) *CheckoutUseCase {
	return NewCheckoutUseCase(p.Window, p.Ledger, p.Products, p.Payments, p.Config.Currency, p.Logger)
}

func newOrderUseCase(cfg *config.Config, orders repository.OrderRepository, logger *slog.Logger) *OrderUseCase {
	return NewOrderUseCase(orders, cfg.VerifyLookback, logger)
}

type authParams struct {
	fx.In

	Config *config.Config
	Admins repository.AdminRepository
	Hasher pkgAuth.PasswordHasher
	Tokens pkgAuth.Strategy
	Logger *slog.Logger
}

func newAuthUseCase(p authParams) *AuthUseCase {
	return NewAuthUseCase(p.Admins, p.Hasher, p.Tokens, p.Config, p.Logger)
}
