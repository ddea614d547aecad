package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/polkiloo/sourbakery/internal/config"
	"github.com/polkiloo/sourbakery/internal/di"
	"github.com/polkiloo/sourbakery/internal/usecase"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "sourbakery",
		Short:         "Bakery storefront backend with weekly inventory caps",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newResetWeeklyCmd(), newAdminCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve [flags]",
		Short: "Run the HTTP API and the weekly reset scheduler",
		Long: `Run the HTTP API. Configuration comes from the environment, an optional
.env file and the flags below (e.g. -a :8080 -d postgres://...).`,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadArgs(args)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			app := fx.New(
				fx.Provide(func() context.Context { return ctx }),
				di.Module(fx.Replace(cfg)),
			)
			return run(ctx, app)
		},
	}
}

func newResetWeeklyCmd() *cobra.Command {
	return &cobra.Command{
		Use:                "reset-weekly [flags]",
		Short:              "Restore remaining stock to the weekly cap for every capped product",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadArgs(args)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			var ledger *usecase.InventoryLedger
			app := fx.New(
				fx.NopLogger,
				fx.Provide(func() context.Context { return ctx }),
				di.Maintenance(fx.Replace(cfg)),
				fx.Populate(&ledger),
			)
			return runOnce(ctx, app, func(ctx context.Context) error {
				affected, err := ledger.ResetAll(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "reset %d products\n", affected)
				return nil
			})
		},
	}
}

func newAdminCmd() *cobra.Command {
	admin := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin accounts",
	}

	var email, password string
	add := &cobra.Command{
		Use:   "add",
		Short: "Create an admin or reset its password; the email must be in ADMIN_EMAILS",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadArgs(nil)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			var auth *usecase.AuthUseCase
			app := fx.New(
				fx.NopLogger,
				fx.Provide(func() context.Context { return ctx }),
				di.Maintenance(fx.Replace(cfg)),
				fx.Populate(&auth),
			)
			return runOnce(ctx, app, func(ctx context.Context) error {
				stored, err := auth.AddAdmin(ctx, email, password)
				if err != nil {
					return fmt.Errorf("add admin %s: %w", email, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "admin %s saved\n", stored.Email)
				return nil
			})
		},
	}
	add.Flags().StringVar(&email, "email", "", "admin email")
	add.Flags().StringVar(&password, "password", "", "admin password")
	_ = add.MarkFlagRequired("email")
	_ = add.MarkFlagRequired("password")

	admin.AddCommand(add)
	return admin
}
