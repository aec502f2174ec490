package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/krzotki/eleven-labs-demo/internal/logger"
	"github.com/krzotki/eleven-labs-demo/internal/repository"
	"github.com/krzotki/eleven-labs-demo/internal/service"
	"github.com/spf13/cobra"
)

// ledger bundles the services the inspection commands need.
type ledger struct {
	entitlements service.EntitlementService
	usage        service.UsageService
	limits       service.LimitsService
	close        func()
}

func addStoreFlags(cmd *cobra.Command, dsn, dashboard *string) {
	cmd.Flags().StringVar(dsn, "dsn", "", "Postgres connection string (defaults to DB_CONNECTION_STRING)")
	cmd.Flags().StringVar(dashboard, "dashboard", "", "dashboard URL serving the limits table (defaults to DASHBOARD_URL)")
}

func openLedger(ctx context.Context, dsn, dashboard string) (*ledger, error) {
	if dsn == "" {
		dsn = os.Getenv("DB_CONNECTION_STRING")
	}
	if dsn == "" {
		return nil, errors.New("no database: pass --dsn or set DB_CONNECTION_STRING")
	}
	if dashboard == "" {
		dashboard = os.Getenv("DASHBOARD_URL")
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open DB pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}

	log := logger.New()
	limits := service.NewLimitsService(dashboard, log)
	if err := limits.Refresh(ctx); err != nil {
		log.Warn().Err(err).Msg("Using default limits")
	}
	return &ledger{
		entitlements: service.NewEntitlementService(repository.NewSubscriptionRepo(pool), log),
		usage:        service.NewUsageService(repository.NewUsageRepo(pool), log),
		limits:       limits,
		close:        pool.Close,
	}, nil
}
