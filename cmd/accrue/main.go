package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/condoledger/condoledger/internal/core/services"
	"github.com/condoledger/condoledger/internal/platform/config"
	"github.com/condoledger/condoledger/internal/repositories/database/pgsql"
	"github.com/condoledger/condoledger/pkg/database"
)

// One-shot interest accrual batch, intended for cron.
func main() {
	asOfFlag := flag.String("as-of", "", "accrual cut-off date (YYYY-MM-DD, default today)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	asOf := time.Now()
	if *asOfFlag != "" {
		parsed, err := time.Parse("2006-01-02", *asOfFlag)
		if err != nil {
			logger.Error("Invalid -as-of date", slog.String("value", *asOfFlag), slog.String("error", err.Error()))
			os.Exit(1)
		}
		asOf = parsed
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()
	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, true)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()

	serviceContainer := services.NewServiceContainer(cfg, pgsql.NewRepositoryProvider(dbPool))

	result, err := serviceContainer.UnitAccount.AccrueInterest(ctx, asOf)
	if err != nil {
		logger.Error("Accrual run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Accrual run completed",
		slog.Time("as_of", result.AsOfDate),
		slog.Int("communities_processed", result.CommunitiesProcessed),
		slog.Int("accounts_accrued", result.AccountsAccrued))
}
