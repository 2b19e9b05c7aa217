// Command ledger_verify exercises the posting engine end to end: it creates
// accounts, applies postings, reverses them, and checks that every balance
// returns exactly to its opening value. It runs against PostgreSQL when
// PGSQL_URL is set (applying migrations first) and against the in-memory
// store otherwise. Exit code 0 means every check passed.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/shopspring/decimal"

	"github.com/goldshop-erp/ledger_engine/internal/apperrors"
	"github.com/goldshop-erp/ledger_engine/internal/core/domain"
	portsrepo "github.com/goldshop-erp/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/goldshop-erp/ledger_engine/internal/core/ports/services"
	"github.com/goldshop-erp/ledger_engine/internal/core/services"
	"github.com/goldshop-erp/ledger_engine/internal/dto"
	"github.com/goldshop-erp/ledger_engine/internal/logging"
	"github.com/goldshop-erp/ledger_engine/internal/repositories/database/pgsql"
	"github.com/goldshop-erp/ledger_engine/internal/repositories/memory"
	"github.com/goldshop-erp/ledger_engine/pkg/config"
	"github.com/goldshop-erp/ledger_engine/pkg/database"
)

const verifyActor = "ledger_verify"

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := logging.WithLogger(context.Background(), logger)

	var provider portsrepo.RepositoryProvider
	if cfg.DatabaseURL != "" {
		dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer dbPool.Close()
		logger.Info("Database connection pool established.")

		if err := runMigrations(cfg); err != nil {
			logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
		provider = pgsql.NewRepositoryProvider(dbPool)
	} else {
		logger.Info("PGSQL_URL not set, verifying against the in-memory store.")
		store := memory.NewStore()
		provider = portsrepo.RepositoryProvider{AccountRepo: store, PostingRepo: store}
	}

	svc := services.NewLedgerService(provider.AccountRepo, provider.PostingRepo)

	v := &verifier{logger: logger}
	v.run(ctx, svc)

	if v.failed > 0 {
		logger.Error("Verification failed", slog.Int("passed", v.passed), slog.Int("failed", v.failed))
		os.Exit(1)
	}
	logger.Info("All verification checks passed", slog.Int("passed", v.passed))
}

// runMigrations applies all pending migrations, in the same way the
// surrounding accounting system does at startup.
func runMigrations(cfg *config.Config) error {
	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database connection for migrations: %w", err)
	}
	defer migrationDB.Close()

	if err := migrationDB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database for migrations: %w", err)
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create postgres driver instance: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(cfg.MigrationsPath, "postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	return dbErr
}

// verifier runs the balance-reversal scenarios and tallies results.
type verifier struct {
	logger *slog.Logger
	passed int
	failed int
}

func (v *verifier) check(name string, ok bool, detail string) {
	if ok {
		v.passed++
		v.logger.Info("PASS", slog.String("check", name))
		return
	}
	v.failed++
	v.logger.Error("FAIL", slog.String("check", name), slog.String("detail", detail))
}

func (v *verifier) run(ctx context.Context, svc portssvc.LedgerSvcFacade) {
	v.roundTrip(ctx, svc, "Verification Cash", domain.Asset, "debit", decimal.NewFromInt(100))
	v.roundTrip(ctx, svc, "Verification Sales Income", domain.Income, "credit", decimal.NewFromInt(200))
}

// roundTrip creates an account with a zero opening balance, applies one
// posting, confirms the balance moved by the full amount, reverses the
// posting, and confirms the balance returned exactly to zero. It finishes by
// confirming a second reversal is rejected.
func (v *verifier) roundTrip(ctx context.Context, svc portssvc.LedgerSvcFacade, name string, accountType domain.AccountType, direction string, amount decimal.Decimal) {
	scenario := fmt.Sprintf("%s %s %s", accountType, direction, amount.String())

	account, err := svc.CreateAccount(ctx, dto.CreateAccountRequest{
		Name:        name,
		AccountType: string(accountType),
	}, verifyActor)
	if err != nil {
		v.check(scenario+": create account", false, err.Error())
		return
	}

	posting, err := svc.ApplyPosting(ctx, dto.CreatePostingRequest{
		AccountID: account.AccountID,
		Direction: direction,
		Amount:    amount,
		Category:  "Verification",
	}, verifyActor)
	if err != nil {
		v.check(scenario+": apply posting", false, err.Error())
		return
	}

	after, err := svc.GetAccountByID(ctx, account.AccountID)
	if err != nil {
		v.check(scenario+": fetch balance after posting", false, err.Error())
		return
	}
	v.check(scenario+": balance increased by amount", after.Balance.Equal(amount),
		fmt.Sprintf("expected %s, got %s", amount.String(), after.Balance.String()))

	if _, err := svc.ReversePosting(ctx, posting.PostingID, verifyActor); err != nil {
		v.check(scenario+": reverse posting", false, err.Error())
		return
	}

	reversed, err := svc.GetAccountByID(ctx, account.AccountID)
	if err != nil {
		v.check(scenario+": fetch balance after reversal", false, err.Error())
		return
	}
	v.check(scenario+": balance restored to zero", reversed.Balance.IsZero(),
		fmt.Sprintf("expected 0, got %s", reversed.Balance.String()))

	_, err = svc.ReversePosting(ctx, posting.PostingID, verifyActor)
	v.check(scenario+": second reversal rejected", errors.Is(err, apperrors.ErrAlreadyReversed),
		fmt.Sprintf("expected already-reversed error, got %v", err))
}
