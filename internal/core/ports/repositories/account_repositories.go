package repositories

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/goldshop-erp/ledger_engine/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// IncrementBalance atomically adds delta to the stored balance of the
	// account. The increment happens in storage, not read-modify-write, so
	// concurrent postings against the same account cannot race.
	IncrementBalance(ctx context.Context, accountID string, delta decimal.Decimal) error
}

// AccountRepositoryFacade combines all account-related repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
