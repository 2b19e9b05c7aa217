package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/goldshop-erp/ledger_engine/internal/apperrors"
	"github.com/goldshop-erp/ledger_engine/internal/core/domain"
	portsrepo "github.com/goldshop-erp/ledger_engine/internal/core/ports/repositories"
)

type PgxAccountRepository struct {
	pool *pgxpool.Pool
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{pool: pool}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, name, account_type, opening_balance, balance, description, is_deleted, created_at, created_by, deleted_at, deleted_by`

// scanAccount reads one account row into a domain.Account.
func scanAccount(row pgx.Row) (*domain.Account, error) {
	var acc domain.Account
	var deletedBy *string
	err := row.Scan(
		&acc.AccountID,
		&acc.Name,
		&acc.AccountType,
		&acc.OpeningBalance,
		&acc.Balance,
		&acc.Description,
		&acc.IsDeleted,
		&acc.CreatedAt,
		&acc.CreatedBy,
		&acc.DeletedAt,
		&deletedBy,
	)
	if err != nil {
		return nil, err
	}
	if deletedBy != nil {
		acc.DeletedBy = *deletedBy
	}
	return &acc, nil
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	query := `
		INSERT INTO accounts (account_id, name, account_type, opening_balance, balance, description, is_deleted, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.pool.Exec(ctx, query,
		account.AccountID,
		account.Name,
		account.AccountType,
		account.OpeningBalance,
		account.Balance,
		account.Description,
		account.IsDeleted,
		account.CreatedAt,
		account.CreatedBy,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // Unique violation
				return fmt.Errorf("%w: account with ID %s already exists", apperrors.ErrDuplicate, account.AccountID)
			}
		}
		return fmt.Errorf("%w: failed to save account %s: %v", apperrors.ErrPersistence, account.AccountID, err)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE account_id = $1;
	`
	acc, err := scanAccount(r.pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, accountID)
		}
		return nil, fmt.Errorf("%w: failed to find account by ID %s: %v", apperrors.ErrPersistence, accountID, err)
	}
	return acc, nil
}

// IncrementBalance atomically adds delta to the stored balance of the account.
// The increment runs in the database so concurrent postings never race on a
// read-modify-write of the balance.
func (r *PgxAccountRepository) IncrementBalance(ctx context.Context, accountID string, delta decimal.Decimal) error {
	ct, err := r.pool.Exec(ctx, incrementBalanceQuery, accountID, delta)
	if err != nil {
		return fmt.Errorf("%w: failed to update balance for account %s: %v", apperrors.ErrPersistence, accountID, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s not found during balance update", apperrors.ErrAccountNotFound, accountID)
	}
	return nil
}

// incrementBalanceQuery is shared with the posting repository, which performs
// the same increment inside its transactions.
// COALESCE guards against a NULL balance if the column default was bypassed.
const incrementBalanceQuery = `
	UPDATE accounts
	SET balance = COALESCE(balance, 0) + $2
	WHERE account_id = $1;
`
