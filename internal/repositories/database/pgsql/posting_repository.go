package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/goldshop-erp/ledger_engine/internal/apperrors"
	"github.com/goldshop-erp/ledger_engine/internal/core/domain"
	portsrepo "github.com/goldshop-erp/ledger_engine/internal/core/ports/repositories"
)

type PgxPostingRepository struct {
	BaseRepository
}

// newPgxPostingRepository creates a new repository for posting data.
func newPgxPostingRepository(pool *pgxpool.Pool) *PgxPostingRepository {
	return &PgxPostingRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxPostingRepository implements portsrepo.PostingRepositoryFacade
var _ portsrepo.PostingRepositoryFacade = (*PgxPostingRepository)(nil)

const postingColumns = `posting_id, account_id, direction, amount, category, notes, is_deleted, created_at, created_by, deleted_at, deleted_by`

// scanPosting reads one posting row into a domain.Posting.
func scanPosting(row pgx.Row) (*domain.Posting, error) {
	var p domain.Posting
	var deletedBy *string
	err := row.Scan(
		&p.PostingID,
		&p.AccountID,
		&p.Direction,
		&p.Amount,
		&p.Category,
		&p.Notes,
		&p.IsDeleted,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.DeletedAt,
		&deletedBy,
	)
	if err != nil {
		return nil, err
	}
	if deletedBy != nil {
		p.DeletedBy = *deletedBy
	}
	return &p, nil
}

// SavePosting inserts a posting and adjusts its account's balance within a
// single database transaction. Either both writes persist or neither does.
func (r *PgxPostingRepository) SavePosting(ctx context.Context, posting domain.Posting, delta decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // No-op once the transaction is committed

	insertQuery := `
		INSERT INTO postings (posting_id, account_id, direction, amount, category, notes, is_deleted, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err = tx.Exec(ctx, insertQuery,
		posting.PostingID,
		posting.AccountID,
		posting.Direction,
		posting.Amount,
		posting.Category,
		posting.Notes,
		posting.IsDeleted,
		posting.CreatedAt,
		posting.CreatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505": // Unique violation
				return fmt.Errorf("%w: posting with ID %s already exists", apperrors.ErrDuplicate, posting.PostingID)
			case "23503": // Foreign key violation
				return fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, posting.AccountID)
			}
		}
		return fmt.Errorf("%w: failed to insert posting %s: %v", apperrors.ErrPersistence, posting.PostingID, err)
	}

	ct, err := tx.Exec(ctx, incrementBalanceQuery, posting.AccountID, delta)
	if err != nil {
		return fmt.Errorf("%w: failed to update balance for account %s: %v", apperrors.ErrPersistence, posting.AccountID, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s not found during balance update", apperrors.ErrAccountNotFound, posting.AccountID)
	}

	return r.Commit(ctx, tx)
}

// FindPostingByID retrieves a posting by its ID, reversed or not.
func (r *PgxPostingRepository) FindPostingByID(ctx context.Context, postingID string) (*domain.Posting, error) {
	query := `
		SELECT ` + postingColumns + `
		FROM postings
		WHERE posting_id = $1;
	`
	p, err := scanPosting(r.Pool.QueryRow(ctx, query, postingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrTransactionNotFound, postingID)
		}
		return nil, fmt.Errorf("%w: failed to find posting by ID %s: %v", apperrors.ErrPersistence, postingID, err)
	}
	return p, nil
}

// ListPostingsByAccountID retrieves live postings for an account, oldest first.
func (r *PgxPostingRepository) ListPostingsByAccountID(ctx context.Context, accountID string, limit int, offset int) ([]domain.Posting, error) {
	query := `
		SELECT ` + postingColumns + `
		FROM postings
		WHERE account_id = $1 AND is_deleted = FALSE
		ORDER BY created_at ASC, posting_id ASC
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list postings for account %s: %v", apperrors.ErrPersistence, accountID, err)
	}
	defer rows.Close()

	postings := make([]domain.Posting, 0)
	for rows.Next() {
		p, err := scanPosting(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to scan posting row: %v", apperrors.ErrPersistence, err)
		}
		postings = append(postings, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed reading posting rows: %v", apperrors.ErrPersistence, err)
	}
	return postings, nil
}

// MarkPostingReversed flips the posting's soft-delete flag and adjusts the
// account balance, both inside one database transaction. The flag update is
// conditional on is_deleted = FALSE, which makes reversal one-shot even under
// concurrent callers: the loser of the race sees zero affected rows.
func (r *PgxPostingRepository) MarkPostingReversed(ctx context.Context, postingID string, delta decimal.Decimal, deletedBy string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	markQuery := `
		UPDATE postings
		SET is_deleted = TRUE, deleted_at = $2, deleted_by = $3
		WHERE posting_id = $1 AND is_deleted = FALSE
		RETURNING account_id;
	`
	var accountID string
	err = tx.QueryRow(ctx, markQuery, postingID, now, deletedBy).Scan(&accountID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return r.classifyMarkMiss(ctx, postingID)
		}
		return fmt.Errorf("%w: failed to mark posting %s reversed: %v", apperrors.ErrPersistence, postingID, err)
	}

	ct, err := tx.Exec(ctx, incrementBalanceQuery, accountID, delta)
	if err != nil {
		return fmt.Errorf("%w: failed to update balance for account %s: %v", apperrors.ErrPersistence, accountID, err)
	}
	if ct.RowsAffected() == 0 {
		// Rolling back keeps the posting live; no partial reversal persists.
		return fmt.Errorf("%w: account %s not found during balance update", apperrors.ErrAccountNotFound, accountID)
	}

	return r.Commit(ctx, tx)
}

// classifyMarkMiss distinguishes a missing posting from one already reversed
// when the conditional update matched no row.
func (r *PgxPostingRepository) classifyMarkMiss(ctx context.Context, postingID string) error {
	var isDeleted bool
	err := r.Pool.QueryRow(ctx, `SELECT is_deleted FROM postings WHERE posting_id = $1;`, postingID).Scan(&isDeleted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: %s", apperrors.ErrTransactionNotFound, postingID)
		}
		return fmt.Errorf("%w: failed to inspect posting %s: %v", apperrors.ErrPersistence, postingID, err)
	}
	if isDeleted {
		return apperrors.ErrAlreadyReversed
	}
	// The row reappeared live; report a persistence anomaly rather than guessing.
	return fmt.Errorf("%w: posting %s could not be marked reversed", apperrors.ErrPersistence, postingID)
}
