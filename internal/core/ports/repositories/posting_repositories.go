package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/goldshop-erp/ledger_engine/internal/core/domain"
)

// PostingReader defines read operations for posting data
type PostingReader interface {
	// FindPostingByID retrieves a specific posting by its unique identifier,
	// reversed or not.
	FindPostingByID(ctx context.Context, postingID string) (*domain.Posting, error)

	// ListPostingsByAccountID retrieves a paginated list of live postings for
	// an account, oldest first. Reversed postings are excluded.
	ListPostingsByAccountID(ctx context.Context, accountID string, limit int, offset int) ([]domain.Posting, error)
}

// PostingWriter defines write operations for posting data.
//
// Both writes pair a posting mutation with a balance increment; implementations
// must apply the pair atomically (single DB transaction, or a single lock scope
// for in-memory stores) so that no partial posting is ever observable.
type PostingWriter interface {
	// SavePosting persists a new posting and adjusts its account's balance by
	// delta as one unit.
	SavePosting(ctx context.Context, posting domain.Posting, delta decimal.Decimal) error

	// MarkPostingReversed flips the posting's soft-delete flag, conditional on
	// it still being live, and adjusts the account balance by delta as one
	// unit. Returns apperrors.ErrAlreadyReversed if the posting was reversed
	// by a concurrent caller.
	MarkPostingReversed(ctx context.Context, postingID string, delta decimal.Decimal, deletedBy string, now time.Time) error
}

// PostingRepositoryFacade combines all posting-related repository interfaces.
type PostingRepositoryFacade interface {
	PostingReader
	PostingWriter
}
