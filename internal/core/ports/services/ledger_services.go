package services

import (
	"context"

	"github.com/goldshop-erp/ledger_engine/internal/core/domain"
	"github.com/goldshop-erp/ledger_engine/internal/dto"
)

// LedgerSvcFacade defines the operations the posting engine exposes to the
// surrounding accounting system.
type LedgerSvcFacade interface {
	// CreateAccount validates and persists a new account.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)

	// GetAccountByID retrieves an account, including soft-deleted ones.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ApplyPosting creates a posting and atomically adjusts its account's balance.
	ApplyPosting(ctx context.Context, req dto.CreatePostingRequest, creatorUserID string) (*domain.Posting, error)

	// ReversePosting voids a live posting, restoring the account balance to the
	// value it would have had if the posting had never been applied.
	ReversePosting(ctx context.Context, postingID string, deleterUserID string) (*domain.Posting, error)

	// ListPostings retrieves the live postings of an account, oldest first.
	ListPostings(ctx context.Context, accountID string, params dto.ListPostingsParams) ([]domain.Posting, error)
}
