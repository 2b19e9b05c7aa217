package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/goldshop-erp/ledger_engine/internal/apperrors"
	"github.com/goldshop-erp/ledger_engine/internal/core/domain"
	portsrepo "github.com/goldshop-erp/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/goldshop-erp/ledger_engine/internal/core/ports/services"
	"github.com/goldshop-erp/ledger_engine/internal/dto"
	"github.com/goldshop-erp/ledger_engine/internal/logging"
)

const (
	defaultPostingListLimit = 20
	maxPostingListLimit     = 100
)

// ledgerService implements the posting engine: account creation, posting
// application, and posting reversal. All sign decisions route through
// domain.BalanceDelta.
type ledgerService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	postingRepo portsrepo.PostingRepositoryFacade
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(accountRepo portsrepo.AccountRepositoryFacade, postingRepo portsrepo.PostingRepositoryFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{
		accountRepo: accountRepo,
		postingRepo: postingRepo,
	}
}

// Ensure ledgerService implements the portssvc.LedgerSvcFacade interface
var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// CreateAccount validates and persists a new account with its opening balance.
func (s *ledgerService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	logger := logging.FromContext(ctx)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	accountType, err := domain.ParseAccountType(req.AccountType)
	if err != nil {
		logger.Warn("Rejected account creation with unrecognized type", "accountType", req.AccountType)
		return nil, err
	}

	now := time.Now()
	account := domain.Account{
		AccountID:      uuid.NewString(),
		Name:           req.Name,
		AccountType:    accountType,
		OpeningBalance: req.OpeningBalance,
		Balance:        req.OpeningBalance,
		Description:    req.Description,
		IsDeleted:      false,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			CreatedBy: creatorUserID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account", "accountID", account.AccountID, "error", err)
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	logger.Info("Account created", "accountID", account.AccountID, "accountType", account.AccountType)
	return &account, nil
}

// GetAccountByID retrieves an account by its identifier.
func (s *ledgerService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrAccountNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to retrieve account %s: %w", accountID, err)
	}
	return account, nil
}

// ApplyPosting creates a posting record and adjusts its account's balance by
// the computed signed delta, as a single atomic unit.
func (s *ledgerService) ApplyPosting(ctx context.Context, req dto.CreatePostingRequest, creatorUserID string) (*domain.Posting, error) {
	logger := logging.FromContext(ctx)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	direction, err := domain.ParseDirection(req.Direction)
	if err != nil {
		logger.Warn("Rejected posting with unrecognized direction", "direction", req.Direction)
		return nil, err
	}

	account, err := s.fetchPostableAccount(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}

	delta, err := domain.BalanceDelta(account.AccountType, direction, req.Amount)
	if err != nil {
		logger.Warn("Rejected posting with invalid delta inputs", "accountID", req.AccountID, "error", err)
		return nil, err
	}

	now := time.Now()
	posting := domain.Posting{
		PostingID: uuid.NewString(),
		AccountID: account.AccountID,
		Direction: direction,
		Amount:    req.Amount,
		Category:  req.Category,
		Notes:     req.Notes,
		IsDeleted: false,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			CreatedBy: creatorUserID,
		},
	}

	if err := s.postingRepo.SavePosting(ctx, posting, delta); err != nil {
		logger.Error("Failed to save posting", "postingID", posting.PostingID, "accountID", account.AccountID, "error", err)
		return nil, err
	}

	logger.Info("Posting applied", "postingID", posting.PostingID, "accountID", account.AccountID, "delta", delta.String())
	return &posting, nil
}

// ReversePosting voids a previously applied posting by applying the
// opposite-direction delta and marking the posting terminally reversed.
// Reversal is one-shot: a posting already reversed fails with ErrAlreadyReversed.
func (s *ledgerService) ReversePosting(ctx context.Context, postingID string, deleterUserID string) (*domain.Posting, error) {
	logger := logging.FromContext(ctx)

	posting, err := s.postingRepo.FindPostingByID(ctx, postingID)
	if err != nil {
		if errors.Is(err, apperrors.ErrTransactionNotFound) {
			logger.Warn("Posting not found for reversal", "postingID", postingID)
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to retrieve posting %s: %w", postingID, err)
	}

	if posting.IsDeleted {
		logger.Warn("Attempted to reverse an already reversed posting", "postingID", postingID)
		return nil, apperrors.ErrAlreadyReversed
	}

	// The account type is immutable after creation, so reading the current
	// type yields the same sign convention the original posting used.
	account, err := s.accountRepo.FindAccountByID(ctx, posting.AccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrAccountNotFound) {
			logger.Error("Account missing for posting reversal", "postingID", postingID, "accountID", posting.AccountID)
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to retrieve account %s for reversal: %w", posting.AccountID, err)
	}

	delta, err := domain.BalanceDelta(account.AccountType, posting.Direction.Opposite(), posting.Amount)
	if err != nil {
		logger.Error("Failed to compute reversal delta", "postingID", postingID, "error", err)
		return nil, fmt.Errorf("failed to compute reversal delta: %w", err)
	}

	now := time.Now()
	if err := s.postingRepo.MarkPostingReversed(ctx, postingID, delta, deleterUserID, now); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyReversed) {
			logger.Warn("Posting reversed concurrently", "postingID", postingID)
			return nil, apperrors.ErrAlreadyReversed
		}
		logger.Error("Failed to reverse posting", "postingID", postingID, "error", err)
		return nil, err
	}

	posting.IsDeleted = true
	posting.DeletedAt = &now
	posting.DeletedBy = deleterUserID

	logger.Info("Posting reversed", "postingID", postingID, "accountID", posting.AccountID, "delta", delta.String())
	return posting, nil
}

// ListPostings retrieves the live postings of an account, oldest first.
func (s *ledgerService) ListPostings(ctx context.Context, accountID string, params dto.ListPostingsParams) ([]domain.Posting, error) {
	if _, err := s.GetAccountByID(ctx, accountID); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultPostingListLimit
	} else if limit > maxPostingListLimit {
		limit = maxPostingListLimit
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	postings, err := s.postingRepo.ListPostingsByAccountID(ctx, accountID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list postings for account %s: %w", accountID, err)
	}
	return postings, nil
}

// fetchPostableAccount loads an account and verifies it can accept postings.
func (s *ledgerService) fetchPostableAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrAccountNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to retrieve account %s: %w", accountID, err)
	}
	if account.IsDeleted {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrAccountInactive, accountID)
	}
	return account, nil
}
