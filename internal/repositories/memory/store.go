package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/goldshop-erp/ledger_engine/internal/apperrors"
	"github.com/goldshop-erp/ledger_engine/internal/core/domain"
	portsrepo "github.com/goldshop-erp/ledger_engine/internal/core/ports/repositories"
)

// Store is an in-memory implementation of the account and posting
// repositories, intended for embedding, demos, and tests. A single mutex
// guards both maps so the posting/balance pair mutates in one lock scope.
type Store struct {
	mu           sync.Mutex
	accounts     map[string]domain.Account
	postings     map[string]domain.Posting
	postingOrder []string // posting IDs in insertion order
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		accounts: make(map[string]domain.Account),
		postings: make(map[string]domain.Posting),
	}
}

var (
	_ portsrepo.AccountRepositoryFacade = (*Store)(nil)
	_ portsrepo.PostingRepositoryFacade = (*Store)(nil)
)

// SaveAccount persists a new account.
func (s *Store) SaveAccount(ctx context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[account.AccountID]; exists {
		return fmt.Errorf("%w: account with ID %s already exists", apperrors.ErrDuplicate, account.AccountID)
	}
	s.accounts[account.AccountID] = account
	return nil
}

// FindAccountByID retrieves an account by its identifier.
func (s *Store) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, exists := s.accounts[accountID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, accountID)
	}
	// Return a copy so callers cannot mutate internal state.
	return &account, nil
}

// IncrementBalance atomically adds delta to the account's balance.
func (s *Store) IncrementBalance(ctx context.Context, accountID string, delta decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.incrementBalanceLocked(accountID, delta)
}

// incrementBalanceLocked adjusts a balance; callers must hold the mutex.
func (s *Store) incrementBalanceLocked(accountID string, delta decimal.Decimal) error {
	account, exists := s.accounts[accountID]
	if !exists {
		return fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, accountID)
	}
	account.Balance = account.Balance.Add(delta)
	s.accounts[accountID] = account
	return nil
}

// SavePosting persists a new posting and adjusts its account's balance by
// delta within the same lock scope.
func (s *Store) SavePosting(ctx context.Context, posting domain.Posting, delta decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.postings[posting.PostingID]; exists {
		return fmt.Errorf("%w: posting with ID %s already exists", apperrors.ErrDuplicate, posting.PostingID)
	}
	if err := s.incrementBalanceLocked(posting.AccountID, delta); err != nil {
		return err
	}
	s.postings[posting.PostingID] = posting
	s.postingOrder = append(s.postingOrder, posting.PostingID)
	return nil
}

// FindPostingByID retrieves a posting by its identifier.
func (s *Store) FindPostingByID(ctx context.Context, postingID string) (*domain.Posting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	posting, exists := s.postings[postingID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrTransactionNotFound, postingID)
	}
	return &posting, nil
}

// ListPostingsByAccountID retrieves live postings for an account in insertion
// order, applying limit/offset pagination.
func (s *Store) ListPostingsByAccountID(ctx context.Context, accountID string, limit int, offset int) ([]domain.Posting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]domain.Posting, 0)
	for _, id := range s.postingOrder {
		p := s.postings[id]
		if p.AccountID == accountID && !p.IsDeleted {
			matched = append(matched, p)
		}
	}

	if offset >= len(matched) {
		return []domain.Posting{}, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

// MarkPostingReversed flips the posting's soft-delete flag and adjusts the
// account balance by delta within the same lock scope. The flip is conditional
// on the posting still being live, so reversal can never compound.
func (s *Store) MarkPostingReversed(ctx context.Context, postingID string, delta decimal.Decimal, deletedBy string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	posting, exists := s.postings[postingID]
	if !exists {
		return fmt.Errorf("%w: %s", apperrors.ErrTransactionNotFound, postingID)
	}
	if posting.IsDeleted {
		return apperrors.ErrAlreadyReversed
	}
	// Adjust the balance first; a missing account leaves the posting untouched.
	if err := s.incrementBalanceLocked(posting.AccountID, delta); err != nil {
		return err
	}
	posting.IsDeleted = true
	posting.DeletedAt = &now
	posting.DeletedBy = deletedBy
	s.postings[postingID] = posting
	return nil
}
