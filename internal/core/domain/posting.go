package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/goldshop-erp/ledger_engine/internal/apperrors"
)

// PostingDirection indicates whether a posting debits or credits its account.
type PostingDirection string

const (
	Debit  PostingDirection = "DEBIT"
	Credit PostingDirection = "CREDIT"
)

// ParseDirection normalizes a case-insensitive direction string to its
// canonical constant. Unrecognized values fail with apperrors.ErrInvalidDirection.
func ParseDirection(s string) (PostingDirection, error) {
	switch PostingDirection(strings.ToUpper(strings.TrimSpace(s))) {
	case Debit:
		return Debit, nil
	case Credit:
		return Credit, nil
	default:
		return "", fmt.Errorf("%w: %q", apperrors.ErrInvalidDirection, s)
	}
}

// Opposite returns the reversing direction for a posting.
func (d PostingDirection) Opposite() PostingDirection {
	if d == Debit {
		return Credit
	}
	return Debit
}

// PostingStatus describes the posting lifecycle: Active -> Reversed.
// Reversed is terminal.
type PostingStatus string

const (
	Active   PostingStatus = "ACTIVE"
	Reversed PostingStatus = "REVERSED"
)

// Posting represents a single debit or credit applied to one account.
// Amount is a positive magnitude; the sign of its balance effect is derived
// from the account type and direction, never stored.
type Posting struct {
	PostingID string           `json:"postingID"` // Primary Key (UUID)
	AccountID string           `json:"accountID"` // FK -> Account.accountID (Not Null)
	Direction PostingDirection `json:"direction"`
	Amount    decimal.Decimal  `json:"amount"`
	Category  string           `json:"category"` // Opaque metadata
	Notes     string           `json:"notes"`    // Nullable
	IsDeleted bool             `json:"isDeleted"`
	AuditFields
	DeletionFields
}

// Status reports the lifecycle state derived from the soft-delete flag.
func (p Posting) Status() PostingStatus {
	if p.IsDeleted {
		return Reversed
	}
	return Active
}
