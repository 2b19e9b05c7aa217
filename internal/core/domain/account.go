package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/goldshop-erp/ledger_engine/internal/apperrors"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// ParseAccountType normalizes a case-insensitive account type string to its
// canonical constant. Unrecognized values fail with apperrors.ErrInvalidAccountType.
func ParseAccountType(s string) (AccountType, error) {
	switch AccountType(strings.ToUpper(strings.TrimSpace(s))) {
	case Asset:
		return Asset, nil
	case Liability:
		return Liability, nil
	case Equity:
		return Equity, nil
	case Income:
		return Income, nil
	case Expense:
		return Expense, nil
	default:
		return "", fmt.Errorf("%w: %q", apperrors.ErrInvalidAccountType, s)
	}
}

// Account represents a financial account within the core domain.
// Balance is a derived aggregate: OpeningBalance plus the signed deltas of all
// live postings against the account. It is mutated only through posting
// application and reversal. AccountType is immutable after creation.
type Account struct {
	AccountID      string          `json:"accountID"` // Primary Key (UUID)
	Name           string          `json:"name"`
	AccountType    AccountType     `json:"accountType"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Balance        decimal.Decimal `json:"currentBalance"`
	Description    string          `json:"description"` // Nullable user description
	IsDeleted      bool            `json:"isDeleted"`   // Soft delete flag
	AuditFields
	DeletionFields
}
