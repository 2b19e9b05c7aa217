package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/goldshop-erp/ledger_engine/internal/core/domain"
)

// CreateAccountRequest defines the data needed to create a new account.
// AccountType accepts any casing; it is normalized by the service.
type CreateAccountRequest struct {
	Name           string          `json:"name" validate:"required"`
	AccountType    string          `json:"accountType" validate:"required"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Description    string          `json:"description"` // Optional
}

// Validate checks the request against its struct tags.
func (r CreateAccountRequest) Validate() error {
	return runValidation(r)
}

// AccountResponse defines the data returned for an account.
// Mirrors domain.Account.
type AccountResponse struct {
	AccountID      string             `json:"accountID"`
	Name           string             `json:"name"`
	AccountType    domain.AccountType `json:"accountType"`
	OpeningBalance decimal.Decimal    `json:"openingBalance"`
	Balance        decimal.Decimal    `json:"currentBalance"`
	Description    string             `json:"description"`
	IsDeleted      bool               `json:"isDeleted"`
	CreatedAt      time.Time          `json:"createdAt"`
	CreatedBy      string             `json:"createdBy"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:      acc.AccountID,
		Name:           acc.Name,
		AccountType:    acc.AccountType,
		OpeningBalance: acc.OpeningBalance,
		Balance:        acc.Balance,
		Description:    acc.Description,
		IsDeleted:      acc.IsDeleted,
		CreatedAt:      acc.CreatedAt,
		CreatedBy:      acc.CreatedBy,
	}
}
