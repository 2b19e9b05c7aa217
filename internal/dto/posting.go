package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/goldshop-erp/ledger_engine/internal/core/domain"
)

// CreatePostingRequest defines the data needed to apply a posting to an account.
// Direction accepts any casing; amount must be strictly positive (enforced by
// the delta computation, never clamped).
type CreatePostingRequest struct {
	AccountID string          `json:"accountID" validate:"required"`
	Direction string          `json:"direction" validate:"required"`
	Amount    decimal.Decimal `json:"amount" validate:"required"`
	Category  string          `json:"category"` // Optional, opaque to the engine
	Notes     string          `json:"notes"`    // Optional
}

// Validate checks the request against its struct tags.
func (r CreatePostingRequest) Validate() error {
	return runValidation(r)
}

// PostingResponse defines the data returned for a posting.
type PostingResponse struct {
	PostingID string                  `json:"postingID"`
	AccountID string                  `json:"accountID"`
	Direction domain.PostingDirection `json:"direction"`
	Amount    decimal.Decimal         `json:"amount"`
	Category  string                  `json:"category"`
	Notes     string                  `json:"notes"`
	Status    domain.PostingStatus    `json:"status"`
	CreatedAt time.Time               `json:"createdAt"`
	CreatedBy string                  `json:"createdBy"`
	DeletedAt *time.Time              `json:"deletedAt,omitempty"`
	DeletedBy string                  `json:"deletedBy,omitempty"`
}

// ToPostingResponse converts a domain.Posting to PostingResponse DTO
func ToPostingResponse(p *domain.Posting) PostingResponse {
	return PostingResponse{
		PostingID: p.PostingID,
		AccountID: p.AccountID,
		Direction: p.Direction,
		Amount:    p.Amount,
		Category:  p.Category,
		Notes:     p.Notes,
		Status:    p.Status(),
		CreatedAt: p.CreatedAt,
		CreatedBy: p.CreatedBy,
		DeletedAt: p.DeletedAt,
		DeletedBy: p.DeletedBy,
	}
}

// ToListPostingResponse converts a slice of domain.Posting to PostingResponse DTOs
func ToListPostingResponse(postings []domain.Posting) []PostingResponse {
	res := make([]PostingResponse, len(postings))
	for i, p := range postings {
		res[i] = ToPostingResponse(&p)
	}
	return res
}

// ListPostingsParams defines pagination parameters for listing postings.
type ListPostingsParams struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}
