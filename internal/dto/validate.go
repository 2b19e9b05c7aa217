package dto

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/goldshop-erp/ledger_engine/internal/apperrors"
)

// validate is the shared validator instance for all request DTOs.
var validate = validator.New()

// runValidation applies struct tag validation and wraps failures in
// apperrors.ErrValidation so callers can branch with errors.Is.
func runValidation(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}
	return nil
}
