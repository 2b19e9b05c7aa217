package domain

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/goldshop-erp/ledger_engine/internal/apperrors"
)

// BalanceDelta returns the signed change to an account's balance for a posting
// of the given direction and amount, per the double-entry convention:
//
//	DEBIT to ASSET/EXPENSE -> +amount
//	CREDIT to ASSET/EXPENSE -> -amount
//	DEBIT to LIABILITY/EQUITY/INCOME -> -amount
//	CREDIT to LIABILITY/EQUITY/INCOME -> +amount
//
// Every balance mutation in the engine routes through this function; the sign
// logic is not duplicated anywhere else.
func BalanceDelta(accountType AccountType, direction PostingDirection, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("%w: got %s", apperrors.ErrInvalidAmount, amount.String())
	}

	var isDebit bool
	switch direction {
	case Debit:
		isDebit = true
	case Credit:
		isDebit = false
	default:
		return decimal.Zero, fmt.Errorf("%w: %q", apperrors.ErrInvalidDirection, direction)
	}

	switch accountType {
	case Asset, Expense:
		if !isDebit { // Credit to Asset/Expense
			return amount.Neg(), nil
		}
		return amount, nil
	case Liability, Equity, Income:
		if isDebit { // Debit to Liability/Equity/Income
			return amount.Neg(), nil
		}
		return amount, nil
	default:
		return decimal.Zero, fmt.Errorf("%w: %q", apperrors.ErrInvalidAccountType, accountType)
	}
}
