package apperrors

import "errors"

// ErrInvalidAccountType indicates an account type outside the five recognized classes.
var ErrInvalidAccountType = errors.New("invalid account type")

// ErrInvalidDirection indicates a posting direction other than debit or credit.
var ErrInvalidDirection = errors.New("invalid posting direction")

// ErrInvalidAmount indicates a posting amount that is zero or negative.
var ErrInvalidAmount = errors.New("amount must be positive")

// ErrAccountNotFound indicates that the referenced account does not exist.
var ErrAccountNotFound = errors.New("account not found")

// ErrAccountInactive indicates that the referenced account has been soft-deleted.
var ErrAccountInactive = errors.New("account is inactive")

// ErrTransactionNotFound indicates that the referenced posting does not exist.
var ErrTransactionNotFound = errors.New("transaction not found")

// ErrAlreadyReversed indicates an attempt to reverse a posting that is already reversed.
var ErrAlreadyReversed = errors.New("transaction already reversed")

// ErrDuplicate indicates an attempt to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrPersistence wraps failures surfaced by the storage layer.
var ErrPersistence = errors.New("persistence failure")
