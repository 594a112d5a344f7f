package models

import "errors"

// Validation and lookup failures.
var (
	ErrValidation = errors.New("invalid request")
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("not allowed for this caller")
)

// State conflicts. These are expected outcomes the user can act on.
var (
	ErrInvalidTransition = errors.New("status transition not allowed")
	ErrNotCancelable     = errors.New("order can no longer be cancelled")
	ErrAlreadyAssigned   = errors.New("order is already assigned to another rider")
	ErrAlreadyFinalized  = errors.New("return is already finalized")
	ErrInsufficientBatch = errors.New("not enough unsettled collections for a payout")
	ErrNotEligible       = errors.New("order is not eligible for a return")
	ErrConcurrentUpdate  = errors.New("record changed concurrently, retry")
)

// ErrIntegrity marks a broken ledger invariant. It needs manual reconciliation.
var ErrIntegrity = errors.New("data integrity violation")
