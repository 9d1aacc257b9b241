// Package omserr names the caller-facing error taxonomy from the OMS error
// handling design: sentinel values wrapped with context via fmt.Errorf,
// matching the teacher's %w-wrapping style rather than a custom errors
// framework.
package omserr

import "errors"

var (
	// ErrValidation covers a malformed order intent: quantity <= 0, or a
	// LIMIT order without a positive price.
	ErrValidation = errors.New("validation error")

	// ErrInsufficientFunds covers a failed margin check.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrOrderNotFound covers operations referencing an unknown client_oid.
	ErrOrderNotFound = errors.New("order not found")

	// ErrIllegalCancel covers cancel_order called outside
	// {SUBMITTED, ACK, PARTIAL}, including a repeated cancel.
	ErrIllegalCancel = errors.New("order not cancellable in its current state")

	// ErrSubmit covers an adapter submit rejection.
	ErrSubmit = errors.New("submit error")

	// ErrCancel covers an adapter cancel rejection.
	ErrCancel = errors.New("cancel error")
)
