package domain

import "errors"

var (
	ErrNotFound  = errors.New("not found")
	ErrConflict  = errors.New("conflict")
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidTransition covers downgrades from the absorbing PAID state.
	ErrInvalidTransition = errors.New("invalid payment status transition")
	// ErrStaleUpdate covers a FAILED -> PENDING proposal that does not carry
	// a new payment attempt id.
	ErrStaleUpdate = errors.New("stale payment update ignored")
	ErrAlreadyPaid = errors.New("rental already paid")
	ErrGateway     = errors.New("payment gateway error")
	// ErrBusy signals the rental row lock is held by a concurrent update.
	ErrBusy = errors.New("rental update in progress")
)
