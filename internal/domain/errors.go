package domain

import "errors"

// Stable error kinds surfaced by the core. Callers match with errors.Is;
// wrapping sites attach the offending ids and amounts to the message.
var (
	// ErrNotFound reports an absent route, pool, or ship-year record.
	ErrNotFound = errors.New("not found")

	// ErrNoBaseline reports a comparison request with no baseline route set.
	ErrNoBaseline = errors.New("no baseline route set")

	// ErrNoPositiveBalance reports a banking request against a zero or
	// negative compliance balance.
	ErrNoPositiveBalance = errors.New("no positive compliance balance")

	// ErrExceedsAvailable reports a requested amount larger than the
	// available surplus or banked total.
	ErrExceedsAvailable = errors.New("amount exceeds available")

	// ErrNegativePoolTotal reports a pool whose member balances sum below zero.
	ErrNegativePoolTotal = errors.New("pool total compliance balance is negative")

	// ErrPoolValidationFailed reports member fairness constraint violations
	// detected after allocation.
	ErrPoolValidationFailed = errors.New("pool validation failed")

	// ErrNotImplemented reports an extension operation with no default implementation.
	ErrNotImplemented = errors.New("not implemented")
)
