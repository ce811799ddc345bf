package model

import "errors"

// Sentinel errors surfaced to callers. NoFit and NoRate are ordinary result
// values, not errors: a container that cannot hold the items or a carrier
// that cannot service a box set simply drives evaluation to the next
// candidate.
var (
	// ErrInvalidItem marks malformed input. Fatal to the request.
	ErrInvalidItem = errors.New("invalid item")

	// ErrInfeasible means no candidate box set could hold the items.
	ErrInfeasible = errors.New("no feasible packing")

	// ErrTimedOut means the time budget elapsed before any candidate
	// finished evaluating. Retryable.
	ErrTimedOut = errors.New("optimization timed out")
)
