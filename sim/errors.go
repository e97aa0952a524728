package sim

import "errors"

// MaxSafeAmount bounds every item amount, capacity, and time delta handled
// by the strict store and the scheduler's debug checks. Sums of two
// in-range amounts stay well inside int64; products of two in-range
// amounts can exceed it.
const MaxSafeAmount = int64(1) << 53

var (
	// ErrRange reports a value outside its permitted range: negative
	// capacities, non-positive amounts, strict-mode requests exceeding
	// what the store holds or can take.
	ErrRange = errors.New("value out of range")

	// ErrIntegerDomain reports a value outside the safe integer domain
	// (strict mode only).
	ErrIntegerDomain = errors.New("value outside safe integer domain")

	// ErrInvariant reports an internal inconsistency detected by the
	// scheduler's debug assertions.
	ErrInvariant = errors.New("invariant violated")
)
