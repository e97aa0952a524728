package sim

import "fmt"

// StrictItemStore is a validating decorator over a Store. Where the plain
// store silently clamps, the strict store hard-fails: withdrawing more
// than is stored or depositing more than fits is an error, as is any
// amount outside the safe integer domain. Running the scheduler against a
// strict store surfaces arithmetic and availability bugs that clamping
// would mask.
type StrictItemStore[I comparable] struct {
	inner Store[I]
}

// NewStrictItemStore wraps inner, rejecting any initial capacity outside
// the safe integer domain.
func NewStrictItemStore[I comparable](inner Store[I]) (*StrictItemStore[I], error) {
	for item, capacity := range inner.CapacitySettings() {
		if capacity > MaxSafeAmount {
			return nil, fmt.Errorf("capacity %d for item %v exceeds safe integer domain: %w",
				capacity, item, ErrIntegerDomain)
		}
	}
	return &StrictItemStore[I]{inner: inner}, nil
}

func (s *StrictItemStore[I]) GetStoredAmount(item I) int64 {
	return s.inner.GetStoredAmount(item)
}

func (s *StrictItemStore[I]) GetFreeCapacity(item I) int64 {
	return s.inner.GetFreeCapacity(item)
}

// Withdraw fails if amount is outside the safe integer domain or exceeds
// the stored amount; otherwise it delegates.
func (s *StrictItemStore[I]) Withdraw(item I, amount int64) (int64, error) {
	if amount > MaxSafeAmount {
		return 0, fmt.Errorf("withdraw amount %d exceeds safe integer domain: %w", amount, ErrIntegerDomain)
	}
	if amount > s.inner.GetStoredAmount(item) {
		return 0, fmt.Errorf("withdraw amount %d exceeds stored %d of item %v: %w",
			amount, s.inner.GetStoredAmount(item), item, ErrRange)
	}
	return s.inner.Withdraw(item, amount)
}

// Deposit fails if amount is outside the safe integer domain or exceeds
// the free capacity; otherwise it delegates.
func (s *StrictItemStore[I]) Deposit(item I, amount int64) (int64, error) {
	if amount > MaxSafeAmount {
		return 0, fmt.Errorf("deposit amount %d exceeds safe integer domain: %w", amount, ErrIntegerDomain)
	}
	if amount > s.inner.GetFreeCapacity(item) {
		return 0, fmt.Errorf("deposit amount %d exceeds free capacity %d of item %v: %w",
			amount, s.inner.GetFreeCapacity(item), item, ErrRange)
	}
	return s.inner.Deposit(item, amount)
}

func (s *StrictItemStore[I]) CapacitySettings() map[I]int64 {
	return s.inner.CapacitySettings()
}
