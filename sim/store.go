package sim

import "fmt"

// Store is the capability shared by the plain and the strict item store:
// per-item capacity and stored-amount bookkeeping. The scheduler and the
// request collector run against either variant.
type Store[I comparable] interface {
	// GetStoredAmount returns the observable stored amount of item,
	// clamped to the item's current capacity. Unknown items return 0.
	GetStoredAmount(item I) int64
	// GetFreeCapacity returns how much of item the store can still take.
	GetFreeCapacity(item I) int64
	// Withdraw removes up to amount of item and returns how much was
	// actually removed.
	Withdraw(item I, amount int64) (int64, error)
	// Deposit adds up to amount of item and returns how much was
	// actually added.
	Deposit(item I, amount int64) (int64, error)
	// CapacitySettings exposes the externally-owned capacity mapping.
	// Mutating it between calls is the caller's lever for resizing.
	CapacitySettings() map[I]int64
}

// ItemStore keeps raw per-item stored amounts against an externally-owned
// capacity mapping. Capacities are observed through that mapping on every
// query, never snapshotted: shrinking a capacity below the raw stored
// amount hides the overflow, growing it again makes the hidden amount
// re-emerge. Deleting overflow is the caller's responsibility.
type ItemStore[I comparable] struct {
	capacities map[I]int64
	raw        map[I]int64
}

// NewItemStore builds a store over the given capacity mapping. The map is
// retained by reference. Items present in the map are pre-seeded with a
// raw amount of 0; items added to the map later gain a raw amount of 0 on
// first observation.
func NewItemStore[I comparable](capacities map[I]int64) (*ItemStore[I], error) {
	raw := make(map[I]int64, len(capacities))
	for item, capacity := range capacities {
		if capacity < 0 {
			return nil, fmt.Errorf("capacity %d for item %v must be non-negative: %w", capacity, item, ErrRange)
		}
		raw[item] = 0
	}
	return &ItemStore[I]{capacities: capacities, raw: raw}, nil
}

func (s *ItemStore[I]) GetStoredAmount(item I) int64 {
	return min(s.raw[item], s.capacities[item])
}

func (s *ItemStore[I]) GetFreeCapacity(item I) int64 {
	return max(0, s.capacities[item]-s.GetStoredAmount(item))
}

// Withdraw removes min(amount, stored) of item. The raw amount shrinks by
// exactly what was withdrawn, so a capacity-hidden surplus is kept and
// backfills the observed amount up to the current capacity.
func (s *ItemStore[I]) Withdraw(item I, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("withdraw amount %d must be positive: %w", amount, ErrRange)
	}
	withdrawn := min(amount, s.GetStoredAmount(item))
	s.raw[item] -= withdrawn
	return withdrawn, nil
}

// Deposit adds min(amount, free capacity) of item.
func (s *ItemStore[I]) Deposit(item I, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("deposit amount %d must be positive: %w", amount, ErrRange)
	}
	deposited := min(amount, s.GetFreeCapacity(item))
	s.raw[item] += deposited
	return deposited, nil
}

func (s *ItemStore[I]) CapacitySettings() map[I]int64 {
	return s.capacities
}
