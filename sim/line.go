package sim

import "fmt"

// ProductionLine is a pool of up to TotalProducers identical producers
// bound to one recipe. ActiveProducers counts how many currently hold
// ingredients and are producing; ProductionProgress is shared by all of
// them. Both fields are mutated by the scheduler; everything else is
// owned by the caller.
type ProductionLine[I comparable] struct {
	Recipe             *Recipe[I]
	TotalProducers     int64
	ActiveProducers    int64
	ProductionProgress int64
}

// NewProductionLine builds an idle line for the given recipe.
func NewProductionLine[I comparable](recipe *Recipe[I], totalProducers int64) (*ProductionLine[I], error) {
	if recipe == nil {
		return nil, fmt.Errorf("production line needs a recipe: %w", ErrRange)
	}
	if totalProducers < 0 {
		return nil, fmt.Errorf("total producers %d must be non-negative: %w", totalProducers, ErrRange)
	}
	return &ProductionLine[I]{Recipe: recipe, TotalProducers: totalProducers}, nil
}

// CheckInvariants verifies the per-line state invariants. The scheduler
// calls this after every step when running in debug mode.
func (l *ProductionLine[I]) CheckInvariants() error {
	if l.ActiveProducers < 0 || l.ActiveProducers > l.TotalProducers {
		return fmt.Errorf("active producers %d outside [0, %d]: %w",
			l.ActiveProducers, l.TotalProducers, ErrInvariant)
	}
	if l.ProductionProgress < 0 || l.ProductionProgress > l.Recipe.Duration {
		return fmt.Errorf("production progress %d outside [0, %d]: %w",
			l.ProductionProgress, l.Recipe.Duration, ErrInvariant)
	}
	if l.ActiveProducers == 0 && l.ProductionProgress != 0 {
		return fmt.Errorf("idle line holds progress %d: %w", l.ProductionProgress, ErrInvariant)
	}
	return nil
}
