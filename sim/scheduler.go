package sim

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Update advances the simulation by timeDelta unit steps. Each step
// activates idle lines (granting simple requests in full, satisfiable
// mixed requests in full, and rationing unsatisfiable groups
// proportionally), advances every active line by one time unit, and
// deposits completed results back into the store.
//
// The returned remainder is the unconsumed part of timeDelta; with the
// fixed unit step it is always 0 for valid input.
//
// In debug mode, Update additionally validates timeDelta and asserts the
// scheduler's internal invariants after every step; any violation is
// returned as an error wrapping ErrInvariant. Outside debug mode the only
// error surface is the store layer.
func Update[I comparable](lines []*ProductionLine[I], store Store[I], timeDelta int64, debug bool) (int64, error) {
	if debug && (timeDelta <= 0 || timeDelta > MaxSafeAmount) {
		return timeDelta, fmt.Errorf("time delta %d outside (0, %d]: %w", timeDelta, MaxSafeAmount, ErrRange)
	}

	for remaining := timeDelta; remaining > 0; remaining-- {
		if err := step(lines, store, debug); err != nil {
			return remaining, err
		}
		if debug {
			for _, line := range lines {
				if err := line.CheckInvariants(); err != nil {
					return remaining, err
				}
			}
		}
	}
	return 0, nil
}

// step runs one unit of simulation time.
func step[I comparable](lines []*ProductionLine[I], store Store[I], debug bool) error {
	activateRawLines(lines, store)

	requests := CollectItemRequests(lines, store)
	simple := GetSimpleItemRequests(requests)
	satisfiable := GetSatisfiableMixedItemRequests(requests, simple, store)
	groups := GetGroupedUnsatisfiableMixedItemRequests(requests, simple, satisfiable)

	// The three grant phases must run in this order: each one withdraws
	// from the store, and the partition above was computed against the
	// pre-withdrawal state.
	if err := grantSimpleRequests(simple, store, debug); err != nil {
		return err
	}
	if err := grantSatisfiableRequests(satisfiable, store, debug); err != nil {
		return err
	}
	for _, group := range groups {
		if err := rationUnsatisfiableGroup(group, store, debug); err != nil {
			return err
		}
	}

	if err := advance(lines, store, debug); err != nil {
		return err
	}
	// A deposit pass over output-stalled lines, in case the advance freed
	// room that now admits another stalled line to offload.
	return depositStalledLines(lines, store, debug)
}

// activateRawLines starts producers on idle lines whose recipes need no
// ingredients. Activation is capped at "max useful": producers whose
// future output could not fit in storage are not started.
func activateRawLines[I comparable](lines []*ProductionLine[I], store Store[I]) {
	for _, line := range lines {
		if line.ActiveProducers != 0 || len(line.Recipe.Ingredients) != 0 {
			continue
		}
		producers := line.TotalProducers
		for _, res := range line.Recipe.Results {
			producers = min(producers, store.GetFreeCapacity(res.Item)/res.Amount)
		}
		if producers > 0 {
			logrus.Debugf("activating %d raw producers", producers)
			line.ActiveProducers = producers
		}
	}
}

// grantSimpleRequests withdraws each simple request in full and activates
// the requesting line. The request collector guarantees these
// withdrawals fully succeed.
func grantSimpleRequests[I comparable](simple *RequestSet[I], store Store[I], debug bool) error {
	for _, item := range simple.Items() {
		req, _ := simple.Get(item)
		if debug && (len(req.Productions) != 1 || req.Productions[0].RequestedAmount != req.TotalRequestedAmount) {
			return fmt.Errorf("malformed simple request for item %v: %w", item, ErrInvariant)
		}
		entry := req.Productions[0]
		withdrawn, err := store.Withdraw(item, entry.RequestedAmount)
		if err != nil {
			return err
		}
		if debug && withdrawn != entry.RequestedAmount {
			return fmt.Errorf("simple withdrawal of item %v returned %d of %d: %w",
				item, withdrawn, entry.RequestedAmount, ErrInvariant)
		}
		entry.Line.ActiveProducers = entry.RequestedProducers
	}
	return nil
}

// grantSatisfiableRequests withdraws every entry of every satisfiable
// mixed request and activates the lines. All withdrawals succeed by
// construction of the satisfiable set.
func grantSatisfiableRequests[I comparable](satisfiable *RequestSet[I], store Store[I], debug bool) error {
	for _, item := range satisfiable.Items() {
		req, _ := satisfiable.Get(item)
		for _, entry := range req.Productions {
			withdrawn, err := store.Withdraw(item, entry.RequestedAmount)
			if err != nil {
				return err
			}
			if debug && withdrawn != entry.RequestedAmount {
				return fmt.Errorf("satisfiable withdrawal of item %v returned %d of %d: %w",
					item, withdrawn, entry.RequestedAmount, ErrInvariant)
			}
			entry.Line.ActiveProducers = entry.RequestedProducers
		}
	}
	return nil
}

// rationUnsatisfiableGroup shares the scarce items of one connected
// group proportionally: every line gets the same fraction of its
// requested producers, the fraction being the tightest stored/demand
// ratio in the group. Fractional producers are truncated; the leftover
// slack idles for this step.
func rationUnsatisfiableGroup[I comparable](group *RequestSet[I], store Store[I], debug bool) error {
	ratio := decimal.NewFromInt(1)
	for _, item := range group.Items() {
		req, _ := group.Get(item)
		r := decimal.NewFromInt(store.GetStoredAmount(item)).
			Div(decimal.NewFromInt(req.TotalRequestedAmount))
		if r.LessThan(ratio) {
			ratio = r
		}
	}
	logrus.Debugf("rationing group of %d items at ratio %s", group.Len(), ratio)

	// A line can appear under several items of the group; activate it
	// once, in first-appearance order.
	var order []*ProductionLine[I]
	requested := make(map[*ProductionLine[I]]int64)
	for _, item := range group.Items() {
		req, _ := group.Get(item)
		for _, entry := range req.Productions {
			if _, ok := requested[entry.Line]; ok {
				continue
			}
			requested[entry.Line] = entry.RequestedProducers
			order = append(order, entry.Line)
		}
	}

	for _, line := range order {
		producers := decimal.NewFromInt(requested[line]).Mul(ratio).IntPart()
		if producers <= 0 {
			continue
		}
		for _, ing := range line.Recipe.Ingredients {
			want := ing.Amount * producers
			withdrawn, err := store.Withdraw(ing.Item, want)
			if err != nil {
				return err
			}
			if debug && withdrawn != want {
				return fmt.Errorf("rationed withdrawal of item %v returned %d of %d: %w",
					ing.Item, withdrawn, want, ErrInvariant)
			}
		}
		line.ActiveProducers = producers
	}
	return nil
}

// advance moves every active line forward by one time unit and deposits
// the results of lines that reach their production duration. A line whose
// results do not all fit stays output-stalled at full progress and
// retries on later steps.
func advance[I comparable](lines []*ProductionLine[I], store Store[I], debug bool) error {
	for _, line := range lines {
		if line.ActiveProducers == 0 {
			continue
		}
		line.ProductionProgress = min(line.ProductionProgress+1, line.Recipe.Duration)
		if line.ProductionProgress == line.Recipe.Duration {
			if err := depositResults(line, store, debug); err != nil {
				return err
			}
		}
	}
	return nil
}

// depositStalledLines retries the deposit of every output-stalled line
// without advancing progress.
func depositStalledLines[I comparable](lines []*ProductionLine[I], store Store[I], debug bool) error {
	for _, line := range lines {
		if line.ActiveProducers > 0 && line.ProductionProgress == line.Recipe.Duration {
			if err := depositResults(line, store, debug); err != nil {
				return err
			}
		}
	}
	return nil
}

// depositResults offloads as many completed producers of line as free
// capacity admits. Producers deposit all-or-none: one producer's full
// result bundle either fits or waits. When the last producer offloads,
// progress resets to 0.
func depositResults[I comparable](line *ProductionLine[I], store Store[I], debug bool) error {
	producers := line.ActiveProducers
	for _, res := range line.Recipe.Results {
		producers = min(producers, store.GetFreeCapacity(res.Item)/res.Amount)
	}
	if producers == 0 {
		logrus.Debugf("line output-stalled with %d producers", line.ActiveProducers)
		return nil
	}
	for _, res := range line.Recipe.Results {
		want := res.Amount * producers
		deposited, err := store.Deposit(res.Item, want)
		if err != nil {
			return err
		}
		if debug && deposited != want {
			return fmt.Errorf("deposit of item %v stored %d of %d: %w",
				res.Item, deposited, want, ErrInvariant)
		}
	}
	line.ActiveProducers -= producers
	if line.ActiveProducers == 0 {
		line.ProductionProgress = 0
	}
	return nil
}
