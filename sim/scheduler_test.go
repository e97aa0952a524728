package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustUpdate(t *testing.T, ls []*ProductionLine[ItemID], store Store[ItemID], timeDelta int64) {
	t.Helper()
	remaining, err := Update(ls, store, timeDelta, true)
	require.NoError(t, err)
	require.Equal(t, int64(0), remaining)
}

func assertLineIdle(t *testing.T, line *ProductionLine[ItemID]) {
	t.Helper()
	assert.Equal(t, int64(0), line.ActiveProducers)
	assert.Equal(t, int64(0), line.ProductionProgress)
}

func TestUpdate_RawLineProducesAfterFullDuration(t *testing.T) {
	store := mustStore(t, woodShopCapacities())
	harvest := mustLine(t, treeHarvestRecipe(t), 4)

	// one short of the harvest duration: everything still in flight
	mustUpdate(t, lines(harvest), store, 15)
	assert.Equal(t, int64(0), store.GetStoredAmount(treeTrunk))
	assert.Equal(t, int64(4), harvest.ActiveProducers)
	assert.Equal(t, int64(15), harvest.ProductionProgress)

	mustUpdate(t, lines(harvest), store, 1)
	assert.Equal(t, int64(4), store.GetStoredAmount(treeTrunk))
	assertLineIdle(t, harvest)
}

func TestUpdate_RawLineActivationCappedByFreeCapacity(t *testing.T) {
	capacities := woodShopCapacities()
	capacities[treeTrunk] = 3
	store := mustStore(t, capacities)
	harvest := mustLine(t, treeHarvestRecipe(t), 4)

	mustUpdate(t, lines(harvest), store, 16)
	assert.Equal(t, int64(3), store.GetStoredAmount(treeTrunk))
	assertLineIdle(t, harvest)

	// storage is full now; the line must not restart
	mustUpdate(t, lines(harvest), store, 16)
	assert.Equal(t, int64(3), store.GetStoredAmount(treeTrunk))
	assertLineIdle(t, harvest)
}

func TestUpdate_RawLinePartialFreeCapacity(t *testing.T) {
	capacities := woodShopCapacities()
	capacities[treeTrunk] = 10
	store := mustStore(t, capacities)
	mustDeposit(t, store, treeTrunk, 8)
	harvest := mustLine(t, treeHarvestRecipe(t), 4)

	mustUpdate(t, lines(harvest), store, 16)
	assert.Equal(t, int64(10), store.GetStoredAmount(treeTrunk))
	assertLineIdle(t, harvest)
}

func TestUpdate_SimpleRequestProcessesAllTrunks(t *testing.T) {
	store := mustStore(t, woodShopCapacities())
	mustDeposit(t, store, treeTrunk, 32)
	process := mustLine(t, processTrunkRecipe(t), 32)

	mustUpdate(t, lines(process), store, 4)
	assert.Equal(t, int64(0), store.GetStoredAmount(treeTrunk))
	assert.Equal(t, int64(256), store.GetStoredAmount(woodPlank))
	assert.Equal(t, int64(512), store.GetStoredAmount(treeBark))
	assertLineIdle(t, process)
}

func TestUpdate_RationsScarcePlankProportionally(t *testing.T) {
	store := mustStore(t, woodShopCapacities())
	mustDeposit(t, store, woodPlank, 6)
	mustDeposit(t, store, woodenNail, 12)
	mustDeposit(t, store, treeBark, 64)
	nails := mustLine(t, woodenNailRecipe(t), 6)
	tables := mustLine(t, tableRecipe(t), 1)

	// plank demand is 6+6=12 against 6 stored, ratio 1/2: the nail line
	// starts 3 producers, the table line rounds down to none
	mustUpdate(t, lines(nails, tables), store, 1)

	assert.Equal(t, int64(3), store.GetStoredAmount(woodPlank))
	assert.Equal(t, int64(84), store.GetStoredAmount(woodenNail))
	assert.Equal(t, int64(64), store.GetStoredAmount(treeBark))
	assertLineIdle(t, nails) // duration 1, completed and offloaded
	assertLineIdle(t, tables)
}

func TestUpdate_SatisfiableMixedDemandGrantedInFull(t *testing.T) {
	store := mustStore(t, woodShopCapacities())
	mustDeposit(t, store, woodPlank, 18)
	mustDeposit(t, store, woodenNail, 12)
	mustDeposit(t, store, treeBark, 64)
	nails := mustLine(t, woodenNailRecipe(t), 6)
	tables := mustLine(t, tableRecipe(t), 1)

	// plank demand 6+6=12 fits within the 18 stored
	mustUpdate(t, lines(nails, tables), store, 1)

	assert.Equal(t, int64(6), store.GetStoredAmount(woodPlank))
	assert.Equal(t, int64(144), store.GetStoredAmount(woodenNail))
	assert.Equal(t, int64(60), store.GetStoredAmount(treeBark))
	assertLineIdle(t, nails)
	assert.Equal(t, int64(1), tables.ActiveProducers)
	assert.Equal(t, int64(1), tables.ProductionProgress)
}

func TestUpdate_OutputStallAndPartialResume(t *testing.T) {
	capacities := woodShopCapacities()
	store := mustStore(t, capacities)
	mustDeposit(t, store, treeTrunk, 2)
	process := mustLine(t, processTrunkRecipe(t), 2)

	mustUpdate(t, lines(process), store, 3)
	assert.Equal(t, int64(2), process.ActiveProducers)
	assert.Equal(t, int64(3), process.ProductionProgress)

	// plank storage vanishes right before completion
	capacities[woodPlank] = 0
	mustUpdate(t, lines(process), store, 1)
	assert.Equal(t, int64(2), process.ActiveProducers)
	assert.Equal(t, int64(4), process.ProductionProgress)
	assert.Equal(t, int64(0), store.GetStoredAmount(woodPlank))
	assert.Equal(t, int64(0), store.GetStoredAmount(treeBark))

	// room for one producer's bundle: exactly one offloads
	capacities[woodPlank] = 8
	mustUpdate(t, lines(process), store, 1)
	assert.Equal(t, int64(1), process.ActiveProducers)
	assert.Equal(t, int64(4), process.ProductionProgress)
	assert.Equal(t, int64(8), store.GetStoredAmount(woodPlank))
	assert.Equal(t, int64(16), store.GetStoredAmount(treeBark))

	capacities[woodPlank] = 1024
	mustUpdate(t, lines(process), store, 1)
	assertLineIdle(t, process)
	assert.Equal(t, int64(16), store.GetStoredAmount(woodPlank))
	assert.Equal(t, int64(32), store.GetStoredAmount(treeBark))
}

func TestUpdate_HarvestFeedsProcessingAcrossSteps(t *testing.T) {
	store := mustStore(t, woodShopCapacities())
	harvest := mustLine(t, treeHarvestRecipe(t), 1)
	process := mustLine(t, processTrunkRecipe(t), 1)

	// trunk 1 lands at t=16, is consumed at t=17, planks land at t=20;
	// trunk 2 lands at t=32 and is processed by t=36
	mustUpdate(t, lines(harvest, process), store, 40)

	assert.Equal(t, int64(0), store.GetStoredAmount(treeTrunk))
	assert.Equal(t, int64(16), store.GetStoredAmount(woodPlank))
	assert.Equal(t, int64(32), store.GetStoredAmount(treeBark))
	assert.Equal(t, int64(1), harvest.ActiveProducers)
	assert.Equal(t, int64(8), harvest.ProductionProgress)
	assertLineIdle(t, process)
}

func TestUpdate_DebugRejectsNonPositiveTimeDelta(t *testing.T) {
	store := mustStore(t, woodShopCapacities())
	for _, delta := range []int64{0, -3} {
		remaining, err := Update[ItemID](nil, store, delta, true)
		assert.ErrorIs(t, err, ErrRange)
		assert.Equal(t, delta, remaining)
	}
}

func TestUpdate_ZeroTimeDeltaIsNoOpOutsideDebug(t *testing.T) {
	store := mustStore(t, woodShopCapacities())
	remaining, err := Update[ItemID](nil, store, 0, false)
	require.NoError(t, err)
	assert.Equal(t, int64(0), remaining)
}

func TestUpdate_DebugReportsLineInvariantViolation(t *testing.T) {
	store := mustStore(t, woodShopCapacities())
	harvest := mustLine(t, treeHarvestRecipe(t), 2)
	harvest.ActiveProducers = 5 // corrupted beyond the pool size

	remaining, err := Update(lines(harvest), store, 5, true)
	assert.ErrorIs(t, err, ErrInvariant)
	assert.Equal(t, int64(5), remaining)
}
