package sim

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Item identifiers shared across the package tests.
const (
	treeTrunk  ItemID = "TREE_TRUNK"
	woodPlank  ItemID = "WOOD_PLANK"
	treeBark   ItemID = "TREE_BARK"
	woodenNail ItemID = "WOODEN_NAIL"
	tableItem  ItemID = "TABLE"
)

func stacks(pairs ...ItemStack[ItemID]) []ItemStack[ItemID] {
	return pairs
}

func stack(item ItemID, amount int64) ItemStack[ItemID] {
	return ItemStack[ItemID]{Item: item, Amount: amount}
}

func mustRecipe(t *testing.T, ingredients, results []ItemStack[ItemID], duration int64) *Recipe[ItemID] {
	t.Helper()
	recipe, err := NewRecipe(ingredients, results, duration)
	require.NoError(t, err)
	return recipe
}

func mustLine(t *testing.T, recipe *Recipe[ItemID], totalProducers int64) *ProductionLine[ItemID] {
	t.Helper()
	line, err := NewProductionLine(recipe, totalProducers)
	require.NoError(t, err)
	return line
}

func mustStore(t *testing.T, capacities map[ItemID]int64) *ItemStore[ItemID] {
	t.Helper()
	store, err := NewItemStore(capacities)
	require.NoError(t, err)
	return store
}

// mustDeposit seeds a store, failing the test on clamped deposits.
func mustDeposit(t *testing.T, store Store[ItemID], item ItemID, amount int64) {
	t.Helper()
	deposited, err := store.Deposit(item, amount)
	require.NoError(t, err)
	require.Equal(t, amount, deposited, "seeding %s", item)
}

// woodShopCapacities is the default fixture storage: 1024 per item.
func woodShopCapacities() map[ItemID]int64 {
	return map[ItemID]int64{
		treeTrunk:  1024,
		woodPlank:  1024,
		treeBark:   1024,
		woodenNail: 1024,
		tableItem:  1024,
	}
}

// Fixture recipes for the wood-shop scenarios.
func treeHarvestRecipe(t *testing.T) *Recipe[ItemID] {
	return mustRecipe(t, nil, stacks(stack(treeTrunk, 1)), 16)
}

func processTrunkRecipe(t *testing.T) *Recipe[ItemID] {
	return mustRecipe(t,
		stacks(stack(treeTrunk, 1)),
		stacks(stack(woodPlank, 8), stack(treeBark, 16)),
		4)
}

func woodenNailRecipe(t *testing.T) *Recipe[ItemID] {
	return mustRecipe(t, stacks(stack(woodPlank, 1)), stacks(stack(woodenNail, 24)), 1)
}

func tableRecipe(t *testing.T) *Recipe[ItemID] {
	return mustRecipe(t,
		stacks(stack(woodPlank, 6), stack(woodenNail, 12), stack(treeBark, 4)),
		stacks(stack(tableItem, 1)),
		16)
}
