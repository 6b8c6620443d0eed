package equipment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lunarpine/menagerie-api/internal/catalog"
	"github.com/lunarpine/menagerie-api/internal/engine/equipment"
	"github.com/lunarpine/menagerie-api/internal/entities"
	"github.com/lunarpine/menagerie-api/internal/errors"
)

func newStateWith(items ...string) *entities.ShopState {
	state := entities.NewShopState("player-1")
	for _, id := range items {
		state.AddToInventory(id)
	}
	return state
}

func TestRecalculateEmpty(t *testing.T) {
	bonuses := equipment.Recalculate(map[catalog.Slot]string{})

	for _, stat := range []string{catalog.StatAttack, catalog.StatDefense, catalog.StatHealth, catalog.StatSpeed} {
		value, present := bonuses.Stats[stat]
		assert.True(t, present, "stat %s must be present even at zero", stat)
		assert.Zero(t, value)
	}
	assert.Empty(t, bonuses.Effects)
	assert.Empty(t, bonuses.ActiveSets)
}

func TestRecalculateScalesByRarity(t *testing.T) {
	// Uncommon 1.08, floored per stat before accumulation.
	bonuses := equipment.Recalculate(map[catalog.Slot]string{
		catalog.SlotHead: "tide_helm", // defense 7, health 9
	})

	assert.Equal(t, 7, bonuses.Stats[catalog.StatDefense]) // floor(7*1.08)
	assert.Equal(t, 9, bonuses.Stats[catalog.StatHealth])  // floor(9*1.08)
	assert.Zero(t, bonuses.Stats[catalog.StatAttack])
}

func TestRecalculateIdempotent(t *testing.T) {
	equipped := map[catalog.Slot]string{
		catalog.SlotHead: "tide_helm",
		catalog.SlotBody: "tide_mail",
		catalog.SlotFeet: "tide_fins",
	}

	first := equipment.Recalculate(equipped)
	second := equipment.Recalculate(equipped)
	assert.Equal(t, first, second)
}

func TestSetBonusesStack(t *testing.T) {
	twoPieces := equipment.Recalculate(map[catalog.Slot]string{
		catalog.SlotHead: "tide_helm",
		catalog.SlotBody: "tide_mail",
	})
	require.Len(t, twoPieces.ActiveSets, 1)
	assert.Equal(t, "tideward", twoPieces.ActiveSets[0].SetID)
	assert.Equal(t, 2, twoPieces.ActiveSets[0].Pieces)
	// tide_helm 7 + tide_mail 10 + pair bonus 5
	assert.Equal(t, 22, twoPieces.Stats[catalog.StatDefense])

	threePieces := equipment.Recalculate(map[catalog.Slot]string{
		catalog.SlotHead: "tide_helm",
		catalog.SlotBody: "tide_mail",
		catalog.SlotFeet: "tide_fins",
	})
	require.Len(t, threePieces.ActiveSets, 2, "higher threshold keeps the lower one active")
	// Pair defense bonus still applies alongside the trio bonus.
	assert.Equal(t, 7+10+3+5, threePieces.Stats[catalog.StatDefense])
	assert.Equal(t, 9+12+13, threePieces.Stats[catalog.StatHealth])
	assert.InDelta(t, 5.0, threePieces.Effects[catalog.EffectWard], 1e-9)
}

func TestSetBonusDropsWhenPieceRemoved(t *testing.T) {
	withPair := equipment.Recalculate(map[catalog.Slot]string{
		catalog.SlotHead: "night_hood",
		catalog.SlotFeet: "night_boots",
	})
	require.Len(t, withPair.ActiveSets, 1)

	alone := equipment.Recalculate(map[catalog.Slot]string{
		catalog.SlotHead: "night_hood",
	})
	assert.Empty(t, alone.ActiveSets)
}

func TestEffectsAccumulate(t *testing.T) {
	bonuses := equipment.Recalculate(map[catalog.Slot]string{
		catalog.SlotHead:      "night_hood",  // crit_chance 5
		catalog.SlotAccessory: "lucky_charm", // crit_chance 3
		catalog.SlotFeet:      "night_boots", // haste 5, pair crit_chance 5
	})

	assert.InDelta(t, 13.0, bonuses.Effects[catalog.EffectCritChance], 1e-9)
	assert.InDelta(t, 5.0, bonuses.Effects[catalog.EffectHaste], 1e-9)
}

func TestEquip(t *testing.T) {
	state := newStateWith("iron_helm", "tide_helm")

	previous, err := equipment.Equip(state, 1, "iron_helm")
	require.NoError(t, err)
	assert.Empty(t, previous)
	assert.Equal(t, "iron_helm", state.Equipped[catalog.SlotHead])

	// Replacing in the same slot reports the displaced item.
	previous, err = equipment.Equip(state, 5, "tide_helm")
	require.NoError(t, err)
	assert.Equal(t, "iron_helm", previous)
	assert.Equal(t, "tide_helm", state.Equipped[catalog.SlotHead])
}

func TestEquipAlreadyEquipped(t *testing.T) {
	state := newStateWith("iron_helm")
	_, err := equipment.Equip(state, 1, "iron_helm")
	require.NoError(t, err)

	_, err = equipment.Equip(state, 1, "iron_helm")
	require.Error(t, err)
	assert.True(t, errors.IsAlreadyExists(err))
}

func TestEquipLevelGate(t *testing.T) {
	state := newStateWith("tide_helm") // requires level 5

	_, err := equipment.Equip(state, 4, "tide_helm")
	require.Error(t, err)
	assert.True(t, errors.IsFailedPrecondition(err))
	assert.Empty(t, state.Equipped, "failed equip must not mutate state")

	_, err = equipment.Equip(state, 5, "tide_helm")
	assert.NoError(t, err, "the gate is inclusive at the exact level")
}

func TestEquipRejections(t *testing.T) {
	state := newStateWith()

	_, err := equipment.Equip(state, 99, "Not Valid!")
	assert.True(t, errors.IsInvalidArgument(err))

	_, err = equipment.Equip(state, 99, "no_such_item")
	assert.True(t, errors.IsNotFound(err))

	_, err = equipment.Equip(state, 99, "iron_helm") // exists, not owned
	assert.True(t, errors.IsFailedPrecondition(err))
}

func TestUnequip(t *testing.T) {
	state := newStateWith("iron_helm")
	_, err := equipment.Equip(state, 1, "iron_helm")
	require.NoError(t, err)

	itemID, err := equipment.Unequip(state, catalog.SlotHead)
	require.NoError(t, err)
	assert.Equal(t, "iron_helm", itemID)
	assert.NotContains(t, state.Equipped, catalog.SlotHead)

	_, err = equipment.Unequip(state, catalog.SlotHead)
	assert.True(t, errors.IsFailedPrecondition(err), "empty slot cannot be cleared")

	_, err = equipment.Unequip(state, "elbow")
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestCanCraftShortfalls(t *testing.T) {
	state := newStateWith()
	state.Materials[catalog.MaterialEmberShard] = 2 // recipe needs 5
	// iron_scrap entirely missing, needs 3

	_, shortfalls, err := equipment.CanCraft(state, "emberfang_band")
	require.NoError(t, err)
	require.Len(t, shortfalls, 2)

	// Shortfalls come back sorted by material name.
	assert.Equal(t, catalog.MaterialEmberShard, shortfalls[0].Material)
	assert.Equal(t, 3, shortfalls[0].Missing)
	assert.Equal(t, catalog.MaterialIronScrap, shortfalls[1].Material)
	assert.Equal(t, 3, shortfalls[1].Missing)
	assert.Equal(t, 0, shortfalls[1].Owned)
}

func TestCraftShortfallConsumesNothing(t *testing.T) {
	state := newStateWith()
	state.Materials[catalog.MaterialEmberShard] = 2

	_, err := equipment.Craft(state, "emberfang_band")
	require.Error(t, err)
	assert.True(t, errors.IsFailedPrecondition(err))
	assert.Equal(t, 2, state.Materials[catalog.MaterialEmberShard], "failed craft must not consume materials")
	assert.False(t, state.Owns("emberfang_band"))

	meta := errors.GetMeta(err)
	require.NotNil(t, meta)
	assert.Contains(t, meta, "shortfalls")
}

func TestCraft(t *testing.T) {
	state := newStateWith()
	state.Materials[catalog.MaterialEmberShard] = 6
	state.Materials[catalog.MaterialIronScrap] = 3

	item, err := equipment.Craft(state, "emberfang_band")
	require.NoError(t, err)
	assert.Equal(t, "emberfang_band", item.ID)

	assert.Equal(t, 1, state.Materials[catalog.MaterialEmberShard], "consumed exactly the required quantity")
	assert.NotContains(t, state.Materials, catalog.MaterialIronScrap, "exhausted materials drop from the wallet")
	assert.True(t, state.Owns("emberfang_band"))

	// The crafted item is now resolvable like any other.
	resolved, ok := catalog.Item("emberfang_band")
	require.True(t, ok)
	assert.Equal(t, catalog.SlotAccessory, resolved.Slot)
}

func TestCraftUnknownRecipe(t *testing.T) {
	state := newStateWith()

	_, err := equipment.Craft(state, "no_such_recipe")
	assert.True(t, errors.IsNotFound(err))

	_, err = equipment.Craft(state, "Bad ID")
	assert.True(t, errors.IsInvalidArgument(err))
}
