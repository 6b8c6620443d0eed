// Package equipment implements the equipment aggregation engine: combined
// stat bonuses, special-effect accumulation, set-bonus activation, and the
// equip/unequip/craft transitions over a player's shop state. All functions
// are pure computations over catalog data plus the passed-in state; nothing
// here persists or notifies.
package equipment

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/lunarpine/menagerie-api/internal/catalog"
	"github.com/lunarpine/menagerie-api/internal/entities"
	"github.com/lunarpine/menagerie-api/internal/errors"
)

// ActiveSetBonus records one activated set-bonus threshold.
type ActiveSetBonus struct {
	SetID  string
	Pieces int
	Bonus  catalog.SetBonus
}

// Bonuses is the aggregated result of everything equipped.
type Bonuses struct {
	// Stats holds the combined flat stat bonuses, keyed by stat name.
	// Every tracked stat is present even when zero.
	Stats map[string]int
	// Effects accumulates special-effect magnitudes by effect name.
	Effects map[string]float64
	// ActiveSets lists every met set-bonus threshold, ascending per set.
	ActiveSets []ActiveSetBonus
}

// Recalculate computes aggregated bonuses from scratch for the given
// equipped contents. It is deterministic and idempotent: identical input
// yields identical output. Item base stats are scaled by the item's rarity
// multiplier and floored before accumulation. Set thresholds stack; meeting
// a higher threshold never forfeits a lower one.
func Recalculate(equipped map[catalog.Slot]string) *Bonuses {
	bonuses := &Bonuses{
		Stats: map[string]int{
			catalog.StatAttack:  0,
			catalog.StatDefense: 0,
			catalog.StatHealth:  0,
			catalog.StatSpeed:   0,
		},
		Effects: make(map[string]float64),
	}

	setCounts := make(map[string]int)
	for _, itemID := range equipped {
		item, ok := catalog.Item(itemID)
		if !ok {
			continue
		}

		mult := catalog.RarityMultiplier(item.Rarity)
		for stat, base := range item.BaseStats {
			bonuses.Stats[stat] += int(math.Floor(float64(base) * mult))
		}
		if item.Effect != "" {
			bonuses.Effects[item.Effect] += item.Magnitude
		}
		if item.SetID != "" {
			setCounts[item.SetID]++
		}
	}

	// Iterate sets in a fixed order so ActiveSets is stable.
	setIDs := make([]string, 0, len(setCounts))
	for setID := range setCounts {
		setIDs = append(setIDs, setID)
	}
	sort.Strings(setIDs)

	for _, setID := range setIDs {
		set, ok := catalog.Set(setID)
		if !ok {
			continue
		}
		for _, bonus := range set.Bonuses {
			if setCounts[setID] < bonus.Pieces {
				break
			}
			for stat, delta := range bonus.Stats {
				bonuses.Stats[stat] += delta
			}
			if bonus.Effect != "" {
				bonuses.Effects[bonus.Effect] += bonus.Magnitude
			}
			bonuses.ActiveSets = append(bonuses.ActiveSets, ActiveSetBonus{
				SetID:  setID,
				Pieces: bonus.Pieces,
				Bonus:  bonus,
			})
		}
	}

	return bonuses
}

// CanEquip checks every equip precondition without mutating state and
// returns the item definition on success.
func CanEquip(state *entities.ShopState, playerLevel int, itemID string) (catalog.ItemDef, error) {
	if !catalog.ValidID(itemID) {
		return catalog.ItemDef{}, errors.InvalidArgumentf("malformed item id %q", itemID)
	}

	item, ok := catalog.Item(itemID)
	if !ok {
		return catalog.ItemDef{}, errors.NotFoundf("unknown item %q", itemID)
	}
	if playerLevel < item.LevelRequired {
		return catalog.ItemDef{}, errors.FailedPreconditionf(
			"%s requires level %d (currently %d)", item.Name, item.LevelRequired, playerLevel).
			WithMeta("level_required", item.LevelRequired)
	}
	if !state.Owns(itemID) {
		return catalog.ItemDef{}, errors.FailedPreconditionf("%s is not in your inventory", item.Name)
	}
	if state.Equipped[item.Slot] == itemID {
		return catalog.ItemDef{}, errors.AlreadyExistsf("%s is already equipped", item.Name)
	}

	return item, nil
}

// Equip places the item in its slot after validating preconditions and
// returns the previously equipped item id for that slot, if any. State is
// untouched on failure.
func Equip(state *entities.ShopState, playerLevel int, itemID string) (previous string, err error) {
	item, err := CanEquip(state, playerLevel, itemID)
	if err != nil {
		return "", err
	}

	previous = state.Equipped[item.Slot]
	state.Equipped[item.Slot] = itemID
	return previous, nil
}

// Unequip clears the slot and returns the item that occupied it. There is
// no ownership precondition: what is equipped is always owned.
func Unequip(state *entities.ShopState, slot catalog.Slot) (string, error) {
	if !catalog.ValidSlot(slot) {
		return "", errors.InvalidArgumentf("unknown slot %q", slot)
	}

	itemID, ok := state.Equipped[slot]
	if !ok || itemID == "" {
		return "", errors.FailedPreconditionf("nothing equipped in the %s slot", slot)
	}

	delete(state.Equipped, slot)
	return itemID, nil
}

// Shortfall itemizes one missing craft material.
type Shortfall struct {
	Material string `json:"material"`
	Required int    `json:"required"`
	Owned    int    `json:"owned"`
	Missing  int    `json:"missing"`
}

// CanCraft checks material availability for a recipe. The returned
// shortfall list is empty when the craft would succeed; it names every
// missing material and how many more of each are needed.
func CanCraft(state *entities.ShopState, recipeID string) (catalog.RecipeDef, []Shortfall, error) {
	if !catalog.ValidID(recipeID) {
		return catalog.RecipeDef{}, nil, errors.InvalidArgumentf("malformed recipe id %q", recipeID)
	}

	recipe, ok := catalog.Recipe(recipeID)
	if !ok {
		return catalog.RecipeDef{}, nil, errors.NotFoundf("unknown recipe %q", recipeID)
	}

	materials := make([]string, 0, len(recipe.Materials))
	for mat := range recipe.Materials {
		materials = append(materials, mat)
	}
	sort.Strings(materials)

	var shortfalls []Shortfall
	for _, mat := range materials {
		required := recipe.Materials[mat]
		owned := state.Materials[mat]
		if owned < required {
			shortfalls = append(shortfalls, Shortfall{
				Material: mat,
				Required: required,
				Owned:    owned,
				Missing:  required - owned,
			})
		}
	}

	return recipe, shortfalls, nil
}

// Craft consumes the recipe's materials, registers the crafted item
// definition (idempotently), and adds one unit to the inventory. On any
// shortfall nothing is consumed and the error itemizes what is missing.
func Craft(state *entities.ShopState, recipeID string) (catalog.ItemDef, error) {
	recipe, shortfalls, err := CanCraft(state, recipeID)
	if err != nil {
		return catalog.ItemDef{}, err
	}
	if len(shortfalls) > 0 {
		parts := make([]string, len(shortfalls))
		for i, sf := range shortfalls {
			parts[i] = fmt.Sprintf("%d more %s", sf.Missing, sf.Material)
		}
		return catalog.ItemDef{}, errors.FailedPreconditionf(
			"missing materials: %s", strings.Join(parts, ", ")).
			WithMeta("shortfalls", shortfalls)
	}

	for mat, required := range recipe.Materials {
		state.Materials[mat] -= required
		if state.Materials[mat] == 0 {
			delete(state.Materials, mat)
		}
	}

	catalog.RegisterCrafted(recipe.Result)
	state.AddToInventory(recipe.Result.ID)
	return recipe.Result, nil
}
