package catalog

import (
	"fmt"

	"github.com/lunarpine/menagerie-api/internal/balance"
)

// Crafting material identifiers.
const (
	MaterialEmberShard = "ember_shard"
	MaterialDeepPearl  = "deep_pearl"
	MaterialStormCore  = "storm_core"
	MaterialIronScrap  = "iron_scrap"
	MaterialShadowSilk = "shadow_silk"
)

// RecipeDef maps required material quantities to a crafted item. The
// result item is not in the base item table; it lives in the crafted
// overlay, seeded at init so restarted processes resolve it too.
type RecipeDef struct {
	ID        string
	Materials map[string]int
	Result    ItemDef
}

func (d RecipeDef) clone() RecipeDef {
	d.Materials = cloneStats(d.Materials)
	d.Result = d.Result.clone()
	return d
}

var recipeList = []RecipeDef{
	{
		ID: "emberfang_band",
		Materials: map[string]int{
			MaterialEmberShard: int(balance.ValueAt(5)), // 5
			MaterialIronScrap:  int(balance.ValueAt(4)), // 3
		},
		Result: ItemDef{
			ID: "emberfang_band", Name: "Emberfang Band", Slot: SlotAccessory, Rarity: RarityRare,
			BaseStats: map[string]int{StatAttack: 7, StatSpeed: 3},
			Effect:    EffectCritChance, Magnitude: float64(balance.ValueAt(5)),
			LevelRequired: int(balance.ValueAt(6)),
		},
	},
	{
		ID: "stormforged_crown",
		Materials: map[string]int{
			MaterialStormCore: int(balance.ValueAt(3)), // 2
			MaterialIronScrap: int(balance.ValueAt(6)), // 8
		},
		Result: ItemDef{
			ID: "stormforged_crown", Name: "Stormforged Crown", Slot: SlotHead, Rarity: RarityEpic,
			BaseStats: map[string]int{StatAttack: 8, StatDefense: 9},
			Effect:    EffectHaste, Magnitude: float64(balance.ValueAt(6)),
			LevelRequired: int(balance.ValueAt(7)),
		},
	},
	{
		ID: "abyssal_cloak",
		Materials: map[string]int{
			MaterialShadowSilk: int(balance.ValueAt(7)), // 13
			MaterialDeepPearl:  int(balance.ValueAt(4)), // 3
		},
		Result: ItemDef{
			ID: "abyssal_cloak", Name: "Abyssal Cloak", Slot: SlotBody, Rarity: RarityEpic,
			BaseStats: map[string]int{StatDefense: 12, StatHealth: 18, StatSpeed: 4},
			Effect:    EffectWard, Magnitude: float64(balance.ValueAt(6)),
			LevelRequired: int(balance.ValueAt(7)),
		},
	},
}

var recipes = buildRecipeIndex()

func buildRecipeIndex() map[string]RecipeDef {
	idx := make(map[string]RecipeDef, len(recipeList))
	for _, def := range recipeList {
		if !ValidID(def.ID) {
			panic(fmt.Sprintf("catalog: recipe %q has an invalid id", def.ID))
		}
		if _, dup := idx[def.ID]; dup {
			panic(fmt.Sprintf("catalog: duplicate recipe id %q", def.ID))
		}
		if _, taken := items[def.Result.ID]; taken {
			panic(fmt.Sprintf("catalog: recipe %q result collides with base item %q", def.ID, def.Result.ID))
		}
		for mat, qty := range def.Materials {
			if !ValidID(mat) || qty <= 0 {
				panic(fmt.Sprintf("catalog: recipe %q has invalid material %q x%d", def.ID, mat, qty))
			}
		}
		idx[def.ID] = def
	}
	return idx
}
