package catalog

import (
	"fmt"

	"github.com/lunarpine/menagerie-api/internal/balance"
)

// ItemDef is an immutable equipment item definition.
type ItemDef struct {
	ID        string
	Name      string
	Slot      Slot
	Rarity    Rarity
	BaseStats map[string]int
	// Effect is an optional named special effect; Magnitude is its strength
	// in percent points.
	Effect    string
	Magnitude float64
	// LevelRequired gates equipping.
	LevelRequired int
	// SetID is the equipment set this item belongs to, if any.
	SetID string
}

func (d ItemDef) clone() ItemDef {
	d.BaseStats = cloneStats(d.BaseStats)
	return d
}

// Special effect names.
const (
	EffectCritChance = "crit_chance"
	EffectLifesteal  = "lifesteal"
	EffectHaste      = "haste"
	EffectThorns     = "thorns"
	EffectWard       = "ward"
)

var itemList = []ItemDef{
	// Starter gear.
	{
		ID: "iron_helm", Name: "Iron Helm", Slot: SlotHead, Rarity: RarityCommon,
		BaseStats:     map[string]int{StatDefense: 4, StatHealth: 6},
		LevelRequired: 1,
	},
	{
		ID: "leather_jerkin", Name: "Leather Jerkin", Slot: SlotBody, Rarity: RarityCommon,
		BaseStats:     map[string]int{StatDefense: 6, StatHealth: 8},
		LevelRequired: 1,
	},
	{
		ID: "worn_gloves", Name: "Worn Gloves", Slot: SlotHands, Rarity: RarityCommon,
		BaseStats:     map[string]int{StatAttack: 3},
		LevelRequired: 1,
	},
	{
		ID: "swift_sandals", Name: "Swift Sandals", Slot: SlotFeet, Rarity: RarityCommon,
		BaseStats:     map[string]int{StatSpeed: 5},
		LevelRequired: int(balance.ValueAt(4)), // 3
	},

	// Tideward set, three pieces.
	{
		ID: "tide_helm", Name: "Tideward Helm", Slot: SlotHead, Rarity: RarityUncommon,
		BaseStats:     map[string]int{StatDefense: 7, StatHealth: 9},
		LevelRequired: int(balance.ValueAt(5)), // 5
		SetID:         "tideward",
	},
	{
		ID: "tide_mail", Name: "Tideward Mail", Slot: SlotBody, Rarity: RarityUncommon,
		BaseStats:     map[string]int{StatDefense: 10, StatHealth: 12},
		LevelRequired: int(balance.ValueAt(5)),
		SetID:         "tideward",
	},
	{
		ID: "tide_fins", Name: "Tideward Fins", Slot: SlotFeet, Rarity: RarityUncommon,
		BaseStats:     map[string]int{StatSpeed: 8, StatDefense: 3},
		LevelRequired: int(balance.ValueAt(5)),
		SetID:         "tideward",
	},

	// Emberguard set, full five pieces.
	{
		ID: "ember_crown", Name: "Emberguard Crown", Slot: SlotHead, Rarity: RarityRare,
		BaseStats:     map[string]int{StatAttack: 6, StatDefense: 8},
		LevelRequired: int(balance.ValueAt(6)), // 8
		SetID:         "emberguard",
	},
	{
		ID: "ember_plate", Name: "Emberguard Plate", Slot: SlotBody, Rarity: RarityRare,
		BaseStats:     map[string]int{StatDefense: 14, StatHealth: 16},
		LevelRequired: int(balance.ValueAt(6)),
		SetID:         "emberguard",
	},
	{
		ID: "ember_gauntlets", Name: "Emberguard Gauntlets", Slot: SlotHands, Rarity: RarityRare,
		BaseStats:     map[string]int{StatAttack: 11},
		LevelRequired: int(balance.ValueAt(6)),
		SetID:         "emberguard",
	},
	{
		ID: "ember_greaves", Name: "Emberguard Greaves", Slot: SlotFeet, Rarity: RarityRare,
		BaseStats:     map[string]int{StatSpeed: 7, StatDefense: 6},
		LevelRequired: int(balance.ValueAt(6)),
		SetID:         "emberguard",
	},
	{
		ID: "ember_sigil", Name: "Emberguard Sigil", Slot: SlotAccessory, Rarity: RarityRare,
		BaseStats: map[string]int{StatAttack: 4, StatHealth: 10},
		Effect:    EffectWard, Magnitude: float64(balance.ValueAt(5)),
		LevelRequired: int(balance.ValueAt(6)),
		SetID:         "emberguard",
	},

	// Nightstep set, two pieces.
	{
		ID: "night_hood", Name: "Nightstep Hood", Slot: SlotHead, Rarity: RarityEpic,
		BaseStats: map[string]int{StatAttack: 9, StatSpeed: 6},
		Effect:    EffectCritChance, Magnitude: float64(balance.ValueAt(5)),
		LevelRequired: int(balance.ValueAt(7)), // 13
		SetID:         "nightstep",
	},
	{
		ID: "night_boots", Name: "Nightstep Boots", Slot: SlotFeet, Rarity: RarityEpic,
		BaseStats: map[string]int{StatSpeed: 13, StatAttack: 5},
		Effect:    EffectHaste, Magnitude: float64(balance.ValueAt(5)),
		LevelRequired: int(balance.ValueAt(7)),
		SetID:         "nightstep",
	},

	// Standalone specials.
	{
		ID: "lucky_charm", Name: "Lucky Charm", Slot: SlotAccessory, Rarity: RarityUncommon,
		BaseStats: map[string]int{StatSpeed: 2},
		Effect:    EffectCritChance, Magnitude: float64(balance.ValueAt(4)),
		LevelRequired: 1,
	},
	{
		ID: "stormcaller_gloves", Name: "Stormcaller Gloves", Slot: SlotHands, Rarity: RarityRare,
		BaseStats: map[string]int{StatAttack: 8, StatSpeed: 4},
		Effect:    EffectHaste, Magnitude: float64(balance.ValueAt(6)),
		LevelRequired: int(balance.ValueAt(7)),
	},
	{
		ID: "dragonfang_pendant", Name: "Dragonfang Pendant", Slot: SlotAccessory, Rarity: RarityLegendary,
		BaseStats: map[string]int{StatAttack: 13, StatHealth: 21},
		Effect:    EffectLifesteal, Magnitude: float64(balance.ValueAt(6)),
		LevelRequired: int(balance.ValueAt(8)), // 21
	},
}

var items = buildItemIndex()

func buildItemIndex() map[string]ItemDef {
	idx := make(map[string]ItemDef, len(itemList))
	for _, def := range itemList {
		if !ValidID(def.ID) {
			panic(fmt.Sprintf("catalog: item %q has an invalid id", def.ID))
		}
		if def.ID == DefaultItemID {
			panic("catalog: the default item must not appear in the item table")
		}
		if _, dup := idx[def.ID]; dup {
			panic(fmt.Sprintf("catalog: duplicate item id %q", def.ID))
		}
		if !ValidSlot(def.Slot) {
			panic(fmt.Sprintf("catalog: item %q has unknown slot %q", def.ID, def.Slot))
		}
		idx[def.ID] = def
	}
	return idx
}
