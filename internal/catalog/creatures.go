package catalog

import (
	"fmt"

	"github.com/lunarpine/menagerie-api/internal/balance"
	"github.com/lunarpine/menagerie-api/internal/unlock"
)

// TemplateKind distinguishes creatures from allies. Creatures unlock
// abilities by level; allies unlock them by affinity.
type TemplateKind string

// Template kinds.
const (
	KindCreature TemplateKind = "creature"
	KindAlly     TemplateKind = "ally"
)

// AbilityDef is an ability on a template, available once the instance's
// level (creatures) or affinity (allies) reaches the unlock value.
type AbilityDef struct {
	ID   string
	Name string
	// UnlockLevel applies to creatures, UnlockAffinity to allies; the
	// other field is zero.
	UnlockLevel    int
	UnlockAffinity int
}

// EvolutionDef is one evolution threshold. Boosts compound: an instance
// whose level clears several thresholds applies every boost in ascending
// order. The display name of the highest cleared threshold wins.
type EvolutionDef struct {
	Level int
	Name  string
	Boost float64
}

// TemplateDef is an immutable creature or ally template.
type TemplateDef struct {
	ID          string
	Name        string
	Kind        TemplateKind
	Element     Element
	Rarity      Rarity
	BaseStats   map[string]int
	AttackRange int
	MoveRange   int
	MaxLevel    int
	Abilities   []AbilityDef
	Evolutions  []EvolutionDef
	Unlock      unlock.Condition
}

func (d TemplateDef) clone() TemplateDef {
	d.BaseStats = cloneStats(d.BaseStats)

	abilities := make([]AbilityDef, len(d.Abilities))
	copy(abilities, d.Abilities)
	d.Abilities = abilities

	evolutions := make([]EvolutionDef, len(d.Evolutions))
	copy(evolutions, d.Evolutions)
	d.Evolutions = evolutions
	return d
}

var templateList = []TemplateDef{
	{
		ID: "cinderpup", Name: "Cinderpup", Kind: KindCreature,
		Element: ElementFire, Rarity: RarityCommon,
		BaseStats:   map[string]int{StatAttack: 8, StatDefense: 5, StatHealth: 30, StatSpeed: 7},
		AttackRange: 1, MoveRange: 3,
		MaxLevel: int(balance.ValueAt(9)), // 34
		Abilities: []AbilityDef{
			{ID: "ember_bite", Name: "Ember Bite", UnlockLevel: 1},
			{ID: "flame_dash", Name: "Flame Dash", UnlockLevel: int(balance.ValueAt(5))},
			{ID: "inferno_howl", Name: "Inferno Howl", UnlockLevel: int(balance.ValueAt(7))},
		},
		Evolutions: []EvolutionDef{
			{Level: int(balance.ValueAt(7)), Name: "Cinderhound", Boost: balance.Percent(balance.IdxEvolutionMinor)},
			{Level: int(balance.ValueAt(8)), Name: "Infernowolf", Boost: balance.Percent(balance.IdxEvolutionMajor)},
		},
		Unlock: unlock.Starter(),
	},
	{
		ID: "tideling", Name: "Tideling", Kind: KindCreature,
		Element: ElementWater, Rarity: RarityUncommon,
		BaseStats:   map[string]int{StatAttack: 6, StatDefense: 7, StatHealth: 34, StatSpeed: 6},
		AttackRange: 2, MoveRange: 2,
		MaxLevel: int(balance.ValueAt(9)),
		Abilities: []AbilityDef{
			{ID: "bubble_jet", Name: "Bubble Jet", UnlockLevel: 1},
			{ID: "undertow", Name: "Undertow", UnlockLevel: int(balance.ValueAt(6))},
		},
		Evolutions: []EvolutionDef{
			{Level: int(balance.ValueAt(7)), Name: "Tidecaller", Boost: balance.Percent(balance.IdxEvolutionMinor)},
			{Level: int(balance.ValueAt(8)), Name: "Maelstrom", Boost: balance.Percent(balance.IdxEvolutionMajor)},
		},
		Unlock: unlock.Starter(),
	},
	{
		ID: "terrapod", Name: "Terrapod", Kind: KindCreature,
		Element: ElementEarth, Rarity: RarityCommon,
		BaseStats:   map[string]int{StatAttack: 5, StatDefense: 11, StatHealth: 40, StatSpeed: 3},
		AttackRange: 1, MoveRange: 2,
		MaxLevel: int(balance.ValueAt(9)),
		Abilities: []AbilityDef{
			{ID: "shell_slam", Name: "Shell Slam", UnlockLevel: 1},
			{ID: "stone_wall", Name: "Stone Wall", UnlockLevel: int(balance.ValueAt(6))},
		},
		Evolutions: []EvolutionDef{
			{Level: int(balance.ValueAt(8)), Name: "Terravault", Boost: balance.Percent(balance.IdxEvolutionMajor)},
		},
		Unlock: unlock.Starter(),
	},
	{
		ID: "voltwing", Name: "Voltwing", Kind: KindCreature,
		Element: ElementStorm, Rarity: RarityRare,
		BaseStats:   map[string]int{StatAttack: 10, StatDefense: 4, StatHealth: 26, StatSpeed: 11},
		AttackRange: 3, MoveRange: 4,
		MaxLevel: int(balance.ValueAt(9)),
		Abilities: []AbilityDef{
			{ID: "static_peck", Name: "Static Peck", UnlockLevel: 1},
			{ID: "gale_dive", Name: "Gale Dive", UnlockLevel: int(balance.ValueAt(6))},
			{ID: "thunderburst", Name: "Thunderburst", UnlockLevel: int(balance.ValueAt(8))},
		},
		Evolutions: []EvolutionDef{
			{Level: int(balance.ValueAt(7)), Name: "Stormwing", Boost: balance.Percent(balance.IdxEvolutionMinor)},
			{Level: int(balance.ValueAt(9)), Name: "Tempest Sovereign", Boost: balance.Percent(balance.IdxEvolutionMajor)},
		},
		Unlock: unlock.Condition{Kind: unlock.KindQuest, QuestID: "storm_trials"},
	},
	{
		ID: "duskmaw", Name: "Duskmaw", Kind: KindCreature,
		Element: ElementShadow, Rarity: RarityEpic,
		BaseStats:   map[string]int{StatAttack: 13, StatDefense: 6, StatHealth: 28, StatSpeed: 9},
		AttackRange: 1, MoveRange: 3,
		MaxLevel: int(balance.ValueAt(9)),
		Abilities: []AbilityDef{
			{ID: "shadow_rend", Name: "Shadow Rend", UnlockLevel: 1},
			{ID: "veil_step", Name: "Veil Step", UnlockLevel: int(balance.ValueAt(7))},
		},
		Evolutions: []EvolutionDef{
			{Level: int(balance.ValueAt(8)), Name: "Duskrender", Boost: balance.Percent(balance.IdxEvolutionMajor)},
		},
		Unlock: unlock.Condition{Kind: unlock.KindAchievement, AchievementID: "night_hunter"},
	},
	{
		ID: "solarion", Name: "Solarion", Kind: KindCreature,
		Element: ElementLight, Rarity: RarityLegendary,
		BaseStats:   map[string]int{StatAttack: 12, StatDefense: 10, StatHealth: 45, StatSpeed: 8},
		AttackRange: 2, MoveRange: 3,
		MaxLevel: int(balance.ValueAt(10)), // 55
		Abilities: []AbilityDef{
			{ID: "radiant_lance", Name: "Radiant Lance", UnlockLevel: 1},
			{ID: "dawn_aegis", Name: "Dawn Aegis", UnlockLevel: int(balance.ValueAt(7))},
			{ID: "solar_flare", Name: "Solar Flare", UnlockLevel: int(balance.ValueAt(9))},
		},
		Evolutions: []EvolutionDef{
			{Level: int(balance.ValueAt(8)), Name: "Solarion Ascendant", Boost: balance.Percent(balance.IdxEvolutionMajor)},
		},
		Unlock: unlock.Condition{Kind: unlock.KindSecret, SecretID: "dawn_sigil"},
	},

	// Allies. Ability unlocks key off affinity rather than level.
	{
		ID: "ember_sage", Name: "Ember Sage", Kind: KindAlly,
		Element: ElementFire, Rarity: RarityRare,
		BaseStats:   map[string]int{StatAttack: 7, StatDefense: 6, StatHealth: 24, StatSpeed: 5},
		AttackRange: 2, MoveRange: 2,
		MaxLevel: int(balance.ValueAt(9)),
		Abilities: []AbilityDef{
			{ID: "kindle", Name: "Kindle", UnlockAffinity: 1},
			{ID: "warm_hearth", Name: "Warm Hearth", UnlockAffinity: int(balance.ValueAt(5))},
			{ID: "phoenix_pact", Name: "Phoenix Pact", UnlockAffinity: int(balance.ValueAt(7))},
		},
		Unlock: unlock.Condition{Kind: unlock.KindFaction, FactionID: "ember_court", MinStanding: int(balance.ValueAt(7))},
	},
	{
		ID: "tide_oracle", Name: "Tide Oracle", Kind: KindAlly,
		Element: ElementWater, Rarity: RarityUncommon,
		BaseStats:   map[string]int{StatAttack: 5, StatDefense: 7, StatHealth: 26, StatSpeed: 6},
		AttackRange: 3, MoveRange: 2,
		MaxLevel: int(balance.ValueAt(9)),
		Abilities: []AbilityDef{
			{ID: "foresight", Name: "Foresight", UnlockAffinity: 1},
			{ID: "tidal_blessing", Name: "Tidal Blessing", UnlockAffinity: int(balance.ValueAt(6))},
		},
		Unlock: unlock.Condition{Kind: unlock.KindEvent, EventID: "festival_of_tides"},
	},
	{
		ID: "stone_warden", Name: "Stone Warden", Kind: KindAlly,
		Element: ElementEarth, Rarity: RarityRare,
		BaseStats:   map[string]int{StatAttack: 6, StatDefense: 12, StatHealth: 36, StatSpeed: 3},
		AttackRange: 1, MoveRange: 1,
		MaxLevel: int(balance.ValueAt(9)),
		Abilities: []AbilityDef{
			{ID: "bulwark", Name: "Bulwark", UnlockAffinity: 1},
			{ID: "mountain_oath", Name: "Mountain Oath", UnlockAffinity: int(balance.ValueAt(6))},
		},
		Unlock: unlock.Condition{Kind: unlock.KindMinLevel, MinLevel: int(balance.ValueAt(6))},
	},
}

var templates = buildTemplateIndex()

func buildTemplateIndex() map[string]TemplateDef {
	idx := make(map[string]TemplateDef, len(templateList))
	for _, def := range templateList {
		if !ValidID(def.ID) {
			panic(fmt.Sprintf("catalog: template %q has an invalid id", def.ID))
		}
		if _, dup := idx[def.ID]; dup {
			panic(fmt.Sprintf("catalog: duplicate template id %q", def.ID))
		}
		if !ValidElement(def.Element) {
			panic(fmt.Sprintf("catalog: template %q has unknown element %q", def.ID, def.Element))
		}
		prev := 0
		for _, evo := range def.Evolutions {
			if evo.Level <= prev {
				panic(fmt.Sprintf("catalog: template %q evolution levels must be strictly ascending", def.ID))
			}
			prev = evo.Level
		}
		idx[def.ID] = def
	}
	return idx
}
