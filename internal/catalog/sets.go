package catalog

import (
	"fmt"

	"github.com/lunarpine/menagerie-api/internal/balance"
)

// SetBonus is the reward for reaching one piece-count threshold of a set.
type SetBonus struct {
	// Pieces is the equipped-piece count that activates the bonus.
	Pieces int
	// Stats are flat stat deltas added on activation.
	Stats map[string]int
	// Effect is an optional named effect with Magnitude in percent points.
	Effect    string
	Magnitude float64
}

// SetDef is an immutable equipment set definition. Bonuses are ordered by
// ascending piece threshold and stack: reaching a higher threshold never
// forfeits a lower one.
type SetDef struct {
	ID      string
	Name    string
	Pieces  []string
	Bonuses []SetBonus
}

func (d SetDef) clone() SetDef {
	pieces := make([]string, len(d.Pieces))
	copy(pieces, d.Pieces)
	d.Pieces = pieces

	bonuses := make([]SetBonus, len(d.Bonuses))
	for i, b := range d.Bonuses {
		b.Stats = cloneStats(b.Stats)
		bonuses[i] = b
	}
	d.Bonuses = bonuses
	return d
}

var setList = []SetDef{
	{
		ID:     "tideward",
		Name:   "Tideward Regalia",
		Pieces: []string{"tide_helm", "tide_mail", "tide_fins"},
		Bonuses: []SetBonus{
			{
				Pieces: int(balance.ValueAt(balance.IdxSetPair)),
				Stats:  map[string]int{StatDefense: int(balance.ValueAt(5))},
			},
			{
				Pieces: int(balance.ValueAt(balance.IdxSetTrio)),
				Stats:  map[string]int{StatHealth: int(balance.ValueAt(7))},
				Effect: EffectWard, Magnitude: float64(balance.ValueAt(5)),
			},
		},
	},
	{
		ID:   "emberguard",
		Name: "Emberguard Panoply",
		Pieces: []string{
			"ember_crown", "ember_plate", "ember_gauntlets", "ember_greaves", "ember_sigil",
		},
		Bonuses: []SetBonus{
			{
				Pieces: int(balance.ValueAt(balance.IdxSetPair)),
				Stats:  map[string]int{StatAttack: int(balance.ValueAt(5))},
			},
			{
				Pieces: int(balance.ValueAt(balance.IdxSetTrio)),
				Stats:  map[string]int{StatAttack: int(balance.ValueAt(6)), StatDefense: int(balance.ValueAt(5))},
			},
			{
				Pieces: int(balance.ValueAt(balance.IdxSetFull)),
				Stats:  map[string]int{StatAttack: int(balance.ValueAt(7)), StatHealth: int(balance.ValueAt(8))},
				Effect: EffectThorns, Magnitude: float64(balance.ValueAt(6)),
			},
		},
	},
	{
		ID:     "nightstep",
		Name:   "Nightstep Pair",
		Pieces: []string{"night_hood", "night_boots"},
		Bonuses: []SetBonus{
			{
				Pieces: int(balance.ValueAt(balance.IdxSetPair)),
				Stats:  map[string]int{StatSpeed: int(balance.ValueAt(6))},
				Effect: EffectCritChance, Magnitude: float64(balance.ValueAt(5)),
			},
		},
	},
}

var sets = buildSetIndex()

func buildSetIndex() map[string]SetDef {
	idx := make(map[string]SetDef, len(setList))
	for _, def := range setList {
		if _, dup := idx[def.ID]; dup {
			panic(fmt.Sprintf("catalog: duplicate set id %q", def.ID))
		}
		prev := 0
		for _, b := range def.Bonuses {
			if b.Pieces <= prev {
				panic(fmt.Sprintf("catalog: set %q thresholds must be strictly ascending", def.ID))
			}
			if b.Pieces > len(def.Pieces) {
				panic(fmt.Sprintf("catalog: set %q threshold %d exceeds its %d pieces", def.ID, b.Pieces, len(def.Pieces)))
			}
			prev = b.Pieces
		}
		for _, itemID := range def.Pieces {
			item, ok := items[itemID]
			if !ok {
				panic(fmt.Sprintf("catalog: set %q references unknown item %q", def.ID, itemID))
			}
			if item.SetID != def.ID {
				panic(fmt.Sprintf("catalog: item %q does not declare set %q", itemID, def.ID))
			}
		}
		idx[def.ID] = def
	}
	return idx
}
