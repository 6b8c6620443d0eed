// Package progression implements the creature and ally progression engine:
// the experience curve, stat growth, evolution tiers, ability availability,
// and elemental type effectiveness. Everything is derived on demand from
// the template and the instance's level, experience, and affinity; nothing
// is cached in instance state.
package progression

import (
	"math"

	"github.com/lunarpine/menagerie-api/internal/balance"
	"github.com/lunarpine/menagerie-api/internal/catalog"
	"github.com/lunarpine/menagerie-api/internal/entities"
	"github.com/lunarpine/menagerie-api/internal/errors"
)

// xpScalar converts balancing-sequence terms into experience points.
const xpScalar = 20

// ExperienceForLevel returns the cumulative experience required to reach
// level. Level 1 and below cost nothing.
func ExperienceForLevel(level int) int64 {
	if level <= 1 {
		return 0
	}
	return balance.ValueAt(level+balance.IdxXPBase) * xpScalar
}

// LevelForExperience scans the experience table in ascending order and
// returns the highest level whose threshold is at or below xp, capped at
// maxLevel.
func LevelForExperience(xp int64, maxLevel int) int {
	if maxLevel < 1 {
		maxLevel = 1
	}
	level := 1
	for next := 2; next <= maxLevel; next++ {
		if xp < ExperienceForLevel(next) {
			break
		}
		level = next
	}
	return level
}

// LevelChange reports the outcome of an experience grant.
type LevelChange struct {
	LeveledUp bool `json:"leveled_up"`
	OldLevel  int  `json:"old_level"`
	NewLevel  int  `json:"new_level"`
}

// GrantExperience adds experience to the instance and recomputes its
// level. Experience accumulates monotonically; granting never lowers a
// level.
func GrantExperience(inst *entities.Instance, tpl catalog.TemplateDef, amount int64) (LevelChange, error) {
	if amount < 0 {
		return LevelChange{}, errors.InvalidArgumentf("experience amount must not be negative, got %d", amount)
	}

	oldLevel := inst.Level
	if oldLevel < 1 {
		oldLevel = 1
	}

	inst.Experience += amount
	newLevel := LevelForExperience(inst.Experience, tpl.MaxLevel)
	if newLevel < oldLevel {
		newLevel = oldLevel
	}
	inst.Level = newLevel

	return LevelChange{
		LeveledUp: newLevel > oldLevel,
		OldLevel:  oldLevel,
		NewLevel:  newLevel,
	}, nil
}

// GrantAffinity raises an ally's affinity. Affinity only ever grows.
func GrantAffinity(inst *entities.Instance, amount int) (int, error) {
	if amount < 0 {
		return inst.Affinity, errors.InvalidArgumentf("affinity amount must not be negative, got %d", amount)
	}
	inst.Affinity += amount
	return inst.Affinity, nil
}

// growthRates are the per-stat growth constants, all above 1.
var growthRates = map[string]float64{
	catalog.StatAttack:  balance.Percent(balance.IdxGrowthAttack),
	catalog.StatDefense: balance.Percent(balance.IdxGrowthDefense),
	catalog.StatHealth:  balance.Percent(balance.IdxGrowthHealth),
	catalog.StatSpeed:   balance.Percent(balance.IdxGrowthSpeed),
}

func growthRate(stat string) float64 {
	if rate, ok := growthRates[stat]; ok {
		return rate
	}
	return balance.Percent(balance.IdxGrowthDefense)
}

// StatsAtLevel computes the template's stats at the given level:
// floor(base * rarityMultiplier * growth^(level-1)), then every evolution
// threshold the level has reached applies its boost in ascending order,
// compounding multiplicatively with a floor after each boost.
func StatsAtLevel(tpl catalog.TemplateDef, level int) map[string]int {
	if level < 1 {
		level = 1
	}
	if tpl.MaxLevel > 0 && level > tpl.MaxLevel {
		level = tpl.MaxLevel
	}

	rarity := catalog.RarityMultiplier(tpl.Rarity)
	stats := make(map[string]int, len(tpl.BaseStats))
	for stat, base := range tpl.BaseStats {
		grown := float64(base) * rarity * math.Pow(growthRate(stat), float64(level-1))
		value := int(math.Floor(grown))
		for _, evo := range tpl.Evolutions {
			if level < evo.Level {
				break
			}
			value = int(math.Floor(float64(value) * evo.Boost))
		}
		stats[stat] = value
	}
	return stats
}

// DisplayName returns the name of the highest evolution threshold the
// level has reached, or the template's base name below the first
// threshold.
func DisplayName(tpl catalog.TemplateDef, level int) string {
	name := tpl.Name
	for _, evo := range tpl.Evolutions {
		if level < evo.Level {
			break
		}
		name = evo.Name
	}
	return name
}

// UnlockedAbilities filters the template's ability list against the
// instance's level (creatures) or affinity (allies). Availability is
// always re-derived, never stored, so threshold changes take effect
// without migration.
func UnlockedAbilities(tpl catalog.TemplateDef, inst *entities.Instance) []catalog.AbilityDef {
	var out []catalog.AbilityDef
	for _, ability := range tpl.Abilities {
		switch tpl.Kind {
		case catalog.KindAlly:
			if inst.Affinity >= ability.UnlockAffinity {
				out = append(out, ability)
			}
		default:
			if inst.Level >= ability.UnlockLevel {
				out = append(out, ability)
			}
		}
	}
	return out
}

// Effectiveness returns the directional damage multiplier for attacker
// against defender. A missing row or entry is neutral. No inverse
// relationship is ever derived from the reverse pairing.
func Effectiveness(attacker, defender catalog.Element) float64 {
	row := catalog.TypeChartRow(attacker)
	if row == nil {
		return 1.0
	}
	mult, ok := row[defender]
	if !ok {
		return 1.0
	}
	return mult
}
