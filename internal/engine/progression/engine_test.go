package progression_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lunarpine/menagerie-api/internal/catalog"
	"github.com/lunarpine/menagerie-api/internal/engine/progression"
	"github.com/lunarpine/menagerie-api/internal/entities"
	"github.com/lunarpine/menagerie-api/internal/errors"
)

func mustTemplate(t *testing.T, id string) catalog.TemplateDef {
	t.Helper()
	tpl, ok := catalog.Template(id)
	require.True(t, ok, "template %s must exist", id)
	return tpl
}

func TestExperienceForLevel(t *testing.T) {
	assert.Zero(t, progression.ExperienceForLevel(0))
	assert.Zero(t, progression.ExperienceForLevel(1))
	assert.Equal(t, int64(160), progression.ExperienceForLevel(2))
	assert.Equal(t, int64(260), progression.ExperienceForLevel(3))
	assert.Equal(t, int64(680), progression.ExperienceForLevel(5))

	// The curve is strictly increasing past level 2.
	prev := progression.ExperienceForLevel(2)
	for level := 3; level <= 40; level++ {
		next := progression.ExperienceForLevel(level)
		assert.Greater(t, next, prev, "threshold for level %d", level)
		prev = next
	}
}

func TestLevelForExperience(t *testing.T) {
	assert.Equal(t, 1, progression.LevelForExperience(0, 34))
	assert.Equal(t, 1, progression.LevelForExperience(159, 34), "one short of the threshold stays below")
	assert.Equal(t, 2, progression.LevelForExperience(160, 34), "the exact threshold levels up")
	assert.Equal(t, 2, progression.LevelForExperience(259, 34))
	assert.Equal(t, 3, progression.LevelForExperience(260, 34))

	// Cap at max level no matter the surplus.
	assert.Equal(t, 5, progression.LevelForExperience(1<<40, 5))
}

func TestGrantExperience(t *testing.T) {
	tpl := mustTemplate(t, "cinderpup")
	inst := &entities.Instance{TemplateID: tpl.ID, Level: 1}

	change, err := progression.GrantExperience(inst, tpl, 159)
	require.NoError(t, err)
	assert.False(t, change.LeveledUp)
	assert.Equal(t, 1, inst.Level)

	change, err = progression.GrantExperience(inst, tpl, 1)
	require.NoError(t, err)
	assert.True(t, change.LeveledUp)
	assert.Equal(t, 1, change.OldLevel)
	assert.Equal(t, 2, change.NewLevel)
	assert.Equal(t, int64(160), inst.Experience)
}

func TestGrantExperienceNegative(t *testing.T) {
	tpl := mustTemplate(t, "cinderpup")
	inst := &entities.Instance{TemplateID: tpl.ID, Level: 3, Experience: 300}

	_, err := progression.GrantExperience(inst, tpl, -10)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
	assert.Equal(t, int64(300), inst.Experience, "rejected grants must not mutate")
	assert.Equal(t, 3, inst.Level)
}

func TestGrantExperienceRespectsMaxLevel(t *testing.T) {
	tpl := mustTemplate(t, "cinderpup") // max level 34
	inst := &entities.Instance{TemplateID: tpl.ID, Level: 1}

	_, err := progression.GrantExperience(inst, tpl, 1<<40)
	require.NoError(t, err)
	assert.Equal(t, 34, inst.Level)

	// Further grants accumulate experience but never exceed the cap.
	change, err := progression.GrantExperience(inst, tpl, 1<<40)
	require.NoError(t, err)
	assert.False(t, change.LeveledUp)
	assert.Equal(t, 34, inst.Level)
}

func TestStatsAtLevelMonotonic(t *testing.T) {
	tpl := mustTemplate(t, "cinderpup")

	prev := progression.StatsAtLevel(tpl, 1)
	assert.Equal(t, tpl.BaseStats, prev, "level 1 of a common template is the base line")

	for level := 2; level <= tpl.MaxLevel; level++ {
		stats := progression.StatsAtLevel(tpl, level)
		for name, value := range stats {
			assert.GreaterOrEqual(t, value, prev[name], "stat %s at level %d", name, level)
		}
		prev = stats
	}
}

func TestStatsAtLevelAppliesEvolutionBoosts(t *testing.T) {
	tpl := mustTemplate(t, "cinderpup")

	// Crossing the first evolution threshold at 13 jumps the stats beyond
	// plain growth.
	at12 := progression.StatsAtLevel(tpl, 12)
	at13 := progression.StatsAtLevel(tpl, 13)

	growth := float64(at12[catalog.StatHealth]) * 1.13 // minor evolution boost
	assert.GreaterOrEqual(t, float64(at13[catalog.StatHealth]), growth*0.95,
		"the evolution boost compounds on top of growth")

	// Above the second threshold both boosts apply.
	at21 := progression.StatsAtLevel(tpl, 21)
	assert.Greater(t, at21[catalog.StatAttack], at13[catalog.StatAttack])
}

func TestStatsAtLevelClampsToMaxLevel(t *testing.T) {
	tpl := mustTemplate(t, "cinderpup")
	assert.Equal(t, progression.StatsAtLevel(tpl, tpl.MaxLevel), progression.StatsAtLevel(tpl, tpl.MaxLevel+50))
	assert.Equal(t, progression.StatsAtLevel(tpl, 1), progression.StatsAtLevel(tpl, -3))
}

func TestDisplayName(t *testing.T) {
	tpl := mustTemplate(t, "cinderpup")

	assert.Equal(t, "Cinderpup", progression.DisplayName(tpl, 1))
	assert.Equal(t, "Cinderpup", progression.DisplayName(tpl, 12))
	assert.Equal(t, "Cinderhound", progression.DisplayName(tpl, 13))
	assert.Equal(t, "Cinderhound", progression.DisplayName(tpl, 20))
	assert.Equal(t, "Infernowolf", progression.DisplayName(tpl, 21), "the highest cleared threshold wins")
	assert.Equal(t, "Infernowolf", progression.DisplayName(tpl, 34))
}

func TestUnlockedAbilitiesByLevel(t *testing.T) {
	tpl := mustTemplate(t, "cinderpup")

	inst := &entities.Instance{TemplateID: tpl.ID, Level: 1}
	abilities := progression.UnlockedAbilities(tpl, inst)
	require.Len(t, abilities, 1)
	assert.Equal(t, "ember_bite", abilities[0].ID)

	inst.Level = 5
	assert.Len(t, progression.UnlockedAbilities(tpl, inst), 2)

	inst.Level = 13
	assert.Len(t, progression.UnlockedAbilities(tpl, inst), 3)
}

func TestUnlockedAbilitiesByAffinity(t *testing.T) {
	tpl := mustTemplate(t, "ember_sage")

	// Allies key off affinity; a high level with no affinity unlocks
	// nothing past the first ability.
	inst := &entities.Instance{TemplateID: tpl.ID, Level: 30, Affinity: 1}
	assert.Len(t, progression.UnlockedAbilities(tpl, inst), 1)

	inst.Affinity = 5
	assert.Len(t, progression.UnlockedAbilities(tpl, inst), 2)

	inst.Affinity = 13
	assert.Len(t, progression.UnlockedAbilities(tpl, inst), 3)
}

func TestGrantAffinity(t *testing.T) {
	inst := &entities.Instance{TemplateID: "ember_sage", Level: 1, Affinity: 2}

	affinity, err := progression.GrantAffinity(inst, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, affinity)

	_, err = progression.GrantAffinity(inst, -1)
	assert.True(t, errors.IsInvalidArgument(err))
	assert.Equal(t, 5, inst.Affinity)
}

func TestEffectiveness(t *testing.T) {
	tests := []struct {
		name     string
		attacker catalog.Element
		defender catalog.Element
		want     float64
	}{
		{"advantage", catalog.ElementFire, catalog.ElementEarth, 1.5},
		{"resisted", catalog.ElementFire, catalog.ElementWater, 0.5},
		{"neutral pairing", catalog.ElementFire, catalog.ElementLight, 1.0},
		{"reverse pairing reads its own row", catalog.ElementEarth, catalog.ElementFire, 0.5},
		{"one-way matchup stays neutral reversed", catalog.ElementEarth, catalog.ElementWater, 1.0},
		{"mutual advantage", catalog.ElementLight, catalog.ElementShadow, 1.5},
		{"unknown element", "void", catalog.ElementFire, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, progression.Effectiveness(tt.attacker, tt.defender), 1e-9)
		})
	}
}
