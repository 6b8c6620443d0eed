package catalog

import "github.com/lunarpine/menagerie-api/internal/balance"

// Rarity is an item or creature rarity tier.
type Rarity string

// Rarity tiers, lowest to highest.
const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// RarityInfo describes how a rarity tier scales an entity.
type RarityInfo struct {
	// Multiplier scales base stats.
	Multiplier float64
	// BonusSlots is how many extra ability or effect slots the tier grants.
	BonusSlots int
}

var rarityTable = map[Rarity]RarityInfo{
	RarityCommon:    {Multiplier: 1.0, BonusSlots: 0},
	RarityUncommon:  {Multiplier: balance.Percent(balance.IdxRarityUncommon), BonusSlots: int(balance.ValueAt(1))},
	RarityRare:      {Multiplier: balance.Percent(balance.IdxRarityRare), BonusSlots: int(balance.ValueAt(2))},
	RarityEpic:      {Multiplier: balance.Percent(balance.IdxRarityEpic), BonusSlots: int(balance.ValueAt(3))},
	RarityLegendary: {Multiplier: balance.Percent(balance.IdxRarityLegendary), BonusSlots: int(balance.ValueAt(4))},
}

// RarityMultiplier returns the stat multiplier for a tier. Unknown tiers
// fall back to the common multiplier.
func RarityMultiplier(r Rarity) float64 {
	if info, ok := rarityTable[r]; ok {
		return info.Multiplier
	}
	return rarityTable[RarityCommon].Multiplier
}

// RarityBonusSlots returns the bonus slot count for a tier.
func RarityBonusSlots(r Rarity) int {
	if info, ok := rarityTable[r]; ok {
		return info.BonusSlots
	}
	return 0
}
