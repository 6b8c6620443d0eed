// Package balance provides the deterministic balancing sequence that every
// derived number in the game economy comes from. Multipliers, thresholds,
// prices, and rewards are all expressed as a term of this sequence times a
// scalar, so rebalancing the whole economy means editing one table.
package balance

import "sync"

// Named indices into the sequence. Everything downstream refers to these
// rather than raw integers so a rebalance is a one-line change.
const (
	// Set-bonus piece thresholds.
	IdxSetPair = 3 // 2 pieces
	IdxSetTrio = 4 // 3 pieces
	IdxSetFull = 5 // 5 pieces

	// Rarity stat multipliers, as percent points over 100.
	IdxRarityUncommon  = 6 // +8%
	IdxRarityRare      = 7 // +13%
	IdxRarityEpic      = 8 // +21%
	IdxRarityLegendary = 9 // +34%

	// Per-stat growth rates, as percent points over 100.
	IdxGrowthSpeed   = 4 // +3%
	IdxGrowthDefense = 5 // +5%
	IdxGrowthAttack  = 6 // +8%
	IdxGrowthHealth  = 7 // +13%

	// Evolution boosts, as percent points over 100.
	IdxEvolutionMinor = 7 // +13%
	IdxEvolutionMajor = 8 // +21%

	// Purchase-history retention cap.
	IdxHistoryCap = 8 // 21 records

	// Pricing. Listing price tiers index the sequence at tier+IdxPriceBase.
	IdxPriceBase     = 9
	IdxInitialSupply = 30 // times supplyScalar below

	// Standing-tier discounts, as percent points. Tier t discounts by
	// ValueAt(t+IdxDiscountBase) percent.
	IdxDiscountBase = 2

	// Experience thresholds. Reaching level L costs ValueAt(L+IdxXPBase)
	// times the XP scalar in cumulative experience.
	IdxXPBase = 4
)

const tableSize = 32

var (
	mu    sync.Mutex
	table = seedTable()
)

func seedTable() []int64 {
	t := make([]int64, tableSize)
	t[0], t[1] = 0, 1
	for i := 2; i < tableSize; i++ {
		t[i] = t[i-1] + t[i-2]
	}
	return t
}

// ValueAt returns the n-th term of the balancing sequence. Indices inside
// the precomputed table are direct lookups; larger indices extend the table
// iteratively from its tail. The table is append-only, so a term returned
// once never changes. Negative indices return 0.
func ValueAt(n int) int64 {
	if n < 0 {
		return 0
	}

	mu.Lock()
	defer mu.Unlock()

	for n >= len(table) {
		table = append(table, table[len(table)-1]+table[len(table)-2])
	}
	return table[n]
}

// Percent interprets the n-th term as percent points over a base of 100
// and returns it as a multiplier, e.g. ValueAt(6)=8 yields 1.08.
func Percent(n int) float64 {
	return 1 + float64(ValueAt(n))/100
}

// PercentOff interprets the n-th term as a percent discount and returns the
// price multiplier after applying it, e.g. ValueAt(7)=13 yields 0.87.
func PercentOff(n int) float64 {
	return 1 - float64(ValueAt(n))/100
}
