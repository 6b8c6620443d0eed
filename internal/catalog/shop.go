package catalog

import (
	"fmt"

	"github.com/lunarpine/menagerie-api/internal/balance"
)

// ListingDef is a shop listing for a catalog item. PriceTier indexes the
// balancing sequence for the base price; RequiredStandingTier gates the
// purchase; XPReward is experience granted to the buyer's companion on a
// successful purchase.
type ListingDef struct {
	ItemID               string
	PriceTier            int
	RequiredStandingTier int
	XPReward             int64
}

// listingXPReward derives the purchase XP reward from the price tier.
func listingXPReward(priceTier int) int64 {
	return balance.ValueAt(priceTier+4) * 2
}

var listingList = []ListingDef{
	{ItemID: "iron_helm", PriceTier: 1},
	{ItemID: "leather_jerkin", PriceTier: 1},
	{ItemID: "worn_gloves", PriceTier: 1},
	{ItemID: "swift_sandals", PriceTier: 1},
	{ItemID: "lucky_charm", PriceTier: 2},
	{ItemID: "tide_helm", PriceTier: 2, RequiredStandingTier: 1},
	{ItemID: "tide_mail", PriceTier: 2, RequiredStandingTier: 1},
	{ItemID: "tide_fins", PriceTier: 2, RequiredStandingTier: 1},
	{ItemID: "stormcaller_gloves", PriceTier: 3, RequiredStandingTier: 1},
	{ItemID: "ember_crown", PriceTier: 3, RequiredStandingTier: 2},
	{ItemID: "ember_plate", PriceTier: 3, RequiredStandingTier: 2},
	{ItemID: "ember_gauntlets", PriceTier: 3, RequiredStandingTier: 2},
	{ItemID: "ember_greaves", PriceTier: 3, RequiredStandingTier: 2},
	{ItemID: "ember_sigil", PriceTier: 3, RequiredStandingTier: 2},
	{ItemID: "night_hood", PriceTier: 4, RequiredStandingTier: 3},
	{ItemID: "night_boots", PriceTier: 4, RequiredStandingTier: 3},
	{ItemID: "dragonfang_pendant", PriceTier: 5, RequiredStandingTier: 4},
}

var (
	listings     map[string]ListingDef
	listingOrder []string
)

func init() {
	listings = make(map[string]ListingDef, len(listingList))
	listingOrder = make([]string, 0, len(listingList))
	for _, def := range listingList {
		if _, ok := items[def.ItemID]; !ok {
			panic(fmt.Sprintf("catalog: listing references unknown item %q", def.ItemID))
		}
		if _, dup := listings[def.ItemID]; dup {
			panic(fmt.Sprintf("catalog: duplicate listing for item %q", def.ItemID))
		}
		def.XPReward = listingXPReward(def.PriceTier)
		listings[def.ItemID] = def
		listingOrder = append(listingOrder, def.ItemID)
	}
}
