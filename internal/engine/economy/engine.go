// Package economy implements pricing and purchase eligibility. Prices are
// derived from balancing-sequence terms scaled by the ecosystem's current
// circulating supply: as supply shrinks through burns elsewhere, every
// price shrinks with it. Standing-tier discounts are an independent second
// scaling. Nothing here mutates player state; purchases are orchestrated
// by the session.
package economy

import (
	"github.com/lunarpine/menagerie-api/internal/balance"
	"github.com/lunarpine/menagerie-api/internal/catalog"
	"github.com/lunarpine/menagerie-api/internal/entities"
	"github.com/lunarpine/menagerie-api/internal/errors"
)

// EcosystemState carries the externally supplied supply figures. It is a
// read-only input, never persisted by this core.
type EcosystemState struct {
	CirculatingSupply int64
	TotalBurned       int64
}

const (
	priceScalar  = 10
	supplyScalar = 1000

	// MaxStandingTier bounds the discount schedule.
	MaxStandingTier = 5
)

// InitialSupply is the launch circulating supply all price scaling is
// relative to.
var InitialSupply = balance.ValueAt(balance.IdxInitialSupply) * supplyScalar

// BasePrice returns a listing tier's price at launch supply.
func BasePrice(priceTier int) int64 {
	return balance.ValueAt(priceTier+balance.IdxPriceBase) * priceScalar
}

// Price scales the tier's base price by currentSupply/InitialSupply using
// integer arithmetic. Supply above the initial figure never raises the
// price, and the price never drops below 1.
func Price(priceTier int, eco EcosystemState) int64 {
	supply := eco.CirculatingSupply
	if supply > InitialSupply {
		supply = InitialSupply
	}
	if supply < 0 {
		supply = 0
	}

	price := BasePrice(priceTier) * supply / InitialSupply
	if price < 1 {
		price = 1
	}
	return price
}

// DiscountPercent returns the percent discount a standing tier earns.
// Tier 0 (or below) earns nothing; tiers above MaxStandingTier earn the
// top rate.
func DiscountPercent(standingTier int) int64 {
	if standingTier <= 0 {
		return 0
	}
	if standingTier > MaxStandingTier {
		standingTier = MaxStandingTier
	}
	return balance.ValueAt(standingTier + balance.IdxDiscountBase)
}

// DiscountedPrice applies the standing-tier discount on top of the
// supply-scaled price.
func DiscountedPrice(priceTier, standingTier int, eco EcosystemState) int64 {
	price := Price(priceTier, eco)
	return price - price*DiscountPercent(standingTier)/100
}

// Quote is the priced listing a successful eligibility check returns.
type Quote struct {
	Listing catalog.ListingDef
	Item    catalog.ItemDef
	Price   int64
}

// CanPurchase validates purchase eligibility in order: the item must be
// listed, not already owned, within the player's standing tier, and
// affordable at the discounted price. Checks short-circuit: once one
// fails, later ones are not evaluated, so the reported reason is never
// misleading. A nil error means the purchase may proceed at Quote.Price.
func CanPurchase(state *entities.ShopState, itemID string, standingTier int, tokens int64, eco EcosystemState) (Quote, error) {
	if !catalog.ValidID(itemID) {
		return Quote{}, errors.InvalidArgumentf("malformed item id %q", itemID)
	}

	listing, ok := catalog.Listing(itemID)
	if !ok {
		return Quote{}, errors.NotFoundf("item %q is not for sale", itemID)
	}
	item, _ := catalog.Item(itemID)

	if state.Owns(itemID) {
		return Quote{}, errors.AlreadyExistsf("you already own %s", item.Name)
	}

	if standingTier < listing.RequiredStandingTier {
		return Quote{}, errors.PermissionDeniedf(
			"%s requires standing tier %d (currently %d)",
			item.Name, listing.RequiredStandingTier, standingTier).
			WithMeta("required_tier", listing.RequiredStandingTier)
	}

	price := DiscountedPrice(listing.PriceTier, standingTier, eco)
	if price > tokens {
		return Quote{}, errors.FailedPreconditionf(
			"insufficient balance: %s costs %d, you are short %d",
			item.Name, price, price-tokens).
			WithMeta("price", price).
			WithMeta("shortfall", price-tokens)
	}

	return Quote{Listing: listing, Item: item, Price: price}, nil
}
