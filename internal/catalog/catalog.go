// Package catalog holds the static game definitions: equipment items and
// sets, creature and ally templates, craft recipes, shop listings, the
// rarity table, and the elemental type chart. All tables are built once at
// package init and never mutated afterwards; lookups hand out copies so
// callers cannot reach into the shared data. The one runtime-writable
// surface is the crafted-item overlay in registry.go.
package catalog

import "regexp"

// DefaultItemID is the base skin every player owns without a purchase.
// It is deliberately absent from the item table: it cannot be equipped,
// priced, or crafted, and persistence validation exempts it by name.
const DefaultItemID = "default"

// Slot identifies an equipment slot.
type Slot string

// The fixed slot set.
const (
	SlotHead      Slot = "head"
	SlotBody      Slot = "body"
	SlotHands     Slot = "hands"
	SlotFeet      Slot = "feet"
	SlotAccessory Slot = "accessory"
)

// Slots returns the fixed slot set in display order.
func Slots() []Slot {
	return []Slot{SlotHead, SlotBody, SlotHands, SlotFeet, SlotAccessory}
}

// ValidSlot reports whether s is a recognized equipment slot.
func ValidSlot(s Slot) bool {
	switch s {
	case SlotHead, SlotBody, SlotHands, SlotFeet, SlotAccessory:
		return true
	}
	return false
}

// Stat names used in base stat maps and bonus accumulation.
const (
	StatAttack  = "attack"
	StatDefense = "defense"
	StatHealth  = "health"
	StatSpeed   = "speed"
)

var idPattern = regexp.MustCompile(`^[a-z0-9_]{1,64}$`)

// ValidID reports whether id matches the strict identifier pattern used to
// guard operations against malformed external input.
func ValidID(id string) bool {
	return idPattern.MatchString(id)
}

// Item returns the item definition for id, consulting the base table first
// and the crafted-item overlay second. The returned struct is a copy.
func Item(id string) (ItemDef, bool) {
	if def, ok := items[id]; ok {
		return def.clone(), true
	}
	return craftedItem(id)
}

// Set returns the equipment set definition for id.
func Set(id string) (SetDef, bool) {
	def, ok := sets[id]
	if !ok {
		return SetDef{}, false
	}
	return def.clone(), true
}

// Template returns the creature or ally template for id.
func Template(id string) (TemplateDef, bool) {
	def, ok := templates[id]
	if !ok {
		return TemplateDef{}, false
	}
	return def.clone(), true
}

// Recipe returns the craft recipe for id.
func Recipe(id string) (RecipeDef, bool) {
	def, ok := recipes[id]
	if !ok {
		return RecipeDef{}, false
	}
	return def.clone(), true
}

// Listing returns the shop listing for an item id.
func Listing(itemID string) (ListingDef, bool) {
	def, ok := listings[itemID]
	return def, ok
}

// Listings returns all shop listings in catalog order.
func Listings() []ListingDef {
	out := make([]ListingDef, len(listingOrder))
	for i, id := range listingOrder {
		out[i] = listings[id]
	}
	return out
}

func cloneStats(m map[string]int) map[string]int {
	if m == nil {
		return nil
	}
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
