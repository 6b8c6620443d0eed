package session

import (
	"github.com/lunarpine/menagerie-api/internal/catalog"
	"github.com/lunarpine/menagerie-api/internal/engine/equipment"
	"github.com/lunarpine/menagerie-api/internal/engine/progression"
	"github.com/lunarpine/menagerie-api/internal/entities"
	"github.com/lunarpine/menagerie-api/internal/unlock"
)

// Result is embedded in every mutating operation's output. Domain rule
// failures (unknown item, unmet level gate, insufficient balance) come back
// as Success=false with a display-ready Message and a nil error; a non-nil
// error from a session method always means infrastructure or misuse.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func failure(msg string) Result {
	return Result{Success: false, Message: msg}
}

func success() Result {
	return Result{Success: true}
}

// EquipInput defines the request for equipping an owned item
type EquipInput struct {
	ItemID string
}

// EquipOutput defines the response for equipping an item
type EquipOutput struct {
	Result
	Slot catalog.Slot
	// PreviousItem is the item the equip displaced, if any.
	PreviousItem string
	Bonuses      *equipment.Bonuses
}

// UnequipInput defines the request for clearing a slot
type UnequipInput struct {
	Slot catalog.Slot
}

// UnequipOutput defines the response for clearing a slot
type UnequipOutput struct {
	Result
	ItemID  string
	Bonuses *equipment.Bonuses
}

// GetBonusesOutput defines the response for the aggregated equipment
// bonuses
type GetBonusesOutput struct {
	Bonuses *equipment.Bonuses
}

// GetEffectiveStatsInput selects the roster instance to read. An empty
// TemplateID reads the companion.
type GetEffectiveStatsInput struct {
	TemplateID string
}

// GetEffectiveStatsOutput carries the merged stat view for one instance:
// its level-derived base stats with the flat equipment bonuses added.
type GetEffectiveStatsOutput struct {
	TemplateID string
	Level      int
	// Base holds the instance's stats at its current level, before
	// equipment.
	Base map[string]int
	// Bonuses is the equipment aggregation that was merged in.
	Bonuses *equipment.Bonuses
	// Stats is Base plus Bonuses.Stats per stat.
	Stats map[string]int
}

// CanPurchaseInput defines the request for a purchase eligibility check
type CanPurchaseInput struct {
	ItemID       string
	StandingTier int
	Balance      int64
}

// CanPurchaseOutput defines the response for a purchase eligibility check
type CanPurchaseOutput struct {
	Allowed bool
	// Reason names the first failing check; empty when allowed.
	Reason string
	Price  int64
}

// PurchaseInput defines the request for buying a listed item
type PurchaseInput struct {
	ItemID       string
	StandingTier int
	Balance      int64
}

// PurchaseOutput defines the response for buying a listed item
type PurchaseOutput struct {
	Result
	Item  catalog.ItemDef
	Price int64
	// XPGained is the experience granted to the companion, zero when the
	// roster is empty.
	XPGained    int64
	LevelChange progression.LevelChange
}

// CanCraftInput defines the request for a craft feasibility check
type CanCraftInput struct {
	RecipeID string
}

// CanCraftOutput defines the response for a craft feasibility check
type CanCraftOutput struct {
	Craftable bool
	Reason    string
	// Shortfalls itemizes missing materials; empty when craftable.
	Shortfalls []equipment.Shortfall
}

// CraftInput defines the request for crafting a recipe
type CraftInput struct {
	RecipeID string
}

// CraftOutput defines the response for crafting a recipe
type CraftOutput struct {
	Result
	Item       catalog.ItemDef
	Shortfalls []equipment.Shortfall
}

// AddMaterialInput defines the request for adding crafting materials
type AddMaterialInput struct {
	Material string
	Quantity int
}

// AddMaterialOutput defines the response for adding crafting materials
type AddMaterialOutput struct {
	Result
	NewQuantity int
}

// GrantItemInput defines the request for granting an item outside the shop
// (quest rewards, promotions)
type GrantItemInput struct {
	ItemID string
}

// GrantItemOutput defines the response for granting an item
type GrantItemOutput struct {
	Result
}

// AddCreatureInput defines the request for adding a creature or ally to
// the roster
type AddCreatureInput struct {
	TemplateID string
	// Snapshot carries the unlock-relevant slice of player state supplied
	// by the caller.
	Snapshot unlock.Snapshot
}

// AddCreatureOutput defines the response for adding to the roster
type AddCreatureOutput struct {
	Result
	Instance *entities.Instance
}

// CheckUnlockInput defines the request for evaluating a template's unlock
// condition
type CheckUnlockInput struct {
	TemplateID string
	Snapshot   unlock.Snapshot
}

// CheckUnlockOutput defines the response for an unlock evaluation
type CheckUnlockOutput struct {
	Unlocked bool
	Reason   string
}

// GrantExperienceInput defines the request for granting experience to a
// roster instance
type GrantExperienceInput struct {
	TemplateID string
	Amount     int64
}

// GrantExperienceOutput defines the response for an experience grant
type GrantExperienceOutput struct {
	Result
	LevelChange progression.LevelChange
	// Abilities lists everything available after the grant.
	Abilities []catalog.AbilityDef
}

// GrantAffinityInput defines the request for raising an ally's affinity
type GrantAffinityInput struct {
	TemplateID string
	Amount     int
}

// GrantAffinityOutput defines the response for an affinity grant
type GrantAffinityOutput struct {
	Result
	Affinity  int
	Abilities []catalog.AbilityDef
}

// RosterEntry is one roster instance with its derived presentation fields.
type RosterEntry struct {
	TemplateID string
	// Name is the display name for the instance's current evolution tier.
	Name       string
	Kind       catalog.TemplateKind
	Element    catalog.Element
	Level      int
	Experience int64
	Affinity   int
	// Stats are the instance's effective stats at its current level.
	Stats     map[string]int
	Abilities []catalog.AbilityDef
	Companion bool
}

// GetRosterOutput defines the response for listing the roster
type GetRosterOutput struct {
	Entries []RosterEntry
}

// GetEffectivenessInput defines the request for a type-chart lookup
type GetEffectivenessInput struct {
	Attacker catalog.Element
	Defender catalog.Element
}

// GetEffectivenessOutput defines the response for a type-chart lookup
type GetEffectivenessOutput struct {
	Multiplier float64
}

// GetStateOutput defines the response for inspecting the session's state
type GetStateOutput struct {
	State *entities.ShopState
	// Reset reports that the stored record was discarded at load time for
	// failing validation or the tamper check.
	Reset bool
}
