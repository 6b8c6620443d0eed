// Package session implements the player session orchestrator. A Session is
// the explicit handle to one player's loaded state: it loads the shop state
// and roster once at start, routes every operation through the engines,
// persists best-effort after each successful mutation, and publishes a
// change event per mutation. Nothing in this package is reachable through
// package-level mutable state; all access goes through the handle.
package session

import (
	"context"
	"log/slog"

	"github.com/lunarpine/menagerie-api/internal/catalog"
	"github.com/lunarpine/menagerie-api/internal/engine/economy"
	"github.com/lunarpine/menagerie-api/internal/engine/equipment"
	"github.com/lunarpine/menagerie-api/internal/engine/progression"
	"github.com/lunarpine/menagerie-api/internal/entities"
	"github.com/lunarpine/menagerie-api/internal/errors"
	"github.com/lunarpine/menagerie-api/internal/events"
	"github.com/lunarpine/menagerie-api/internal/pkg/clock"
	"github.com/lunarpine/menagerie-api/internal/pkg/idgen"
	playerstaterepo "github.com/lunarpine/menagerie-api/internal/repositories/playerstate"
	rosterrepo "github.com/lunarpine/menagerie-api/internal/repositories/roster"
	"github.com/lunarpine/menagerie-api/internal/unlock"
)

// Config holds the dependencies for the session orchestrator
type Config struct {
	PlayerStateRepo playerstaterepo.Repository
	RosterRepo      rosterrepo.Repository
	EventBus        events.Bus
	Clock           clock.Clock
	IDGenerator     idgen.Generator
	// Ecosystem supplies the current token supply figures used for
	// pricing. Zero values price everything at the floor.
	Ecosystem economy.EcosystemState
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.PlayerStateRepo == nil {
		vb.RequiredField("PlayerStateRepo")
	}
	if c.RosterRepo == nil {
		vb.RequiredField("RosterRepo")
	}
	if c.EventBus == nil {
		vb.RequiredField("EventBus")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}

	return vb.Build()
}

// Orchestrator opens player sessions
type Orchestrator struct {
	playerStateRepo playerstaterepo.Repository
	rosterRepo      rosterrepo.Repository
	eventBus        events.Bus
	clock           clock.Clock
	idGen           idgen.Generator
	ecosystem       economy.EcosystemState
}

// New creates a new session orchestrator
func New(cfg *Config) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Orchestrator{
		playerStateRepo: cfg.PlayerStateRepo,
		rosterRepo:      cfg.RosterRepo,
		eventBus:        cfg.EventBus,
		clock:           cfg.Clock,
		idGen:           cfg.IDGenerator,
		ecosystem:       cfg.Ecosystem,
	}, nil
}

// Session is one player's live state handle. Operations are synchronous
// and expect a single caller at a time; independent players get
// independent sessions and share nothing.
type Session struct {
	o        *Orchestrator
	playerID string
	state    *entities.ShopState
	roster   *entities.Roster
	reset    bool
}

// Start loads the player's state and roster and returns the session
// handle. A corrupt stored record is replaced with the default state, not
// surfaced as an error; GetState reports the reset.
func (o *Orchestrator) Start(ctx context.Context, playerID string) (*Session, error) {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("playerID", playerID, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	stateOut, err := o.playerStateRepo.Get(ctx, playerstaterepo.GetInput{PlayerID: playerID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load player state")
	}

	rosterOut, err := o.rosterRepo.Get(ctx, rosterrepo.GetInput{PlayerID: playerID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load roster")
	}

	sess := &Session{
		o:        o,
		playerID: playerID,
		state:    stateOut.State,
		roster:   rosterOut.Roster,
		reset:    stateOut.Reset,
	}

	if stateOut.Reset {
		sess.publish(events.Event{Type: events.TypeStateReset})
	}
	sess.publish(events.Event{Type: events.TypeStateLoaded})

	return sess, nil
}

// PlayerID returns the session's player id.
func (s *Session) PlayerID() string {
	return s.playerID
}

// GetState returns a copy of the session's shop state.
func (s *Session) GetState(ctx context.Context) (*GetStateOutput, error) {
	return &GetStateOutput{State: s.state.Clone(), Reset: s.reset}, nil
}

// GetBonuses recomputes the aggregated equipment bonuses from scratch.
func (s *Session) GetBonuses(ctx context.Context) (*GetBonusesOutput, error) {
	return &GetBonusesOutput{Bonuses: equipment.Recalculate(s.state.Equipped)}, nil
}

// GetEffectiveStats returns a roster instance's stats at its current
// level with the flat equipment bonuses merged in. An empty template id
// reads the companion.
func (s *Session) GetEffectiveStats(ctx context.Context, input *GetEffectiveStatsInput) (*GetEffectiveStatsOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	templateID := input.TemplateID
	if templateID == "" {
		companion := s.roster.Companion()
		if companion == nil {
			return nil, errors.FailedPrecondition("your roster is empty")
		}
		templateID = companion.TemplateID
	}

	inst, tpl, err := s.instance(templateID)
	if err != nil {
		return nil, err
	}

	base := progression.StatsAtLevel(tpl, inst.Level)
	bonuses := equipment.Recalculate(s.state.Equipped)

	stats := make(map[string]int, len(base)+len(bonuses.Stats))
	for stat, value := range base {
		stats[stat] = value
	}
	for stat, value := range bonuses.Stats {
		stats[stat] += value
	}

	return &GetEffectiveStatsOutput{
		TemplateID: templateID,
		Level:      inst.Level,
		Base:       base,
		Bonuses:    bonuses,
		Stats:      stats,
	}, nil
}

// Equip places an owned item in its slot. The equipment level gate checks
// against the highest level in the roster.
func (s *Session) Equip(ctx context.Context, input *EquipInput) (*EquipOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	previous, err := equipment.Equip(s.state, s.roster.HighestLevel(), input.ItemID)
	if err != nil {
		return &EquipOutput{Result: failure(errors.GetMessage(err))}, nil
	}

	item, _ := catalog.Item(input.ItemID)
	s.touch()
	s.persistState(ctx)
	s.publish(events.Event{
		Type:    events.TypeEquipped,
		Slot:    item.Slot,
		OldItem: previous,
		NewItem: input.ItemID,
	})

	return &EquipOutput{
		Result:       success(),
		Slot:         item.Slot,
		PreviousItem: previous,
		Bonuses:      equipment.Recalculate(s.state.Equipped),
	}, nil
}

// Unequip clears a slot.
func (s *Session) Unequip(ctx context.Context, input *UnequipInput) (*UnequipOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	itemID, err := equipment.Unequip(s.state, input.Slot)
	if err != nil {
		return &UnequipOutput{Result: failure(errors.GetMessage(err))}, nil
	}

	s.touch()
	s.persistState(ctx)
	s.publish(events.Event{
		Type:    events.TypeUnequipped,
		Slot:    input.Slot,
		OldItem: itemID,
	})

	return &UnequipOutput{
		Result:  success(),
		ItemID:  itemID,
		Bonuses: equipment.Recalculate(s.state.Equipped),
	}, nil
}

// CanPurchase checks purchase eligibility without mutating anything.
func (s *Session) CanPurchase(ctx context.Context, input *CanPurchaseInput) (*CanPurchaseOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	quote, err := economy.CanPurchase(s.state, input.ItemID, input.StandingTier, input.Balance, s.o.ecosystem)
	if err != nil {
		return &CanPurchaseOutput{Allowed: false, Reason: errors.GetMessage(err)}, nil
	}

	return &CanPurchaseOutput{Allowed: true, Price: quote.Price}, nil
}

// Purchase buys a listed item. Eligibility is re-validated here regardless
// of any prior CanPurchase result; standing and balance may have moved in
// between. A successful purchase grants the listing's experience reward to
// the companion.
func (s *Session) Purchase(ctx context.Context, input *PurchaseInput) (*PurchaseOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	quote, err := economy.CanPurchase(s.state, input.ItemID, input.StandingTier, input.Balance, s.o.ecosystem)
	if err != nil {
		return &PurchaseOutput{Result: failure(errors.GetMessage(err))}, nil
	}

	now := s.o.clock.Now()
	s.state.AddToInventory(quote.Item.ID)
	s.state.TotalSpent += quote.Price
	s.state.RecordPurchase(entities.PurchaseRecord{
		ID:        s.o.idGen.Generate(),
		ItemID:    quote.Item.ID,
		Price:     quote.Price,
		Timestamp: now,
	})
	s.state.UpdatedAt = now

	out := &PurchaseOutput{
		Result: success(),
		Item:   quote.Item,
		Price:  quote.Price,
	}

	if companion := s.roster.Companion(); companion != nil && quote.Listing.XPReward > 0 {
		if tpl, ok := catalog.Template(companion.TemplateID); ok {
			change, grantErr := progression.GrantExperience(companion, tpl, quote.Listing.XPReward)
			if grantErr == nil {
				out.XPGained = quote.Listing.XPReward
				out.LevelChange = change
				s.persistRoster(ctx)
			}
		}
	}

	s.persistState(ctx)
	s.publish(events.Event{
		Type:     events.TypePurchased,
		ItemID:   quote.Item.ID,
		Price:    quote.Price,
		Amount:   out.XPGained,
		OldLevel: out.LevelChange.OldLevel,
		NewLevel: out.LevelChange.NewLevel,
	})

	return out, nil
}

// CanCraft checks material availability for a recipe.
func (s *Session) CanCraft(ctx context.Context, input *CanCraftInput) (*CanCraftOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	_, shortfalls, err := equipment.CanCraft(s.state, input.RecipeID)
	if err != nil {
		return &CanCraftOutput{Craftable: false, Reason: errors.GetMessage(err)}, nil
	}
	if len(shortfalls) > 0 {
		return &CanCraftOutput{Craftable: false, Reason: "missing materials", Shortfalls: shortfalls}, nil
	}

	return &CanCraftOutput{Craftable: true}, nil
}

// Craft consumes a recipe's materials and adds the result to the
// inventory. Nothing is consumed on a shortfall.
func (s *Session) Craft(ctx context.Context, input *CraftInput) (*CraftOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	item, err := equipment.Craft(s.state, input.RecipeID)
	if err != nil {
		out := &CraftOutput{Result: failure(errors.GetMessage(err))}
		if meta := errors.GetMeta(err); meta != nil {
			if sf, ok := meta["shortfalls"].([]equipment.Shortfall); ok {
				out.Shortfalls = sf
			}
		}
		return out, nil
	}

	s.touch()
	s.persistState(ctx)
	s.publish(events.Event{
		Type:   events.TypeCrafted,
		ItemID: item.ID,
	})

	return &CraftOutput{Result: success(), Item: item}, nil
}

// AddMaterial credits crafting materials to the session's wallet.
func (s *Session) AddMaterial(ctx context.Context, input *AddMaterialInput) (*AddMaterialOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Material == "" {
		return nil, errors.InvalidArgument("material is required")
	}
	if input.Quantity <= 0 {
		return nil, errors.InvalidArgumentf("quantity must be positive, got %d", input.Quantity)
	}

	s.state.Materials[input.Material] += input.Quantity
	s.touch()
	s.persistState(ctx)
	s.publish(events.Event{
		Type:   events.TypeMaterial,
		ItemID: input.Material,
		Amount: int64(input.Quantity),
	})

	return &AddMaterialOutput{Result: success(), NewQuantity: s.state.Materials[input.Material]}, nil
}

// GrantItem adds a catalog item to the inventory without a purchase, for
// quest rewards and promotions. Granting an owned item is a no-op success.
func (s *Session) GrantItem(ctx context.Context, input *GrantItemInput) (*GrantItemOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	if _, ok := catalog.Item(input.ItemID); !ok {
		return &GrantItemOutput{Result: failure("unknown item " + input.ItemID)}, nil
	}
	if s.state.Owns(input.ItemID) {
		return &GrantItemOutput{Result: success()}, nil
	}

	s.state.AddToInventory(input.ItemID)
	s.touch()
	s.persistState(ctx)
	s.publish(events.Event{
		Type:   events.TypeItemGranted,
		ItemID: input.ItemID,
	})

	return &GrantItemOutput{Result: success()}, nil
}

// CheckUnlock evaluates a template's unlock condition against the
// caller-supplied snapshot.
func (s *Session) CheckUnlock(ctx context.Context, input *CheckUnlockInput) (*CheckUnlockOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	tpl, ok := catalog.Template(input.TemplateID)
	if !ok {
		return nil, errors.NotFoundf("unknown template %q", input.TemplateID)
	}

	unlocked, reason := unlock.Evaluate(tpl.Unlock, input.Snapshot)
	return &CheckUnlockOutput{Unlocked: unlocked, Reason: reason}, nil
}

// AddCreature adds a template's instance to the roster once its unlock
// condition passes. The first instance added becomes the companion.
func (s *Session) AddCreature(ctx context.Context, input *AddCreatureInput) (*AddCreatureOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	tpl, ok := catalog.Template(input.TemplateID)
	if !ok {
		return &AddCreatureOutput{Result: failure("unknown template " + input.TemplateID)}, nil
	}
	if _, exists := s.roster.Instances[tpl.ID]; exists {
		return &AddCreatureOutput{Result: failure(tpl.Name + " is already in your roster")}, nil
	}

	if unlocked, reason := unlock.Evaluate(tpl.Unlock, input.Snapshot); !unlocked {
		return &AddCreatureOutput{Result: failure(reason)}, nil
	}

	inst := s.roster.Add(tpl.ID)
	s.persistRoster(ctx)
	s.publish(events.Event{
		Type:     events.TypeRosterGrown,
		ItemID:   tpl.ID,
		NewLevel: inst.Level,
	})

	cp := *inst
	return &AddCreatureOutput{Result: success(), Instance: &cp}, nil
}

// GrantExperience adds experience to a roster instance and reports any
// level change.
func (s *Session) GrantExperience(ctx context.Context, input *GrantExperienceInput) (*GrantExperienceOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	inst, tpl, err := s.instance(input.TemplateID)
	if err != nil {
		return &GrantExperienceOutput{Result: failure(errors.GetMessage(err))}, nil
	}

	change, err := progression.GrantExperience(inst, tpl, input.Amount)
	if err != nil {
		return nil, err
	}

	s.persistRoster(ctx)
	s.publish(events.Event{
		Type:     events.TypeExperience,
		ItemID:   tpl.ID,
		Amount:   input.Amount,
		OldLevel: change.OldLevel,
		NewLevel: change.NewLevel,
	})

	return &GrantExperienceOutput{
		Result:      success(),
		LevelChange: change,
		Abilities:   progression.UnlockedAbilities(tpl, inst),
	}, nil
}

// GrantAffinity raises an ally's affinity, driving affinity-gated ability
// unlocks.
func (s *Session) GrantAffinity(ctx context.Context, input *GrantAffinityInput) (*GrantAffinityOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	inst, tpl, err := s.instance(input.TemplateID)
	if err != nil {
		return &GrantAffinityOutput{Result: failure(errors.GetMessage(err))}, nil
	}
	if tpl.Kind != catalog.KindAlly {
		return &GrantAffinityOutput{Result: failure(tpl.Name + " is not an ally")}, nil
	}

	affinity, err := progression.GrantAffinity(inst, input.Amount)
	if err != nil {
		return nil, err
	}

	s.persistRoster(ctx)
	s.publish(events.Event{
		Type:   events.TypeAffinity,
		ItemID: tpl.ID,
		Amount: int64(input.Amount),
	})

	return &GrantAffinityOutput{
		Result:    success(),
		Affinity:  affinity,
		Abilities: progression.UnlockedAbilities(tpl, inst),
	}, nil
}

// GetRoster lists every roster instance with its derived stats, display
// name, and available abilities.
func (s *Session) GetRoster(ctx context.Context) (*GetRosterOutput, error) {
	out := &GetRosterOutput{}
	for id, inst := range s.roster.Instances {
		tpl, ok := catalog.Template(id)
		if !ok {
			continue
		}
		out.Entries = append(out.Entries, RosterEntry{
			TemplateID: id,
			Name:       progression.DisplayName(tpl, inst.Level),
			Kind:       tpl.Kind,
			Element:    tpl.Element,
			Level:      inst.Level,
			Experience: inst.Experience,
			Affinity:   inst.Affinity,
			Stats:      progression.StatsAtLevel(tpl, inst.Level),
			Abilities:  progression.UnlockedAbilities(tpl, inst),
			Companion:  id == s.roster.CompanionID,
		})
	}
	return out, nil
}

// GetEffectiveness returns the directional type-chart multiplier.
func (s *Session) GetEffectiveness(ctx context.Context, input *GetEffectivenessInput) (*GetEffectivenessOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	return &GetEffectivenessOutput{Multiplier: progression.Effectiveness(input.Attacker, input.Defender)}, nil
}

func (s *Session) instance(templateID string) (*entities.Instance, catalog.TemplateDef, error) {
	tpl, ok := catalog.Template(templateID)
	if !ok {
		return nil, catalog.TemplateDef{}, errors.NotFoundf("unknown template %q", templateID)
	}
	inst, ok := s.roster.Instances[templateID]
	if !ok {
		return nil, catalog.TemplateDef{}, errors.FailedPreconditionf("%s is not in your roster", tpl.Name)
	}
	return inst, tpl, nil
}

func (s *Session) touch() {
	s.state.UpdatedAt = s.o.clock.Now()
}

// persistState saves after a successful mutation. Failures are logged and
// swallowed; the in-memory state stays authoritative and is never rolled
// back.
func (s *Session) persistState(ctx context.Context) {
	if _, err := s.o.playerStateRepo.Save(ctx, playerstaterepo.SaveInput{State: s.state}); err != nil {
		slog.Warn("failed to persist player state",
			"player_id", s.playerID,
			"error", err)
	}
}

func (s *Session) persistRoster(ctx context.Context) {
	if _, err := s.o.rosterRepo.Save(ctx, rosterrepo.SaveInput{Roster: s.roster}); err != nil {
		slog.Warn("failed to persist roster",
			"player_id", s.playerID,
			"error", err)
	}
}

func (s *Session) publish(event events.Event) {
	event.ID = s.o.idGen.Generate()
	event.PlayerID = s.playerID
	event.At = s.o.clock.Now()
	s.o.eventBus.Publish(event)
}
