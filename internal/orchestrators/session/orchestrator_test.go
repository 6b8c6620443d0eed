package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/lunarpine/menagerie-api/internal/catalog"
	"github.com/lunarpine/menagerie-api/internal/engine/economy"
	"github.com/lunarpine/menagerie-api/internal/entities"
	"github.com/lunarpine/menagerie-api/internal/errors"
	"github.com/lunarpine/menagerie-api/internal/events"
	"github.com/lunarpine/menagerie-api/internal/orchestrators/session"
	"github.com/lunarpine/menagerie-api/internal/pkg/clock"
	"github.com/lunarpine/menagerie-api/internal/pkg/idgen"
	playerstaterepo "github.com/lunarpine/menagerie-api/internal/repositories/playerstate"
	playerstatemock "github.com/lunarpine/menagerie-api/internal/repositories/playerstate/mock"
	rosterrepo "github.com/lunarpine/menagerie-api/internal/repositories/roster"
	rostermock "github.com/lunarpine/menagerie-api/internal/repositories/roster/mock"
	"github.com/lunarpine/menagerie-api/internal/unlock"
)

type SessionTestSuite struct {
	suite.Suite
	stateRepo  *playerstaterepo.InMemoryRepository
	rosterRepo *rosterrepo.InMemoryRepository
	bus        events.Bus
	captured   []events.Event
	orch       *session.Orchestrator
	sess       *session.Session
	ctx        context.Context
	now        time.Time
}

func (s *SessionTestSuite) SetupTest() {
	s.stateRepo = playerstaterepo.NewInMemory()
	s.rosterRepo = rosterrepo.NewInMemory()
	s.bus = events.NewBus()
	s.captured = nil
	s.bus.Subscribe(func(e events.Event) { s.captured = append(s.captured, e) })
	s.ctx = context.Background()
	s.now = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

	orch, err := session.New(&session.Config{
		PlayerStateRepo: s.stateRepo,
		RosterRepo:      s.rosterRepo,
		EventBus:        s.bus,
		Clock:           clock.NewFixed(s.now),
		IDGenerator:     idgen.NewSequential("evt-"),
		Ecosystem:       economy.EcosystemState{CirculatingSupply: economy.InitialSupply},
	})
	s.Require().NoError(err)
	s.orch = orch

	sess, err := orch.Start(s.ctx, "player-1")
	s.Require().NoError(err)
	s.sess = sess
}

// lastEvent returns the most recently published event.
func (s *SessionTestSuite) lastEvent() events.Event {
	s.Require().NotEmpty(s.captured)
	return s.captured[len(s.captured)-1]
}

func (s *SessionTestSuite) TestConfigValidate() {
	_, err := session.New(&session.Config{})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *SessionTestSuite) TestStartPublishesLoaded() {
	s.Require().NotEmpty(s.captured)
	s.Equal(events.TypeStateLoaded, s.captured[0].Type)
	s.Equal("player-1", s.captured[0].PlayerID)
	s.NotEmpty(s.captured[0].ID)
	s.Equal(s.now, s.captured[0].At)
}

func (s *SessionTestSuite) TestStartEmptyPlayerID() {
	_, err := s.orch.Start(s.ctx, "")
	s.True(errors.IsInvalidArgument(err))
}

func (s *SessionTestSuite) TestGetStateReturnsCopy() {
	out, err := s.sess.GetState(s.ctx)
	s.Require().NoError(err)
	s.False(out.Reset)

	out.State.TotalSpent = 999
	again, err := s.sess.GetState(s.ctx)
	s.Require().NoError(err)
	s.Zero(again.State.TotalSpent)
}

func (s *SessionTestSuite) TestEquip() {
	s.grantItem("iron_helm")

	out, err := s.sess.Equip(s.ctx, &session.EquipInput{ItemID: "iron_helm"})
	s.Require().NoError(err)
	s.True(out.Result.Success)
	s.Equal(catalog.SlotHead, out.Slot)
	s.Empty(out.PreviousItem)

	ev := s.lastEvent()
	s.Equal(events.TypeEquipped, ev.Type)
	s.Equal("iron_helm", ev.NewItem)

	// The mutation reached the repository.
	stored, err := s.stateRepo.Get(s.ctx, playerstaterepo.GetInput{PlayerID: "player-1"})
	s.Require().NoError(err)
	s.Equal("iron_helm", stored.State.Equipped[catalog.SlotHead])
}

func (s *SessionTestSuite) TestEquipUnownedFails() {
	out, err := s.sess.Equip(s.ctx, &session.EquipInput{ItemID: "iron_helm"})
	s.Require().NoError(err, "a domain rule failure is a result, not an error")
	s.False(out.Result.Success)
	s.NotEmpty(out.Result.Message)
}

func (s *SessionTestSuite) TestEquipNilInput() {
	_, err := s.sess.Equip(s.ctx, nil)
	s.True(errors.IsInvalidArgument(err))
}

func (s *SessionTestSuite) TestUnequip() {
	s.grantItem("iron_helm")
	_, err := s.sess.Equip(s.ctx, &session.EquipInput{ItemID: "iron_helm"})
	s.Require().NoError(err)

	out, err := s.sess.Unequip(s.ctx, &session.UnequipInput{Slot: catalog.SlotHead})
	s.Require().NoError(err)
	s.True(out.Result.Success)
	s.Equal("iron_helm", out.ItemID)
	s.Equal(events.TypeUnequipped, s.lastEvent().Type)

	empty, err := s.sess.Unequip(s.ctx, &session.UnequipInput{Slot: catalog.SlotHead})
	s.Require().NoError(err)
	s.False(empty.Result.Success)
}

func (s *SessionTestSuite) TestCanPurchase() {
	out, err := s.sess.CanPurchase(s.ctx, &session.CanPurchaseInput{
		ItemID: "iron_helm", StandingTier: 0, Balance: 10_000,
	})
	s.Require().NoError(err)
	s.True(out.Allowed)
	s.Equal(int64(550), out.Price)

	denied, err := s.sess.CanPurchase(s.ctx, &session.CanPurchaseInput{
		ItemID: "iron_helm", StandingTier: 0, Balance: 10,
	})
	s.Require().NoError(err)
	s.False(denied.Allowed)
	s.NotEmpty(denied.Reason)
}

func (s *SessionTestSuite) TestPurchase() {
	s.addCreature("cinderpup")

	out, err := s.sess.Purchase(s.ctx, &session.PurchaseInput{
		ItemID: "iron_helm", StandingTier: 0, Balance: 10_000,
	})
	s.Require().NoError(err)
	s.True(out.Result.Success)
	s.Equal("iron_helm", out.Item.ID)
	s.Equal(int64(550), out.Price)
	s.Equal(int64(10), out.XPGained, "the companion earns the listing's reward")

	state, err := s.sess.GetState(s.ctx)
	s.Require().NoError(err)
	s.True(state.State.Owns("iron_helm"))
	s.Equal(int64(550), state.State.TotalSpent)
	s.Require().Len(state.State.PurchaseHistory, 1)
	s.Equal("iron_helm", state.State.PurchaseHistory[0].ItemID)
	s.Equal(s.now, state.State.PurchaseHistory[0].Timestamp)

	ev := s.lastEvent()
	s.Equal(events.TypePurchased, ev.Type)
	s.Equal(int64(550), ev.Price)
}

func (s *SessionTestSuite) TestPurchaseFailureMutatesNothing() {
	out, err := s.sess.Purchase(s.ctx, &session.PurchaseInput{
		ItemID: "iron_helm", StandingTier: 0, Balance: 1,
	})
	s.Require().NoError(err)
	s.False(out.Result.Success)

	state, err := s.sess.GetState(s.ctx)
	s.Require().NoError(err)
	s.False(state.State.Owns("iron_helm"))
	s.Zero(state.State.TotalSpent)
	s.Empty(state.State.PurchaseHistory)
}

func (s *SessionTestSuite) TestPurchaseRevalidates() {
	s.grantItem("iron_helm")

	// A prior CanPurchase approval does not bypass re-validation.
	out, err := s.sess.Purchase(s.ctx, &session.PurchaseInput{
		ItemID: "iron_helm", StandingTier: 0, Balance: 10_000,
	})
	s.Require().NoError(err)
	s.False(out.Result.Success, "owned items cannot be bought twice")
}

func (s *SessionTestSuite) TestCraft() {
	s.addMaterial(catalog.MaterialEmberShard, 5)
	s.addMaterial(catalog.MaterialIronScrap, 3)

	can, err := s.sess.CanCraft(s.ctx, &session.CanCraftInput{RecipeID: "emberfang_band"})
	s.Require().NoError(err)
	s.True(can.Craftable)

	out, err := s.sess.Craft(s.ctx, &session.CraftInput{RecipeID: "emberfang_band"})
	s.Require().NoError(err)
	s.True(out.Result.Success)
	s.Equal("emberfang_band", out.Item.ID)
	s.Equal(events.TypeCrafted, s.lastEvent().Type)

	state, err := s.sess.GetState(s.ctx)
	s.Require().NoError(err)
	s.True(state.State.Owns("emberfang_band"))
	s.Zero(state.State.Materials[catalog.MaterialEmberShard])
}

func (s *SessionTestSuite) TestCraftShortfall() {
	s.addMaterial(catalog.MaterialEmberShard, 2)

	can, err := s.sess.CanCraft(s.ctx, &session.CanCraftInput{RecipeID: "emberfang_band"})
	s.Require().NoError(err)
	s.False(can.Craftable)
	s.NotEmpty(can.Shortfalls)

	out, err := s.sess.Craft(s.ctx, &session.CraftInput{RecipeID: "emberfang_band"})
	s.Require().NoError(err)
	s.False(out.Result.Success)
	s.NotEmpty(out.Shortfalls)

	state, err := s.sess.GetState(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, state.State.Materials[catalog.MaterialEmberShard], "nothing is consumed on a shortfall")
}

func (s *SessionTestSuite) TestAddMaterialValidation() {
	_, err := s.sess.AddMaterial(s.ctx, &session.AddMaterialInput{Material: "", Quantity: 1})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.sess.AddMaterial(s.ctx, &session.AddMaterialInput{Material: catalog.MaterialIronScrap, Quantity: 0})
	s.True(errors.IsInvalidArgument(err))
}

func (s *SessionTestSuite) TestGrantItem() {
	out, err := s.sess.GrantItem(s.ctx, &session.GrantItemInput{ItemID: "no_such_item"})
	s.Require().NoError(err)
	s.False(out.Result.Success)

	out, err = s.sess.GrantItem(s.ctx, &session.GrantItemInput{ItemID: "lucky_charm"})
	s.Require().NoError(err)
	s.True(out.Result.Success)

	ev := s.lastEvent()
	s.Equal(events.TypeItemGranted, ev.Type)
	s.Equal("lucky_charm", ev.ItemID)
	s.Equal("player-1", ev.PlayerID)

	// Granting an owned item is a quiet success and publishes nothing.
	published := len(s.captured)
	out, err = s.sess.GrantItem(s.ctx, &session.GrantItemInput{ItemID: "lucky_charm"})
	s.Require().NoError(err)
	s.True(out.Result.Success)
	s.Len(s.captured, published)
}

func (s *SessionTestSuite) TestCheckUnlock() {
	out, err := s.sess.CheckUnlock(s.ctx, &session.CheckUnlockInput{TemplateID: "cinderpup"})
	s.Require().NoError(err)
	s.True(out.Unlocked)

	locked, err := s.sess.CheckUnlock(s.ctx, &session.CheckUnlockInput{TemplateID: "voltwing"})
	s.Require().NoError(err)
	s.False(locked.Unlocked)
	s.NotEmpty(locked.Reason)

	_, err = s.sess.CheckUnlock(s.ctx, &session.CheckUnlockInput{TemplateID: "no_such_template"})
	s.True(errors.IsNotFound(err))
}

func (s *SessionTestSuite) TestAddCreature() {
	out, err := s.sess.AddCreature(s.ctx, &session.AddCreatureInput{TemplateID: "cinderpup"})
	s.Require().NoError(err)
	s.True(out.Result.Success)
	s.Equal(1, out.Instance.Level)
	s.Equal(events.TypeRosterGrown, s.lastEvent().Type)

	dupe, err := s.sess.AddCreature(s.ctx, &session.AddCreatureInput{TemplateID: "cinderpup"})
	s.Require().NoError(err)
	s.False(dupe.Result.Success)
}

func (s *SessionTestSuite) TestAddCreatureHonorsUnlock() {
	out, err := s.sess.AddCreature(s.ctx, &session.AddCreatureInput{TemplateID: "voltwing"})
	s.Require().NoError(err)
	s.False(out.Result.Success, "quest-gated creatures need the quest done")

	out, err = s.sess.AddCreature(s.ctx, &session.AddCreatureInput{
		TemplateID: "voltwing",
		Snapshot:   unlock.Snapshot{CompletedQuests: []string{"storm_trials"}},
	})
	s.Require().NoError(err)
	s.True(out.Result.Success)
}

func (s *SessionTestSuite) TestGrantExperience() {
	s.addCreature("cinderpup")

	out, err := s.sess.GrantExperience(s.ctx, &session.GrantExperienceInput{
		TemplateID: "cinderpup", Amount: 160,
	})
	s.Require().NoError(err)
	s.True(out.Result.Success)
	s.Equal(1, out.LevelChange.OldLevel)
	s.Equal(2, out.LevelChange.NewLevel)
	s.Equal(events.TypeExperience, s.lastEvent().Type)

	// The leveled instance survives a reload.
	stored, err := s.rosterRepo.Get(s.ctx, rosterrepo.GetInput{PlayerID: "player-1"})
	s.Require().NoError(err)
	s.Equal(2, stored.Roster.Instances["cinderpup"].Level)
}

func (s *SessionTestSuite) TestGrantExperienceNotInRoster() {
	out, err := s.sess.GrantExperience(s.ctx, &session.GrantExperienceInput{
		TemplateID: "cinderpup", Amount: 50,
	})
	s.Require().NoError(err)
	s.False(out.Result.Success)
}

func (s *SessionTestSuite) TestGrantAffinity() {
	s.addCreature("cinderpup")
	out, err := s.sess.GrantAffinity(s.ctx, &session.GrantAffinityInput{
		TemplateID: "cinderpup", Amount: 1,
	})
	s.Require().NoError(err)
	s.False(out.Result.Success, "creatures have no affinity track")

	s.addCreature("tide_oracle", unlock.Snapshot{TriggeredEvents: []string{"festival_of_tides"}})
	out, err = s.sess.GrantAffinity(s.ctx, &session.GrantAffinityInput{
		TemplateID: "tide_oracle", Amount: 2,
	})
	s.Require().NoError(err)
	s.True(out.Result.Success)
	s.Equal(2, out.Affinity)
	s.NotEmpty(out.Abilities)
}

func (s *SessionTestSuite) TestGetRoster() {
	s.addCreature("cinderpup")
	s.addCreature("terrapod")

	out, err := s.sess.GetRoster(s.ctx)
	s.Require().NoError(err)
	s.Len(out.Entries, 2)

	byID := make(map[string]session.RosterEntry)
	for _, e := range out.Entries {
		byID[e.TemplateID] = e
	}
	s.True(byID["cinderpup"].Companion, "the first creature added is the companion")
	s.False(byID["terrapod"].Companion)
	s.Equal("Cinderpup", byID["cinderpup"].Name)
	s.NotEmpty(byID["cinderpup"].Abilities)
	s.NotEmpty(byID["cinderpup"].Stats)
}

func (s *SessionTestSuite) TestGetEffectiveness() {
	out, err := s.sess.GetEffectiveness(s.ctx, &session.GetEffectivenessInput{
		Attacker: catalog.ElementFire, Defender: catalog.ElementEarth,
	})
	s.Require().NoError(err)
	s.Equal(1.5, out.Multiplier)
}

func (s *SessionTestSuite) TestGetEffectiveStats() {
	s.addCreature("cinderpup")
	s.grantItem("iron_helm")
	equipped, err := s.sess.Equip(s.ctx, &session.EquipInput{ItemID: "iron_helm"})
	s.Require().NoError(err)
	s.Require().True(equipped.Result.Success)

	// Empty TemplateID reads the companion.
	out, err := s.sess.GetEffectiveStats(s.ctx, &session.GetEffectiveStatsInput{})
	s.Require().NoError(err)
	s.Equal("cinderpup", out.TemplateID)
	s.Equal(1, out.Level)
	s.Equal(5, out.Base["defense"])
	s.Equal(9, out.Stats["defense"], "iron_helm adds 4 defense")
	s.Equal(36, out.Stats["health"], "iron_helm adds 6 health")
	s.Equal(8, out.Stats["attack"])
	s.Equal(7, out.Stats["speed"])
}

func (s *SessionTestSuite) TestGetEffectiveStatsEmptyRoster() {
	_, err := s.sess.GetEffectiveStats(s.ctx, &session.GetEffectiveStatsInput{})
	s.True(errors.IsFailedPrecondition(err))
}

func (s *SessionTestSuite) TestGetEffectiveStatsNotInRoster() {
	s.addCreature("cinderpup")

	_, err := s.sess.GetEffectiveStats(s.ctx, &session.GetEffectiveStatsInput{TemplateID: "terrapod"})
	s.True(errors.IsFailedPrecondition(err))

	_, err = s.sess.GetEffectiveStats(s.ctx, &session.GetEffectiveStatsInput{TemplateID: "no_such_template"})
	s.True(errors.IsNotFound(err))
}

func (s *SessionTestSuite) grantItem(itemID string) {
	out, err := s.sess.GrantItem(s.ctx, &session.GrantItemInput{ItemID: itemID})
	s.Require().NoError(err)
	s.Require().True(out.Result.Success)
}

func (s *SessionTestSuite) addMaterial(material string, qty int) {
	out, err := s.sess.AddMaterial(s.ctx, &session.AddMaterialInput{Material: material, Quantity: qty})
	s.Require().NoError(err)
	s.Require().True(out.Result.Success)
}

func (s *SessionTestSuite) addCreature(templateID string, snapshot ...unlock.Snapshot) {
	input := &session.AddCreatureInput{TemplateID: templateID}
	if len(snapshot) > 0 {
		input.Snapshot = snapshot[0]
	}
	out, err := s.sess.AddCreature(s.ctx, input)
	s.Require().NoError(err)
	s.Require().True(out.Result.Success, out.Result.Message)
}

func TestSessionTestSuite(t *testing.T) {
	suite.Run(t, new(SessionTestSuite))
}

func TestStartSurfacesStorageFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	stateRepo := playerstatemock.NewMockRepository(ctrl)
	rosterRepo := rostermock.NewMockRepository(ctrl)

	orch, err := session.New(&session.Config{
		PlayerStateRepo: stateRepo,
		RosterRepo:      rosterRepo,
		EventBus:        events.NewBus(),
		Clock:           clock.New(),
		IDGenerator:     idgen.NewSequential("evt-"),
	})
	if err != nil {
		t.Fatal(err)
	}

	// Unlike a corrupt record, an unreachable store is a hard error.
	stateRepo.EXPECT().
		Get(gomock.Any(), playerstaterepo.GetInput{PlayerID: "player-1"}).
		Return(nil, errors.Internal("connection refused"))

	_, err = orch.Start(context.Background(), "player-1")
	if err == nil {
		t.Fatal("expected start to fail when player state cannot be loaded")
	}

	stateRepo.EXPECT().
		Get(gomock.Any(), playerstaterepo.GetInput{PlayerID: "player-1"}).
		Return(&playerstaterepo.GetOutput{State: entities.NewShopState("player-1")}, nil)
	rosterRepo.EXPECT().
		Get(gomock.Any(), rosterrepo.GetInput{PlayerID: "player-1"}).
		Return(nil, errors.Internal("connection refused"))

	_, err = orch.Start(context.Background(), "player-1")
	if err == nil {
		t.Fatal("expected start to fail when the roster cannot be loaded")
	}
}

// failingStateRepo wraps a working repository but fails every save.
type failingStateRepo struct {
	playerstaterepo.Repository
}

func (r *failingStateRepo) Save(ctx context.Context, input playerstaterepo.SaveInput) (*playerstaterepo.SaveOutput, error) {
	return nil, errors.Internal("storage is down")
}

func TestMutationsSurviveSaveFailures(t *testing.T) {
	bus := events.NewBus()
	orch, err := session.New(&session.Config{
		PlayerStateRepo: &failingStateRepo{Repository: playerstaterepo.NewInMemory()},
		RosterRepo:      rosterrepo.NewInMemory(),
		EventBus:        bus,
		Clock:           clock.NewFixed(time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)),
		IDGenerator:     idgen.NewSequential("evt-"),
		Ecosystem:       economy.EcosystemState{CirculatingSupply: economy.InitialSupply},
	})
	if err != nil {
		t.Fatal(err)
	}

	sess, err := orch.Start(context.Background(), "player-1")
	if err != nil {
		t.Fatal(err)
	}

	out, err := sess.GrantItem(context.Background(), &session.GrantItemInput{ItemID: "iron_helm"})
	if err != nil || !out.Result.Success {
		t.Fatalf("grant failed: %v", err)
	}

	// The in-memory state stays authoritative even though nothing was
	// persisted.
	state, err := sess.GetState(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !state.State.Owns("iron_helm") {
		t.Fatal("expected the session to keep the granted item")
	}
}
