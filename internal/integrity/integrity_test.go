package integrity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lunarpine/menagerie-api/internal/catalog"
	"github.com/lunarpine/menagerie-api/internal/entities"
	"github.com/lunarpine/menagerie-api/internal/errors"
	"github.com/lunarpine/menagerie-api/internal/integrity"
)

func TestTagIsStableAndNormalized(t *testing.T) {
	tagger := integrity.NewTagger("test-entropy")

	state := entities.NewShopState("player-1")
	state.AddToInventory("iron_helm")
	state.AddToInventory("tide_helm")
	state.TotalSpent = 550

	tag := tagger.Tag(state)
	assert.Len(t, tag, 16)
	assert.Equal(t, tag, tagger.Tag(state), "the same state always produces the same tag")

	// Inventory ordering in the blob must not affect the tag.
	reordered := state.Clone()
	reordered.Inventory = []string{"tide_helm", catalog.DefaultItemID, "iron_helm"}
	assert.Equal(t, tag, tagger.Tag(reordered))
}

func TestVerify(t *testing.T) {
	tagger := integrity.NewTagger("test-entropy")

	state := entities.NewShopState("player-1")
	state.AddToInventory("iron_helm")
	tag := tagger.Tag(state)

	assert.True(t, tagger.Verify(state, tag))
	assert.False(t, tagger.Verify(state, ""), "an empty tag never verifies")

	// Any mutation of the tagged projection invalidates the tag.
	state.TotalSpent = 9999
	assert.False(t, tagger.Verify(state, tag))
}

func TestTagDependsOnEntropy(t *testing.T) {
	state := entities.NewShopState("player-1")

	a := integrity.NewTagger("env-a").Tag(state)
	b := integrity.NewTagger("env-b").Tag(state)
	assert.NotEqual(t, a, b, "a blob moved between environments must fail verification")
}

func TestValidateState(t *testing.T) {
	assert.NoError(t, integrity.ValidateState(entities.NewShopState("player-1")))
}

func TestValidateStateAcceptsCraftedItems(t *testing.T) {
	// A save written after crafting must survive a process restart:
	// recipe results have to validate like any other catalog item.
	state := entities.NewShopState("player-1")
	state.AddToInventory("emberfang_band")
	state.Equipped[catalog.SlotAccessory] = "emberfang_band"

	assert.NoError(t, integrity.ValidateState(state))
}

func TestValidateStateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *entities.ShopState)
	}{
		{"missing player id", func(s *entities.ShopState) { s.PlayerID = "" }},
		{"negative total spent", func(s *entities.ShopState) { s.TotalSpent = -1 }},
		{"missing default item", func(s *entities.ShopState) { s.Inventory = []string{"iron_helm"} }},
		{"duplicate inventory entry", func(s *entities.ShopState) {
			s.Inventory = append(s.Inventory, "iron_helm", "iron_helm")
		}},
		{"unknown inventory entry", func(s *entities.ShopState) {
			s.Inventory = append(s.Inventory, "spoofed_item")
		}},
		{"malformed inventory entry", func(s *entities.ShopState) {
			s.Inventory = append(s.Inventory, "NOT AN ID")
		}},
		{"unknown equipped slot", func(s *entities.ShopState) {
			s.Equipped["tail"] = "iron_helm"
		}},
		{"equipped item unknown", func(s *entities.ShopState) {
			s.Equipped[catalog.SlotHead] = "spoofed_item"
		}},
		{"equipped under wrong slot", func(s *entities.ShopState) {
			s.AddToInventory("iron_helm")
			s.Equipped[catalog.SlotBody] = "iron_helm"
		}},
		{"equipped but not owned", func(s *entities.ShopState) {
			s.Equipped[catalog.SlotHead] = "iron_helm"
		}},
		{"malformed material id", func(s *entities.ShopState) {
			s.Materials["Bad Material"] = 3
		}},
		{"negative material quantity", func(s *entities.ShopState) {
			s.Materials["iron_scrap"] = -1
		}},
		{"malformed purchase record", func(s *entities.ShopState) {
			s.PurchaseHistory = append(s.PurchaseHistory, entities.PurchaseRecord{Price: 10})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := entities.NewShopState("player-1")
			tt.mutate(state)

			err := integrity.ValidateState(state)
			require.Error(t, err)
			assert.True(t, errors.IsDataLoss(err))
		})
	}
}

func TestValidateStateNil(t *testing.T) {
	err := integrity.ValidateState(nil)
	require.Error(t, err)
	assert.True(t, errors.IsDataLoss(err))
}

func TestValidateStateHistoryCap(t *testing.T) {
	state := entities.NewShopState("player-1")
	for i := 0; i <= entities.HistoryCap; i++ {
		state.PurchaseHistory = append(state.PurchaseHistory, entities.PurchaseRecord{ItemID: "iron_helm", Price: 1})
	}

	err := integrity.ValidateState(state)
	require.Error(t, err, "a blob holding more history than the cap was never written by us")
	assert.True(t, errors.IsDataLoss(err))

	// Going through RecordPurchase keeps the history inside the cap.
	state.PurchaseHistory = nil
	for i := 0; i < entities.HistoryCap*2; i++ {
		state.RecordPurchase(entities.PurchaseRecord{ID: "p", ItemID: "iron_helm", Price: 1})
	}
	assert.Len(t, state.PurchaseHistory, entities.HistoryCap)
	assert.NoError(t, integrity.ValidateState(state))
}
