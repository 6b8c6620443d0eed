// Package entities defines the player-owned mutable aggregates: the shop
// state (inventory, equipment, materials, spend history) and the roster of
// creature and ally instances. Templates and item definitions live in the
// catalog package and are never duplicated here; instances carry only the
// fields that change.
package entities

import (
	"time"

	"github.com/lunarpine/menagerie-api/internal/balance"
	"github.com/lunarpine/menagerie-api/internal/catalog"
)

// HistoryCap bounds the purchase-history log; the oldest entries are
// evicted past it.
var HistoryCap = int(balance.ValueAt(balance.IdxHistoryCap)) // 21

// PurchaseRecord is one entry in the bounded purchase history.
type PurchaseRecord struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"item_id"`
	Price     int64     `json:"price"`
	Timestamp time.Time `json:"timestamp"`
}

// ShopState is the per-player owned-goods aggregate. Exactly one instance
// exists per player; it is mutated only through session operations and
// persisted after each successful mutation.
type ShopState struct {
	PlayerID string
	// Inventory holds owned item ids. It always contains
	// catalog.DefaultItemID, which requires no purchase.
	Inventory []string
	// Equipped maps slot to the owned item occupying it; absent slots are
	// empty.
	Equipped map[catalog.Slot]string
	// Materials holds owned crafting-material quantities.
	Materials map[string]int
	// TotalSpent is the cumulative amount spent across all purchases.
	TotalSpent int64
	// PurchaseHistory is bounded at HistoryCap, oldest first evicted.
	PurchaseHistory []PurchaseRecord
	UpdatedAt       time.Time
}

// NewShopState returns the default state a fresh or reset player starts
// with: the default skin owned, nothing equipped, nothing spent.
func NewShopState(playerID string) *ShopState {
	return &ShopState{
		PlayerID:  playerID,
		Inventory: []string{catalog.DefaultItemID},
		Equipped:  make(map[catalog.Slot]string),
		Materials: make(map[string]int),
	}
}

// Owns reports whether the inventory contains itemID.
func (s *ShopState) Owns(itemID string) bool {
	for _, id := range s.Inventory {
		if id == itemID {
			return true
		}
	}
	return false
}

// AddToInventory appends itemID if not already owned.
func (s *ShopState) AddToInventory(itemID string) {
	if !s.Owns(itemID) {
		s.Inventory = append(s.Inventory, itemID)
	}
}

// RecordPurchase appends a purchase record, evicting the oldest entry once
// the history exceeds HistoryCap.
func (s *ShopState) RecordPurchase(rec PurchaseRecord) {
	s.PurchaseHistory = append(s.PurchaseHistory, rec)
	if len(s.PurchaseHistory) > HistoryCap {
		s.PurchaseHistory = s.PurchaseHistory[len(s.PurchaseHistory)-HistoryCap:]
	}
}

// Clone returns a deep copy.
func (s *ShopState) Clone() *ShopState {
	out := &ShopState{
		PlayerID:   s.PlayerID,
		TotalSpent: s.TotalSpent,
		UpdatedAt:  s.UpdatedAt,
	}
	out.Inventory = append([]string(nil), s.Inventory...)
	out.Equipped = make(map[catalog.Slot]string, len(s.Equipped))
	for k, v := range s.Equipped {
		out.Equipped[k] = v
	}
	out.Materials = make(map[string]int, len(s.Materials))
	for k, v := range s.Materials {
		out.Materials[k] = v
	}
	out.PurchaseHistory = append([]PurchaseRecord(nil), s.PurchaseHistory...)
	return out
}
