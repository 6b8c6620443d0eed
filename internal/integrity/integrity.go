// Package integrity provides the persisted-state checks: a structural
// schema validation of loaded player state and a tamper-evidence tag over
// a normalized projection of it.
//
// The tag is explicitly not cryptographic security. It deters casual
// editing of the persisted blob; a determined client-side actor can
// recompute it, and any economically meaningful enforcement must happen in
// server-side re-validation outside this core.
package integrity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"

	"github.com/lunarpine/menagerie-api/internal/catalog"
	"github.com/lunarpine/menagerie-api/internal/entities"
	"github.com/lunarpine/menagerie-api/internal/errors"
)

// Tagger computes tamper-evidence tags. The entropy string is mixed into
// every tag, deliberately binding persisted state to the environment that
// wrote it: a blob moved to a different environment fails verification and
// resets to defaults, the same recovery path as tampering.
type Tagger struct {
	entropy string
}

// NewTagger creates a Tagger with the given environment entropy. Tests
// inject a fixed string.
func NewTagger(entropy string) *Tagger {
	return &Tagger{entropy: entropy}
}

// DefaultEntropy derives the entropy string from the running environment.
func DefaultEntropy() string {
	hostname, _ := os.Hostname()
	return fmt.Sprintf("%s/%s:%d", runtime.GOOS, runtime.GOARCH, len(hostname))
}

// Tag computes the tamper-evidence tag for the state: a truncated SHA-256
// over the sorted inventory, the total spent, and the entropy. The
// projection is normalized so field ordering in the stored blob never
// affects the tag.
func (t *Tagger) Tag(state *entities.ShopState) string {
	inventory := append([]string(nil), state.Inventory...)
	sort.Strings(inventory)

	projection := fmt.Sprintf("%s|%d|%s", strings.Join(inventory, ","), state.TotalSpent, t.entropy)
	sum := sha256.Sum256([]byte(projection))
	return hex.EncodeToString(sum[:])[:16]
}

// Verify reports whether the stored tag matches the state.
func (t *Tagger) Verify(state *entities.ShopState, tag string) bool {
	return tag != "" && t.Tag(state) == tag
}

// ValidateState checks the structural schema of loaded player state.
// A non-nil error means the state must be discarded and replaced with the
// default, never partially adopted.
func ValidateState(state *entities.ShopState) error {
	if state == nil {
		return errors.DataLoss("player state is missing")
	}
	if state.PlayerID == "" {
		return errors.DataLoss("player state has no player id")
	}
	if state.TotalSpent < 0 {
		return errors.DataLossf("negative total spent %d", state.TotalSpent)
	}

	ownsDefault := false
	seen := make(map[string]bool, len(state.Inventory))
	for _, itemID := range state.Inventory {
		if seen[itemID] {
			return errors.DataLossf("duplicate inventory entry %q", itemID)
		}
		seen[itemID] = true

		if itemID == catalog.DefaultItemID {
			ownsDefault = true
			continue
		}
		if !catalog.ValidID(itemID) {
			return errors.DataLossf("malformed inventory entry %q", itemID)
		}
		if _, ok := catalog.Item(itemID); !ok {
			return errors.DataLossf("inventory entry %q is not in the catalog", itemID)
		}
	}
	if !ownsDefault {
		return errors.DataLoss("inventory is missing the default item")
	}

	for slot, itemID := range state.Equipped {
		if !catalog.ValidSlot(slot) {
			return errors.DataLossf("unknown equipped slot %q", slot)
		}
		if itemID == "" {
			continue
		}
		item, ok := catalog.Item(itemID)
		if !ok {
			return errors.DataLossf("equipped item %q is not in the catalog", itemID)
		}
		if item.Slot != slot {
			return errors.DataLossf("item %q stored under slot %q but belongs in %q", itemID, slot, item.Slot)
		}
		if !seen[itemID] {
			return errors.DataLossf("equipped item %q is not in the inventory", itemID)
		}
	}

	for mat, qty := range state.Materials {
		if !catalog.ValidID(mat) {
			return errors.DataLossf("malformed material id %q", mat)
		}
		if qty < 0 {
			return errors.DataLossf("negative quantity %d for material %q", qty, mat)
		}
	}

	if len(state.PurchaseHistory) > entities.HistoryCap {
		return errors.DataLossf("purchase history exceeds the %d-entry cap", entities.HistoryCap)
	}
	for _, rec := range state.PurchaseHistory {
		if rec.ItemID == "" || rec.Price < 0 {
			return errors.DataLoss("malformed purchase record")
		}
	}

	return nil
}
