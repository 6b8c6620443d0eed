package catalog

import "sync"

// The crafted-item overlay. The base tables are immutable; items produced
// by crafting land here instead. Registration is idempotent and keyed by
// item id, so crafting the same recipe twice registers once.
var craftedRegistry = struct {
	mu    sync.RWMutex
	items map[string]ItemDef
}{items: make(map[string]ItemDef)}

// Persisted inventories can hold crafted items, and a restarted process
// must still resolve them, so every recipe result is registered up front.
func init() {
	for _, def := range recipeList {
		RegisterCrafted(def.Result)
	}
}

// RegisterCrafted adds a crafted item definition to the overlay. Repeat
// registrations of the same id are no-ops. Registering an id that exists
// in the base table is also a no-op: the base table wins.
func RegisterCrafted(def ItemDef) {
	if _, ok := items[def.ID]; ok {
		return
	}

	craftedRegistry.mu.Lock()
	defer craftedRegistry.mu.Unlock()

	if _, ok := craftedRegistry.items[def.ID]; ok {
		return
	}
	craftedRegistry.items[def.ID] = def.clone()
}

func craftedItem(id string) (ItemDef, bool) {
	craftedRegistry.mu.RLock()
	defer craftedRegistry.mu.RUnlock()

	def, ok := craftedRegistry.items[id]
	if !ok {
		return ItemDef{}, false
	}
	return def.clone(), true
}
