// Package events carries change notifications from the session core to
// presentation layers. Every mutating session operation publishes one
// event describing what changed so consumers can refresh without polling.
package events

import (
	"sync"
	"time"

	"github.com/lunarpine/menagerie-api/internal/catalog"
)

// Type identifies what kind of change an event describes.
type Type string

// Event types.
const (
	TypeEquipped    Type = "equipped"
	TypeUnequipped  Type = "unequipped"
	TypePurchased   Type = "purchased"
	TypeCrafted     Type = "crafted"
	TypeItemGranted Type = "item_granted"
	TypeExperience  Type = "experience_granted"
	TypeAffinity    Type = "affinity_granted"
	TypeMaterial    Type = "material_added"
	TypeRosterGrown Type = "roster_grown"
	TypeStateReset  Type = "state_reset"
	TypeStateLoaded Type = "state_loaded"
)

// Event is one change notification. Only the fields relevant to the event
// type are set; the JSON shape is what the gateway streams to clients.
type Event struct {
	ID       string       `json:"id"`
	PlayerID string       `json:"player_id"`
	Type     Type         `json:"type"`
	At       time.Time    `json:"at"`
	Slot     catalog.Slot `json:"slot,omitempty"`
	OldItem  string       `json:"old_item,omitempty"`
	NewItem  string       `json:"new_item,omitempty"`
	ItemID   string       `json:"item_id,omitempty"`
	Price    int64        `json:"price,omitempty"`
	Amount   int64        `json:"amount,omitempty"`
	OldLevel int          `json:"old_level,omitempty"`
	NewLevel int          `json:"new_level,omitempty"`
}

// Handler receives published events. Handlers must not block: publishing
// runs them synchronously on the mutating call's goroutine.
type Handler func(Event)

// Bus is a minimal in-process publish/subscribe surface.
type Bus interface {
	Publish(event Event)
	Subscribe(handler Handler) (unsubscribe func())
}

type bus struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[int]Handler
}

// NewBus creates an in-process bus.
func NewBus() Bus {
	return &bus{handlers: make(map[int]Handler)}
}

func (b *bus) Publish(event Event) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.handlers))
	for _, h := range b.handlers {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(event)
	}
}

func (b *bus) Subscribe(handler Handler) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.handlers[id] = handler
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.handlers, id)
		b.mu.Unlock()
	}
}
