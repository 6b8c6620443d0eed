package playerstate

import (
	"context"
	"sync"

	"github.com/lunarpine/menagerie-api/internal/entities"
	"github.com/lunarpine/menagerie-api/internal/errors"
)

// InMemoryRepository implements Repository using in-memory storage. It is
// used by tests and by the gateway's demo mode; there is no blob to
// tamper with, so Get never reports a reset.
type InMemoryRepository struct {
	mu    sync.RWMutex
	store map[string]*entities.ShopState
}

// NewInMemory creates a new in-memory repository
func NewInMemory() *InMemoryRepository {
	return &InMemoryRepository{
		store: make(map[string]*entities.ShopState),
	}
}

// Get retrieves a player's state, defaulting fresh players
func (r *InMemoryRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	state, exists := r.store[input.PlayerID]
	if !exists {
		return &GetOutput{State: entities.NewShopState(input.PlayerID)}, nil
	}

	// Return a copy to prevent external modification
	return &GetOutput{State: state.Clone()}, nil
}

// Save stores a deep copy of the player's state
func (r *InMemoryRepository) Save(ctx context.Context, input SaveInput) (*SaveOutput, error) {
	if input.State == nil {
		return nil, errors.InvalidArgument("state cannot be nil")
	}
	if input.State.PlayerID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[input.State.PlayerID] = input.State.Clone()
	return &SaveOutput{}, nil
}

// Delete removes a player's state
func (r *InMemoryRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.store[input.PlayerID]; !exists {
		return nil, errors.NotFoundf("state for player %s not found", input.PlayerID)
	}

	delete(r.store, input.PlayerID)
	return &DeleteOutput{}, nil
}
