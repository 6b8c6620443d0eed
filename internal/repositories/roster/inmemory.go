package roster

import (
	"context"
	"sync"

	"github.com/lunarpine/menagerie-api/internal/entities"
	"github.com/lunarpine/menagerie-api/internal/errors"
)

// InMemoryRepository implements Repository using in-memory storage
type InMemoryRepository struct {
	mu    sync.RWMutex
	store map[string]*entities.Roster
}

// NewInMemory creates a new in-memory repository
func NewInMemory() *InMemoryRepository {
	return &InMemoryRepository{
		store: make(map[string]*entities.Roster),
	}
}

// Get retrieves a player's roster, defaulting fresh players
func (r *InMemoryRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	roster, exists := r.store[input.PlayerID]
	if !exists {
		return &GetOutput{Roster: entities.NewRoster(input.PlayerID)}, nil
	}

	return &GetOutput{Roster: roster.Clone()}, nil
}

// Save stores a deep copy of the player's roster
func (r *InMemoryRepository) Save(ctx context.Context, input SaveInput) (*SaveOutput, error) {
	if input.Roster == nil {
		return nil, errors.InvalidArgument("roster cannot be nil")
	}
	if input.Roster.PlayerID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[input.Roster.PlayerID] = input.Roster.Clone()
	return &SaveOutput{}, nil
}
