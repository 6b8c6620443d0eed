// Package playerstate provides persistence for the per-player shop state:
// inventory, equipped slots, materials, spend totals, and the bounded
// purchase history, guarded by schema validation and a tamper-evidence tag.
package playerstate

//go:generate mockgen -destination=mock/mock_repository.go -package=playerstatemock github.com/lunarpine/menagerie-api/internal/repositories/playerstate Repository

import (
	"context"

	"github.com/lunarpine/menagerie-api/internal/entities"
)

// Repository defines the interface for player-state persistence.
//
// Load recovery is part of the contract: a stored record that fails schema
// validation or the tamper check is discarded and replaced with the
// default state rather than returned as an error. Get therefore never
// fails because of bad stored data, only because of storage trouble.
type Repository interface {
	// Get retrieves the player's state. A missing record yields the
	// default state for a fresh player; a corrupt record yields the
	// default state with Reset set.
	// Returns errors.InvalidArgument for an empty player ID
	// Returns errors.Internal for storage failures
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Save persists the player's state, stamping a fresh integrity tag.
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.Internal for storage failures
	Save(ctx context.Context, input SaveInput) (*SaveOutput, error)

	// Delete removes the player's state.
	// Returns errors.NotFound if no state exists
	// Returns errors.Internal for storage failures
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)
}

// GetInput defines the input for getting player state
type GetInput struct {
	PlayerID string
}

// GetOutput defines the output for getting player state
type GetOutput struct {
	State *entities.ShopState
	// Reset reports that a stored record existed but was discarded for
	// failing schema validation or the tamper check.
	Reset bool
}

// SaveInput defines the input for saving player state
type SaveInput struct {
	State *entities.ShopState
}

// SaveOutput defines the output for saving player state
type SaveOutput struct {
	// IntegrityTag is the tag stamped on the stored record.
	IntegrityTag string
}

// DeleteInput defines the input for deleting player state
type DeleteInput struct {
	PlayerID string
}

// DeleteOutput defines the output for deleting player state
type DeleteOutput struct{}
