// Package roster provides persistence for a player's creature and ally
// instances.
package roster

//go:generate mockgen -destination=mock/mock_repository.go -package=rostermock github.com/lunarpine/menagerie-api/internal/repositories/roster Repository

import (
	"context"

	"github.com/lunarpine/menagerie-api/internal/entities"
)

// Repository defines the interface for roster persistence
type Repository interface {
	// Get retrieves the player's roster; a missing record yields an empty
	// roster.
	// Returns errors.InvalidArgument for an empty player ID
	// Returns errors.Internal for storage failures
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Save persists the player's roster
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.Internal for storage failures
	Save(ctx context.Context, input SaveInput) (*SaveOutput, error)
}

// GetInput defines the input for getting a roster
type GetInput struct {
	PlayerID string
}

// GetOutput defines the output for getting a roster
type GetOutput struct {
	Roster *entities.Roster
}

// SaveInput defines the input for saving a roster
type SaveInput struct {
	Roster *entities.Roster
}

// SaveOutput defines the output for saving a roster
type SaveOutput struct{}
