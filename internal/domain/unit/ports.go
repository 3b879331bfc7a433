package unit

import (
	"context"
	"errors"
)

// ErrStateNotFound is returned by Load when no state was stored for a unit
var ErrStateNotFound = errors.New("unit state not found")

// StateRepository loads and stores unit state across ticks. Encoding is the
// implementation's concern.
type StateRepository interface {
	// Load returns the stored state, ErrStateNotFound, or a decode error
	Load(ctx context.Context, unitID string) (*UnitState, error)

	// Store writes the state, replacing any previous record
	Store(ctx context.Context, unitID string, state *UnitState) error
}
