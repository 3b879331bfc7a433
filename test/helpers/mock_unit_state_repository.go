package helpers

import (
	"context"
	"sync"

	"github.com/andrescamacho/colonybot-go/internal/domain/unit"
)

// MockUnitStateRepository is an in-memory implementation of unit.StateRepository for testing
type MockUnitStateRepository struct {
	mu     sync.Mutex
	States map[string]*unit.UnitState

	// LoadErrs and StoreErrs fail the named unit's next calls
	LoadErrs  map[string]error
	StoreErrs map[string]error

	Stores []string // unit ids in the order Store was called
}

// NewMockUnitStateRepository creates an empty repository
func NewMockUnitStateRepository() *MockUnitStateRepository {
	return &MockUnitStateRepository{
		States:    make(map[string]*unit.UnitState),
		LoadErrs:  make(map[string]error),
		StoreErrs: make(map[string]error),
	}
}

// Load returns the stored state or unit.ErrStateNotFound
func (m *MockUnitStateRepository) Load(ctx context.Context, unitID string) (*unit.UnitState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err, ok := m.LoadErrs[unitID]; ok {
		return nil, err
	}

	state, ok := m.States[unitID]
	if !ok {
		return nil, unit.ErrStateNotFound
	}

	// Round-trip through the DTO so callers never share the stored pointer
	return unit.FromData(state.ToData())
}

// Store saves a copy of the state
func (m *MockUnitStateRepository) Store(ctx context.Context, unitID string, state *unit.UnitState) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Stores = append(m.Stores, unitID)

	if err, ok := m.StoreErrs[unitID]; ok {
		return err
	}

	stored, err := unit.FromData(state.ToData())
	if err != nil {
		return err
	}
	m.States[unitID] = stored
	return nil
}

// Get returns the stored state without copying, for assertions
func (m *MockUnitStateRepository) Get(unitID string) (*unit.UnitState, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	state, ok := m.States[unitID]
	return state, ok
}
