package shared

import "fmt"

// ResourceKind identifies a resource that can be carried or stored
type ResourceKind string

const (
	ResourceEnergy ResourceKind = "energy"
)

// Store is the energy accounting of a unit or structure
type Store struct {
	Capacity int `json:"capacity" yaml:"capacity"`
	Energy   int `json:"energy" yaml:"energy"`
}

// NewStore creates a store with validation
func NewStore(capacity, energy int) (Store, error) {
	if capacity < 0 {
		return Store{}, fmt.Errorf("store capacity cannot be negative")
	}
	if energy < 0 {
		return Store{}, fmt.Errorf("store energy cannot be negative")
	}
	if energy > capacity {
		return Store{}, fmt.Errorf("store energy %d exceeds capacity %d", energy, capacity)
	}
	return Store{Capacity: capacity, Energy: energy}, nil
}

// UsedCapacity is the amount of energy held
func (s Store) UsedCapacity() int {
	return s.Energy
}

// FreeCapacity is the room left for more energy
func (s Store) FreeCapacity() int {
	if s.Energy >= s.Capacity {
		return 0
	}
	return s.Capacity - s.Energy
}

// IsEmpty checks if nothing is held
func (s Store) IsEmpty() bool {
	return s.Energy == 0
}

// IsFull checks if no more energy fits
func (s Store) IsFull() bool {
	return s.FreeCapacity() == 0
}

func (s Store) String() string {
	return fmt.Sprintf("Store(%d/%d)", s.Energy, s.Capacity)
}
