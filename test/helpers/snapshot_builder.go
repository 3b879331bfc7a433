package helpers

import (
	"context"

	"github.com/andrescamacho/colonybot-go/internal/domain/catalog"
	"github.com/andrescamacho/colonybot-go/internal/domain/shared"
	"github.com/andrescamacho/colonybot-go/internal/domain/world"
)

// TestRoom is the room every SnapshotBuilder object is placed in
const TestRoom = "W1N1"

// SnapshotBuilder assembles world snapshots for tests
type SnapshotBuilder struct {
	snap *world.Snapshot
}

// NewSnapshotBuilder starts a snapshot with one room at the given controller
// level (0 for no controller) and energy totals
func NewSnapshotBuilder(tick uint64, level, energyAvailable, energyCapacity int) *SnapshotBuilder {
	room := &world.Room{Name: TestRoom, EnergyAvailable: energyAvailable, EnergyCapacity: energyCapacity}
	if level > 0 {
		room.Controller = &world.Controller{
			Identity: "controller-1",
			Position: At(20, 20),
			Level:    level,
		}
	}
	return &SnapshotBuilder{snap: &world.Snapshot{Tick: tick, Rooms: []*world.Room{room}}}
}

// At returns a position in the test room
func At(x, y int) shared.Position {
	return shared.Position{Room: TestRoom, X: x, Y: y}
}

// WithUnit adds a unit of the given build carrying energy
func (b *SnapshotBuilder) WithUnit(name string, build catalog.BuildProfile, pos shared.Position, energy int) *SnapshotBuilder {
	body := build.Parts()
	b.snap.Units = append(b.snap.Units, &world.Unit{
		Name:     name,
		Position: pos,
		Store:    shared.Store{Capacity: body.CarryCapacity(), Energy: energy},
		Body:     body,
	})
	return b
}

// WithSpawn adds a spawn structure
func (b *SnapshotBuilder) WithSpawn(id, name string, pos shared.Position, energy int) *SnapshotBuilder {
	b.snap.Spawns = append(b.snap.Spawns, &world.Spawn{
		Identity: world.ObjectID(id),
		Name:     name,
		Position: pos,
		Store:    shared.Store{Capacity: 300, Energy: energy},
	})
	return b
}

// WithExtension adds an extension structure
func (b *SnapshotBuilder) WithExtension(id string, pos shared.Position, energy int) *SnapshotBuilder {
	b.snap.Structures = append(b.snap.Structures, &world.Structure{
		Identity: world.ObjectID(id),
		Type:     world.StructureExtension,
		Position: pos,
		Store:    &shared.Store{Capacity: 50, Energy: energy},
	})
	return b
}

// WithSource adds a resource node
func (b *SnapshotBuilder) WithSource(id string, pos shared.Position, energy int) *SnapshotBuilder {
	b.snap.Sources = append(b.snap.Sources, &world.Source{
		Identity:       world.ObjectID(id),
		Position:       pos,
		Energy:         energy,
		EnergyCapacity: 3000,
	})
	return b
}

// WithSite adds a construction site
func (b *SnapshotBuilder) WithSite(id string, pos shared.Position) *SnapshotBuilder {
	b.snap.ConstructionSites = append(b.snap.ConstructionSites, &world.ConstructionSite{
		Identity:      world.ObjectID(id),
		Type:          world.StructureExtension,
		Position:      pos,
		ProgressTotal: 3000,
	})
	return b
}

// WithoutController removes the room controller
func (b *SnapshotBuilder) WithoutController() *SnapshotBuilder {
	b.snap.Rooms[0].Controller = nil
	return b
}

// Build returns the snapshot
func (b *SnapshotBuilder) Build() *world.Snapshot {
	return b.snap
}

// StaticSnapshotProvider serves a fixed snapshot
type StaticSnapshotProvider struct {
	Snap *world.Snapshot
	Err  error
}

func (p *StaticSnapshotProvider) Snapshot(ctx context.Context) (*world.Snapshot, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	return p.Snap, nil
}
