package sim

import (
	"context"
	"fmt"
	"sync"

	"github.com/andrescamacho/colonybot-go/internal/domain/catalog"
	"github.com/andrescamacho/colonybot-go/internal/domain/shared"
	"github.com/andrescamacho/colonybot-go/internal/domain/world"
)

// Game rules of the simulated world
const (
	SpawnEnergyCapacity     = 300
	ExtensionEnergyCapacity = 50

	HarvestPerWorkPart = 2
	BuildPerWorkPart   = 5
	UpgradePerWorkPart = 1

	HarvestRange  = 1
	TransferRange = 1
	BuildRange    = 3
	UpgradeRange  = 3

	SourceRegenTicks   = 300
	SpawnTicksPerPart  = 3
	SpawnRegenPerTick  = 1
	maxControllerLevel = 8
)

// controllerProgressToLevel is the progress needed to leave each level
var controllerProgressToLevel = map[int]int{
	1: 200,
	2: 45000,
	3: 135000,
	4: 405000,
	5: 1215000,
	6: 3645000,
	7: 10935000,
}

type simController struct {
	id       world.ObjectID
	pos      shared.Position
	level    int
	progress int
}

type simRoom struct {
	name       string
	controller *simController
}

type simSpawn struct {
	id       world.ObjectID
	name     string
	pos      shared.Position
	energy   int
	spawning *pendingUnit
}

type pendingUnit struct {
	name      string
	body      catalog.Composition
	remaining int
}

type simStructure struct {
	id    world.ObjectID
	typ   world.StructureType
	pos   shared.Position
	store *shared.Store
}

type simSite struct {
	id       world.ObjectID
	typ      world.StructureType
	pos      shared.Position
	progress int
	total    int
}

type simSource struct {
	id       world.ObjectID
	pos      shared.Position
	energy   int
	capacity int
	regenAt  uint64
}

type simUnit struct {
	name   string
	pos    shared.Position
	energy int
	body   catalog.Composition
}

// World is an in-memory game world. It serves snapshots and accepts
// requests like the real game: requests are validated against the current
// state and their effects only become visible after Advance.
type World struct {
	mu sync.Mutex

	tick       uint64
	rooms      []*simRoom
	spawns     []*simSpawn
	structures []*simStructure
	sites      []*simSite
	sources    []*simSource
	units      []*simUnit
	flags      []*world.Flag

	intents *intentSet
	speech  map[string]string
	nextID  int
	initial map[string]catalog.BuildProfile
}

// NewWorld builds a world from a validated scenario
func NewWorld(sc *Scenario) (*World, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	w := &World{
		tick:    sc.Tick,
		intents: newIntentSet(),
		speech:  make(map[string]string),
		initial: make(map[string]catalog.BuildProfile),
	}

	for _, r := range sc.Rooms {
		room := &simRoom{name: r.Name}
		if c := r.Controller; c != nil {
			room.controller = &simController{
				id:       world.ObjectID(c.ID),
				pos:      shared.Position{Room: r.Name, X: c.X, Y: c.Y},
				level:    c.Level,
				progress: c.Progress,
			}
		}
		w.rooms = append(w.rooms, room)
	}
	for _, s := range sc.Spawns {
		w.spawns = append(w.spawns, &simSpawn{
			id:     world.ObjectID(s.ID),
			name:   s.Name,
			pos:    s.Point.position(),
			energy: s.Energy,
		})
	}
	for _, e := range sc.Extensions {
		w.structures = append(w.structures, newExtension(world.ObjectID(e.ID), e.Point.position(), e.Energy))
	}
	for _, s := range sc.Sources {
		w.sources = append(w.sources, &simSource{
			id:       world.ObjectID(s.ID),
			pos:      s.Point.position(),
			energy:   s.Energy,
			capacity: s.Capacity,
			regenAt:  sc.Tick + SourceRegenTicks,
		})
	}
	for _, s := range sc.Sites {
		w.sites = append(w.sites, &simSite{
			id:       world.ObjectID(s.ID),
			typ:      s.Type,
			pos:      s.Point.position(),
			progress: s.Progress,
			total:    s.Total,
		})
	}
	for _, u := range sc.Units {
		w.units = append(w.units, &simUnit{
			name:   u.Name,
			pos:    u.Point.position(),
			energy: u.Energy,
			body:   u.Build.Parts(),
		})
		w.initial[u.Name] = u.Build
	}
	for _, f := range sc.Flags {
		w.flags = append(w.flags, &world.Flag{Name: f.Name, Position: f.Point.position()})
	}

	return w, nil
}

func (p Point) position() shared.Position {
	return shared.Position{Room: p.Room, X: p.X, Y: p.Y}
}

func newExtension(id world.ObjectID, pos shared.Position, energy int) *simStructure {
	return &simStructure{
		id:    id,
		typ:   world.StructureExtension,
		pos:   pos,
		store: &shared.Store{Capacity: ExtensionEnergyCapacity, Energy: energy},
	}
}

// Tick returns the current game tick
func (w *World) Tick() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tick
}

// InitialUnits returns the builds of the units the scenario started with.
// They have no stored state until the caller seeds it.
func (w *World) InitialUnits() map[string]catalog.BuildProfile {
	out := make(map[string]catalog.BuildProfile, len(w.initial))
	for name, b := range w.initial {
		out[name] = b
	}
	return out
}

// LastSaid returns the last message a unit said, if any
func (w *World) LastSaid(unit string) (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	msg, ok := w.speech[unit]
	return msg, ok
}

// Snapshot implements world.SnapshotProvider. The returned snapshot shares
// nothing with the world.
func (w *World) Snapshot(ctx context.Context) (*world.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	snap := &world.Snapshot{Tick: w.tick}

	for _, r := range w.rooms {
		room := &world.Room{Name: r.name}
		if c := r.controller; c != nil {
			room.Controller = &world.Controller{Identity: c.id, Position: c.pos, Level: c.level, Progress: c.progress}
		}
		room.EnergyAvailable, room.EnergyCapacity = w.roomEnergy(r.name)
		snap.Rooms = append(snap.Rooms, room)
	}
	for _, s := range w.spawns {
		snap.Spawns = append(snap.Spawns, &world.Spawn{
			Identity: s.id,
			Name:     s.name,
			Position: s.pos,
			Store:    shared.Store{Capacity: SpawnEnergyCapacity, Energy: s.energy},
			Spawning: s.spawning != nil,
		})
	}
	for _, st := range w.structures {
		out := &world.Structure{Identity: st.id, Type: st.typ, Position: st.pos}
		if st.store != nil {
			store := *st.store
			out.Store = &store
		}
		snap.Structures = append(snap.Structures, out)
	}
	for _, s := range w.sites {
		snap.ConstructionSites = append(snap.ConstructionSites, &world.ConstructionSite{
			Identity:      s.id,
			Type:          s.typ,
			Position:      s.pos,
			Progress:      s.progress,
			ProgressTotal: s.total,
		})
	}
	for _, s := range w.sources {
		snap.Sources = append(snap.Sources, &world.Source{
			Identity:       s.id,
			Position:       s.pos,
			Energy:         s.energy,
			EnergyCapacity: s.capacity,
		})
	}
	for _, u := range w.units {
		body := make(catalog.Composition, len(u.body))
		for k, v := range u.body {
			body[k] = v
		}
		snap.Units = append(snap.Units, &world.Unit{
			Name:     u.name,
			Position: u.pos,
			Store:    shared.Store{Capacity: u.body.CarryCapacity(), Energy: u.energy},
			Body:     body,
		})
	}
	for _, f := range w.flags {
		flag := *f
		snap.Flags = append(snap.Flags, &flag)
	}

	return snap, nil
}

// roomEnergy sums spawn and extension energy of a room
func (w *World) roomEnergy(room string) (available, capacity int) {
	for _, s := range w.spawns {
		if s.pos.Room == room {
			available += s.energy
			capacity += SpawnEnergyCapacity
		}
	}
	for _, st := range w.structures {
		if st.pos.Room == room && st.typ == world.StructureExtension && st.store != nil {
			available += st.store.Energy
			capacity += st.store.Capacity
		}
	}
	return available, capacity
}

func (w *World) unit(id world.ObjectID) *simUnit {
	for _, u := range w.units {
		if world.ObjectID(u.name) == id {
			return u
		}
	}
	return nil
}

func (w *World) unitNamed(name string) bool {
	if w.unit(world.ObjectID(name)) != nil {
		return true
	}
	for _, s := range w.spawns {
		if s.spawning != nil && s.spawning.name == name {
			return true
		}
	}
	return false
}

func (w *World) spawn(id world.ObjectID) *simSpawn {
	for _, s := range w.spawns {
		if s.id == id {
			return s
		}
	}
	return nil
}

func (w *World) structure(id world.ObjectID) *simStructure {
	for _, st := range w.structures {
		if st.id == id {
			return st
		}
	}
	return nil
}

func (w *World) site(id world.ObjectID) *simSite {
	for _, s := range w.sites {
		if s.id == id {
			return s
		}
	}
	return nil
}

func (w *World) source(id world.ObjectID) *simSource {
	for _, s := range w.sources {
		if s.id == id {
			return s
		}
	}
	return nil
}

func (w *World) controller(id world.ObjectID) *simController {
	for _, r := range w.rooms {
		if r.controller != nil && r.controller.id == id {
			return r.controller
		}
	}
	return nil
}

func (w *World) newID(prefix string) world.ObjectID {
	w.nextID++
	return world.ObjectID(fmt.Sprintf("%s-%d-%d", prefix, w.tick, w.nextID))
}
