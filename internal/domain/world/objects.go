package world

import (
	"github.com/andrescamacho/colonybot-go/internal/domain/catalog"
	"github.com/andrescamacho/colonybot-go/internal/domain/shared"
)

// ObjectID is the stable identity of a world object across ticks
type ObjectID string

// Object is anything in the snapshot a unit can act on
type Object interface {
	ID() ObjectID
	Pos() shared.Position
}

// StructureType distinguishes structures in the snapshot
type StructureType string

const (
	StructureSpawn      StructureType = "spawn"
	StructureExtension  StructureType = "extension"
	StructureController StructureType = "controller"
	StructureRoad       StructureType = "road"
	StructureContainer  StructureType = "container"
)

// Unit is a live worker as seen this tick. Its name is its identity.
type Unit struct {
	Name     string
	Position shared.Position
	Store    shared.Store
	Body     catalog.Composition
}

func (u *Unit) ID() ObjectID          { return ObjectID(u.Name) }
func (u *Unit) Pos() shared.Position { return u.Position }

// Controller is the room-scoped upgrade target
type Controller struct {
	Identity ObjectID
	Position shared.Position
	Level    int
	Progress int
}

func (c *Controller) ID() ObjectID          { return c.Identity }
func (c *Controller) Pos() shared.Position { return c.Position }

// Room carries the energy totals used by spawning and distribution decisions
type Room struct {
	Name            string
	Controller      *Controller
	EnergyAvailable int
	EnergyCapacity  int
}

// Level returns the controller level, or 0 for rooms without a controller
func (r *Room) Level() int {
	if r.Controller == nil {
		return 0
	}
	return r.Controller.Level
}

// Spawn is a structure that produces worker units
type Spawn struct {
	Identity ObjectID
	Name     string
	Position shared.Position
	Store    shared.Store
	Spawning bool
}

func (s *Spawn) ID() ObjectID          { return s.Identity }
func (s *Spawn) Pos() shared.Position { return s.Position }

// Structure is any other owned structure; Store is nil for structures
// that hold no energy
type Structure struct {
	Identity ObjectID
	Type     StructureType
	Position shared.Position
	Store    *shared.Store
}

func (s *Structure) ID() ObjectID          { return s.Identity }
func (s *Structure) Pos() shared.Position { return s.Position }

// HasFreeEnergyCapacity reports whether the structure can accept energy
func (s *Structure) HasFreeEnergyCapacity() bool {
	return s.Store != nil && s.Store.FreeCapacity() > 0
}

type ConstructionSite struct {
	Identity      ObjectID
	Type          StructureType
	Position      shared.Position
	Progress      int
	ProgressTotal int
}

func (c *ConstructionSite) ID() ObjectID          { return c.Identity }
func (c *ConstructionSite) Pos() shared.Position { return c.Position }

// Source is a harvestable resource node
type Source struct {
	Identity       ObjectID
	Position       shared.Position
	Energy         int
	EnergyCapacity int
}

func (s *Source) ID() ObjectID          { return s.Identity }
func (s *Source) Pos() shared.Position { return s.Position }

type Flag struct {
	Name     string
	Position shared.Position
}

func (f *Flag) ID() ObjectID          { return ObjectID(f.Name) }
func (f *Flag) Pos() shared.Position { return f.Position }
