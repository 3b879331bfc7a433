package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/andrescamacho/colonybot-go/internal/domain/catalog"
	"github.com/andrescamacho/colonybot-go/internal/domain/world"
)

// Scenario is the YAML description of a starting world
type Scenario struct {
	Name       string          `yaml:"name"`
	Tick       uint64          `yaml:"tick"`
	Rooms      []RoomSpec      `yaml:"rooms"`
	Spawns     []SpawnSpec     `yaml:"spawns"`
	Extensions []ExtensionSpec `yaml:"extensions"`
	Sources    []SourceSpec    `yaml:"sources"`
	Sites      []SiteSpec      `yaml:"sites"`
	Units      []UnitSpec      `yaml:"units"`
	Flags      []FlagSpec      `yaml:"flags"`
}

// Point places an object in a room
type Point struct {
	Room string `yaml:"room"`
	X    int    `yaml:"x"`
	Y    int    `yaml:"y"`
}

type RoomSpec struct {
	Name       string          `yaml:"name"`
	Controller *ControllerSpec `yaml:"controller"`
}

type ControllerSpec struct {
	ID       string `yaml:"id"`
	X        int    `yaml:"x"`
	Y        int    `yaml:"y"`
	Level    int    `yaml:"level"`
	Progress int    `yaml:"progress"`
}

type SpawnSpec struct {
	Point  `yaml:",inline"`
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Energy int    `yaml:"energy"`
}

type ExtensionSpec struct {
	Point  `yaml:",inline"`
	ID     string `yaml:"id"`
	Energy int    `yaml:"energy"`
}

type SourceSpec struct {
	Point    `yaml:",inline"`
	ID       string `yaml:"id"`
	Energy   int    `yaml:"energy"`
	Capacity int    `yaml:"capacity"`
}

type SiteSpec struct {
	Point    `yaml:",inline"`
	ID       string              `yaml:"id"`
	Type     world.StructureType `yaml:"type"`
	Progress int                 `yaml:"progress"`
	Total    int                 `yaml:"total"`
}

// UnitSpec describes a unit alive at the start of the scenario
type UnitSpec struct {
	Point  `yaml:",inline"`
	Name   string               `yaml:"name"`
	Build  catalog.BuildProfile `yaml:"build"`
	Energy int                  `yaml:"energy"`
}

type FlagSpec struct {
	Point `yaml:",inline"`
	Name  string `yaml:"name"`
}

// LoadScenario reads a scenario file
func LoadScenario(path string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	return ParseScenario(raw)
}

// ParseScenario decodes and validates scenario YAML
func ParseScenario(raw []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(raw, &sc); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate checks references and value ranges
func (sc *Scenario) Validate() error {
	rooms := make(map[string]bool, len(sc.Rooms))
	ids := make(map[string]bool)

	claim := func(kind, id string) error {
		if id == "" {
			return fmt.Errorf("%s without id", kind)
		}
		if ids[id] {
			return fmt.Errorf("duplicate object id %q", id)
		}
		ids[id] = true
		return nil
	}
	inRoom := func(kind, id string, p Point) error {
		if !rooms[p.Room] {
			return fmt.Errorf("%s %q is in unknown room %q", kind, id, p.Room)
		}
		return nil
	}

	for _, r := range sc.Rooms {
		if r.Name == "" {
			return fmt.Errorf("room without name")
		}
		if rooms[r.Name] {
			return fmt.Errorf("duplicate room %q", r.Name)
		}
		rooms[r.Name] = true
		if r.Controller != nil {
			if err := claim("controller", r.Controller.ID); err != nil {
				return err
			}
			if r.Controller.Level < 1 || r.Controller.Level > maxControllerLevel {
				return fmt.Errorf("controller %q has invalid level %d", r.Controller.ID, r.Controller.Level)
			}
		}
	}

	for _, s := range sc.Spawns {
		if err := claim("spawn", s.ID); err != nil {
			return err
		}
		if err := inRoom("spawn", s.ID, s.Point); err != nil {
			return err
		}
		if s.Name == "" {
			return fmt.Errorf("spawn %q without name", s.ID)
		}
		if s.Energy < 0 || s.Energy > SpawnEnergyCapacity {
			return fmt.Errorf("spawn %q energy %d out of range", s.ID, s.Energy)
		}
	}
	for _, e := range sc.Extensions {
		if err := claim("extension", e.ID); err != nil {
			return err
		}
		if err := inRoom("extension", e.ID, e.Point); err != nil {
			return err
		}
		if e.Energy < 0 || e.Energy > ExtensionEnergyCapacity {
			return fmt.Errorf("extension %q energy %d out of range", e.ID, e.Energy)
		}
	}
	for _, s := range sc.Sources {
		if err := claim("source", s.ID); err != nil {
			return err
		}
		if err := inRoom("source", s.ID, s.Point); err != nil {
			return err
		}
		if s.Capacity <= 0 || s.Energy < 0 || s.Energy > s.Capacity {
			return fmt.Errorf("source %q energy %d/%d out of range", s.ID, s.Energy, s.Capacity)
		}
	}
	for _, s := range sc.Sites {
		if err := claim("site", s.ID); err != nil {
			return err
		}
		if err := inRoom("site", s.ID, s.Point); err != nil {
			return err
		}
		if s.Total <= 0 || s.Progress < 0 || s.Progress >= s.Total {
			return fmt.Errorf("site %q progress %d/%d out of range", s.ID, s.Progress, s.Total)
		}
	}
	for _, u := range sc.Units {
		if err := claim("unit", u.Name); err != nil {
			return err
		}
		if err := inRoom("unit", u.Name, u.Point); err != nil {
			return err
		}
		if !u.Build.IsValid() {
			return fmt.Errorf("unit %q has unknown build %q", u.Name, u.Build)
		}
		if u.Energy < 0 || u.Energy > u.Build.Parts().CarryCapacity() {
			return fmt.Errorf("unit %q energy %d out of range", u.Name, u.Energy)
		}
	}
	for _, f := range sc.Flags {
		if err := inRoom("flag", f.Name, f.Point); err != nil {
			return err
		}
	}

	return nil
}

// StarterScenario is a single level-1 room with one spawn, two sources
// and a pending extension
func StarterScenario() *Scenario {
	const room = "W1N1"
	return &Scenario{
		Name: "starter",
		Rooms: []RoomSpec{
			{Name: room, Controller: &ControllerSpec{ID: "controller-W1N1", X: 20, Y: 8, Level: 1}},
		},
		Spawns: []SpawnSpec{
			{ID: "spawn-1", Name: "Spawn1", Point: Point{Room: room, X: 25, Y: 25}, Energy: SpawnEnergyCapacity},
		},
		Sources: []SourceSpec{
			{ID: "source-1", Point: Point{Room: room, X: 12, Y: 20}, Energy: 3000, Capacity: 3000},
			{ID: "source-2", Point: Point{Room: room, X: 38, Y: 30}, Energy: 3000, Capacity: 3000},
		},
		Sites: []SiteSpec{
			{ID: "site-1", Type: world.StructureExtension, Point: Point{Room: room, X: 27, Y: 25}, Total: 3000},
		},
	}
}
