package sim

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/colonybot-go/internal/domain/catalog"
	"github.com/andrescamacho/colonybot-go/internal/domain/world"
)

const scenarioYAML = `
name: two-sources
tick: 100
rooms:
  - name: W1N1
    controller: {id: ctrl, x: 20, y: 8, level: 2, progress: 10}
spawns:
  - {id: spawn-1, name: Spawn1, room: W1N1, x: 25, y: 25, energy: 250}
extensions:
  - {id: ext-1, room: W1N1, x: 26, y: 25, energy: 50}
sources:
  - {id: source-1, room: W1N1, x: 12, y: 20, energy: 1000, capacity: 3000}
sites:
  - {id: site-1, type: extension, room: W1N1, x: 27, y: 25, total: 3000}
units:
  - {name: veteran, build: Worker2_1, room: W1N1, x: 13, y: 20, energy: 40}
flags:
  - {name: rally, room: W1N1, x: 30, y: 30}
`

func TestParseScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(scenarioYAML))
	require.NoError(t, err)

	assert.Equal(t, "two-sources", sc.Name)
	assert.Equal(t, uint64(100), sc.Tick)
	require.Len(t, sc.Rooms, 1)
	assert.Equal(t, 2, sc.Rooms[0].Controller.Level)
	assert.Equal(t, Point{Room: "W1N1", X: 25, Y: 25}, sc.Spawns[0].Point)
	assert.Equal(t, world.StructureExtension, sc.Sites[0].Type)
	assert.Equal(t, catalog.Worker2_1, sc.Units[0].Build)
	assert.Equal(t, "rally", sc.Flags[0].Name)
}

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(scenarioYAML), 0o644))

	sc, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Len(t, sc.Sources, 1)

	_, err = LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseScenario_Malformed(t *testing.T) {
	_, err := ParseScenario([]byte("rooms: [unterminated"))
	assert.Error(t, err)
}

func TestScenarioValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(sc *Scenario)
		errMsg string
	}{
		{"duplicate id", func(sc *Scenario) { sc.Sources[1].ID = "source-1" }, "duplicate object id"},
		{"unknown room", func(sc *Scenario) { sc.Spawns[0].Room = "W9N9" }, "unknown room"},
		{"controller level", func(sc *Scenario) { sc.Rooms[0].Controller.Level = 9 }, "invalid level"},
		{"spawn overfull", func(sc *Scenario) { sc.Spawns[0].Energy = 301 }, "out of range"},
		{"source above capacity", func(sc *Scenario) { sc.Sources[0].Energy = 4000 }, "out of range"},
		{"finished site", func(sc *Scenario) { sc.Sites[0].Progress = 3000 }, "out of range"},
		{"unknown build", func(sc *Scenario) {
			sc.Units = append(sc.Units, UnitSpec{Name: "u", Build: "Worker9_9", Point: Point{Room: "W1N1"}})
		}, "unknown build"},
		{"unit overfull", func(sc *Scenario) {
			sc.Units = append(sc.Units, UnitSpec{Name: "u", Build: catalog.Worker1_1, Point: Point{Room: "W1N1"}, Energy: 51})
		}, "out of range"},
		{"spawn without name", func(sc *Scenario) { sc.Spawns[0].Name = "" }, "without name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := StarterScenario()
			tt.mutate(sc)
			err := sc.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestStarterScenario_IsValid(t *testing.T) {
	assert.NoError(t, StarterScenario().Validate())
}

func TestBundledScenarios_AreValid(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "..", "configs", "scenarios", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			sc, err := LoadScenario(path)
			require.NoError(t, err)
			_, err = NewWorld(sc)
			assert.NoError(t, err)
		})
	}
}
