package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/colonybot-go/internal/domain/catalog"
	"github.com/andrescamacho/colonybot-go/internal/domain/shared"
	"github.com/andrescamacho/colonybot-go/internal/domain/world"
)

const room = "W1N1"

// newTestWorld starts from the starter room plus the given units
func newTestWorld(t *testing.T, mutate func(sc *Scenario)) *World {
	t.Helper()
	sc := StarterScenario()
	if mutate != nil {
		mutate(sc)
	}
	w, err := NewWorld(sc)
	require.NoError(t, err)
	return w
}

func withUnit(name string, build catalog.BuildProfile, x, y, energy int) func(sc *Scenario) {
	return func(sc *Scenario) {
		sc.Units = append(sc.Units, UnitSpec{Name: name, Build: build, Point: Point{Room: room, X: x, Y: y}, Energy: energy})
	}
}

func snapshot(t *testing.T, w *World) *world.Snapshot {
	t.Helper()
	snap, err := w.Snapshot(context.Background())
	require.NoError(t, err)
	return snap
}

func unitIn(t *testing.T, snap *world.Snapshot, name string) *world.Unit {
	t.Helper()
	for _, u := range snap.Units {
		if u.Name == name {
			return u
		}
	}
	t.Fatalf("unit %s not in snapshot", name)
	return nil
}

func TestSnapshot_RoomEnergyAndCopies(t *testing.T) {
	w := newTestWorld(t, withUnit("w1", catalog.Worker1_1, 13, 20, 10))

	snap := snapshot(t, w)
	require.Len(t, snap.Rooms, 1)
	assert.Equal(t, 300, snap.Rooms[0].EnergyAvailable)
	assert.Equal(t, 300, snap.Rooms[0].EnergyCapacity)
	assert.Equal(t, 1, snap.Rooms[0].Level())

	u := unitIn(t, snap, "w1")
	assert.Equal(t, 50, u.Store.Capacity)
	assert.Equal(t, 10, u.Store.Energy)

	// Mutating a snapshot leaves the world alone
	u.Store.Energy = 0
	u.Body[catalog.PartWork] = 10
	snap.Sources[0].Energy = 0
	again := snapshot(t, w)
	assert.Equal(t, 10, unitIn(t, again, "w1").Store.Energy)
	assert.Equal(t, 1, unitIn(t, again, "w1").Body.Count(catalog.PartWork))
	assert.Equal(t, 3000, again.Sources[0].Energy)
}

func TestSnapshot_CanceledContext(t *testing.T) {
	w := newTestWorld(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := w.Snapshot(ctx)
	assert.Error(t, err)
}

func TestNewWorld_RejectsInvalidScenario(t *testing.T) {
	sc := StarterScenario()
	sc.Spawns[0].Room = "nowhere"

	_, err := NewWorld(sc)
	assert.Error(t, err)
}

func TestInitialUnits(t *testing.T) {
	w := newTestWorld(t, withUnit("veteran", catalog.Worker2_2, 13, 20, 0))

	assert.Equal(t, map[string]catalog.BuildProfile{"veteran": catalog.Worker2_2}, w.InitialUnits())
}

func TestHarvest_EffectVisibleAfterAdvance(t *testing.T) {
	w := newTestWorld(t, withUnit("w1", catalog.Worker1_1, 13, 20, 0))

	require.Equal(t, shared.OutcomeOK, w.Harvest("w1", "source-1"))
	assert.Equal(t, 0, unitIn(t, snapshot(t, w), "w1").Store.Energy)

	res := w.Advance()

	assert.Equal(t, uint64(1), res.Tick)
	assert.Equal(t, 2, res.Harvested)
	snap := snapshot(t, w)
	assert.Equal(t, 2, unitIn(t, snap, "w1").Store.Energy)
	assert.Equal(t, 2998, snap.Sources[0].Energy)
}

func TestHarvest_Outcomes(t *testing.T) {
	w := newTestWorld(t, func(sc *Scenario) {
		withUnit("near", catalog.Worker1_1, 13, 20, 0)(sc)
		withUnit("far", catalog.Worker1_1, 30, 30, 0)(sc)
		sc.Sources[0].Energy = 0
	})

	assert.Equal(t, shared.OutcomeNotEnough, w.Harvest("near", "source-1"))
	assert.Equal(t, shared.OutcomeNotInRange, w.Harvest("far", "source-2"))
	assert.Equal(t, shared.OutcomeInvalidTarget, w.Harvest("near", "spawn-1"))
	assert.Equal(t, shared.OutcomeInvalidTarget, w.Harvest("ghost", "source-1"))
}

func TestHarvest_CappedByCarryCapacity(t *testing.T) {
	w := newTestWorld(t, withUnit("w1", catalog.Worker1_1, 13, 20, 49))

	require.Equal(t, shared.OutcomeOK, w.Harvest("w1", "source-1"))
	w.Advance()

	assert.Equal(t, 50, unitIn(t, snapshot(t, w), "w1").Store.Energy)
}

func TestMoveTo_OneStepPerTick(t *testing.T) {
	w := newTestWorld(t, withUnit("w1", catalog.Worker1_1, 10, 10, 0))
	target := shared.Position{Room: room, X: 13, Y: 10}

	require.Equal(t, shared.OutcomeOK, w.MoveTo("w1", target))
	w.Advance()
	assert.Equal(t, 11, unitIn(t, snapshot(t, w), "w1").Position.X)

	assert.Equal(t, shared.OutcomeInvalidTarget, w.MoveTo("w1", shared.Position{Room: "W2N1", X: 1, Y: 1}))
}

func TestMoveTo_LatestRequestWins(t *testing.T) {
	w := newTestWorld(t, withUnit("w1", catalog.Worker1_1, 10, 10, 0))

	w.MoveTo("w1", shared.Position{Room: room, X: 20, Y: 10})
	w.MoveTo("w1", shared.Position{Room: room, X: 10, Y: 20})
	w.Advance()

	pos := unitIn(t, snapshot(t, w), "w1").Position
	assert.Equal(t, 10, pos.X)
	assert.Equal(t, 11, pos.Y)
}

func TestTransfer_Outcomes(t *testing.T) {
	w := newTestWorld(t, func(sc *Scenario) {
		withUnit("carrier", catalog.Worker1_1, 24, 25, 30)(sc)
		withUnit("empty", catalog.Worker1_1, 23, 23, 0)(sc)
		sc.Extensions = append(sc.Extensions, ExtensionSpec{ID: "ext-1", Point: Point{Room: room, X: 24, Y: 24}, Energy: 40})
	})

	assert.Equal(t, shared.OutcomeFull, w.Transfer("carrier", "spawn-1", shared.ResourceEnergy))
	assert.Equal(t, shared.OutcomeNotEnough, w.Transfer("empty", "ext-1", shared.ResourceEnergy))
	assert.Equal(t, shared.OutcomeNotInRange, w.Transfer("empty", "spawn-1", shared.ResourceEnergy))
	assert.Equal(t, shared.OutcomeInvalidTarget, w.Transfer("carrier", "source-1", shared.ResourceEnergy))

	require.Equal(t, shared.OutcomeOK, w.Transfer("carrier", "ext-1", shared.ResourceEnergy))
	res := w.Advance()

	assert.Equal(t, 10, res.Delivered)
	snap := snapshot(t, w)
	assert.Equal(t, 20, unitIn(t, snap, "carrier").Store.Energy)
	assert.Equal(t, 350, snap.Rooms[0].EnergyAvailable)
}

func TestBuild_CompletesSiteIntoExtension(t *testing.T) {
	w := newTestWorld(t, func(sc *Scenario) {
		withUnit("builder", catalog.Worker2_2, 27, 28, 40)(sc)
		sc.Sites[0].Progress = 2992
	})

	require.Equal(t, shared.OutcomeOK, w.Build("builder", "site-1"))
	res := w.Advance()

	assert.Equal(t, 8, res.Built)
	require.Len(t, res.Completed, 1)

	snap := snapshot(t, w)
	assert.Empty(t, snap.ConstructionSites)
	assert.Len(t, snap.Extensions(), 1)
	assert.Equal(t, 32, unitIn(t, snap, "builder").Store.Energy)
	assert.Equal(t, 350, snap.Rooms[0].EnergyCapacity)
}

func TestBuild_Outcomes(t *testing.T) {
	w := newTestWorld(t, func(sc *Scenario) {
		withUnit("empty", catalog.Worker1_1, 27, 26, 0)(sc)
		withUnit("far", catalog.Worker1_1, 40, 40, 10)(sc)
	})

	assert.Equal(t, shared.OutcomeNotEnough, w.Build("empty", "site-1"))
	assert.Equal(t, shared.OutcomeNotInRange, w.Build("far", "site-1"))
	assert.Equal(t, shared.OutcomeInvalidTarget, w.Build("far", "source-1"))
}

func TestUpgradeController_LevelsUp(t *testing.T) {
	w := newTestWorld(t, func(sc *Scenario) {
		withUnit("upgrader", catalog.Worker2_2, 21, 9, 10)(sc)
		sc.Rooms[0].Controller.Progress = 199
	})

	require.Equal(t, shared.OutcomeOK, w.UpgradeController("upgrader", "controller-W1N1"))
	res := w.Advance()

	assert.Equal(t, 2, res.Upgraded)
	assert.Equal(t, 2, res.LevelUps[room])
	snap := snapshot(t, w)
	assert.Equal(t, 2, snap.Rooms[0].Level())
	assert.Equal(t, 1, snap.Rooms[0].Controller.Progress)
}

func TestSay_IsImmediate(t *testing.T) {
	w := newTestWorld(t, withUnit("w1", catalog.Worker1_1, 10, 10, 0))

	assert.Equal(t, shared.OutcomeOK, w.Say("w1", "harvest"))
	msg, ok := w.LastSaid("w1")
	assert.True(t, ok)
	assert.Equal(t, "harvest", msg)

	assert.Equal(t, shared.OutcomeInvalidTarget, w.Say("ghost", "boo"))
}

func TestSpawn_Outcomes(t *testing.T) {
	w := newTestWorld(t, withUnit("taken", catalog.Worker1_1, 10, 10, 0))
	body := catalog.Worker1_1.Parts().Body()

	assert.Equal(t, shared.OutcomeNameExists, w.Spawn("spawn-1", body, "taken"))
	assert.Equal(t, shared.OutcomeNotEnough, w.Spawn("spawn-1", catalog.Worker2_2.Parts().Body(), "big"))
	assert.Equal(t, shared.OutcomeInvalidTarget, w.Spawn("spawn-9", body, "new"))
	assert.Equal(t, shared.OutcomeInvalidTarget, w.Spawn("spawn-1", nil, "new"))

	require.Equal(t, shared.OutcomeOK, w.Spawn("spawn-1", body, "new"))
	assert.Equal(t, shared.OutcomeBusy, w.Spawn("spawn-1", body, "other"))
}

func TestSpawn_EnergyReservedPerRoom(t *testing.T) {
	w := newTestWorld(t, func(sc *Scenario) {
		sc.Spawns = append(sc.Spawns, SpawnSpec{ID: "spawn-2", Name: "Spawn2", Point: Point{Room: room, X: 30, Y: 25}})
	})
	body := catalog.Worker1_1.Parts().Body()

	require.Equal(t, shared.OutcomeOK, w.Spawn("spawn-1", body, "first"))
	assert.Equal(t, shared.OutcomeNotEnough, w.Spawn("spawn-2", body, "second"))
}

func TestSpawn_UnitAppearsAfterSpawnTime(t *testing.T) {
	w := newTestWorld(t, nil)

	require.Equal(t, shared.OutcomeOK, w.Spawn("spawn-1", catalog.Worker1_1.Parts().Body(), "Worker1_1:Spawn1:0"))
	w.Advance()

	snap := snapshot(t, w)
	assert.True(t, snap.Spawns[0].Spawning)
	assert.Equal(t, 100+SpawnRegenPerTick, snap.Spawns[0].Store.Energy)
	assert.Empty(t, snap.Units)

	// A spawn with a unit in progress is busy
	assert.Equal(t, shared.OutcomeBusy, w.Spawn("spawn-1", catalog.Worker1_1.Parts().Body(), "Worker1_1:Spawn1:0"))

	var spawned []string
	for i := 1; i < 3*SpawnTicksPerPart; i++ {
		spawned = append(spawned, w.Advance().Spawned...)
	}

	assert.Equal(t, []string{"Worker1_1:Spawn1:0"}, spawned)
	snap = snapshot(t, w)
	assert.False(t, snap.Spawns[0].Spawning)
	u := unitIn(t, snap, "Worker1_1:Spawn1:0")
	assert.Equal(t, snap.Spawns[0].Position, u.Position)
	assert.Equal(t, catalog.Worker1_1.Parts(), u.Body)
}

func TestSpawn_ChargesExtensionsAfterSpawns(t *testing.T) {
	w := newTestWorld(t, func(sc *Scenario) {
		sc.Spawns[0].Energy = 150
		sc.Extensions = append(sc.Extensions, ExtensionSpec{ID: "ext-1", Point: Point{Room: room, X: 24, Y: 24}, Energy: 50})
	})

	require.Equal(t, shared.OutcomeOK, w.Spawn("spawn-1", catalog.Worker1_1.Parts().Body(), "w"))
	w.Advance()

	snap := snapshot(t, w)
	assert.Equal(t, SpawnRegenPerTick, snap.Spawns[0].Store.Energy)
	assert.Equal(t, 0, snap.Extensions()[0].Store.Energy)
}

func TestSources_RefillOnSchedule(t *testing.T) {
	w := newTestWorld(t, func(sc *Scenario) {
		sc.Sources[0].Energy = 10
	})

	for i := 0; i < SourceRegenTicks-1; i++ {
		w.Advance()
	}
	assert.Equal(t, 10, snapshot(t, w).Sources[0].Energy)

	w.Advance()
	assert.Equal(t, 3000, snapshot(t, w).Sources[0].Energy)
	assert.Equal(t, uint64(SourceRegenTicks), w.Tick())
}
