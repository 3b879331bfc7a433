package colony_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/colonybot-go/internal/application/colony"
	"github.com/andrescamacho/colonybot-go/internal/application/logging"
	"github.com/andrescamacho/colonybot-go/internal/domain/catalog"
	"github.com/andrescamacho/colonybot-go/internal/domain/job"
	"github.com/andrescamacho/colonybot-go/internal/domain/shared"
	"github.com/andrescamacho/colonybot-go/internal/domain/unit"
	"github.com/andrescamacho/colonybot-go/internal/domain/world"
	"github.com/andrescamacho/colonybot-go/test/helpers"
)

type tickFixture struct {
	snapshots *helpers.StaticSnapshotProvider
	exec      *helpers.MockExecutor
	states    *helpers.MockUnitStateRepository
	logger    *helpers.RecordingLogger
	handler   *colony.RunTickHandler
}

func newTickFixture(snap *world.Snapshot) *tickFixture {
	f := &tickFixture{
		snapshots: &helpers.StaticSnapshotProvider{Snap: snap},
		exec:      helpers.NewMockExecutor(),
		states:    helpers.NewMockUnitStateRepository(),
		logger:    helpers.NewRecordingLogger(),
	}
	f.handler = colony.NewRunTickHandler(f.snapshots, f.exec, f.states, nil, nil,
		shared.NewMockClock(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))
	return f
}

func (f *tickFixture) run(t *testing.T) *colony.TickReport {
	t.Helper()
	ctx := logging.WithLogger(context.Background(), f.logger)
	resp, err := f.handler.Handle(ctx, &colony.RunTickCommand{RunID: "test-run"})
	require.NoError(t, err)
	return resp.(*colony.RunTickResponse).Report
}

func (f *tickFixture) seed(t *testing.T, name string, build catalog.BuildProfile, j job.Job) {
	t.Helper()
	s := unit.NewUnitState(build)
	if j != nil {
		require.NoError(t, s.Assign(j))
	}
	f.states.States[name] = s
}

func TestRunTick_SpawnsIntoEmptyRoom(t *testing.T) {
	snap := helpers.NewSnapshotBuilder(42, 1, 300, 300).
		WithSpawn("spawn-1", "Spawn1", helpers.At(25, 25), 300).
		Build()
	f := newTickFixture(snap)

	report := f.run(t)

	spawns := f.exec.CallsOf("spawn")
	require.Len(t, spawns, 1)
	assert.Equal(t, "Worker1_1:Spawn1:42", spawns[0].Name)
	assert.Equal(t, catalog.Worker1_1.Parts().Body(), spawns[0].Body)

	require.Len(t, report.AcceptedSpawns(), 1)
	stored, ok := f.states.Get("Worker1_1:Spawn1:42")
	require.True(t, ok, "state is written as soon as the spawn is accepted")
	assert.Equal(t, catalog.Worker1_1, stored.Build())
	assert.True(t, stored.IsIdle())
}

func TestRunTick_RejectedSpawnWritesNoState(t *testing.T) {
	snap := helpers.NewSnapshotBuilder(7, 1, 100, 300).
		WithSpawn("spawn-1", "Spawn1", helpers.At(25, 25), 100).
		Build()
	f := newTickFixture(snap)
	f.exec.SetOutcome("spawn", shared.OutcomeNotEnough)

	report := f.run(t)

	require.Len(t, report.Spawns, 1)
	assert.Empty(t, report.AcceptedSpawns())
	assert.Empty(t, f.states.States)
	assert.Equal(t, 0, report.PersistFailures)
}

func TestRunTick_NoSpawnAtCap(t *testing.T) {
	b := helpers.NewSnapshotBuilder(3, 1, 300, 300).
		WithSpawn("spawn-1", "Spawn1", helpers.At(25, 25), 300).
		WithSource("src", helpers.At(5, 5), 3000)
	names := []string{"a", "b", "c", "d", "e"}
	for _, n := range names {
		b.WithUnit(n, catalog.Worker1_1, helpers.At(10, 10), 0)
	}
	f := newTickFixture(b.Build())
	for _, n := range names {
		f.seed(t, n, catalog.Worker1_1, nil)
	}

	report := f.run(t)

	assert.Empty(t, f.exec.CallsOf("spawn"))
	assert.Equal(t, 5, report.ByBuild[catalog.Worker1_1])
}

func TestRunTick_RoomWithoutControllerNeverSpawns(t *testing.T) {
	snap := helpers.NewSnapshotBuilder(3, 0, 300, 300).
		WithSpawn("spawn-1", "Spawn1", helpers.At(25, 25), 300).
		Build()
	f := newTickFixture(snap)

	report := f.run(t)

	assert.Empty(t, f.exec.CallsOf("spawn"))
	assert.Empty(t, report.Spawns)
}

func TestRunTick_AssignsAndDrivesIdleUnits(t *testing.T) {
	snap := helpers.NewSnapshotBuilder(10, 1, 300, 300).
		WithSource("src", helpers.At(12, 10), 3000).
		WithUnit("empty", catalog.Worker1_1, helpers.At(10, 10), 0).
		WithUnit("loaded", catalog.Worker1_1, helpers.At(10, 10), 40).
		Build()
	f := newTickFixture(snap)
	f.seed(t, "empty", catalog.Worker1_1, nil)
	f.seed(t, "loaded", catalog.Worker1_1, nil)

	report := f.run(t)

	assert.Equal(t, 2, report.JobsAssigned)
	assert.Equal(t, 2, report.ByJob[job.KindNone], "census is taken before assignment")

	empty, _ := f.states.Get("empty")
	assert.Equal(t, job.KindHarvest, empty.JobKind())
	assert.Equal(t, string(job.HarvestHarvesting), empty.Job().Stage(), "assigned jobs are driven in the same tick")

	loaded, _ := f.states.Get("loaded")
	assert.Equal(t, job.KindDistributeEnergy, loaded.JobKind())
}

func TestRunTick_FinishedJobIsClearedBeforeDrive(t *testing.T) {
	snap := helpers.NewSnapshotBuilder(10, 1, 300, 300).
		WithUnit("u1", catalog.Worker1_1, helpers.At(10, 10), 50).
		Build()
	f := newTickFixture(snap)
	done, err := job.FromData(job.Data{Kind: "harvest", Stage: "done"})
	require.NoError(t, err)
	f.seed(t, "u1", catalog.Worker1_1, done)

	report := f.run(t)

	assert.Equal(t, 1, report.JobsCleared)
	assert.Equal(t, 0, report.JobsAssigned)
	stored, _ := f.states.Get("u1")
	assert.True(t, stored.IsIdle(), "reassignment waits for the next tick")
	assert.Empty(t, f.exec.Calls)
}

func TestRunTick_UnreadableStateSkipsOnlyThatUnit(t *testing.T) {
	snap := helpers.NewSnapshotBuilder(10, 1, 300, 300).
		WithSource("src", helpers.At(12, 10), 3000).
		WithUnit("broken", catalog.Worker1_1, helpers.At(3, 4), 0).
		WithUnit("missing", catalog.Worker1_1, helpers.At(5, 5), 0).
		WithUnit("fine", catalog.Worker1_1, helpers.At(10, 10), 0).
		Build()
	f := newTickFixture(snap)
	f.seed(t, "fine", catalog.Worker1_1, nil)
	f.states.LoadErrs["broken"] = errors.New("corrupt record")

	report := f.run(t)

	assert.Equal(t, 3, report.UnitsSeen)
	assert.Equal(t, 1, report.UnitsLoaded)
	assert.Equal(t, 2, report.UnitsSkipped)
	assert.Equal(t, []string{"fine"}, f.states.Stores)

	warnings := f.logger.WithLevel(logging.LevelWarn)
	require.Len(t, warnings, 2)
	assert.Contains(t, warnings[0].Message, "broken")
	assert.Contains(t, warnings[0].Message, "[W1N1 3, 4]")

	fine, _ := f.states.Get("fine")
	assert.Equal(t, job.KindHarvest, fine.JobKind())
}

func TestRunTick_DriveErrorIsLoggedAndIsolated(t *testing.T) {
	snap := helpers.NewSnapshotBuilder(10, 1, 300, 300).
		WithUnit("lost", catalog.Worker1_1, helpers.At(10, 10), 0).
		Build()
	f := newTickFixture(snap)
	f.seed(t, "lost", catalog.Worker1_1, nil)

	report := f.run(t)

	assert.Equal(t, 1, report.DriveFailures)
	assert.True(t, f.logger.Contains("Error while driving unit lost at [10, 10]"))
	stored, _ := f.states.Get("lost")
	assert.Equal(t, job.KindHarvest, stored.JobKind(), "state is still persisted")
	assert.Equal(t, string(job.HarvestEntry), stored.Job().Stage())
}

func TestRunTick_UnhandledOutcomeDoesNotStopLaterUnits(t *testing.T) {
	snap := helpers.NewSnapshotBuilder(10, 1, 300, 300).
		WithSource("src", helpers.At(11, 10), 3000).
		WithUnit("failing", catalog.Worker1_1, helpers.At(10, 10), 0).
		WithUnit("healthy", catalog.Worker1_1, helpers.At(10, 10), 0).
		Build()
	f := newTickFixture(snap)

	harvesting, err := job.FromData(job.Data{Kind: string(job.KindHarvest), Stage: string(job.HarvestHarvesting), Target: "src"})
	require.NoError(t, err)
	f.seed(t, "failing", catalog.Worker1_1, harvesting)
	f.seed(t, "healthy", catalog.Worker1_1, nil)
	f.exec.SetOutcome("harvest", shared.OutcomeCode(-42))

	report := f.run(t)

	assert.Equal(t, 1, report.DriveFailures)
	assert.True(t, f.logger.Contains("Error while driving unit failing"))
	assert.Equal(t, []string{"failing", "healthy"}, f.states.Stores)

	healthy, ok := f.states.Get("healthy")
	require.True(t, ok)
	assert.Equal(t, job.KindHarvest, healthy.JobKind())
	assert.Equal(t, string(job.HarvestHarvesting), healthy.Job().Stage(), "the later unit is still driven")
	assert.Equal(t, "src", string(healthy.Job().Target().ID()))
}

func TestRunTick_PanicInDriveIsContained(t *testing.T) {
	snap := helpers.NewSnapshotBuilder(10, 1, 300, 300).
		WithSource("src", helpers.At(11, 10), 3000).
		WithUnit("u1", catalog.Worker1_1, helpers.At(10, 10), 0).
		WithUnit("u2", catalog.Worker1_1, helpers.At(10, 10), 0).
		Build()
	f := newTickFixture(snap)
	f.seed(t, "u1", catalog.Worker1_1, job.NewHarvest())
	f.seed(t, "u2", catalog.Worker1_1, job.NewHarvest())
	f.exec.PanicOn = "say"

	report := f.run(t)

	assert.Equal(t, 2, report.DriveFailures)
	assert.Len(t, f.states.Stores, 2)
}

func TestRunTick_StoreFailureDoesNotStopOthers(t *testing.T) {
	snap := helpers.NewSnapshotBuilder(10, 1, 300, 300).
		WithSource("src", helpers.At(11, 10), 3000).
		WithUnit("u1", catalog.Worker1_1, helpers.At(10, 10), 0).
		WithUnit("u2", catalog.Worker1_1, helpers.At(10, 10), 0).
		Build()
	f := newTickFixture(snap)
	f.seed(t, "u1", catalog.Worker1_1, nil)
	f.seed(t, "u2", catalog.Worker1_1, nil)
	f.states.StoreErrs["u1"] = shared.NewStateEncodeError("u1", errors.New("disk full"))

	report := f.run(t)

	assert.Equal(t, 1, report.PersistFailures)
	assert.Equal(t, []string{"u1", "u2"}, f.states.Stores)
	u2, _ := f.states.Get("u2")
	assert.Equal(t, job.KindHarvest, u2.JobKind())
}

func TestRunTick_SnapshotFailureAbortsTick(t *testing.T) {
	f := newTickFixture(nil)
	f.snapshots.Err = errors.New("world unavailable")

	_, err := f.handler.Handle(context.Background(), &colony.RunTickCommand{})

	assert.Error(t, err)
	assert.Empty(t, f.exec.Calls)
}

func TestRunTick_RejectsWrongRequest(t *testing.T) {
	f := newTickFixture(helpers.NewSnapshotBuilder(1, 1, 300, 300).Build())

	_, err := f.handler.Handle(context.Background(), "not a command")

	assert.Error(t, err)
}

func TestChooseJob(t *testing.T) {
	tests := []struct {
		energy int
		want   job.Kind
	}{
		{0, job.KindHarvest},
		{25, job.KindHarvest},
		{26, job.KindDistributeEnergy},
		{50, job.KindDistributeEnergy},
	}

	for _, tt := range tests {
		got := colony.ChooseJob(shared.Store{Capacity: 50, Energy: tt.energy})
		assert.Equal(t, tt.want, got.Kind(), "energy %d", tt.energy)
	}
}

func TestSpawnName(t *testing.T) {
	assert.Equal(t, "Worker2_2:Spawn1:1234", colony.SpawnName(catalog.Worker2_2, "Spawn1", 1234))
}
