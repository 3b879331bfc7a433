package runner_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/colonybot-go/internal/adapters/runner"
	"github.com/andrescamacho/colonybot-go/internal/adapters/sim"
	"github.com/andrescamacho/colonybot-go/internal/application/colony"
	"github.com/andrescamacho/colonybot-go/internal/application/logging"
	"github.com/andrescamacho/colonybot-go/internal/application/mediator"
	"github.com/andrescamacho/colonybot-go/internal/domain/catalog"
	"github.com/andrescamacho/colonybot-go/internal/domain/job"
	"github.com/andrescamacho/colonybot-go/test/helpers"
)

type fixture struct {
	world  *sim.World
	states *helpers.MockUnitStateRepository
	med    mediator.Mediator
}

func newFixture(t *testing.T, sc *sim.Scenario) *fixture {
	t.Helper()
	w, err := sim.NewWorld(sc)
	require.NoError(t, err)

	states := helpers.NewMockUnitStateRepository()
	med := mediator.NewMediator()
	handler := colony.NewRunTickHandler(w, w, states, nil, nil, nil)
	require.NoError(t, mediator.RegisterHandler[*colony.RunTickCommand](med, handler))

	return &fixture{world: w, states: states, med: med}
}

func TestTickRunner_SeedsScenarioUnitsOnce(t *testing.T) {
	sc := sim.StarterScenario()
	sc.Units = append(sc.Units, sim.UnitSpec{Name: "veteran", Build: catalog.Worker2_1, Point: sim.Point{Room: "W1N1", X: 10, Y: 10}})
	f := newFixture(t, sc)
	r := runner.NewTickRunner(f.med, f.world, f.states, runner.Options{RunID: "run-1"})

	n, err := r.Seed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	state, ok := f.states.Get("veteran")
	require.True(t, ok)
	assert.Equal(t, catalog.Worker2_1, state.Build())
	assert.True(t, state.IsIdle())

	n, err = r.Seed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestTickRunner_SpawnsFirstWorker(t *testing.T) {
	f := newFixture(t, sim.StarterScenario())
	var reports []*colony.TickReport
	r := runner.NewTickRunner(f.med, f.world, f.states, runner.Options{
		RunID:    "run-1",
		MaxTicks: 3 * sim.SpawnTicksPerPart,
		OnTick: func(report *colony.TickReport, _ sim.AdvanceResult) {
			reports = append(reports, report)
		},
	})

	summary, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3*sim.SpawnTicksPerPart, summary.Ticks)
	assert.Equal(t, []string{"Worker1_1:Spawn1:0"}, summary.Spawned)
	assert.False(t, summary.Stopped)
	require.Len(t, reports, summary.Ticks)
	require.Len(t, reports[0].AcceptedSpawns(), 1)

	// State is stored as soon as the spawn request is accepted
	state, ok := f.states.Get("Worker1_1:Spawn1:0")
	require.True(t, ok)
	assert.Equal(t, catalog.Worker1_1, state.Build())
}

func TestTickRunner_NewWorkerGetsAJob(t *testing.T) {
	f := newFixture(t, sim.StarterScenario())
	logger := helpers.NewRecordingLogger()
	ctx := logging.WithLogger(context.Background(), logger)
	r := runner.NewTickRunner(f.med, f.world, f.states, runner.Options{
		RunID:    "run-1",
		MaxTicks: 3*sim.SpawnTicksPerPart + 1,
	})

	summary, err := r.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.LastReport.JobsAssigned)
	state, ok := f.states.Get("Worker1_1:Spawn1:0")
	require.True(t, ok)
	assert.Equal(t, job.KindHarvest, state.JobKind())
	assert.True(t, logger.Contains("left the spawn"))
}

func TestTickRunner_CanceledContextStops(t *testing.T) {
	f := newFixture(t, sim.StarterScenario())
	r := runner.NewTickRunner(f.med, f.world, f.states, runner.Options{RunID: "run-1"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := r.Run(ctx)
	require.NoError(t, err)
	assert.True(t, summary.Stopped)
	assert.Equal(t, 0, summary.Ticks)
}

// levelUpWorld reports the same rooms levelling up on every advance
type levelUpWorld struct {
	tick     uint64
	levelUps map[string]int
}

func (w *levelUpWorld) Advance() sim.AdvanceResult {
	w.tick++
	return sim.AdvanceResult{Tick: w.tick, LevelUps: w.levelUps}
}

func (w *levelUpWorld) InitialUnits() map[string]catalog.BuildProfile { return nil }

type emptyTickHandler struct{}

func (emptyTickHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	return &colony.RunTickResponse{Report: &colony.TickReport{}}, nil
}

func TestTickRunner_LogsLevelUpsInRoomOrder(t *testing.T) {
	med := mediator.NewMediator()
	require.NoError(t, mediator.RegisterHandler[*colony.RunTickCommand](med, emptyTickHandler{}))
	w := &levelUpWorld{levelUps: map[string]int{"W3N1": 2, "W1N1": 3, "W2N1": 2, "W1N2": 4}}

	for i := 0; i < 5; i++ {
		logger := helpers.NewRecordingLogger()
		ctx := logging.WithLogger(context.Background(), logger)
		r := runner.NewTickRunner(med, w, helpers.NewMockUnitStateRepository(), runner.Options{RunID: "run-1", MaxTicks: 1})

		summary, err := r.Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, w.levelUps, summary.LevelUps)

		var rooms []string
		for _, e := range logger.Entries {
			rooms = append(rooms, e.Metadata["room"].(string))
		}
		assert.Equal(t, []string{"W1N1", "W1N2", "W2N1", "W3N1"}, rooms)
	}
}
