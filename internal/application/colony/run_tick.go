package colony

import (
	"context"
	"fmt"

	"github.com/andrescamacho/colonybot-go/internal/adapters/metrics"
	"github.com/andrescamacho/colonybot-go/internal/application/logging"
	"github.com/andrescamacho/colonybot-go/internal/application/mediator"
	"github.com/andrescamacho/colonybot-go/internal/domain/shared"
	"github.com/andrescamacho/colonybot-go/internal/domain/spawning"
	"github.com/andrescamacho/colonybot-go/internal/domain/unit"
	"github.com/andrescamacho/colonybot-go/internal/domain/world"
)

// RunTickCommand runs one complete pass of the colony strategy:
// snapshot, census, spawn strategy, job assignment, drive, persist
type RunTickCommand struct {
	RunID string
}

// RunTickResponse carries what happened during the tick
type RunTickResponse struct {
	Report *TickReport
}

// RunTickHandler executes the per-tick strategy. Units never interact with
// each other within a tick; a failure of one unit is logged and the rest
// are still processed.
type RunTickHandler struct {
	snapshots  world.SnapshotProvider
	executor   world.Executor
	states     unit.StateRepository
	pathFinder world.PathFinder
	tiers      *spawning.TierTable
	clock      shared.Clock
}

// NewRunTickHandler creates a tick handler. A nil path finder, tier table
// or clock falls back to the grid path finder, the default tiers and the
// real clock.
func NewRunTickHandler(
	snapshots world.SnapshotProvider,
	executor world.Executor,
	states unit.StateRepository,
	pathFinder world.PathFinder,
	tiers *spawning.TierTable,
	clock shared.Clock,
) *RunTickHandler {
	if pathFinder == nil {
		pathFinder = world.NewGridPathFinder()
	}
	if tiers == nil {
		tiers = spawning.DefaultTiers
	}
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &RunTickHandler{
		snapshots:  snapshots,
		executor:   executor,
		states:     states,
		pathFinder: pathFinder,
		tiers:      tiers,
		clock:      clock,
	}
}

// member pairs a live unit with its loaded state for the duration of a tick
type member struct {
	unit  *world.Unit
	state *unit.UnitState
}

// Handle executes the tick
func (h *RunTickHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*RunTickCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	logger := logging.LoggerFromContext(ctx)
	start := h.clock.Now()

	snapshot, err := h.snapshots.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read world snapshot: %w", err)
	}

	report := newTickReport(cmd.RunID, snapshot.Tick)

	members := h.loadPopulation(ctx, snapshot, report)

	census := takeCensus(members)
	report.recordCensus(census)

	h.runSpawnStrategy(ctx, snapshot, census, report)
	h.runJobStrategy(ctx, members, report)
	h.driveUnits(ctx, snapshot, members, report)
	h.persistPopulation(ctx, members, report)

	report.Duration = h.clock.Now().Sub(start)
	metrics.RecordTickCompleted(report.Duration.Seconds(), census.ByBuild, census.ByJob, report.UnitsSkipped)

	logger.Log(logging.LevelInfo, "Tick completed", map[string]interface{}{
		"run_id":         cmd.RunID,
		"tick":           report.Tick,
		"units":          report.UnitsLoaded,
		"skipped":        report.UnitsSkipped,
		"spawns":         len(report.Spawns),
		"drive_failures": report.DriveFailures,
	})

	return &RunTickResponse{Report: report}, nil
}

// loadPopulation pairs every visible unit with its stored state. Units
// whose state cannot be read are skipped for this tick.
func (h *RunTickHandler) loadPopulation(ctx context.Context, snapshot *world.Snapshot, report *TickReport) []*member {
	logger := logging.LoggerFromContext(ctx)
	members := make([]*member, 0, len(snapshot.Units))

	for _, u := range snapshot.Units {
		report.UnitsSeen++

		state, err := h.states.Load(ctx, u.Name)
		if err != nil {
			decodeErr := shared.NewStateDecodeError(u.Name, u.Position, err)
			report.UnitsSkipped++
			metrics.RecordSkippedUnit()
			logger.Log(logging.LevelWarn, decodeErr.Error(), map[string]interface{}{
				"tick":     report.Tick,
				"unit":     u.Name,
				"position": u.Position.String(),
				"action":   "skip_unit",
			})
			continue
		}

		members = append(members, &member{unit: u, state: state})
	}

	report.UnitsLoaded = len(members)
	return members
}

// persistPopulation writes every loaded unit's state back. A failed write
// affects only that unit.
func (h *RunTickHandler) persistPopulation(ctx context.Context, members []*member, report *TickReport) {
	logger := logging.LoggerFromContext(ctx)

	for _, m := range members {
		if err := h.states.Store(ctx, m.unit.Name, m.state); err != nil {
			report.PersistFailures++
			logger.Log(logging.LevelError, fmt.Sprintf("Failed to store state of unit %s: %v", m.unit.Name, err), map[string]interface{}{
				"tick":  report.Tick,
				"unit":  m.unit.Name,
				"state": m.state.String(),
			})
		}
	}
}

func takeCensus(members []*member) *spawning.Census {
	census := spawning.NewCensus()
	for _, m := range members {
		census.Add(m.state.Build(), m.state.JobKind())
	}
	return census
}
