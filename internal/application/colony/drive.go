package colony

import (
	"context"
	"fmt"

	"github.com/andrescamacho/colonybot-go/internal/adapters/metrics"
	"github.com/andrescamacho/colonybot-go/internal/application/logging"
	"github.com/andrescamacho/colonybot-go/internal/domain/job"
	"github.com/andrescamacho/colonybot-go/internal/domain/shared"
	"github.com/andrescamacho/colonybot-go/internal/domain/world"
)

// driveUnits advances every unit's job by one step in population order
func (h *RunTickHandler) driveUnits(ctx context.Context, snapshot *world.Snapshot, members []*member, report *TickReport) {
	logger := logging.LoggerFromContext(ctx)

	for _, m := range members {
		kind := m.state.JobKind()

		if err := h.driveOne(snapshot, m); err != nil {
			report.DriveFailures++
			metrics.RecordDriveFailure(kind)

			pos := m.unit.Pos()
			logger.Log(logging.LevelError,
				fmt.Sprintf("Error while driving unit %s at [%d, %d]: %v", m.unit.Name, pos.X, pos.Y, err),
				map[string]interface{}{
					"tick":     report.Tick,
					"unit":     m.unit.Name,
					"position": pos.String(),
					"state":    m.state.String(),
				})
		}
	}
}

// driveOne runs a single drive step, turning a panic into an error so one
// broken unit cannot stop the tick
func (h *RunTickHandler) driveOne(snapshot *world.Snapshot, m *member) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = shared.NewInvariantError(fmt.Sprintf("panic while driving: %v", r))
		}
	}()

	env := &job.Env{
		Unit:       m.unit,
		Snapshot:   snapshot,
		Executor:   h.executor,
		PathFinder: h.pathFinder,
	}
	return m.state.Job().Drive(env)
}
