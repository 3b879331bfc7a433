package colony

import (
	"context"

	"github.com/andrescamacho/colonybot-go/internal/application/logging"
	"github.com/andrescamacho/colonybot-go/internal/domain/job"
	"github.com/andrescamacho/colonybot-go/internal/domain/shared"
)

// ChooseJob picks the job for an idle unit: keep harvesting while at least
// half the carry capacity is free, otherwise go spend the energy
func ChooseJob(store shared.Store) job.Job {
	if store.FreeCapacity() >= store.UsedCapacity() {
		return job.NewHarvest()
	}
	return job.NewDistributeEnergy()
}

// runJobStrategy assigns jobs to idle units and clears finished jobs so the
// unit is reassigned next tick. Units mid-task are left alone.
func (h *RunTickHandler) runJobStrategy(ctx context.Context, members []*member, report *TickReport) {
	logger := logging.LoggerFromContext(ctx)

	for _, m := range members {
		if m.state.IsIdle() {
			next := ChooseJob(m.unit.Store)
			if !m.state.Build().Parts().Fulfils(next.MinRequired()) {
				logger.Log(logging.LevelWarn, "Unit body cannot perform job", map[string]interface{}{
					"tick":  report.Tick,
					"unit":  m.unit.Name,
					"build": string(m.state.Build()),
					"job":   string(next.Kind()),
				})
				continue
			}
			if err := m.state.Assign(next); err == nil {
				report.JobsAssigned++
			}
			continue
		}

		if m.state.ClearFinishedJob() {
			report.JobsCleared++
		}
	}
}
