package colony

import (
	"context"
	"fmt"

	"github.com/andrescamacho/colonybot-go/internal/adapters/metrics"
	"github.com/andrescamacho/colonybot-go/internal/application/logging"
	"github.com/andrescamacho/colonybot-go/internal/domain/catalog"
	"github.com/andrescamacho/colonybot-go/internal/domain/spawning"
	"github.com/andrescamacho/colonybot-go/internal/domain/unit"
	"github.com/andrescamacho/colonybot-go/internal/domain/world"
)

// SpawnName is the name given to a unit requested at a spawn on a tick
func SpawnName(build catalog.BuildProfile, spawnName string, tick uint64) string {
	return fmt.Sprintf("%s:%s:%d", build, spawnName, tick)
}

// runSpawnStrategy decides independently for every spawn structure. All
// decisions read the census taken at the start of the tick.
func (h *RunTickHandler) runSpawnStrategy(ctx context.Context, snapshot *world.Snapshot, census *spawning.Census, report *TickReport) {
	logger := logging.LoggerFromContext(ctx)

	for _, sp := range snapshot.Spawns {
		room, ok := snapshot.Room(sp.Pos().Room)
		if !ok {
			continue
		}

		decision, ok := spawning.Decide(h.tiers, room.Level(), room.EnergyCapacity, census)
		if !ok || !decision.ShouldSpawn() {
			continue
		}

		name := SpawnName(decision.Build, sp.Name, snapshot.Tick)
		code := h.executor.Spawn(sp.ID(), decision.Build.Parts().Body(), name)

		report.Spawns = append(report.Spawns, SpawnRequest{
			Spawn:   sp.Name,
			Build:   decision.Build,
			Name:    name,
			Outcome: code,
		})
		metrics.RecordSpawnRequest(decision.Build, code)

		metadata := map[string]interface{}{
			"tick":             snapshot.Tick,
			"spawn":            sp.Name,
			"build":            string(decision.Build),
			"room_level":       room.Level(),
			"energy_available": room.EnergyAvailable,
			"energy_capacity":  room.EnergyCapacity,
			"population":       decision.TotalInWorld,
			"cap":              decision.Cap,
			"outcome":          code.String(),
		}

		if !code.IsOK() {
			logger.Log(logging.LevelDebug, "Spawn request not accepted", metadata)
			continue
		}

		logger.Log(logging.LevelInfo, "Spawn requested", metadata)

		// The unit finds its state on its first tick
		if err := h.states.Store(ctx, name, unit.NewUnitState(decision.Build)); err != nil {
			report.PersistFailures++
			logger.Log(logging.LevelError, fmt.Sprintf("Failed to store initial state of unit %s: %v", name, err), metadata)
		}
	}
}
