package colony

import (
	"time"

	"github.com/andrescamacho/colonybot-go/internal/domain/catalog"
	"github.com/andrescamacho/colonybot-go/internal/domain/job"
	"github.com/andrescamacho/colonybot-go/internal/domain/shared"
	"github.com/andrescamacho/colonybot-go/internal/domain/spawning"
)

// SpawnRequest records one request handed to a spawn structure
type SpawnRequest struct {
	Spawn   string
	Build   catalog.BuildProfile
	Name    string
	Outcome shared.OutcomeCode
}

// TickReport summarizes one tick
type TickReport struct {
	RunID string
	Tick  uint64

	UnitsSeen    int
	UnitsLoaded  int
	UnitsSkipped int

	// Census taken before jobs were assigned
	ByBuild map[catalog.BuildProfile]int
	ByJob   map[job.Kind]int

	Spawns       []SpawnRequest
	JobsAssigned int
	JobsCleared  int

	DriveFailures   int
	PersistFailures int

	Duration time.Duration
}

func newTickReport(runID string, tick uint64) *TickReport {
	return &TickReport{
		RunID:   runID,
		Tick:    tick,
		ByBuild: make(map[catalog.BuildProfile]int),
		ByJob:   make(map[job.Kind]int),
	}
}

func (r *TickReport) recordCensus(c *spawning.Census) {
	for b, n := range c.ByBuild {
		r.ByBuild[b] = n
	}
	for k, n := range c.ByJob {
		r.ByJob[k] = n
	}
}

// AcceptedSpawns returns the spawn requests the executor accepted
func (r *TickReport) AcceptedSpawns() []SpawnRequest {
	var out []SpawnRequest
	for _, s := range r.Spawns {
		if s.Outcome.IsOK() {
			out = append(out, s)
		}
	}
	return out
}
