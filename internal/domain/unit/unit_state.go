package unit

import (
	"fmt"

	"github.com/andrescamacho/colonybot-go/internal/domain/catalog"
	"github.com/andrescamacho/colonybot-go/internal/domain/job"
)

// UnitState is the persisted record of one worker unit. It is created at
// spawn time with no job and is never deleted by the strategy; a unit that
// disappears from the snapshot is simply no longer loaded.
type UnitState struct {
	build catalog.BuildProfile
	job   job.Job
}

// NewUnitState creates the state of a freshly spawned unit
func NewUnitState(build catalog.BuildProfile) *UnitState {
	return &UnitState{build: build, job: job.None{}}
}

func (s *UnitState) Build() catalog.BuildProfile { return s.build }
func (s *UnitState) Job() job.Job                { return s.job }

// JobKind returns the variant tag of the current job
func (s *UnitState) JobKind() job.Kind {
	return s.job.Kind()
}

// IsIdle reports whether the unit is waiting for a job
func (s *UnitState) IsIdle() bool {
	return s.job.Kind() == job.KindNone
}

// Assign gives an idle unit a new job
func (s *UnitState) Assign(j job.Job) error {
	if !s.IsIdle() {
		return fmt.Errorf("unit already has job %s", s.job.Kind())
	}
	if j == nil {
		return fmt.Errorf("job cannot be nil")
	}
	s.job = j
	return nil
}

// ClearFinishedJob resets a finished job to idle and reports whether it did
func (s *UnitState) ClearFinishedJob() bool {
	if !s.job.Finished() {
		return false
	}
	s.job = job.None{}
	return true
}

func (s *UnitState) String() string {
	return fmt.Sprintf("UnitState[build=%s, job=%s]", s.build, job.Describe(s.job))
}

// Data is the DTO for persisting unit state
type Data struct {
	Build string   `json:"build"`
	Job   job.Data `json:"job"`
}

// ToData converts the state to a DTO for persistence
func (s *UnitState) ToData() *Data {
	return &Data{
		Build: string(s.build),
		Job:   job.ToData(s.job),
	}
}

// FromData creates a UnitState from a DTO
func FromData(data *Data) (*UnitState, error) {
	if data == nil {
		return nil, fmt.Errorf("unit state data cannot be nil")
	}

	build, err := catalog.ParseBuildProfile(data.Build)
	if err != nil {
		return nil, err
	}

	j, err := job.FromData(data.Job)
	if err != nil {
		return nil, err
	}

	return &UnitState{build: build, job: j}, nil
}
