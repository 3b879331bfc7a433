package job

import (
	"fmt"

	"github.com/andrescamacho/colonybot-go/internal/domain/catalog"
	"github.com/andrescamacho/colonybot-go/internal/domain/world"
)

// Kind is the variant tag of a job. Census and assignment compare jobs by
// Kind only, never by stage or target.
type Kind string

const (
	KindNone             Kind = "none"
	KindHarvest          Kind = "harvest"
	KindDistributeEnergy Kind = "distribute_energy"
)

// AllKinds lists every job variant
var AllKinds = []Kind{KindNone, KindHarvest, KindDistributeEnergy}

// Env is everything a job may read or request during one drive step
type Env struct {
	Unit       *world.Unit
	Snapshot   *world.Snapshot
	Executor   world.Executor
	PathFinder world.PathFinder
}

// Job is a per-unit task advanced by exactly one transition per Drive call
type Job interface {
	Kind() Kind
	Stage() string
	Target() world.Target

	// Finished reports whether the job reached its terminal stage
	Finished() bool

	// MinRequired is the smallest body able to perform the job
	MinRequired() catalog.PartRequirement

	Drive(env *Env) error
}

// workerRequirement is shared by every job that moves, works and carries
var workerRequirement = catalog.PartRequirement{
	catalog.PartMove:  1,
	catalog.PartWork:  1,
	catalog.PartCarry: 1,
}

// None is the idle state awaiting assignment. It is never finished.
type None struct{}

func (None) Kind() Kind                            { return KindNone }
func (None) Stage() string                         { return "" }
func (None) Target() world.Target                  { return world.Target{} }
func (None) Finished() bool                        { return false }
func (None) MinRequired() catalog.PartRequirement { return catalog.PartRequirement{} }
func (None) Drive(*Env) error                      { return nil }

// Describe renders a job for logs
func Describe(j Job) string {
	if j == nil || j.Kind() == KindNone {
		return "None"
	}
	if t := j.Target(); !t.IsZero() {
		return fmt.Sprintf("%s(%s %s)", j.Kind(), j.Stage(), t.ID())
	}
	return fmt.Sprintf("%s(%s)", j.Kind(), j.Stage())
}
