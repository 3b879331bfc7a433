package job

import (
	"github.com/andrescamacho/colonybot-go/internal/domain/catalog"
	"github.com/andrescamacho/colonybot-go/internal/domain/shared"
	"github.com/andrescamacho/colonybot-go/internal/domain/world"
)

// HarvestStage is a state of the harvest machine
type HarvestStage string

const (
	HarvestEntry      HarvestStage = "entry"
	HarvestHarvesting HarvestStage = "harvesting"
	HarvestDone       HarvestStage = "done"
)

// Harvest fills the unit from the nearest resource node.
//
//	entry -> harvesting(target) -> done
//	harvesting -> entry on a lost or depleted node
type Harvest struct {
	stage  HarvestStage
	target world.Target
}

// NewHarvest creates a harvest job at its entry stage
func NewHarvest() *Harvest {
	return &Harvest{stage: HarvestEntry}
}

func (h *Harvest) Kind() Kind                            { return KindHarvest }
func (h *Harvest) Stage() string                         { return string(h.stage) }
func (h *Harvest) Target() world.Target                  { return h.target }
func (h *Harvest) Finished() bool                        { return h.stage == HarvestDone }
func (h *Harvest) MinRequired() catalog.PartRequirement { return workerRequirement }

func (h *Harvest) Drive(env *Env) error {
	switch h.stage {
	case HarvestEntry:
		return h.enter(env)
	case HarvestHarvesting:
		return h.harvest(env)
	}
	return nil
}

func (h *Harvest) enter(env *Env) error {
	source, ok := world.ClosestObject(env.PathFinder, env.Unit.Pos(), env.Snapshot.Sources)
	if !ok {
		return shared.NewNoTargetsFoundError("source")
	}

	h.stage = HarvestHarvesting
	h.target = world.TargetOf(source)
	env.Executor.Say(env.Unit.ID(), "Harvest")
	return nil
}

func (h *Harvest) harvest(env *Env) error {
	if env.Unit.Store.FreeCapacity() == 0 {
		h.finish()
		return nil
	}

	source, ok := env.Snapshot.Resolve(h.target)
	if !ok {
		h.retarget()
		return nil
	}

	switch code := env.Executor.Harvest(env.Unit.ID(), source.ID()); code {
	case shared.OutcomeOK, shared.OutcomeBusy:
		return nil
	case shared.OutcomeNotInRange:
		env.Executor.MoveTo(env.Unit.ID(), source.Pos())
		return nil
	case shared.OutcomeNotEnough:
		h.retarget()
		return nil
	default:
		return shared.NewUnhandledOutcomeError("harvest", code)
	}
}

func (h *Harvest) retarget() {
	h.stage = HarvestEntry
	h.target = world.Target{}
}

func (h *Harvest) finish() {
	h.stage = HarvestDone
	h.target = world.Target{}
}
