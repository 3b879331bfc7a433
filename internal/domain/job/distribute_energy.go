package job

import (
	"github.com/andrescamacho/colonybot-go/internal/domain/catalog"
	"github.com/andrescamacho/colonybot-go/internal/domain/shared"
	"github.com/andrescamacho/colonybot-go/internal/domain/world"
)

// DistributeStage is a state of the energy distribution machine
type DistributeStage string

const (
	DistributeEntry        DistributeStage = "entry"
	DistributeDistributing DistributeStage = "distributing"
	DistributeBuilding     DistributeStage = "building"
	DistributeUpgrading    DistributeStage = "upgrading"
	DistributeDone         DistributeStage = "done"
)

// DistributeEnergy spends carried energy. Entry picks, in priority order:
// refill spawns and extensions while the room is short of energy, build the
// nearest construction site, upgrade the room controller.
type DistributeEnergy struct {
	stage  DistributeStage
	target world.Target
}

// NewDistributeEnergy creates a distribution job at its entry stage
func NewDistributeEnergy() *DistributeEnergy {
	return &DistributeEnergy{stage: DistributeEntry}
}

func (d *DistributeEnergy) Kind() Kind                            { return KindDistributeEnergy }
func (d *DistributeEnergy) Stage() string                         { return string(d.stage) }
func (d *DistributeEnergy) Target() world.Target                  { return d.target }
func (d *DistributeEnergy) Finished() bool                        { return d.stage == DistributeDone }
func (d *DistributeEnergy) MinRequired() catalog.PartRequirement { return workerRequirement }

func (d *DistributeEnergy) Drive(env *Env) error {
	if d.stage == DistributeDone {
		return nil
	}

	// Nothing left to hand out, whatever we were doing
	if env.Unit.Store.IsEmpty() {
		d.transition(DistributeDone, world.Target{})
		return nil
	}

	switch d.stage {
	case DistributeEntry:
		return d.enter(env)
	case DistributeDistributing:
		return d.distribute(env)
	case DistributeBuilding:
		return d.build(env)
	case DistributeUpgrading:
		return d.upgrade(env)
	}
	return nil
}

func (d *DistributeEnergy) enter(env *Env) error {
	pos := env.Unit.Pos()
	room, ok := env.Snapshot.Room(pos.Room)
	if !ok {
		return shared.NewInvariantError("unit " + env.Unit.Name + " is in a room missing from the snapshot")
	}

	switch {
	case room.EnergyAvailable < room.EnergyCapacity:
		sink, ok := world.ClosestObject(env.PathFinder, pos, energySinks(env.Snapshot))
		if !ok {
			return shared.NewNoTargetsFoundError("energy sink")
		}
		d.transition(DistributeDistributing, world.TargetOf(sink))
		env.Executor.Say(env.Unit.ID(), "Distribute")

	case len(env.Snapshot.ConstructionSites) > 0:
		site, ok := world.ClosestObject(env.PathFinder, pos, env.Snapshot.ConstructionSites)
		if !ok {
			return shared.NewNoTargetsFoundError("construction site")
		}
		d.transition(DistributeBuilding, world.TargetOf(site))
		env.Executor.Say(env.Unit.ID(), "Build")

	case room.Controller != nil:
		d.transition(DistributeUpgrading, world.Target{})
		env.Executor.Say(env.Unit.ID(), "Upgrade")

	default:
		d.transition(DistributeDone, world.Target{})
	}
	return nil
}

func (d *DistributeEnergy) distribute(env *Env) error {
	sink, ok := env.Snapshot.Resolve(d.target)
	if !ok {
		d.transition(DistributeEntry, world.Target{})
		return nil
	}

	switch code := env.Executor.Transfer(env.Unit.ID(), sink.ID(), shared.ResourceEnergy); code {
	case shared.OutcomeOK:
		return nil
	case shared.OutcomeNotInRange:
		env.Executor.MoveTo(env.Unit.ID(), sink.Pos())
		return nil
	case shared.OutcomeFull:
		d.transition(DistributeEntry, world.Target{})
		return nil
	default:
		return shared.NewUnhandledOutcomeError("transfer", code)
	}
}

func (d *DistributeEnergy) build(env *Env) error {
	site, ok := env.Snapshot.Resolve(d.target)
	if !ok {
		d.transition(DistributeEntry, world.Target{})
		return nil
	}

	switch code := env.Executor.Build(env.Unit.ID(), site.ID()); code {
	case shared.OutcomeOK:
		return nil
	case shared.OutcomeNotInRange:
		env.Executor.MoveTo(env.Unit.ID(), site.Pos())
		return nil
	default:
		return shared.NewUnhandledOutcomeError("build", code)
	}
}

func (d *DistributeEnergy) upgrade(env *Env) error {
	room, ok := env.Snapshot.Room(env.Unit.Pos().Room)
	if !ok {
		return shared.NewInvariantError("unit " + env.Unit.Name + " is in a room missing from the snapshot")
	}
	if room.Controller == nil {
		d.transition(DistributeEntry, world.Target{})
		return nil
	}

	switch code := env.Executor.UpgradeController(env.Unit.ID(), room.Controller.ID()); code {
	case shared.OutcomeOK:
		return nil
	case shared.OutcomeNotInRange:
		env.Executor.MoveTo(env.Unit.ID(), room.Controller.Pos())
		return nil
	default:
		return shared.NewUnhandledOutcomeError("upgrade_controller", code)
	}
}

func (d *DistributeEnergy) transition(stage DistributeStage, target world.Target) {
	d.stage = stage
	d.target = target
}

// energySinks lists spawns and extensions that can still take energy
func energySinks(s *world.Snapshot) []world.Object {
	var sinks []world.Object
	for _, sp := range s.Spawns {
		if sp.Store.FreeCapacity() > 0 {
			sinks = append(sinks, sp)
		}
	}
	for _, ext := range s.Extensions() {
		if ext.HasFreeEnergyCapacity() {
			sinks = append(sinks, ext)
		}
	}
	return sinks
}
