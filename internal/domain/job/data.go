package job

import (
	"fmt"

	"github.com/andrescamacho/colonybot-go/internal/domain/world"
)

// Data is the DTO for persisting a job
type Data struct {
	Kind   string `json:"kind"`
	Stage  string `json:"stage,omitempty"`
	Target string `json:"target,omitempty"`
}

// ToData converts a job to its DTO
func ToData(j Job) Data {
	if j == nil {
		return Data{Kind: string(KindNone)}
	}
	return Data{
		Kind:   string(j.Kind()),
		Stage:  j.Stage(),
		Target: string(j.Target().ID()),
	}
}

// FromData rebuilds a job from its DTO
func FromData(d Data) (Job, error) {
	target := world.NewTarget(world.ObjectID(d.Target))

	switch Kind(d.Kind) {
	case KindNone, "":
		return None{}, nil

	case KindHarvest:
		stage := HarvestStage(d.Stage)
		switch stage {
		case HarvestEntry, HarvestDone:
			return &Harvest{stage: stage}, nil
		case HarvestHarvesting:
			if target.IsZero() {
				return nil, fmt.Errorf("harvest stage %s needs a target", stage)
			}
			return &Harvest{stage: stage, target: target}, nil
		}
		return nil, fmt.Errorf("unknown harvest stage: %q", d.Stage)

	case KindDistributeEnergy:
		stage := DistributeStage(d.Stage)
		switch stage {
		case DistributeEntry, DistributeUpgrading, DistributeDone:
			return &DistributeEnergy{stage: stage}, nil
		case DistributeDistributing, DistributeBuilding:
			if target.IsZero() {
				return nil, fmt.Errorf("distribute stage %s needs a target", stage)
			}
			return &DistributeEnergy{stage: stage, target: target}, nil
		}
		return nil, fmt.Errorf("unknown distribute stage: %q", d.Stage)
	}

	return nil, fmt.Errorf("unknown job kind: %q", d.Kind)
}
