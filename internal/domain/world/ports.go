package world

import (
	"context"

	"github.com/andrescamacho/colonybot-go/internal/domain/catalog"
	"github.com/andrescamacho/colonybot-go/internal/domain/shared"
)

// SnapshotProvider supplies the world view for the current tick
type SnapshotProvider interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
}

// Executor accepts action requests. Effects are not visible until the next
// snapshot; the returned code only says whether the request was accepted.
type Executor interface {
	MoveTo(unit ObjectID, to shared.Position) shared.OutcomeCode
	Harvest(unit ObjectID, source ObjectID) shared.OutcomeCode
	Build(unit ObjectID, site ObjectID) shared.OutcomeCode
	Transfer(unit ObjectID, target ObjectID, resource shared.ResourceKind) shared.OutcomeCode
	UpgradeController(unit ObjectID, controller ObjectID) shared.OutcomeCode
	Say(unit ObjectID, message string) shared.OutcomeCode
	Spawn(spawn ObjectID, body []catalog.PartKind, name string) shared.OutcomeCode
}
