package sim

import (
	"github.com/andrescamacho/colonybot-go/internal/domain/catalog"
	"github.com/andrescamacho/colonybot-go/internal/domain/shared"
	"github.com/andrescamacho/colonybot-go/internal/domain/world"
)

type actionKind int

const (
	actionMove actionKind = iota
	actionHarvest
	actionBuild
	actionTransfer
	actionUpgrade
)

type intent struct {
	unit   world.ObjectID
	target world.ObjectID
	to     shared.Position
}

type spawnIntent struct {
	spawn world.ObjectID
	name  string
	body  catalog.Composition
}

// intentSet holds the requests of the current tick. A unit keeps only its
// latest request per action kind.
type intentSet struct {
	byAction map[actionKind]map[world.ObjectID]intent
	order    map[actionKind][]world.ObjectID
	spawns   []spawnIntent
	reserved map[string]int // room energy promised to accepted spawns
}

func newIntentSet() *intentSet {
	return &intentSet{
		byAction: make(map[actionKind]map[world.ObjectID]intent),
		order:    make(map[actionKind][]world.ObjectID),
		reserved: make(map[string]int),
	}
}

func (s *intentSet) add(kind actionKind, in intent) {
	m, ok := s.byAction[kind]
	if !ok {
		m = make(map[world.ObjectID]intent)
		s.byAction[kind] = m
	}
	if _, seen := m[in.unit]; !seen {
		s.order[kind] = append(s.order[kind], in.unit)
	}
	m[in.unit] = in
}

func (s *intentSet) each(kind actionKind, fn func(intent)) {
	for _, id := range s.order[kind] {
		fn(s.byAction[kind][id])
	}
}

func (s *intentSet) spawning(id world.ObjectID) bool {
	for _, sp := range s.spawns {
		if sp.spawn == id {
			return true
		}
	}
	return false
}

func (s *intentSet) naming(name string) bool {
	for _, sp := range s.spawns {
		if sp.name == name {
			return true
		}
	}
	return false
}

// MoveTo implements world.Executor. The unit advances one step per tick.
func (w *World) MoveTo(unit world.ObjectID, to shared.Position) shared.OutcomeCode {
	w.mu.Lock()
	defer w.mu.Unlock()

	u := w.unit(unit)
	if u == nil {
		return shared.OutcomeInvalidTarget
	}
	if u.body.Count(catalog.PartMove) == 0 {
		return shared.OutcomeNoBodyPart
	}
	if !u.pos.SameRoom(to) {
		return shared.OutcomeInvalidTarget
	}

	w.intents.add(actionMove, intent{unit: unit, to: to})
	return shared.OutcomeOK
}

// Harvest implements world.Executor
func (w *World) Harvest(unit, source world.ObjectID) shared.OutcomeCode {
	w.mu.Lock()
	defer w.mu.Unlock()

	u := w.unit(unit)
	src := w.source(source)
	if u == nil || src == nil {
		return shared.OutcomeInvalidTarget
	}
	if u.body.Count(catalog.PartWork) == 0 {
		return shared.OutcomeNoBodyPart
	}
	if !u.pos.InRangeTo(src.pos, HarvestRange) {
		return shared.OutcomeNotInRange
	}
	if src.energy == 0 {
		return shared.OutcomeNotEnough
	}

	w.intents.add(actionHarvest, intent{unit: unit, target: source})
	return shared.OutcomeOK
}

// Build implements world.Executor
func (w *World) Build(unit, site world.ObjectID) shared.OutcomeCode {
	w.mu.Lock()
	defer w.mu.Unlock()

	u := w.unit(unit)
	s := w.site(site)
	if u == nil || s == nil {
		return shared.OutcomeInvalidTarget
	}
	if u.body.Count(catalog.PartWork) == 0 {
		return shared.OutcomeNoBodyPart
	}
	if !u.pos.InRangeTo(s.pos, BuildRange) {
		return shared.OutcomeNotInRange
	}
	if u.energy == 0 {
		return shared.OutcomeNotEnough
	}

	w.intents.add(actionBuild, intent{unit: unit, target: site})
	return shared.OutcomeOK
}

// Transfer implements world.Executor. Only energy exists in this world.
func (w *World) Transfer(unit, target world.ObjectID, resource shared.ResourceKind) shared.OutcomeCode {
	w.mu.Lock()
	defer w.mu.Unlock()

	u := w.unit(unit)
	if u == nil || resource != shared.ResourceEnergy {
		return shared.OutcomeInvalidTarget
	}

	var (
		pos  shared.Position
		free int
	)
	if sp := w.spawn(target); sp != nil {
		pos, free = sp.pos, SpawnEnergyCapacity-sp.energy
	} else if st := w.structure(target); st != nil && st.store != nil {
		pos, free = st.pos, st.store.FreeCapacity()
	} else {
		return shared.OutcomeInvalidTarget
	}

	if !u.pos.InRangeTo(pos, TransferRange) {
		return shared.OutcomeNotInRange
	}
	if free == 0 {
		return shared.OutcomeFull
	}
	if u.energy == 0 {
		return shared.OutcomeNotEnough
	}

	w.intents.add(actionTransfer, intent{unit: unit, target: target})
	return shared.OutcomeOK
}

// UpgradeController implements world.Executor
func (w *World) UpgradeController(unit, controller world.ObjectID) shared.OutcomeCode {
	w.mu.Lock()
	defer w.mu.Unlock()

	u := w.unit(unit)
	c := w.controller(controller)
	if u == nil || c == nil {
		return shared.OutcomeInvalidTarget
	}
	if u.body.Count(catalog.PartWork) == 0 {
		return shared.OutcomeNoBodyPart
	}
	if !u.pos.InRangeTo(c.pos, UpgradeRange) {
		return shared.OutcomeNotInRange
	}
	if u.energy == 0 {
		return shared.OutcomeNotEnough
	}

	w.intents.add(actionUpgrade, intent{unit: unit, target: controller})
	return shared.OutcomeOK
}

// Say implements world.Executor; messages are visible immediately
func (w *World) Say(unit world.ObjectID, message string) shared.OutcomeCode {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.unit(unit) == nil {
		return shared.OutcomeInvalidTarget
	}
	w.speech[string(unit)] = message
	return shared.OutcomeOK
}

// Spawn implements world.Executor. The room energy is reserved when the
// request is accepted and charged on Advance.
func (w *World) Spawn(spawn world.ObjectID, body []catalog.PartKind, name string) shared.OutcomeCode {
	w.mu.Lock()
	defer w.mu.Unlock()

	sp := w.spawn(spawn)
	if sp == nil || len(body) == 0 || name == "" {
		return shared.OutcomeInvalidTarget
	}
	for _, p := range body {
		if !p.IsValid() {
			return shared.OutcomeInvalidTarget
		}
	}
	if sp.spawning != nil || w.intents.spawning(spawn) {
		return shared.OutcomeBusy
	}
	if w.unitNamed(name) || w.intents.naming(name) {
		return shared.OutcomeNameExists
	}

	composition := catalog.NewComposition(body...)
	available, _ := w.roomEnergy(sp.pos.Room)
	if available-w.intents.reserved[sp.pos.Room] < composition.Cost() {
		return shared.OutcomeNotEnough
	}

	w.intents.reserved[sp.pos.Room] += composition.Cost()
	w.intents.spawns = append(w.intents.spawns, spawnIntent{spawn: spawn, name: name, body: composition})
	return shared.OutcomeOK
}
