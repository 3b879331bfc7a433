package sim

import (
	"github.com/andrescamacho/colonybot-go/internal/domain/catalog"
	"github.com/andrescamacho/colonybot-go/internal/domain/world"
)

// AdvanceResult lists what changed during one Advance
type AdvanceResult struct {
	Tick      uint64
	Spawned   []string
	Completed []world.ObjectID
	LevelUps  map[string]int
	Harvested int
	Delivered int
	Built     int
	Upgraded  int
}

// Advance applies the requests recorded since the last call and moves the
// world to the next tick
func (w *World) Advance() AdvanceResult {
	w.mu.Lock()
	defer w.mu.Unlock()

	res := AdvanceResult{LevelUps: make(map[string]int)}
	in := w.intents

	for _, sp := range in.spawns {
		s := w.spawn(sp.spawn)
		w.chargeRoom(s.pos.Room, sp.body.Cost())
		s.spawning = &pendingUnit{
			name:      sp.name,
			body:      sp.body,
			remaining: sp.body.Size() * SpawnTicksPerPart,
		}
	}

	in.each(actionHarvest, func(i intent) {
		u, src := w.unit(i.unit), w.source(i.target)
		if u == nil || src == nil {
			return
		}
		amount := minInt(HarvestPerWorkPart*u.body.Count(catalog.PartWork), src.energy, u.body.CarryCapacity()-u.energy)
		u.energy += amount
		src.energy -= amount
		res.Harvested += amount
	})

	in.each(actionBuild, func(i intent) {
		u, site := w.unit(i.unit), w.site(i.target)
		if u == nil || site == nil {
			return
		}
		amount := minInt(BuildPerWorkPart*u.body.Count(catalog.PartWork), u.energy, site.total-site.progress)
		u.energy -= amount
		site.progress += amount
		res.Built += amount
		if site.progress >= site.total {
			w.completeSite(site)
			res.Completed = append(res.Completed, site.id)
		}
	})

	in.each(actionTransfer, func(i intent) {
		u := w.unit(i.unit)
		if u == nil {
			return
		}
		if sp := w.spawn(i.target); sp != nil {
			amount := minInt(u.energy, SpawnEnergyCapacity-sp.energy)
			u.energy -= amount
			sp.energy += amount
			res.Delivered += amount
		} else if st := w.structure(i.target); st != nil && st.store != nil {
			amount := minInt(u.energy, st.store.FreeCapacity())
			u.energy -= amount
			st.store.Energy += amount
			res.Delivered += amount
		}
	})

	in.each(actionUpgrade, func(i intent) {
		u, c := w.unit(i.unit), w.controller(i.target)
		if u == nil || c == nil {
			return
		}
		amount := minInt(UpgradePerWorkPart*u.body.Count(catalog.PartWork), u.energy)
		u.energy -= amount
		c.progress += amount
		res.Upgraded += amount
		if need, ok := controllerProgressToLevel[c.level]; ok && c.progress >= need {
			c.progress -= need
			c.level++
			res.LevelUps[c.pos.Room] = c.level
		}
	})

	in.each(actionMove, func(i intent) {
		if u := w.unit(i.unit); u != nil {
			u.pos = u.pos.StepToward(i.to)
		}
	})

	w.tick++
	res.Tick = w.tick

	for _, s := range w.spawns {
		if s.spawning != nil {
			s.spawning.remaining--
			if s.spawning.remaining <= 0 {
				w.units = append(w.units, &simUnit{name: s.spawning.name, pos: s.pos, body: s.spawning.body})
				res.Spawned = append(res.Spawned, s.spawning.name)
				s.spawning = nil
			}
		}
		if s.energy < SpawnEnergyCapacity {
			s.energy += SpawnRegenPerTick
		}
	}

	for _, src := range w.sources {
		if w.tick >= src.regenAt {
			src.energy = src.capacity
			src.regenAt = w.tick + SourceRegenTicks
		}
	}

	w.intents = newIntentSet()
	return res
}

// chargeRoom takes energy from spawns first, then extensions
func (w *World) chargeRoom(room string, cost int) {
	for _, s := range w.spawns {
		if cost == 0 {
			return
		}
		if s.pos.Room == room {
			take := minInt(cost, s.energy)
			s.energy -= take
			cost -= take
		}
	}
	for _, st := range w.structures {
		if cost == 0 {
			return
		}
		if st.pos.Room == room && st.typ == world.StructureExtension && st.store != nil {
			take := minInt(cost, st.store.Energy)
			st.store.Energy -= take
			cost -= take
		}
	}
}

// completeSite replaces a finished site with its structure
func (w *World) completeSite(site *simSite) {
	for i, s := range w.sites {
		if s == site {
			w.sites = append(w.sites[:i], w.sites[i+1:]...)
			break
		}
	}

	id := w.newID(string(site.typ))
	if site.typ == world.StructureExtension {
		w.structures = append(w.structures, newExtension(id, site.pos, 0))
		return
	}
	w.structures = append(w.structures, &simStructure{id: id, typ: site.typ, pos: site.pos})
}

func minInt(first int, rest ...int) int {
	m := first
	for _, v := range rest {
		if v < m {
			m = v
		}
	}
	if m < 0 {
		return 0
	}
	return m
}
