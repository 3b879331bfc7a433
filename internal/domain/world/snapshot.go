package world

import "sync"

// Snapshot is the read-only view of the world for one tick.
// It must not be modified once handed to the strategy.
type Snapshot struct {
	Tick              uint64
	ConstructionSites []*ConstructionSite
	Units             []*Unit
	Flags             []*Flag
	Rooms             []*Room
	Spawns            []*Spawn
	Structures        []*Structure
	Sources           []*Source

	once    sync.Once
	objects map[ObjectID]Object
	rooms   map[string]*Room
}

func (s *Snapshot) buildIndex() {
	s.once.Do(func() {
		s.objects = make(map[ObjectID]Object)
		s.rooms = make(map[string]*Room, len(s.Rooms))

		for _, r := range s.Rooms {
			s.rooms[r.Name] = r
			if r.Controller != nil {
				s.objects[r.Controller.ID()] = r.Controller
			}
		}
		for _, o := range s.ConstructionSites {
			s.objects[o.ID()] = o
		}
		for _, o := range s.Units {
			s.objects[o.ID()] = o
		}
		for _, o := range s.Spawns {
			s.objects[o.ID()] = o
		}
		for _, o := range s.Structures {
			s.objects[o.ID()] = o
		}
		for _, o := range s.Sources {
			s.objects[o.ID()] = o
		}
	})
}

// Resolve looks the target up in this snapshot. A false result is the
// normal signal that the object is gone or out of sight.
func (s *Snapshot) Resolve(t Target) (Object, bool) {
	if t.IsZero() {
		return nil, false
	}
	s.buildIndex()
	obj, ok := s.objects[t.ID()]
	return obj, ok
}

// Room returns the room with the given name
func (s *Snapshot) Room(name string) (*Room, bool) {
	s.buildIndex()
	r, ok := s.rooms[name]
	return r, ok
}

// Extensions returns the extension structures
func (s *Snapshot) Extensions() []*Structure {
	var out []*Structure
	for _, st := range s.Structures {
		if st.Type == StructureExtension {
			out = append(out, st)
		}
	}
	return out
}
