package world

import "github.com/andrescamacho/colonybot-go/internal/domain/shared"

// PathFinder picks the candidate nearest by path from a position
type PathFinder interface {
	// Closest returns the index of the nearest reachable candidate
	Closest(from shared.Position, candidates []shared.Position) (int, bool)
}

// GridPathFinder measures grid steps with diagonal movement and treats
// anything outside the origin's room as unreachable. Ties keep the first
// candidate.
type GridPathFinder struct{}

func NewGridPathFinder() *GridPathFinder {
	return &GridPathFinder{}
}

func (g *GridPathFinder) Closest(from shared.Position, candidates []shared.Position) (int, bool) {
	best, bestRange := -1, 0
	for i, c := range candidates {
		r, ok := from.RangeTo(c)
		if !ok {
			continue
		}
		if best < 0 || r < bestRange {
			best, bestRange = i, r
		}
	}
	return best, best >= 0
}

// ClosestObject returns the path-nearest object of a list
func ClosestObject[T Object](pf PathFinder, from shared.Position, objects []T) (T, bool) {
	var zero T
	if len(objects) == 0 {
		return zero, false
	}
	positions := make([]shared.Position, len(objects))
	for i, o := range objects {
		positions[i] = o.Pos()
	}
	idx, ok := pf.Closest(from, positions)
	if !ok {
		return zero, false
	}
	return objects[idx], true
}
