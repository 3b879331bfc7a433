package shared

import "fmt"

// Position is an immutable grid location inside a named room
type Position struct {
	Room string `json:"room"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

// NewPosition creates a new position with validation
func NewPosition(room string, x, y int) (Position, error) {
	if room == "" {
		return Position{}, NewValidationError("room", "cannot be empty")
	}
	return Position{Room: room, X: x, Y: y}, nil
}

// SameRoom reports whether both positions are in the same room
func (p Position) SameRoom(other Position) bool {
	return p.Room == other.Room
}

// RangeTo returns the number of grid steps (diagonals allowed) to another
// position in the same room. Positions in different rooms are never in range.
func (p Position) RangeTo(other Position) (int, bool) {
	if !p.SameRoom(other) {
		return 0, false
	}
	return max(abs(other.X-p.X), abs(other.Y-p.Y)), true
}

// InRangeTo checks whether another position is within r steps
func (p Position) InRangeTo(other Position, r int) bool {
	d, ok := p.RangeTo(other)
	return ok && d <= r
}

// StepToward returns the position one step closer to target.
// Targets in other rooms leave the position unchanged.
func (p Position) StepToward(target Position) Position {
	if !p.SameRoom(target) {
		return p
	}
	return Position{Room: p.Room, X: p.X + sign(target.X-p.X), Y: p.Y + sign(target.Y-p.Y)}
}

func (p Position) String() string {
	return fmt.Sprintf("[%s %d, %d]", p.Room, p.X, p.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
