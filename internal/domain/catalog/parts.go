package catalog

import (
	"fmt"
	"sort"
)

// PartKind is one body part a worker unit can be built from
type PartKind string

const (
	PartMove         PartKind = "move"
	PartWork         PartKind = "work"
	PartCarry        PartKind = "carry"
	PartAttack       PartKind = "attack"
	PartRangedAttack PartKind = "ranged_attack"
	PartHeal         PartKind = "heal"
	PartClaim        PartKind = "claim"
	PartTough        PartKind = "tough"
)

// partOrder fixes the order parts are laid out in a body
var partOrder = []PartKind{
	PartTough,
	PartMove,
	PartWork,
	PartCarry,
	PartAttack,
	PartRangedAttack,
	PartHeal,
	PartClaim,
}

var partCosts = map[PartKind]int{
	PartMove:         50,
	PartWork:         100,
	PartCarry:        50,
	PartAttack:       80,
	PartRangedAttack: 150,
	PartHeal:         250,
	PartClaim:        600,
	PartTough:        10,
}

// CarryCapacityPerPart is the energy one carry part holds
const CarryCapacityPerPart = 50

// Cost returns the production cost of a single part
func (p PartKind) Cost() int {
	return partCosts[p]
}

// IsValid reports whether the part kind is known
func (p PartKind) IsValid() bool {
	_, ok := partCosts[p]
	return ok
}

// ParsePartKind converts a part name into a PartKind
func ParsePartKind(s string) (PartKind, error) {
	p := PartKind(s)
	if !p.IsValid() {
		return "", fmt.Errorf("unknown part kind: %s", s)
	}
	return p, nil
}

// Composition is a multiset of body parts
type Composition map[PartKind]int

// NewComposition builds a composition from a flat list of parts
func NewComposition(parts ...PartKind) Composition {
	c := make(Composition, len(parts))
	for _, p := range parts {
		c[p]++
	}
	return c
}

// Count returns how many parts of a kind the composition holds
func (c Composition) Count(p PartKind) int {
	return c[p]
}

// Size returns the total number of parts
func (c Composition) Size() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Cost is the sum of part cost times count
func (c Composition) Cost() int {
	total := 0
	for p, n := range c {
		total += p.Cost() * n
	}
	return total
}

// CarryCapacity is the energy a unit with this body can hold
func (c Composition) CarryCapacity() int {
	return c.Count(PartCarry) * CarryCapacityPerPart
}

// Body expands the counts into an ordered part list
func (c Composition) Body() []PartKind {
	body := make([]PartKind, 0, c.Size())
	for _, p := range c.kinds() {
		for i := 0; i < c[p]; i++ {
			body = append(body, p)
		}
	}
	return body
}

// Fulfils checks whether the composition satisfies a requirement.
// A required kind that is absent fails the check.
func (c Composition) Fulfils(req PartRequirement) bool {
	for p, required := range req {
		have, ok := c[p]
		if !ok || have < required {
			return false
		}
	}
	return true
}

func (c Composition) String() string {
	s := ""
	for i, p := range c.kinds() {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("%s:%d", p, c[p])
	}
	return s
}

// kinds returns the kinds present, in body order, unknown kinds last
func (c Composition) kinds() []PartKind {
	kinds := make([]PartKind, 0, len(c))
	for _, p := range partOrder {
		if c[p] > 0 {
			kinds = append(kinds, p)
		}
	}
	var unknown []PartKind
	for p, n := range c {
		if n > 0 && !p.IsValid() {
			unknown = append(unknown, p)
		}
	}
	sort.Slice(unknown, func(i, j int) bool { return unknown[i] < unknown[j] })
	return append(kinds, unknown...)
}

// PartRequirement maps a part kind to the minimum count needed
type PartRequirement map[PartKind]int
