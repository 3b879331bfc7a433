package spawning

import (
	"fmt"
	"sort"

	"github.com/andrescamacho/colonybot-go/internal/domain/catalog"
)

// RecipeEntry gives a build profile its relative production weight
type RecipeEntry struct {
	Build  catalog.BuildProfile
	Weight int
}

// Recipe is an ordered list of weighted builds. Order decides ties.
type Recipe []RecipeEntry

// TotalWeight is the sum of all weights
func (r Recipe) TotalWeight() int {
	total := 0
	for _, e := range r {
		total += e.Weight
	}
	return total
}

// Contains reports whether the build is part of the recipe
func (r Recipe) Contains(b catalog.BuildProfile) bool {
	for _, e := range r {
		if e.Build == b {
			return true
		}
	}
	return false
}

// MaxCost is the cost of the most expensive build in the recipe
func (r Recipe) MaxCost() int {
	highest := 0
	for _, e := range r {
		if c := e.Build.Cost(); c > highest {
			highest = c
		}
	}
	return highest
}

// Tier gates a recipe behind a minimum room level and an energy capacity
type Tier struct {
	MinLevel int
	MaxCost  int
	Recipe   Recipe
}

// Admits reports whether a room at this level and capacity can use the tier
func (t Tier) Admits(level, energyCapacity int) bool {
	return level >= t.MinLevel && energyCapacity >= t.MaxCost
}

func (t Tier) String() string {
	return fmt.Sprintf("Tier[level>=%d, cost<=%d, recipe=%v]", t.MinLevel, t.MaxCost, t.Recipe)
}

// TierTable is sorted richest first, so the first admitted tier is the most
// capable one the room can afford. It is immutable after construction.
type TierTable struct {
	tiers []Tier
}

// NewTierTable validates the recipes, derives each tier's max cost and
// sorts descending by (min level, max cost)
func NewTierTable(defs ...TierDef) (*TierTable, error) {
	tiers := make([]Tier, 0, len(defs))
	for i, def := range defs {
		if def.MinLevel < 1 {
			return nil, fmt.Errorf("tier %d: min level must be >= 1, got %d", i, def.MinLevel)
		}
		if len(def.Recipe) == 0 {
			return nil, fmt.Errorf("tier %d: recipe cannot be empty", i)
		}
		recipe := make(Recipe, len(def.Recipe))
		for j, e := range def.Recipe {
			if !e.Build.IsValid() {
				return nil, fmt.Errorf("tier %d: unknown build %q", i, e.Build)
			}
			if e.Weight < 1 {
				return nil, fmt.Errorf("tier %d: weight of %s must be >= 1", i, e.Build)
			}
			if recipe[:j].Contains(e.Build) {
				return nil, fmt.Errorf("tier %d: build %s listed twice", i, e.Build)
			}
			recipe[j] = e
		}
		tiers = append(tiers, Tier{MinLevel: def.MinLevel, MaxCost: recipe.MaxCost(), Recipe: recipe})
	}

	sort.SliceStable(tiers, func(i, j int) bool {
		if tiers[i].MinLevel != tiers[j].MinLevel {
			return tiers[i].MinLevel > tiers[j].MinLevel
		}
		return tiers[i].MaxCost > tiers[j].MaxCost
	})

	return &TierTable{tiers: tiers}, nil
}

// MustNewTierTable is NewTierTable for static tables known to be valid
func MustNewTierTable(defs ...TierDef) *TierTable {
	t, err := NewTierTable(defs...)
	if err != nil {
		panic(fmt.Sprintf("invalid tier table: %v", err))
	}
	return t
}

// TierDef is the unsorted input to NewTierTable
type TierDef struct {
	MinLevel int
	Recipe   Recipe
}

// Select returns the first tier admitting the room. No match is a silent
// no-op for the caller.
func (t *TierTable) Select(level, energyCapacity int) (Tier, bool) {
	for _, tier := range t.tiers {
		if tier.Admits(level, energyCapacity) {
			return tier, true
		}
	}
	return Tier{}, false
}

// Tiers returns a copy of the sorted tiers
func (t *TierTable) Tiers() []Tier {
	out := make([]Tier, len(t.tiers))
	copy(out, t.tiers)
	return out
}

// DefaultTiers is the worker tier table used by the colony
var DefaultTiers = MustNewTierTable(
	TierDef{MinLevel: 1, Recipe: Recipe{{Build: catalog.Worker1_1, Weight: 1}}},
	TierDef{MinLevel: 2, Recipe: Recipe{{Build: catalog.Worker2_1, Weight: 1}}},
	TierDef{MinLevel: 2, Recipe: Recipe{{Build: catalog.Worker2_2, Weight: 1}}},
)
