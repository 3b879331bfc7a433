package spawning

import (
	"math"

	"github.com/andrescamacho/colonybot-go/internal/domain/catalog"
)

// PopulationCap is the most recipe units a room level supports
func PopulationCap(level int) int {
	if level <= 1 {
		return 5
	}
	return 10
}

// DeficitRatio is a build's share of the recipe population divided by its
// share of the recipe weight. Below 1 means under-represented. A build with
// no units has share 0, which also covers an empty population.
func DeficitRatio(count, totalInWorld, weight, totalWeight int) float64 {
	if weight <= 0 || totalWeight <= 0 {
		return math.Inf(1)
	}
	worldShare := 0.0
	if totalInWorld > 0 {
		worldShare = float64(count) / float64(totalInWorld)
	}
	wantedShare := float64(weight) / float64(totalWeight)
	return worldShare / wantedShare
}

// ChooseBuild picks the recipe build with the lowest deficit ratio; the
// first entry wins ties
func ChooseBuild(recipe Recipe, census *Census) (catalog.BuildProfile, bool) {
	totalWeight := recipe.TotalWeight()
	totalInWorld := census.CountInRecipe(recipe)

	var chosen catalog.BuildProfile
	best := math.Inf(1)
	found := false
	for _, e := range recipe {
		ratio := DeficitRatio(census.Count(e.Build), totalInWorld, e.Weight, totalWeight)
		if !found || ratio < best {
			chosen, best, found = e.Build, ratio, true
		}
	}
	return chosen, found
}

// Decision is the outcome of the spawn strategy for one spawn structure
type Decision struct {
	Tier         Tier
	Build        catalog.BuildProfile
	TotalInWorld int
	Cap          int
}

// ShouldSpawn reports whether the population is still below the cap
func (d Decision) ShouldSpawn() bool {
	return d.TotalInWorld < d.Cap
}

// Decide runs tier selection and build choice for a room. The second result
// is false when no tier admits the room.
func Decide(tiers *TierTable, level, energyCapacity int, census *Census) (Decision, bool) {
	tier, ok := tiers.Select(level, energyCapacity)
	if !ok {
		return Decision{}, false
	}

	build, ok := ChooseBuild(tier.Recipe, census)
	if !ok {
		return Decision{}, false
	}

	return Decision{
		Tier:         tier,
		Build:        build,
		TotalInWorld: census.CountInRecipe(tier.Recipe),
		Cap:          PopulationCap(level),
	}, true
}
