package spawning

import (
	"github.com/andrescamacho/colonybot-go/internal/domain/catalog"
	"github.com/andrescamacho/colonybot-go/internal/domain/job"
)

// Census counts the population by build and by job kind
type Census struct {
	ByBuild map[catalog.BuildProfile]int
	ByJob   map[job.Kind]int
	Total   int
}

// NewCensus creates an empty census
func NewCensus() *Census {
	return &Census{
		ByBuild: make(map[catalog.BuildProfile]int),
		ByJob:   make(map[job.Kind]int),
	}
}

// Add counts one unit
func (c *Census) Add(build catalog.BuildProfile, kind job.Kind) {
	c.ByBuild[build]++
	c.ByJob[kind]++
	c.Total++
}

// Count returns the population of one build
func (c *Census) Count(build catalog.BuildProfile) int {
	return c.ByBuild[build]
}

// CountInRecipe sums the population of the builds the recipe names
func (c *Census) CountInRecipe(r Recipe) int {
	total := 0
	for _, e := range r {
		total += c.ByBuild[e.Build]
	}
	return total
}
