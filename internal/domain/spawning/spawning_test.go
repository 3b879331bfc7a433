package spawning

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/colonybot-go/internal/domain/catalog"
	"github.com/andrescamacho/colonybot-go/internal/domain/job"
)

func TestDefaultTiers_SortedRichestFirst(t *testing.T) {
	tiers := DefaultTiers.Tiers()
	require.Len(t, tiers, 3)

	assert.Equal(t, 2, tiers[0].MinLevel)
	assert.Equal(t, 550, tiers[0].MaxCost)
	assert.Equal(t, 2, tiers[1].MinLevel)
	assert.Equal(t, 300, tiers[1].MaxCost)
	assert.Equal(t, 1, tiers[2].MinLevel)
	assert.Equal(t, 200, tiers[2].MaxCost)

	for i := 1; i < len(tiers); i++ {
		prev, cur := tiers[i-1], tiers[i]
		ordered := prev.MinLevel > cur.MinLevel || (prev.MinLevel == cur.MinLevel && prev.MaxCost >= cur.MaxCost)
		assert.True(t, ordered, "tier %d out of order", i)
	}
}

func TestTierTable_Select(t *testing.T) {
	tests := []struct {
		name      string
		level     int
		capacity  int
		wantBuild catalog.BuildProfile
		wantOK    bool
	}{
		{"no controller", 0, 300, "", false},
		{"level 1 fresh room", 1, 300, catalog.Worker1_1, true},
		{"level 1 cannot afford", 1, 150, "", false},
		{"level 2 with 300 capacity", 2, 300, catalog.Worker2_1, true},
		{"level 2 with extensions", 2, 550, catalog.Worker2_2, true},
		{"level 2 low capacity falls back to level 1 tier", 2, 250, catalog.Worker1_1, true},
		{"level 5 rich room", 5, 1300, catalog.Worker2_2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier, ok := DefaultTiers.Select(tt.level, tt.capacity)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.wantBuild, tier.Recipe[0].Build)
				assert.True(t, tier.Admits(tt.level, tt.capacity))
			}
		})
	}
}

func TestNewTierTable_Validation(t *testing.T) {
	tests := []struct {
		name string
		def  TierDef
	}{
		{"level zero", TierDef{MinLevel: 0, Recipe: Recipe{{catalog.Worker1_1, 1}}}},
		{"empty recipe", TierDef{MinLevel: 1}},
		{"unknown build", TierDef{MinLevel: 1, Recipe: Recipe{{"Soldier", 1}}}},
		{"zero weight", TierDef{MinLevel: 1, Recipe: Recipe{{catalog.Worker1_1, 0}}}},
		{"duplicate build", TierDef{MinLevel: 1, Recipe: Recipe{{catalog.Worker1_1, 1}, {catalog.Worker1_1, 2}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTierTable(tt.def)
			assert.Error(t, err)
		})
	}
}

func TestPopulationCap(t *testing.T) {
	assert.Equal(t, 5, PopulationCap(0))
	assert.Equal(t, 5, PopulationCap(1))
	assert.Equal(t, 10, PopulationCap(2))
	assert.Equal(t, 10, PopulationCap(8))
}

func TestDeficitRatio(t *testing.T) {
	assert.Equal(t, 0.0, DeficitRatio(0, 0, 1, 1), "empty population")
	assert.Equal(t, 0.0, DeficitRatio(0, 4, 1, 2))
	assert.InDelta(t, 1.5, DeficitRatio(3, 4, 1, 2), 1e-9)
	assert.InDelta(t, 0.5, DeficitRatio(1, 4, 1, 2), 1e-9)
	assert.True(t, math.IsInf(DeficitRatio(1, 1, 0, 1), 1))
}

func TestChooseBuild_PicksMostUnderRepresented(t *testing.T) {
	recipe := Recipe{{catalog.Worker1_1, 1}, {catalog.Worker2_1, 3}}

	census := NewCensus()
	census.Add(catalog.Worker1_1, job.KindHarvest)
	census.Add(catalog.Worker1_1, job.KindHarvest)
	census.Add(catalog.Worker2_1, job.KindNone)

	build, ok := ChooseBuild(recipe, census)
	require.True(t, ok)
	assert.Equal(t, catalog.Worker2_1, build)
}

func TestChooseBuild_EmptyPopulationTakesFirstEntry(t *testing.T) {
	recipe := Recipe{{catalog.Worker2_1, 1}, {catalog.Worker1_1, 5}}

	build, ok := ChooseBuild(recipe, NewCensus())
	require.True(t, ok)
	assert.Equal(t, catalog.Worker2_1, build)
}

func TestChooseBuild_IgnoresBuildsOutsideRecipe(t *testing.T) {
	recipe := Recipe{{catalog.Worker2_2, 1}}
	census := NewCensus()
	for i := 0; i < 7; i++ {
		census.Add(catalog.Worker1_1, job.KindHarvest)
	}

	assert.Equal(t, 0, census.CountInRecipe(recipe))
	build, ok := ChooseBuild(recipe, census)
	require.True(t, ok)
	assert.Equal(t, catalog.Worker2_2, build)
}

func TestDecide_RespectsCap(t *testing.T) {
	census := NewCensus()
	for i := 0; i < 5; i++ {
		census.Add(catalog.Worker1_1, job.KindHarvest)
	}

	decision, ok := Decide(DefaultTiers, 1, 300, census)
	require.True(t, ok)
	assert.Equal(t, 5, decision.TotalInWorld)
	assert.Equal(t, 5, decision.Cap)
	assert.False(t, decision.ShouldSpawn())

	// Level 2 with 300 capacity counts only Worker2_1 units
	decision, ok = Decide(DefaultTiers, 2, 300, census)
	require.True(t, ok)
	assert.Equal(t, catalog.Worker2_1, decision.Build)
	assert.Equal(t, 0, decision.TotalInWorld)
	assert.True(t, decision.ShouldSpawn())
}

func TestDecide_NoTier(t *testing.T) {
	_, ok := Decide(DefaultTiers, 0, 300, NewCensus())
	assert.False(t, ok)
}
