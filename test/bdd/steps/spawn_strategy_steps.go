package steps

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/colonybot-go/internal/domain/catalog"
	"github.com/andrescamacho/colonybot-go/internal/domain/job"
	"github.com/andrescamacho/colonybot-go/internal/domain/spawning"
)

// spawnStrategyContext holds state for spawn strategy scenarios
type spawnStrategyContext struct {
	tiers    *spawning.TierTable
	recipe   spawning.Recipe
	census   *spawning.Census
	tier     spawning.Tier
	selected bool
	chosen   catalog.BuildProfile
	decision spawning.Decision
	decided  bool
	err      error
}

func (ssc *spawnStrategyContext) reset() {
	ssc.tiers = nil
	ssc.recipe = nil
	ssc.census = spawning.NewCensus()
	ssc.tier = spawning.Tier{}
	ssc.selected = false
	ssc.chosen = ""
	ssc.decision = spawning.Decision{}
	ssc.decided = false
	ssc.err = nil
}

// parseRecipe reads "Build:weight,Build:weight"
func parseRecipe(s string) (spawning.Recipe, error) {
	var recipe spawning.Recipe
	for _, item := range strings.Split(s, ",") {
		parts := strings.SplitN(strings.TrimSpace(item), ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("recipe entry %q is not Build:weight", item)
		}
		weight, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("recipe entry %q: %w", item, err)
		}
		recipe = append(recipe, spawning.RecipeEntry{Build: catalog.BuildProfile(parts[0]), Weight: weight})
	}
	return recipe, nil
}

func recipeString(r spawning.Recipe) string {
	names := make([]string, len(r))
	for i, e := range r {
		names[i] = string(e.Build)
	}
	return strings.Join(names, ",")
}

func (ssc *spawnStrategyContext) theDefaultTierTable() error {
	ssc.tiers = spawning.DefaultTiers
	return nil
}

func (ssc *spawnStrategyContext) iSelectATierFor(level, capacity int) error {
	ssc.tier, ssc.selected = ssc.tiers.Select(level, capacity)
	return nil
}

func (ssc *spawnStrategyContext) theSelectedTierShouldRecipe(expected string) error {
	if !ssc.selected {
		return fmt.Errorf("expected tier with recipe %s, none selected", expected)
	}
	if got := recipeString(ssc.tier.Recipe); got != expected {
		return fmt.Errorf("expected recipe %s, got %s", expected, got)
	}
	return nil
}

func (ssc *spawnStrategyContext) noTierShouldBeSelected() error {
	if ssc.selected {
		return fmt.Errorf("expected no tier, got %s", ssc.tier)
	}
	return nil
}

func (ssc *spawnStrategyContext) thePopulationCapAtLevelShouldBe(level, expected int) error {
	if got := spawning.PopulationCap(level); got != expected {
		return fmt.Errorf("expected cap %d at level %d, got %d", expected, level, got)
	}
	return nil
}

func (ssc *spawnStrategyContext) aRecipeOf(s string) error {
	recipe, err := parseRecipe(s)
	if err != nil {
		return err
	}
	ssc.recipe = recipe
	return nil
}

func (ssc *spawnStrategyContext) aCensusOf(countA int, buildA string, countB int, buildB string) error {
	for i := 0; i < countA; i++ {
		ssc.census.Add(catalog.BuildProfile(buildA), job.KindNone)
	}
	for i := 0; i < countB; i++ {
		ssc.census.Add(catalog.BuildProfile(buildB), job.KindNone)
	}
	return nil
}

func (ssc *spawnStrategyContext) iChooseABuildFromTheRecipe() error {
	build, ok := spawning.ChooseBuild(ssc.recipe, ssc.census)
	if !ok {
		return fmt.Errorf("no build chosen from recipe %s", recipeString(ssc.recipe))
	}
	ssc.chosen = build
	return nil
}

func (ssc *spawnStrategyContext) theChosenBuildShouldBe(expected string) error {
	if string(ssc.chosen) != expected {
		return fmt.Errorf("expected %s, got %s", expected, ssc.chosen)
	}
	return nil
}

func (ssc *spawnStrategyContext) iDecideOnASpawnFor(level, capacity int) error {
	ssc.decision, ssc.decided = spawning.Decide(ssc.tiers, level, capacity, ssc.census)
	return nil
}

func (ssc *spawnStrategyContext) theDecisionShouldNotSpawn() error {
	if ssc.decided && ssc.decision.ShouldSpawn() {
		return fmt.Errorf("expected no spawn, got %s with %d of %d", ssc.decision.Build, ssc.decision.TotalInWorld, ssc.decision.Cap)
	}
	return nil
}

func (ssc *spawnStrategyContext) theDecisionShouldSpawnA(build string) error {
	if !ssc.decided || !ssc.decision.ShouldSpawn() {
		return fmt.Errorf("expected a spawn of %s, got none", build)
	}
	if string(ssc.decision.Build) != build {
		return fmt.Errorf("expected a spawn of %s, got %s", build, ssc.decision.Build)
	}
	return nil
}

func (ssc *spawnStrategyContext) iBuildATierTable(level int, recipe string) error {
	r, err := parseRecipe(recipe)
	if err != nil {
		return err
	}
	ssc.tiers, ssc.err = spawning.NewTierTable(spawning.TierDef{MinLevel: level, Recipe: r})
	return nil
}

func (ssc *spawnStrategyContext) theTierTableShouldBeRejectedWith(substr string) error {
	return expectErrorContaining(ssc.err, substr)
}

// InitializeSpawnStrategyScenario registers spawn strategy steps
func InitializeSpawnStrategyScenario(sc *godog.ScenarioContext) {
	ssc := &spawnStrategyContext{}

	sc.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		ssc.reset()
		return ctx, nil
	})

	sc.Step(`^the default tier table$`, ssc.theDefaultTierTable)
	sc.Step(`^I select a tier for a level (\d+) room with (\d+) energy capacity$`, ssc.iSelectATierFor)
	sc.Step(`^the selected tier should recipe "([^"]*)"$`, ssc.theSelectedTierShouldRecipe)
	sc.Step(`^no tier should be selected$`, ssc.noTierShouldBeSelected)
	sc.Step(`^the population cap at level (\d+) should be (\d+)$`, ssc.thePopulationCapAtLevelShouldBe)
	sc.Step(`^a recipe of "([^"]*)"$`, ssc.aRecipeOf)
	sc.Step(`^a census of (\d+) "([^"]*)" units and (\d+) "([^"]*)" units$`, ssc.aCensusOf)
	sc.Step(`^I choose a build from the recipe$`, ssc.iChooseABuildFromTheRecipe)
	sc.Step(`^the chosen build should be "([^"]*)"$`, ssc.theChosenBuildShouldBe)
	sc.Step(`^I decide on a spawn for a level (\d+) room with (\d+) energy capacity$`, ssc.iDecideOnASpawnFor)
	sc.Step(`^the decision should not spawn$`, ssc.theDecisionShouldNotSpawn)
	sc.Step(`^the decision should spawn a "([^"]*)"$`, ssc.theDecisionShouldSpawnA)
	sc.Step(`^I build a tier table with min level (\d+) and recipe "([^"]*)"$`, ssc.iBuildATierTable)
	sc.Step(`^the tier table should be rejected with "([^"]*)"$`, ssc.theTierTableShouldBeRejectedWith)
}
