package steps

import (
	"context"
	"fmt"
	"strings"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/colonybot-go/internal/domain/catalog"
)

// buildCatalogContext holds state for build catalog scenarios
type buildCatalogContext struct {
	build catalog.BuildProfile
	err   error
}

func (bc *buildCatalogContext) reset() {
	bc.build = ""
	bc.err = nil
}

func (bc *buildCatalogContext) iLookUpTheBuildProfile(name string) error {
	bc.build, bc.err = catalog.ParseBuildProfile(name)
	return nil
}

func (bc *buildCatalogContext) theBuildShouldCostEnergy(cost int) error {
	if bc.err != nil {
		return bc.err
	}
	if got := bc.build.Cost(); got != cost {
		return fmt.Errorf("expected %s to cost %d, got %d", bc.build, cost, got)
	}
	return nil
}

func (bc *buildCatalogContext) theBuildShouldCarryEnergy(capacity int) error {
	if got := bc.build.Parts().CarryCapacity(); got != capacity {
		return fmt.Errorf("expected %s to carry %d, got %d", bc.build, capacity, got)
	}
	return nil
}

func (bc *buildCatalogContext) theBuildBodyShouldHaveParts(parts int) error {
	if got := len(bc.build.Parts().Body()); got != parts {
		return fmt.Errorf("expected %s body of %d parts, got %d", bc.build, parts, got)
	}
	return nil
}

func (bc *buildCatalogContext) theBuildBodyShouldBe(expected string) error {
	body := bc.build.Parts().Body()
	names := make([]string, len(body))
	for i, p := range body {
		names[i] = string(p)
	}
	if got := strings.Join(names, ","); got != expected {
		return fmt.Errorf("expected body %s, got %s", expected, got)
	}
	return nil
}

func requirement(move, work, carry int) catalog.PartRequirement {
	return catalog.PartRequirement{
		catalog.PartMove:  move,
		catalog.PartWork:  work,
		catalog.PartCarry: carry,
	}
}

func (bc *buildCatalogContext) theBuildShouldFulfilARequirement(move, work, carry int) error {
	if !bc.build.Parts().Fulfils(requirement(move, work, carry)) {
		return fmt.Errorf("expected %s to fulfil %d move, %d work, %d carry", bc.build, move, work, carry)
	}
	return nil
}

func (bc *buildCatalogContext) theBuildShouldNotFulfilARequirement(move, work, carry int) error {
	if bc.build.Parts().Fulfils(requirement(move, work, carry)) {
		return fmt.Errorf("expected %s not to fulfil %d move, %d work, %d carry", bc.build, move, work, carry)
	}
	return nil
}

func (bc *buildCatalogContext) theLookupShouldFailWith(substr string) error {
	return expectErrorContaining(bc.err, substr)
}

// InitializeBuildCatalogScenario registers build catalog steps
func InitializeBuildCatalogScenario(sc *godog.ScenarioContext) {
	bc := &buildCatalogContext{}

	sc.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		bc.reset()
		return ctx, nil
	})

	sc.Step(`^I look up the build profile "([^"]*)"$`, bc.iLookUpTheBuildProfile)
	sc.Step(`^the build should cost (\d+) energy$`, bc.theBuildShouldCostEnergy)
	sc.Step(`^the build should carry (\d+) energy$`, bc.theBuildShouldCarryEnergy)
	sc.Step(`^the build body should have (\d+) parts$`, bc.theBuildBodyShouldHaveParts)
	sc.Step(`^the build body should be "([^"]*)"$`, bc.theBuildBodyShouldBe)
	sc.Step(`^the build should fulfil a requirement of (\d+) move, (\d+) work and (\d+) carry$`, bc.theBuildShouldFulfilARequirement)
	sc.Step(`^the build should not fulfil a requirement of (\d+) move, (\d+) work and (\d+) carry$`, bc.theBuildShouldNotFulfilARequirement)
	sc.Step(`^the lookup should fail with "([^"]*)"$`, bc.theLookupShouldFailWith)
}
