package bdd

import (
	"os"
	"testing"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/colonybot-go/test/bdd/steps"
	"github.com/andrescamacho/colonybot-go/test/helpers"
)

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/domain", "features/application", "features/adapters"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

func InitializeScenario(sc *godog.ScenarioContext) {
	// Domain scenarios
	steps.InitializeBuildCatalogScenario(sc)
	steps.InitializeSpawnStrategyScenario(sc)
	steps.InitializeJobScenario(sc)

	// Application scenarios
	steps.InitializeRunTickScenario(sc)

	// Adapter scenarios
	steps.InitializeTickLoggingScenario(sc)
}

func TestMain(m *testing.M) {
	// One migrated database serves every scenario; scenarios truncate it
	if err := helpers.InitializeSharedTestDB(); err != nil {
		panic("Failed to initialize shared test database: " + err.Error())
	}

	code := m.Run()
	helpers.CloseSharedTestDB()
	os.Exit(code)
}
