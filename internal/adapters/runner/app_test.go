package runner_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/colonybot-go/internal/adapters/runner"
	"github.com/andrescamacho/colonybot-go/internal/adapters/sim"
	"github.com/andrescamacho/colonybot-go/internal/domain/catalog"
	"github.com/andrescamacho/colonybot-go/internal/domain/unit"
	"github.com/andrescamacho/colonybot-go/internal/infrastructure/config"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Database.Type = "sqlite"
	cfg.Database.Path = ":memory:"
	cfg.Logging.Level = "error"
	cfg.Logging.Persist = true
	config.SetDefaults(cfg)
	return cfg
}

func TestApp_RunPersistsStatesAndLogs(t *testing.T) {
	app, err := runner.NewApp(testConfig(), sim.StarterScenario(), "run-app", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	ctx := app.Context(context.Background())
	summary, err := app.Runner(runner.Options{MaxTicks: 2}).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, "run-app", summary.RunID)

	stored, err := app.States.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "Worker1_1:Spawn1:0", stored[0].UnitID)

	runs, err := app.TickLogs.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-app", runs[0].RunID)
	assert.Positive(t, runs[0].Entries)
}

func TestApp_GeneratesRunID(t *testing.T) {
	app, err := runner.NewApp(testConfig(), sim.StarterScenario(), "", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	assert.Regexp(t, "^starter-[0-9a-f]{8}$", app.RunID)
}

func TestLoadScenario_EmptyPathIsStarter(t *testing.T) {
	sc, err := runner.LoadScenario("")
	require.NoError(t, err)
	assert.Equal(t, "starter", sc.Name)
}

func TestApp_RestartDoesNotInheritStatesOfEarlierRun(t *testing.T) {
	cfg := testConfig()
	cfg.Database.Path = filepath.Join(t.TempDir(), "colony.db")
	ctx := context.Background()

	first, err := runner.NewApp(cfg, sim.StarterScenario(), "run-first", nil)
	require.NoError(t, err)
	require.NoError(t, first.States.Store(ctx, "Worker1_1:Spawn1:0", unit.NewUnitState(catalog.Worker2_1)))
	require.NoError(t, first.States.Store(ctx, "gone", unit.NewUnitState(catalog.Worker2_1)))
	require.NoError(t, first.Close())

	second, err := runner.NewApp(cfg, sim.StarterScenario(), "run-second", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Close() })

	stored, err := second.States.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored)

	_, err = second.Runner(runner.Options{MaxTicks: 2}).Run(second.Context(ctx))
	require.NoError(t, err)

	stored, err = second.States.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "Worker1_1:Spawn1:0", stored[0].UnitID)
	assert.Equal(t, catalog.Worker1_1, stored[0].State.Build())
}
