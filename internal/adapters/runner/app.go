package runner

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	adapterLogging "github.com/andrescamacho/colonybot-go/internal/adapters/logging"
	"github.com/andrescamacho/colonybot-go/internal/adapters/metrics"
	"github.com/andrescamacho/colonybot-go/internal/adapters/persistence"
	"github.com/andrescamacho/colonybot-go/internal/adapters/sim"
	"github.com/andrescamacho/colonybot-go/internal/application/colony"
	"github.com/andrescamacho/colonybot-go/internal/application/logging"
	"github.com/andrescamacho/colonybot-go/internal/application/mediator"
	"github.com/andrescamacho/colonybot-go/internal/infrastructure/config"
	"github.com/andrescamacho/colonybot-go/internal/infrastructure/database"
	"github.com/andrescamacho/colonybot-go/pkg/utils"
)

// App is the wired colony: database, simulated world, repositories, logger
// and a mediator with the tick handler registered
type App struct {
	RunID    string
	DB       *gorm.DB
	World    *sim.World
	States   *persistence.GormUnitStateRepository
	TickLogs *persistence.GormTickLogRepository
	Mediator mediator.Mediator
	Logger   logging.ColonyLogger

	slog *adapterLogging.SlogLogger
}

// NewApp wires the colony from configuration. An empty runID takes the
// configured one, or a generated id prefixed with the scenario name. commandMetrics may be nil.
// Unit states stored by an earlier run are removed.
func NewApp(cfg *config.Config, scenario *sim.Scenario, runID string, commandMetrics *metrics.CommandMetricsCollector) (*App, error) {
	if runID == "" {
		runID = cfg.Simulation.RunID
	}
	if runID == "" {
		runID = utils.GenerateRunID(scenario.Name)
	}

	w, err := sim.NewWorld(scenario)
	if err != nil {
		return nil, fmt.Errorf("failed to build world: %w", err)
	}

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		database.Close(db)
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	slogger, err := adapterLogging.NewSlogLogger(cfg.Logging)
	if err != nil {
		database.Close(db)
		return nil, err
	}

	app := &App{
		RunID:    runID,
		DB:       db,
		World:    w,
		States:   persistence.NewGormUnitStateRepository(db, nil),
		TickLogs: persistence.NewGormTickLogRepository(db, nil),
		Mediator: mediator.NewMediator(),
		slog:     slogger,
	}

	if cfg.Logging.Persist {
		app.Logger = logging.Tee(slogger, persistence.NewRunLogger(app.TickLogs, runID))
	} else {
		app.Logger = slogger
	}

	if commandMetrics != nil {
		app.Mediator.Use(metrics.PrometheusMiddleware(commandMetrics))
	}

	// The simulated world restarts from its scenario, so states left by an
	// earlier run would be picked up by units that reuse their spawn names
	cleared, err := app.States.DeleteAll(context.Background())
	if err != nil {
		app.Close()
		return nil, err
	}
	if cleared > 0 {
		app.Logger.Log(logging.LevelInfo, "Cleared unit states of a previous run", map[string]interface{}{
			"run_id": runID,
			"states": cleared,
		})
	}

	handler := colony.NewRunTickHandler(w, w, app.States, nil, nil, nil)
	if err := mediator.RegisterHandler[*colony.RunTickCommand](app.Mediator, handler); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to register RunTick handler: %w", err)
	}

	return app, nil
}

// LoadScenario reads the scenario file, or returns the starter room when
// path is empty
func LoadScenario(path string) (*sim.Scenario, error) {
	if path == "" {
		return sim.StarterScenario(), nil
	}
	return sim.LoadScenario(path)
}

// Context returns ctx carrying the app logger
func (a *App) Context(ctx context.Context) context.Context {
	return logging.WithLogger(ctx, a.Logger)
}

// Runner creates a tick runner over the app's world and state store
func (a *App) Runner(opts Options) *TickRunner {
	opts.RunID = a.RunID
	return NewTickRunner(a.Mediator, a.World, a.States, opts)
}

// Close releases the log output and the database
func (a *App) Close() error {
	var firstErr error
	if a.slog != nil {
		if err := a.slog.Close(); err != nil {
			firstErr = err
		}
	}
	if a.DB != nil {
		if err := database.Close(a.DB); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
