package steps

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/colonybot-go/internal/adapters/persistence"
	"github.com/andrescamacho/colonybot-go/internal/application/logging"
	"github.com/andrescamacho/colonybot-go/internal/domain/shared"
	"github.com/andrescamacho/colonybot-go/test/helpers"
)

// tickLoggingContext holds state for tick log scenarios
type tickLoggingContext struct {
	repo      *persistence.GormTickLogRepository
	clock     *shared.MockClock
	runLogger *persistence.RunLogger
}

func (tlc *tickLoggingContext) reset() {
	tlc.repo = nil
	tlc.clock = shared.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	tlc.runLogger = nil
}

// ============================================================================
// Setup Steps
// ============================================================================

func (tlc *tickLoggingContext) aTickLogRepositoryOnTheSharedDatabase() error {
	if err := helpers.TruncateAllTables(); err != nil {
		return err
	}
	tlc.repo = persistence.NewGormTickLogRepository(helpers.SharedTestDB, tlc.clock)
	return nil
}

func (tlc *tickLoggingContext) aRunLoggerForRun(runID string) error {
	tlc.runLogger = persistence.NewRunLogger(tlc.repo, runID)
	return nil
}

// ============================================================================
// Logging Action Steps
// ============================================================================

func (tlc *tickLoggingContext) runLogsAt(runID, message, level string) error {
	return tlc.repo.Log(context.Background(), runID, 0, message, level, nil)
}

func (tlc *tickLoggingContext) runLogsAtOnTick(runID, message, level string, tick int) error {
	return tlc.repo.Log(context.Background(), runID, uint64(tick), message, level, nil)
}

func (tlc *tickLoggingContext) secondsPass(seconds int) error {
	tlc.clock.Advance(time.Duration(seconds) * time.Second)
	return nil
}

func (tlc *tickLoggingContext) theRunLoggerLogsAtTick(message string, tick int) error {
	tlc.runLogger.Log(logging.LevelInfo, message, map[string]interface{}{"tick": uint64(tick)})
	return nil
}

// ============================================================================
// Query Steps
// ============================================================================

func (tlc *tickLoggingContext) logs(runID string, level *string) ([]persistence.TickLogEntry, error) {
	return tlc.repo.GetLogs(context.Background(), runID, 1000, 0, level, nil)
}

func (tlc *tickLoggingContext) runShouldHaveLogEntries(runID string, expected int) error {
	entries, err := tlc.logs(runID, nil)
	if err != nil {
		return err
	}
	if len(entries) != expected {
		return fmt.Errorf("expected %d entries for %s, got %d", expected, runID, len(entries))
	}
	return nil
}

func (tlc *tickLoggingContext) runShouldHaveLevelLogEntries(runID string, expected int, level string) error {
	entries, err := tlc.logs(runID, &level)
	if err != nil {
		return err
	}
	if len(entries) != expected {
		return fmt.Errorf("expected %d %s entries for %s, got %d", expected, level, runID, len(entries))
	}
	for _, e := range entries {
		if e.Level != level {
			return fmt.Errorf("level filter %s returned a %s entry", level, e.Level)
		}
	}
	return nil
}

func (tlc *tickLoggingContext) theListedRunsShouldBe(expected string) error {
	runs, err := tlc.repo.ListRuns(context.Background(), 10)
	if err != nil {
		return err
	}
	got := make([]string, len(runs))
	for i, r := range runs {
		got[i] = fmt.Sprintf("%s:%d", r.RunID, r.Entries)
	}
	if strings.Join(got, ",") != expected {
		return fmt.Errorf("expected runs %s, got %s", expected, strings.Join(got, ","))
	}
	return nil
}

func (tlc *tickLoggingContext) theLatestEntryOfRunShouldBeAtTick(runID string, tick int) error {
	entries, err := tlc.logs(runID, nil)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("no entries for %s", runID)
	}
	if entries[0].Tick != uint64(tick) {
		return fmt.Errorf("expected tick %d, got %d", tick, entries[0].Tick)
	}
	return nil
}

// InitializeTickLoggingScenario registers tick log steps
func InitializeTickLoggingScenario(sc *godog.ScenarioContext) {
	tlc := &tickLoggingContext{}

	sc.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tlc.reset()
		return ctx, nil
	})

	// Setup steps
	sc.Step(`^a tick log repository on the shared database$`, tlc.aTickLogRepositoryOnTheSharedDatabase)
	sc.Step(`^a run logger for run "([^"]*)"$`, tlc.aRunLoggerForRun)

	// Logging action steps
	sc.Step(`^run "([^"]*)" logs "([^"]*)" at "([^"]*)"$`, tlc.runLogsAt)
	sc.Step(`^run "([^"]*)" logs "([^"]*)" at "([^"]*)" on tick (\d+)$`, tlc.runLogsAtOnTick)
	sc.Step(`^(\d+) seconds pass$`, tlc.secondsPass)
	sc.Step(`^the run logger logs "([^"]*)" at tick (\d+)$`, tlc.theRunLoggerLogsAtTick)

	// Query steps
	sc.Step(`^run "([^"]*)" should have (\d+) log entries$`, tlc.runShouldHaveLogEntries)
	sc.Step(`^run "([^"]*)" should have (\d+) "([^"]*)" log entries$`, tlc.runShouldHaveLevelLogEntries)
	sc.Step(`^the listed runs should be "([^"]*)"$`, tlc.theListedRunsShouldBe)
	sc.Step(`^the latest entry of run "([^"]*)" should be at tick (\d+)$`, tlc.theLatestEntryOfRunShouldBeAtTick)
}
