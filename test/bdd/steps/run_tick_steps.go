package steps

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/colonybot-go/internal/application/colony"
	"github.com/andrescamacho/colonybot-go/internal/application/logging"
	"github.com/andrescamacho/colonybot-go/internal/domain/catalog"
	"github.com/andrescamacho/colonybot-go/internal/domain/job"
	"github.com/andrescamacho/colonybot-go/internal/domain/shared"
	"github.com/andrescamacho/colonybot-go/internal/domain/unit"
	"github.com/andrescamacho/colonybot-go/test/helpers"
)

// runTickContext holds state for run tick scenarios
type runTickContext struct {
	builder *helpers.SnapshotBuilder
	exec    *helpers.MockExecutor
	states  *helpers.MockUnitStateRepository
	logger  *helpers.RecordingLogger
	report  *colony.TickReport
	err     error
}

func (rtc *runTickContext) reset() {
	rtc.builder = nil
	rtc.exec = helpers.NewMockExecutor()
	rtc.states = helpers.NewMockUnitStateRepository()
	rtc.logger = helpers.NewRecordingLogger()
	rtc.report = nil
	rtc.err = nil
}

func (rtc *runTickContext) aColonyAtTick(tick, level, available, capacity int) error {
	rtc.builder = helpers.NewSnapshotBuilder(uint64(tick), level, available, capacity)
	return nil
}

func (rtc *runTickContext) theColonyHasASpawn(name string, x, y int) error {
	rtc.builder.WithSpawn("spawn-"+strings.ToLower(name), name, helpers.At(x, y), 300)
	return nil
}

func (rtc *runTickContext) theColonyHasAResourceNodeAt(x, y int) error {
	rtc.builder.WithSource(fmt.Sprintf("src-%d-%d", x, y), helpers.At(x, y), 3000)
	return nil
}

func (rtc *runTickContext) seed(name string, build catalog.BuildProfile, j job.Job) error {
	state := unit.NewUnitState(build)
	if j != nil {
		if err := state.Assign(j); err != nil {
			return err
		}
	}
	rtc.states.States[name] = state
	return nil
}

func (rtc *runTickContext) theColonyHasIdleUnits(count int, build string, x, y int) error {
	b, err := catalog.ParseBuildProfile(build)
	if err != nil {
		return err
	}
	for i := 0; i < count; i++ {
		name := fmt.Sprintf("%s-%d", strings.ToLower(build), i+1)
		rtc.builder.WithUnit(name, b, helpers.At(x, y), 0)
		if err := rtc.seed(name, b, nil); err != nil {
			return err
		}
	}
	return nil
}

func (rtc *runTickContext) theColonyHasAnIdleUnit(build, name string, x, y, energy int) error {
	b, err := catalog.ParseBuildProfile(build)
	if err != nil {
		return err
	}
	rtc.builder.WithUnit(name, b, helpers.At(x, y), energy)
	return rtc.seed(name, b, nil)
}

func (rtc *runTickContext) theColonyHasAUnitWithAFinishedHarvestJob(build, name string, x, y, energy int) error {
	b, err := catalog.ParseBuildProfile(build)
	if err != nil {
		return err
	}
	done, err := job.FromData(job.Data{Kind: string(job.KindHarvest), Stage: string(job.HarvestDone)})
	if err != nil {
		return err
	}
	rtc.builder.WithUnit(name, b, helpers.At(x, y), energy)
	return rtc.seed(name, b, done)
}

func (rtc *runTickContext) theColonyHasAnUnreadableUnit(name string) error {
	rtc.builder.WithUnit(name, catalog.Worker1_1, helpers.At(30, 30), 0)
	rtc.states.LoadErrs[name] = errors.New("corrupt state record")
	return nil
}

func (rtc *runTickContext) theColonyExecutorAnswersWith(action, outcome string) error {
	code, err := parseOutcome(outcome)
	if err != nil {
		return err
	}
	rtc.exec.SetOutcome(action, code)
	return nil
}

func (rtc *runTickContext) theColonyRunsATick() error {
	snapshots := &helpers.StaticSnapshotProvider{Snap: rtc.builder.Build()}
	clock := shared.NewMockClock(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	handler := colony.NewRunTickHandler(snapshots, rtc.exec, rtc.states, nil, nil, clock)

	ctx := logging.WithLogger(context.Background(), rtc.logger)
	resp, err := handler.Handle(ctx, &colony.RunTickCommand{RunID: "bdd-run"})
	if err != nil {
		rtc.err = err
		return nil
	}
	rtc.report = resp.(*colony.RunTickResponse).Report
	return nil
}

func (rtc *runTickContext) tickReport() (*colony.TickReport, error) {
	if rtc.err != nil {
		return nil, fmt.Errorf("tick failed: %w", rtc.err)
	}
	if rtc.report == nil {
		return nil, fmt.Errorf("no tick was run")
	}
	return rtc.report, nil
}

func (rtc *runTickContext) theColonyShouldHaveRequestedASpawnNamed(name string) error {
	for _, call := range rtc.exec.CallsOf("spawn") {
		if call.Name == name {
			return nil
		}
	}
	return fmt.Errorf("expected a spawn named %s, calls: %v", name, rtc.exec.CallsOf("spawn"))
}

func (rtc *runTickContext) theColonyShouldNotHaveRequestedASpawn() error {
	if calls := rtc.exec.CallsOf("spawn"); len(calls) > 0 {
		return fmt.Errorf("expected no spawn requests, got %v", calls)
	}
	return nil
}

func (rtc *runTickContext) theStoredStateShouldBeAnIdle(name, build string) error {
	state, ok := rtc.states.Get(name)
	if !ok {
		return fmt.Errorf("no state stored for %s", name)
	}
	if string(state.Build()) != build {
		return fmt.Errorf("expected build %s, got %s", build, state.Build())
	}
	if !state.IsIdle() {
		return fmt.Errorf("expected %s to be idle, got %s", name, state)
	}
	return nil
}

func (rtc *runTickContext) theStoredJobShouldBe(name, kind, stage string) error {
	state, ok := rtc.states.Get(name)
	if !ok {
		return fmt.Errorf("no state stored for %s", name)
	}
	if got := string(state.JobKind()); got != kind {
		return fmt.Errorf("expected %s to have job %s, got %s", name, kind, got)
	}
	if got := state.Job().Stage(); got != stage {
		return fmt.Errorf("expected %s job stage %s, got %s", name, stage, got)
	}
	return nil
}

func (rtc *runTickContext) theTickReportShouldListSpawnRequests(requests, accepted int) error {
	report, err := rtc.tickReport()
	if err != nil {
		return err
	}
	if len(report.Spawns) != requests || len(report.AcceptedSpawns()) != accepted {
		return fmt.Errorf("expected %d requests and %d accepted, got %d and %d",
			requests, accepted, len(report.Spawns), len(report.AcceptedSpawns()))
	}
	return nil
}

func (rtc *runTickContext) noUnitStateShouldBeStored() error {
	if len(rtc.states.States) > 0 {
		return fmt.Errorf("expected no stored states, got %d", len(rtc.states.States))
	}
	return nil
}

func (rtc *runTickContext) theCensusShouldCount(count int, build string) error {
	report, err := rtc.tickReport()
	if err != nil {
		return err
	}
	if got := report.ByBuild[catalog.BuildProfile(build)]; got != count {
		return fmt.Errorf("expected census of %d %s, got %d", count, build, got)
	}
	return nil
}

func (rtc *runTickContext) reportCounter(what string, expected int) error {
	report, err := rtc.tickReport()
	if err != nil {
		return err
	}

	var got int
	switch what {
	case "jobs assigned", "job assigned":
		got = report.JobsAssigned
	case "jobs cleared", "job cleared":
		got = report.JobsCleared
	case "units skipped", "unit skipped":
		got = report.UnitsSkipped
	case "drive failures", "drive failure":
		got = report.DriveFailures
	default:
		return fmt.Errorf("unknown report counter %q", what)
	}

	if got != expected {
		return fmt.Errorf("expected %d %s, got %d", expected, what, got)
	}
	return nil
}

func (rtc *runTickContext) theTickReportShouldShow(expected int, what string) error {
	return rtc.reportCounter(what, expected)
}

func (rtc *runTickContext) anEntryMentioningShouldBeLogged(level, substr string) error {
	for _, e := range rtc.logger.WithLevel(level) {
		if strings.Contains(e.Message, substr) {
			return nil
		}
	}
	return fmt.Errorf("expected a %s entry mentioning %q, got %v", level, substr, rtc.logger.Entries)
}

// InitializeRunTickScenario registers run tick steps
func InitializeRunTickScenario(sc *godog.ScenarioContext) {
	rtc := &runTickContext{}

	sc.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		rtc.reset()
		return ctx, nil
	})

	// Colony setup
	sc.Step(`^a colony at tick (\d+) in a level (\d+) room with (\d+) of (\d+) energy$`, rtc.aColonyAtTick)
	sc.Step(`^the colony has a spawn "([^"]*)" at (\d+),(\d+)$`, rtc.theColonyHasASpawn)
	sc.Step(`^the colony has a resource node at (\d+),(\d+)$`, rtc.theColonyHasAResourceNodeAt)
	sc.Step(`^the colony has (\d+) idle "([^"]*)" units at (\d+),(\d+)$`, rtc.theColonyHasIdleUnits)
	sc.Step(`^the colony has an idle "([^"]*)" unit "([^"]*)" at (\d+),(\d+) carrying (\d+) energy$`, rtc.theColonyHasAnIdleUnit)
	sc.Step(`^the colony has a "([^"]*)" unit "([^"]*)" at (\d+),(\d+) carrying (\d+) energy with a finished harvest job$`, rtc.theColonyHasAUnitWithAFinishedHarvestJob)
	sc.Step(`^the colony has a unit "([^"]*)" whose state cannot be read$`, rtc.theColonyHasAnUnreadableUnit)
	sc.Step(`^the colony executor answers "([^"]*)" with "([^"]*)"$`, rtc.theColonyExecutorAnswersWith)

	// Actions
	sc.Step(`^the colony runs a tick$`, rtc.theColonyRunsATick)

	// Assertions
	sc.Step(`^the colony should have requested a spawn named "([^"]*)"$`, rtc.theColonyShouldHaveRequestedASpawnNamed)
	sc.Step(`^the colony should not have requested a spawn$`, rtc.theColonyShouldNotHaveRequestedASpawn)
	sc.Step(`^the stored state of "([^"]*)" should be an idle "([^"]*)"$`, rtc.theStoredStateShouldBeAnIdle)
	sc.Step(`^the stored job of "([^"]*)" should be "([^"]*)" at stage "([^"]*)"$`, rtc.theStoredJobShouldBe)
	sc.Step(`^the tick report should list (\d+) spawn requests? and (\d+) accepted$`, rtc.theTickReportShouldListSpawnRequests)
	sc.Step(`^no unit state should be stored$`, rtc.noUnitStateShouldBeStored)
	sc.Step(`^the census should count (\d+) "([^"]*)" units$`, rtc.theCensusShouldCount)
	sc.Step(`^the tick report should show (\d+) (jobs? assigned|jobs? cleared|units? skipped|drive failures?)$`, rtc.theTickReportShouldShow)
	sc.Step(`^a "([^"]*)" entry mentioning "([^"]*)" should be logged$`, rtc.anEntryMentioningShouldBeLogged)
}
