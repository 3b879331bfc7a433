package steps

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/colonybot-go/internal/domain/catalog"
	"github.com/andrescamacho/colonybot-go/internal/domain/job"
	"github.com/andrescamacho/colonybot-go/internal/domain/world"
	"github.com/andrescamacho/colonybot-go/test/helpers"
)

// jobContext holds state for harvest and distribute energy scenarios.
// The snapshot is assembled lazily on the first drive.
type jobContext struct {
	builder   *helpers.SnapshotBuilder
	noSources bool
	snapshot  *world.Snapshot
	unitName  string
	job       job.Job
	exec      *helpers.MockExecutor
	err       error
}

func (jc *jobContext) reset() {
	jc.builder = nil
	jc.noSources = false
	jc.snapshot = nil
	jc.unitName = ""
	jc.job = nil
	jc.exec = helpers.NewMockExecutor()
	jc.err = nil
}

func (jc *jobContext) aLevelRoomWithEnergy(level, available, capacity int) error {
	jc.builder = helpers.NewSnapshotBuilder(1, level, available, capacity)
	return nil
}

func (jc *jobContext) aRoomWithoutControllerWithEnergy(available, capacity int) error {
	jc.builder = helpers.NewSnapshotBuilder(1, 0, available, capacity)
	return nil
}

func (jc *jobContext) aResourceNodeAt(id string, x, y, energy int) error {
	jc.builder.WithSource(id, helpers.At(x, y), energy)
	return nil
}

func (jc *jobContext) theRoomHasNoResourceNodes() error {
	jc.noSources = true
	return nil
}

func (jc *jobContext) aSpawnAt(id string, x, y, energy int) error {
	jc.builder.WithSpawn(id, id, helpers.At(x, y), energy)
	return nil
}

func (jc *jobContext) anExtensionAt(id string, x, y, energy int) error {
	jc.builder.WithExtension(id, helpers.At(x, y), energy)
	return nil
}

func (jc *jobContext) aConstructionSiteAt(id string, x, y int) error {
	jc.builder.WithSite(id, helpers.At(x, y))
	return nil
}

func (jc *jobContext) aUnitAtCarrying(build, name string, x, y, energy int) error {
	b, err := catalog.ParseBuildProfile(build)
	if err != nil {
		return err
	}
	jc.builder.WithUnit(name, b, helpers.At(x, y), energy)
	jc.unitName = name
	return nil
}

func (jc *jobContext) theUnitHasANewHarvestJob() error {
	jc.job = job.NewHarvest()
	return nil
}

func (jc *jobContext) theUnitHasAHarvestJobTargeting(target string) error {
	j, err := job.FromData(job.Data{
		Kind:   string(job.KindHarvest),
		Stage:  string(job.HarvestHarvesting),
		Target: target,
	})
	if err != nil {
		return err
	}
	jc.job = j
	return nil
}

func (jc *jobContext) theUnitHasANewDistributeEnergyJob() error {
	jc.job = job.NewDistributeEnergy()
	return nil
}

func (jc *jobContext) theExecutorAnswersWith(action, outcome string) error {
	code, err := parseOutcome(outcome)
	if err != nil {
		return err
	}
	jc.exec.SetOutcome(action, code)
	return nil
}

func (jc *jobContext) env() (*job.Env, error) {
	if jc.snapshot == nil {
		jc.snapshot = jc.builder.Build()
		if jc.noSources {
			jc.snapshot.Sources = nil
		}
	}
	for _, u := range jc.snapshot.Units {
		if u.Name == jc.unitName {
			return &job.Env{
				Unit:       u,
				Snapshot:   jc.snapshot,
				Executor:   jc.exec,
				PathFinder: world.NewGridPathFinder(),
			}, nil
		}
	}
	return nil, fmt.Errorf("unit %q is not in the snapshot", jc.unitName)
}

func (jc *jobContext) theJobIsDriven() error {
	return jc.theJobIsDrivenTimes(1)
}

func (jc *jobContext) theJobIsDrivenTimes(n int) error {
	env, err := jc.env()
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if jc.err = jc.job.Drive(env); jc.err != nil {
			return nil
		}
	}
	return nil
}

func (jc *jobContext) theJobStageShouldBe(stage string) error {
	if jc.err != nil {
		return fmt.Errorf("drive failed: %w", jc.err)
	}
	if got := jc.job.Stage(); got != stage {
		return fmt.Errorf("expected stage %s, got %s", stage, got)
	}
	return nil
}

func (jc *jobContext) theJobTargetShouldBe(target string) error {
	if got := string(jc.job.Target().ID()); got != target {
		return fmt.Errorf("expected target %s, got %q", target, got)
	}
	return nil
}

func (jc *jobContext) theJobShouldHaveNoTarget() error {
	if !jc.job.Target().IsZero() {
		return fmt.Errorf("expected no target, got %s", jc.job.Target())
	}
	return nil
}

func (jc *jobContext) theJobShouldBeFinished() error {
	if jc.err != nil {
		return fmt.Errorf("drive failed: %w", jc.err)
	}
	if !jc.job.Finished() {
		return fmt.Errorf("expected a finished job, stage is %s", jc.job.Stage())
	}
	return nil
}

func (jc *jobContext) theUnitShouldHaveSaid(message string) error {
	for _, call := range jc.exec.CallsOf("say") {
		if call.Name == message {
			return nil
		}
	}
	return fmt.Errorf("expected the unit to say %q, calls: %v", message, jc.exec.Calls)
}

func (jc *jobContext) theUnitShouldHaveMovedTo(x, y int) error {
	want := helpers.At(x, y)
	for _, call := range jc.exec.CallsOf("move") {
		if call.To == want {
			return nil
		}
	}
	return fmt.Errorf("expected a move to %s, calls: %v", want, jc.exec.Calls)
}

func (jc *jobContext) theExecutorShouldNotHaveReceived(action string) error {
	if calls := jc.exec.CallsOf(action); len(calls) > 0 {
		return fmt.Errorf("expected no %s requests, got %v", action, calls)
	}
	return nil
}

func (jc *jobContext) theExecutorShouldHaveReceivedNoRequests() error {
	if len(jc.exec.Calls) > 0 {
		return fmt.Errorf("expected no requests, got %v", jc.exec.Calls)
	}
	return nil
}

func (jc *jobContext) drivingShouldFailWith(substr string) error {
	return expectErrorContaining(jc.err, substr)
}

// InitializeJobScenario registers harvest and distribute energy job steps
func InitializeJobScenario(sc *godog.ScenarioContext) {
	jc := &jobContext{}

	sc.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		jc.reset()
		return ctx, nil
	})

	// World setup
	sc.Step(`^a level (\d+) room with (\d+) of (\d+) energy$`, jc.aLevelRoomWithEnergy)
	sc.Step(`^a room without controller with (\d+) of (\d+) energy$`, jc.aRoomWithoutControllerWithEnergy)
	sc.Step(`^a resource node "([^"]*)" at (\d+),(\d+) with (\d+) energy$`, jc.aResourceNodeAt)
	sc.Step(`^the room has no resource nodes$`, jc.theRoomHasNoResourceNodes)
	sc.Step(`^a spawn "([^"]*)" at (\d+),(\d+) holding (\d+) energy$`, jc.aSpawnAt)
	sc.Step(`^an extension "([^"]*)" at (\d+),(\d+) holding (\d+) energy$`, jc.anExtensionAt)
	sc.Step(`^a construction site "([^"]*)" at (\d+),(\d+)$`, jc.aConstructionSiteAt)
	sc.Step(`^a "([^"]*)" unit "([^"]*)" at (\d+),(\d+) carrying (\d+) energy$`, jc.aUnitAtCarrying)

	// Jobs
	sc.Step(`^the unit has a new harvest job$`, jc.theUnitHasANewHarvestJob)
	sc.Step(`^the unit has a harvest job targeting "([^"]*)"$`, jc.theUnitHasAHarvestJobTargeting)
	sc.Step(`^the unit has a new distribute energy job$`, jc.theUnitHasANewDistributeEnergyJob)
	sc.Step(`^the executor answers "([^"]*)" with "([^"]*)"$`, jc.theExecutorAnswersWith)
	sc.Step(`^the job is driven$`, jc.theJobIsDriven)
	sc.Step(`^the job is driven (\d+) times$`, jc.theJobIsDrivenTimes)

	// Assertions
	sc.Step(`^the job stage should be "([^"]*)"$`, jc.theJobStageShouldBe)
	sc.Step(`^the job target should be "([^"]*)"$`, jc.theJobTargetShouldBe)
	sc.Step(`^the job should have no target$`, jc.theJobShouldHaveNoTarget)
	sc.Step(`^the job should be finished$`, jc.theJobShouldBeFinished)
	sc.Step(`^the unit should have said "([^"]*)"$`, jc.theUnitShouldHaveSaid)
	sc.Step(`^the unit should have moved to (\d+),(\d+)$`, jc.theUnitShouldHaveMovedTo)
	sc.Step(`^the executor should not have received "([^"]*)"$`, jc.theExecutorShouldNotHaveReceived)
	sc.Step(`^the executor should have received no requests$`, jc.theExecutorShouldHaveReceivedNoRequests)
	sc.Step(`^driving should fail with "([^"]*)"$`, jc.drivingShouldFailWith)
}
