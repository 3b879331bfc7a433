package runner

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"golang.org/x/time/rate"

	"github.com/andrescamacho/colonybot-go/internal/adapters/sim"
	"github.com/andrescamacho/colonybot-go/internal/application/colony"
	"github.com/andrescamacho/colonybot-go/internal/application/logging"
	"github.com/andrescamacho/colonybot-go/internal/application/mediator"
	"github.com/andrescamacho/colonybot-go/internal/domain/catalog"
	"github.com/andrescamacho/colonybot-go/internal/domain/unit"
)

// World is the part of the simulated world the runner drives. The real game
// advances on its own; the simulation needs an explicit step after each tick.
type World interface {
	Advance() sim.AdvanceResult
	InitialUnits() map[string]catalog.BuildProfile
}

// Options configures a TickRunner
type Options struct {
	RunID string

	// MaxTicks stops the runner after that many ticks; 0 runs until the
	// context is canceled
	MaxTicks int

	// Limiter paces ticks; nil runs them back to back
	Limiter *rate.Limiter

	// OnTick is called after every tick with the report and the world changes
	OnTick func(report *colony.TickReport, result sim.AdvanceResult)
}

// Summary describes a finished run
type Summary struct {
	RunID      string
	Ticks      int
	Spawned    []string
	Completed  int
	LevelUps   map[string]int
	LastReport *colony.TickReport
	Stopped    bool
}

// TickRunner sends RunTickCommand through the mediator and advances the
// world between ticks
type TickRunner struct {
	mediator mediator.Mediator
	world    World
	states   unit.StateRepository
	opts     Options
}

// NewTickRunner creates a runner
func NewTickRunner(med mediator.Mediator, w World, states unit.StateRepository, opts Options) *TickRunner {
	if opts.Limiter == nil {
		opts.Limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return &TickRunner{mediator: med, world: w, states: states, opts: opts}
}

// Seed stores an idle state for every unit the world started with that has
// no stored state yet. It returns the number of states written.
func (r *TickRunner) Seed(ctx context.Context) (int, error) {
	initial := r.world.InitialUnits()
	names := make([]string, 0, len(initial))
	for name := range initial {
		names = append(names, name)
	}
	sort.Strings(names)

	seeded := 0
	for _, name := range names {
		_, err := r.states.Load(ctx, name)
		if err == nil {
			continue
		}
		if !errors.Is(err, unit.ErrStateNotFound) {
			return seeded, fmt.Errorf("failed to check state of %s: %w", name, err)
		}
		if err := r.states.Store(ctx, name, unit.NewUnitState(initial[name])); err != nil {
			return seeded, fmt.Errorf("failed to seed state of %s: %w", name, err)
		}
		seeded++
	}

	return seeded, nil
}

// Run executes ticks until MaxTicks is reached or ctx is canceled.
// Cancellation is a normal stop and is reported through Summary.Stopped.
func (r *TickRunner) Run(ctx context.Context) (*Summary, error) {
	logger := logging.LoggerFromContext(ctx)
	summary := &Summary{RunID: r.opts.RunID, LevelUps: make(map[string]int)}

	for r.opts.MaxTicks == 0 || summary.Ticks < r.opts.MaxTicks {
		if err := r.opts.Limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				summary.Stopped = true
				return summary, nil
			}
			return summary, err
		}

		resp, err := r.mediator.Send(ctx, &colony.RunTickCommand{RunID: r.opts.RunID})
		if err != nil {
			if ctx.Err() != nil {
				summary.Stopped = true
				return summary, nil
			}
			return summary, fmt.Errorf("tick %d failed: %w", summary.Ticks+1, err)
		}

		tickResp, ok := resp.(*colony.RunTickResponse)
		if !ok {
			return summary, fmt.Errorf("unexpected response type %T", resp)
		}

		result := r.world.Advance()
		summary.Ticks++
		summary.LastReport = tickResp.Report
		summary.Spawned = append(summary.Spawned, result.Spawned...)
		summary.Completed += len(result.Completed)

		for _, name := range result.Spawned {
			logger.Log(logging.LevelInfo, fmt.Sprintf("Unit %s left the spawn", name), map[string]interface{}{
				"tick": result.Tick,
				"unit": name,
			})
		}
		rooms := make([]string, 0, len(result.LevelUps))
		for room := range result.LevelUps {
			rooms = append(rooms, room)
		}
		sort.Strings(rooms)
		for _, room := range rooms {
			level := result.LevelUps[room]
			summary.LevelUps[room] = level
			logger.Log(logging.LevelInfo, fmt.Sprintf("Controller of %s reached level %d", room, level), map[string]interface{}{
				"tick":  result.Tick,
				"room":  room,
				"level": level,
			})
		}

		if r.opts.OnTick != nil {
			r.opts.OnTick(tickResp.Report, result)
		}
	}

	return summary, nil
}
