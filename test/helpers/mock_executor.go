package helpers

import (
	"fmt"
	"sync"

	"github.com/andrescamacho/colonybot-go/internal/domain/catalog"
	"github.com/andrescamacho/colonybot-go/internal/domain/shared"
	"github.com/andrescamacho/colonybot-go/internal/domain/world"
)

// ExecutorCall records one request made to MockExecutor
type ExecutorCall struct {
	Action string
	Unit   world.ObjectID
	Target world.ObjectID
	To     shared.Position
	Body   []catalog.PartKind
	Name   string
}

func (c ExecutorCall) String() string {
	switch c.Action {
	case "move":
		return fmt.Sprintf("move %s to %s", c.Unit, c.To)
	case "say":
		return fmt.Sprintf("say %s %q", c.Unit, c.Name)
	case "spawn":
		return fmt.Sprintf("spawn %s at %s", c.Name, c.Target)
	}
	return fmt.Sprintf("%s %s -> %s", c.Action, c.Unit, c.Target)
}

// MockExecutor is a scripted world.Executor. Each action answers with its
// configured outcome, OK by default, and every call is recorded.
type MockExecutor struct {
	mu       sync.Mutex
	Outcomes map[string]shared.OutcomeCode
	Calls    []ExecutorCall

	// PanicOn makes the named action panic
	PanicOn string
}

// NewMockExecutor creates an executor that accepts everything
func NewMockExecutor() *MockExecutor {
	return &MockExecutor{Outcomes: make(map[string]shared.OutcomeCode)}
}

// SetOutcome scripts the answer of an action
func (m *MockExecutor) SetOutcome(action string, code shared.OutcomeCode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Outcomes[action] = code
}

func (m *MockExecutor) record(call ExecutorCall) shared.OutcomeCode {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.PanicOn == call.Action {
		panic(fmt.Sprintf("scripted panic on %s", call.Action))
	}

	m.Calls = append(m.Calls, call)
	return m.Outcomes[call.Action]
}

// CallsOf returns the recorded calls of one action
func (m *MockExecutor) CallsOf(action string) []ExecutorCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []ExecutorCall
	for _, c := range m.Calls {
		if c.Action == action {
			out = append(out, c)
		}
	}
	return out
}

// Reset clears recorded calls, keeping the scripted outcomes
func (m *MockExecutor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = nil
}

func (m *MockExecutor) MoveTo(unit world.ObjectID, to shared.Position) shared.OutcomeCode {
	return m.record(ExecutorCall{Action: "move", Unit: unit, To: to})
}

func (m *MockExecutor) Harvest(unit, source world.ObjectID) shared.OutcomeCode {
	return m.record(ExecutorCall{Action: "harvest", Unit: unit, Target: source})
}

func (m *MockExecutor) Build(unit, site world.ObjectID) shared.OutcomeCode {
	return m.record(ExecutorCall{Action: "build", Unit: unit, Target: site})
}

func (m *MockExecutor) Transfer(unit, target world.ObjectID, resource shared.ResourceKind) shared.OutcomeCode {
	return m.record(ExecutorCall{Action: "transfer", Unit: unit, Target: target})
}

func (m *MockExecutor) UpgradeController(unit, controller world.ObjectID) shared.OutcomeCode {
	return m.record(ExecutorCall{Action: "upgrade", Unit: unit, Target: controller})
}

func (m *MockExecutor) Say(unit world.ObjectID, message string) shared.OutcomeCode {
	return m.record(ExecutorCall{Action: "say", Unit: unit, Name: message})
}

func (m *MockExecutor) Spawn(spawn world.ObjectID, body []catalog.PartKind, name string) shared.OutcomeCode {
	return m.record(ExecutorCall{Action: "spawn", Target: spawn, Body: body, Name: name})
}
