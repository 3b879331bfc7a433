package world

import (
	"encoding/json"
	"fmt"
)

// Target is a persisted reference to a world object. It holds the object's
// identity only and has to be resolved against each tick's snapshot.
type Target struct {
	id ObjectID
}

// NewTarget creates a target for an object id
func NewTarget(id ObjectID) Target {
	return Target{id: id}
}

// TargetOf captures a target from a resolved object
func TargetOf(o Object) Target {
	return Target{id: o.ID()}
}

func (t Target) ID() ObjectID { return t.id }

// IsZero reports whether the target references nothing
func (t Target) IsZero() bool {
	return t.id == ""
}

func (t Target) String() string {
	if t.IsZero() {
		return "Target(none)"
	}
	return fmt.Sprintf("Target(%s)", t.id)
}

func (t Target) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t.id))
}

func (t *Target) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("target must be a string id: %w", err)
	}
	t.id = ObjectID(s)
	return nil
}
