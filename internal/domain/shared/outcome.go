package shared

import "fmt"

// OutcomeCode is the result of a request handed to the action executor.
// Values follow the game's numeric return codes; any value outside the
// named set is an unrecognized code.
type OutcomeCode int

const (
	OutcomeOK         OutcomeCode = 0
	OutcomeBusy       OutcomeCode = -4
	OutcomeNotEnough  OutcomeCode = -6
	OutcomeFull       OutcomeCode = -8
	OutcomeNotInRange OutcomeCode = -9

	// Used by the simulated world; the state machines have no policy for them
	OutcomeNameExists    OutcomeCode = -3
	OutcomeInvalidTarget OutcomeCode = -7
	OutcomeNoBodyPart    OutcomeCode = -12
)

var outcomeNames = map[OutcomeCode]string{
	OutcomeOK:            "OK",
	OutcomeBusy:          "BUSY",
	OutcomeNotEnough:     "NOT_ENOUGH",
	OutcomeFull:          "FULL",
	OutcomeNotInRange:    "NOT_IN_RANGE",
	OutcomeNameExists:    "NAME_EXISTS",
	OutcomeInvalidTarget: "INVALID_TARGET",
	OutcomeNoBodyPart:    "NO_BODYPART",
}

// Name returns the symbolic name of the code
func (c OutcomeCode) Name() string {
	if name, ok := outcomeNames[c]; ok {
		return name
	}
	return "OTHER"
}

// IsOK reports whether the request was accepted
func (c OutcomeCode) IsOK() bool {
	return c == OutcomeOK
}

func (c OutcomeCode) String() string {
	if name, ok := outcomeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("OTHER(%d)", int(c))
}
