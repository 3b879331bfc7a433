package shared

import "fmt"

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// Unit state errors

type StateError struct {
	*DomainError
	UnitID string
}

func NewStateError(message, unitID string) *StateError {
	return &StateError{DomainError: &DomainError{Message: message}, UnitID: unitID}
}

// StateEncodeError is returned when a unit state cannot be serialized for storage
type StateEncodeError struct {
	*StateError
	Cause error
}

func NewStateEncodeError(unitID string, cause error) *StateEncodeError {
	return &StateEncodeError{
		StateError: NewStateError(fmt.Sprintf("could not write state of unit %s: %v", unitID, cause), unitID),
		Cause:      cause,
	}
}

func (e *StateEncodeError) Unwrap() error {
	return e.Cause
}

// StateDecodeError is returned when a unit's stored state is missing or unreadable
type StateDecodeError struct {
	*StateError
	Position Position
	Cause    error
}

func NewStateDecodeError(unitID string, pos Position, cause error) *StateDecodeError {
	return &StateDecodeError{
		StateError: NewStateError(fmt.Sprintf("could not read state of unit %s at %s: %v", unitID, pos, cause), unitID),
		Position:   pos,
		Cause:      cause,
	}
}

func (e *StateDecodeError) Unwrap() error {
	return e.Cause
}

// Job errors

// TargetResolveError signals that a stored target no longer resolves.
// Jobs recover from it by retargeting; it never leaves a drive call.
type TargetResolveError struct {
	*DomainError
	TargetID string
}

func NewTargetResolveError(targetID string) *TargetResolveError {
	return &TargetResolveError{
		DomainError: &DomainError{Message: fmt.Sprintf("could not resolve %s to a live object", targetID)},
		TargetID:    targetID,
	}
}

type NoTargetsFoundError struct {
	*DomainError
	Kind string
}

func NewNoTargetsFoundError(kind string) *NoTargetsFoundError {
	return &NoTargetsFoundError{
		DomainError: &DomainError{Message: fmt.Sprintf("no %s targets found", kind)},
		Kind:        kind,
	}
}

type UnhandledOutcomeError struct {
	*DomainError
	Action string
	Code   OutcomeCode
}

func NewUnhandledOutcomeError(action string, code OutcomeCode) *UnhandledOutcomeError {
	return &UnhandledOutcomeError{
		DomainError: &DomainError{Message: fmt.Sprintf("unhandled outcome %s while performing %s", code, action)},
		Action:      action,
		Code:        code,
	}
}

// InvariantError covers states that should be impossible for a live unit,
// such as a unit whose room is missing from the snapshot
type InvariantError struct {
	*DomainError
}

func NewInvariantError(message string) *InvariantError {
	return &InvariantError{DomainError: &DomainError{Message: message}}
}

// Validation error

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
