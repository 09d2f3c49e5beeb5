package fleet

import (
	"errors"
	"fmt"
)

var (
	ErrVehicleNotFound = errors.New("vehicle not found")
	ErrYardNotFound    = errors.New("yard not found")
)

// ConflictError reports a business-rule collision: a duplicate natural
// key, an allocation against an occupied vehicle, or a delete blocked
// by dependents.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string { return e.Reason }

// ValidationError reports malformed caller input.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func conflictf(format string, args ...any) error {
	return &ConflictError{Reason: fmt.Sprintf(format, args...)}
}

func invalidf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}
