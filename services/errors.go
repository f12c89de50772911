package services

import (
	"errors"
	"strings"
)

var (
	// ErrMalformedInput marks requests that cannot be interpreted at all
	// (bad date, unknown time slot). They never reach validation.
	ErrMalformedInput = errors.New("malformed input")
	// ErrCapacityExhausted means no suitable table is free for the slot.
	ErrCapacityExhausted = errors.New("no table available for the selected date and time slot")
	ErrNotFound          = errors.New("reservation not found")
	ErrForbidden         = errors.New("you do not have permission to access this reservation")
	ErrUnauthenticated   = errors.New("authentication required")
)

// Violation is a single failed business rule tied to a request field.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Violations collects every rule broken by one request.
type Violations []Violation

func (v Violations) Error() string {
	msgs := make([]string, 0, len(v))
	for _, x := range v {
		msgs = append(msgs, x.Field+": "+x.Message)
	}
	return "reservation rejected: " + strings.Join(msgs, "; ")
}

// Has reports whether a violation was recorded for field.
func (v Violations) Has(field string) bool {
	for _, x := range v {
		if x.Field == field {
			return true
		}
	}
	return false
}

// CapacityError is returned when allocation fails. It matches
// ErrCapacityExhausted and unwraps to the underlying cause, which tells apart
// ErrNoTableLargeEnough, ErrAllTablesBooked and a lost commit race.
type CapacityError struct {
	Cause error
}

func (e *CapacityError) Error() string {
	if e.Cause == nil {
		return ErrCapacityExhausted.Error()
	}
	return ErrCapacityExhausted.Error() + ": " + e.Cause.Error()
}

func (e *CapacityError) Is(target error) bool {
	return target == ErrCapacityExhausted
}

func (e *CapacityError) Unwrap() error {
	return e.Cause
}
