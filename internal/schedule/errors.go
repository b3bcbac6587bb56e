// Package schedule holds the show editor: creating, editing, removing and
// duplicating the shows of an event, deriving the event's date window from
// them and laying out the month calendar the editor is drawn on.
package schedule

import (
	"errors"
	"fmt"
)

var (
	// ErrShowNotFound is returned when a show id is not part of the list.
	ErrShowNotFound = errors.New("show not found")
	// ErrConfirmationRequired is returned by Remove when the caller has not
	// confirmed the deletion.
	ErrConfirmationRequired = errors.New("show removal must be confirmed")
	// ErrDuplicateOntoSelf is returned when a duplicate targets the
	// originating show's own date.
	ErrDuplicateOntoSelf = errors.New("cannot duplicate a show onto its own date")
	// ErrNoTargetDates is returned when a duplicate names no dates.
	ErrNoTargetDates = errors.New("at least one target date is required")
)

// ValidationError describes a rejected show field.  Message is meant for
// the organizer and is returned verbatim by the HTTP layer.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}
