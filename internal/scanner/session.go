// Package scanner runs the venue-side verification workflow: a staff
// session selects an event, resolves scanned codes against it and marks
// tickets attended, at most once per ticket and event.
package scanner

import (
	"errors"
	"time"

	"github.com/iliyamo/event-entry/internal/model"
)

// State is the phase of a scan session.
type State string

const (
	StateIdle     State = "idle"
	StateScanning State = "scanning"
	StateSuccess  State = "success"
	StateError    State = "error"
)

var (
	// ErrNoEventSelected is returned when scanning without a selected event.
	ErrNoEventSelected = errors.New("select an event before scanning")
	// ErrInvalidTransition is returned when a scan outcome arrives for a
	// session that is not scanning.
	ErrInvalidTransition = errors.New("invalid scan state transition")
	// ErrSessionNotFound is returned for unknown or expired sessions.
	ErrSessionNotFound = errors.New("scan session not found")
	// ErrNotMarkable is returned when a ticket is not in the current result
	// or can no longer be marked attended.
	ErrNotMarkable = errors.New("ticket cannot be marked attended")
	// ErrAlreadyAttended is returned when another session marked the ticket
	// first; the session result is reconciled with the platform.
	ErrAlreadyAttended = errors.New("ticket was already marked attended")
	// ErrEmptyPayload is returned for an empty scanned or typed code.
	ErrEmptyPayload = errors.New("scanned code is empty")
	// ErrForeignSession is returned when a staff member opens another
	// member's session.
	ErrForeignSession = errors.New("scan session belongs to another staff member")
)

// Session is one staff member's scanning context.  Result holds the
// outcome of the latest scan only; it is replaced by the next scan.
type Session struct {
	ID        string            `json:"id"`
	StaffID   string            `json:"staffId"`
	EventID   string            `json:"eventId"`
	State     State             `json:"state"`
	Result    *model.ScanResult `json:"result,omitempty"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// WithEvent selects an event.  Any previous result belonged to another
// event and is discarded.
func (s Session) WithEvent(eventID string, at time.Time) Session {
	s.EventID = eventID
	s.State = StateIdle
	s.Result = nil
	s.UpdatedAt = at
	return s
}

// BeginScan moves the session to scanning from any state.
func (s Session) BeginScan(at time.Time) (Session, error) {
	if s.EventID == "" {
		return s, ErrNoEventSelected
	}
	s.State = StateScanning
	s.Result = nil
	s.UpdatedAt = at
	return s, nil
}

// Succeed ends a scan with a resolved result.
func (s Session) Succeed(r model.ScanResult, at time.Time) (Session, error) {
	if s.State != StateScanning {
		return s, ErrInvalidTransition
	}
	r.Status = model.ScanSuccess
	s.State = StateSuccess
	s.Result = &r
	s.UpdatedAt = at
	return s, nil
}

// Fail ends a scan with a user-facing message.
func (s Session) Fail(message string, at time.Time) (Session, error) {
	if s.State != StateScanning {
		return s, ErrInvalidTransition
	}
	s.State = StateError
	s.Result = &model.ScanResult{Status: model.ScanError, Message: message}
	s.UpdatedAt = at
	return s, nil
}

// WithResult replaces the result of a successful scan, used to merge a
// mark-attended outcome.
func (s Session) WithResult(r model.ScanResult, at time.Time) Session {
	s.Result = &r
	s.UpdatedAt = at
	return s
}
