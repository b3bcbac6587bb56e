// Package entrypass tracks a customer's prepaid head-count quota and gates
// ticket bookings on it.
package entrypass

import (
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/event-entry/internal/model"
)

// State is the display state of a pass.  Exactly one state holds for any
// pass value at any instant.
type State string

const (
	StateNoPass  State = "none"
	StateValid   State = "valid"
	StateExpired State = "expired"
)

// Classify returns the state of pass at now.  A pass is valid strictly
// before its expiry and expired from the expiry instant on.
func Classify(pass *model.EntryPass, now time.Time) State {
	switch {
	case pass == nil:
		return StateNoPass
	case now.Before(pass.ExpiresAt):
		return StateValid
	default:
		return StateExpired
	}
}

// HasValidPass reports whether pass exists and has not expired.
func HasValidPass(pass *model.EntryPass, now time.Time) bool {
	return Classify(pass, now) == StateValid
}

// IsExpired reports whether pass exists and has expired.
func IsExpired(pass *model.EntryPass, now time.Time) bool {
	return Classify(pass, now) == StateExpired
}

// NoPass reports whether there is no pass at all.
func NoPass(pass *model.EntryPass) bool { return pass == nil }

// MaxBookable is the largest quantity a booking may request: the smaller
// of the pass head count (0 without a pass) and the seats left.
func MaxBookable(pass *model.EntryPass, availableSeats int) int {
	head := 0
	if pass != nil {
		head = pass.HeadCount
	}
	n := head
	if availableSeats < n {
		n = availableSeats
	}
	if n < 0 {
		return 0
	}
	return n
}

var (
	// ErrNoPass is returned when booking without any pass; the quantity
	// input is disabled in that state.
	ErrNoPass = errors.New("an entry pass is required to book tickets")
	// ErrPassExpired is returned when booking with an expired pass.
	ErrPassExpired = errors.New("your entry pass has expired")
	// ErrInvalidQuantity is returned for quantities below one.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	// ErrTooManyHeads is returned for a purchase above MaxPurchaseHeads.
	ErrTooManyHeads = fmt.Errorf("a single purchase covers at most %d people", MaxPurchaseHeads)
	// ErrNoEventsSelected is returned for a multi-event booking naming no
	// events.
	ErrNoEventsSelected = errors.New("select at least one event")
	// ErrUnknownShow is returned when a booking names a show the event
	// does not have.
	ErrUnknownShow = errors.New("unknown show")
)

// QuotaError rejects a quantity above MaxBookable.
type QuotaError struct {
	Requested      int
	Max            int
	HeadCount      int
	AvailableSeats int
}

func (e *QuotaError) Error() string {
	if e.HeadCount <= e.AvailableSeats {
		return fmt.Sprintf("you can book at most %d tickets: your entry pass covers %d people", e.Max, e.HeadCount)
	}
	return fmt.Sprintf("you can book at most %d tickets: only %d seats are left", e.Max, e.AvailableSeats)
}

// CheckBooking validates a requested quantity against the last known pass
// and seat count.  It never touches the network.
func CheckBooking(pass *model.EntryPass, availableSeats, quantity int, now time.Time) error {
	if pass == nil {
		return ErrNoPass
	}
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	if Classify(pass, now) == StateExpired {
		return ErrPassExpired
	}
	if limit := MaxBookable(pass, availableSeats); quantity > limit {
		return &QuotaError{
			Requested:      quantity,
			Max:            limit,
			HeadCount:      pass.HeadCount,
			AvailableSeats: availableSeats,
		}
	}
	return nil
}
