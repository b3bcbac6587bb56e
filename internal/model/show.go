package model

import "time"

// Show is a single dated time slot of an event.  Shows are owned by
// their event and only exist inside its show list; ShowID is unique
// within that list.
//
// Fields:
//  ShowID         – identifier, "SHOW-<unix-millis>-<random6>".
//  Date           – calendar day, "2006-01-02".
//  StartTime      – local start, "15:04".
//  EndTime        – local end, "15:04".
//  AvailableSeats – remaining seats as reported by the platform (nil when
//                   the platform does not track seats per show).
type Show struct {
	ShowID         string `json:"showId"`
	Date           string `json:"date"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	AvailableSeats *int   `json:"availableSeats,omitempty"`
}

// Layouts used for the string fields of Show.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// DateRange is the overall window of an event derived from its shows.
// A range with both bounds nil is unset: the event has no shows yet.
type DateRange struct {
	Start *time.Time `json:"startDate"`
	End   *time.Time `json:"endDate"`
}

// IsSet reports whether the range carries both bounds.
func (r DateRange) IsSet() bool {
	return r.Start != nil && r.End != nil
}

// FormValues renders the bounds the way the platform's event form expects
// them: RFC3339, or empty strings when the range is unset.
func (r DateRange) FormValues() (start, end string) {
	if !r.IsSet() {
		return "", ""
	}
	return r.Start.Format(time.RFC3339), r.End.Format(time.RFC3339)
}
