package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/event-entry/internal/model"
)

// TimePolicy decides how a show's start and end times relate.
type TimePolicy int

const (
	// PolicyStrict requires the end time to be later than the start time
	// on the same day.
	PolicyStrict TimePolicy = iota
	// PolicyOvernight lets an end time earlier than the start time mean the
	// following day.  Equal times are still rejected.
	PolicyOvernight
)

// ParseTimePolicy maps a config value to a TimePolicy.
func ParseTimePolicy(s string) (TimePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return PolicyStrict, nil
	case "overnight":
		return PolicyOvernight, nil
	}
	return PolicyStrict, fmt.Errorf("unknown show time policy %q", s)
}

func (p TimePolicy) String() string {
	if p == PolicyOvernight {
		return "overnight"
	}
	return "strict"
}

// Bounds resolves a show's date and times to absolute instants in loc.
func (p TimePolicy) Bounds(s model.Show, loc *time.Location) (time.Time, time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	day, err := time.ParseInLocation(model.DateLayout, s.Date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, invalid("date", "date must be YYYY-MM-DD")
	}
	sh, sm, err := clock(s.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, invalid("startTime", "start time must be HH:MM")
	}
	eh, em, err := clock(s.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, invalid("endTime", "end time must be HH:MM")
	}
	startMin, endMin := sh*60+sm, eh*60+em
	if endMin == startMin {
		return time.Time{}, time.Time{}, invalid("endTime", "end time must differ from start time")
	}
	endDay := 0
	if endMin < startMin {
		if p != PolicyOvernight {
			return time.Time{}, time.Time{}, invalid("endTime", "end time must be after start time")
		}
		endDay = 1
	}
	y, m, d := day.Date()
	start := time.Date(y, m, d, sh, sm, 0, 0, loc)
	end := time.Date(y, m, d+endDay, eh, em, 0, 0, loc)
	return start, end, nil
}

// Validate checks that a show carries every required field and satisfies
// the policy.
func (p TimePolicy) Validate(s model.Show) error {
	switch {
	case strings.TrimSpace(s.Date) == "":
		return invalid("date", "date is required")
	case strings.TrimSpace(s.StartTime) == "":
		return invalid("startTime", "start time is required")
	case strings.TrimSpace(s.EndTime) == "":
		return invalid("endTime", "end time is required")
	}
	_, _, err := p.Bounds(s, time.UTC)
	return err
}

func clock(hhmm string) (int, int, error) {
	t, err := time.Parse(model.TimeLayout, hhmm)
	if err != nil {
		return 0, 0, err
	}
	return t.Hour(), t.Minute(), nil
}
