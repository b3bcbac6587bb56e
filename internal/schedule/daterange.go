package schedule

import (
	"fmt"
	"time"

	"github.com/iliyamo/event-entry/internal/model"
)

// ComputeEventDateRange returns the earliest show start and the latest
// show end.  An empty list yields an unset range; create and edit flows
// share this default.
func ComputeEventDateRange(shows []model.Show, policy TimePolicy, loc *time.Location) (model.DateRange, error) {
	var r model.DateRange
	for _, s := range shows {
		start, end, err := policy.Bounds(s, loc)
		if err != nil {
			return model.DateRange{}, fmt.Errorf("show %s: %w", s.ShowID, err)
		}
		if r.Start == nil || start.Before(*r.Start) {
			st := start
			r.Start = &st
		}
		if r.End == nil || end.After(*r.End) {
			en := end
			r.End = &en
		}
	}
	return r, nil
}
