package schedule

import (
	"time"

	"github.com/iliyamo/event-entry/internal/model"
)

// CalendarDay is one cell of the month grid.
type CalendarDay struct {
	Date           string `json:"date"`
	Day            int    `json:"day"`
	Weekday        string `json:"weekday"`
	IsCurrentMonth bool   `json:"isCurrentMonth"`
}

// CalendarDays lays out a month as whole Sunday-first weeks: the grid
// starts with the trailing days of the previous month and ends with the
// leading days of the next, so len(result) is a multiple of 7.
func CalendarDays(month time.Month, year int) []CalendarDay {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	target := first.Month()
	lead := int(first.Weekday())
	daysInMonth := first.AddDate(0, 1, -1).Day()
	cells := (lead + daysInMonth + 6) / 7 * 7

	start := first.AddDate(0, 0, -lead)
	out := make([]CalendarDay, 0, cells)
	for i := 0; i < cells; i++ {
		d := start.AddDate(0, 0, i)
		out = append(out, CalendarDay{
			Date:           d.Format(model.DateLayout),
			Day:            d.Day(),
			Weekday:        d.Weekday().String(),
			IsCurrentMonth: d.Month() == target,
		})
	}
	return out
}
