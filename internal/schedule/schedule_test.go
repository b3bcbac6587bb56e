package schedule

import (
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-entry/internal/model"
)

type seqIDs struct{ n int }

func (g *seqIDs) NewShowID() string {
	g.n++
	return fmt.Sprintf("SHOW-1700000000000-%06d", g.n)
}

func TestRandomIDsFormat(t *testing.T) {
	now := time.UnixMilli(1748772000123)
	id := RandomIDs{Now: func() time.Time { return now }}.NewShowID()
	assert.Regexp(t, regexp.MustCompile(`^SHOW-1748772000123-[0-9a-z]{6}$`), id)
}

func TestAddRequiresAllFields(t *testing.T) {
	e := NewEditor(nil, &seqIDs{}, PolicyStrict)
	for _, tc := range []struct{ date, start, end, field string }{
		{"", "10:00", "11:00", "date"},
		{"2025-06-01", "", "11:00", "startTime"},
		{"2025-06-01", "10:00", " ", "endTime"},
	} {
		_, err := e.Add(tc.date, tc.start, tc.end)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, tc.field, verr.Field)
	}
	assert.Empty(t, e.Shows())
}

func TestStrictPolicyRejectsEndBeforeStart(t *testing.T) {
	e := NewEditor(nil, &seqIDs{}, PolicyStrict)
	_, err := e.Add("2025-06-01", "22:00", "01:00")
	require.Error(t, err)
	_, err = e.Add("2025-06-01", "10:00", "10:00")
	require.Error(t, err)
}

func TestOvernightPolicyEndsNextDay(t *testing.T) {
	e := NewEditor(nil, &seqIDs{}, PolicyOvernight)
	_, err := e.Add("2025-06-01", "22:00", "01:00")
	require.NoError(t, err)
	_, err = e.Add("2025-06-01", "10:00", "10:00")
	require.Error(t, err, "equal times stay invalid overnight")

	r, err := e.DateRange(time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 1, 22, 0, 0, 0, time.UTC), *r.Start)
	assert.Equal(t, time.Date(2025, 6, 2, 1, 0, 0, 0, time.UTC), *r.End)
}

func TestParseTimePolicy(t *testing.T) {
	p, err := ParseTimePolicy("Overnight")
	require.NoError(t, err)
	assert.Equal(t, PolicyOvernight, p)
	p, err = ParseTimePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyStrict, p)
	_, err = ParseTimePolicy("lenient")
	assert.Error(t, err)
}

func TestEditPreservesID(t *testing.T) {
	e := NewEditor(nil, &seqIDs{}, PolicyStrict)
	s, err := e.Add("2025-06-01", "10:00", "11:00")
	require.NoError(t, err)

	got, err := e.Edit(s.ShowID, model.Show{ShowID: "other", Date: "2025-06-02", StartTime: "12:00", EndTime: "13:30"})
	require.NoError(t, err)
	assert.Equal(t, s.ShowID, got.ShowID)
	assert.Equal(t, []model.Show{got}, e.Shows())

	_, err = e.Edit("missing", got)
	assert.ErrorIs(t, err, ErrShowNotFound)
}

func TestRemoveNeedsConfirmation(t *testing.T) {
	e := NewEditor(nil, &seqIDs{}, PolicyStrict)
	s, err := e.Add("2025-06-01", "10:00", "11:00")
	require.NoError(t, err)

	assert.ErrorIs(t, e.Remove(s.ShowID, false), ErrConfirmationRequired)
	assert.Len(t, e.Shows(), 1)

	require.NoError(t, e.Remove(s.ShowID, true))
	assert.Empty(t, e.Shows())
	assert.ErrorIs(t, e.Remove(s.ShowID, true), ErrShowNotFound)
}

func TestCreateThenDuplicate(t *testing.T) {
	e := NewEditor(nil, &seqIDs{}, PolicyStrict)
	a, err := e.Add("2025-06-01", "10:00", "11:00")
	require.NoError(t, err)

	targets, err := e.DuplicateTargets(a.ShowID, time.June, 2025)
	require.NoError(t, err)
	assert.NotContains(t, targets, "2025-06-01")
	assert.Len(t, targets, 29)

	created, err := e.Duplicate(a.ShowID, []string{"2025-06-08", "2025-06-15"})
	require.NoError(t, err)
	require.Len(t, created, 2)

	shows := e.Shows()
	require.Len(t, shows, 3)
	ids := map[string]bool{}
	for _, s := range shows {
		assert.Equal(t, "10:00", s.StartTime)
		assert.Equal(t, "11:00", s.EndTime)
		ids[s.ShowID] = true
	}
	assert.Len(t, ids, 3)
	assert.Equal(t, []string{"2025-06-01", "2025-06-08", "2025-06-15"},
		[]string{shows[0].Date, shows[1].Date, shows[2].Date})
}

func TestDuplicateRejectsOriginDate(t *testing.T) {
	e := NewEditor(nil, &seqIDs{}, PolicyStrict)
	a, err := e.Add("2025-06-01", "10:00", "11:00")
	require.NoError(t, err)

	_, err = e.Duplicate(a.ShowID, []string{"2025-06-08", "2025-06-01"})
	assert.ErrorIs(t, err, ErrDuplicateOntoSelf)
	assert.Len(t, e.Shows(), 1, "nothing is created when one target is rejected")

	_, err = e.Duplicate(a.ShowID, []string{"08/06/2025"})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = e.Duplicate(a.ShowID, nil)
	assert.ErrorIs(t, err, ErrNoTargetDates)
}

func TestDuplicateCollapsesRepeatedDates(t *testing.T) {
	e := NewEditor(nil, &seqIDs{}, PolicyStrict)
	a, err := e.Add("2025-06-01", "10:00", "11:00")
	require.NoError(t, err)
	created, err := e.Duplicate(a.ShowID, []string{"2025-06-08", "2025-06-08"})
	require.NoError(t, err)
	assert.Len(t, created, 1)
}

func TestSelectableDatesNeverContainOrigin(t *testing.T) {
	for m := time.January; m <= time.December; m++ {
		for day := 1; day <= 28; day++ {
			origin := model.Show{Date: time.Date(2026, m, day, 0, 0, 0, 0, time.UTC).Format(model.DateLayout)}
			assert.NotContains(t, SelectableDates(origin, m, 2026), origin.Date)
		}
	}
}

func TestComputeEventDateRange(t *testing.T) {
	shows := []model.Show{
		{ShowID: "a", Date: "2025-06-08", StartTime: "09:00", EndTime: "10:00"},
		{ShowID: "b", Date: "2025-06-01", StartTime: "18:00", EndTime: "20:00"},
		{ShowID: "c", Date: "2025-06-01", StartTime: "10:00", EndTime: "11:00"},
		{ShowID: "d", Date: "2025-06-08", StartTime: "08:00", EndTime: "23:30"},
	}
	r, err := ComputeEventDateRange(shows, PolicyStrict, time.UTC)
	require.NoError(t, err)
	require.True(t, r.IsSet())
	assert.Equal(t, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC), *r.Start)
	assert.Equal(t, time.Date(2025, 6, 8, 23, 30, 0, 0, time.UTC), *r.End)
	assert.False(t, r.End.Before(*r.Start))

	start, end := r.FormValues()
	assert.Equal(t, "2025-06-01T10:00:00Z", start)
	assert.Equal(t, "2025-06-08T23:30:00Z", end)
}

func TestComputeEventDateRangeEmptyIsUnset(t *testing.T) {
	r, err := ComputeEventDateRange(nil, PolicyStrict, time.UTC)
	require.NoError(t, err)
	assert.False(t, r.IsSet())
	start, end := r.FormValues()
	assert.Empty(t, start)
	assert.Empty(t, end)
}

func TestComputeEventDateRangeUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	r, err := ComputeEventDateRange([]model.Show{{Date: "2025-06-01", StartTime: "10:00", EndTime: "11:00"}}, PolicyStrict, loc)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01T08:00:00Z", r.Start.UTC().Format(time.RFC3339))
}

func TestCalendarDaysGrid(t *testing.T) {
	for year := 2024; year <= 2026; year++ {
		for m := time.January; m <= time.December; m++ {
			days := CalendarDays(m, year)
			require.Zero(t, len(days)%7, "%s %d", m, year)
			assert.Equal(t, "Sunday", days[0].Weekday)

			daysInMonth := time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
			seen := map[int]int{}
			for _, d := range days {
				if d.IsCurrentMonth {
					seen[d.Day]++
				}
			}
			require.Len(t, seen, daysInMonth)
			for day := 1; day <= daysInMonth; day++ {
				assert.Equal(t, 1, seen[day], "%s %d day %d", m, year, day)
			}
		}
	}
}

func TestCalendarDaysJune2025(t *testing.T) {
	// June 1st 2025 is a Sunday: no leading padding, 30 days, 5 trailing.
	days := CalendarDays(time.June, 2025)
	require.Len(t, days, 35)
	assert.Equal(t, "2025-06-01", days[0].Date)
	assert.Equal(t, "2025-07-05", days[34].Date)
	assert.False(t, days[34].IsCurrentMonth)
}
