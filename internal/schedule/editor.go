package schedule

import (
	"sort"
	"strings"
	"time"

	"github.com/iliyamo/event-entry/internal/model"
)

// Editor edits the show list of one event.  It is not safe for concurrent
// use; callers load the list, apply operations and persist the result.
type Editor struct {
	shows  []model.Show
	ids    IDGenerator
	policy TimePolicy
}

// NewEditor returns an editor over a copy of shows.
func NewEditor(shows []model.Show, ids IDGenerator, policy TimePolicy) *Editor {
	if ids == nil {
		ids = RandomIDs{}
	}
	cp := make([]model.Show, len(shows))
	copy(cp, shows)
	return &Editor{shows: cp, ids: ids, policy: policy}
}

// Shows returns the shows ordered by date and start time.
func (e *Editor) Shows() []model.Show {
	out := make([]model.Show, len(e.shows))
	copy(out, e.shows)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out
}

// Add appends a new show with a freshly generated id.
func (e *Editor) Add(date, startTime, endTime string) (model.Show, error) {
	s := model.Show{
		Date:      strings.TrimSpace(date),
		StartTime: strings.TrimSpace(startTime),
		EndTime:   strings.TrimSpace(endTime),
	}
	if err := e.policy.Validate(s); err != nil {
		return model.Show{}, err
	}
	s.ShowID = e.nextID()
	e.shows = append(e.shows, s)
	return s, nil
}

// Edit replaces the show with the given id.  The id is preserved whatever
// updated carries.
func (e *Editor) Edit(showID string, updated model.Show) (model.Show, error) {
	i := e.index(showID)
	if i < 0 {
		return model.Show{}, ErrShowNotFound
	}
	updated.ShowID = showID
	updated.Date = strings.TrimSpace(updated.Date)
	updated.StartTime = strings.TrimSpace(updated.StartTime)
	updated.EndTime = strings.TrimSpace(updated.EndTime)
	if err := e.policy.Validate(updated); err != nil {
		return model.Show{}, err
	}
	e.shows[i] = updated
	return updated, nil
}

// Remove deletes a show.  Deletion is destructive and has no undo, so it
// only happens when confirmed is true.
func (e *Editor) Remove(showID string, confirmed bool) error {
	i := e.index(showID)
	if i < 0 {
		return ErrShowNotFound
	}
	if !confirmed {
		return ErrConfirmationRequired
	}
	e.shows = append(e.shows[:i], e.shows[i+1:]...)
	return nil
}

// Duplicate copies a show's times onto each target date.  Repeated target
// dates are collapsed.  The whole call is rejected, creating nothing, when
// any target is invalid or equals the originating show's date.
func (e *Editor) Duplicate(showID string, targetDates []string) ([]model.Show, error) {
	i := e.index(showID)
	if i < 0 {
		return nil, ErrShowNotFound
	}
	origin := e.shows[i]

	seen := make(map[string]bool, len(targetDates))
	dates := make([]string, 0, len(targetDates))
	for _, d := range targetDates {
		d = strings.TrimSpace(d)
		if d == "" || seen[d] {
			continue
		}
		if d == origin.Date {
			return nil, ErrDuplicateOntoSelf
		}
		if _, err := time.Parse(model.DateLayout, d); err != nil {
			return nil, invalid("targetDates", "target date "+d+" must be YYYY-MM-DD")
		}
		seen[d] = true
		dates = append(dates, d)
	}
	if len(dates) == 0 {
		return nil, ErrNoTargetDates
	}

	created := make([]model.Show, 0, len(dates))
	for _, d := range dates {
		s := model.Show{
			ShowID:    e.nextID(),
			Date:      d,
			StartTime: origin.StartTime,
			EndTime:   origin.EndTime,
		}
		e.shows = append(e.shows, s)
		created = append(created, s)
	}
	return created, nil
}

// DuplicateTargets lists the dates of the given month a show may be
// duplicated onto: every day of the month except the show's own date.
func (e *Editor) DuplicateTargets(showID string, month time.Month, year int) ([]string, error) {
	i := e.index(showID)
	if i < 0 {
		return nil, ErrShowNotFound
	}
	return SelectableDates(e.shows[i], month, year), nil
}

// DateRange derives the event window from the current shows.
func (e *Editor) DateRange(loc *time.Location) (model.DateRange, error) {
	return ComputeEventDateRange(e.shows, e.policy, loc)
}

// SelectableDates returns the current-month dates of the calendar grid,
// leaving out the originating show's date.
func SelectableDates(origin model.Show, month time.Month, year int) []string {
	var out []string
	for _, d := range CalendarDays(month, year) {
		if d.IsCurrentMonth && d.Date != origin.Date {
			out = append(out, d.Date)
		}
	}
	return out
}

func (e *Editor) index(showID string) int {
	for i, s := range e.shows {
		if s.ShowID == showID {
			return i
		}
	}
	return -1
}

// nextID draws ids until one is unused in this list.
func (e *Editor) nextID() string {
	for {
		id := e.ids.NewShowID()
		if e.index(id) < 0 {
			return id
		}
	}
}
