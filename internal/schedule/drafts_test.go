package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-entry/internal/model"
	"github.com/iliyamo/event-entry/internal/repository"
	"github.com/iliyamo/event-entry/internal/upstream"
)

type memoryDrafts struct {
	drafts map[string][]model.Show
}

func (m *memoryDrafts) List(_ context.Context, key string) ([]model.Show, error) {
	shows, ok := m.drafts[key]
	if !ok {
		return nil, repository.ErrDraftNotFound
	}
	return append([]model.Show{}, shows...), nil
}

func (m *memoryDrafts) Replace(_ context.Context, key, _ string, shows []model.Show) error {
	m.drafts[key] = append([]model.Show{}, shows...)
	return nil
}

func (m *memoryDrafts) Delete(_ context.Context, key string) error {
	delete(m.drafts, key)
	return nil
}

type fakeEvents struct {
	events  map[string]model.Event
	created []upstream.EventForm
	updated []upstream.EventForm
}

func (f *fakeEvents) GetAdminEvent(_ context.Context, _ model.Session, id string) (model.Event, error) {
	ev, ok := f.events[id]
	if !ok {
		return model.Event{}, &upstream.APIError{Op: "get admin event", Status: 404}
	}
	return ev, nil
}

func (f *fakeEvents) CreateEvent(_ context.Context, _ model.Session, form upstream.EventForm) (model.Event, error) {
	f.created = append(f.created, form)
	return model.Event{ID: "ev-new", Title: form.Title, Shows: form.Shows}, nil
}

func (f *fakeEvents) UpdateEvent(_ context.Context, _ model.Session, id string, form upstream.EventForm) (model.Event, error) {
	f.updated = append(f.updated, form)
	return model.Event{ID: id, Title: form.Title, Shows: form.Shows}, nil
}

func intPtr(n int) *int { return &n }
func floatPtr(f float64) *float64 { return &f }

var organizer = model.Session{UserID: "org-1", Role: model.RoleOrganizer, Token: "tok"}

func newDrafts(events *fakeEvents) (*Drafts, *memoryDrafts) {
	store := &memoryDrafts{drafts: map[string][]model.Show{}}
	return NewDrafts(store, events, &seqIDs{}, PolicyStrict, time.UTC, zerolog.Nop()), store
}

func TestNewDraftStartsEmptyAndUnset(t *testing.T) {
	d, _ := newDrafts(&fakeEvents{})
	draft, err := d.Get(context.Background(), organizer, "new-abc")
	require.NoError(t, err)
	assert.Empty(t, draft.Shows)
	assert.False(t, draft.DateRange.IsSet())
}

func TestEventDraftSeedsFromPlatform(t *testing.T) {
	events := &fakeEvents{events: map[string]model.Event{
		"ev-1": {ID: "ev-1", Shows: []model.Show{{ShowID: "SHOW-1", Date: "2025-06-08", StartTime: "10:00", EndTime: "11:00"}}},
	}}
	d, _ := newDrafts(events)

	draft, err := d.Get(context.Background(), organizer, "ev-1")
	require.NoError(t, err)
	require.Len(t, draft.Shows, 1)
	assert.Equal(t, time.Date(2025, 6, 8, 10, 0, 0, 0, time.UTC), *draft.DateRange.Start)
}

func TestEditPersistsOnlyOnSuccess(t *testing.T) {
	d, store := newDrafts(&fakeEvents{})
	ctx := context.Background()

	_, err := d.Edit(ctx, organizer, "new-1", func(e *Editor) error {
		_, err := e.Add("2025-06-08", "10:00", "11:00")
		return err
	})
	require.NoError(t, err)
	require.Len(t, store.drafts["new-1"], 1)

	_, err = d.Edit(ctx, organizer, "new-1", func(e *Editor) error {
		_, err := e.Add("2025-06-09", "12:00", "11:00")
		return err
	})
	require.Error(t, err)
	assert.Len(t, store.drafts["new-1"], 1)
}

func TestSubmitNewDraftCreatesEvent(t *testing.T) {
	events := &fakeEvents{}
	d, store := newDrafts(events)
	ctx := context.Background()

	_, err := d.Edit(ctx, organizer, "new-1", func(e *Editor) error {
		s, err := e.Add("2025-06-08", "10:00", "11:00")
		if err != nil {
			return err
		}
		_, err = e.Duplicate(s.ShowID, []string{"2025-06-09"})
		return err
	})
	require.NoError(t, err)

	ev, err := d.Submit(ctx, organizer, "new-1", EventDetails{Title: "Expo", Capacity: intPtr(50), Price: floatPtr(10)})
	require.NoError(t, err)
	assert.Equal(t, "ev-new", ev.ID)

	require.Len(t, events.created, 1)
	form := events.created[0]
	assert.Len(t, form.Shows, 2)
	assert.Equal(t, "2025-06-08T10:00:00Z", form.StartDate)
	assert.Equal(t, "2025-06-09T11:00:00Z", form.EndDate)
	assert.Equal(t, model.EventDraft, form.Status)
	assert.NotContains(t, store.drafts, "new-1")
}

func TestSubmitNewDraftNeedsTitle(t *testing.T) {
	events := &fakeEvents{}
	d, _ := newDrafts(events)
	_, err := d.Submit(context.Background(), organizer, "new-1", EventDetails{Capacity: intPtr(10)})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "title", verr.Field)
	assert.Empty(t, events.created)
}

func TestSubmitEmptyScheduleSendsEmptyDates(t *testing.T) {
	events := &fakeEvents{events: map[string]model.Event{
		"ev-1": {ID: "ev-1", Title: "Fair", Capacity: 20, Status: model.EventPublished},
	}}
	d, _ := newDrafts(events)

	_, err := d.Submit(context.Background(), organizer, "ev-1", EventDetails{})
	require.NoError(t, err)
	require.Len(t, events.updated, 1)
	form := events.updated[0]
	assert.Equal(t, "", form.StartDate)
	assert.Equal(t, "", form.EndDate)
	assert.Equal(t, "Fair", form.Title)
	assert.Equal(t, 20, form.Capacity)
	assert.Equal(t, model.EventPublished, form.Status)
}

func TestRemovingLastShowOfEventSticks(t *testing.T) {
	events := &fakeEvents{events: map[string]model.Event{
		"ev-1": {ID: "ev-1", Title: "Fair", Capacity: 20, Status: model.EventPublished,
			Shows: []model.Show{{ShowID: "SHOW-1", Date: "2025-06-08", StartTime: "10:00", EndTime: "11:00"}}},
	}}
	d, _ := newDrafts(events)
	ctx := context.Background()

	draft, err := d.Edit(ctx, organizer, "ev-1", func(e *Editor) error {
		return e.Remove("SHOW-1", true)
	})
	require.NoError(t, err)
	assert.Empty(t, draft.Shows)

	draft, err = d.Get(ctx, organizer, "ev-1")
	require.NoError(t, err)
	assert.Empty(t, draft.Shows, "an emptied draft is not re-seeded from the event")
	assert.False(t, draft.DateRange.IsSet())

	_, err = d.Submit(ctx, organizer, "ev-1", EventDetails{})
	require.NoError(t, err)
	require.Len(t, events.updated, 1)
	assert.Empty(t, events.updated[0].Shows)
	assert.Equal(t, "", events.updated[0].StartDate)
}

func TestSubmitCanMakeEventFree(t *testing.T) {
	events := &fakeEvents{events: map[string]model.Event{
		"ev-1": {ID: "ev-1", Title: "Fair", Capacity: 20, Price: 15, Status: model.EventPublished},
	}}
	d, _ := newDrafts(events)

	_, err := d.Submit(context.Background(), organizer, "ev-1", EventDetails{Price: floatPtr(0)})
	require.NoError(t, err)
	require.Len(t, events.updated, 1)
	assert.Zero(t, events.updated[0].Price)
	assert.Equal(t, 20, events.updated[0].Capacity)
}

func TestSubmitRejectsBadNumbers(t *testing.T) {
	events := &fakeEvents{events: map[string]model.Event{"ev-1": {ID: "ev-1", Title: "Fair", Capacity: 20}}}
	d, _ := newDrafts(events)
	ctx := context.Background()

	var verr *ValidationError
	_, err := d.Submit(ctx, organizer, "ev-1", EventDetails{Capacity: intPtr(0)})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "capacity", verr.Field)

	_, err = d.Submit(ctx, organizer, "ev-1", EventDetails{Price: floatPtr(-1)})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "price", verr.Field)

	_, err = d.Submit(ctx, organizer, "new-1", EventDetails{Title: "Expo"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "capacity", verr.Field)
	assert.Empty(t, events.updated)
}
