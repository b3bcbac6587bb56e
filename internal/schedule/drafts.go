package schedule

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/iliyamo/event-entry/internal/model"
	"github.com/iliyamo/event-entry/internal/repository"
	"github.com/iliyamo/event-entry/internal/upstream"
)

// NewDraftPrefix marks draft keys of events that do not exist yet.  Any
// other key is the id of the event being edited.
const NewDraftPrefix = "new-"

// DraftStore persists draft show lists.
type DraftStore interface {
	List(ctx context.Context, draftKey string) ([]model.Show, error)
	Replace(ctx context.Context, draftKey, userID string, shows []model.Show) error
	Delete(ctx context.Context, draftKey string) error
}

// EventPlatform is the part of the platform API drafts are submitted to.
type EventPlatform interface {
	GetAdminEvent(ctx context.Context, sess model.Session, eventID string) (model.Event, error)
	CreateEvent(ctx context.Context, sess model.Session, form upstream.EventForm) (model.Event, error)
	UpdateEvent(ctx context.Context, sess model.Session, eventID string, form upstream.EventForm) (model.Event, error)
}

// Draft is a show list under edit together with the window it spans.
type Draft struct {
	Key       string          `json:"key"`
	Shows     []model.Show    `json:"shows"`
	DateRange model.DateRange `json:"dateRange"`
}

// Drafts keeps show lists between requests so an organizer can build a
// schedule step by step before submitting it with the event.
type Drafts struct {
	store    DraftStore
	platform EventPlatform
	ids      IDGenerator
	policy   TimePolicy
	loc      *time.Location
	log      zerolog.Logger
}

// NewDrafts wires a Drafts service.  A nil loc means UTC.
func NewDrafts(store DraftStore, platform EventPlatform, ids IDGenerator, policy TimePolicy, loc *time.Location, log zerolog.Logger) *Drafts {
	if loc == nil {
		loc = time.UTC
	}
	return &Drafts{
		store:    store,
		platform: platform,
		ids:      ids,
		policy:   policy,
		loc:      loc,
		log:      log.With().Str("component", "drafts").Logger(),
	}
}

// IsNewDraft reports whether key belongs to an event not created yet.
func IsNewDraft(key string) bool { return strings.HasPrefix(key, NewDraftPrefix) }

// Get returns a draft.  An event key with no stored draft starts from the
// event's current shows.
func (d *Drafts) Get(ctx context.Context, sess model.Session, key string) (Draft, error) {
	shows, err := d.load(ctx, sess, key)
	if err != nil {
		return Draft{}, err
	}
	return d.draft(key, NewEditor(shows, d.ids, d.policy))
}

// DuplicateTargets lists the dates of a month the draft's show may be
// copied onto.
func (d *Drafts) DuplicateTargets(ctx context.Context, sess model.Session, key, showID string, month time.Month, year int) ([]string, error) {
	shows, err := d.load(ctx, sess, key)
	if err != nil {
		return nil, err
	}
	dates, err := NewEditor(shows, d.ids, d.policy).DuplicateTargets(showID, month, year)
	if dates == nil && err == nil {
		dates = []string{}
	}
	return dates, err
}

func (d *Drafts) load(ctx context.Context, sess model.Session, key string) ([]model.Show, error) {
	shows, err := d.store.List(ctx, key)
	if err == nil {
		return shows, nil
	}
	if !errors.Is(err, repository.ErrDraftNotFound) {
		return nil, err
	}
	if IsNewDraft(key) {
		return nil, nil
	}
	ev, err := d.platform.GetAdminEvent(ctx, sess, key)
	if err != nil {
		return nil, err
	}
	return ev.Shows, nil
}

func (d *Drafts) draft(key string, e *Editor) (Draft, error) {
	r, err := e.DateRange(d.loc)
	if err != nil {
		return Draft{}, err
	}
	shows := e.Shows()
	if shows == nil {
		shows = []model.Show{}
	}
	return Draft{Key: key, Shows: shows, DateRange: r}, nil
}

// Edit loads a draft, applies fn to it and stores the result.  Nothing is
// stored when fn fails.
func (d *Drafts) Edit(ctx context.Context, sess model.Session, key string, fn func(*Editor) error) (Draft, error) {
	shows, err := d.load(ctx, sess, key)
	if err != nil {
		return Draft{}, err
	}
	e := NewEditor(shows, d.ids, d.policy)
	if err := fn(e); err != nil {
		return Draft{}, err
	}
	draft, err := d.draft(key, e)
	if err != nil {
		return Draft{}, err
	}
	if err := d.store.Replace(ctx, key, sess.UserID, draft.Shows); err != nil {
		return Draft{}, fmt.Errorf("store draft: %w", err)
	}
	return draft, nil
}

// EventDetails are the non-schedule fields of a submitted event.  An empty
// Title or Status and a nil Capacity or Price keep the current values of
// an existing event; a Price of 0 makes the event free.
type EventDetails struct {
	Title    string   `json:"title"`
	Capacity *int     `json:"capacity"`
	Price    *float64 `json:"price"`
	Status   string   `json:"status"`
}

// Submit sends the draft with the event details to the platform, creating
// the event for a new draft and updating it otherwise.  The event's
// startDate and endDate are derived from the shows, empty when there are
// none.  The draft is discarded once the platform accepts it.
func (d *Drafts) Submit(ctx context.Context, sess model.Session, key string, details EventDetails) (model.Event, error) {
	draft, err := d.Get(ctx, sess, key)
	if err != nil {
		return model.Event{}, err
	}
	if details.Capacity != nil && *details.Capacity < 1 {
		return model.Event{}, invalid("capacity", "Capacity must be at least 1")
	}
	if details.Price != nil && *details.Price < 0 {
		return model.Event{}, invalid("price", "Price cannot be negative")
	}
	start, end := draft.DateRange.FormValues()
	form := upstream.EventForm{
		Title:     strings.TrimSpace(details.Title),
		Status:    details.Status,
		Shows:     draft.Shows,
		StartDate: start,
		EndDate:   end,
	}
	if details.Capacity != nil {
		form.Capacity = *details.Capacity
	}
	if details.Price != nil {
		form.Price = *details.Price
	}

	var ev model.Event
	if IsNewDraft(key) {
		if form.Title == "" {
			return model.Event{}, invalid("title", "Title is required")
		}
		if details.Capacity == nil {
			return model.Event{}, invalid("capacity", "Capacity must be at least 1")
		}
		if form.Status == "" {
			form.Status = model.EventDraft
		}
		ev, err = d.platform.CreateEvent(ctx, sess, form)
	} else {
		current, gerr := d.platform.GetAdminEvent(ctx, sess, key)
		if gerr != nil {
			return model.Event{}, gerr
		}
		if form.Title == "" {
			form.Title = current.Title
		}
		if details.Capacity == nil {
			form.Capacity = current.Capacity
		}
		if details.Price == nil {
			form.Price = current.Price
		}
		if form.Status == "" {
			form.Status = current.Status
		}
		ev, err = d.platform.UpdateEvent(ctx, sess, key, form)
	}
	if err != nil {
		return model.Event{}, err
	}

	if err := d.store.Delete(ctx, key); err != nil {
		d.log.Warn().Err(err).Str("draft_key", key).Msg("discard submitted draft")
	}
	d.log.Info().
		Str("draft_key", key).
		Str("event_id", ev.ID).
		Int("shows", len(draft.Shows)).
		Str("user_id", sess.UserID).
		Msg("schedule submitted")
	return ev, nil
}
