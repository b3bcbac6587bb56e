package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/iliyamo/event-entry/internal/model"
)

// eventEnvelope is the body of every event endpoint: {"event": {...}}.
type eventEnvelope struct {
	Event model.Event `json:"event"`
}

// GetEvent loads a published event: GET /events/:id.
func (c *Client) GetEvent(ctx context.Context, sess model.Session, eventID string) (model.Event, error) {
	var env eventEnvelope
	err := c.do(ctx, sess, request{
		op:     "get event",
		method: http.MethodGet,
		path:   "/events/" + url.PathEscape(eventID),
	}, &env)
	return env.Event, err
}

// GetAdminEvent loads an event including drafts: GET /admin/events/:id.
func (c *Client) GetAdminEvent(ctx context.Context, sess model.Session, eventID string) (model.Event, error) {
	var env eventEnvelope
	err := c.do(ctx, sess, request{
		op:     "get admin event",
		method: http.MethodGet,
		path:   "/admin/events/" + url.PathEscape(eventID),
	}, &env)
	return env.Event, err
}

// EventForm is the multipart form of the admin event create/update calls.
// Shows travel as a JSON string; StartDate/EndDate are RFC3339 or empty
// when the event has no shows.
type EventForm struct {
	Title     string
	Capacity  int
	Price     float64
	Status    string
	Shows     []model.Show
	StartDate string
	EndDate   string
}

func (f EventForm) encode() (*bytes.Buffer, string, error) {
	shows := f.Shows
	if shows == nil {
		shows = []model.Show{}
	}
	showsJSON, err := json.Marshal(shows)
	if err != nil {
		return nil, "", err
	}
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	fields := [][2]string{
		{"title", f.Title},
		{"capacity", strconv.Itoa(f.Capacity)},
		{"price", strconv.FormatFloat(f.Price, 'f', -1, 64)},
		{"status", f.Status},
		{"shows", string(showsJSON)},
		{"startDate", f.StartDate},
		{"endDate", f.EndDate},
	}
	for _, kv := range fields {
		if err := w.WriteField(kv[0], kv[1]); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}

// CreateEvent creates an event: POST /admin/events (multipart).
func (c *Client) CreateEvent(ctx context.Context, sess model.Session, form EventForm) (model.Event, error) {
	return c.sendEvent(ctx, sess, "create event", http.MethodPost, "/admin/events", form)
}

// UpdateEvent replaces an event: PUT /admin/events/:id (multipart).
func (c *Client) UpdateEvent(ctx context.Context, sess model.Session, eventID string, form EventForm) (model.Event, error) {
	return c.sendEvent(ctx, sess, "update event", http.MethodPut, "/admin/events/"+url.PathEscape(eventID), form)
}

func (c *Client) sendEvent(ctx context.Context, sess model.Session, op, method, path string, form EventForm) (model.Event, error) {
	body, contentType, err := form.encode()
	if err != nil {
		return model.Event{}, fmt.Errorf("%s: encode form: %w", op, err)
	}
	var env eventEnvelope
	err = c.do(ctx, sess, request{
		op:          op,
		method:      method,
		path:        path,
		body:        body,
		contentType: contentType,
	}, &env)
	return env.Event, err
}
