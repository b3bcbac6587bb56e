package upstream

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-entry/internal/model"
)

var sess = model.Session{UserID: "u1", Role: model.RoleStaff, Token: "tok"}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", 2*time.Second, zerolog.Nop())
}

func TestGetEventSendsBearerAndDecodes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/events/ev-1", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"event":{"id":"ev-1","capacity":50,"ticketsSold":10,
			"shows":[{"showId":"S1","date":"2025-06-01","startTime":"10:00","endTime":"11:00","availableSeats":5}]}}`)
	})
	ev, err := c.GetEvent(context.Background(), sess, "ev-1")
	require.NoError(t, err)
	assert.Equal(t, 50, ev.Capacity)
	assert.Equal(t, 5, ev.AvailableSeats("S1"))
	assert.Equal(t, 40, ev.AvailableSeats("unknown"))
}

func TestAPIErrorCarriesMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"message":"Ticket not valid for this event"}`)
	})
	_, err := c.VerifyTicket(context.Background(), sess, VerifyRequest{QRData: json.RawMessage(`"abc"`), EventID: "ev"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, StatusOf(err))
	assert.Equal(t, "Ticket not valid for this event", MessageOr(err, "fallback"))
}

func TestAPIErrorWithoutMessageFallsBack(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `<html>oops</html>`)
	})
	err := c.MarkAttended(context.Background(), sess, "t1", "ev", "")
	require.Error(t, err)
	assert.Equal(t, "fallback", MessageOr(err, "fallback"))
}

func TestGetEntryPassAbsence(t *testing.T) {
	for name, h := range map[string]http.HandlerFunc{
		"not found": func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNotFound) },
		"null":      func(w http.ResponseWriter, r *http.Request) { _, _ = io.WriteString(w, `{"entryPass":null}`) },
	} {
		t.Run(name, func(t *testing.T) {
			pass, err := newTestClient(t, h).GetEntryPass(context.Background(), sess)
			require.NoError(t, err)
			assert.Nil(t, pass)
		})
	}
}

func TestPurchaseEntryPassBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req PurchaseRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 3, req.HeadCount)
		assert.Equal(t, 300, req.Amount)
		assert.Equal(t, "PAY-1", req.PaymentID)
		_, _ = io.WriteString(w, `{"entryPass":{"headCount":5,"expiresAt":"2030-01-01T00:00:00Z"}}`)
	})
	pass, err := c.PurchaseEntryPass(context.Background(), sess, PurchaseRequest{HeadCount: 3, Amount: 300, PaymentID: "PAY-1"})
	require.NoError(t, err)
	assert.Equal(t, 5, pass.HeadCount)
}

func TestMarkAttendedSendsIdempotencyKey(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tickets/mark-attended", r.URL.Path)
		assert.Equal(t, "key-1", r.Header.Get("Idempotency-Key"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{"ticketId": "t1", "eventId": "ev"}, body)
		w.WriteHeader(http.StatusOK)
	})
	require.NoError(t, c.MarkAttended(context.Background(), sess, "t1", "ev", "key-1"))
}

func TestCreateEventMultipart(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "2025-06-01T10:00:00Z", r.FormValue("startDate"))
		assert.Equal(t, "", r.FormValue("endDate"))
		var shows []model.Show
		require.NoError(t, json.Unmarshal([]byte(r.FormValue("shows")), &shows))
		assert.Len(t, shows, 1)
		_, _ = io.WriteString(w, `{"event":{"id":"ev-9"}}`)
	})
	ev, err := c.CreateEvent(context.Background(), sess, EventForm{
		Title:     "Expo",
		Shows:     []model.Show{{ShowID: "S1", Date: "2025-06-01", StartTime: "10:00", EndTime: "11:00"}},
		StartDate: "2025-06-01T10:00:00Z",
	})
	require.NoError(t, err)
	assert.Equal(t, "ev-9", ev.ID)
}
