package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/iliyamo/event-entry/internal/model"
)

// BookRequest books one show of one event.
type BookRequest struct {
	EventID   string `json:"eventId"`
	ShowID    string `json:"showId"`
	HeadCount int    `json:"headCount"`
}

// BookManyRequest books the same quantity across several events.
type BookManyRequest struct {
	Events   []string `json:"events"`
	Quantity int      `json:"quantity"`
}

// Booking is what the gateway keeps from a booking answer.
type Booking struct {
	TicketID string `json:"ticketId,omitempty"`
	QRCode   string `json:"qrCode"`
}

// BookTicket books a show: POST /tickets/book, answered with
// {"ticket": {"ticketId", "qrCode"}}.
func (c *Client) BookTicket(ctx context.Context, sess model.Session, req BookRequest) (Booking, error) {
	body, err := jsonBody(req)
	if err != nil {
		return Booking{}, fmt.Errorf("book ticket: %w", err)
	}
	var env struct {
		Ticket Booking `json:"ticket"`
	}
	err = c.do(ctx, sess, request{
		op:          "book ticket",
		method:      http.MethodPost,
		path:        "/tickets/book",
		body:        body,
		contentType: "application/json",
	}, &env)
	return env.Ticket, err
}

// BookTickets books several events at once: POST /tickets/book, answered
// with {"qrCode": "..."}.
func (c *Client) BookTickets(ctx context.Context, sess model.Session, req BookManyRequest) (Booking, error) {
	body, err := jsonBody(req)
	if err != nil {
		return Booking{}, fmt.Errorf("book tickets: %w", err)
	}
	var out Booking
	err = c.do(ctx, sess, request{
		op:          "book tickets",
		method:      http.MethodPost,
		path:        "/tickets/book",
		body:        body,
		contentType: "application/json",
	}, &out)
	return out, err
}

// VerifyRequest is the body of POST /tickets/verify.  QRData is forwarded
// as-is: a JSON string or a JSON object.
type VerifyRequest struct {
	QRData  json.RawMessage `json:"qrData"`
	EventID string          `json:"eventId"`
}

// VerifyResponse is {"user": {...}, "tickets": [...]}.
type VerifyResponse struct {
	User    *model.Purchaser `json:"user"`
	Tickets []model.Ticket   `json:"tickets"`
}

// VerifyTicket resolves a scanned code against an event.
func (c *Client) VerifyTicket(ctx context.Context, sess model.Session, req VerifyRequest) (VerifyResponse, error) {
	body, err := jsonBody(req)
	if err != nil {
		return VerifyResponse{}, fmt.Errorf("verify ticket: %w", err)
	}
	var out VerifyResponse
	err = c.do(ctx, sess, request{
		op:          "verify ticket",
		method:      http.MethodPost,
		path:        "/tickets/verify",
		body:        body,
		contentType: "application/json",
	}, &out)
	return out, err
}

// GetTicket loads a ticket's detail: GET /tickets/:id, answered with
// {"ticket": {...}}.
func (c *Client) GetTicket(ctx context.Context, sess model.Session, ticketID string) (model.TicketDetail, error) {
	var env struct {
		Ticket model.TicketDetail `json:"ticket"`
	}
	err := c.do(ctx, sess, request{
		op:     "get ticket",
		method: http.MethodGet,
		path:   "/tickets/" + url.PathEscape(ticketID),
	}, &env)
	return env.Ticket, err
}

// MarkAttended records admission: POST /tickets/mark-attended.  The
// idempotency key lets the platform collapse retries of the same
// ticket/event pair.
func (c *Client) MarkAttended(ctx context.Context, sess model.Session, ticketID, eventID, idempotencyKey string) error {
	body, err := jsonBody(struct {
		TicketID string `json:"ticketId"`
		EventID  string `json:"eventId"`
	}{ticketID, eventID})
	if err != nil {
		return fmt.Errorf("mark attended: %w", err)
	}
	var headers map[string]string
	if idempotencyKey != "" {
		headers = map[string]string{"Idempotency-Key": idempotencyKey}
	}
	return c.do(ctx, sess, request{
		op:          "mark attended",
		method:      http.MethodPost,
		path:        "/tickets/mark-attended",
		body:        body,
		contentType: "application/json",
		headers:     headers,
	}, nil)
}
