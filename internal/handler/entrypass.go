package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-entry/internal/entrypass"
)

// EntryPassHandler serves the customer's entry pass and bookings.
type EntryPassHandler struct {
	Manager *entrypass.Manager
}

// NewEntryPassHandler constructs an EntryPassHandler and panics if m is nil.
func NewEntryPassHandler(m *entrypass.Manager) *EntryPassHandler {
	if m == nil {
		panic("nil manager passed to NewEntryPassHandler")
	}
	return &EntryPassHandler{Manager: m}
}

// Current handles GET /v1/entrypass.  Having no pass answers 200 with a
// null entryPass and state "none".
func (h *EntryPassHandler) Current(c echo.Context) error {
	sess, ok := session(c)
	if !ok {
		return noSession(c)
	}
	v, err := h.Manager.Current(c.Request().Context(), sess)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"entryPass": v.Pass, "state": v.State, "rate": h.Manager.Rate()})
}

// Purchase handles POST /v1/entrypass/purchase with {"headCount": n}.
func (h *EntryPassHandler) Purchase(c echo.Context) error {
	sess, ok := session(c)
	if !ok {
		return noSession(c)
	}
	var body struct {
		HeadCount int `json:"headCount"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	v, err := h.Manager.Purchase(c.Request().Context(), sess, body.HeadCount)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, v)
}

// Availability handles GET /v1/events/:id/shows/:showId/availability.
func (h *EntryPassHandler) Availability(c echo.Context) error {
	sess, ok := session(c)
	if !ok {
		return noSession(c)
	}
	a, err := h.Manager.Availability(c.Request().Context(), sess, c.Param("id"), c.Param("showId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

// Book handles POST /v1/bookings, either {eventId, showId, quantity} or
// {events: [...], quantity}.
func (h *EntryPassHandler) Book(c echo.Context) error {
	sess, ok := session(c)
	if !ok {
		return noSession(c)
	}
	var req entrypass.BookingRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	b, err := h.Manager.Book(c.Request().Context(), sess, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"ticket": b})
}
