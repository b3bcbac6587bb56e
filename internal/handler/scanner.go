package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-entry/internal/repository"
	"github.com/iliyamo/event-entry/internal/scanner"
)

// ScanLogReader lists recorded scan attempts.
type ScanLogReader interface {
	ListByEvent(ctx context.Context, eventID string, limit int) ([]repository.ScanLog, error)
}

// AttendanceCounter counts admitted tickets.
type AttendanceCounter interface {
	CountByEvent(ctx context.Context, eventID string) (tickets, heads int, err error)
}

// ScannerHandler serves staff scan sessions.
type ScannerHandler struct {
	Scanner    *scanner.Scanner
	Logs       ScanLogReader
	Attendance AttendanceCounter
}

// sessionView is a scan session as the scanner UI renders it.
type sessionView struct {
	ID        string              `json:"id"`
	StaffID   string              `json:"staffId"`
	EventID   string              `json:"eventId"`
	State     scanner.State       `json:"state"`
	Result    *scanner.ResultView `json:"result,omitempty"`
	Cue       scanner.Cue         `json:"cue,omitempty"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

func viewOf(s scanner.Session, cue scanner.Cue) sessionView {
	v := sessionView{ID: s.ID, StaffID: s.StaffID, EventID: s.EventID, State: s.State, Cue: cue, UpdatedAt: s.UpdatedAt}
	if s.Result != nil {
		r := scanner.Present(*s.Result)
		v.Result = &r
	}
	return v
}

// Open handles POST /v1/scan/sessions with an optional {"eventId"}.
func (h *ScannerHandler) Open(c echo.Context) error {
	sess, ok := session(c)
	if !ok {
		return noSession(c)
	}
	var body struct {
		EventID string `json:"eventId"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	s, err := h.Scanner.Open(c.Request().Context(), sess, body.EventID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"session": viewOf(s, scanner.CueNone)})
}

// Get handles GET /v1/scan/sessions/:id.
func (h *ScannerHandler) Get(c echo.Context) error {
	sess, ok := session(c)
	if !ok {
		return noSession(c)
	}
	s, err := h.Scanner.Get(c.Request().Context(), sess, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"session": viewOf(s, scanner.CueNone)})
}

// SelectEvent handles PUT /v1/scan/sessions/:id/event with {"eventId"}.
func (h *ScannerHandler) SelectEvent(c echo.Context) error {
	sess, ok := session(c)
	if !ok {
		return noSession(c)
	}
	var body struct {
		EventID string `json:"eventId"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	s, err := h.Scanner.SelectEvent(c.Request().Context(), sess, c.Param("id"), body.EventID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"session": viewOf(s, scanner.CueNone)})
}

// Verify handles POST /v1/scan/sessions/:id/verify with {"qrData": ...}.
// qrData may be the raw scanned string, a JSON string or a JSON object.
// A rejected code answers 200 with state "error" and an alert cue.
func (h *ScannerHandler) Verify(c echo.Context) error {
	sess, ok := session(c)
	if !ok {
		return noSession(c)
	}
	var body struct {
		QRData json.RawMessage `json:"qrData"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	s, err := h.Scanner.Verify(c.Request().Context(), sess, c.Param("id"), body.QRData)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"session": viewOf(s, scanner.CueFor(s, nil))})
}

// MarkAttended handles POST /v1/scan/sessions/:id/tickets/:ticketId/attend.
// When another session admitted the ticket first the reconciled session
// comes back with 409.
func (h *ScannerHandler) MarkAttended(c echo.Context) error {
	sess, ok := session(c)
	if !ok {
		return noSession(c)
	}
	out, err := h.Scanner.MarkAttended(c.Request().Context(), sess, c.Param("id"), c.Param("ticketId"))
	if errors.Is(err, scanner.ErrAlreadyAttended) {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":      "already_attended",
			"message":    err.Error(),
			"reconciled": out.Reconciled,
			"session":    viewOf(out.Session, scanner.CueFor(out.Session, err)),
		})
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"session": viewOf(out.Session, scanner.CueFor(out.Session, nil))})
}

// EventLog handles GET /v1/scan/events/:id/log?limit=n and returns the
// latest scan attempts with the attendance totals.
func (h *ScannerHandler) EventLog(c echo.Context) error {
	limit := 100
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return badRequest(c, "limit must be a positive number")
		}
		limit = n
	}
	ctx := c.Request().Context()
	eventID := c.Param("id")
	logs, err := h.Logs.ListByEvent(ctx, eventID, limit)
	if err != nil {
		return respondError(c, err)
	}
	tickets, heads, err := h.Attendance.CountByEvent(ctx, eventID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"eventId":    eventID,
		"logs":       logs,
		"attendance": echo.Map{"tickets": tickets, "heads": heads},
	})
}
