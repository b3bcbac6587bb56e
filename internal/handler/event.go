package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/event-entry/internal/model"
	"github.com/iliyamo/event-entry/internal/schedule"
)

// EventReader loads published events from the platform.
type EventReader interface {
	GetEvent(ctx context.Context, sess model.Session, eventID string) (model.Event, error)
}

// EventHandler serves event reads enriched with the derived date window.
type EventHandler struct {
	Events EventReader
	Policy schedule.TimePolicy
	Loc    *time.Location
}

// GetEvent handles GET /v1/events/:id.  The window is recomputed from the
// shows rather than trusted from the stored startDate/endDate.
func (h *EventHandler) GetEvent(c echo.Context) error {
	sess, ok := session(c)
	if !ok {
		return noSession(c)
	}
	ev, err := h.Events.GetEvent(c.Request().Context(), sess, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	r, err := schedule.ComputeEventDateRange(ev.Shows, h.Policy, h.Loc)
	if err != nil {
		zerolog.Ctx(c.Request().Context()).Warn().Err(err).Str("event_id", ev.ID).Msg("derive date range")
		r = model.DateRange{}
	}
	return c.JSON(http.StatusOK, echo.Map{"event": ev, "dateRange": r})
}
