package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-entry/internal/model"
	"github.com/iliyamo/event-entry/internal/schedule"
)

// ScheduleHandler serves the show editor of organizers.
type ScheduleHandler struct {
	Drafts *schedule.Drafts
	Now    func() time.Time
}

// NewScheduleHandler constructs a ScheduleHandler and panics if drafts is nil.
func NewScheduleHandler(drafts *schedule.Drafts) *ScheduleHandler {
	if drafts == nil {
		panic("nil drafts passed to NewScheduleHandler")
	}
	return &ScheduleHandler{Drafts: drafts, Now: time.Now}
}

// Calendar handles GET /v1/calendar?month&year and returns the month grid.
func (h *ScheduleHandler) Calendar(c echo.Context) error {
	month, year, ok := monthYear(c, h.Now())
	if !ok {
		return badRequest(c, "month must be 1-12 and year a four digit number")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"month": int(month),
		"year":  year,
		"days":  schedule.CalendarDays(month, year),
	})
}

// ListShows handles GET /v1/drafts/:key/shows.
func (h *ScheduleHandler) ListShows(c echo.Context) error {
	sess, ok := session(c)
	if !ok {
		return noSession(c)
	}
	draft, err := h.Drafts.Get(c.Request().Context(), sess, c.Param("key"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, draft)
}

type showBody struct {
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// AddShow handles POST /v1/drafts/:key/shows.
func (h *ScheduleHandler) AddShow(c echo.Context) error {
	sess, ok := session(c)
	if !ok {
		return noSession(c)
	}
	var body showBody
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	var created model.Show
	draft, err := h.Drafts.Edit(c.Request().Context(), sess, c.Param("key"), func(e *schedule.Editor) error {
		var err error
		created, err = e.Add(body.Date, body.StartTime, body.EndTime)
		return err
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"show": created, "draft": draft})
}

// EditShow handles PUT /v1/drafts/:key/shows/:showId.
func (h *ScheduleHandler) EditShow(c echo.Context) error {
	sess, ok := session(c)
	if !ok {
		return noSession(c)
	}
	var body showBody
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	var updated model.Show
	draft, err := h.Drafts.Edit(c.Request().Context(), sess, c.Param("key"), func(e *schedule.Editor) error {
		var err error
		updated, err = e.Edit(c.Param("showId"), model.Show{Date: body.Date, StartTime: body.StartTime, EndTime: body.EndTime})
		return err
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"show": updated, "draft": draft})
}

// RemoveShow handles DELETE /v1/drafts/:key/shows/:showId?confirm=true.
// Without confirm the show stays and 428 asks the client to confirm.
func (h *ScheduleHandler) RemoveShow(c echo.Context) error {
	sess, ok := session(c)
	if !ok {
		return noSession(c)
	}
	confirmed, _ := strconv.ParseBool(c.QueryParam("confirm"))
	draft, err := h.Drafts.Edit(c.Request().Context(), sess, c.Param("key"), func(e *schedule.Editor) error {
		return e.Remove(c.Param("showId"), confirmed)
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"draft": draft})
}

// DuplicateTargets handles GET /v1/drafts/:key/shows/:showId/targets and
// lists the dates of a month a show can be copied onto.
func (h *ScheduleHandler) DuplicateTargets(c echo.Context) error {
	sess, ok := session(c)
	if !ok {
		return noSession(c)
	}
	month, year, ok := monthYear(c, h.Now())
	if !ok {
		return badRequest(c, "month must be 1-12 and year a four digit number")
	}
	dates, err := h.Drafts.DuplicateTargets(c.Request().Context(), sess, c.Param("key"), c.Param("showId"), month, year)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"month": int(month), "year": year, "dates": dates})
}

// DuplicateShow handles POST /v1/drafts/:key/shows/:showId/duplicate with
// {"targetDates": [...]}.
func (h *ScheduleHandler) DuplicateShow(c echo.Context) error {
	sess, ok := session(c)
	if !ok {
		return noSession(c)
	}
	var body struct {
		TargetDates []string `json:"targetDates"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	var created []model.Show
	draft, err := h.Drafts.Edit(c.Request().Context(), sess, c.Param("key"), func(e *schedule.Editor) error {
		var err error
		created, err = e.Duplicate(c.Param("showId"), body.TargetDates)
		return err
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"shows": created, "draft": draft})
}

// Submit handles POST /v1/drafts/:key/submit and creates or updates the
// event on the platform with the drafted shows.
func (h *ScheduleHandler) Submit(c echo.Context) error {
	sess, ok := session(c)
	if !ok {
		return noSession(c)
	}
	var body schedule.EventDetails
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	key := c.Param("key")
	ev, err := h.Drafts.Submit(c.Request().Context(), sess, key, body)
	if err != nil {
		return respondError(c, err)
	}
	status := http.StatusOK
	if schedule.IsNewDraft(key) {
		status = http.StatusCreated
	}
	return c.JSON(status, echo.Map{"event": ev})
}
