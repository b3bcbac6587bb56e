// Package handler exposes the show editor, entry pass and scanner
// workflows over HTTP.
package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-entry/internal/middleware"
	"github.com/iliyamo/event-entry/internal/model"
)

// session returns the caller stored by the JWT middleware.
func session(c echo.Context) (model.Session, bool) {
	return middleware.SessionFrom(c)
}

// noSession answers a request that reached a handler unauthenticated.
func noSession(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, apiError{Error: "unauthorized", Message: "authentication required"})
}

// monthYear reads ?month=1..12&year=YYYY, defaulting to the month of now.
func monthYear(c echo.Context, now time.Time) (time.Month, int, bool) {
	month, year := now.Month(), now.Year()
	if v := c.QueryParam("month"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 12 {
			return 0, 0, false
		}
		month = time.Month(n)
	}
	if v := c.QueryParam("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 9999 {
			return 0, 0, false
		}
		year = n
	}
	return month, year, true
}
