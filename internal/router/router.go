// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-entry/internal/handler"
	"github.com/iliyamo/event-entry/internal/middleware"
	"github.com/iliyamo/event-entry/internal/model"
)

// RegisterRoutes registers routes that do not require authentication.
func RegisterRoutes(e *echo.Echo, h *handler.HealthHandler) {
	e.GET("/healthz", h.Health)
}

// RegisterShared registers routes open to every authenticated role: the
// calendar grid and cached event reads.  Both /v1 groups attach their
// middleware per route so neither claims the other's unmatched paths.
func RegisterShared(e *echo.Echo, s *handler.ScheduleHandler, ev *handler.EventHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	g := e.Group("/v1")
	auth := middleware.JWTAuth(jwtSecret)
	g.GET("/calendar", s.Calendar, auth)
	g.GET("/events/:id", ev.GetEvent, auth, cache)
}

// RegisterOrganizer registers the show editor.  Drafts are keyed by the
// event id, or by a "new-" key for events not created yet.
func RegisterOrganizer(e *echo.Echo, s *handler.ScheduleHandler, jwtSecret string) {
	g := e.Group("/v1/drafts/:key",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleOrganizer, model.RoleAdmin))
	g.GET("/shows", s.ListShows)
	g.POST("/shows", s.AddShow)
	g.PUT("/shows/:showId", s.EditShow)
	g.DELETE("/shows/:showId", s.RemoveShow)
	g.GET("/shows/:showId/targets", s.DuplicateTargets)
	g.POST("/shows/:showId/duplicate", s.DuplicateShow)
	g.POST("/submit", s.Submit)
}

// RegisterCustomer registers the entry pass and booking routes.
func RegisterCustomer(e *echo.Echo, p *handler.EntryPassHandler, jwtSecret string) {
	g := e.Group("/v1")
	mw := []echo.MiddlewareFunc{middleware.JWTAuth(jwtSecret), middleware.RequireRole(model.RoleCustomer)}
	g.GET("/entrypass", p.Current, mw...)
	g.POST("/entrypass/purchase", p.Purchase, mw...)
	g.GET("/events/:id/shows/:showId/availability", p.Availability, mw...)
	g.POST("/bookings", p.Book, mw...)
}

// RegisterStaff registers the scanner routes.  Verify is rate limited so a
// scanner stuck in a loop cannot flood the platform.
func RegisterStaff(e *echo.Echo, s *handler.ScannerHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1/scan",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleStaff, model.RoleAdmin))
	g.POST("/sessions", s.Open)
	g.GET("/sessions/:id", s.Get)
	g.PUT("/sessions/:id/event", s.SelectEvent)
	g.POST("/sessions/:id/verify", s.Verify, limiter)
	g.POST("/sessions/:id/tickets/:ticketId/attend", s.MarkAttended)
	g.GET("/events/:id/log", s.EventLog)
}
