package middleware

// identity.go holds helpers shared across middleware files.

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// currentUserID returns the authenticated user id, or "anon".
func currentUserID(c echo.Context) string {
	if s, ok := c.Get(ctxUserID).(string); ok && s != "" {
		return s
	}
	return "anon"
}

// RequestIDHeader carries the correlation id of a request.
const RequestIDHeader = echo.HeaderXRequestID

// RequestID reuses the caller's X-Request-Id or generates one, echoes it
// on the response and attaches a logger carrying it to the request
// context, where zerolog.Ctx finds it.
func RequestID(log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			id := req.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.NewString()
				req.Header.Set(RequestIDHeader, id)
			}
			c.Response().Header().Set(RequestIDHeader, id)
			l := log.With().Str("request_id", id).Logger()
			c.SetRequest(req.WithContext(l.WithContext(req.Context())))
			return next(c)
		}
	}
}
