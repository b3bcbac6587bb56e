package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-entry/internal/model"
)

// Context keys set by JWTAuth.
const (
	ctxSession = "session"
	ctxUserID  = "user_id"
	ctxRole    = "role"
)

// JWTAuth returns an Echo middleware that validates a platform-issued
// Bearer access token and stores the caller as a model.Session in the
// request context.  The raw token stays on the session so services can
// forward it to the platform.  The subject and role claims are also
// stored under "user_id" and "role" for RequireRole and rate limiting.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return unauthorized(c, "missing bearer token")
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return unauthorized(c, "invalid token")
			}
			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return unauthorized(c, "invalid claims")
			}

			sess := model.Session{Token: raw}
			// the platform issues numeric or string subjects
			switch sub := claims["sub"].(type) {
			case string:
				sess.UserID = sub
			case float64:
				sess.UserID = fmt.Sprintf("%.0f", sub)
			}
			if sess.UserID == "" {
				if id, ok := claims["userId"].(string); ok {
					sess.UserID = id
				}
			}
			if role, ok := claims["role"].(string); ok {
				sess.Role = strings.ToUpper(role)
			}
			if sess.UserID == "" {
				return unauthorized(c, "token has no subject")
			}

			c.Set(ctxSession, sess)
			c.Set(ctxUserID, sess.UserID)
			c.Set(ctxRole, sess.Role)
			return next(c)
		}
	}
}

// SessionFrom returns the caller stored by JWTAuth.
func SessionFrom(c echo.Context) (model.Session, bool) {
	sess, ok := c.Get(ctxSession).(model.Session)
	return sess, ok
}

func unauthorized(c echo.Context, msg string) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized", "message": msg})
}
