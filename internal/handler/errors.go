package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/event-entry/internal/entrypass"
	"github.com/iliyamo/event-entry/internal/repository"
	"github.com/iliyamo/event-entry/internal/scanner"
	"github.com/iliyamo/event-entry/internal/schedule"
	"github.com/iliyamo/event-entry/internal/upstream"
)

// apiError is the body of every failed response.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// sentinel maps a domain error to its status and code.
var sentinels = []struct {
	err    error
	status int
	code   string
}{
	{schedule.ErrShowNotFound, http.StatusNotFound, "show_not_found"},
	{schedule.ErrConfirmationRequired, http.StatusPreconditionRequired, "confirmation_required"},
	{schedule.ErrDuplicateOntoSelf, http.StatusUnprocessableEntity, "duplicate_onto_self"},
	{schedule.ErrNoTargetDates, http.StatusUnprocessableEntity, "no_target_dates"},
	{entrypass.ErrNoPass, http.StatusUnprocessableEntity, "entry_pass_required"},
	{entrypass.ErrPassExpired, http.StatusUnprocessableEntity, "entry_pass_expired"},
	{entrypass.ErrInvalidQuantity, http.StatusBadRequest, "invalid_quantity"},
	{entrypass.ErrTooManyHeads, http.StatusBadRequest, "invalid_quantity"},
	{entrypass.ErrNoEventsSelected, http.StatusBadRequest, "no_events_selected"},
	{entrypass.ErrUnknownShow, http.StatusNotFound, "show_not_found"},
	{scanner.ErrNoEventSelected, http.StatusConflict, "no_event_selected"},
	{scanner.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
	{scanner.ErrSessionNotFound, http.StatusNotFound, "session_not_found"},
	{scanner.ErrNotMarkable, http.StatusConflict, "not_markable"},
	{scanner.ErrAlreadyAttended, http.StatusConflict, "already_attended"},
	{scanner.ErrEmptyPayload, http.StatusBadRequest, "empty_payload"},
	{scanner.ErrForeignSession, http.StatusForbidden, "forbidden"},
	{repository.ErrConflict, http.StatusConflict, "conflict"},
}

// respondError writes err as {"error", "message"}.  Platform errors keep
// their client status and message; anything else from the platform is a
// 502.  Unknown errors are logged and hidden behind a 500.
func respondError(c echo.Context, err error) error {
	var verr *schedule.ValidationError
	if errors.As(err, &verr) {
		return c.JSON(http.StatusUnprocessableEntity, apiError{Error: "validation_failed", Message: verr.Message, Field: verr.Field})
	}
	var qerr *entrypass.QuotaError
	if errors.As(err, &qerr) {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"error":       "quota_exceeded",
			"message":     qerr.Error(),
			"maxBookable": qerr.Max,
		})
	}
	for _, s := range sentinels {
		if errors.Is(err, s.err) {
			return c.JSON(s.status, apiError{Error: s.code, Message: s.err.Error()})
		}
	}
	var perr *upstream.APIError
	if errors.As(err, &perr) {
		status := perr.Status
		switch status {
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden,
			http.StatusNotFound, http.StatusConflict, http.StatusUnprocessableEntity:
		default:
			status = http.StatusBadGateway
		}
		return c.JSON(status, apiError{Error: "platform_error", Message: upstream.MessageOr(err, "The platform could not complete the request")})
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return c.JSON(http.StatusGatewayTimeout, apiError{Error: "timeout", Message: "The request timed out, please retry"})
	}

	zerolog.Ctx(c.Request().Context()).Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
	return c.JSON(http.StatusInternalServerError, apiError{Error: "internal", Message: "Something went wrong, please retry"})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, apiError{Error: "bad_request", Message: msg})
}
