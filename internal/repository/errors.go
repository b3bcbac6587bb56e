// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios.
package repository

import "errors"

// ErrDraftNotFound is returned when a draft key has no stored shows.
// Handlers treat it as an empty draft rather than a failure.
var ErrDraftNotFound = errors.New("draft not found")

// ErrConflict is returned when a write cannot be applied because of
// existing state, such as a duplicate show id within a draft.  Handlers
// should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")
