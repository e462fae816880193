// Package repository implements raw-SQL data access for the dashboard
// tables. This file defines error values shared across repositories.
// Sentinel errors let handlers translate failure scenarios into HTTP
// statuses without inspecting driver-specific error strings.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrNotFound is returned when a referenced row does not exist.
// Handlers translate this into HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrRequestDecided is returned when a status update targets a data
// request that has already been approved or rejected. Request statuses
// are terminal: pending → approved|rejected, never reversed, never
// revisited. Handlers translate this into HTTP 409.
var ErrRequestDecided = errors.New("request already decided")

// DuplicateError reports a unique-constraint violation and names the
// offending column so the client can surface a field-level message.
// Handlers translate this into HTTP 400.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return e.Field + " already exists"
}
