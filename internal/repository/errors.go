// Package repository implements the data access layer on top of
// database/sql.  It defines sentinel error values that are reused across
// repositories so handlers can map failures to HTTP status codes without
// inspecting driver errors: ErrNotFound becomes 404, ErrForbidden 403,
// ErrEmailExists and ErrConflict 409, ErrTicketUnavailable 409 on
// checkout.
package repository

import "errors"

// ErrNotFound is returned when a row with the requested id does not exist.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when an insert or update would violate the
// unique email constraint on users.
var ErrEmailExists = errors.New("email already exists")

// ErrForbidden is returned when a caller attempts to modify or delete a
// listing owned by another seller.  The record is left unchanged.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a delete cannot proceed because dependent
// rows still exist, such as removing a concert that still has listings.
var ErrConflict = errors.New("conflict")

// ErrTicketUnavailable is returned by the checkout transaction when the
// listing is no longer in the available state or has fewer seats than
// requested.
var ErrTicketUnavailable = errors.New("ticket unavailable")
