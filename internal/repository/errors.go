// Package repository defines the persistence contracts used by handlers and
// their MongoDB and MySQL implementations. Implementations report failures
// through the sentinel errors below so higher layers can tell "no such
// record" and "duplicate key" apart from infrastructure failures.
package repository

import "errors"

// ErrNotFound is returned when a lookup matches no record, including
// lookups by an identifier that is not valid for the store's key space.
// Handlers translate it into 404 (profile) or 401 (login).
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when creating a user whose email is already
// registered. The store's unique index is the final arbiter, so concurrent
// duplicate registrations surface here as well. Handlers translate it into
// an HTTP 409 response.
var ErrEmailExists = errors.New("email already exists")
