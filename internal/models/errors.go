package models

import "errors"

// Domain errors returned by repositories and services. Handlers map
// these to HTTP status codes with errors.Is; everything else is a 500.
var (
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when the actor is not allowed to perform
	// the action on the entity.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidState is returned when an entity is not in a state that
	// permits the requested transition (swap not pending, item not
	// available).
	ErrInvalidState = errors.New("invalid state")

	// ErrInvalidInput is returned for malformed or missing request
	// fields, including swap-type/field mismatches.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInsufficientBalance is returned when a points swap is requested
	// with a balance below the item's value.
	ErrInsufficientBalance = errors.New("insufficient points balance")
)
