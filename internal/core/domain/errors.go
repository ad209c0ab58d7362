package domain

import "errors"

var (
	// ErrTodoNotFound is returned when no record exists for the requested id.
	ErrTodoNotFound = errors.New("todo not found")

	// ErrInvalidToken is returned when the verification service rejects the credential.
	ErrInvalidToken = errors.New("invalid token")

	// ErrAuthUnavailable is returned when the verification service cannot be reached.
	// It must never be collapsed into ErrInvalidToken: a rejected credential and a
	// down verifier map to different HTTP statuses.
	ErrAuthUnavailable = errors.New("authentication service unavailable")
)
