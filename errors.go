package schemarepo

import "fmt"

// ValidationError is returned when the repository rejects a submitted schema
// (HTTP 403 on a register-style call). It carries the rejected schema text so
// callers can report exactly what was refused.
type ValidationError struct {
	Schema string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid schema: %s", e.Schema)
}

// StatusError reports an unexpected HTTP status on an operation that has no
// soft-failure contract, currently only subject registration.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("registry returned status %d: %s", e.Status, e.Body)
}
