// Package common defines sentinel errors shared by the repository, service,
// workflow and front layers. Callers should match them with errors.Is.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateName reports a landmark name collision on create or rename.
	ErrDuplicateName = errors.New("landmark name already exists")

	// ErrStorage classifies connection and transaction failures.
	ErrStorage = errors.New("storage error")

	// ErrMedia reports a photo fetch/store failure.
	ErrMedia = errors.New("media error")

	// Workflow input errors, recovered by re-prompting in place.
	ErrValidation = errors.New("validation error")
	ErrAuth       = errors.New("invalid credentials")

	// ErrUnauthorized is returned when an action needs a valid session.
	ErrUnauthorized = errors.New("unauthorized")
)
