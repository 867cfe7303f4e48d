package entity

import "errors"

// Domain errors surfaced by the repositories. Handlers translate these to
// HTTP statuses; anything wrapping ErrPersistence maps to a generic failure
// message so driver detail never reaches a client.
var (
	ErrProfileExists   = errors.New("profile already exists")
	ErrInvalidDecision = errors.New("invalid decision status")
	ErrInvalidSlot     = errors.New("invalid picture slot")
	ErrUnknownBioField = errors.New("unknown profile field")
	ErrPersistence     = errors.New("storage failure")
)
