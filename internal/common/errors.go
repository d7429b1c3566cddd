// Package common defines shared constants and sentinel errors used across
// giftswap layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Validation errors raised while editing the active list.
	ErrEmptyName           = errors.New("name can't be empty")
	ErrEmptyTitle          = errors.New("title can't be empty")
	ErrTitleConflict       = errors.New("title is already used by another list")
	ErrParticipantNotFound = errors.New("participant not found")

	// Persistence errors. Neither is fatal: the in-memory list stays the
	// source of truth for the current session.
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrMalformedData      = errors.New("malformed persisted data")
)
