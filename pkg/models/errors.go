package models

import (
	"errors"
)

// Fatal pre-flight and gating errors. Everything else in the taxonomy is
// recoverable and accumulates into result objects instead of aborting.
var (
	// ErrInvalidRoot indicates a scan root that does not exist or is not
	// a directory; the whole scan fails before any traversal
	ErrInvalidRoot = errors.New("invalid scan root")

	// ErrProtectedRoot indicates a scan root under a protected system path
	ErrProtectedRoot = errors.New("protected system root")

	// ErrNotConfirmed indicates a mutating entry point was called without
	// an explicit affirmative confirmation
	ErrNotConfirmed = errors.New("operation not confirmed")

	// ErrDestinationExists indicates a move would overwrite an existing
	// file; moves never overwrite
	ErrDestinationExists = errors.New("destination already exists")

	// ErrBackupMissing indicates no backup artifact was found before a
	// commit that requires one
	ErrBackupMissing = errors.New("backup artifact not found")
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
