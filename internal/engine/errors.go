package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrConflict reports a lost race between the autotick check and a
	// manual tick after one retry. Transient; callers may try again.
	ErrConflict = errors.New("tick conflict")

	// ErrStorageUnavailable wraps persistence failures during a save.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrNotFound reports an unknown entity id.
	ErrNotFound = errors.New("not found")

	// ErrPaused rejects manual ticking while the world is paused.
	ErrPaused = errors.New("simulation paused")
)

// ValidationError rejects a malformed request before any state changes.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
