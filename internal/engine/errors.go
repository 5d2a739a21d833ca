package engine

import (
	"errors"
	"fmt"
)

// ErrInvalidOperation is returned when a move is attempted on an engine that
// has reached a terminal state. It is distinct from a move that changed nothing.
var ErrInvalidOperation = errors.New("engine: game is not active")

// ErrInvalidSize is returned for board dimensions below 2.
var ErrInvalidSize = errors.New("engine: board size must be at least 2")

// ValidationError describes a malformed board or game state.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("engine: invalid %s: %s", e.Field, e.Reason)
}
