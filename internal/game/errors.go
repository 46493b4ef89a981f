// internal/game/errors.go
package game

import (
	"errors"
	"fmt"
)

var (
	// ErrNoPlayers is returned when a round is started with an empty roster.
	ErrNoPlayers = errors.New("game: there are no players")
	// ErrNotEnoughCards is returned by NewSession when the card sets cannot serve a
	// full table.
	ErrNotEnoughCards = errors.New("game: not enough cards")
	// ErrSessionFailed is returned by every mutation once an internal invariant has
	// been broken. The session keeps answering read-only queries.
	ErrSessionFailed = errors.New("game: session failed")
	// ErrRejected marks a request refused because of a client protocol violation.
	// State is unchanged when it is returned.
	ErrRejected = errors.New("game: request rejected")
)

// RejectionError is a protocol violation by a client.
type RejectionError struct {
	Op     EventType
	Reason string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("game: %s rejected: %s", e.Op, e.Reason)
}

func (e *RejectionError) Is(target error) bool {
	return target == ErrRejected
}

func rejected(op EventType, reason string) error {
	return &RejectionError{Op: op, Reason: reason}
}
