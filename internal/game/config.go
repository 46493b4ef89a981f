// internal/game/config.go
package game

import (
	"errors"
	"fmt"
)

// Default tunables.
const (
	DefaultHandSize   = 4
	DefaultMinPlayers = 3
	DefaultMaxPlayers = 8
)

// Config holds the session tunables.
type Config struct {
	HandSize   int `json:"hand_size"`   // answer cards per player
	MinPlayers int `json:"min_players"` // players needed before a round runs
	MaxPlayers int `json:"max_players"` // logins beyond this are rejected
}

// DefaultConfig returns the default tunables.
func DefaultConfig() Config {
	return Config{
		HandSize:   DefaultHandSize,
		MinPlayers: DefaultMinPlayers,
		MaxPlayers: DefaultMaxPlayers,
	}
}

// Validate checks the tunables are usable. A round needs a czar and at least one
// answering player, so MinPlayers is at least 2.
func (c Config) Validate() error {
	if c.HandSize < 1 {
		return fmt.Errorf("hand size must be at least 1, got %d", c.HandSize)
	}
	if c.MinPlayers < 2 {
		return fmt.Errorf("min players must be at least 2, got %d", c.MinPlayers)
	}
	if c.MaxPlayers < c.MinPlayers {
		return errors.New("max players must not be below min players")
	}
	return nil
}
