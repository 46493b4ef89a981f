// cmd/server/config.go
package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/jason-s-yu/blanks/internal/cache"
	"github.com/jason-s-yu/blanks/internal/game"
)

const shutdownTimeout = 5 * time.Second

// Config holds everything the server reads from flags and the environment.
type Config struct {
	bind       string
	port       int
	handSize   int
	minPlayers int
	maxPlayers int
	blankWidth int

	prompts     string
	answers     string
	databaseURL string

	redisAddr string
	redisDB   int
	queue     string

	publicURL string
	origins   []string
	verbose   bool
}

func defaultConfig() *Config {
	return &Config{
		bind:       "0.0.0.0",
		port:       8000,
		handSize:   game.DefaultHandSize,
		minPlayers: game.DefaultMinPlayers,
		maxPlayers: game.DefaultMaxPlayers,
		blankWidth: 5,
		queue:      cache.DefaultQueueName,
	}
}

func (c *Config) gameConfig() game.Config {
	return game.Config{
		HandSize:   c.handSize,
		MinPlayers: c.minPlayers,
		MaxPlayers: c.maxPlayers,
	}
}

func (c *Config) validate() error {
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.blankWidth < 1 {
		return fmt.Errorf("blank width must be at least 1, got %d", c.blankWidth)
	}
	if (c.prompts == "") != (c.answers == "") {
		return errors.New("both --prompts and --answers must be provided together")
	}
	if c.redisDB < 0 {
		return fmt.Errorf("invalid redis db index: %d", c.redisDB)
	}
	return c.gameConfig().Validate()
}
