// cmd/server/cmd.go
package main

import (
	"github.com/jason-s-yu/blanks/internal/config"
	"github.com/spf13/cobra"
)

const envPrefix = "BLANKS"

func newCmd(cfg *Config) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "blanks",
		Short: "Serves a fill-in-the-blanks party game over websockets.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&cfg.bind, "bind", "b", cfg.bind, "address to bind to (env: BLANKS_BIND)")
	fs.IntVarP(&cfg.port, "port", "p", cfg.port, "port to listen on (env: BLANKS_PORT)")
	fs.IntVar(&cfg.handSize, "hand-size", cfg.handSize, "answer cards held by each player (env: BLANKS_HAND_SIZE)")
	fs.IntVar(&cfg.minPlayers, "min-players", cfg.minPlayers, "players needed before a round starts (env: BLANKS_MIN_PLAYERS)")
	fs.IntVar(&cfg.maxPlayers, "max-players", cfg.maxPlayers, "players allowed in the game (env: BLANKS_MAX_PLAYERS)")
	fs.IntVar(&cfg.blankWidth, "blank-width", cfg.blankWidth, "underscores each prompt blank widens to (env: BLANKS_BLANK_WIDTH)")
	fs.StringVar(&cfg.prompts, "prompts", "", "prompt file, .yaml or .json (env: BLANKS_PROMPTS)")
	fs.StringVar(&cfg.answers, "answers", "", "answer file, .yaml or .json (env: BLANKS_ANSWERS)")
	fs.StringVar(&cfg.databaseURL, "database-url", "", "load cards from this PostgreSQL database (env: BLANKS_DATABASE_URL)")
	fs.StringVar(&cfg.redisAddr, "redis-addr", "", "publish the action log to this Redis server (env: BLANKS_REDIS_ADDR)")
	fs.IntVar(&cfg.redisDB, "redis-db", 0, "Redis database index (env: BLANKS_REDIS_DB)")
	fs.StringVar(&cfg.queue, "queue", cfg.queue, "Redis list the action log is pushed to (env: BLANKS_QUEUE)")
	fs.StringVar(&cfg.publicURL, "public-url", "", "join URL encoded by /qr, defaults to the request host (env: BLANKS_PUBLIC_URL)")
	fs.StringSliceVar(&cfg.origins, "origin", nil, "allowed websocket origin patterns (env: BLANKS_ORIGIN)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "log message traffic (env: BLANKS_VERBOSE)")

	if err := config.BindEnv(fs, envPrefix); err != nil {
		return nil, err
	}

	importCmd, err := newImportCmd()
	if err != nil {
		return nil, err
	}
	cmd.AddCommand(importCmd)

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd, nil
}
