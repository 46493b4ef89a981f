// cmd/server/import.go
package main

import (
	"errors"

	"github.com/jason-s-yu/blanks/internal/cards"
	"github.com/jason-s-yu/blanks/internal/config"
	"github.com/jason-s-yu/blanks/internal/database"
	"github.com/spf13/cobra"
)

type importConfig struct {
	databaseURL string
	prompts     string
	answers     string
}

func newImportCmd() (*cobra.Command, error) {
	cfg := &importConfig{}
	cmd := &cobra.Command{
		Use:   "import-cards",
		Short: "Creates the card tables and imports a card set into PostgreSQL.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.databaseURL == "" {
				return errors.New("--database-url is required")
			}
			if (cfg.prompts == "") != (cfg.answers == "") {
				return errors.New("both --prompts and --answers must be provided together")
			}

			set, err := cards.Default()
			if cfg.prompts != "" {
				set.Prompts, _, err = cards.LoadPrompts(cfg.prompts)
				if err == nil {
					set.Answers, _, err = cards.LoadAnswers(cfg.answers)
				}
			}
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			pool, err := database.ConnectDB(ctx, cfg.databaseURL)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := database.Migrate(ctx, pool); err != nil {
				return err
			}
			if err := database.ImportCardSet(ctx, pool, set); err != nil {
				return err
			}
			cmd.Printf("Imported %d prompts and %d answers.\n", len(set.Prompts), len(set.Answers))
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&cfg.databaseURL, "database-url", "", "PostgreSQL connection URL (env: BLANKS_DATABASE_URL)")
	fs.StringVar(&cfg.prompts, "prompts", "", "prompt file, defaults to the built-in set (env: BLANKS_PROMPTS)")
	fs.StringVar(&cfg.answers, "answers", "", "answer file, defaults to the built-in set (env: BLANKS_ANSWERS)")

	if err := config.BindEnv(fs, envPrefix); err != nil {
		return nil, err
	}
	return cmd, nil
}
