// internal/database/cards.go
package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jason-s-yu/blanks/internal/cards"
	"github.com/jason-s-yu/blanks/internal/models"
)

// LoadCardSets reads every prompt and answer. Prompts with a non-positive n_answers
// count as single-answer prompts.
func LoadCardSets(ctx context.Context, q Querier) (cards.Set, error) {
	var set cards.Set

	rows, err := q.Query(ctx, `SELECT content, n_answers FROM prompts ORDER BY id`)
	if err != nil {
		return set, fmt.Errorf("querying prompts: %w", err)
	}
	set.Prompts, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Prompt, error) {
		var p models.Prompt
		if err := row.Scan(&p.Content, &p.Answers); err != nil {
			return p, err
		}
		p.Content = strings.TrimSpace(p.Content)
		if p.Answers < 1 {
			p.Answers = 1
		}
		return p, nil
	})
	if err != nil {
		return set, fmt.Errorf("reading prompts: %w", err)
	}

	rows, err = q.Query(ctx, `SELECT content FROM answers ORDER BY id`)
	if err != nil {
		return set, fmt.Errorf("querying answers: %w", err)
	}
	set.Answers, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Answer, error) {
		var a models.Answer
		err := row.Scan(&a.Content)
		a.Content = strings.TrimSpace(a.Content)
		return a, err
	})
	if err != nil {
		return set, fmt.Errorf("reading answers: %w", err)
	}
	return set, nil
}

// ImportCardSet inserts a card set, skipping contents that are already stored.
func ImportCardSet(ctx context.Context, db TxBeginner, set cards.Set) error {
	return pgx.BeginTxFunc(ctx, db, pgx.TxOptions{}, func(tx pgx.Tx) error {
		for _, p := range set.Prompts {
			if _, err := tx.Exec(ctx,
				`INSERT INTO prompts (content, n_answers) VALUES ($1, $2) ON CONFLICT (content) DO NOTHING`,
				p.Content, p.Answers); err != nil {
				return fmt.Errorf("inserting prompt %q: %w", p.Content, err)
			}
		}
		for _, a := range set.Answers {
			if _, err := tx.Exec(ctx,
				`INSERT INTO answers (content) VALUES ($1) ON CONFLICT (content) DO NOTHING`,
				a.Content); err != nil {
				return fmt.Errorf("inserting answer %q: %w", a.Content, err)
			}
		}
		return nil
	})
}
