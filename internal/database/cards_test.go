package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jason-s-yu/blanks/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRows serves canned rows through the pgx.Rows interface.
type fakeRows struct {
	rows   [][]any
	pos    int
	closed bool
}

func (r *fakeRows) Close()                                       { r.closed = true }
func (r *fakeRows) Err() error                                   { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.closed || r.pos >= len(r.rows) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Values() ([]any, error) {
	return r.rows[r.pos-1], nil
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.rows[r.pos-1]
	if len(dest) != len(row) {
		return fmt.Errorf("scan: %d destinations for %d columns", len(dest), len(row))
	}
	for i, d := range dest {
		switch d := d.(type) {
		case *string:
			*d = row[i].(string)
		case *int:
			*d = row[i].(int)
		default:
			return fmt.Errorf("scan: unsupported destination %T", d)
		}
	}
	return nil
}

// fakeQuerier answers by table name.
type fakeQuerier struct {
	tables map[string][][]any
	fail   string
}

func (q *fakeQuerier) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	for table, rows := range q.tables {
		if strings.Contains(sql, "FROM "+table) {
			if table == q.fail {
				return nil, errors.New("relation does not exist")
			}
			return &fakeRows{rows: rows}, nil
		}
	}
	return nil, fmt.Errorf("unexpected query %q", sql)
}

func TestLoadCardSets(t *testing.T) {
	q := &fakeQuerier{tables: map[string][][]any{
		"prompts": {{"_ is overrated.", 1}, {" _ and _ ", 2}, {"Zero _", 0}},
		"answers": {{"Naps"}, {" Tacos "}},
	}}
	set, err := LoadCardSets(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, []models.Prompt{
		{Content: "_ is overrated.", Answers: 1},
		{Content: "_ and _", Answers: 2},
		{Content: "Zero _", Answers: 1},
	}, set.Prompts)
	assert.Equal(t, []models.Answer{{Content: "Naps"}, {Content: "Tacos"}}, set.Answers)
}

func TestLoadCardSetsQueryError(t *testing.T) {
	q := &fakeQuerier{
		tables: map[string][][]any{"prompts": nil, "answers": nil},
		fail:   "answers",
	}
	_, err := LoadCardSets(context.Background(), q)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "querying answers")
}

func TestSchemaDeclaresTables(t *testing.T) {
	for _, table := range []string{"prompts", "answers", "sessions", "session_actions"} {
		assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS "+table+" ")
	}
}
