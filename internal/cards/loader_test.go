package cards

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jason-s-yu/blanks/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadPromptsYAML(t *testing.T) {
	path := writeFile(t, "prompts.yaml", `
- "Why am I sticky? _."
- content: "_ plus _ equals trouble."
  n_answers: 2
- content: "  Padded _.  "
- "Why am I sticky? _."
`)
	prompts, dropped, err := LoadPrompts(path)
	require.NoError(t, err)
	assert.Equal(t, 1, dropped)
	assert.Equal(t, []models.Prompt{
		{Content: "Why am I sticky? _.", Answers: 1},
		{Content: "_ plus _ equals trouble.", Answers: 2},
		{Content: "Padded _.", Answers: 1},
	}, prompts)
}

func TestLoadAnswersJSON(t *testing.T) {
	path := writeFile(t, "answers.json", `["A cat", {"content": "A dog"}, "A cat", " A fish "]`)
	answers, dropped, err := LoadAnswers(path)
	require.NoError(t, err)
	assert.Equal(t, 1, dropped)
	assert.Equal(t, []models.Answer{{Content: "A cat"}, {Content: "A dog"}, {Content: "A fish"}}, answers)
}

func TestLoadPromptsJSON(t *testing.T) {
	path := writeFile(t, "prompts.JSON", `[{"content": "_ and _", "n_answers": 2}, {"content": "Just _", "n_answers": 0}]`)
	prompts, _, err := LoadPrompts(path)
	require.NoError(t, err)
	assert.Equal(t, []models.Prompt{{Content: "_ and _", Answers: 2}, {Content: "Just _", Answers: 1}}, prompts)
}

func TestLoadErrors(t *testing.T) {
	_, _, err := LoadAnswers(writeFile(t, "answers.ron", `["x"]`))
	assert.ErrorIs(t, err, ErrFormat)

	_, _, err = LoadAnswers(writeFile(t, "answers.yml", "- fine\n- \"   \"\n"))
	assert.ErrorIs(t, err, ErrEmptyCard)

	_, _, err = LoadPrompts(writeFile(t, "prompts.json", `{"not": "a list"}`))
	assert.Error(t, err)

	_, _, err = LoadPrompts(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDefault(t *testing.T) {
	set, err := Default()
	require.NoError(t, err)
	assert.NotEmpty(t, set.Prompts)
	// A full table of eight players with four cards each.
	assert.GreaterOrEqual(t, len(set.Answers), 32)

	for _, p := range set.Prompts {
		assert.GreaterOrEqual(t, p.Answers, 1, p.Content)
		assert.Equal(t, p.Answers, strings.Count(p.Content, "_"), p.Content)
	}
}

func TestExpandBlanks(t *testing.T) {
	src := "Hello _, I'm _ years old"

	out, err := ExpandBlanks(src, 1)
	require.NoError(t, err)
	assert.Equal(t, src, out)

	out, err = ExpandBlanks(src, 3)
	require.NoError(t, err)
	assert.Equal(t, "Hello ___, I'm ___ years old", out)

	out, err = ExpandBlanks("Hello world!", 3)
	require.NoError(t, err)
	assert.Equal(t, "Hello world!", out)

	_, err = ExpandBlanks(src, 0)
	assert.ErrorIs(t, err, ErrBadWidth)
}

func TestSetExpand(t *testing.T) {
	set := Set{
		Prompts: []models.Prompt{{Content: "_ and _", Answers: 2}},
		Answers: []models.Answer{{Content: "keep_underscores"}},
	}
	out, err := set.Expand(2)
	require.NoError(t, err)
	assert.Equal(t, []models.Prompt{{Content: "__ and __", Answers: 2}}, out.Prompts)
	assert.Equal(t, set.Answers, out.Answers)
	assert.Equal(t, "_ and _", set.Prompts[0].Content, "receiver left unchanged")

	_, err = set.Expand(-1)
	assert.ErrorIs(t, err, ErrBadWidth)
}
