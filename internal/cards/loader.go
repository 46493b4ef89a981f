// Package cards loads prompt and answer sets from YAML or JSON files, or from the
// starter set compiled into the binary.
package cards

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jason-s-yu/blanks/internal/models"
	"gopkg.in/yaml.v3"
)

var (
	// ErrEmptyCard is returned when a card has no content.
	ErrEmptyCard = errors.New("cards: card has no content")
	// ErrFormat is returned for a file extension the loader does not understand.
	ErrFormat = errors.New("cards: unsupported file format")
)

//go:embed assets/*.yaml
var assets embed.FS

// Set is a loaded pair of card lists.
type Set struct {
	Prompts []models.Prompt
	Answers []models.Answer
}

// card is one list entry. Entries are either a bare string or an object with a
// content field and, for prompts, n_answers.
type card struct {
	Content string `json:"content" yaml:"content"`
	Answers int    `json:"n_answers" yaml:"n_answers"`
}

func (c *card) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&c.Content)
	}
	type plain card
	return node.Decode((*plain)(c))
}

func (c *card) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &c.Content)
	}
	type plain card
	return json.Unmarshal(data, (*plain)(c))
}

type format int

const (
	formatYAML format = iota
	formatJSON
)

func formatOf(path string) (format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatYAML, nil
	case ".json":
		return formatJSON, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrFormat, path)
}

func decode(data []byte, f format) ([]card, error) {
	var list []card
	var err error
	switch f {
	case formatJSON:
		err = json.Unmarshal(data, &list)
	default:
		err = yaml.Unmarshal(data, &list)
	}
	if err != nil {
		return nil, err
	}
	for i := range list {
		list[i].Content = strings.TrimSpace(list[i].Content)
		if list[i].Content == "" {
			return nil, fmt.Errorf("%w: entry %d", ErrEmptyCard, i)
		}
	}
	return list, nil
}

func readCards(path string) ([]card, error) {
	f, err := formatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	list, err := decode(data, f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return list, nil
}

func toPrompts(list []card) ([]models.Prompt, int) {
	seen := make(map[string]bool, len(list))
	out := make([]models.Prompt, 0, len(list))
	for _, c := range list {
		if seen[c.Content] {
			continue
		}
		seen[c.Content] = true
		n := c.Answers
		if n < 1 {
			n = 1
		}
		out = append(out, models.Prompt{Content: c.Content, Answers: n})
	}
	return out, len(list) - len(out)
}

func toAnswers(list []card) ([]models.Answer, int) {
	seen := make(map[string]bool, len(list))
	out := make([]models.Answer, 0, len(list))
	for _, c := range list {
		if seen[c.Content] {
			continue
		}
		seen[c.Content] = true
		out = append(out, models.Answer{Content: c.Content})
	}
	return out, len(list) - len(out)
}

// LoadPrompts reads a prompt list. It returns the prompts and how many duplicates
// were dropped.
func LoadPrompts(path string) ([]models.Prompt, int, error) {
	list, err := readCards(path)
	if err != nil {
		return nil, 0, err
	}
	prompts, dropped := toPrompts(list)
	return prompts, dropped, nil
}

// LoadAnswers reads an answer list. It returns the answers and how many duplicates
// were dropped.
func LoadAnswers(path string) ([]models.Answer, int, error) {
	list, err := readCards(path)
	if err != nil {
		return nil, 0, err
	}
	answers, dropped := toAnswers(list)
	return answers, dropped, nil
}

// Default returns the starter set compiled into the binary.
func Default() (Set, error) {
	var set Set
	data, err := assets.ReadFile("assets/prompts.yaml")
	if err != nil {
		return set, err
	}
	list, err := decode(data, formatYAML)
	if err != nil {
		return set, fmt.Errorf("embedded prompts: %w", err)
	}
	set.Prompts, _ = toPrompts(list)

	data, err = assets.ReadFile("assets/answers.yaml")
	if err != nil {
		return set, err
	}
	list, err = decode(data, formatYAML)
	if err != nil {
		return set, fmt.Errorf("embedded answers: %w", err)
	}
	set.Answers, _ = toAnswers(list)
	return set, nil
}

// Expand returns a copy of the set with every prompt's blanks widened.
func (s Set) Expand(width int) (Set, error) {
	out := Set{
		Prompts: make([]models.Prompt, len(s.Prompts)),
		Answers: s.Answers,
	}
	for i, p := range s.Prompts {
		content, err := ExpandBlanks(p.Content, width)
		if err != nil {
			return Set{}, err
		}
		out.Prompts[i] = models.Prompt{Content: content, Answers: p.Answers}
	}
	return out, nil
}
