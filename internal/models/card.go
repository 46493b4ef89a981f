// internal/models/card.go
package models

import "fmt"

// Prompt is a fill-in-the-blank card shown to every player at the start of a round.
// Answers is how many answer cards a submission must contain.
type Prompt struct {
	Content string `json:"content" yaml:"content"`
	Answers int    `json:"n_answers" yaml:"n_answers"`
}

func (p Prompt) String() string {
	if p.Answers == 1 {
		return fmt.Sprintf("%q", p.Content)
	}
	return fmt.Sprintf("%q (%d answers)", p.Content, p.Answers)
}

// Answer is a card a player holds in hand and submits to fill a prompt's blanks.
type Answer struct {
	Content string `json:"content" yaml:"content"`
}

func (a Answer) String() string {
	return fmt.Sprintf("%q", a.Content)
}

// Role tells a player what they do in the current round.
type Role string

const (
	RolePlayer Role = "player"
	RoleCzar   Role = "czar"
)
