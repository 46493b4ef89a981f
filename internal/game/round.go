// internal/game/round.go
package game

import "github.com/jason-s-yu/blanks/internal/models"

// Phase is where a round is in its lifecycle.
type Phase string

const (
	PhaseAnswering Phase = "answering"
	PhaseJudging   Phase = "judging"
)

// Round is the state of one prompt cycle. Answers only grows while answering; the
// phase flips to judging once every non-czar player has submitted.
type Round struct {
	Number  int
	Prompt  models.Prompt
	Czar    models.PlayerID
	Answers map[models.PlayerID][]models.Answer
	Phase   Phase
}

func newRound(number int, prompt models.Prompt, czar models.PlayerID) *Round {
	return &Round{
		Number:  number,
		Prompt:  prompt,
		Czar:    czar,
		Answers: make(map[models.PlayerID][]models.Answer),
		Phase:   PhaseAnswering,
	}
}

// Submitted reports whether id already has a pending submission this round.
func (r *Round) Submitted(id models.PlayerID) bool {
	_, ok := r.Answers[id]
	return ok
}

// AllAnswered reports whether every non-czar player of a roster of the given size
// has submitted.
func (r *Round) AllAnswered(rosterSize int) bool {
	return len(r.Answers) > 0 && len(r.Answers) == rosterSize-1
}

// RoleOf returns the role id plays in this round.
func (r *Round) RoleOf(id models.PlayerID) models.Role {
	if id == r.Czar {
		return models.RoleCzar
	}
	return models.RolePlayer
}

// AnswersCopy returns a deep copy of the submissions, safe to put in an event.
func (r *Round) AnswersCopy() map[models.PlayerID][]models.Answer {
	out := make(map[models.PlayerID][]models.Answer, len(r.Answers))
	for id, cards := range r.Answers {
		c := make([]models.Answer, len(cards))
		copy(c, cards)
		out[id] = c
	}
	return out
}

// newRoundEvent builds the NewRound view for one player.
func (r *Round) newRoundEvent(p *models.Player) Event {
	prompt := r.Prompt
	return Event{
		Type:   EventNewRound,
		Role:   r.RoleOf(p.ID),
		Prompt: &prompt,
		Hand:   p.HandCopy(),
	}
}
