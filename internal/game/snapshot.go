// internal/game/snapshot.go
package game

import (
	"github.com/google/uuid"
	"github.com/jason-s-yu/blanks/internal/models"
)

// SupplyStats counts where a supply's cards are.
type SupplyStats struct {
	Total      int `json:"total"`
	Remaining  int `json:"remaining"`
	Discarded  int `json:"discarded"`
	CheckedOut int `json:"checked_out"`
}

// Snapshot is a read-only summary of the session.
type Snapshot struct {
	SessionID uuid.UUID       `json:"session_id"`
	Players   []string        `json:"players"`
	Round     int             `json:"round"`
	Phase     Phase           `json:"phase,omitempty"`
	Czar      models.PlayerID `json:"czar,omitempty"`
	Submitted int             `json:"submitted"`
	Prompts   SupplyStats     `json:"prompts"`
	Answers   SupplyStats     `json:"answers"`
	Failed    string          `json:"failed,omitempty"`
	Config    Config          `json:"config"`
}

// Scores maps each connected player's name to their score.
func (s *Session) Scores() map[string]uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scores()
}

// Snapshot summarises the session for diagnostics.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		SessionID: s.ID,
		Players:   make([]string, 0, len(s.players)),
		Round:     s.rounds,
		Config:    s.cfg,
		Prompts: SupplyStats{
			Total:      s.prompts.Len(),
			Remaining:  s.prompts.Remaining(),
			Discarded:  s.prompts.Discarded(),
			CheckedOut: s.prompts.CheckedOut(),
		},
		Answers: SupplyStats{
			Total:      s.answers.Len(),
			Remaining:  s.answers.Remaining(),
			Discarded:  s.answers.Discarded(),
			CheckedOut: s.answers.CheckedOut(),
		},
	}
	for _, id := range s.ids() {
		snap.Players = append(snap.Players, s.players[id].Name)
	}
	if s.round != nil {
		snap.Phase = s.round.Phase
		snap.Czar = s.round.Czar
		snap.Submitted = len(s.round.Answers)
	}
	if s.failed != nil {
		snap.Failed = s.failed.Error()
	}
	return snap
}
