// internal/game/actions.go
package game

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/blanks/internal/models"
)

// Action types recorded for each session mutation.
const (
	ActionLogin           = "player_login"
	ActionSubmitAnswer    = "player_submit_answer"
	ActionStartJudging    = "round_start_judging"
	ActionSubmitJudgement = "czar_submit_judgement"
	ActionRoundStart      = "round_start"
	ActionRoundAbandoned  = "round_abandoned"
	ActionDisconnect      = "player_disconnect"
	ActionGameEnd         = "game_end"
)

// ActionRecord is one entry of the session's action log.
type ActionRecord struct {
	SessionID     uuid.UUID              `json:"session_id"`
	ActionIndex   int                    `json:"action_index"`
	ActorID       models.PlayerID        `json:"actor_id"`
	ActionType    string                 `json:"action_type"`
	ActionPayload map[string]interface{} `json:"action_payload"`
	Timestamp     int64                  `json:"timestamp"`
}

// actionQueueSize bounds the records waiting for the sink. Records beyond it are dropped.
const actionQueueSize = 256

// ActionSink receives the action log, typically a queue drained by the historian.
type ActionSink interface {
	PublishAction(ctx context.Context, rec ActionRecord) error
}

// logAction queues the action for the publisher without blocking the caller.
// Assumes the write lock is held.
func (s *Session) logAction(actor models.PlayerID, actionType string, payload map[string]interface{}) {
	s.actionIndex++
	if s.actions == nil || s.closed {
		return
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}
	rec := ActionRecord{
		SessionID:     s.ID,
		ActionIndex:   s.actionIndex,
		ActorID:       actor,
		ActionType:    actionType,
		ActionPayload: payload,
		Timestamp:     time.Now().UnixMilli(),
	}
	select {
	case s.actions <- rec:
	default:
		s.log.WithField("action", rec.ActionIndex).Warnf("Action queue full, dropping %s.", rec.ActionType)
	}
}

// publishActions hands queued records to the sink one at a time, in action order,
// until the queue is closed.
func (s *Session) publishActions() {
	defer close(s.published)
	for rec := range s.actions {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := s.sink.PublishAction(ctx, rec); err != nil {
			s.log.WithField("action", rec.ActionIndex).Warnf("Failed to publish %s: %v", rec.ActionType, err)
		}
		cancel()
	}
}
