// internal/game/events.go
package game

import (
	"errors"

	"github.com/jason-s-yu/blanks/internal/models"
)

// ErrSendFailed is returned by a ClientChannel when the peer can no longer receive.
var ErrSendFailed = errors.New("game: send failed, peer gone")

// EventType discriminates both inbound client messages and outbound events on the wire.
type EventType string

// Inbound message types.
const (
	MsgLogin           EventType = "login"
	MsgSubmitAnswer    EventType = "submit_answer"
	MsgSubmitJudgement EventType = "submit_judgement"
)

// Outbound event types.
const (
	EventLoginAccepted     EventType = "login_accepted"
	EventLoginRejected     EventType = "login_rejected"
	EventPlayerJoined      EventType = "player_joined"
	EventPlayerLeft        EventType = "player_left"
	EventNewRound          EventType = "new_round"
	EventAnswerAccepted    EventType = "answer_accepted"
	EventAnswerRejected    EventType = "answer_rejected"
	EventReadyToJudge      EventType = "ready_to_judge"
	EventJudgementRejected EventType = "judgement_rejected"
	EventRoundEnded        EventType = "round_ended"
	EventGameEnded         EventType = "game_ended"
)

// Reason strings carried by rejection events.
const (
	ReasonUsernameTaken    = "username_taken"
	ReasonGameFull         = "game_full"
	ReasonInvalidName      = "invalid_name"
	ReasonNoRound          = "no_round"
	ReasonJudging          = "judging"
	ReasonAnswering        = "answering"
	ReasonCzar             = "czar"
	ReasonNotCzar          = "not_czar"
	ReasonAlreadySubmitted = "already_submitted"
	ReasonNotInHand        = "not_in_hand"
	ReasonWrongCount       = "wrong_count"
	ReasonDuplicateCards   = "duplicate_cards"
	ReasonUnknownPlayer    = "unknown_player"
	ReasonNoSuchAnswer     = "no_such_answer"
	ReasonUnavailable      = "unavailable"
)

// ClientMessage is a message received from a client.
type ClientMessage struct {
	Type EventType `json:"type"`

	// Name is the requested username for login.
	Name string `json:"name,omitempty"`

	// Cards are the answers submitted for submit_answer.
	Cards []models.Answer `json:"cards,omitempty"`

	// Winner is the player whose answer the czar picked for submit_judgement.
	Winner models.PlayerID `json:"winner,omitempty"`
}

// Event is a message sent to one or more clients.
type Event struct {
	Type EventType `json:"type"`

	Reason   string          `json:"reason,omitempty"`
	PlayerID models.PlayerID `json:"player_id,omitempty"`
	Name     string          `json:"name,omitempty"`

	// NewRound view.
	Role   models.Role     `json:"role,omitempty"`
	Prompt *models.Prompt  `json:"prompt,omitempty"`
	Hand   []models.Answer `json:"hand,omitempty"`

	// Answers maps each submitter to their cards. Sent when judging begins.
	Answers map[models.PlayerID][]models.Answer `json:"answers,omitempty"`

	// RoundEnded results.
	Winner         string            `json:"winner,omitempty"`
	WinningAnswers []models.Answer   `json:"winning_answers,omitempty"`
	Scores         map[string]uint64 `json:"scores,omitempty"`
}

// ClientChannel is the per-client duplex transport handed to the session.
// Send must not block; it returns ErrSendFailed when the peer is gone.
// Inbound is closed when the client disconnects.
type ClientChannel interface {
	Send(ev Event) error
	Inbound() <-chan ClientMessage
}
