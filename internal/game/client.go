// internal/game/client.go
package game

import (
	"context"
	"errors"

	"github.com/jason-s-yu/blanks/internal/models"
)

// ServeClient pumps one client's messages into the session until the inbound stream
// closes or ctx is cancelled. A logged-in player is disconnected exactly once on exit.
func (s *Session) ServeClient(ctx context.Context, ch ClientChannel) {
	var (
		id       models.PlayerID
		loggedIn bool
	)
	defer func() {
		if loggedIn {
			s.Disconnect(id)
		}
	}()

	in := ch.Inbound()
	for {
		var (
			msg ClientMessage
			ok  bool
		)
		select {
		case <-ctx.Done():
			return
		case msg, ok = <-in:
			if !ok {
				return
			}
		}
		// A closed context wins over anything still queued.
		if ctx.Err() != nil {
			return
		}

		log := s.log.WithField("msg", msg.Type)
		if loggedIn {
			log = log.WithField("player", id)
		}

		var err error
		switch msg.Type {
		case MsgLogin:
			if loggedIn {
				log.Warn("Ignoring second login on the same connection.")
				continue
			}
			var newID models.PlayerID
			newID, err = s.Login(ch, msg.Name)
			if err == nil {
				id, loggedIn = newID, true
			}
		case MsgSubmitAnswer:
			if !loggedIn {
				err = s.notLoggedIn(ch, msg.Type, EventAnswerRejected)
				break
			}
			err = s.SubmitAnswer(id, msg.Cards)
		case MsgSubmitJudgement:
			if !loggedIn {
				err = s.notLoggedIn(ch, msg.Type, EventJudgementRejected)
				break
			}
			err = s.SubmitJudgement(id, msg.Winner)
		default:
			log.Warnf("Ignoring unknown message type %q.", msg.Type)
			continue
		}

		switch {
		case err == nil:
		case errors.Is(err, ErrRejected):
			log.Debugf("Request rejected: %v", err)
		default:
			log.WithError(err).Error("Request failed.")
		}
	}
}

// notLoggedIn answers a request made before login on the client's own channel.
func (s *Session) notLoggedIn(ch ClientChannel, op, ev EventType) error {
	if err := ch.Send(Event{Type: ev, Reason: ReasonUnknownPlayer}); err != nil {
		s.log.Warnf("Failed to deliver %s: %v", ev, err)
	}
	return rejected(op, ReasonUnknownPlayer)
}
