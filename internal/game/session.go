// internal/game/session.go
package game

import (
	"fmt"
	"math/rand"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jason-s-yu/blanks/internal/deck"
	"github.com/jason-s-yu/blanks/internal/models"
	"github.com/sirupsen/logrus"
)

// Session is the single shared game: both card supplies, the roster, the outbox of
// client channels and the current round. Every mutation takes the write lock for its
// whole duration; queries take the read lock.
type Session struct {
	ID  uuid.UUID
	cfg Config

	mu      sync.RWMutex
	prompts *deck.Supply[models.Prompt]
	answers *deck.Supply[models.Answer]
	players map[models.PlayerID]*models.Player
	clients map[models.PlayerID]ClientChannel
	round   *Round

	// lastCzar is the czar of the most recent round, kept when that czar leaves so
	// the rotation carries on from their id. Cleared when a game ends.
	lastCzar *models.PlayerID
	lastID   models.PlayerID
	rounds   int
	failed   error

	log         logrus.FieldLogger
	sink        ActionSink
	actionIndex int
	actions     chan ActionRecord
	published   chan struct{}
	closed      bool
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger. The session adds its own "session" field.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Session) {
		s.log = l
	}
}

// WithActionSink sets where the action log is published.
func WithActionSink(sink ActionSink) Option {
	return func(s *Session) {
		s.sink = sink
	}
}

// WithRand makes both supplies shuffle with r.
func WithRand(r *rand.Rand) Option {
	return func(s *Session) {
		s.prompts = deck.New[models.Prompt](deck.WithRand(r))
		s.answers = deck.New[models.Answer](deck.WithRand(r))
	}
}

// NewSession builds a session over the given card sets. The answer set must be able
// to fill every hand of a full table.
func NewSession(cfg Config, prompts []models.Prompt, answers []models.Answer, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Session{
		ID:      uuid.New(),
		cfg:     cfg,
		prompts: deck.New[models.Prompt](),
		answers: deck.New[models.Answer](),
		players: make(map[models.PlayerID]*models.Player),
		clients: make(map[models.PlayerID]ClientChannel),
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithField("session", s.ID)

	for _, p := range prompts {
		if p.Answers < 1 {
			p.Answers = 1
		}
		s.prompts.Add(p)
	}
	s.answers.Extend(answers...)

	if s.prompts.Len() < 1 {
		return nil, fmt.Errorf("%w: need at least one prompt", ErrNotEnoughCards)
	}
	if need := cfg.MaxPlayers * cfg.HandSize; s.answers.Len() < need {
		return nil, fmt.Errorf("%w: %d players with %d cards each need %d answers, have %d",
			ErrNotEnoughCards, cfg.MaxPlayers, cfg.HandSize, need, s.answers.Len())
	}
	if s.sink != nil {
		s.actions = make(chan ActionRecord, actionQueueSize)
		s.published = make(chan struct{})
		go s.publishActions()
	}
	s.log.Infof("Session created with %d prompts and %d answers.", s.prompts.Len(), s.answers.Len())
	return s, nil
}

// Close stops the action log and waits until every queued record has been handed to
// the sink. The session keeps serving without a log afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.actions == nil {
		s.mu.Unlock()
		return
	}
	close(s.actions)
	s.mu.Unlock()
	<-s.published
}

// checkFailed returns ErrSessionFailed once an invariant has been broken.
// Assumes the lock is held.
func (s *Session) checkFailed() error {
	if s.failed != nil {
		return fmt.Errorf("%w: %w", ErrSessionFailed, s.failed)
	}
	return nil
}

// fail marks the session failed. Assumes the write lock is held.
func (s *Session) fail(err error) error {
	s.failed = err
	s.log.WithError(err).Error("Session invariant violated, refusing further mutations.")
	return fmt.Errorf("%w: %w", ErrSessionFailed, err)
}

// ids returns the roster ids in ascending order. Assumes the lock is held.
func (s *Session) ids() []models.PlayerID {
	ids := make([]models.PlayerID, 0, len(s.players))
	for id := range s.players {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// send delivers ev to one player. A failed delivery is logged and otherwise ignored.
// Assumes the lock is held.
func (s *Session) send(id models.PlayerID, ev Event) {
	ch, ok := s.clients[id]
	if !ok {
		return
	}
	if err := ch.Send(ev); err != nil {
		s.log.WithField("player", id).Warnf("Failed to deliver %s: %v", ev.Type, err)
	}
}

// broadcast delivers ev to every player except the listed ones.
// Assumes the lock is held.
func (s *Session) broadcast(ev Event, except ...models.PlayerID) {
	for _, id := range s.ids() {
		if slices.Contains(except, id) {
			continue
		}
		s.send(id, ev)
	}
}

// reject logs a protocol violation and tells the client, if it is still connected.
// Assumes the lock is held.
func (s *Session) reject(id models.PlayerID, op EventType, reason string, ev EventType) error {
	s.log.WithField("player", id).Warnf("Invalid %s: %s", op, reason)
	s.send(id, Event{Type: ev, Reason: reason})
	return rejected(op, reason)
}

// scores maps each player's name to their score. Assumes the lock is held.
func (s *Session) scores() map[string]uint64 {
	out := make(map[string]uint64, len(s.players))
	for _, p := range s.players {
		out[p.Name] = p.Score
	}
	return out
}

// startRound retires the current round, if any, and deals the next one: the next czar
// by id rotation, a new prompt, and every hand topped up to the hand size.
// Assumes the write lock is held.
func (s *Session) startRound() error {
	if len(s.players) == 0 {
		return ErrNoPlayers
	}

	if r := s.round; r != nil {
		s.round = nil
		if err := s.prompts.Discard(r.Prompt); err != nil {
			return fmt.Errorf("discarding prompt: %w", err)
		}
		for _, cards := range r.Answers {
			if err := s.answers.Discard(cards...); err != nil {
				return fmt.Errorf("discarding answers: %w", err)
			}
		}
	}

	ids := s.ids()
	czar := nextCzar(ids, s.lastCzar)

	prompt, err := s.prompts.DrawOne()
	if err != nil {
		return fmt.Errorf("drawing prompt: %w", err)
	}

	for _, id := range ids {
		p := s.players[id]
		short := s.cfg.HandSize - len(p.Hand)
		if short <= 0 {
			continue
		}
		cards, err := s.answers.Draw(short)
		if err != nil {
			return fmt.Errorf("topping up hand of player %d: %w", id, err)
		}
		p.Hand = append(p.Hand, cards...)
	}

	s.rounds++
	s.round = newRound(s.rounds, prompt, czar)
	s.lastCzar = &czar
	s.log.WithField("czar", czar).Infof("Round %d started with prompt %s among players %v.", s.rounds, prompt, ids)
	s.logAction(czar, ActionRoundStart, map[string]interface{}{"round": s.rounds, "prompt": prompt.Content})

	for _, id := range ids {
		s.send(id, s.round.newRoundEvent(s.players[id]))
	}
	return nil
}

// maybeStartJudging flips the round to judging once every non-czar player has
// submitted, and shows everyone the submissions. Assumes the write lock is held.
func (s *Session) maybeStartJudging() {
	r := s.round
	if r == nil || r.Phase != PhaseAnswering || !r.AllAnswered(len(s.players)) {
		return
	}
	r.Phase = PhaseJudging
	s.log.WithField("czar", r.Czar).Infof("Round %d: all %d answers are in, judging.", r.Number, len(r.Answers))
	s.logAction(r.Czar, ActionStartJudging, map[string]interface{}{"round": r.Number, "answers": len(r.Answers)})
	s.broadcast(Event{Type: EventReadyToJudge, Answers: r.AnswersCopy()})
}

// Login adds a player under a fresh id. It returns a *RejectionError when the game is
// full or the name is empty or already taken; the client is told why.
func (s *Session) Login(ch ClientChannel, name string) (models.PlayerID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deliver := func(reason string) {
		if err := ch.Send(Event{Type: EventLoginRejected, Reason: reason}); err != nil {
			s.log.WithField("name", name).Warnf("Failed to deliver %s: %v", EventLoginRejected, err)
		}
	}
	if err := s.checkFailed(); err != nil {
		deliver(ReasonUnavailable)
		return 0, err
	}

	refuse := func(reason string) (models.PlayerID, error) {
		s.log.WithField("name", name).Warnf("Invalid %s: %s", MsgLogin, reason)
		deliver(reason)
		return 0, rejected(MsgLogin, reason)
	}
	if len(s.players) >= s.cfg.MaxPlayers {
		return refuse(ReasonGameFull)
	}
	if strings.TrimSpace(name) == "" {
		return refuse(ReasonInvalidName)
	}
	for _, p := range s.players {
		if p.Name == name {
			return refuse(ReasonUsernameTaken)
		}
	}

	hand, err := s.answers.Draw(s.cfg.HandSize)
	if err != nil {
		return 0, s.fail(fmt.Errorf("dealing hand: %w", err))
	}

	s.lastID++
	id := s.lastID
	s.players[id] = &models.Player{ID: id, Name: name, Hand: hand}
	s.clients[id] = ch
	s.log.WithField("player", id).Infof("Player %q logged in (%d/%d).", name, len(s.players), s.cfg.MaxPlayers)
	s.logAction(id, ActionLogin, map[string]interface{}{"name": name})

	s.send(id, Event{Type: EventLoginAccepted, PlayerID: id, Name: name})
	s.broadcast(Event{Type: EventPlayerJoined, PlayerID: id, Name: name}, id)

	if len(s.players) < s.cfg.MinPlayers {
		return id, nil
	}
	switch {
	case s.round == nil:
		if err := s.startRound(); err != nil {
			return id, s.fail(err)
		}
	case s.round.Phase == PhaseAnswering:
		s.send(id, s.round.newRoundEvent(s.players[id]))
	}
	return id, nil
}

// SubmitAnswer records a player's answer cards for the current round. Invalid
// submissions are rejected without touching state.
func (s *Session) SubmitAnswer(id models.PlayerID, cards []models.Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkFailed(); err != nil {
		s.send(id, Event{Type: EventAnswerRejected, Reason: ReasonUnavailable})
		return err
	}

	rej := func(reason string) error {
		return s.reject(id, MsgSubmitAnswer, reason, EventAnswerRejected)
	}
	p, ok := s.players[id]
	if !ok {
		return rej(ReasonUnknownPlayer)
	}
	r := s.round
	switch {
	case r == nil:
		return rej(ReasonNoRound)
	case r.Phase == PhaseJudging:
		return rej(ReasonJudging)
	case r.Czar == id:
		return rej(ReasonCzar)
	case r.Submitted(id):
		return rej(ReasonAlreadySubmitted)
	case hasDuplicates(cards):
		return rej(ReasonDuplicateCards)
	case len(cards) != r.Prompt.Answers:
		return rej(ReasonWrongCount)
	case !p.HasCards(cards):
		return rej(ReasonNotInHand)
	}

	p.RemoveCards(cards)
	r.Answers[id] = slices.Clone(cards)
	s.log.WithField("player", id).Debugf("Round %d: answer %v accepted.", r.Number, cards)
	s.logAction(id, ActionSubmitAnswer, map[string]interface{}{"round": r.Number, "cards": slices.Clone(cards)})

	s.send(id, Event{Type: EventAnswerAccepted})
	s.maybeStartJudging()
	return nil
}

// SubmitJudgement awards the round to winner and deals the next round.
func (s *Session) SubmitJudgement(id models.PlayerID, winner models.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkFailed(); err != nil {
		s.send(id, Event{Type: EventJudgementRejected, Reason: ReasonUnavailable})
		return err
	}

	rej := func(reason string) error {
		return s.reject(id, MsgSubmitJudgement, reason, EventJudgementRejected)
	}
	if _, ok := s.players[id]; !ok {
		return rej(ReasonUnknownPlayer)
	}
	r := s.round
	switch {
	case r == nil:
		return rej(ReasonNoRound)
	case r.Phase != PhaseJudging:
		return rej(ReasonAnswering)
	case r.Czar != id:
		return rej(ReasonNotCzar)
	}
	winningCards, ok := r.Answers[winner]
	w, present := s.players[winner]
	if !ok || !present {
		return rej(ReasonNoSuchAnswer)
	}

	w.Score++
	s.log.WithField("czar", id).Infof("Round %d won by %q with %v.", r.Number, w.Name, winningCards)
	s.logAction(id, ActionSubmitJudgement, map[string]interface{}{"round": r.Number, "winner": winner, "score": w.Score})

	s.broadcast(Event{
		Type:           EventRoundEnded,
		Winner:         w.Name,
		WinningAnswers: slices.Clone(winningCards),
		Scores:         s.scores(),
	})

	if err := s.startRound(); err != nil {
		return s.fail(err)
	}
	return nil
}

// Disconnect removes a player and puts their cards back. Calling it again for the
// same id does nothing.
func (s *Session) Disconnect(id models.PlayerID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.clients, id)
	p, ok := s.players[id]
	if !ok {
		return
	}
	delete(s.players, id)
	s.log.WithField("player", id).Infof("Player %q left (%d remaining).", p.Name, len(s.players))
	s.logAction(id, ActionDisconnect, map[string]interface{}{"name": p.Name})
	s.broadcast(Event{Type: EventPlayerLeft, PlayerID: p.ID, Name: p.Name})

	if s.failed != nil {
		return
	}
	if err := s.disconnect(p); err != nil {
		_ = s.fail(err)
	}
}

// disconnect reconciles cards and rounds after p has left the roster.
// Assumes the write lock is held.
func (s *Session) disconnect(p *models.Player) error {
	if err := s.answers.Discard(p.Hand...); err != nil {
		return fmt.Errorf("discarding hand of player %d: %w", p.ID, err)
	}
	p.Hand = nil

	enough := len(s.players) >= s.cfg.MinPlayers
	if r := s.round; r != nil {
		cards, submitted := r.Answers[p.ID]
		if submitted {
			delete(r.Answers, p.ID)
			if err := s.answers.Discard(cards...); err != nil {
				return fmt.Errorf("discarding submission of player %d: %w", p.ID, err)
			}
		}

		switch {
		case r.Czar == p.ID:
			// The round cannot be judged: submissions go back to their owners.
			s.round = nil
			if err := s.prompts.Discard(r.Prompt); err != nil {
				return fmt.Errorf("discarding prompt: %w", err)
			}
			for pid, cards := range r.Answers {
				owner := s.players[pid]
				owner.Hand = append(owner.Hand, cards...)
			}
			s.log.WithField("czar", p.ID).Infof("Round %d abandoned, czar left.", r.Number)
			s.logAction(p.ID, ActionRoundAbandoned, map[string]interface{}{"round": r.Number})
			if enough {
				if err := s.startRound(); err != nil {
					return err
				}
			}
		case !enough:
		case r.Phase == PhaseAnswering:
			s.maybeStartJudging()
		case r.Phase == PhaseJudging && len(r.Answers) == 0:
			// Nothing left to judge.
			if err := s.startRound(); err != nil {
				return err
			}
		case r.Phase == PhaseJudging && submitted:
			s.broadcast(Event{Type: EventReadyToJudge, Answers: r.AnswersCopy()})
		}
	}

	if !enough {
		s.endGame()
	}
	return nil
}

// endGame cancels the round, abandons every circulating card and tells the remaining
// players the game is over. Hands are cleared to match the reset supplies.
// Assumes the write lock is held.
func (s *Session) endGame() {
	s.round = nil
	s.lastCzar = nil
	s.answers.Reset()
	s.prompts.Reset()
	s.log.Infof("Game ended, %d player(s) left, %d needed.", len(s.players), s.cfg.MinPlayers)
	s.logAction(0, ActionGameEnd, map[string]interface{}{"players": len(s.players)})

	s.broadcast(Event{Type: EventGameEnded})
	for _, p := range s.players {
		p.Hand = nil
	}
}

func hasDuplicates(cards []models.Answer) bool {
	seen := make(map[models.Answer]bool, len(cards))
	for _, c := range cards {
		if seen[c] {
			return true
		}
		seen[c] = true
	}
	return false
}
