// Package deck implements the draw/discard container backing both the prompt and the
// answer cards of a session.
//
// Every card added to a Supply lives in exactly one of three places: the remaining
// pile (drawable), the discard pile (waiting for a reshuffle), or checked out to a
// holder outside the supply. The supply does not know who holds a checked-out card;
// callers discard by value what they were given, exactly once.
package deck

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

var (
	// ErrSupplyExhausted is returned when a draw asks for more cards than remain in
	// the remaining and discard piles combined.
	ErrSupplyExhausted = errors.New("deck: no cards left to draw")
	// ErrUnknownCard is returned when discarding a value that was never added.
	ErrUnknownCard = errors.New("deck: card not in supply")
	// ErrNotCheckedOut is returned when discarding a card that was never drawn.
	ErrNotCheckedOut = errors.New("deck: card was not drawn")
	// ErrDoubleDiscard is returned when discarding a card that is already discarded.
	ErrDoubleDiscard = errors.New("deck: card already discarded")
)

type location uint8

const (
	inDiscard location = iota
	inRemaining
	checkedOut
)

// Supply is a shuffled-draw, discard and reshuffle container. It is not safe for
// concurrent use; the owning session serializes access.
type Supply[T comparable] struct {
	cards     []T
	index     map[T]int
	where     []location
	remaining []int
	discarded []int
	rng       *rand.Rand
}

// Option configures a Supply.
type Option func(*options)

type options struct {
	rng *rand.Rand
}

// WithRand makes the supply shuffle with r, mostly so tests get a fixed order.
func WithRand(r *rand.Rand) Option {
	return func(o *options) {
		o.rng = r
	}
}

// New builds an empty supply.
func New[T comparable](opts ...Option) *Supply[T] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Supply[T]{
		index: make(map[T]int),
		rng:   o.rng,
	}
}

// Add puts a new card on the discard pile. Cards are identified by value, so adding
// a value that is already known does nothing and returns false.
func (s *Supply[T]) Add(card T) bool {
	if _, ok := s.index[card]; ok {
		return false
	}
	s.cards = append(s.cards, card)
	i := len(s.cards) - 1
	s.index[card] = i
	s.where = append(s.where, inDiscard)
	s.discarded = append(s.discarded, i)
	return true
}

// Extend adds every card and returns how many were new.
func (s *Supply[T]) Extend(cards ...T) int {
	added := 0
	for _, c := range cards {
		if s.Add(c) {
			added++
		}
	}
	return added
}

// reshuffle moves the whole discard pile into the remaining pile in random order.
func (s *Supply[T]) reshuffle() {
	s.remaining = append(s.remaining, s.discarded...)
	s.discarded = s.discarded[:0]
	s.rng.Shuffle(len(s.remaining), func(i, j int) {
		s.remaining[i], s.remaining[j] = s.remaining[j], s.remaining[i]
	})
	for _, i := range s.remaining {
		s.where[i] = inRemaining
	}
}

// Draw checks out n cards. The discard pile is reshuffled into the remaining pile
// whenever the remaining pile runs out mid-draw. If the two piles together hold fewer
// than n cards nothing is drawn and ErrSupplyExhausted is returned.
func (s *Supply[T]) Draw(n int) ([]T, error) {
	if n < 0 {
		return nil, fmt.Errorf("deck: negative draw count %d", n)
	}
	if n > len(s.remaining)+len(s.discarded) {
		return nil, fmt.Errorf("%w: want %d, have %d", ErrSupplyExhausted, n, len(s.remaining)+len(s.discarded))
	}
	out := make([]T, 0, n)
	for range n {
		if len(s.remaining) == 0 {
			s.reshuffle()
		}
		last := len(s.remaining) - 1
		i := s.remaining[last]
		s.remaining = s.remaining[:last]
		s.where[i] = checkedOut
		out = append(out, s.cards[i])
	}
	return out, nil
}

// DrawOne checks out a single card.
func (s *Supply[T]) DrawOne() (T, error) {
	cards, err := s.Draw(1)
	if err != nil {
		var zero T
		return zero, err
	}
	return cards[0], nil
}

// Discard returns checked-out cards to the discard pile. The whole batch is
// validated first; if any card is unknown, undrawn or already discarded, no card
// moves and the error names the first offender.
func (s *Supply[T]) Discard(cards ...T) error {
	seen := make(map[int]bool, len(cards))
	for _, c := range cards {
		i, ok := s.index[c]
		if !ok {
			return fmt.Errorf("%w: %v", ErrUnknownCard, c)
		}
		switch {
		case s.where[i] == inRemaining:
			return fmt.Errorf("%w: %v", ErrNotCheckedOut, c)
		case s.where[i] == inDiscard || seen[i]:
			return fmt.Errorf("%w: %v", ErrDoubleDiscard, c)
		}
		seen[i] = true
	}
	for _, c := range cards {
		i := s.index[c]
		s.where[i] = inDiscard
		s.discarded = append(s.discarded, i)
	}
	return nil
}

// Reset abandons every checked-out card: all known cards go to the discard pile and
// the remaining pile is emptied.
func (s *Supply[T]) Reset() {
	s.remaining = s.remaining[:0]
	s.discarded = s.discarded[:0]
	for i := range s.cards {
		s.where[i] = inDiscard
		s.discarded = append(s.discarded, i)
	}
}

// Len is the number of cards ever added.
func (s *Supply[T]) Len() int { return len(s.cards) }

// Remaining is the size of the drawable pile.
func (s *Supply[T]) Remaining() int { return len(s.remaining) }

// Discarded is the size of the discard pile.
func (s *Supply[T]) Discarded() int { return len(s.discarded) }

// CheckedOut is the number of cards currently held outside the supply.
func (s *Supply[T]) CheckedOut() int {
	return len(s.cards) - len(s.remaining) - len(s.discarded)
}

// Cards returns every card ever added, in insertion order.
func (s *Supply[T]) Cards() []T {
	out := make([]T, len(s.cards))
	copy(out, s.cards)
	return out
}
