package models

// PlayerID is assigned by the server on login. IDs increase monotonically and are
// never reused while the process runs.
type PlayerID uint64

type Player struct {
	ID    PlayerID `json:"id"`
	Name  string   `json:"name"`
	Hand  []Answer `json:"hand"`
	Score uint64   `json:"score"`
}

// HasCards reports whether every card in cards is currently in the player's hand.
// Each hand card can satisfy at most one entry of cards.
func (p *Player) HasCards(cards []Answer) bool {
	used := make([]bool, len(p.Hand))
outer:
	for _, want := range cards {
		for i, have := range p.Hand {
			if !used[i] && have == want {
				used[i] = true
				continue outer
			}
		}
		return false
	}
	return true
}

// RemoveCards drops every card in cards from the hand, keeping the order of the rest.
func (p *Player) RemoveCards(cards []Answer) {
	drop := make(map[Answer]bool, len(cards))
	for _, c := range cards {
		drop[c] = true
	}
	kept := p.Hand[:0]
	for _, c := range p.Hand {
		if !drop[c] {
			kept = append(kept, c)
		}
	}
	p.Hand = kept
}

// HandCopy returns a copy of the hand that is safe to hand out to a channel.
func (p *Player) HandCopy() []Answer {
	out := make([]Answer, len(p.Hand))
	copy(out, p.Hand)
	return out
}
