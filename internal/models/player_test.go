package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func answers(contents ...string) []Answer {
	out := make([]Answer, len(contents))
	for i, c := range contents {
		out[i] = Answer{Content: c}
	}
	return out
}

func TestHasCards(t *testing.T) {
	p := &Player{Hand: answers("a", "b", "c")}
	assert.True(t, p.HasCards(answers("a")))
	assert.True(t, p.HasCards(answers("c", "a")))
	assert.True(t, p.HasCards(nil))
	assert.False(t, p.HasCards(answers("d")))
	assert.False(t, p.HasCards(answers("a", "a")), "each hand card counts once")
}

func TestRemoveCards(t *testing.T) {
	p := &Player{Hand: answers("a", "b", "c", "d")}
	p.RemoveCards(answers("c", "a"))
	assert.Equal(t, answers("b", "d"), p.Hand)
}

func TestHandCopy(t *testing.T) {
	p := &Player{Hand: answers("a", "b")}
	c := p.HandCopy()
	c[0] = Answer{Content: "z"}
	assert.Equal(t, answers("a", "b"), p.Hand)
}

func TestPromptString(t *testing.T) {
	assert.Equal(t, `"Why _?"`, Prompt{Content: "Why _?", Answers: 1}.String())
	assert.Equal(t, `"_ and _" (2 answers)`, Prompt{Content: "_ and _", Answers: 2}.String())
}
