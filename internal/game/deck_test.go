// internal/game/deck_test.go
package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestDeck builds a deck with an exact card order for deterministic tests.
func newTestDeck(cards ...Card) *Deck {
	return &Deck{
		cards: append([]Card{}, cards...),
		rng:   rand.New(rand.NewSource(1)),
	}
}

func countCards(cards []Card) map[Card]int {
	m := make(map[Card]int)
	for _, c := range cards {
		m[c]++
	}
	return m
}

func TestDrawIsLIFO(t *testing.T) {
	bottom := Card{Color: ColorRed, Value: "1"}
	top := Card{Color: ColorBlue, Value: "2"}
	d := newTestDeck(bottom, top)

	c, err := d.Draw()
	require.NoError(t, err)
	assert.Equal(t, top, c)

	c, err = d.Draw()
	require.NoError(t, err)
	assert.Equal(t, bottom, c)

	_, err = d.Draw()
	assert.ErrorIs(t, err, ErrEmptyDeck)
}

func TestShufflePreservesMultiset(t *testing.T) {
	d := NewDeck()
	before := countCards(d.cards)
	d.Shuffle()
	assert.Equal(t, before, countCards(d.cards))
	assert.Equal(t, 108, d.Len())
}

func TestReturnToBottom(t *testing.T) {
	a := Card{Color: ColorRed, Value: "1"}
	b := Card{Color: ColorBlue, Value: "2"}
	d := newTestDeck(a)
	d.ReturnToBottom(b)

	c, err := d.Draw()
	require.NoError(t, err)
	assert.Equal(t, a, c, "returned card goes under the existing one")
	c, err = d.Draw()
	require.NoError(t, err)
	assert.Equal(t, b, c)
}

func TestReclaimKeepsDiscardTop(t *testing.T) {
	d := newTestDeck()
	discard := []Card{
		{Color: ColorRed, Value: "1"},
		{Color: ColorGreen, Value: "4"},
		{Color: ColorBlue, Value: "9"},
	}
	top := discard[len(discard)-1]

	remaining := d.Reclaim(discard)

	require.Len(t, remaining, 1)
	assert.Equal(t, top, remaining[0])
	assert.Equal(t, 2, d.Len())

	counts := countCards(d.cards)
	assert.Equal(t, 1, counts[Card{Color: ColorRed, Value: "1"}])
	assert.Equal(t, 1, counts[Card{Color: ColorGreen, Value: "4"}])
	assert.Zero(t, counts[top], "top card stays on the discard pile")
}

func TestReclaimWithBareDiscardRebuildsFullDeck(t *testing.T) {
	d := newTestDeck()
	discard := []Card{{Color: ColorRed, Value: "5"}}

	remaining := d.Reclaim(discard)

	assert.Equal(t, discard, remaining, "a single-card discard pile is untouched")
	assert.Equal(t, 108, d.Len())
}
