// internal/game/deck.go
package game

import (
	"errors"
	"math/rand"
	"time"
)

// ErrEmptyDeck is returned by Draw on an exhausted deck. Once a game is
// running the lobby always reclaims the discard pile before retrying, so
// this surfacing to a player is an internal invariant violation.
var ErrEmptyDeck = errors.New("draw from empty deck")

// Deck is an ordered stack of cards; Draw removes from the end.
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// NewDeck returns a full, unshuffled 108-card deck with its own random source.
func NewDeck() *Deck {
	return &Deck{
		cards: NewDeckCards(),
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (d *Deck) Len() int {
	return len(d.cards)
}

// Shuffle performs a Fisher-Yates shuffle over the remaining cards.
func (d *Deck) Shuffle() {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.Intn(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes and returns the top card.
func (d *Deck) Draw() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrEmptyDeck
	}
	c := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return c, nil
}

// ReturnToBottom slides a card under the deck. Used when the opening flip
// turns up a wild, which may never start the discard pile.
func (d *Deck) ReturnToBottom(c Card) {
	d.cards = append([]Card{c}, d.cards...)
}

// Reclaim rebuilds the draw pile from the discard history, preserving only
// the current top card, and returns the remaining discard pile. If the
// discard pile holds at most one card there is nothing to reclaim, so a
// fresh full deck is shuffled in instead.
func (d *Deck) Reclaim(discard []Card) []Card {
	if len(discard) <= 1 {
		d.cards = NewDeckCards()
		d.Shuffle()
		return discard
	}
	top := discard[len(discard)-1]
	d.cards = append(d.cards, discard[:len(discard)-1]...)
	d.Shuffle()
	return []Card{top}
}
