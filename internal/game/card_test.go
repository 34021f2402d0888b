// internal/game/card_test.go
package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeckCardsComposition(t *testing.T) {
	cards := NewDeckCards()
	require.Len(t, cards, 108)

	perColor := make(map[Color]int)
	perValue := make(map[string]int)
	for _, c := range cards {
		perColor[c.Color]++
		perValue[c.Value]++
	}

	for _, col := range PlayableColors {
		assert.Equal(t, 25, perColor[col], "each color has 19 distinct faces over 25 cards")
	}
	assert.Equal(t, 8, perColor[ColorBlack])

	assert.Equal(t, 4, perValue["0"], "one zero per color")
	assert.Equal(t, 8, perValue["7"], "two of each digit 1-9 per color")
	assert.Equal(t, 8, perValue[ValueSkip])
	assert.Equal(t, 8, perValue[ValueReverse])
	assert.Equal(t, 8, perValue[ValueDraw2])
	assert.Equal(t, 4, perValue[ValueWild])
	assert.Equal(t, 4, perValue[ValueWildDraw4])
}

func TestCardPredicates(t *testing.T) {
	assert.True(t, Card{Color: ColorBlack, Value: ValueWild}.IsWild())
	assert.True(t, Card{Color: ColorBlack, Value: ValueWildDraw4}.IsWild())
	assert.True(t, Card{Color: ColorBlack, Value: ValueWildDraw4}.IsDrawFour())
	assert.False(t, Card{Color: ColorBlack, Value: ValueWild}.IsDrawFour())
	assert.True(t, Card{Color: ColorRed, Value: ValueDraw2}.IsDrawTwo())
	assert.False(t, Card{Color: ColorRed, Value: "2"}.IsDrawTwo())
}

func TestIsPlayableColor(t *testing.T) {
	for _, col := range PlayableColors {
		assert.True(t, IsPlayableColor(col))
	}
	assert.False(t, IsPlayableColor(ColorBlack))
	assert.False(t, IsPlayableColor(Color("Purple")))
	assert.False(t, IsPlayableColor(Color("")))
}
