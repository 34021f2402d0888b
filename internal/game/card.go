// internal/game/card.go
package game

// Color is one of the four playable card colors, or Black for wilds.
type Color string

const (
	ColorRed    Color = "Red"
	ColorBlue   Color = "Blue"
	ColorGreen  Color = "Green"
	ColorYellow Color = "Yellow"
	ColorBlack  Color = "Black"
)

// Card values beyond the digits "0".."9".
const (
	ValueSkip      = "Skip"
	ValueReverse   = "Reverse"
	ValueDraw2     = "Draw2"
	ValueWild      = "Wild"
	ValueWildDraw4 = "Wild Draw4"
)

// PlayableColors are the colors a wild may resolve to. Black is never a
// valid active color once a game is running.
var PlayableColors = []Color{ColorRed, ColorBlue, ColorGreen, ColorYellow}

// Card is immutable once created. Black cards are wild; Value distinguishes
// a plain wild from a wild draw-four.
type Card struct {
	Color Color  `json:"color"`
	Value string `json:"value"`
}

func (c Card) IsWild() bool {
	return c.Color == ColorBlack
}

func (c Card) IsDrawTwo() bool {
	return c.Value == ValueDraw2
}

func (c Card) IsDrawFour() bool {
	return c.Value == ValueWildDraw4
}

// IsPlayableColor reports whether col is a legal choice when resolving a wild.
func IsPlayableColor(col Color) bool {
	for _, c := range PlayableColors {
		if c == col {
			return true
		}
	}
	return false
}

// NewDeckCards builds the standard 108-card set: per color one "0", two each
// of "1".."9"/Skip/Reverse/Draw2, plus four wilds and four wild draw-fours.
func NewDeckCards() []Card {
	values := []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9", ValueSkip, ValueReverse, ValueDraw2}

	cards := make([]Card, 0, 108)
	for _, col := range PlayableColors {
		for _, v := range values {
			cards = append(cards, Card{Color: col, Value: v})
			if v != "0" {
				cards = append(cards, Card{Color: col, Value: v})
			}
		}
	}
	for i := 0; i < 4; i++ {
		cards = append(cards, Card{Color: ColorBlack, Value: ValueWild})
		cards = append(cards, Card{Color: ColorBlack, Value: ValueWildDraw4})
	}
	return cards
}
