// internal/game/rules.go
package game

// RejectReason explains why an action was refused. The gateway never relays
// these to clients (invalid actions are silently ignored on the wire), but
// callers and tests can assert on them.
type RejectReason string

const (
	RejectNone        RejectReason = ""
	RejectNotRunning  RejectReason = "game_not_running"
	RejectNotYourTurn RejectReason = "not_your_turn"
	RejectBadIndex    RejectReason = "card_index_out_of_range"
	RejectBadColor    RejectReason = "invalid_wild_color"
	RejectMustStack   RejectReason = "must_stack_or_absorb_penalty"
	RejectNoMatch     RejectReason = "matches_neither_color_nor_value"
)

// Decision is the explicit accept/reject result of validating a play.
type Decision struct {
	Legal  bool
	Reason RejectReason
}

func accept() Decision {
	return Decision{Legal: true}
}

func reject(reason RejectReason) Decision {
	return Decision{Reason: reason}
}

// ValidatePlay decides whether card may be played on top given the active
// color and any pending draw penalty.
//
// While a penalty chain is open, only stacking cards are legal: a draw-four
// stacks on anything, a draw-two only when it matches the active color or
// sits on another draw-two. The asymmetry is deliberate; everything else,
// including otherwise-matching cards, is refused until someone absorbs the
// accumulated total.
func ValidatePlay(card, top Card, activeColor Color, pendingPenalty int) Decision {
	if pendingPenalty > 0 {
		if card.IsDrawFour() {
			return accept()
		}
		if card.IsDrawTwo() && (card.Color == activeColor || top.IsDrawTwo()) {
			return accept()
		}
		return reject(RejectMustStack)
	}

	if card.Color == activeColor || card.Value == top.Value || card.IsWild() {
		return accept()
	}
	return reject(RejectNoMatch)
}

// Effect is the state delta a successfully played card produces.
type Effect struct {
	NewColor     Color
	SkipCount    int
	PenaltyDelta int
	Reversed     bool
}

// ResolveEffect computes the effect of playing card. chosenColor is only
// consulted for wilds. activePlayers is the number of non-finished players
// at the moment of play: with exactly two, a Reverse behaves as a Skip.
func ResolveEffect(card Card, chosenColor Color, activePlayers int) Effect {
	eff := Effect{NewColor: card.Color}
	if card.IsWild() {
		eff.NewColor = chosenColor
	}

	switch {
	case card.Value == ValueReverse:
		eff.Reversed = true
		if activePlayers == 2 {
			eff.SkipCount = 1
		}
	case card.Value == ValueSkip:
		eff.SkipCount = 1
	case card.IsDrawTwo():
		eff.PenaltyDelta = 2
	case card.IsDrawFour():
		eff.PenaltyDelta = 4
	}
	return eff
}

// IsImmediatelyPlayable reports whether a freshly drawn card could legally
// follow the current top card outside of a penalty chain. Used to decide
// whether a voluntary draw opens a grace window.
func IsImmediatelyPlayable(card, top Card, activeColor Color) bool {
	return card.Color == activeColor || card.Value == top.Value || card.IsWild()
}
