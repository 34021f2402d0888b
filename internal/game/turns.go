// internal/game/turns.go
package game

// TurnTracker holds the current turn index and play direction for one lobby.
// Index is only meaningful while a game is running, and always refers to a
// non-finished player once the opening deal completes.
type TurnTracker struct {
	Index     int
	Direction int // +1 clockwise, -1 counter-clockwise
}

// Reverse flips the play direction.
func (t *TurnTracker) Reverse() {
	t.Direction = -t.Direction
}

// CompactAfterRemoval repairs Index after the seat at removedIdx left the
// roster. Seats past removedIdx shift down one, so an Index beyond the
// removed seat moves with them; an Index past the new end wraps to 0.
func (t *TurnTracker) CompactAfterRemoval(removedIdx, newLen int) {
	if removedIdx < t.Index {
		t.Index--
	}
	if t.Index >= newLen {
		t.Index = 0
	}
}

// Advance moves Index forward 1+skips steps in the current direction.
// Finished players are stepped over without consuming a step. No-op when
// every player is finished; the game should already have ended by then.
func (t *TurnTracker) Advance(finished []bool, skips int) {
	if len(finished) == 0 {
		return
	}
	active := 0
	for _, f := range finished {
		if !f {
			active++
		}
	}
	if active == 0 {
		return
	}

	steps := 1 + skips
	for steps > 0 {
		t.Index = (t.Index + t.Direction + len(finished)) % len(finished)
		if !finished[t.Index] {
			steps--
		}
	}
}
