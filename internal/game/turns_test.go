// internal/game/turns_test.go
package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdvanceSimple(t *testing.T) {
	tr := TurnTracker{Index: 0, Direction: 1}
	finished := []bool{false, false, false}

	tr.Advance(finished, 0)
	assert.Equal(t, 1, tr.Index)

	tr.Advance(finished, 1)
	assert.Equal(t, 0, tr.Index, "one skip moves two seats with wraparound")
}

func TestAdvanceCounterClockwise(t *testing.T) {
	tr := TurnTracker{Index: 0, Direction: 1}
	tr.Reverse()
	assert.Equal(t, -1, tr.Direction)

	finished := []bool{false, false, false}
	tr.Advance(finished, 0)
	assert.Equal(t, 2, tr.Index)
}

func TestAdvanceStepsOverFinishedPlayers(t *testing.T) {
	tr := TurnTracker{Index: 0, Direction: 1}
	finished := []bool{false, true, true, false}

	tr.Advance(finished, 0)
	assert.Equal(t, 3, tr.Index, "finished seats do not consume a step")

	tr.Advance(finished, 1)
	assert.Equal(t, 3, tr.Index, "skipping one active player wraps past the finished ones")
}

func TestCompactAfterRemoval(t *testing.T) {
	tr := TurnTracker{Index: 2, Direction: 1}
	tr.CompactAfterRemoval(0, 2) // seat before the index left
	assert.Equal(t, 1, tr.Index)

	tr = TurnTracker{Index: 1, Direction: 1}
	tr.CompactAfterRemoval(2, 2) // seat after the index left
	assert.Equal(t, 1, tr.Index)

	tr = TurnTracker{Index: 2, Direction: 1}
	tr.CompactAfterRemoval(2, 2) // the last seat itself left
	assert.Equal(t, 0, tr.Index, "index past the new end wraps to seat 0")
}

func TestAdvanceNoActivePlayersIsNoop(t *testing.T) {
	tr := TurnTracker{Index: 1, Direction: 1}
	tr.Advance([]bool{true, true, true}, 0)
	assert.Equal(t, 1, tr.Index)

	tr.Advance(nil, 0)
	assert.Equal(t, 1, tr.Index)
}
