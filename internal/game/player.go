// internal/game/player.go
package game

import "github.com/google/uuid"

// Player is one seat in a lobby. ID is the stable per-connection token the
// transport layer hands us; it is unique within the lobby. Finished flips to
// true exactly once, when the hand empties. SaidUno is set by an explicit
// announce action and consumed on the player's next play.
type Player struct {
	ID       uuid.UUID
	Name     string
	Hand     []Card
	Finished bool
	SaidUno  bool
}

func (p *Player) info() PlayerInfo {
	return PlayerInfo{
		ID:        p.ID,
		Name:      p.Name,
		CardCount: len(p.Hand),
		Finished:  p.Finished,
	}
}
