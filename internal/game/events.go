// internal/game/events.go
package game

import "github.com/google/uuid"

// EventType tags outbound messages fanned out by the gateway.
type EventType string

const (
	EventLobbyCreated EventType = "lobby_created"
	EventLobbyJoined  EventType = "lobby_joined"
	EventError        EventType = "error"
	EventPlayerList   EventType = "player_list"
	EventGameState    EventType = "game_state"
	EventYourHand     EventType = "your_hand"
	EventTimerStart   EventType = "timer_start"
	EventMessage      EventType = "message"
	EventGameOver     EventType = "game_over"
)

// PlayerInfo is the public roster entry: no hand contents, only the count.
type PlayerInfo struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CardCount int       `json:"cardCount"`
	Finished  bool      `json:"finished"`
}

// PublicState is broadcast to the whole table after every accepted action.
type PublicState struct {
	TopCard         Card         `json:"topCard"`
	ActiveColor     Color        `json:"activeColor"`
	CurrentPlayerID uuid.UUID    `json:"currentPlayer"`
	Direction       string       `json:"direction"` // "CW" or "CCW"
	PendingPenalty  int          `json:"pendingPenalty"`
	Players         []PlayerInfo `json:"players"`
}

// RankEntry records one finish position.
type RankEntry struct {
	Name string `json:"name"`
	Rank int    `json:"rank"`
}

// Event is the single wire shape for everything the server pushes. Unused
// fields are omitted per event type.
type Event struct {
	Type     EventType    `json:"type"`
	Code     string       `json:"code,omitempty"`
	Message  string       `json:"message,omitempty"`
	Players  []PlayerInfo `json:"players,omitempty"`
	State    *PublicState `json:"state,omitempty"`
	Hand     []Card       `json:"hand,omitempty"`
	Seconds  int          `json:"seconds,omitempty"`
	Rankings []RankEntry  `json:"rankings,omitempty"`
}

// BroadcastFn fans an event out to the given players. BroadcastToPlayerFn
// targets a single player (private hands, personal notices). Both are
// injected by the gateway; a nil fn drops the event, which keeps the core
// usable headless in tests.
type (
	BroadcastFn         func(playerIDs []uuid.UUID, ev Event)
	BroadcastToPlayerFn func(playerID uuid.UUID, ev Event)
)
