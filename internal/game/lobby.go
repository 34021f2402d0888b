// internal/game/lobby.go
package game

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Errors surfaced to clients as short human-readable notices. Everything
// else (out-of-turn plays, illegal cards) is rejected silently.
var (
	ErrGameInProgress   = errors.New("game in progress")
	ErrNameTaken        = errors.New("name taken")
	ErrNotEnoughPlayers = errors.New("not enough players")
)

// DefaultGraceDuration is the draw-grace window used when no duration is
// configured.
const DefaultGraceDuration = 5 * time.Second

// RecordResultFn receives the final rank list of a finished match, e.g. to
// push it onto the historian queue.
type RecordResultFn func(code string, rankings []RankEntry)

// Lobby is one isolated match: its own deck, discard history, roster, turn
// state and grace timer. Mu serializes every operation on the lobby (joins,
// plays, draws, disconnects and timer fires) so exactly one logical thread
// of control touches its state at a time. Different lobbies proceed fully
// in parallel.
type Lobby struct {
	Code string

	Mu sync.Mutex

	Players     []*Player
	Deck        *Deck
	DiscardPile []Card

	Turns          TurnTracker
	Running        bool
	ActiveColor    Color
	PendingPenalty int
	Rankings       []RankEntry

	// GraceDuration is how long the turn holder may sit on a freshly drawn
	// playable card before the turn moves on.
	GraceDuration time.Duration

	// graceGen invalidates stale timer callbacks: the generation is bumped
	// on every exit path (play, disconnect, game end), and a firing timer
	// that observes a newer generation does nothing.
	graceTimer *time.Timer
	graceGen   int

	BroadcastFn         BroadcastFn
	BroadcastToPlayerFn BroadcastToPlayerFn
	RecordResultFn      RecordResultFn

	// OnTeardown removes the lobby from its directory. Invoked at most once.
	OnTeardown func(code string)
	tornDown   bool
}

// NewLobby builds an empty lobby ready for players to join.
func NewLobby(code string, grace time.Duration) *Lobby {
	if grace <= 0 {
		grace = DefaultGraceDuration
	}
	return &Lobby{
		Code:          code,
		Deck:          NewDeck(),
		GraceDuration: grace,
	}
}

// Join appends a new player to the roster.
func (l *Lobby) Join(playerID uuid.UUID, name string) error {
	l.Mu.Lock()
	defer l.Mu.Unlock()

	if l.Running {
		return ErrGameInProgress
	}
	for _, p := range l.Players {
		if p.Name == name {
			return ErrNameTaken
		}
	}
	l.Players = append(l.Players, &Player{ID: playerID, Name: name})
	l.broadcastPlayerList()
	return nil
}

// Start deals a fresh game: 7 cards per player in join order, then flips
// cards until a non-wild opener lands on the discard pile. A wild may never
// open; it goes back under the deck and the deck is reshuffled.
func (l *Lobby) Start() error {
	l.Mu.Lock()
	defer l.Mu.Unlock()

	if l.Running {
		return ErrGameInProgress
	}
	if len(l.Players) < 2 {
		return ErrNotEnoughPlayers
	}

	l.Deck = NewDeck()
	l.Deck.Shuffle()
	l.DiscardPile = nil
	l.Rankings = nil
	l.PendingPenalty = 0

	for _, p := range l.Players {
		p.Finished = false
		p.SaidUno = false
		p.Hand = make([]Card, 0, 7)
		for i := 0; i < 7; i++ {
			p.Hand = append(p.Hand, l.drawOne())
		}
	}

	for {
		c, err := l.Deck.Draw()
		if err != nil {
			// cannot happen with a standard deck and a sane player cap
			log.Printf("lobby %s: deck exhausted while flipping opener", l.Code)
			return err
		}
		if !c.IsWild() {
			l.DiscardPile = []Card{c}
			break
		}
		l.Deck.ReturnToBottom(c)
		l.Deck.Shuffle()
	}

	l.ActiveColor = l.top().Color
	l.Running = true
	l.Turns = TurnTracker{Index: 0, Direction: 1}

	l.broadcastState()
	return nil
}

// PlayCard validates and applies a play by the turn holder. Rejections
// mutate nothing and broadcast nothing; the returned Decision carries the
// reason for callers and tests.
func (l *Lobby) PlayCard(playerID uuid.UUID, cardIndex int, chosenColor Color) Decision {
	l.Mu.Lock()
	defer l.Mu.Unlock()

	if !l.Running {
		return reject(RejectNotRunning)
	}
	p := l.Players[l.Turns.Index]
	if p.ID != playerID {
		return reject(RejectNotYourTurn)
	}
	if cardIndex < 0 || cardIndex >= len(p.Hand) {
		return reject(RejectBadIndex)
	}
	card := p.Hand[cardIndex]
	if card.IsWild() && !IsPlayableColor(chosenColor) {
		return reject(RejectBadColor)
	}
	dec := ValidatePlay(card, l.top(), l.ActiveColor, l.PendingPenalty)
	if !dec.Legal {
		return dec
	}

	// A play during the grace window keeps the turn; the timer must die
	// before it can fire against the new state.
	l.stopGraceTimer()

	forgotUno := len(p.Hand) == 2 && !p.SaidUno

	p.Hand = append(p.Hand[:cardIndex], p.Hand[cardIndex+1:]...)
	l.DiscardPile = append(l.DiscardPile, card)
	p.SaidUno = false

	eff := ResolveEffect(card, chosenColor, l.activeCount())
	if eff.Reversed {
		l.Turns.Reverse()
	}
	l.ActiveColor = eff.NewColor
	l.PendingPenalty += eff.PenaltyDelta

	if forgotUno {
		for i := 0; i < 2; i++ {
			p.Hand = append(p.Hand, l.drawOne())
		}
		l.fireTo(p.ID, Event{Type: EventMessage, Message: "You forgot to say UNO! +2 cards penalty."})
		l.fire(Event{Type: EventMessage, Message: fmt.Sprintf("%s forgot UNO and drew 2 penalty cards.", p.Name)})
	}

	if len(p.Hand) == 0 {
		p.Finished = true
		rank := len(l.Rankings) + 1
		l.Rankings = append(l.Rankings, RankEntry{Name: p.Name, Rank: rank})
		l.fire(Event{Type: EventMessage, Message: fmt.Sprintf("%s finished rank #%d!", p.Name, rank)})

		if l.activeCount() <= 1 {
			for _, q := range l.Players {
				if !q.Finished {
					l.Rankings = append(l.Rankings, RankEntry{Name: q.Name, Rank: len(l.Rankings) + 1})
				}
			}
			l.endGame(l.Rankings)
			return dec
		}
	}

	l.Turns.Advance(l.finishedFlags(), eff.SkipCount)
	l.broadcastState()
	return dec
}

// DrawCard handles a voluntary draw by the turn holder. With a penalty
// pending the player absorbs the whole accumulated total and the turn
// passes immediately. Otherwise one card is drawn; if it is immediately
// playable the turn holder gets a grace window to drop it, else the turn
// passes.
func (l *Lobby) DrawCard(playerID uuid.UUID) Decision {
	l.Mu.Lock()
	defer l.Mu.Unlock()

	if !l.Running {
		return reject(RejectNotRunning)
	}
	p := l.Players[l.Turns.Index]
	if p.ID != playerID {
		return reject(RejectNotYourTurn)
	}

	if l.PendingPenalty > 0 {
		count := l.PendingPenalty
		for i := 0; i < count; i++ {
			p.Hand = append(p.Hand, l.drawOne())
		}
		l.PendingPenalty = 0
		l.fire(Event{Type: EventMessage, Message: fmt.Sprintf("%s took the hit! (+%d cards)", p.Name, count)})
		l.sendHand(p)
		l.Turns.Advance(l.finishedFlags(), 0)
		l.broadcastState()
		return accept()
	}

	card := l.drawOne()
	p.Hand = append(p.Hand, card)
	l.sendHand(p)

	if IsImmediatelyPlayable(card, l.top(), l.ActiveColor) {
		secs := int(l.GraceDuration / time.Second)
		l.fireTo(p.ID, Event{Type: EventMessage, Message: fmt.Sprintf("Playable! Drop it in %ds or sit out.", secs)})
		l.fireTo(p.ID, Event{Type: EventTimerStart, Seconds: secs})
		l.startGraceTimer(p.ID)
	} else {
		l.fireTo(p.ID, Event{Type: EventMessage, Message: "No luck. Next turn."})
		l.Turns.Advance(l.finishedFlags(), 0)
		l.broadcastState()
	}
	return accept()
}

// SayUno marks the player's last-card announcement. Only valid while
// holding exactly two cards; otherwise a no-op.
func (l *Lobby) SayUno(playerID uuid.UUID) {
	l.Mu.Lock()
	defer l.Mu.Unlock()

	p := l.playerByID(playerID)
	if p == nil || len(p.Hand) != 2 {
		return
	}
	p.SaidUno = true
	l.fire(Event{Type: EventMessage, Message: fmt.Sprintf("%s shouted UNO!", p.Name)})
}

// HandleDisconnect removes a player from the roster and repairs turn state.
// If the removed seat was before the current turn index, the index shifts
// down one so it keeps pointing at the same logical player. If the leaver
// held the turn, the seat that shifted into the slot takes over immediately
// with no client action required. A running game ends the moment fewer than
// two non-finished players remain.
func (l *Lobby) HandleDisconnect(playerID uuid.UUID) {
	l.Mu.Lock()
	defer l.Mu.Unlock()

	idx := -1
	for i, p := range l.Players {
		if p.ID == playerID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return
	}

	leaver := l.Players[idx]
	wasTurn := l.Running && idx == l.Turns.Index

	l.Players = append(l.Players[:idx], l.Players[idx+1:]...)

	if len(l.Players) == 0 {
		l.Running = false
		l.teardown()
		return
	}

	if !l.Running {
		l.broadcastPlayerList()
		return
	}

	if l.activeCount() < 2 {
		var survivor *Player
		for _, p := range l.Players {
			if !p.Finished {
				survivor = p
				break
			}
		}
		if survivor != nil {
			l.fire(Event{Type: EventMessage, Message: fmt.Sprintf("%s quit. %s wins by default!", leaver.Name, survivor.Name)})
			l.endGame([]RankEntry{{Name: survivor.Name, Rank: 1}})
		} else {
			l.endGame(l.Rankings)
		}
		return
	}

	l.fire(Event{Type: EventMessage, Message: fmt.Sprintf("%s disconnected.", leaver.Name)})

	l.Turns.CompactAfterRemoval(idx, len(l.Players))

	if wasTurn {
		l.stopGraceTimer()
		if l.Players[l.Turns.Index].Finished {
			l.Turns.Advance(l.finishedFlags(), 0)
		}
	}

	l.broadcastPlayerList()
	l.broadcastState()
}

// --- internal helpers; all assume Mu is held ---

func (l *Lobby) top() Card {
	return l.DiscardPile[len(l.DiscardPile)-1]
}

func (l *Lobby) playerByID(id uuid.UUID) *Player {
	for _, p := range l.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (l *Lobby) activeCount() int {
	n := 0
	for _, p := range l.Players {
		if !p.Finished {
			n++
		}
	}
	return n
}

func (l *Lobby) finishedFlags() []bool {
	flags := make([]bool, len(l.Players))
	for i, p := range l.Players {
		flags[i] = p.Finished
	}
	return flags
}

// drawOne never fails once a game has started: an empty deck reclaims the
// discard history (keeping its top card) before retrying.
func (l *Lobby) drawOne() Card {
	c, err := l.Deck.Draw()
	if err == nil {
		return c
	}
	l.DiscardPile = l.Deck.Reclaim(l.DiscardPile)
	c, err = l.Deck.Draw()
	if err != nil {
		log.Printf("lobby %s: deck still empty after reclaim, invariant violated", l.Code)
	}
	return c
}

func (l *Lobby) startGraceTimer(playerID uuid.UUID) {
	l.stopGraceTimer()
	gen := l.graceGen
	l.graceTimer = time.AfterFunc(l.GraceDuration, func() {
		l.Mu.Lock()
		defer l.Mu.Unlock()
		if gen != l.graceGen || !l.Running {
			return
		}
		cur := l.Players[l.Turns.Index]
		if cur.ID != playerID {
			return
		}
		l.fire(Event{Type: EventMessage, Message: fmt.Sprintf("%s hesitated! Next turn.", cur.Name)})
		l.Turns.Advance(l.finishedFlags(), 0)
		l.broadcastState()
	})
}

// stopGraceTimer closes the grace window. Bumping the generation makes any
// in-flight callback a no-op even if it already fired and is waiting on Mu.
func (l *Lobby) stopGraceTimer() {
	l.graceGen++
	if l.graceTimer != nil {
		l.graceTimer.Stop()
		l.graceTimer = nil
	}
}

func (l *Lobby) endGame(rankings []RankEntry) {
	l.Running = false
	l.fire(Event{Type: EventGameOver, Rankings: rankings})
	if l.RecordResultFn != nil {
		l.RecordResultFn(l.Code, rankings)
	}
	l.teardown()
}

func (l *Lobby) teardown() {
	if l.tornDown {
		return
	}
	l.tornDown = true
	l.stopGraceTimer()
	if l.OnTeardown != nil {
		l.OnTeardown(l.Code)
	}
}

func (l *Lobby) recipients() []uuid.UUID {
	ids := make([]uuid.UUID, len(l.Players))
	for i, p := range l.Players {
		ids[i] = p.ID
	}
	return ids
}

func (l *Lobby) fire(ev Event) {
	if l.BroadcastFn != nil {
		l.BroadcastFn(l.recipients(), ev)
	}
}

func (l *Lobby) fireTo(playerID uuid.UUID, ev Event) {
	if l.BroadcastToPlayerFn != nil {
		l.BroadcastToPlayerFn(playerID, ev)
	}
}

func (l *Lobby) sendHand(p *Player) {
	hand := make([]Card, len(p.Hand))
	copy(hand, p.Hand)
	l.fireTo(p.ID, Event{Type: EventYourHand, Hand: hand})
}

func (l *Lobby) broadcastPlayerList() {
	infos := make([]PlayerInfo, len(l.Players))
	for i, p := range l.Players {
		infos[i] = p.info()
	}
	l.fire(Event{Type: EventPlayerList, Players: infos})
}

func (l *Lobby) broadcastState() {
	if !l.Running || len(l.Players) == 0 {
		return
	}
	st := l.publicState()
	l.fire(Event{Type: EventGameState, State: &st})
	for _, p := range l.Players {
		l.sendHand(p)
	}
}

func (l *Lobby) publicState() PublicState {
	infos := make([]PlayerInfo, len(l.Players))
	for i, p := range l.Players {
		infos[i] = p.info()
	}
	dir := "CW"
	if l.Turns.Direction < 0 {
		dir = "CCW"
	}
	return PublicState{
		TopCard:         l.top(),
		ActiveColor:     l.ActiveColor,
		CurrentPlayerID: l.Players[l.Turns.Index].ID,
		Direction:       dir,
		PendingPenalty:  l.PendingPenalty,
		Players:         infos,
	}
}
