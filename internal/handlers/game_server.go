// internal/handlers/game_server.go
package handlers

import (
	"context"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"uno-server/internal/cache"
	"uno-server/internal/game"
)

// outBufferSize bounds each connection's outbound queue. A client that
// cannot drain its queue loses events rather than stalling the lobby.
const outBufferSize = 32

// GameServer owns the lobby directory and the registry of live player
// connections. It is the fan-out side of the event plumbing: lobbies hand it
// recipient lists and events, and it maps player IDs to sockets.
type GameServer struct {
	Logger  *logrus.Logger
	Lobbies *game.LobbyStore
	Grace   time.Duration

	mu    sync.Mutex
	conns map[uuid.UUID]*playerConn
}

// playerConn is one live websocket, drained by its write pump.
type playerConn struct {
	userID uuid.UUID
	out    chan game.Event
}

// NewGameServer builds a gateway with an empty directory. The grace window
// duration comes from GRACE_TIMER_SEC if set.
func NewGameServer(logger *logrus.Logger) *GameServer {
	grace := game.DefaultGraceDuration
	if s := os.Getenv("GRACE_TIMER_SEC"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			grace = time.Duration(n) * time.Second
		}
	}
	return &GameServer{
		Logger:  logger,
		Lobbies: game.NewLobbyStore(),
		Grace:   grace,
		conns:   make(map[uuid.UUID]*playerConn),
	}
}

// CreateLobby allocates a lobby and wires its broadcast plumbing into this
// gateway.
func (gs *GameServer) CreateLobby() *game.Lobby {
	l := gs.Lobbies.CreateLobby(gs.Grace)
	l.BroadcastFn = gs.broadcast
	l.BroadcastToPlayerFn = gs.send
	l.RecordResultFn = gs.recordResult
	return l
}

// register adds (or replaces) the connection for a player and returns it.
func (gs *GameServer) register(userID uuid.UUID) *playerConn {
	conn := &playerConn{
		userID: userID,
		out:    make(chan game.Event, outBufferSize),
	}
	gs.mu.Lock()
	gs.conns[userID] = conn
	gs.mu.Unlock()
	return conn
}

// unregister drops a player's connection if it is still the registered one.
func (gs *GameServer) unregister(conn *playerConn) {
	gs.mu.Lock()
	if cur, ok := gs.conns[conn.userID]; ok && cur == conn {
		delete(gs.conns, conn.userID)
	}
	gs.mu.Unlock()
}

// send queues an event for one player. Called with the lobby lock held, so
// it must never block: a full queue drops the event.
func (gs *GameServer) send(playerID uuid.UUID, ev game.Event) {
	gs.mu.Lock()
	conn, ok := gs.conns[playerID]
	gs.mu.Unlock()
	if !ok {
		return
	}
	select {
	case conn.out <- ev:
	default:
		gs.Logger.Warnf("dropping %s event for slow client %s", ev.Type, playerID)
	}
}

// broadcast queues an event for every listed player.
func (gs *GameServer) broadcast(playerIDs []uuid.UUID, ev game.Event) {
	for _, id := range playerIDs {
		gs.send(id, ev)
	}
}

// recordResult pushes the final rank list onto the results queue. Fire and
// forget; Redis being down only costs the archive entry.
func (gs *GameServer) recordResult(code string, rankings []game.RankEntry) {
	record := cache.MatchResultRecord{
		LobbyCode: code,
		Rankings:  rankings,
		Timestamp: time.Now().UnixMilli(),
	}
	go func() {
		if cache.Rdb == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := cache.PublishMatchResult(ctx, record); err != nil {
			gs.Logger.Warnf("failed to publish match result for lobby %s: %v", code, err)
		}
	}()
}
