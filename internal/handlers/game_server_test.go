// internal/handlers/game_server_test.go
package handlers

import (
	"io"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uno-server/internal/auth"
	"uno-server/internal/game"
)

func TestMain(m *testing.M) {
	auth.Init()
	os.Exit(m.Run())
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestRegisterAndSend(t *testing.T) {
	gs := NewGameServer(quietLogger())
	id := uuid.New()
	conn := gs.register(id)

	ev := game.Event{Type: game.EventMessage, Message: "pong"}
	gs.send(id, ev)

	select {
	case got := <-conn.out:
		assert.Equal(t, ev, got)
	default:
		t.Fatal("event was not queued")
	}
}

func TestSendToUnknownPlayerIsDropped(t *testing.T) {
	gs := NewGameServer(quietLogger())
	gs.send(uuid.New(), game.Event{Type: game.EventMessage})
}

// send runs under the lobby lock, so a slow client must cost events, never
// block the lobby.
func TestSendDropsWhenQueueIsFull(t *testing.T) {
	gs := NewGameServer(quietLogger())
	id := uuid.New()
	conn := gs.register(id)

	for i := 0; i < outBufferSize+5; i++ {
		gs.send(id, game.Event{Type: game.EventMessage})
	}
	assert.Len(t, conn.out, outBufferSize)
}

func TestReconnectReplacesConnection(t *testing.T) {
	gs := NewGameServer(quietLogger())
	id := uuid.New()
	old := gs.register(id)
	fresh := gs.register(id)

	gs.send(id, game.Event{Type: game.EventMessage})
	assert.Empty(t, old.out, "the stale connection no longer receives")
	assert.Len(t, fresh.out, 1)

	// The stale connection's cleanup must not evict the live one.
	gs.unregister(old)
	gs.send(id, game.Event{Type: game.EventMessage})
	assert.Len(t, fresh.out, 2)

	gs.unregister(fresh)
	gs.send(id, game.Event{Type: game.EventMessage})
	assert.Len(t, fresh.out, 2)
}

func TestBroadcastReachesAllListedPlayers(t *testing.T) {
	gs := NewGameServer(quietLogger())
	a := gs.register(uuid.New())
	b := gs.register(uuid.New())
	c := gs.register(uuid.New())

	gs.broadcast([]uuid.UUID{a.userID, b.userID}, game.Event{Type: game.EventPlayerList})

	assert.Len(t, a.out, 1)
	assert.Len(t, b.out, 1)
	assert.Empty(t, c.out)
}

func TestCreateLobbyWiresGateway(t *testing.T) {
	gs := NewGameServer(quietLogger())
	l := gs.CreateLobby()

	assert.NotNil(t, l.BroadcastFn)
	assert.NotNil(t, l.BroadcastToPlayerFn)
	assert.NotNil(t, l.RecordResultFn)

	got, ok := gs.Lobbies.Get(l.Code)
	require.True(t, ok)
	assert.Same(t, l, got)

	// Lobby events reach registered players through the gateway.
	id := uuid.New()
	conn := gs.register(id)
	require.NoError(t, l.Join(id, "ana"))
	require.NotEmpty(t, conn.out)
	ev := <-conn.out
	assert.Equal(t, game.EventPlayerList, ev.Type)
}

func TestGraceDurationFromEnv(t *testing.T) {
	t.Setenv("GRACE_TIMER_SEC", "9")
	gs := NewGameServer(quietLogger())
	assert.Equal(t, 9*time.Second, gs.Grace)

	t.Setenv("GRACE_TIMER_SEC", "junk")
	gs = NewGameServer(quietLogger())
	assert.Equal(t, game.DefaultGraceDuration, gs.Grace)
}

func TestResolvePrefersExplicitCode(t *testing.T) {
	gs := NewGameServer(quietLogger())
	l1 := gs.CreateLobby()
	l2 := gs.CreateLobby()

	got, ok := gs.resolve(l1.Code, l2.Code)
	require.True(t, ok)
	assert.Same(t, l1, got)

	got, ok = gs.resolve("", l2.Code)
	require.True(t, ok)
	assert.Same(t, l2, got)

	_, ok = gs.resolve("", "")
	assert.False(t, ok)
}

func TestErrorText(t *testing.T) {
	assert.Equal(t, "Game in progress.", errorText(game.ErrGameInProgress))
	assert.Equal(t, "Name taken.", errorText(game.ErrNameTaken))
	assert.Equal(t, "Need at least 2 players.", errorText(game.ErrNotEnoughPlayers))
	assert.Equal(t, "Request failed.", errorText(game.ErrLobbyNotFound))
}
