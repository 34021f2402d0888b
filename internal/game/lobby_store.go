// internal/game/lobby_store.go
package game

import (
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"
)

// ErrLobbyNotFound is returned when a code does not resolve to a live lobby.
var ErrLobbyNotFound = errors.New("lobby not found")

// CodeLength is the length of generated lobby codes.
const CodeLength = 6

// LobbyStore is the directory of live lobbies, keyed by code. It owns code
// generation and removal; its mutex only guards the map, never individual
// lobby state, so lookups from different lobbies' lifecycles never contend
// on game logic.
type LobbyStore struct {
	mu      sync.Mutex
	lobbies map[string]*Lobby
	rng     *rand.Rand
}

// NewLobbyStore returns an empty in-memory directory.
func NewLobbyStore() *LobbyStore {
	return &LobbyStore{
		lobbies: make(map[string]*Lobby),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateLobby allocates a fresh lobby under a new unique code and registers
// it. The lobby's teardown callback removes it from the directory again.
func (s *LobbyStore) CreateLobby(grace time.Duration) *Lobby {
	s.mu.Lock()
	defer s.mu.Unlock()

	code := s.generateCode()
	l := NewLobby(code, grace)
	l.OnTeardown = s.Remove
	s.lobbies[code] = l
	return l
}

// Get resolves a lobby code. Codes are case-insensitive.
func (s *LobbyStore) Get(code string) (*Lobby, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.lobbies[NormalizeCode(code)]
	return l, ok
}

// Remove deletes a lobby from the directory. Safe to call twice.
func (s *LobbyStore) Remove(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lobbies, NormalizeCode(code))
}

// Len reports how many lobbies are live.
func (s *LobbyStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lobbies)
}

// NormalizeCode uppercases a client-supplied lobby code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// generateCode draws random A-Z codes until one is free. Assumes s.mu held.
func (s *LobbyStore) generateCode() string {
	for {
		b := make([]byte, CodeLength)
		for i := range b {
			b[i] = 'A' + byte(s.rng.Intn(26))
		}
		code := string(b)
		if _, taken := s.lobbies[code]; !taken {
			return code
		}
	}
}
