// internal/handlers/lobby_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"uno-server/internal/game"
	"uno-server/internal/middleware"
)

// ClientMessage is the single inbound wire shape. Type selects the action;
// the other fields are read per action.
type ClientMessage struct {
	Type        string     `json:"type"`
	Name        string     `json:"name,omitempty"`
	Code        string     `json:"code,omitempty"`
	CardIndex   int        `json:"cardIndex"`
	ChosenColor game.Color `json:"chosenColor,omitempty"`
}

// PlayWSHandler upgrades the connection, authenticates the player, and runs
// the read loop that routes actions to lobbies. The implicit transport-level
// disconnect at loop exit is what removes the player from their lobby.
func PlayWSHandler(logger *logrus.Logger, gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Identity must be resolved before Accept: setting the guest
		// cookie is impossible once the connection is hijacked.
		userID, err := EnsureSessionUser(w, r)
		if err != nil {
			logger.Warnf("failed to establish session for %s: %v", r.RemoteAddr, err)
			http.Error(w, "authentication failed", http.StatusForbidden)
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"uno"},
			OriginPatterns: []string{"*"}, // Adjust for production security.
		})
		if err != nil {
			logger.Warnf("websocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler finished")

		if c.Subprotocol() != "uno" {
			c.Close(BadSubprotocolError, "client must speak the uno subprotocol")
			return
		}
		middleware.LogWebSocketConnect(logger, r.RemoteAddr, r.URL.Path)

		conn := gs.register(userID)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		go writePump(ctx, c, conn, logger)

		joinedCode := readPlayerActions(ctx, c, gs, userID, logger)

		// Cleanup: the transport-level disconnect is the only leave signal.
		if joinedCode != "" {
			if l, ok := gs.Lobbies.Get(joinedCode); ok {
				l.HandleDisconnect(userID)
			}
		}
		gs.unregister(conn)
		middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, r.URL.Path, nil)
	}
}

// readPlayerActions consumes messages until the connection dies and returns
// the code of the lobby the player last joined, if any.
func readPlayerActions(ctx context.Context, c *websocket.Conn, gs *GameServer, userID uuid.UUID, logger *logrus.Logger) string {
	joined := ""

	for {
		msgType, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				logger.Infof("websocket closed normally for user %s", userID)
			} else if strings.Contains(err.Error(), "context canceled") {
				logger.Infof("websocket context canceled for user %s", userID)
			} else {
				logger.Warnf("websocket read error for user %s: %v", userID, err)
			}
			return joined
		}
		if msgType != websocket.MessageText {
			continue
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Warnf("invalid JSON from user %s: %v", userID, err)
			gs.send(userID, game.Event{Type: game.EventError, Message: "Invalid JSON format."})
			continue
		}

		logger.Debugf("action '%s' from user %s (lobby %q)", msg.Type, userID, joined)

		switch msg.Type {
		case "create_lobby":
			if joined != "" {
				gs.send(userID, game.Event{Type: game.EventError, Message: "Already in a lobby."})
				continue
			}
			l := gs.CreateLobby()
			if err := l.Join(userID, msg.Name); err != nil {
				gs.Lobbies.Remove(l.Code)
				gs.send(userID, game.Event{Type: game.EventError, Message: errorText(err)})
				continue
			}
			joined = l.Code
			gs.send(userID, game.Event{Type: game.EventLobbyCreated, Code: l.Code})

		case "join_lobby":
			if joined != "" {
				gs.send(userID, game.Event{Type: game.EventError, Message: "Already in a lobby."})
				continue
			}
			l, ok := gs.Lobbies.Get(msg.Code)
			if !ok {
				gs.send(userID, game.Event{Type: game.EventError, Message: "Lobby not found."})
				continue
			}
			if err := l.Join(userID, msg.Name); err != nil {
				gs.send(userID, game.Event{Type: game.EventError, Message: errorText(err)})
				continue
			}
			joined = l.Code
			gs.send(userID, game.Event{Type: game.EventLobbyJoined, Code: l.Code})

		case "start_game":
			l, ok := gs.resolve(msg.Code, joined)
			if !ok {
				gs.send(userID, game.Event{Type: game.EventError, Message: "Lobby not found."})
				continue
			}
			if err := l.Start(); err != nil {
				gs.send(userID, game.Event{Type: game.EventError, Message: errorText(err)})
			}

		case "play_card":
			if l, ok := gs.resolve(msg.Code, joined); ok {
				dec := l.PlayCard(userID, msg.CardIndex, msg.ChosenColor)
				if !dec.Legal {
					// Silent on the wire; nothing changed, nothing to say.
					logger.Debugf("rejected play from %s: %s", userID, dec.Reason)
				}
			}

		case "draw_card":
			if l, ok := gs.resolve(msg.Code, joined); ok {
				dec := l.DrawCard(userID)
				if !dec.Legal {
					logger.Debugf("rejected draw from %s: %s", userID, dec.Reason)
				}
			}

		case "say_uno":
			if l, ok := gs.resolve(msg.Code, joined); ok {
				l.SayUno(userID)
			}

		case "ping":
			gs.send(userID, game.Event{Type: game.EventMessage, Message: "pong"})

		default:
			logger.Warnf("unknown action type '%s' from user %s", msg.Type, userID)
			gs.send(userID, game.Event{Type: game.EventError, Message: "Unknown action type."})
		}
	}
}

// resolve prefers an explicit code in the message, falling back to the
// lobby this connection joined.
func (gs *GameServer) resolve(code, joined string) (*game.Lobby, bool) {
	if code == "" {
		code = joined
	}
	if code == "" {
		return nil, false
	}
	return gs.Lobbies.Get(code)
}

// errorText maps lobby errors to the short notices clients see.
func errorText(err error) string {
	switch err {
	case game.ErrGameInProgress:
		return "Game in progress."
	case game.ErrNameTaken:
		return "Name taken."
	case game.ErrNotEnoughPlayers:
		return "Need at least 2 players."
	default:
		return "Request failed."
	}
}

// writePump drains the connection's outbound queue onto the socket.
func writePump(ctx context.Context, c *websocket.Conn, conn *playerConn, logger *logrus.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-conn.out:
			data, err := json.Marshal(ev)
			if err != nil {
				logger.Errorf("failed to marshal %s event: %v", ev.Type, err)
				continue
			}
			writeCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err = c.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				logger.Warnf("failed to write %s event to %s: %v", ev.Type, conn.userID, err)
				return
			}
		}
	}
}
