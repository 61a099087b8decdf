package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/aaronzipp/witness/internal/game"
	"github.com/aaronzipp/witness/internal/models"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsPongTimeout  = 60 * time.Second
	wsPingInterval = 50 * time.Second
	wsMaxMessage   = 4096
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWebSocket carries a player's chat over a WebSocket: incoming text
// frames are chat messages, outgoing text frames are private messages.
func (ctx *Context) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	roomCode := roomCodeFrom(r, "/ws/")

	lobby, playerID, err := ctx.getLobbyAndPlayer(r, roomCode)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	clientChan := make(chan models.ChatMessage, game.SSEBufferSize)
	backlog := ctx.Hub.AddClient(playerID, clientChan)
	defer ctx.Hub.RemoveClient(playerID, clientChan)

	done := make(chan struct{})
	defer close(done)
	go writePump(conn, backlog, clientChan, done)

	conn.SetReadLimit(wsMaxMessage)
	conn.SetReadDeadline(time.Now().Add(wsPongTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongTimeout))
	})

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WARN: websocket read from %s: %v", playerID, err)
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		text := strings.TrimSpace(string(data))
		if text == "" {
			continue
		}
		if current, ok := ctx.LobbyStore.Get(roomCode); !ok || current != lobby {
			closeSocket(conn, "lobby closed")
			return
		}
		if err := lobby.HandleMessage(context.WithoutCancel(r.Context()), playerID, text); err != nil {
			closeSocket(conn, "lobby closed")
			return
		}
		ctx.pruneLobby(roomCode)
		if !lobby.IsMember(playerID) {
			closeSocket(conn, "left the game")
			return
		}
	}
}

func closeSocket(conn *websocket.Conn, reason string) {
	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason),
		time.Now().Add(wsWriteTimeout))
}

// writePump is the only writer of conn
func writePump(conn *websocket.Conn, backlog []models.ChatMessage, messages <-chan models.ChatMessage, done <-chan struct{}) {
	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	write := func(msgType int, data []byte) bool {
		conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteMessage(msgType, data); err != nil {
			if debug {
				log.Printf("websocket write error: %v", err)
			}
			return false
		}
		return true
	}

	for _, msg := range backlog {
		if !write(websocket.TextMessage, []byte(msg.Data)) {
			return
		}
	}
	for {
		select {
		case <-done:
			return
		case msg := <-messages:
			if !write(websocket.TextMessage, []byte(msg.Data)) {
				return
			}
		case <-ticker.C:
			if !write(websocket.PingMessage, nil) {
				return
			}
		}
	}
}
