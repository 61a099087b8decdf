package sse

import (
	"context"
	"log"
	"os"
	"sync"

	"github.com/aaronzipp/witness/internal/game"
	"github.com/aaronzipp/witness/internal/models"
)

var debug bool

func init() {
	debug = os.Getenv("DEBUG") != ""
}

// Hub fans private chat messages out to each participant's open connections
// and keeps a short backlog so a reconnecting client sees recent history.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[chan models.ChatMessage]struct{} // participantID -> connections
	backlog map[string][]models.ChatMessage
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[chan models.ChatMessage]struct{}),
		backlog: make(map[string][]models.ChatMessage),
	}
}

// AddClient registers a connection for a participant and returns the backlog to replay
func (h *Hub) AddClient(participantID string, client chan models.ChatMessage) []models.ChatMessage {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Warn if the same participant has multiple connections
	if dup := len(h.clients[participantID]); dup > 0 {
		log.Printf("WARN: participant %s opened %d additional connection(s)", participantID, dup)
	}
	if h.clients[participantID] == nil {
		h.clients[participantID] = make(map[chan models.ChatMessage]struct{})
	}
	h.clients[participantID][client] = struct{}{}
	return append([]models.ChatMessage(nil), h.backlog[participantID]...)
}

// RemoveClient unregisters a connection
func (h *Hub) RemoveClient(participantID string, client chan models.ChatMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients[participantID], client)
	if len(h.clients[participantID]) == 0 {
		delete(h.clients, participantID)
	}
	if debug {
		log.Printf("RemoveClient: client removed, %d participants connected", len(h.clients))
	}
}

// Forget drops a participant's backlog
func (h *Hub) Forget(participantID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.backlog, participantID)
}

// Send delivers text to every connection of recipientID without blocking.
// A connection whose buffer is full misses the message; it stays in the
// backlog and is replayed when the participant reconnects.
func (h *Hub) Send(ctx context.Context, recipientID, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := models.ChatMessage{Event: EventMessage, Data: text}

	h.mu.Lock()
	backlog := append(h.backlog[recipientID], msg)
	if len(backlog) > game.BacklogSize {
		backlog = backlog[len(backlog)-game.BacklogSize:]
	}
	h.backlog[recipientID] = backlog
	clients := make([]chan models.ChatMessage, 0, len(h.clients[recipientID]))
	for client := range h.clients[recipientID] {
		clients = append(clients, client)
	}
	h.mu.Unlock()

	// Send messages WITHOUT holding the lock
	for _, client := range clients {
		select {
		case client <- msg:
		default:
			log.Printf("WARN: Send: buffer full for %s, message kept in backlog", recipientID)
		}
	}
	return nil
}

// ClientCount returns the number of open connections
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, conns := range h.clients {
		n += len(conns)
	}
	return n
}
