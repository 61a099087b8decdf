package handlers

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/aaronzipp/witness/internal/game"
	"github.com/aaronzipp/witness/internal/models"
	"github.com/aaronzipp/witness/internal/sse"
)

// writeEvent writes one SSE frame. Multi-line data gets one data field per line.
func writeEvent(w io.Writer, event, data string) {
	fmt.Fprintf(w, "event: %s\n", event)
	for _, line := range strings.Split(data, "\n") {
		fmt.Fprintf(w, "data: %s\n", line)
	}
	fmt.Fprint(w, "\n")
}

// HandleSSE streams a player's private channel as Server-Sent Events
func (ctx *Context) HandleSSE(w http.ResponseWriter, r *http.Request) {
	if debug {
		log.Printf("handleSSE called: %s", r.URL.Path)
	}

	roomCode := roomCodeFrom(r, "/sse/")

	// Set headers for SSE
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable buffering in nginx/proxies

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	_, playerID, err := ctx.getLobbyAndPlayer(r, roomCode)
	if err != nil {
		if debug {
			log.Printf("handleSSE: room %s rejected: %v", roomCode, err)
		}
		writeEvent(w, sse.EventErrorMessage, err.Error())
		flusher.Flush()
		return
	}

	// Create client channel and replay recent history
	clientChan := make(chan models.ChatMessage, game.SSEBufferSize)
	backlog := ctx.Hub.AddClient(playerID, clientChan)
	defer ctx.Hub.RemoveClient(playerID, clientChan)

	if debug {
		log.Printf("handleSSE: client %s connected, now have %d total clients", playerID, ctx.Hub.ClientCount())
	}
	for _, msg := range backlog {
		writeEvent(w, msg.Event, msg.Data)
	}
	flusher.Flush()

	// Listen for updates
	reqCtx := r.Context()
	for {
		select {
		case <-reqCtx.Done():
			log.Printf("handleSSE: client %s disconnected", playerID)
			return
		case msg := <-clientChan:
			if debug {
				log.Printf("handleSSE: sending event=%s to player %s", msg.Event, playerID)
			}
			writeEvent(w, msg.Event, msg.Data)
			flusher.Flush()
		}
	}
}
