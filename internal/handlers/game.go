package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
)

// HandleMessage forwards a chat message from the cookie's player to their lobby
func (ctx *Context) HandleMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	roomCode := roomCodeFrom(r, "/message/")

	lobby, playerID, err := ctx.getLobbyAndPlayer(r, roomCode)
	if err != nil {
		if debug {
			log.Printf("HandleMessage: rejected for room %s: %v", roomCode, err)
		}
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	r.ParseForm()
	text := strings.TrimSpace(r.FormValue("text"))
	if text == "" {
		http.Error(w, "Text is required", http.StatusBadRequest)
		return
	}

	if debug {
		log.Printf("HandleMessage: room=%s player=%s text=%q", roomCode, playerID, text)
	}
	// A game action outlives an aborted request
	if err := lobby.HandleMessage(context.WithoutCancel(r.Context()), playerID, text); err != nil {
		http.Error(w, "Lobby is closed", http.StatusGone)
		return
	}
	ctx.pruneLobby(roomCode)

	w.WriteHeader(http.StatusNoContent)
}
