package handlers

import (
	"log"
	"net/http"
)

// HandleCloseLobby deletes the lobby
func (ctx *Context) HandleCloseLobby(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	roomCode := roomCodeFrom(r, "/close-lobby/")

	lobby, exists := ctx.LobbyStore.Get(roomCode)
	if !exists {
		http.Error(w, "Lobby not found", http.StatusNotFound)
		return
	}

	// Get player ID from cookie
	cookie, err := r.Cookie(playerCookie)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if !lobby.IsHost(cookie.Value) {
		http.Error(w, "Only host can close lobby", http.StatusForbidden)
		return
	}

	// Announce closure before the lobby disappears
	for _, m := range lobby.Members() {
		if err := ctx.Hub.Send(r.Context(), m.ID, "The game host closed this lobby."); err != nil {
			log.Printf("WARN: close-lobby notice to %s: %v", m.ID, err)
		}
	}
	ctx.closeLobby(roomCode)

	w.WriteHeader(http.StatusNoContent)
}

// pruneLobby removes a lobby once every participant has left
func (ctx *Context) pruneLobby(roomCode string) {
	lobby, exists := ctx.LobbyStore.Get(roomCode)
	if !exists || !lobby.Empty() {
		return
	}
	log.Printf("Lobby %s is empty, removing it", roomCode)
	ctx.closeLobby(roomCode)
}

func (ctx *Context) closeLobby(roomCode string) {
	lobby, exists := ctx.LobbyStore.Get(roomCode)
	if !exists {
		return
	}
	for _, m := range lobby.Members() {
		ctx.Hub.Forget(m.ID)
	}
	ctx.LobbyStore.Delete(roomCode)
}

// Shutdown stops the timers of every open lobby
func (ctx *Context) Shutdown() {
	for _, code := range ctx.LobbyStore.Codes() {
		ctx.LobbyStore.Delete(code)
	}
}
