package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/aaronzipp/witness/internal/session"
)

const playerCookie = "player_id"

// getLobbyAndPlayer validates membership using session cookie
func (ctx *Context) getLobbyAndPlayer(r *http.Request, roomCode string) (*session.Lobby, string, error) {
	lobby, exists := ctx.LobbyStore.Get(roomCode)
	if !exists {
		return nil, "", fmt.Errorf("lobby not found")
	}
	cookie, err := r.Cookie(playerCookie)
	if err != nil {
		return nil, "", fmt.Errorf("no session")
	}
	playerID := cookie.Value
	if !lobby.IsMember(playerID) {
		return nil, "", fmt.Errorf("not a member")
	}
	return lobby, playerID, nil
}

// roomCodeFrom extracts the room code following prefix
func roomCodeFrom(r *http.Request, prefix string) string {
	return strings.ToUpper(strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/"))
}

func setPlayerCookie(w http.ResponseWriter, playerID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     playerCookie,
		Value:    playerID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		// Secure: true, // enable when serving over HTTPS
	})
}
