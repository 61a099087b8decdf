package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"

	"github.com/aaronzipp/witness/internal/models"
	"github.com/aaronzipp/witness/internal/session"
	"github.com/aaronzipp/witness/internal/sse"
	"github.com/aaronzipp/witness/internal/store"
)

var debug bool

func init() {
	debug = os.Getenv("DEBUG") != ""
}

// History lists archived games of a lobby
type History interface {
	ListGames(ctx context.Context, lobbyCode string, limit int) ([]models.GameRecord, error)
}

// Context holds shared application dependencies
type Context struct {
	LobbyStore *store.LobbyStore
	Hub        *sse.Hub
	History    History // nil when no archive is configured
	Deps       session.Deps
	PublicURL  string
	MaxLobbies int
}

// Routes registers every handler on a new mux
func (ctx *Context) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", ctx.HandleIndex)
	mux.HandleFunc("/create", ctx.HandleCreateLobby)
	mux.HandleFunc("/join", ctx.HandleJoinLobby)
	mux.HandleFunc("/lobby/", ctx.HandleLobby)
	mux.HandleFunc("/message/", ctx.HandleMessage)
	mux.HandleFunc("/close-lobby/", ctx.HandleCloseLobby)
	mux.HandleFunc("/sse/", ctx.HandleSSE)
	mux.HandleFunc("/ws/", ctx.HandleWebSocket)
	mux.HandleFunc("/qr/", ctx.HandleQR)
	mux.HandleFunc("/history/", ctx.HandleHistory)
	return mux
}

// HandleIndex reports server status
func (ctx *Context) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{
		"lobbies": ctx.LobbyStore.Len(),
		"clients": ctx.Hub.ClientCount(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("WARN: encoding response: %v", err)
	}
}
