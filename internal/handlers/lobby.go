package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/aaronzipp/witness/internal/game"
	"github.com/aaronzipp/witness/internal/models"
	"github.com/aaronzipp/witness/internal/session"
)

type lobbyResponse struct {
	Code         string                        `json:"code"`
	Registration string                        `json:"registration"`
	Phase        models.Phase                  `json:"phase,omitempty"`
	Players      []string                      `json:"players,omitempty"`
	Scores       map[string]models.PlayerScore `json:"scores,omitempty"` // keyed by name
}

// HandleCreateLobby creates a new lobby
func (ctx *Context) HandleCreateLobby(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.ParseForm()
	hostName := strings.TrimSpace(r.FormValue("name"))
	if hostName == "" {
		http.Error(w, "Name is required", http.StatusBadRequest)
		return
	}
	if ctx.MaxLobbies > 0 && ctx.LobbyStore.Len() >= ctx.MaxLobbies {
		http.Error(w, "Too many open lobbies", http.StatusServiceUnavailable)
		return
	}

	playerID := uuid.New().String()
	roomCode := game.GetUniqueRoomCode(ctx.LobbyStore)

	lobby := session.NewLobby(r.Context(), roomCode, models.User{ID: playerID, Name: hostName}, ctx.Deps)
	ctx.LobbyStore.Set(roomCode, lobby)

	log.Printf("Created lobby: code=%s host=%s", roomCode, playerID)

	setPlayerCookie(w, playerID)
	writeJSON(w, http.StatusCreated, lobbyResponse{Code: roomCode, Registration: lobby.RegistrationID})
}

// HandleJoinLobby reacts to the registration message of an existing lobby on behalf of a new player
func (ctx *Context) HandleJoinLobby(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.ParseForm()
	roomCode := strings.ToUpper(strings.TrimSpace(r.FormValue("code")))
	playerName := strings.TrimSpace(r.FormValue("name"))

	if roomCode == "" || playerName == "" {
		http.Error(w, "Room code and name are required", http.StatusBadRequest)
		return
	}

	lobby, exists := ctx.LobbyStore.Get(roomCode)
	if !exists {
		http.Error(w, "Lobby not found", http.StatusNotFound)
		return
	}

	// A returning browser keeps its identity
	playerID := uuid.New().String()
	if cookie, err := r.Cookie(playerCookie); err == nil && cookie.Value != "" {
		playerID = cookie.Value
	}

	err := lobby.HandleReaction(r.Context(), lobby.RegistrationID, models.User{ID: playerID, Name: playerName})
	switch {
	case err == nil, errors.Is(err, session.ErrAlreadyJoined):
	case errors.Is(err, session.ErrGameStarted):
		http.Error(w, "Game in progress", http.StatusConflict)
		return
	case errors.Is(err, session.ErrNameTaken):
		http.Error(w, "Name already taken", http.StatusConflict)
		return
	case errors.Is(err, session.ErrLobbyFull):
		http.Error(w, "Lobby is full", http.StatusConflict)
		return
	case errors.Is(err, session.ErrLobbyClosed):
		http.Error(w, "Lobby is closed", http.StatusGone)
		return
	default:
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	log.Printf("Player joined lobby: code=%s playerID=%s name=%s", roomCode, playerID, playerName)

	setPlayerCookie(w, playerID)
	writeJSON(w, http.StatusOK, lobbyResponse{Code: roomCode, Registration: lobby.RegistrationID})
}

// HandleLobby describes a lobby: its registration message, phase, players and scoreboard
func (ctx *Context) HandleLobby(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	roomCode := roomCodeFrom(r, "/lobby/")

	lobby, exists := ctx.LobbyStore.Get(roomCode)
	if !exists {
		http.Error(w, "Lobby not found", http.StatusNotFound)
		return
	}

	members := lobby.Members()
	scores := lobby.Scores()
	resp := lobbyResponse{
		Code:         lobby.Code,
		Registration: lobby.RegistrationID,
		Phase:        lobby.Phase(),
		Players:      make([]string, 0, len(members)),
		Scores:       make(map[string]models.PlayerScore),
	}
	for _, m := range members {
		resp.Players = append(resp.Players, m.Name)
		if s, ok := scores[m.ID]; ok {
			resp.Scores[m.Name] = s
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
