package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/aaronzipp/witness/internal/models"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// HandleHistory lists the archived games of a lobby, newest first
func (ctx *Context) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	roomCode := roomCodeFrom(r, "/history/")
	if roomCode == "" {
		http.Error(w, "Invalid URL", http.StatusBadRequest)
		return
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	games := []models.GameRecord{}
	if ctx.History != nil {
		found, err := ctx.History.ListGames(r.Context(), roomCode, limit)
		if err != nil {
			log.Printf("WARN: listing games of %s: %v", roomCode, err)
			http.Error(w, "Could not load history", http.StatusInternalServerError)
			return
		}
		if found != nil {
			games = found
		}
	}
	writeJSON(w, http.StatusOK, games)
}
