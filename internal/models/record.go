package models

import "time"

// Winner values stored with a finished game
const (
	WinnerCivilians = "Civilian"
	WinnerVillains  = "Villain"
	WinnerNone      = "" // ended by the host
)

// PlayerRecord is one participant's part in a finished game
type PlayerRecord struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Role    string `json:"role"`
	Villain bool   `json:"villain"`
	Won     bool   `json:"won"`
}

// GameRecord is the archived summary of a concluded game
type GameRecord struct {
	ID          string         `json:"id"`
	LobbyCode   string         `json:"lobby_code"`
	Keyword     string         `json:"keyword"`
	Winner      string         `json:"winner"`
	Questions   int            `json:"questions"`
	BannedWords []string       `json:"banned_words"`
	Players     []PlayerRecord `json:"players"`
	EndedAt     time.Time      `json:"ended_at"`
}
