package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/aaronzipp/witness/internal/models"
)

const memoryDSN = ":memory:"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS games (
		id TEXT PRIMARY KEY,
		lobby_code TEXT NOT NULL,
		keyword TEXT NOT NULL,
		winner TEXT NOT NULL,
		questions INTEGER NOT NULL,
		banned_words TEXT NOT NULL,
		ended_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS games_lobby_ended ON games (lobby_code, ended_at)`,
	`CREATE TABLE IF NOT EXISTS game_players (
		game_id TEXT NOT NULL REFERENCES games (id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		player_id TEXT NOT NULL,
		name TEXT NOT NULL,
		role TEXT NOT NULL,
		villain INTEGER NOT NULL,
		won INTEGER NOT NULL,
		PRIMARY KEY (game_id, position)
	)`,
}

// Archive persists concluded games in SQLite
type Archive struct {
	db *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// OpenArchive opens the archive at path, or an in-memory one for ":memory:"
func OpenArchive(path string) (*Archive, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("archive path is required")
	}
	dsn := memoryDSN
	if path != memoryDSN {
		dsn = filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if path == memoryDSN {
		// every connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	a := &Archive{db: db}
	if err := a.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return a, nil
}

func (a *Archive) migrate() error {
	for _, stmt := range schema {
		if _, err := a.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the SQLite handle
func (a *Archive) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	return a.db.Close()
}

// RecordGame stores one concluded game with its players
func (a *Archive) RecordGame(ctx context.Context, record models.GameRecord) error {
	if record.ID == "" {
		return fmt.Errorf("game id is required")
	}
	banned, err := json.Marshal(record.BannedWords)
	if err != nil {
		return fmt.Errorf("encode banned words: %w", err)
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO games (id, lobby_code, keyword, winner, questions, banned_words, ended_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.LobbyCode, record.Keyword, record.Winner, record.Questions, string(banned), toMillis(record.EndedAt),
	)
	if err != nil {
		return fmt.Errorf("insert game: %w", err)
	}
	for i, p := range record.Players {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO game_players (game_id, position, player_id, name, role, villain, won)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			record.ID, i, p.ID, p.Name, p.Role, p.Villain, p.Won,
		)
		if err != nil {
			return fmt.Errorf("insert game player: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit game: %w", err)
	}
	return nil
}

// ListGames returns the most recent games of a lobby, newest first
func (a *Archive) ListGames(ctx context.Context, lobbyCode string, limit int) ([]models.GameRecord, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT id, lobby_code, keyword, winner, questions, banned_words, ended_at
		 FROM games WHERE lobby_code = ? ORDER BY ended_at DESC, id LIMIT ?`,
		lobbyCode, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query games: %w", err)
	}
	defer rows.Close()

	var games []models.GameRecord
	for rows.Next() {
		var (
			g      models.GameRecord
			banned string
			ended  int64
		)
		if err := rows.Scan(&g.ID, &g.LobbyCode, &g.Keyword, &g.Winner, &g.Questions, &banned, &ended); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		if err := json.Unmarshal([]byte(banned), &g.BannedWords); err != nil {
			return nil, fmt.Errorf("decode banned words: %w", err)
		}
		g.EndedAt = fromMillis(ended)
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate games: %w", err)
	}

	for i := range games {
		players, err := a.players(ctx, games[i].ID)
		if err != nil {
			return nil, err
		}
		games[i].Players = players
	}
	return games, nil
}

func (a *Archive) players(ctx context.Context, gameID string) ([]models.PlayerRecord, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT player_id, name, role, villain, won FROM game_players WHERE game_id = ? ORDER BY position`,
		gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("query game players: %w", err)
	}
	defer rows.Close()

	var players []models.PlayerRecord
	for rows.Next() {
		var p models.PlayerRecord
		if err := rows.Scan(&p.ID, &p.Name, &p.Role, &p.Villain, &p.Won); err != nil {
			return nil, fmt.Errorf("scan game player: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}
