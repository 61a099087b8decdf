package session

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/aaronzipp/witness/internal/models"
	"github.com/aaronzipp/witness/internal/render"
)

type outcome int

const (
	outcomeAborted outcome = iota
	outcomeCivilians
	outcomeVillains
)

// conclude reveals the game, records it and opens a fresh session in the lobby
func (s *Session) conclude(ctx context.Context, result outcome) {
	s.stopTimer()
	s.over = true
	l := s.lobby

	if result != outcomeAborted {
		s.broadcast(ctx, render.Verdict(result == outcomeCivilians))
	}

	record := s.record(result)
	s.broadcast(ctx, render.Roles(record.Players))
	s.broadcast(ctx, render.Transcript(s.witness.Transcript()))
	s.broadcast(ctx, render.BannedWords(s.keyword, record.BannedWords))

	if result != outcomeAborted {
		for _, p := range record.Players {
			score, ok := l.scores[p.ID]
			if !ok {
				score = &models.PlayerScore{}
				l.scores[p.ID] = score
			}
			if p.Won {
				score.GamesWon++
			} else {
				score.GamesLost++
			}
		}
		if board := render.Scoreboard(s.users(), l.scores); board != "" {
			s.broadcast(ctx, board)
		}
	}

	if l.deps.Archive != nil {
		if err := l.deps.Archive.RecordGame(ctx, record); err != nil {
			log.Printf("WARN: lobby %s: archiving game failed: %v", l.Code, err)
		}
	}
	log.Printf("Lobby %s: game over, winner=%q keyword=%q", l.Code, record.Winner, s.keyword)

	s.broadcast(ctx, "Thanks for playing! A new game is starting in this lobby.")
	l.session = newSession(l, s.users(), s.settings.Clone())
	l.session.transition(ctx, models.PhaseCreation)
}

func (s *Session) record(result outcome) models.GameRecord {
	winner := models.WinnerNone
	switch result {
	case outcomeCivilians:
		winner = models.WinnerCivilians
	case outcomeVillains:
		winner = models.WinnerVillains
	}

	record := models.GameRecord{
		ID:          uuid.NewString(),
		LobbyCode:   s.lobby.Code,
		Keyword:     s.keyword,
		Winner:      winner,
		Questions:   len(s.witness.Transcript()),
		BannedWords: s.witness.BannedWords(),
		EndedAt:     s.lobby.deps.Clock.Now(),
	}
	for _, p := range s.roster {
		villain := p.Role.IsVillain()
		record.Players = append(record.Players, models.PlayerRecord{
			ID:      p.ID,
			Name:    p.Name,
			Role:    string(p.Role.Title()),
			Villain: villain,
			Won:     winner != models.WinnerNone && villain == (winner == models.WinnerVillains),
		})
	}
	return record
}
