package session

import (
	"context"

	"github.com/aaronzipp/witness/internal/game"
	"github.com/aaronzipp/witness/internal/render"
)

func enterTrial(ctx context.Context, s *Session) {
	s.phase.votes = make(map[string]string, len(s.roster))
	names := make([]string, len(s.roster))
	for i, p := range s.roster {
		names[i] = p.Name
	}
	s.broadcast(ctx, render.Ballot(names, s.phase.Limit))
}

// castVote records a bare display name as the author's vote. Anything else is ignored.
func castVote(ctx context.Context, s *Session, author *Participant, text string) {
	suspect := s.byName(text)
	if suspect == nil || suspect == author {
		return
	}
	s.phase.votes[author.ID] = suspect.ID
	s.sendf(ctx, author, "You voted for `%s`.", suspect.Name)

	if len(s.phase.votes) == len(s.roster) {
		s.broadcast(ctx, "Everyone has voted.")
		tally(ctx, s)
	}
}

func tally(ctx context.Context, s *Session) {
	ids := make([]string, len(s.roster))
	names := make(map[string]string, len(s.roster))
	villains := make(map[string]bool)
	for i, p := range s.roster {
		ids[i] = p.ID
		names[p.ID] = p.Name
		if p.Role.IsVillain() {
			villains[p.ID] = true
		}
	}

	result := game.CountVotes(s.phase.votes, ids, villains)
	s.broadcast(ctx, render.Tally(result, names))
	if result.CiviliansWon {
		s.conclude(ctx, outcomeCivilians)
	} else {
		s.conclude(ctx, outcomeVillains)
	}
}
