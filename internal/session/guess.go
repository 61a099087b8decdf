package session

import (
	"context"

	"github.com/aaronzipp/witness/internal/lexicon"
	"github.com/aaronzipp/witness/internal/models"
)

func enterGuess(ctx context.Context, s *Session) {
	q := s.currentQuestioner()
	s.broadcastf(ctx, "**Guess** phase! The keyword has %d word(s). `%s` has %d seconds to guess it.",
		lexicon.WordCount(s.keyword), q.Name, int(s.phase.Limit.Seconds()))
	s.send(ctx, q, "Submit your guess with `$guess <keyword>`.")
}

func handleGuess(ctx context.Context, s *Session, author *Participant, cmd command) bool {
	if cmd.name != "guess" {
		return false
	}

	want := lexicon.WordCount(s.keyword)
	if lexicon.WordCount(cmd.arg) != want {
		s.sendf(ctx, author, "Your guess must have exactly %d word(s).", want)
		return true
	}
	if lexicon.Match(cmd.arg, s.keyword) {
		s.broadcastf(ctx, "`%s` guessed **%s**, which is correct!", author.Name, cmd.arg)
		s.conclude(ctx, outcomeCivilians)
		return true
	}
	s.broadcastf(ctx, "`%s` guessed `%s`, which is wrong.", author.Name, cmd.arg)
	wrongGuess(ctx, s)
	return true
}

func wrongGuess(ctx context.Context, s *Session) {
	s.broadcastf(ctx, "The keyword was **%s**. Now find the Villains!", s.keyword)
	s.transition(ctx, models.PhaseTrial)
}
