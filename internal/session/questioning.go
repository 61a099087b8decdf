package session

import (
	"context"
	"log"
	"math"
	"unicode/utf8"

	"github.com/aaronzipp/witness/internal/game"
	"github.com/aaronzipp/witness/internal/models"
	"github.com/aaronzipp/witness/internal/render"
	"github.com/aaronzipp/witness/internal/roles"
)

func enterQuestioning(ctx context.Context, s *Session) {
	s.powers.Clear()
	// the cooldown also runs from the start of the phase
	s.phase.lastAsk = s.phase.Started
	for _, p := range s.roster {
		if hint := p.Role.Definition().Hint; hint != "" && p.Role.CanActivate() {
			s.send(ctx, p, hint)
		}
	}

	s.questioner = s.lobby.rng.Intn(len(s.roster))
	q := s.currentQuestioner()
	s.broadcastf(ctx, "**Questioning** has begun! You have %d seconds. `%s` is the first Questioner.",
		int(s.phase.Limit.Seconds()), q.Name)
	s.promptQuestioner(ctx)
}

func (s *Session) promptQuestioner(ctx context.Context) {
	s.sendf(ctx, s.currentQuestioner(),
		"You are the Questioner. Use `$ask <question>` to question the WITNESS (up to %d characters), or `$readytoguess` to skip to the Guess.",
		s.settings.Int(game.SettingQuestionCharLimit))
}

func handleQuestioning(ctx context.Context, s *Session, author *Participant, cmd command) bool {
	switch cmd.name {
	case "readytoguess":
		s.broadcastf(ctx, "`%s` is ready to guess.", author.Name)
		s.transition(ctx, models.PhaseGuess)
	case "ask":
		s.ask(ctx, author, cmd.arg)
	default:
		return false
	}
	return true
}

// ask sends a question to the WITNESS and deals the shuffled answer out to the roster
func (s *Session) ask(ctx context.Context, asker *Participant, question string) {
	if question == "" {
		s.send(ctx, asker, "Usage: `$ask <question>`")
		return
	}
	if limit := s.settings.Int(game.SettingQuestionCharLimit); utf8.RuneCountInString(question) > limit {
		s.sendf(ctx, asker, "Questions are limited to %d characters.", limit)
		return
	}
	now := s.lobby.deps.Clock.Now()
	cooldown := s.settings.Seconds(game.SettingQuestionCooldown)
	if last := s.phase.lastAsk; now.Sub(last) < cooldown {
		wait := cooldown - now.Sub(last)
		s.sendf(ctx, asker, "Please wait %d more seconds before asking another question.", int(math.Ceil(wait.Seconds())))
		return
	}

	asked := question
	if s.powers.Active(roles.TitleHacker) {
		if previous, ok := s.witness.LastQuestion(); ok {
			asked = previous
		}
	}
	if s.powers.Active(roles.TitleIntimidator) {
		asked = asked + " " + s.powers.Payload(roles.TitleIntimidator)
	}

	words, err := s.witness.Ask(ctx, asked)
	if err != nil {
		log.Printf("WARN: lobby %s: %v", s.lobby.Code, err)
		s.broadcast(ctx, "The WITNESS could not be reached. The Questioner may `$ask` again.")
		return
	}

	rng := s.lobby.rng
	rng.Shuffle(len(words), func(i, j int) { words[i], words[j] = words[j], words[i] })
	groups, censored := game.Shard(words, len(s.roster), s.powers.Active(roles.TitleCensorer))
	if censored {
		s.broadcast(ctx, "**The WITNESS has been censored!** Each of you observes a single word.")
	}

	remaining := s.remaining()
	steno := s.powers.Active(roles.TitleStenographer)
	for i, p := range s.roster {
		s.send(ctx, p, render.Clue(asker.Name, question, remaining, groups[i]))
		if steno && p.Role.Title() == roles.TitleStenographer {
			s.sendf(ctx, p, "**STENOGRAPHER**\tThe WITNESS actually heard: \"%s\"", asked)
		}
	}

	s.phase.lastAsk = now
	s.questioner = (s.questioner + 1) % len(s.roster)
	s.powers.Clear()
	s.broadcastf(ctx, "`%s` is the next Questioner.", s.currentQuestioner().Name)
	s.promptQuestioner(ctx)
}
