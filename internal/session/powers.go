package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/aaronzipp/witness/internal/game"
	"github.com/aaronzipp/witness/internal/roles"
)

// powerEffect validates and applies a role's ability. A returned error is
// shown to the activator and leaves the power available.
type powerEffect func(ctx context.Context, s *Session, p *Participant, payload string) error

var powerEffects = map[roles.Title]powerEffect{
	roles.TitleHacker:       hack,
	roles.TitleIntimidator:  intimidate,
	roles.TitleUndercover:   revealUndercover,
	roles.TitleCensorer:     censor,
	roles.TitleStenographer: transcribe,
	roles.TitlePolitician:   switchSides,
	roles.TitleMastermind:   banWords,
	roles.TitleForensic:     examine,
}

// activatePower handles "$power [value]"
func (s *Session) activatePower(ctx context.Context, p *Participant, payload string) {
	if p.Role == nil {
		return
	}
	title := p.Role.Title()
	effect, ok := powerEffects[title]
	if !ok {
		s.send(ctx, p, "Your role has no power.")
		return
	}

	err := p.Role.Activate(s.behavior().window, func() error {
		return effect(ctx, s, p, payload)
	})
	switch {
	case errors.Is(err, roles.ErrNoPower):
		s.send(ctx, p, "Your role has no power.")
		return
	case errors.Is(err, roles.ErrPowerUsed):
		s.send(ctx, p, "You have already used your power.")
		return
	case errors.Is(err, roles.ErrWrongWindow):
		s.sendf(ctx, p, "Your power cannot be used during the %s phase.", s.phase.Kind.Title())
		return
	case err != nil:
		s.send(ctx, p, err.Error())
		return
	}

	s.powers.Activate(title, payload)
	for _, q := range s.roster {
		if q.Role.Title() == roles.TitleReporter {
			s.send(ctx, q, "**ALERT**\tSomeone activated their power!")
		}
	}
}

func hack(ctx context.Context, s *Session, p *Participant, _ string) error {
	if !s.witness.Asked() {
		return errors.New("There is no previous question to replay yet.")
	}
	s.send(ctx, p, "**HACKED**\tThe WITNESS will answer the previous question again.")
	return nil
}

func intimidate(ctx context.Context, s *Session, p *Participant, payload string) error {
	if payload == "" {
		return errors.New("Usage: `$power <text>`")
	}
	if limit := s.settings.Int(game.SettingQuestionCharLimit); utf8.RuneCountInString(payload) > limit {
		return fmt.Errorf("Your addition is limited to %d characters.", limit)
	}
	s.sendf(ctx, p, "**INTIMIDATED**\t\"%s\" will be added to the next question.", payload)
	return nil
}

func revealUndercover(ctx context.Context, s *Session, p *Participant, _ string) error {
	q := s.currentQuestioner()
	if q == p {
		return errors.New("You are the Questioner yourself.")
	}
	s.sendf(ctx, q, "**UNDERCOVER**\t`%s` is a Civilian.", p.Name)
	s.sendf(ctx, p, "`%s` now knows you are a Civilian.", q.Name)
	return nil
}

func censor(ctx context.Context, s *Session, p *Participant, _ string) error {
	s.send(ctx, p, "**CENSORED**\tThe next WITNESS response will be censored.")
	return nil
}

func transcribe(ctx context.Context, s *Session, p *Participant, _ string) error {
	s.send(ctx, p, "**STENOGRAPHER**\tYou will see the exact text of the next question.")
	return nil
}

func switchSides(ctx context.Context, s *Session, p *Participant, _ string) error {
	if err := p.Role.Become(roles.TitleCrook); err != nil {
		return err
	}
	def := p.Role.Definition()
	s.send(ctx, p, roles.TeamIntro(def.Alignment))
	s.send(ctx, p, def.Intro)
	s.sendf(ctx, p, "The secret keyword is **%s**.", s.keyword)
	return nil
}

func banWords(ctx context.Context, s *Session, p *Participant, payload string) error {
	if s.witness.Asked() {
		return errors.New("Words can only be banned before the first question is asked.")
	}
	words := strings.Fields(payload)
	if len(words) == 0 {
		return errors.New("Usage: `$power <word> <word> ...`")
	}
	if limit := s.settings.Int(game.SettingBannedWords); len(words) > limit {
		return fmt.Errorf("You may ban at most %d words.", limit)
	}
	s.witness.Ban(words...)
	s.sendf(ctx, p, "**BANNED**\tThe WITNESS may no longer say: %s", strings.Join(words, ", "))
	return nil
}

func examine(ctx context.Context, s *Session, p *Participant, _ string) error {
	response, ok := s.witness.LastResponse()
	if !ok {
		return errors.New("The WITNESS has not answered anything yet.")
	}
	s.sendf(ctx, p, "**FORENSIC**\tThe last WITNESS response was: \"%s\"", response)
	return nil
}
