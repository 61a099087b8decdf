package session

import (
	"context"
	"log"
	"time"

	"github.com/aaronzipp/witness/internal/game"
	"github.com/aaronzipp/witness/internal/models"
	"github.com/aaronzipp/witness/internal/roles"
)

// Phase is the live stage of a session. Transitions replace it.
type Phase struct {
	Kind    models.Phase
	Started time.Time
	Limit   time.Duration // zero for untimed phases

	token uint64
	timer Timer

	votes   map[string]string // Trial: accuser ID -> suspect ID
	lastAsk time.Time         // Questioning: last answered question, or phase start
}

// behavior is the per-phase capability record
type behavior struct {
	window     roles.Window
	limit      func(s *game.Settings) time.Duration
	endMessage string
	enter      func(ctx context.Context, s *Session)
	handle     func(ctx context.Context, s *Session, author *Participant, cmd command) bool
	handleText func(ctx context.Context, s *Session, author *Participant, text string)
	proceed    func(ctx context.Context, s *Session)
}

var behaviors map[models.Phase]behavior

func init() {
	behaviors = map[models.Phase]behavior{
		models.PhaseCreation: {
			limit:      untimed,
			enter:      enterCreation,
			handle:     handleCreation,
			handleText: ignoreText,
			proceed:    func(context.Context, *Session) {},
		},
		models.PhaseQuestioning: {
			window:     roles.DuringQuestioning,
			limit:      seconds(game.SettingQuestionDur),
			endMessage: "**Questioning time is up!** Moving on to the Guess.",
			enter:      enterQuestioning,
			handle:     handleQuestioning,
			handleText: ignoreText,
			proceed:    func(ctx context.Context, s *Session) { s.transition(ctx, models.PhaseGuess) },
		},
		models.PhaseGuess: {
			window:     roles.DuringGuess,
			limit:      seconds(game.SettingGuessDur),
			endMessage: "**Guess time is up!** No guess was submitted.",
			enter:      enterGuess,
			handle:     handleGuess,
			handleText: ignoreText,
			proceed:    wrongGuess,
		},
		models.PhaseTrial: {
			window:     roles.DuringTrial,
			limit:      seconds(game.SettingTrialDur),
			endMessage: "**Trial time is up!** Counting the votes.",
			enter:      enterTrial,
			handle:     func(context.Context, *Session, *Participant, command) bool { return false },
			handleText: castVote,
			proceed:    tally,
		},
	}
}

func untimed(*game.Settings) time.Duration { return 0 }

func seconds(name string) func(*game.Settings) time.Duration {
	return func(s *game.Settings) time.Duration { return s.Seconds(name) }
}

func ignoreText(context.Context, *Session, *Participant, string) {}

func (s *Session) behavior() behavior { return behaviors[s.phase.Kind] }

// transition replaces the current phase and schedules its timeout
func (s *Session) transition(ctx context.Context, kind models.Phase) {
	s.stopTimer()

	b := behaviors[kind]
	s.lobby.tokens++
	p := &Phase{
		Kind:    kind,
		Started: s.lobby.deps.Clock.Now(),
		Limit:   b.limit(s.settings),
		token:   s.lobby.tokens,
	}
	s.phase = p
	if p.Limit > 0 {
		token := p.token
		p.timer = s.lobby.deps.Clock.AfterFunc(p.Limit, func() { s.lobby.onTimeout(s, token) })
	}
	log.Printf("Lobby %s: entering %s", s.lobby.Code, kind)
	b.enter(ctx, s)
}

func (s *Session) stopTimer() {
	if s.phase != nil && s.phase.timer != nil {
		s.phase.timer.Stop()
		s.phase.timer = nil
	}
}

func (s *Session) elapsed() time.Duration {
	return s.lobby.deps.Clock.Now().Sub(s.phase.Started)
}

func (s *Session) remaining() time.Duration {
	return max(s.phase.Limit-s.elapsed(), 0)
}

func (s *Session) expired() bool {
	return s.phase.Limit > 0 && s.elapsed() >= s.phase.Limit
}

// timeout ends the current phase
func (s *Session) timeout(ctx context.Context) {
	if s.over {
		return
	}
	b := s.behavior()
	s.stopTimer()
	if b.endMessage != "" {
		s.broadcast(ctx, b.endMessage)
	} else {
		s.broadcastf(ctx, "**This phase's time limit (%d sec) has been reached!**", int(s.phase.Limit.Seconds()))
	}
	b.proceed(ctx, s)
}
