package session

import (
	"context"
	"fmt"
	"log"
	"slices"
	"strings"

	"github.com/aaronzipp/witness/internal/game"
	"github.com/aaronzipp/witness/internal/models"
	"github.com/aaronzipp/witness/internal/oracle"
	"github.com/aaronzipp/witness/internal/policy"
	"github.com/aaronzipp/witness/internal/render"
	"github.com/aaronzipp/witness/internal/roles"
)

// Participant is a user taking part in a session. Role is nil until the game starts.
type Participant struct {
	models.User
	Role *roles.Role
}

// Session is one game played in a lobby
type Session struct {
	lobby      *Lobby
	roster     []*Participant // join order, roster[0] hosts
	settings   *game.Settings
	phase      *Phase
	keyword    string
	witness    *oracle.Witness
	powers     roles.ActivePowers
	questioner int
	over       bool
}

func newSession(l *Lobby, users []models.User, settings *game.Settings) *Session {
	s := &Session{
		lobby:    l,
		settings: settings,
		powers:   make(roles.ActivePowers),
	}
	for _, u := range users {
		s.roster = append(s.roster, &Participant{User: u})
	}
	return s
}

func (s *Session) participant(id string) *Participant {
	for _, p := range s.roster {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (s *Session) byName(name string) *Participant {
	for _, p := range s.roster {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func (s *Session) users() []models.User {
	users := make([]models.User, len(s.roster))
	for i, p := range s.roster {
		users[i] = p.User
	}
	return users
}

func (s *Session) isHost(p *Participant) bool {
	return len(s.roster) > 0 && s.roster[0] == p
}

func (s *Session) currentQuestioner() *Participant {
	if len(s.roster) == 0 {
		return nil
	}
	return s.roster[s.questioner%len(s.roster)]
}

func (s *Session) isQuestioner(p *Participant) bool {
	switch s.phase.Kind {
	case models.PhaseQuestioning, models.PhaseGuess:
		return s.currentQuestioner() == p
	}
	return false
}

func (s *Session) send(ctx context.Context, p *Participant, text string) {
	s.lobby.send(ctx, p.ID, text)
}

func (s *Session) sendf(ctx context.Context, p *Participant, format string, args ...any) {
	s.send(ctx, p, fmt.Sprintf(format, args...))
}

func (s *Session) broadcast(ctx context.Context, text string) {
	for _, p := range s.roster {
		s.send(ctx, p, text)
	}
}

func (s *Session) broadcastf(ctx context.Context, format string, args ...any) {
	s.broadcast(ctx, fmt.Sprintf(format, args...))
}

// dispatch handles one inbound message. A timed-out phase ends before the
// message is looked at; otherwise global commands, then phase commands, then
// the author's role get a chance to handle it.
func (s *Session) dispatch(ctx context.Context, authorID, text string) {
	author := s.participant(authorID)
	if author == nil {
		return
	}
	if s.expired() {
		s.timeout(ctx)
		return
	}

	text = strings.TrimSpace(text)
	cmd, ok := parseCommand(text)
	if !ok {
		s.behavior().handleText(ctx, s, author, text)
		return
	}
	if !s.authorized(ctx, author, cmd) {
		if debug {
			log.Printf("Lobby %s: %s not allowed to use $%s during %s", s.lobby.Code, author.Name, cmd.name, s.phase.Kind)
		}
		return
	}

	if s.handleGlobal(ctx, author, cmd) {
		return
	}
	if s.behavior().handle(ctx, s, author, cmd) {
		return
	}
	if cmd.name == "power" {
		s.activatePower(ctx, author, cmd.arg)
	}
}

func (s *Session) authorized(ctx context.Context, author *Participant, cmd command) bool {
	allowed, err := s.lobby.deps.Policy.Allow(ctx, policy.Request{
		Command:      cmd.name,
		Phase:        string(s.phase.Kind),
		IsHost:       s.isHost(author),
		IsQuestioner: s.isQuestioner(author),
		Setting:      game.IsSetting(cmd.name),
	})
	if err != nil {
		log.Printf("WARN: lobby %s: policy evaluation failed: %v", s.lobby.Code, err)
		return false
	}
	return allowed
}

// handleGlobal runs the commands available in every phase
func (s *Session) handleGlobal(ctx context.Context, author *Participant, cmd command) bool {
	switch cmd.name {
	case "showsettings":
		s.showSettings(ctx, author)
	case "resetdefaultsettings":
		s.settings = game.DefaultSettings()
		s.broadcast(ctx, "Game host reset settings to defaults.")
	case "restartgame":
		if s.phase.Kind == models.PhaseCreation {
			s.send(ctx, author, "The game has not started yet.")
			return true
		}
		s.broadcastf(ctx, "`%s` ended the game.", author.Name)
		s.conclude(ctx, outcomeAborted)
	case "leavegame":
		if s.phase.Kind != models.PhaseCreation {
			s.send(ctx, author, "Leaving is not allowed after the game has started.")
			return true
		}
		s.leave(ctx, author)
	default:
		return false
	}
	return true
}

func (s *Session) leave(ctx context.Context, p *Participant) {
	wasHost := s.isHost(p)
	s.roster = slices.DeleteFunc(s.roster, func(q *Participant) bool { return q == p })
	s.send(ctx, p, "You left the game.")
	log.Printf("Lobby %s: %s left", s.lobby.Code, p.Name)
	if len(s.roster) == 0 {
		return
	}

	s.broadcastf(ctx, "`%s` left the game. There are now %d players.", p.Name, len(s.roster))
	if wasHost {
		s.broadcastf(ctx, "`%s` is the new game host.", s.roster[0].Name)
		s.send(ctx, s.roster[0], render.HostPrompt())
	}
}
