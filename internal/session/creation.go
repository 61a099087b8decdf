package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aaronzipp/witness/internal/game"
	"github.com/aaronzipp/witness/internal/models"
	"github.com/aaronzipp/witness/internal/oracle"
	"github.com/aaronzipp/witness/internal/render"
	"github.com/aaronzipp/witness/internal/roles"
)

func enterCreation(ctx context.Context, s *Session) {
	if len(s.roster) > 0 {
		s.send(ctx, s.roster[0], render.HostPrompt())
	}
}

func handleCreation(ctx context.Context, s *Session, author *Participant, cmd command) bool {
	switch {
	case game.IsSetting(cmd.name):
		s.changeSetting(ctx, author, cmd)
	case cmd.name == "role":
		s.toggleRole(ctx, author, cmd.arg)
	case cmd.name == "start":
		s.start(ctx, author)
	default:
		return false
	}
	return true
}

func (s *Session) showSettings(ctx context.Context, p *Participant) {
	s.send(ctx, p, render.Settings(s.settings))
	if s.isHost(p) {
		s.send(ctx, p, render.HostHelp())
	}
}

func (s *Session) changeSetting(ctx context.Context, author *Participant, cmd command) {
	value, err := strconv.Atoi(cmd.arg)
	if err != nil || value <= 0 {
		s.sendf(ctx, author, "`$%s` expects a positive integer.", cmd.name)
		return
	}
	if err := s.settings.Set(cmd.name, value); err != nil {
		l := game.Limits[cmd.name]
		s.sendf(ctx, author, "`%s` must be between %d and %d.", cmd.name, l.Min, l.Max)
		return
	}
	s.broadcastf(ctx, "Game host set `%s` to %d.", cmd.name, value)
}

// toggleRole handles "$role add <title>" and "$role <title> add"
func (s *Session) toggleRole(ctx context.Context, author *Participant, arg string) {
	fields := strings.Fields(arg)
	if len(fields) != 2 {
		s.send(ctx, author, "Usage: `$role <add/remove> <roletitle>`")
		return
	}
	action, name := strings.ToLower(fields[0]), fields[1]
	if action != "add" && action != "remove" {
		action, name = strings.ToLower(fields[1]), fields[0]
	}
	title := roles.Normalize(name)

	var err error
	switch action {
	case "add":
		err = s.settings.EnableRole(title)
	case "remove":
		err = s.settings.DisableRole(title)
	default:
		s.send(ctx, author, "Usage: `$role <add/remove> <roletitle>`")
		return
	}

	switch {
	case errors.Is(err, game.ErrRoleNotAddable):
		s.sendf(ctx, author, "`%s` is not a special role. Choose from: %s.", name, specialTitleList())
	case errors.Is(err, game.ErrRoleEnabled):
		s.sendf(ctx, author, "The %s role is already in the game.", title)
	case errors.Is(err, game.ErrRoleNotEnabled):
		s.sendf(ctx, author, "The %s role is not in the game.", title)
	case err != nil:
		s.send(ctx, author, err.Error())
	case action == "add":
		s.broadcastf(ctx, "Game host added the %s role.", title)
	default:
		s.broadcastf(ctx, "Game host removed the %s role.", title)
	}
}

func specialTitleList() string {
	titles := roles.SpecialTitles()
	names := make([]string, len(titles))
	for i, t := range titles {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

// teamSizes returns the number of Villain-aligned seats, or the reason the
// enabled roles do not fit the roster
func (s *Session) teamSizes() (int, string) {
	n := len(s.roster)
	if n < game.MinPlayers {
		return 0, fmt.Sprintf("At least %d players are needed to start.", game.MinPlayers)
	}
	if n > game.MaxPlayers {
		return 0, fmt.Sprintf("At most %d players can play.", game.MaxPlayers)
	}
	if len(s.settings.SpecialRoles) > n {
		return 0, fmt.Sprintf("There are more special roles (%d) than players (%d).", len(s.settings.SpecialRoles), n)
	}

	civilianSpecials, villainSpecials := s.settings.SpecialCounts()
	villains := max(s.settings.Int(game.SettingVillainCount), villainSpecials)
	if villains >= n {
		return 0, fmt.Sprintf("Too many Villains (%d) for %d players. At least one Civilian is needed.", villains, n)
	}
	if civilianSpecials > n-villains {
		return 0, fmt.Sprintf("There are %d special Civilian roles but only %d Civilians.", civilianSpecials, n-villains)
	}
	return villains, ""
}

func (s *Session) start(ctx context.Context, author *Participant) {
	villains, reason := s.teamSizes()
	if reason != "" {
		s.send(ctx, author, reason)
		return
	}

	deps := s.lobby.deps
	rng := s.lobby.rng
	n := len(s.roster)

	s.keyword = deps.Words.Random(rng)
	s.witness = oracle.NewWitness(deps.Completer, deps.Instructions, s.keyword, s.settings.Int(game.SettingWordsPerPlayer)*n)
	s.witness.SeedBannedWords(ctx, s.settings.Int(game.SettingBannedWords))

	// Seats are drawn from a permutation so the join order, and with it the host, is kept.
	seats := rng.Perm(n)
	titles := make([]roles.Title, 0, n)
	titles = append(titles, s.settings.SpecialRoles...)
	_, villainSpecials := s.settings.SpecialCounts()
	for range villains - villainSpecials {
		titles = append(titles, roles.BaseTitle(roles.AlignVillain))
	}
	for len(titles) < n {
		titles = append(titles, roles.BaseTitle(roles.AlignCivilian))
	}
	for i, seat := range seats {
		role, err := roles.New(titles[i])
		if err != nil {
			s.send(ctx, author, err.Error())
			return
		}
		s.roster[seat].Role = role
	}

	s.broadcastf(ctx, "**The game has started** with %d players and %d Villain(s).", n, villains)
	for _, p := range s.roster {
		s.introduce(ctx, p)
	}
	s.transition(ctx, models.PhaseQuestioning)
}

// introduce sends a participant their team and role
func (s *Session) introduce(ctx context.Context, p *Participant) {
	def := p.Role.Definition()
	s.send(ctx, p, roles.TeamIntro(def.Alignment))
	if p.Role.IsVillain() {
		s.sendf(ctx, p, "The secret keyword is **%s**.", s.keyword)
	}

	switch {
	case def.Title == roles.TitleDetective:
		s.send(ctx, p, s.detectiveIntro())
	case def.Intro != "":
		s.send(ctx, p, def.Intro)
	default:
		s.sendf(ctx, p, "You are a **%s**.", def.Title)
	}
}

func (s *Session) detectiveIntro() string {
	intro := "**Detective**, your investigation uncovered a banned word: "
	for _, word := range s.witness.BannedWords() {
		if !strings.Contains(strings.ToLower(s.keyword), word) {
			return intro + "the WITNESS may not say `" + word + "`."
		}
	}
	return "**Detective**, your investigation did not uncover any banned words this time."
}
