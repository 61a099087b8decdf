package render

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/aaronzipp/witness/internal/game"
	"github.com/aaronzipp/witness/internal/models"
	"github.com/aaronzipp/witness/internal/oracle"
	"github.com/aaronzipp/witness/internal/roles"
)

// Welcome is sent to every participant when they join
func Welcome() string {
	var b strings.Builder
	b.WriteString("Welcome to **Witness: The Social Deduction Word Game**!\n")
	b.WriteString("A secret keyword is chosen when the game begins. The Civilians want to figure it out; the Villains know it and want to keep it secret.\n")
	b.WriteString("The Questioner asks the WITNESS open-ended questions. Its answers are shuffled and scattered among all players, so everyone must piece them together.\n")
	b.WriteString("At the end, everyone votes for a suspect. If a Villain receives the most votes, the Villains lose!\n")
	b.WriteString("This channel is private. Do not share screenshots of it with other players.")
	return b.String()
}

// HostPrompt is sent to the host of a fresh session
func HostPrompt() string {
	return "**You are the game host. Use `$showsettings` to change settings. Use `$start` to start the game.**"
}

// HostHelp lists the host-only commands
func HostHelp() string {
	return "`$role <add/remove> <roletitle>` adds/removes a special role to the game." +
		"\n`$<settingname> <settingvalue>` changes a specific setting." +
		"\n`$resetdefaultsettings` resets to defaults." +
		"\n`$restartgame` ends the current game."
}

// Settings summarizes the numeric settings and enabled special roles
func Settings(s *game.Settings) string {
	var b strings.Builder
	b.WriteString("**Settings**\n")
	for _, name := range game.SettingNames() {
		l := game.Limits[name]
		b.WriteString(name)
		b.WriteString(" \t ")
		b.WriteString(strconv.Itoa(s.Int(name)))
		fmt.Fprintf(&b, " \t (%d-%d)\n", l.Min, l.Max)
	}
	b.WriteString("specialroles \t ")
	if len(s.SpecialRoles) == 0 {
		b.WriteString("none")
	} else {
		titles := make([]string, len(s.SpecialRoles))
		for i, t := range s.SpecialRoles {
			titles[i] = string(t)
		}
		b.WriteString(strings.Join(titles, ", "))
	}
	b.WriteString("\navailable roles \t ")
	available := roles.SpecialTitles()
	titles := make([]string, len(available))
	for i, t := range available {
		titles[i] = string(t)
	}
	b.WriteString(strings.Join(titles, ", "))
	return b.String()
}

// Clue is the private message carrying one participant's share of a response
func Clue(asker, question string, remaining time.Duration, words []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "`%s` asked the WITNESS: \"%s\"\n", asker, question)
	fmt.Fprintf(&b, "%d seconds remain in this phase.\n", int(remaining.Seconds()))
	b.WriteString("You observed: ")
	if len(words) == 0 {
		b.WriteString("nothing")
	} else {
		b.WriteString("**")
		b.WriteString(strings.Join(words, " "))
		b.WriteString("**")
	}
	return b.String()
}

// Ballot lists the suspects at the start of the Trial
func Ballot(names []string, limit time.Duration) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Trial** has begun! You have %d seconds to vote.\n", int(limit.Seconds()))
	b.WriteString("Send the name of the player you suspect is a Villain. You may change your vote by sending another name.\nSuspects:")
	for _, name := range names {
		b.WriteString("\n- ")
		b.WriteString(name)
	}
	return b.String()
}

// Tally shows who voted for whom and who was convicted. names maps participant IDs to display names.
func Tally(result *game.VoteResult, names map[string]string) string {
	var b strings.Builder
	b.WriteString("**Votes**")
	if len(result.Suspects) == 0 {
		b.WriteString("\nNobody voted, so nobody is convicted.")
		return b.String()
	}
	for _, suspect := range result.Suspects {
		accusers := result.Accusers[suspect]
		voters := make([]string, len(accusers))
		for i, id := range accusers {
			voters[i] = names[id]
		}
		fmt.Fprintf(&b, "\n`%s` \t %d \t (%s)", names[suspect], len(accusers), strings.Join(voters, ", "))
	}
	convicted := make([]string, len(result.Convicted))
	for i, id := range result.Convicted {
		convicted[i] = "`" + names[id] + "`"
	}
	fmt.Fprintf(&b, "\nConvicted with %d vote(s): %s", result.MaxVotes, strings.Join(convicted, ", "))
	return b.String()
}

// Verdict announces the winning team
func Verdict(civiliansWon bool) string {
	if civiliansWon {
		return "**The Civilians win!**"
	}
	return "**The Villains win!**"
}

// Roles reveals every participant's final role
func Roles(players []models.PlayerRecord) string {
	var b strings.Builder
	b.WriteString("**Roles**")
	for _, p := range players {
		team := roles.AlignCivilian
		if p.Villain {
			team = roles.AlignVillain
		}
		fmt.Fprintf(&b, "\n`%s` \t %s \t (%s)", p.Name, p.Role, team)
	}
	return b.String()
}

// Transcript reveals every question the WITNESS answered, in full
func Transcript(exchanges []oracle.Exchange) string {
	var b strings.Builder
	b.WriteString("**WITNESS transcript**")
	if len(exchanges) == 0 {
		b.WriteString("\nNo questions were asked.")
		return b.String()
	}
	for i, e := range exchanges {
		fmt.Fprintf(&b, "\n%d. Q: \"%s\"\n   A: \"%s\"", i+1, e.Question, e.Response)
	}
	return b.String()
}

// BannedWords reveals the words the WITNESS could not say
func BannedWords(keyword string, banned []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The keyword was **%s**.\nBanned words: ", keyword)
	if len(banned) == 0 {
		b.WriteString("none besides the keyword")
	} else {
		b.WriteString(strings.Join(banned, ", "))
	}
	return b.String()
}

// Scoreboard lists wins and losses, sorted by wins descending then name
func Scoreboard(players []models.User, scores map[string]*models.PlayerScore) string {
	if len(scores) == 0 {
		return ""
	}

	list := make([]models.User, len(players))
	copy(list, players)
	wins := func(id string) int {
		if s, ok := scores[id]; ok {
			return s.GamesWon
		}
		return 0
	}
	sort.SliceStable(list, func(i, j int) bool {
		wi, wj := wins(list[i].ID), wins(list[j].ID)
		if wi == wj {
			return strings.ToLower(list[i].Name) < strings.ToLower(list[j].Name)
		}
		return wi > wj
	})

	var b strings.Builder
	b.WriteString("**Scoreboard** (won/lost)")
	for _, p := range list {
		won, lost := 0, 0
		if s, ok := scores[p.ID]; ok {
			won, lost = s.GamesWon, s.GamesLost
		}
		fmt.Fprintf(&b, "\n`%s` \t %d/%d", p.Name, won, lost)
	}
	return b.String()
}
