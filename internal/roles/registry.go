package roles

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Alignment is the team a role plays for
type Alignment string

const (
	AlignCivilian Alignment = "Civilian"
	AlignVillain  Alignment = "Villain"
)

// Title names a role
type Title string

const (
	TitleCivilian     Title = "Civilian"
	TitleSheriff      Title = "Sheriff"
	TitleDetective    Title = "Detective"
	TitleStenographer Title = "Stenographer"
	TitleReporter     Title = "Reporter"
	TitleUndercover   Title = "Undercover"
	TitleForensic     Title = "Forensic"
	TitlePolitician   Title = "Politician"

	TitleVillain     Title = "Villain"
	TitleMastermind  Title = "Mastermind"
	TitleCensorer    Title = "Censorer"
	TitleIntimidator Title = "Intimidator"
	TitleHacker      Title = "Hacker"
	TitleCrook       Title = "Crook"
)

// Window is a set of phases in which a power may be activated
type Window uint8

const (
	DuringQuestioning Window = 1 << iota
	DuringGuess
	DuringTrial
)

// Definition describes one role variant
type Definition struct {
	Title     Title
	Alignment Alignment
	Intro     string // sent privately after the team introduction
	Hint      string // sent when Questioning begins, empty for none
	Addable   bool   // may be enabled by the host with $role add
	Power     Window // zero means the role has no power
}

var registry = map[Title]*Definition{
	TitleCivilian: {
		Title:     TitleCivilian,
		Alignment: AlignCivilian,
	},
	TitleSheriff: {
		Title:     TitleSheriff,
		Alignment: AlignCivilian,
		Intro:     "**Sheriff**, you lead the investigation. You have no special power, but the Civilians are counting on your judgement.",
		Addable:   true,
	},
	TitleDetective: {
		Title:     TitleDetective,
		Alignment: AlignCivilian,
		Addable:   true,
	},
	TitleStenographer: {
		Title:     TitleStenographer,
		Alignment: AlignCivilian,
		Intro:     "**Stenographer**, once per game, use `$power` to see the exact text of the next question the WITNESS receives, including any tampering.",
		Hint:      "Stenographer: `$power` reveals the exact wording of the next question.",
		Addable:   true,
		Power:     DuringQuestioning,
	},
	TitleReporter: {
		Title:     TitleReporter,
		Alignment: AlignCivilian,
		Intro:     "**Reporter**, you find out whenever another player activates a special power.",
		Addable:   true,
	},
	TitleUndercover: {
		Title:     TitleUndercover,
		Alignment: AlignCivilian,
		Intro:     "**Undercover**, once per game, use `$power` to secretly alert the active Questioner that you are a Civilian.",
		Addable:   true,
		Power:     DuringQuestioning | DuringGuess,
	},
	TitleForensic: {
		Title:     TitleForensic,
		Alignment: AlignCivilian,
		Intro:     "**Forensic**, once per game, use `$power` to privately receive the previous WITNESS response in full and in order.",
		Addable:   true,
		Power:     DuringQuestioning | DuringGuess,
	},
	TitlePolitician: {
		Title:     TitlePolitician,
		Alignment: AlignCivilian,
		Intro:     "**Politician**, you are a Civilian. Once per game during Questioning, use `$power` to become a Villain instead.",
		Hint:      "Politician: `$power` switches you to the Villain team. There is no going back.",
		Addable:   true,
		Power:     DuringQuestioning,
	},
	TitleVillain: {
		Title:     TitleVillain,
		Alignment: AlignVillain,
	},
	TitleMastermind: {
		Title:     TitleMastermind,
		Alignment: AlignVillain,
		Intro:     "**Mastermind**, before the first question is asked, use `$power <word> <word> ...` to ban words from the WITNESS's vocabulary.",
		Hint:      "Mastermind: ban words now with `$power <word> <word> ...`, before the first question is asked.",
		Addable:   true,
		Power:     DuringQuestioning,
	},
	TitleCensorer: {
		Title:     TitleCensorer,
		Alignment: AlignVillain,
		Intro:     "**Censorer**, once per game, use `$power` to censor the WITNESS's next response. Everyone will observe a single word, so some of the response may be seen by nobody.",
		Hint:      "Censorer: `$power` censors the next WITNESS response.",
		Addable:   true,
		Power:     DuringQuestioning,
	},
	TitleIntimidator: {
		Title:     TitleIntimidator,
		Alignment: AlignVillain,
		Intro:     "**Intimidator**, once per game, use `$power <text>` to secretly append text to the next question asked to the WITNESS.",
		Hint:      "Intimidator: `$power <text>` secretly extends the next question.",
		Addable:   true,
		Power:     DuringQuestioning,
	},
	TitleHacker: {
		Title:     TitleHacker,
		Alignment: AlignVillain,
		Intro:     "**Hacker**, once per game, use `$power` to force the WITNESS to ignore the next question and answer the previous one again.",
		Hint:      "Hacker: `$power` makes the WITNESS answer the previous question again.",
		Addable:   true,
		Power:     DuringQuestioning,
	},
	TitleCrook: {
		Title:     TitleCrook,
		Alignment: AlignVillain,
		Intro:     "**Crook**, you switched sides. Keep the keyword secret and avoid conviction.",
	},
}

// Lookup returns the definition for a title
func Lookup(title Title) (*Definition, bool) {
	def, ok := registry[title]
	return def, ok
}

// Normalize folds user input such as "censorer" or "HACKER" onto a registry title
func Normalize(s string) Title {
	caser := cases.Title(language.English)
	return Title(caser.String(strings.ToLower(strings.TrimSpace(s))))
}

// SpecialTitles lists the titles a host may enable, sorted by name
func SpecialTitles() []Title {
	titles := make([]Title, 0, len(registry))
	for title, def := range registry {
		if def.Addable {
			titles = append(titles, title)
		}
	}
	sort.Slice(titles, func(i, j int) bool { return titles[i] < titles[j] })
	return titles
}

// BaseTitle returns the plain role for an alignment
func BaseTitle(a Alignment) Title {
	if a == AlignVillain {
		return TitleVillain
	}
	return TitleCivilian
}

// TeamIntro is the team introduction shared by every role of an alignment
func TeamIntro(a Alignment) string {
	if a == AlignVillain {
		return "As a **Villain**, your goal is to mislead the Civilians so that they cannot figure out the keyword. Stay hidden so that they do not suspect your villainous nature."
	}
	return "As a **Civilian**, your goal is to figure out the secret keyword or to identify a Villain."
}
