package game

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/aaronzipp/witness/internal/roles"
)

// Numeric setting names, as typed after "$" by the host
const (
	SettingVillainCount      = "villaincount"
	SettingBannedWords       = "numbannedwords"
	SettingQuestionDur       = "questiondur"
	SettingGuessDur          = "guessdur"
	SettingTrialDur          = "trialdur"
	SettingWordsPerPlayer    = "wordsperplayer"
	SettingQuestionCharLimit = "questioncharlimit"
	SettingQuestionCooldown  = "questioncooldown"
)

var (
	ErrUnknownSetting = errors.New("unknown setting")
	ErrSettingRange   = errors.New("setting out of range")
	ErrRoleNotAddable = errors.New("role cannot be added")
	ErrRoleEnabled    = errors.New("role already enabled")
	ErrRoleNotEnabled = errors.New("role not enabled")
)

// Limit bounds a numeric setting
type Limit struct {
	Default int
	Min     int
	Max     int
}

// Limits is the table of numeric settings. Durations are in seconds.
var Limits = map[string]Limit{
	SettingVillainCount:      {Default: 1, Min: 1, Max: MaxPlayers - 1},
	SettingBannedWords:       {Default: 3, Min: 1, Max: 10},
	SettingQuestionDur:       {Default: 180, Min: 30, Max: 3600},
	SettingGuessDur:          {Default: 60, Min: 10, Max: 600},
	SettingTrialDur:          {Default: 300, Min: 30, Max: 1800},
	SettingWordsPerPlayer:    {Default: 2, Min: 1, Max: 4},
	SettingQuestionCharLimit: {Default: 100, Min: 10, Max: 100},
	SettingQuestionCooldown:  {Default: 15, Min: 5, Max: 120},
}

// Settings is a lobby's mutable game configuration
type Settings struct {
	values       map[string]int
	SpecialRoles []roles.Title // enabled special roles, in the order they were added
}

// DefaultSettings returns the settings every new lobby starts with
func DefaultSettings() *Settings {
	s := &Settings{values: make(map[string]int, len(Limits))}
	for name, l := range Limits {
		s.values[name] = l.Default
	}
	return s
}

// IsSetting reports whether name is a numeric setting
func IsSetting(name string) bool {
	_, ok := Limits[name]
	return ok
}

// SettingNames lists the numeric settings alphabetically
func SettingNames() []string {
	names := make([]string, 0, len(Limits))
	for name := range Limits {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Settings) Int(name string) int { return s.values[name] }

// Seconds reads a duration setting
func (s *Settings) Seconds(name string) time.Duration {
	return time.Duration(s.values[name]) * time.Second
}

// Set changes a numeric setting if value lies within its limits
func (s *Settings) Set(name string, value int) error {
	l, ok := Limits[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSetting, name)
	}
	if value < l.Min || value > l.Max {
		return fmt.Errorf("%w: `%s` must be between %d and %d", ErrSettingRange, name, l.Min, l.Max)
	}
	s.values[name] = value
	return nil
}

// EnableRole adds a special role to the game
func (s *Settings) EnableRole(title roles.Title) error {
	def, ok := roles.Lookup(title)
	if !ok || !def.Addable {
		return fmt.Errorf("%w: %s", ErrRoleNotAddable, title)
	}
	if s.RoleEnabled(title) {
		return fmt.Errorf("%w: %s", ErrRoleEnabled, title)
	}
	s.SpecialRoles = append(s.SpecialRoles, title)
	return nil
}

// DisableRole removes a special role from the game
func (s *Settings) DisableRole(title roles.Title) error {
	i := slices.Index(s.SpecialRoles, title)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrRoleNotEnabled, title)
	}
	s.SpecialRoles = slices.Delete(s.SpecialRoles, i, i+1)
	return nil
}

func (s *Settings) RoleEnabled(title roles.Title) bool {
	return slices.Contains(s.SpecialRoles, title)
}

// SpecialCounts splits the enabled special roles by alignment
func (s *Settings) SpecialCounts() (civilians, villains int) {
	for _, title := range s.SpecialRoles {
		def, ok := roles.Lookup(title)
		if !ok {
			continue
		}
		if def.Alignment == roles.AlignVillain {
			villains++
		} else {
			civilians++
		}
	}
	return civilians, villains
}

// Clone copies the settings for a new session
func (s *Settings) Clone() *Settings {
	c := &Settings{values: make(map[string]int, len(s.values))}
	for k, v := range s.values {
		c.values[k] = v
	}
	c.SpecialRoles = slices.Clone(s.SpecialRoles)
	return c
}
