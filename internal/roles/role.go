package roles

import (
	"errors"
	"fmt"
)

var (
	ErrNoPower      = errors.New("role has no power")
	ErrPowerUsed    = errors.New("power already used")
	ErrWrongWindow  = errors.New("power cannot be used in this phase")
	ErrUnknownTitle = errors.New("unknown role title")
)

// PowerState tracks a role's one-shot ability
type PowerState uint8

const (
	PowerAvailable PowerState = iota
	PowerUsed
)

// Role is one participant's assigned role
type Role struct {
	def   *Definition
	state PowerState
}

// New creates a role for the given title. Roles without a power start out used.
func New(title Title) (*Role, error) {
	def, ok := Lookup(title)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTitle, title)
	}
	r := &Role{def: def, state: PowerUsed}
	if def.Power != 0 {
		r.state = PowerAvailable
	}
	return r, nil
}

func (r *Role) Title() Title           { return r.def.Title }
func (r *Role) Alignment() Alignment   { return r.def.Alignment }
func (r *Role) Definition() Definition { return *r.def }
func (r *Role) IsVillain() bool        { return r.def.Alignment == AlignVillain }
func (r *Role) State() PowerState      { return r.state }

// HasPower reports whether the role was ever given an ability
func (r *Role) HasPower() bool { return r.def.Power != 0 }

// CanActivate reports whether the power is still available
func (r *Role) CanActivate() bool { return r.state == PowerAvailable }

// Activate runs effect once. The power is consumed only when effect succeeds,
// so a rejected payload can be resubmitted.
func (r *Role) Activate(w Window, effect func() error) error {
	if !r.HasPower() {
		return ErrNoPower
	}
	if !r.CanActivate() {
		return ErrPowerUsed
	}
	if r.def.Power&w == 0 {
		return ErrWrongWindow
	}
	if err := effect(); err != nil {
		return err
	}
	r.state = PowerUsed
	return nil
}

// Become swaps the role variant in place, keeping the power state.
func (r *Role) Become(title Title) error {
	def, ok := Lookup(title)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTitle, title)
	}
	r.def = def
	return nil
}

// ActivePowers maps the title of each power activated this round to its payload
type ActivePowers map[Title]string

func (p ActivePowers) Activate(title Title, payload string) { p[title] = payload }

func (p ActivePowers) Active(title Title) bool {
	_, ok := p[title]
	return ok
}

func (p ActivePowers) Payload(title Title) string { return p[title] }

func (p ActivePowers) Clear() { clear(p) }
