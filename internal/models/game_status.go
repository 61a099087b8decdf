package models

// Phase names the stage a session is in
type Phase string

const (
	PhaseCreation    Phase = "creation"
	PhaseQuestioning Phase = "questioning"
	PhaseGuess       Phase = "guess"
	PhaseTrial       Phase = "trial"
)

// Title returns the display form of the phase
func (p Phase) Title() string {
	switch p {
	case PhaseCreation:
		return "Creation"
	case PhaseQuestioning:
		return "Questioning"
	case PhaseGuess:
		return "Guess"
	case PhaseTrial:
		return "Trial"
	}
	return string(p)
}
