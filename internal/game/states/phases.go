package states

import "fmt"

// GamePhase represents where a game is within the human/AI turn cycle
type GamePhase int

const (
	// PhaseInitializing - Engine construction and bootstrap layout
	PhaseInitializing GamePhase = iota

	// PhaseHumanTurn - Waiting for human commands
	PhaseHumanTurn

	// PhaseResolving - Income and tower combat after the human ends the turn
	PhaseResolving

	// PhaseAITurn - Scripted opponent acting
	PhaseAITurn

	// PhaseEnded - An outcome has been decided
	PhaseEnded
)

var allPhases = []GamePhase{PhaseInitializing, PhaseHumanTurn, PhaseResolving, PhaseAITurn, PhaseEnded}

// String returns the string representation of a GamePhase
func (p GamePhase) String() string {
	switch p {
	case PhaseInitializing:
		return "Initializing"
	case PhaseHumanTurn:
		return "HumanTurn"
	case PhaseResolving:
		return "Resolving"
	case PhaseAITurn:
		return "AITurn"
	case PhaseEnded:
		return "Ended"
	default:
		return fmt.Sprintf("Unknown(%d)", p)
	}
}

// IsTerminal returns true if the phase represents a terminal state
func (p GamePhase) IsTerminal() bool {
	return p == PhaseEnded
}

// CanReceiveActions returns true if human commands are accepted in this phase
func (p GamePhase) CanReceiveActions() bool {
	return p == PhaseHumanTurn
}

// AllowedTransitions returns the valid phases this phase can transition to
func (p GamePhase) AllowedTransitions() []GamePhase {
	switch p {
	case PhaseInitializing:
		return []GamePhase{PhaseHumanTurn}
	case PhaseHumanTurn:
		return []GamePhase{PhaseResolving, PhaseEnded}
	case PhaseResolving:
		return []GamePhase{PhaseAITurn}
	case PhaseAITurn:
		return []GamePhase{PhaseHumanTurn}
	default:
		return []GamePhase{}
	}
}

// CanTransitionTo checks if a transition from this phase to the target phase is allowed
func (p GamePhase) CanTransitionTo(target GamePhase) bool {
	for _, phase := range p.AllowedTransitions() {
		if phase == target {
			return true
		}
	}
	return false
}

// ParsePhase converts a string to a GamePhase
func ParsePhase(s string) (GamePhase, error) {
	for _, p := range allPhases {
		if p.String() == s {
			return p, nil
		}
	}
	return PhaseInitializing, fmt.Errorf("unknown phase %q", s)
}
