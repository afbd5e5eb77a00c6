// Package overlay owns the canonical view-state of the agent overlay and the
// state machine that mutates it. All mutation flows through Machine so the
// transition logic stays synchronous and testable without a render surface:
// callbacks produce patches or trigger actions, they never touch fields
// directly.
package overlay

import "github.com/BSchoolland/excalibur-v3/pkg/protocol"

// DefaultTaskName is shown before the agent reports anything and restored by
// the completion-cycle reset.
const DefaultTaskName = "initializing"

// State is the canonical overlay snapshot. A single instance lives for the
// process lifetime and is replaced field-by-field via shallow merge, never
// wholesale.
type State struct {
	IsActive          bool   // pulses the idle animation
	IsComplete        bool   // external task finished
	IsVisible         bool   // drives slide-in/slide-out
	CurrentStep       int    // meaningful only when TotalSteps > 0 and not in input mode
	TotalSteps        int    // 0 means no discrete progress to show
	AgentType         string // label; "Error" switches the orb to the error appearance
	TaskName          string
	IsWaitingForInput bool
	InputPrompt       string
}

// DefaultState mirrors the initial state the agent controller seeds before
// its first real update: pulsing, hidden, no progress yet.
func DefaultState() State {
	return State{
		IsActive:  true,
		AgentType: "Create",
		TaskName:  DefaultTaskName,
	}
}

// merge applies a shallow patch: every present key overwrites the field, every
// absent key leaves it alone. This is deliberately not a deep merge; the
// protocol has no nested values.
func (s State) merge(p protocol.Patch) State {
	if p.IsActive != nil {
		s.IsActive = *p.IsActive
	}
	if p.IsComplete != nil {
		s.IsComplete = *p.IsComplete
	}
	if p.IsVisible != nil {
		s.IsVisible = *p.IsVisible
	}
	if p.CurrentStep != nil {
		s.CurrentStep = *p.CurrentStep
	}
	if p.TotalSteps != nil {
		s.TotalSteps = *p.TotalSteps
	}
	if p.AgentType != nil {
		s.AgentType = *p.AgentType
	}
	if p.TaskName != nil {
		s.TaskName = *p.TaskName
	}
	if p.IsWaitingForInput != nil {
		s.IsWaitingForInput = *p.IsWaitingForInput
	}
	if p.InputPrompt != nil {
		s.InputPrompt = *p.InputPrompt
	}
	return s
}
