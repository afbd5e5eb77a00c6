package overlay

import (
	"strings"
	"time"

	"github.com/BSchoolland/excalibur-v3/pkg/protocol"
)

// Action identifies a transition side effect the scheduler must execute.
type Action int

const (
	// ActionPlayCue plays Effect.Cue immediately.
	ActionPlayCue Action = iota
	// ActionEnterInput reveals the input surface with Effect.Prompt as the
	// placeholder. Focus should be requested one render tick later so the
	// surface is visible before it grabs focus.
	ActionEnterInput
	// ActionExitInput hides the input surface and clears any entered text.
	ActionExitInput
	// ActionReenableInput re-enables controls disabled by a pending command.
	// Emitted on every applied patch; the next state update is the only
	// acknowledgment the command channel has.
	ActionReenableInput
	// ActionHide is phase two of the completion cycle (slide out).
	ActionHide
	// ActionReset is phase three of the completion cycle (back to idle).
	ActionReset
)

// Effect is a scheduled side effect returned alongside the new state. After
// of zero means "now"; anything else is executed by a timer outside the
// machine, keeping Apply itself synchronous.
type Effect struct {
	After  time.Duration
	Action Action
	Cue    protocol.Sound
	Prompt string
}

// Timing holds the fixed delays of the overlay's animation protocol.
type Timing struct {
	HideDelay     time.Duration // completion cycle: complete display → slide out
	ResetDelay    time.Duration // completion cycle: start → full reset
	PulsePeriod   time.Duration // idle pulse toggle period
	FlashDuration time.Duration // empty-submit error flash duration
}

// DefaultTiming matches the desktop overlay's animation constants.
func DefaultTiming() Timing {
	return Timing{
		HideDelay:     2000 * time.Millisecond,
		ResetDelay:    2500 * time.Millisecond,
		PulsePeriod:   2000 * time.Millisecond,
		FlashDuration: 300 * time.Millisecond,
	}
}

// Machine folds incoming patches into the canonical state and derives the
// transition effects deterministically from (old state, patch) pairs. It is
// not safe for concurrent use; the overlay is single-threaded by design, all
// calls happen on the UI loop.
type Machine struct {
	state  State
	timing Timing

	// Sound de-duplication: a cue fires at most once per distinct timestamp.
	// Only equality with the last fired value matters, never ordering.
	lastCueStamp int64
	cueSeen      bool

	inputDisabled bool
}

// NewMachine returns a machine holding the default state.
func NewMachine(t Timing) *Machine {
	return &Machine{state: DefaultState(), timing: t}
}

// State returns the current canonical snapshot.
func (m *Machine) State() State {
	return m.state
}

// Timing returns the machine's animation delays.
func (m *Machine) Timing() Timing {
	return m.timing
}

// InputDisabled reports whether the input control is waiting on a command
// acknowledgment.
func (m *Machine) InputDisabled() bool {
	return m.inputDisabled
}

// Apply merges a patch into canonical state and returns the scheduled
// effects, evaluated in protocol order against the pre-merge snapshot.
func (m *Machine) Apply(p protocol.Patch) (State, []Effect) {
	prev := m.state
	next := prev.merge(p)

	var effects []Effect

	// 1. Sound selection. Fires exactly once per distinct timestamp no
	// matter how many times the same patch content is re-delivered.
	if p.PlaySound != nil && p.SoundTimestamp != nil && p.PlaySound.Valid() {
		if !m.cueSeen || *p.SoundTimestamp != m.lastCueStamp {
			m.lastCueStamp = *p.SoundTimestamp
			m.cueSeen = true
			effects = append(effects, Effect{Action: ActionPlayCue, Cue: *p.PlaySound})
		}
	}

	// 2. Input-mode edge detection: only genuine transitions count.
	switch {
	case !prev.IsWaitingForInput && next.IsWaitingForInput:
		effects = append(effects, Effect{Action: ActionEnterInput, Prompt: next.InputPrompt})
	case prev.IsWaitingForInput && !next.IsWaitingForInput:
		effects = append(effects, Effect{Action: ActionExitInput})
	}

	// A completed task kicks off the timed hide/reset sequence. In-flight
	// timers are not cancelled; last-scheduled wins (see completionCycle).
	if !prev.IsComplete && next.IsComplete {
		effects = append(effects, m.completionCycle()...)
	}

	// 4. Any fresh state update is the implicit command acknowledgment.
	if m.inputDisabled {
		m.inputDisabled = false
		effects = append(effects, Effect{Action: ActionReenableInput})
	}

	m.state = next
	return next, effects
}

// CompleteTask starts the completion cycle proactively (scripted demos) by
// marking the task complete and scheduling the hide/reset phases.
func (m *Machine) CompleteTask() (State, []Effect) {
	m.state.IsComplete = true
	return m.state, m.completionCycle()
}

// completionCycle returns the two timed phases that follow the immediate
// complete display. The phases are one-shot and deliberately not cancellable:
// triggering a new cycle while one is pending lets the last-scheduled timers
// win, which can race a fresh task's state. Known hazard, kept for protocol
// fidelity.
func (m *Machine) completionCycle() []Effect {
	return []Effect{
		{After: m.timing.HideDelay, Action: ActionHide},
		{After: m.timing.ResetDelay, Action: ActionReset},
	}
}

// Trigger executes a scheduled completion-cycle phase and returns the new
// state. Other actions have no state of their own and pass through unchanged.
func (m *Machine) Trigger(a Action) State {
	switch a {
	case ActionHide:
		m.state.IsVisible = false
	case ActionReset:
		m.state.IsComplete = false
		m.state.IsVisible = true
		m.state.CurrentStep = 0
		m.state.TaskName = DefaultTaskName
	}
	return m.state
}

// TogglePulse flips the ambient pulse while the overlay is neither complete
// nor awaiting input. Returns false when the pulse is suppressed. Purely
// cosmetic, no protocol significance.
func (m *Machine) TogglePulse() (State, bool) {
	if m.state.IsComplete || m.state.IsWaitingForInput {
		return m.state, false
	}
	m.state.IsActive = !m.state.IsActive
	return m.state, true
}

// Submit validates entered text and produces the outgoing command. Empty or
// whitespace-only text produces no command (the caller flashes the input
// instead). A real submission disables the input until the next patch.
func (m *Machine) Submit(text string) (protocol.Command, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return protocol.Command{}, false
	}
	m.inputDisabled = true
	return protocol.NewTextInput(trimmed), true
}

// Cancel produces the cancellation command: a text_input with empty text is
// the sentinel the agent understands. Disables the input like a real submit.
func (m *Machine) Cancel() protocol.Command {
	m.inputDisabled = true
	return protocol.NewTextInput("")
}

// Close produces the close command. No local state changes: the agent is
// expected to drive isVisible false or terminate the overlay.
func (m *Machine) Close() protocol.Command {
	return protocol.NewClose()
}

// EnableInput re-enables the input control after a failed command write, so
// a filesystem error never leaves the control disabled indefinitely.
func (m *Machine) EnableInput() {
	m.inputDisabled = false
}
