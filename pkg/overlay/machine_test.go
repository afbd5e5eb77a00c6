package overlay

import (
	"testing"
	"time"

	"github.com/BSchoolland/excalibur-v3/pkg/protocol"
)

func boolPtr(b bool) *bool    { return &b }
func intPtr(i int) *int       { return &i }
func strPtr(s string) *string { return &s }
func int64Ptr(i int64) *int64 { return &i }

func soundPtr(s protocol.Sound) *protocol.Sound { return &s }

func testTiming() Timing {
	return Timing{
		HideDelay:     20 * time.Millisecond,
		ResetDelay:    25 * time.Millisecond,
		PulsePeriod:   20 * time.Millisecond,
		FlashDuration: 3 * time.Millisecond,
	}
}

func actions(effects []Effect) []Action {
	out := make([]Action, len(effects))
	for i, e := range effects {
		out[i] = e.Action
	}
	return out
}

func hasAction(effects []Effect, a Action) bool {
	for _, e := range effects {
		if e.Action == a {
			return true
		}
	}
	return false
}

func TestApply_ShallowMerge(t *testing.T) {
	m := NewMachine(testTiming())

	state, _ := m.Apply(protocol.Patch{
		TaskName:    strPtr("indexing"),
		CurrentStep: intPtr(2),
		TotalSteps:  intPtr(5),
		IsVisible:   boolPtr(true),
	})
	if state.TaskName != "indexing" || state.CurrentStep != 2 || state.TotalSteps != 5 {
		t.Errorf("merged state = %+v", state)
	}
	if !state.IsActive {
		t.Error("absent isActive should keep the default true")
	}
	if state.AgentType != "Create" {
		t.Errorf("absent agentType changed to %q", state.AgentType)
	}

	// Second patch touches one field, everything else stays.
	state, _ = m.Apply(protocol.Patch{CurrentStep: intPtr(3)})
	if state.CurrentStep != 3 {
		t.Errorf("CurrentStep = %d, want 3", state.CurrentStep)
	}
	if state.TaskName != "indexing" || state.TotalSteps != 5 || !state.IsVisible {
		t.Errorf("untouched fields changed: %+v", state)
	}
}

func TestApply_SoundDeDup(t *testing.T) {
	m := NewMachine(testTiming())
	patch := protocol.Patch{
		PlaySound:      soundPtr(protocol.SoundTaskComplete),
		SoundTimestamp: int64Ptr(1000),
	}

	_, effects := m.Apply(patch)
	if !hasAction(effects, ActionPlayCue) {
		t.Fatal("first delivery should play the cue")
	}

	// Same timestamp re-delivered, even many times: no cue.
	for i := 0; i < 3; i++ {
		if _, effects := m.Apply(patch); hasAction(effects, ActionPlayCue) {
			t.Fatal("re-delivered timestamp played the cue again")
		}
	}

	// A different timestamp fires again, even an older one.
	_, effects = m.Apply(protocol.Patch{
		PlaySound:      soundPtr(protocol.SoundTaskComplete),
		SoundTimestamp: int64Ptr(500),
	})
	if !hasAction(effects, ActionPlayCue) {
		t.Error("distinct timestamp should play; only equality matters, not ordering")
	}
}

func TestApply_SoundRequiresTimestampAndValidName(t *testing.T) {
	m := NewMachine(testTiming())

	_, effects := m.Apply(protocol.Patch{PlaySound: soundPtr(protocol.SoundError)})
	if hasAction(effects, ActionPlayCue) {
		t.Error("cue without timestamp should not play")
	}

	_, effects = m.Apply(protocol.Patch{
		PlaySound:      soundPtr(protocol.Sound("airhorn")),
		SoundTimestamp: int64Ptr(1),
	})
	if hasAction(effects, ActionPlayCue) {
		t.Error("unknown cue name should not play")
	}
}

func TestApply_InputEdgeDetection(t *testing.T) {
	m := NewMachine(testTiming())

	_, effects := m.Apply(protocol.Patch{
		IsWaitingForInput: boolPtr(true),
		InputPrompt:       strPtr("Enter task"),
	})
	if !hasAction(effects, ActionEnterInput) {
		t.Fatal("false->true should emit EnterInput")
	}
	for _, e := range effects {
		if e.Action == ActionEnterInput && e.Prompt != "Enter task" {
			t.Errorf("EnterInput prompt = %q", e.Prompt)
		}
	}

	// Steady true: no repeated enter.
	_, effects = m.Apply(protocol.Patch{IsWaitingForInput: boolPtr(true)})
	if hasAction(effects, ActionEnterInput) {
		t.Error("steady input mode re-emitted EnterInput")
	}

	_, effects = m.Apply(protocol.Patch{IsWaitingForInput: boolPtr(false)})
	if !hasAction(effects, ActionExitInput) {
		t.Error("true->false should emit ExitInput")
	}
}

func TestApply_CompletionCycle(t *testing.T) {
	m := NewMachine(testTiming())

	state, effects := m.Apply(protocol.Patch{IsComplete: boolPtr(true)})
	if !state.IsComplete {
		t.Fatal("complete state should apply immediately")
	}
	var hide, reset *Effect
	for i := range effects {
		switch effects[i].Action {
		case ActionHide:
			hide = &effects[i]
		case ActionReset:
			reset = &effects[i]
		}
	}
	if hide == nil || reset == nil {
		t.Fatalf("completion should schedule hide and reset, got %v", actions(effects))
	}
	if hide.After != 20*time.Millisecond || reset.After != 25*time.Millisecond {
		t.Errorf("delays = %v/%v, want 20ms/25ms", hide.After, reset.After)
	}

	// Steady complete: no second cycle.
	_, effects = m.Apply(protocol.Patch{IsComplete: boolPtr(true)})
	if hasAction(effects, ActionHide) || hasAction(effects, ActionReset) {
		t.Error("steady isComplete re-triggered the cycle")
	}

	if state := m.Trigger(ActionHide); state.IsVisible {
		t.Error("hide phase should clear visibility")
	}
	state = m.Trigger(ActionReset)
	if state.IsComplete || !state.IsVisible || state.CurrentStep != 0 {
		t.Errorf("reset phase state = %+v", state)
	}
	if state.TaskName != DefaultTaskName {
		t.Errorf("reset TaskName = %q, want %q", state.TaskName, DefaultTaskName)
	}
}

func TestApply_ReenableInputOnAnyPatch(t *testing.T) {
	m := NewMachine(testTiming())

	if _, ok := m.Submit("deploy it"); !ok {
		t.Fatal("non-empty submit should produce a command")
	}
	if !m.InputDisabled() {
		t.Fatal("submit should disable input until acknowledgment")
	}

	_, effects := m.Apply(protocol.Patch{TaskName: strPtr("working on it")})
	if !hasAction(effects, ActionReenableInput) {
		t.Error("next patch should re-enable input")
	}
	if m.InputDisabled() {
		t.Error("input still disabled after patch")
	}
}

func TestSubmit_EmptyProducesNoCommand(t *testing.T) {
	m := NewMachine(testTiming())

	for _, text := range []string{"", "   ", "\t\n"} {
		if _, ok := m.Submit(text); ok {
			t.Errorf("Submit(%q) produced a command, want none", text)
		}
		if m.InputDisabled() {
			t.Errorf("Submit(%q) disabled input", text)
		}
	}

	cmd, ok := m.Submit("  build a web app  ")
	if !ok {
		t.Fatal("trimmed non-empty submit should produce a command")
	}
	if cmd.Action != protocol.ActionTextInput || cmd.Text != "build a web app" {
		t.Errorf("command = %+v", cmd)
	}
	if cmd.Timestamp == 0 {
		t.Error("command should carry a timestamp")
	}
}

func TestCancel_EmptyTextSentinel(t *testing.T) {
	m := NewMachine(testTiming())
	cmd := m.Cancel()
	if cmd.Action != protocol.ActionTextInput || cmd.Text != "" {
		t.Errorf("cancel command = %+v, want empty text_input", cmd)
	}
	if !m.InputDisabled() {
		t.Error("cancel should disable input like a submit")
	}
}

func TestClose_NoLocalStateChange(t *testing.T) {
	m := NewMachine(testTiming())
	m.Apply(protocol.Patch{IsVisible: boolPtr(true)})
	before := m.State()

	cmd := m.Close()
	if cmd.Action != protocol.ActionClose {
		t.Errorf("close command action = %q", cmd.Action)
	}
	if m.State() != before {
		t.Error("close must not change local state")
	}
}

func TestTogglePulse_Suppression(t *testing.T) {
	m := NewMachine(testTiming())

	state, toggled := m.TogglePulse()
	if !toggled || state.IsActive {
		t.Errorf("first toggle: active = %v toggled = %v, want false/true", state.IsActive, toggled)
	}
	state, _ = m.TogglePulse()
	if !state.IsActive {
		t.Error("second toggle should flip back to active")
	}

	m.Apply(protocol.Patch{IsComplete: boolPtr(true)})
	if _, toggled := m.TogglePulse(); toggled {
		t.Error("pulse should be suppressed while complete")
	}

	m.Apply(protocol.Patch{IsComplete: boolPtr(false), IsWaitingForInput: boolPtr(true)})
	if _, toggled := m.TogglePulse(); toggled {
		t.Error("pulse should be suppressed while awaiting input")
	}
}

func TestEnableInput_AfterFailedWrite(t *testing.T) {
	m := NewMachine(testTiming())
	m.Submit("something")
	m.EnableInput()
	if m.InputDisabled() {
		t.Error("EnableInput should clear the disabled flag")
	}
}
