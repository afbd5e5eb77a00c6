// Package protocol defines the two JSON file formats shared with the agent
// process: the state file the agent writes (read here as partial patches) and
// the command file the overlay writes back.
//
// Neither side locks the files. The reader tolerates absent or half-written
// content; the writer always performs a full overwrite.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"
)

// Sound identifies a one-shot audio cue requested by the agent.
type Sound string

const (
	SoundInput        Sound = "input"
	SoundTaskStart    Sound = "task_start"
	SoundTaskComplete Sound = "task_complete"
	SoundError        Sound = "error"
)

// Valid reports whether s is one of the known cue names.
func (s Sound) Valid() bool {
	switch s {
	case SoundInput, SoundTaskStart, SoundTaskComplete, SoundError:
		return true
	}
	return false
}

// Patch is a partial state update parsed from the state file. Every field is
// optional: a nil pointer means the key was absent and the corresponding
// canonical field is left unchanged.
type Patch struct {
	IsActive          *bool   `json:"isActive,omitempty"`
	IsComplete        *bool   `json:"isComplete,omitempty"`
	IsVisible         *bool   `json:"isVisible,omitempty"`
	CurrentStep       *int    `json:"currentStep,omitempty"`
	TotalSteps        *int    `json:"totalSteps,omitempty"`
	AgentType         *string `json:"agentType,omitempty"`
	TaskName          *string `json:"taskName,omitempty"`
	IsWaitingForInput *bool   `json:"isWaitingForInput,omitempty"`
	InputPrompt       *string `json:"inputPrompt,omitempty"`
	PlaySound         *Sound  `json:"playSound,omitempty"`
	SoundTimestamp    *int64  `json:"soundTimestamp,omitempty"`
}

// ParsePatch decodes a full state-file payload. Decoding is all-or-nothing: a
// malformed payload (bad JSON, wrong types) returns an error and no partial
// patch, so a half-written file never corrupts canonical state.
func ParsePatch(data []byte) (Patch, error) {
	var p Patch
	if err := json.Unmarshal(data, &p); err != nil {
		return Patch{}, fmt.Errorf("parse state payload: %w", err)
	}
	return p, nil
}

// Command action tags as they appear on the wire.
const (
	ActionClose     = "close"
	ActionTextInput = "text_input"
)

// Command is a one-shot message to the agent. It is written whole, consumed
// by the agent, and never acknowledged explicitly; the next state patch is
// the only acknowledgment signal.
type Command struct {
	Action    string `json:"action"`
	Text      string `json:"text,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// NewClose builds a close command stamped with the current time.
func NewClose() Command {
	return Command{Action: ActionClose, Timestamp: time.Now().UnixMilli()}
}

// NewTextInput builds a text_input command. Empty text is the cancellation
// sentinel and is deliberately allowed here.
func NewTextInput(text string) Command {
	return Command{Action: ActionTextInput, Text: text, Timestamp: time.Now().UnixMilli()}
}

// ParseCommand decodes a command-file payload.
func ParseCommand(data []byte) (Command, error) {
	var c Command
	if err := json.Unmarshal(data, &c); err != nil {
		return Command{}, fmt.Errorf("parse command payload: %w", err)
	}
	if c.Action != ActionClose && c.Action != ActionTextInput {
		return Command{}, fmt.Errorf("unknown command action %q", c.Action)
	}
	return c, nil
}
