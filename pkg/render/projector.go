// Package render maps canonical overlay state to a declarative set of visual
// properties. Project is a pure function — same state in, same projection
// out — so the display logic is testable without any terminal attached.
package render

import (
	"fmt"

	"github.com/BSchoolland/excalibur-v3/pkg/overlay"
)

// Orb is the indicator appearance, first match wins by priority:
// error > complete > active/input > idle.
type Orb string

const (
	OrbError    Orb = "error"
	OrbComplete Orb = "complete"
	OrbActive   Orb = "active"
	OrbInput    Orb = "input"
	OrbIdle     Orb = "idle"
)

// BarFill is the fill state of one progress bar segment.
type BarFill string

const (
	BarComplete BarFill = "complete"
	BarActive   BarFill = "active"
	BarIdle     BarFill = "idle"
)

// Status label text by display mode.
const (
	statusExecuting = "Executing:"
	statusComplete  = "Status:"
	statusInput     = "Input:"
)

// Projection is everything the host surface needs to draw one frame.
type Projection struct {
	Label       string    // agent type label
	StatusLabel string    // "Executing:" / "Status:" / "Input:"
	TaskText    string    // current task description or input prompt
	Counter     string    // "✓", "0/?", "current/total" or ""
	Bars        []BarFill // one entry per step; empty when hidden
	Orb         Orb
	Visible     bool
}

// Project computes the visual properties for a state snapshot. Input mode has
// display priority over completion regardless of the data-level flags.
func Project(s overlay.State) Projection {
	p := Projection{
		Label:   s.AgentType,
		Visible: s.IsVisible,
	}

	switch {
	case s.IsWaitingForInput:
		p.StatusLabel = statusInput
		p.TaskText = s.InputPrompt
		if p.TaskText == "" {
			p.TaskText = s.TaskName
		}
	case s.IsComplete:
		p.StatusLabel = statusComplete
		p.TaskText = s.TaskName
	default:
		p.StatusLabel = statusExecuting
		p.TaskText = s.TaskName
	}

	p.Counter = counterText(s)
	p.Bars = barFills(s)
	p.Orb = orbAppearance(s)
	return p
}

// counterText follows display priority: input mode wins over completion,
// matching the rest of the visible surface.
func counterText(s overlay.State) string {
	switch {
	case s.IsWaitingForInput:
		return "0/?"
	case s.IsComplete:
		return "✓"
	case s.TotalSteps == 0:
		return ""
	default:
		return fmt.Sprintf("%d/%d", s.CurrentStep, s.TotalSteps)
	}
}

// barFills returns one fill per step. Bars are hidden entirely while awaiting
// input or when there is no discrete progress to show.
func barFills(s overlay.State) []BarFill {
	if s.IsWaitingForInput || s.TotalSteps <= 0 {
		return nil
	}
	bars := make([]BarFill, s.TotalSteps)
	for i := range bars {
		switch {
		case s.IsComplete:
			bars[i] = BarComplete
		case i < s.CurrentStep:
			bars[i] = BarActive
		default:
			bars[i] = BarIdle
		}
	}
	return bars
}

// orbAppearance priority: error > complete > input/active > idle. Unlike the
// text surface the orb keeps the complete appearance even while input is
// pending.
func orbAppearance(s overlay.State) Orb {
	switch {
	case s.AgentType == "Error":
		return OrbError
	case s.IsComplete:
		return OrbComplete
	case s.IsWaitingForInput:
		return OrbInput
	case s.IsActive:
		return OrbActive
	default:
		return OrbIdle
	}
}
