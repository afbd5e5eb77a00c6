package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Glyphs for the orb and progress bar segments.
const (
	orbGlyph     = "●"
	barFilled    = "▰"
	barEmpty     = "▱"
	hiddenNotice = ""
)

// Frame renders a projection as a bordered overlay frame of the given width.
// An invisible projection renders as the empty string (the slide-out state).
func Frame(p Projection, theme Theme, width int) string {
	if !p.Visible {
		return hiddenNotice
	}
	if width < 20 {
		width = 20
	}
	inner := width - 4 // border + padding

	orb := lipgloss.NewStyle().
		Foreground(lipgloss.Color(orbColor(p.Orb, theme))).
		Render(orbGlyph)

	label := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(theme.LabelFg)).
		Render(p.Label)

	counter := ""
	if p.Counter != "" {
		counter = lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.CounterFg)).
			Render(p.Counter)
	}

	head := orb + " " + label
	if counter != "" {
		pad := inner - lipgloss.Width(head) - lipgloss.Width(counter)
		if pad < 1 {
			pad = 1
		}
		head += strings.Repeat(" ", pad) + counter
	}

	status := lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.StatusFg)).
		Render(p.StatusLabel)
	task := lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.TaskFg)).
		Render(truncate(p.TaskText, inner-runewidth.StringWidth(p.StatusLabel)-1))

	lines := []string{head, status + " " + task}
	if bars := renderBars(p.Bars, theme, inner); bars != "" {
		lines = append(lines, bars)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.BorderFg)).
		Padding(0, 1).
		Width(width - 2).
		Render(strings.Join(lines, "\n"))
}

// renderBars draws one segment per step. When there are more steps than
// columns the bar row is clipped rather than wrapped.
func renderBars(bars []BarFill, theme Theme, inner int) string {
	if len(bars) == 0 {
		return ""
	}
	var b strings.Builder
	for i, fill := range bars {
		if i*2 >= inner {
			break
		}
		if i > 0 {
			b.WriteString(" ")
		}
		glyph := barEmpty
		color := theme.BarIdleFg
		switch fill {
		case BarComplete:
			glyph = barFilled
			color = theme.BarCompleteFg
		case BarActive:
			glyph = barFilled
			color = theme.BarActiveFg
		}
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(glyph))
	}
	return b.String()
}

func orbColor(o Orb, theme Theme) string {
	switch o {
	case OrbError:
		return theme.OrbError
	case OrbComplete:
		return theme.OrbComplete
	case OrbActive:
		return theme.OrbActive
	case OrbInput:
		return theme.OrbInput
	default:
		return theme.OrbIdle
	}
}

// truncate trims s to the given display width, appending "~" when clipped,
// the same way the sidebar truncates tab names.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width-1, "") + "~"
}
