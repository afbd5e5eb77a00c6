package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/BSchoolland/excalibur-v3/pkg/config"
	"github.com/BSchoolland/excalibur-v3/pkg/diag"
	"github.com/BSchoolland/excalibur-v3/pkg/overlay"
	"github.com/BSchoolland/excalibur-v3/pkg/paths"
	"github.com/BSchoolland/excalibur-v3/pkg/protocol"
	"github.com/BSchoolland/excalibur-v3/pkg/render"
	"github.com/BSchoolland/excalibur-v3/pkg/statefile"
)

// focusDelay postpones focusing the input until after the surface has been
// drawn once.
const focusDelay = 10 * time.Millisecond

type patchMsg protocol.Patch

type phaseMsg overlay.Action

type pulseMsg time.Time

type flashEndMsg struct{}

type focusInputMsg struct{}

type writeErrMsg struct{ err error }

type model struct {
	machine  *overlay.Machine
	writer   *protocol.Writer
	theme    render.Theme
	width    int // current frame width, tracks the terminal
	maxWidth int // configured frame width
	soundOn  bool

	state     overlay.State
	input     textinput.Model
	showInput bool
	flash     bool
}

func pulseTick(period time.Duration) tea.Cmd {
	return tea.Tick(period, func(t time.Time) tea.Msg {
		return pulseMsg(t)
	})
}

func phaseAfter(e overlay.Effect) tea.Cmd {
	return tea.Tick(e.After, func(time.Time) tea.Msg {
		return phaseMsg(e.Action)
	})
}

func ringBell() tea.Msg {
	fmt.Fprint(os.Stderr, "\a")
	return nil
}

func (m model) sendCommand(cmd protocol.Command) tea.Cmd {
	writer := m.writer
	return func() tea.Msg {
		if err := writer.Write(cmd); err != nil {
			return writeErrMsg{err}
		}
		return nil
	}
}

func (m model) Init() tea.Cmd {
	return pulseTick(m.machine.Timing().PulsePeriod)
}

// applyEffects executes the side effects of a transition: immediate ones
// inline, delayed ones as tea.Tick timers.
func (m *model) applyEffects(effects []overlay.Effect) []tea.Cmd {
	var cmds []tea.Cmd
	for _, e := range effects {
		switch e.Action {
		case overlay.ActionPlayCue:
			if m.soundOn {
				cmds = append(cmds, ringBell)
			}
		case overlay.ActionEnterInput:
			m.showInput = true
			m.input.Reset()
			m.input.Placeholder = e.Prompt
			cmds = append(cmds, tea.Tick(focusDelay, func(time.Time) tea.Msg {
				return focusInputMsg{}
			}))
		case overlay.ActionExitInput:
			m.showInput = false
			m.input.Blur()
			m.input.Reset()
		case overlay.ActionReenableInput:
			// View reads machine.InputDisabled directly; nothing to do.
		case overlay.ActionHide, overlay.ActionReset:
			cmds = append(cmds, phaseAfter(e))
		}
	}
	return cmds
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case patchMsg:
		state, effects := m.machine.Apply(protocol.Patch(msg))
		m.state = state
		return m, tea.Batch(m.applyEffects(effects)...)

	case phaseMsg:
		m.state = m.machine.Trigger(overlay.Action(msg))
		return m, nil

	case pulseMsg:
		m.state, _ = m.machine.TogglePulse()
		return m, pulseTick(m.machine.Timing().PulsePeriod)

	case flashEndMsg:
		m.flash = false
		return m, nil

	case focusInputMsg:
		if !m.showInput {
			return m, nil
		}
		return m, tea.Batch(m.input.Focus(), textinput.Blink)

	case writeErrMsg:
		diag.Event("command write failed: %v", msg.err)
		m.machine.EnableInput()
		return m, nil

	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = min(msg.Width, m.maxWidth)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showInput {
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.machine.InputDisabled() {
			return m, nil
		}
		switch msg.String() {
		case "enter":
			cmd, ok := m.machine.Submit(m.input.Value())
			if !ok {
				m.flash = true
				return m, tea.Tick(m.machine.Timing().FlashDuration, func(time.Time) tea.Msg {
					return flashEndMsg{}
				})
			}
			return m, m.sendCommand(cmd)
		case "esc", "escape":
			return m, m.sendCommand(m.machine.Cancel())
		default:
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "x":
		// Close button analog. Local state stays put until the agent reacts.
		return m, m.sendCommand(m.machine.Close())
	}
	return m, nil
}

func (m model) View() string {
	proj := render.Project(m.state)
	s := render.Frame(proj, m.theme, m.width)

	if m.showInput {
		if s != "" {
			s += "\n"
		}
		s += m.inputView()
	}
	return s
}

func (m model) inputView() string {
	borderFg := m.theme.BorderFg
	textFg := m.theme.InputFg
	switch {
	case m.flash:
		borderFg = m.theme.InputErrorFg
	case m.machine.InputDisabled():
		textFg = m.theme.InputDisabledFg
	}

	field := m.input.View()
	hint := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.InputDisabledFg)).
		Render("enter submit · esc cancel")

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(borderFg)).
		Foreground(lipgloss.Color(textFg)).
		Padding(0, 1).
		Width(m.width - 2).
		Render(field + "\n" + hint)
}

func main() {
	// Force ANSI256 color mode to avoid partial 24-bit escape code issues
	lipgloss.SetColorProfile(termenv.ANSI256)

	diag.InitCrashLog("overlay")
	diag.InitEventLog("overlay")
	defer diag.RecoverAndLog("main")

	cfg, err := config.Load(paths.ConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "overlay: %v\n", err)
		os.Exit(1)
	}
	if _, err := paths.EnsureStateDir(); err != nil {
		fmt.Fprintf(os.Stderr, "overlay: %v\n", err)
		os.Exit(1)
	}

	timing := overlay.Timing{
		HideDelay:     time.Duration(cfg.Timing.HideDelayMs) * time.Millisecond,
		ResetDelay:    time.Duration(cfg.Timing.ResetDelayMs) * time.Millisecond,
		PulsePeriod:   time.Duration(cfg.Timing.PulseMs) * time.Millisecond,
		FlashDuration: time.Duration(cfg.Timing.FlashMs) * time.Millisecond,
	}
	machine := overlay.NewMachine(timing)

	ti := textinput.New()
	ti.CharLimit = 256
	ti.Prompt = "> "
	ti.Width = cfg.Render.Width - 8

	m := model{
		machine:  machine,
		writer:   protocol.NewWriter(cfg.Files.Command),
		theme:    render.ResolveTheme(cfg.Render.Theme),
		width:    cfg.Render.Width,
		maxWidth: cfg.Render.Width,
		soundOn:  cfg.SoundEnabled(),
		state:    machine.State(),
		input:    ti,
	}

	p := tea.NewProgram(m, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	poller := statefile.New(
		cfg.Files.State,
		time.Duration(cfg.Poll.IntervalMs)*time.Millisecond,
		time.Duration(cfg.Poll.GraceMs)*time.Millisecond,
	)
	go poller.Run(ctx, func(patch protocol.Patch) {
		p.Send(patchMsg(patch))
	})

	diag.Event("overlay started, state file %s", cfg.Files.State)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "overlay: %v\n", err)
		os.Exit(1)
	}
}
