// Package controller is the agent-side interface to the overlay. An agent
// process drives the display by writing the full state document to the state
// file and reads user commands back from the command file.
package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/BSchoolland/excalibur-v3/pkg/diag"
	"github.com/BSchoolland/excalibur-v3/pkg/protocol"
)

// commandPollInterval is how often the watcher checks the command file.
const commandPollInterval = 100 * time.Millisecond

// agentState is the full state document the controller owns. Every write
// serializes the whole document; the overlay side treats it as a patch with
// all keys present.
type agentState struct {
	AgentType         string         `json:"agentType"`
	TaskName          string         `json:"taskName"`
	CurrentStep       int            `json:"currentStep"`
	TotalSteps        int            `json:"totalSteps"`
	IsComplete        bool           `json:"isComplete"`
	IsActive          bool           `json:"isActive"`
	IsVisible         bool           `json:"isVisible"`
	IsWaitingForInput bool           `json:"isWaitingForInput"`
	InputPrompt       string         `json:"inputPrompt"`
	PlaySound         protocol.Sound `json:"playSound,omitempty"`
	SoundTimestamp    int64          `json:"soundTimestamp,omitempty"`
}

// Controller drives the overlay from the agent side.
type Controller struct {
	statePath   string
	commandPath string

	mu    sync.Mutex
	state agentState

	onClose  func()
	inputCh  chan string
	cancel   context.CancelFunc
	done     chan struct{}
	running  bool
	lastSeen time.Time
}

// New creates a controller and writes the initial state document so the
// overlay has something to read before the first task.
func New(statePath, commandPath string) (*Controller, error) {
	c := &Controller{
		statePath:   statePath,
		commandPath: commandPath,
		state: agentState{
			AgentType:   "Create",
			TaskName:    "initializing",
			CurrentStep: 0,
			TotalSteps:  3,
			IsActive:    true,
			IsVisible:   false,
		},
	}
	if err := c.writeState(); err != nil {
		return nil, err
	}
	return c, nil
}

// Start launches the command watcher. Idempotent.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.done = make(chan struct{})
	c.running = true
	go c.watchCommands(ctx)
}

// Stop halts the watcher and removes both exchange files.
func (c *Controller) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	cancel, done := c.cancel, c.done
	c.mu.Unlock()

	cancel()
	<-done

	os.Remove(c.statePath)
	os.Remove(c.commandPath)
}

// SetCloseHandler registers a function called when the user closes the
// overlay. Without a handler the default is to hide.
func (c *Controller) SetCloseHandler(handler func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onClose = handler
}

// ShowTask starts a new visible task with the given step count.
func (c *Controller) ShowTask(agentType, taskName string, totalSteps int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.AgentType = agentType
	c.state.TaskName = taskName
	c.state.CurrentStep = 0
	c.state.TotalSteps = totalSteps
	c.state.IsComplete = false
	c.state.IsActive = true
	c.state.IsVisible = true
	return c.writeState()
}

// UpdateStep advances to step number (1-based) and relabels the task line.
func (c *Controller) UpdateStep(stepNumber int, stepName string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.CurrentStep = stepNumber
	c.state.TaskName = stepName
	c.state.IsComplete = false
	return c.writeState()
}

// CompleteTask marks the current task complete. The overlay's completion
// cycle takes it from here.
func (c *Controller) CompleteTask() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.IsComplete = true
	c.state.IsActive = false
	return c.writeState()
}

// Hide slides the overlay out.
func (c *Controller) Hide() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.IsVisible = false
	return c.writeState()
}

// Show slides the overlay in.
func (c *Controller) Show() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.IsVisible = true
	return c.writeState()
}

// SetActive controls the orb pulse.
func (c *Controller) SetActive(isActive bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.IsActive = isActive
	return c.writeState()
}

// PlaySound asks the overlay to play a cue. The timestamp makes repeated
// identical cues distinguishable on the overlay side.
func (c *Controller) PlaySound(sound protocol.Sound) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.PlaySound = sound
	c.state.SoundTimestamp = time.Now().UnixMilli()
	return c.writeState()
}

// SendUpdate applies arbitrary patch fields to the state document. This is
// the escape hatch for fields the named methods don't cover.
func (c *Controller) SendUpdate(p protocol.Patch) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p.IsActive != nil {
		c.state.IsActive = *p.IsActive
	}
	if p.IsComplete != nil {
		c.state.IsComplete = *p.IsComplete
	}
	if p.IsVisible != nil {
		c.state.IsVisible = *p.IsVisible
	}
	if p.CurrentStep != nil {
		c.state.CurrentStep = *p.CurrentStep
	}
	if p.TotalSteps != nil {
		c.state.TotalSteps = *p.TotalSteps
	}
	if p.AgentType != nil {
		c.state.AgentType = *p.AgentType
	}
	if p.TaskName != nil {
		c.state.TaskName = *p.TaskName
	}
	if p.IsWaitingForInput != nil {
		c.state.IsWaitingForInput = *p.IsWaitingForInput
	}
	if p.InputPrompt != nil {
		c.state.InputPrompt = *p.InputPrompt
	}
	if p.PlaySound != nil {
		c.state.PlaySound = *p.PlaySound
	}
	if p.SoundTimestamp != nil {
		c.state.SoundTimestamp = *p.SoundTimestamp
	}
	return c.writeState()
}

// RequestTextInput shows the input prompt and blocks until the user submits
// or cancels, or ctx expires. A cancelled prompt returns "". Requires Start.
func (c *Controller) RequestTextInput(ctx context.Context, prompt string) (string, error) {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return "", fmt.Errorf("controller not started")
	}
	inputCh := make(chan string, 1)
	c.inputCh = inputCh
	c.state.IsWaitingForInput = true
	c.state.InputPrompt = prompt
	c.state.IsVisible = true
	c.state.PlaySound = protocol.SoundInput
	c.state.SoundTimestamp = time.Now().UnixMilli()
	err := c.writeState()
	c.mu.Unlock()
	if err != nil {
		return "", err
	}

	var text string
	select {
	case text = <-inputCh:
	case <-ctx.Done():
		c.clearInput()
		return "", ctx.Err()
	}

	if err := c.clearInput(); err != nil {
		return "", err
	}
	return text, nil
}

func (c *Controller) clearInput() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inputCh = nil
	c.state.IsWaitingForInput = false
	c.state.InputPrompt = ""
	return c.writeState()
}

// writeState serializes the full document. Caller holds c.mu.
func (c *Controller) writeState() error {
	data, err := json.Marshal(c.state)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	if err := os.WriteFile(c.statePath, data, 0644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return nil
}

// watchCommands polls the command file by mtime and consumes each new
// command, deleting the file afterward so the same command is never
// processed twice.
func (c *Controller) watchCommands(ctx context.Context) {
	defer diag.RecoverAndLog("controller.watchCommands")
	defer close(c.done)

	ticker := time.NewTicker(commandPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.checkCommand()
		case <-ctx.Done():
			return
		}
	}
}

func (c *Controller) checkCommand() {
	info, err := os.Stat(c.commandPath)
	if err != nil {
		return
	}
	c.mu.Lock()
	stale := !info.ModTime().After(c.lastSeen)
	if !stale {
		c.lastSeen = info.ModTime()
	}
	c.mu.Unlock()
	if stale {
		return
	}

	data, err := os.ReadFile(c.commandPath)
	if err != nil {
		diag.Event("read command file: %v", err)
		return
	}
	cmd, err := protocol.ParseCommand(data)
	if err != nil {
		diag.Event("skip malformed command: %v", err)
		os.Remove(c.commandPath)
		return
	}
	os.Remove(c.commandPath)
	c.dispatch(cmd)
}

func (c *Controller) dispatch(cmd protocol.Command) {
	switch cmd.Action {
	case protocol.ActionClose:
		c.mu.Lock()
		handler := c.onClose
		c.mu.Unlock()
		if handler != nil {
			// Own goroutine: handlers commonly call Stop, which joins the
			// watcher goroutine this dispatch runs on.
			go handler()
		} else {
			_ = c.Hide()
		}
	case protocol.ActionTextInput:
		c.mu.Lock()
		ch := c.inputCh
		c.mu.Unlock()
		if ch != nil {
			select {
			case ch <- cmd.Text:
			default:
			}
		}
	}
}
