package protocol

import (
	"encoding/json"
	"fmt"
	"os"
)

// Writer persists commands for the agent to consume. Each Write replaces the
// file entirely — no queuing, no batching. Calling it twice in quick
// succession leaves only the second command (last-writer-wins), which is the
// protocol's intended behavior.
type Writer struct {
	path string
}

// NewWriter returns a writer targeting the given command file path.
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// Write serializes cmd and overwrites the command file. Failures are returned
// to the caller so the UI can re-enable interactive input instead of leaving
// it disabled forever.
func (w *Writer) Write(cmd Command) error {
	data, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("marshal command: %w", err)
	}
	if err := os.WriteFile(w.path, data, 0644); err != nil {
		return fmt.Errorf("write command file: %w", err)
	}
	return nil
}
