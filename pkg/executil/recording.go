package executil

import (
	"context"
	"sync"
)

// RecordedCommand captures a command line that was executed.
type RecordedCommand struct {
	Cmdline string
	Input   []byte
}

// RecordingRunner captures commands for testing.
// Set Err to control the returned error.
type RecordingRunner struct {
	mu       sync.Mutex
	Commands []RecordedCommand
	Err      error
}

var _ Runner = (*RecordingRunner)(nil)

// RunSh records the command line and input and returns the configured error.
func (r *RecordingRunner) RunSh(_ context.Context, cmdline string, input []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Commands = append(r.Commands, RecordedCommand{Cmdline: cmdline, Input: input})
	return r.Err
}

// Recorded returns a copy of the recorded commands.
func (r *RecordingRunner) Recorded() []RecordedCommand {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]RecordedCommand, len(r.Commands))
	copy(out, r.Commands)
	return out
}
