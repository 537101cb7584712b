package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"newsreel/internal/logger"
)

const (
	Running = "RUNNING"
	Paused  = "PAUSED"
)

// File is the run/pause flag the dashboard flips and the scheduler reads.
// It is a separate file from the dedup history on purpose: one is posting
// policy, the other is posting memory, and they have different shapes.
type File struct {
	path string
	mu   sync.Mutex
}

type payload struct {
	Status string `json:"status"`
}

func NewFile(path string) *File {
	return &File{path: path}
}

// Get returns the current status. A missing or unreadable flag means
// PAUSED: the bot never posts unless someone asked it to.
func (f *File) Get() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		return Paused
	}

	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		logger.Warn("state file corrupt, treating as paused", "path", f.path, "error", err)
		return Paused
	}
	if p.Status != Running && p.Status != Paused {
		return Paused
	}
	return p.Status
}

// Set persists the status flag.
func (f *File) Set(status string) error {
	if status != Running && status != Paused {
		return fmt.Errorf("invalid status %q", status)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.Marshal(payload{Status: status})
	if err != nil {
		return err
	}

	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create state dir: %w", err)
		}
	}

	if err := os.WriteFile(f.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	return nil
}
