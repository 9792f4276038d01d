// Package history keeps an undo/redo stack of schedule snapshots.
package history

import (
	"errors"
	"fmt"

	"github.com/jakechorley/studio-scheduler/pkg/core/model"
)

// ErrEmpty is returned when a stack has no snapshots to act on
var ErrEmpty = errors.New("history is empty")

// Stack is a linear undo/redo history. Pushing while not at the newest snapshot
// discards every snapshot after the current one. Snapshots are copied in and out.
type Stack struct {
	entries []model.Snapshot
	index   int
}

func New() *Stack {
	return &Stack{index: -1}
}

// Push records a new snapshot and makes it current
func (s *Stack) Push(snapshot model.Snapshot) {
	s.entries = append(s.entries[:s.index+1], snapshot.Clone())
	s.index = len(s.entries) - 1
}

// Undo moves back one snapshot. Returns false at the oldest snapshot.
func (s *Stack) Undo() (model.Snapshot, bool) {
	if !s.CanUndo() {
		return nil, false
	}
	s.index--
	return s.entries[s.index].Clone(), true
}

// Redo moves forward one snapshot. Returns false at the newest snapshot.
func (s *Stack) Redo() (model.Snapshot, bool) {
	if !s.CanRedo() {
		return nil, false
	}
	s.index++
	return s.entries[s.index].Clone(), true
}

func (s *Stack) CanUndo() bool {
	return s.index > 0
}

func (s *Stack) CanRedo() bool {
	return s.index >= 0 && s.index < len(s.entries)-1
}

// Current returns the snapshot at the cursor
func (s *Stack) Current() (model.Snapshot, bool) {
	if s.index < 0 {
		return nil, false
	}
	return s.entries[s.index].Clone(), true
}

func (s *Stack) Clear() {
	s.entries = nil
	s.index = -1
}

// Index is the cursor position, -1 when empty
func (s *Stack) Index() int {
	return s.index
}

func (s *Stack) Len() int {
	return len(s.entries)
}

// Entries returns copies of every snapshot, oldest first
func (s *Stack) Entries() []model.Snapshot {
	out := make([]model.Snapshot, len(s.entries))
	for i, entry := range s.entries {
		out[i] = entry.Clone()
	}
	return out
}

// Restore replaces the stack with persisted entries and cursor
func Restore(entries []model.Snapshot, index int) (*Stack, error) {
	if len(entries) == 0 {
		if index != -1 {
			return nil, fmt.Errorf("restore history: index %d with no entries: %w", index, ErrEmpty)
		}
		return New(), nil
	}
	if index < 0 || index >= len(entries) {
		return nil, fmt.Errorf("restore history: index %d out of range [0, %d)", index, len(entries))
	}

	s := &Stack{entries: make([]model.Snapshot, len(entries)), index: index}
	for i, entry := range entries {
		s.entries[i] = entry.Clone()
	}
	return s, nil
}
