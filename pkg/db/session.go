package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jakechorley/studio-scheduler/pkg/core/history"
	"github.com/jakechorley/studio-scheduler/pkg/core/model"
)

// ErrNoSession is returned by a SessionStore that has never been saved to
var ErrNoSession = errors.New("no session saved")

// Session is the persisted working state between commands
type Session struct {
	ID string `json:"id" yaml:"id"`

	// Schedule is the committed schedule
	Schedule model.Snapshot `json:"schedule" yaml:"schedule"`

	// History and HistoryIndex persist the undo/redo stack
	History      []model.Snapshot `json:"history" yaml:"history"`
	HistoryIndex int              `json:"historyIndex" yaml:"historyIndex"`

	Locks *model.LockSet `json:"locks" yaml:"locks"`

	// Unavailable teachers are kept off new classes
	Unavailable []model.TeacherID `json:"unavailable" yaml:"unavailable"`

	// Iteration counts optimiser runs and rotates candidate order
	Iteration int `json:"iteration" yaml:"iteration"`

	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt"`
}

// NewSession returns an empty session with no history
func NewSession() *Session {
	return &Session{
		ID:           uuid.NewString(),
		Schedule:     model.Snapshot{},
		History:      []model.Snapshot{},
		HistoryIndex: -1,
		Locks:        model.NewLockSet(),
		Unavailable:  []model.TeacherID{},
	}
}

// LoadOrCreateSession loads the stored session, starting a new one if none exists
func LoadOrCreateSession(ctx context.Context, store SessionStore) (*Session, error) {
	session, err := store.LoadSession(ctx)
	if errors.Is(err, ErrNoSession) {
		return NewSession(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session.Locks == nil {
		session.Locks = model.NewLockSet()
	}
	return session, nil
}

// Stack rebuilds the undo/redo stack
func (s *Session) Stack() (*history.Stack, error) {
	return history.Restore(s.History, s.HistoryIndex)
}

// SetStack stores the undo/redo stack
func (s *Session) SetStack(stack *history.Stack) {
	s.History = stack.Entries()
	s.HistoryIndex = stack.Index()
}

// IsUnavailable reports whether the teacher is marked unavailable
func (s *Session) IsUnavailable(teacher model.TeacherID) bool {
	for _, t := range s.Unavailable {
		if t == teacher {
			return true
		}
	}
	return false
}

// SetAvailability marks the teacher available or unavailable
func (s *Session) SetAvailability(teacher model.TeacherID, available bool) {
	kept := make([]model.TeacherID, 0, len(s.Unavailable)+1)
	for _, t := range s.Unavailable {
		if t != teacher {
			kept = append(kept, t)
		}
	}
	if !available {
		kept = append(kept, teacher)
	}
	s.Unavailable = kept
}
