package allocator

import (
	"slices"

	"github.com/jakechorley/studio-scheduler/pkg/core/model"
	"github.com/jakechorley/studio-scheduler/pkg/core/performance"
)

// ConflictRegistry tracks which slots are occupied and by which class
type ConflictRegistry struct {
	occupied map[model.SlotKey]string
}

// NewConflictRegistry registers every class of the snapshot, which may be empty.
// When a snapshot double-books a slot the first class keeps the slot.
func NewConflictRegistry(s model.Snapshot) *ConflictRegistry {
	r := &ConflictRegistry{occupied: make(map[model.SlotKey]string)}
	for _, c := range s {
		r.Register(c)
	}
	return r
}

func (r *ConflictRegistry) IsOccupied(slot model.SlotKey) bool {
	_, ok := r.occupied[slot]
	return ok
}

// Occupant returns the ID of the class holding the slot
func (r *ConflictRegistry) Occupant(slot model.SlotKey) (string, bool) {
	id, ok := r.occupied[slot]
	return id, ok
}

// Register claims the class's slot. Returns false if the slot was already taken.
func (r *ConflictRegistry) Register(c model.ScheduledClass) bool {
	slot := c.Slot()
	if r.IsOccupied(slot) {
		return false
	}
	r.occupied[slot] = c.ID
	return true
}

func (r *ConflictRegistry) Len() int {
	return len(r.occupied)
}

// LedgerEntry is one teacher's committed load
type LedgerEntry struct {
	Teacher model.TeacherID
	Hours   float64
	Classes int
}

// TeacherLedger accumulates hours per teacher. Unassigned classes are never recorded.
type TeacherLedger struct {
	entries map[model.TeacherID]*LedgerEntry
}

func NewTeacherLedger() *TeacherLedger {
	return &TeacherLedger{entries: make(map[model.TeacherID]*LedgerEntry)}
}

// LedgerFromSnapshot sums the hours of every assigned class in the snapshot
func LedgerFromSnapshot(s model.Snapshot) *TeacherLedger {
	l := NewTeacherLedger()
	for _, c := range s {
		l.Add(c.Teacher, c.Duration)
	}
	return l
}

func (l *TeacherLedger) Add(teacher model.TeacherID, hours float64) {
	if !teacher.IsAssigned() {
		return
	}
	entry, ok := l.entries[teacher]
	if !ok {
		entry = &LedgerEntry{Teacher: teacher}
		l.entries[teacher] = entry
	}
	entry.Hours += hours
	entry.Classes++
}

func (l *TeacherLedger) Hours(teacher model.TeacherID) float64 {
	if entry, ok := l.entries[teacher]; ok {
		return entry.Hours
	}
	return 0
}

func (l *TeacherLedger) Classes(teacher model.TeacherID) int {
	if entry, ok := l.entries[teacher]; ok {
		return entry.Classes
	}
	return 0
}

// Projected returns the teacher's hours if a class of the given duration were added
func (l *TeacherLedger) Projected(teacher model.TeacherID, duration float64) float64 {
	return l.Hours(teacher) + duration
}

// Entries returns a copy of every entry sorted by teacher
func (l *TeacherLedger) Entries() []LedgerEntry {
	out := make([]LedgerEntry, 0, len(l.entries))
	for _, entry := range l.entries {
		out = append(out, *entry)
	}
	slices.SortFunc(out, func(a, b LedgerEntry) int {
		switch {
		case a.Teacher < b.Teacher:
			return -1
		case a.Teacher > b.Teacher:
			return 1
		}
		return 0
	})
	return out
}

func (l *TeacherLedger) Clone() *TeacherLedger {
	out := NewTeacherLedger()
	for teacher, entry := range l.entries {
		copied := *entry
		out.entries[teacher] = &copied
	}
	return out
}

// ScheduleState is the working state of one optimiser run
type ScheduleState struct {
	// Index is the read-only performance lookup built from history
	Index *performance.Index

	Policy Policy

	// Locks are the user's class and teacher locks
	Locks *model.LockSet

	// Schedule holds preserved and newly placed classes, in placement order
	Schedule model.Snapshot

	Conflicts *ConflictRegistry
	Ledger    *TeacherLedger
}

// NewScheduleState creates an empty state
func NewScheduleState(index *performance.Index, policy Policy, locks *model.LockSet) *ScheduleState {
	if locks == nil {
		locks = model.NewLockSet()
	}
	return &ScheduleState{
		Index:     index,
		Policy:    policy,
		Locks:     locks,
		Schedule:  model.Snapshot{},
		Conflicts: NewConflictRegistry(nil),
		Ledger:    NewTeacherLedger(),
	}
}

// Place appends a class and records its slot and hours
func (s *ScheduleState) Place(c model.ScheduledClass) {
	s.Schedule = append(s.Schedule, c)
	s.Conflicts.Register(c)
	s.Ledger.Add(c.Teacher, c.Duration)
}
