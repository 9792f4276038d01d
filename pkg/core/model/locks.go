package model

import "slices"

// LockSet records which classes and teachers the optimiser must leave alone.
// A class is locked when its ID is locked or when its assigned teacher is locked.
type LockSet struct {
	Classes  map[string]bool    `json:"classes" yaml:"classes"`
	Teachers map[TeacherID]bool `json:"teachers" yaml:"teachers"`
}

func NewLockSet() *LockSet {
	return &LockSet{
		Classes:  make(map[string]bool),
		Teachers: make(map[TeacherID]bool),
	}
}

func (l *LockSet) ensure() {
	if l.Classes == nil {
		l.Classes = make(map[string]bool)
	}
	if l.Teachers == nil {
		l.Teachers = make(map[TeacherID]bool)
	}
}

func (l *LockSet) LockClass(id string) {
	l.ensure()
	l.Classes[id] = true
}

func (l *LockSet) UnlockClass(id string) {
	delete(l.Classes, id)
}

func (l *LockSet) LockTeacher(teacher TeacherID) {
	if !teacher.IsAssigned() {
		return
	}
	l.ensure()
	l.Teachers[teacher] = true
}

func (l *LockSet) UnlockTeacher(teacher TeacherID) {
	delete(l.Teachers, teacher)
}

func (l *LockSet) IsClassLocked(id string) bool {
	return l != nil && l.Classes[id]
}

func (l *LockSet) IsTeacherLocked(teacher TeacherID) bool {
	return l != nil && teacher.IsAssigned() && l.Teachers[teacher]
}

// IsLocked reports whether the class must be preserved verbatim
func (l *LockSet) IsLocked(c ScheduledClass) bool {
	return l.IsClassLocked(c.ID) || l.IsTeacherLocked(c.Teacher)
}

// LockAllClasses locks every class in the snapshot
func (l *LockSet) LockAllClasses(s Snapshot) {
	for _, c := range s {
		l.LockClass(c.ID)
	}
}

// LockAllTeachers locks every assigned teacher in the snapshot
func (l *LockSet) LockAllTeachers(s Snapshot) {
	for _, c := range s {
		l.LockTeacher(c.Teacher)
	}
}

func (l *LockSet) UnlockAllClasses() {
	l.Classes = make(map[string]bool)
}

func (l *LockSet) UnlockAllTeachers() {
	l.Teachers = make(map[TeacherID]bool)
}

// Prune drops class locks that no longer refer to a class in the snapshot
// and returns the dropped IDs in sorted order.
func (l *LockSet) Prune(s Snapshot) []string {
	present := make(map[string]bool, len(s))
	for _, c := range s {
		present[c.ID] = true
	}
	stale := make([]string, 0)
	for id := range l.Classes {
		if !present[id] {
			stale = append(stale, id)
		}
	}
	for _, id := range stale {
		delete(l.Classes, id)
	}
	slices.Sort(stale)
	return stale
}

func (l *LockSet) Clone() *LockSet {
	out := NewLockSet()
	if l == nil {
		return out
	}
	for id, locked := range l.Classes {
		out.Classes[id] = locked
	}
	for teacher, locked := range l.Teachers {
		out.Teachers[teacher] = locked
	}
	return out
}

// LockedClassCount returns how many classes of the snapshot are locked
func (l *LockSet) LockedClassCount(s Snapshot) int {
	count := 0
	for _, c := range s {
		if l.IsLocked(c) {
			count++
		}
	}
	return count
}
