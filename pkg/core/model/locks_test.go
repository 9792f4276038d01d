package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLockSet_IsLocked(t *testing.T) {
	locks := NewLockSet()
	locks.LockClass("c1")
	locks.LockTeacher("Anisha Shah")

	assert.True(t, locks.IsLocked(ScheduledClass{ID: "c1"}))
	assert.True(t, locks.IsLocked(ScheduledClass{ID: "c2", Teacher: "Anisha Shah"}))
	assert.False(t, locks.IsLocked(ScheduledClass{ID: "c3", Teacher: "Other"}))

	locks.UnlockClass("c1")
	assert.False(t, locks.IsLocked(ScheduledClass{ID: "c1"}))
}

func TestLockSet_UnassignedTeacherCannotBeLocked(t *testing.T) {
	locks := NewLockSet()
	locks.LockTeacher(Unassigned)

	assert.Empty(t, locks.Teachers)
	assert.False(t, locks.IsLocked(ScheduledClass{ID: "x"}))
}

func TestLockSet_NilIsUnlocked(t *testing.T) {
	var locks *LockSet
	assert.False(t, locks.IsLocked(ScheduledClass{ID: "c1", Teacher: "T"}))
}

func TestLockSet_LockAll(t *testing.T) {
	s := Snapshot{
		{ID: "c1", Teacher: "A"},
		{ID: "c2", Teacher: Unassigned},
	}

	locks := NewLockSet()
	locks.LockAllClasses(s)
	locks.LockAllTeachers(s)

	assert.Len(t, locks.Classes, 2)
	assert.Len(t, locks.Teachers, 1)
	assert.Equal(t, 2, locks.LockedClassCount(s))

	locks.UnlockAllClasses()
	assert.Equal(t, 1, locks.LockedClassCount(s))
}

func TestLockSet_Prune(t *testing.T) {
	locks := NewLockSet()
	locks.LockClass("gone-b")
	locks.LockClass("kept")
	locks.LockClass("gone-a")

	stale := locks.Prune(Snapshot{{ID: "kept"}})

	assert.Equal(t, []string{"gone-a", "gone-b"}, stale)
	assert.True(t, locks.IsClassLocked("kept"))
	assert.Len(t, locks.Classes, 1)
}

func TestLockSet_CloneIsIndependent(t *testing.T) {
	locks := NewLockSet()
	locks.LockClass("c1")

	clone := locks.Clone()
	clone.LockClass("c2")

	assert.False(t, locks.IsClassLocked("c2"))
	assert.True(t, clone.IsClassLocked("c1"))
}
