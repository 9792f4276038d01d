package services

import (
	"fmt"
	"strings"

	"github.com/jakechorley/studio-scheduler/pkg/core/allocator"
	"github.com/jakechorley/studio-scheduler/pkg/core/model"
)

// HourCapViolation is a teacher whose weekly hours exceed the hard cap
type HourCapViolation struct {
	Teacher model.TeacherID
	Hours   float64
	Cap     float64
}

func (v HourCapViolation) String() string {
	return fmt.Sprintf("%s: %.1fh (limit %.0fh)", v.Teacher, v.Hours, v.Cap)
}

// HourWarning is a teacher above the soft threshold but within the cap
type HourWarning struct {
	Teacher   model.TeacherID
	Hours     float64
	Threshold float64
}

func (w HourWarning) String() string {
	return fmt.Sprintf("%s: %.1fh (warning at %.0fh)", w.Teacher, w.Hours, w.Threshold)
}

// CommitResult reports whether a proposed snapshot may replace the current one
type CommitResult struct {
	Accepted   bool
	Violations []HourCapViolation
	Warnings   []HourWarning
}

// Diagnostic lists every offending teacher with their hours
func (r CommitResult) Diagnostic() string {
	if r.Accepted {
		return ""
	}
	lines := make([]string, len(r.Violations))
	for i, v := range r.Violations {
		lines[i] = v.String()
	}
	return "teachers over the weekly hour limit:\n  " + strings.Join(lines, "\n  ")
}

// CheckCommit validates a proposed snapshot against the hour cap. The proposal is
// accepted only if no teacher exceeds the cap. Teachers above the soft threshold
// are reported as warnings either way.
func CheckCommit(policy allocator.Policy, proposal model.Snapshot) CommitResult {
	result := CommitResult{
		Violations: []HourCapViolation{},
		Warnings:   []HourWarning{},
	}

	// Entries are sorted by teacher so diagnostics are stable
	for _, entry := range allocator.LedgerFromSnapshot(proposal).Entries() {
		switch {
		case entry.Hours > policy.HardCapHours:
			result.Violations = append(result.Violations, HourCapViolation{Teacher: entry.Teacher, Hours: entry.Hours, Cap: policy.HardCapHours})
		case entry.Hours > policy.SoftWarnHours:
			result.Warnings = append(result.Warnings, HourWarning{Teacher: entry.Teacher, Hours: entry.Hours, Threshold: policy.SoftWarnHours})
		}
	}

	result.Accepted = len(result.Violations) == 0
	return result
}
