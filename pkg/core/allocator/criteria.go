package allocator

import "github.com/jakechorley/studio-scheduler/pkg/core/model"

// ScheduleValidationError represents a validation error for a class or teacher in a schedule
type ScheduleValidationError struct {
	ClassID       string
	Slot          model.SlotKey
	Teacher       model.TeacherID
	CriterionName string
	Description   string
}

// Criterion defines the interface for custom scheduling criteria.
// Criteria can veto candidates before a teacher is chosen, veto individual teachers,
// and check the finished schedule.
type Criterion interface {
	// Name returns a human-readable identifier for this criterion
	Name() string

	// IsCandidateValid determines if a candidate may be placed at all.
	// This acts as a veto - if ANY criterion returns false, the candidate is skipped
	IsCandidateValid(state *ScheduleState, candidate Candidate) bool

	// IsTeacherValid determines if a teacher may take the candidate.
	// duration is the candidate's class length in hours
	IsTeacherValid(state *ScheduleState, candidate Candidate, teacher model.TeacherID, duration float64) bool

	// ValidateScheduleState checks the final schedule against this criterion
	// Returns a slice of validation errors (empty if all valid)
	ValidateScheduleState(state *ScheduleState) []ScheduleValidationError
}

// IsCandidateValid runs every criterion's candidate veto and returns the first that rejects
func IsCandidateValid(state *ScheduleState, candidate Candidate, criteria []Criterion) (bool, string) {
	for _, criterion := range criteria {
		if !criterion.IsCandidateValid(state, candidate) {
			return false, criterion.Name()
		}
	}
	return true, ""
}

// IsTeacherValid runs every criterion's teacher veto and returns the first that rejects
func IsTeacherValid(state *ScheduleState, candidate Candidate, teacher model.TeacherID, duration float64, criteria []Criterion) (bool, string) {
	for _, criterion := range criteria {
		if !criterion.IsTeacherValid(state, candidate, teacher, duration) {
			return false, criterion.Name()
		}
	}
	return true, ""
}
