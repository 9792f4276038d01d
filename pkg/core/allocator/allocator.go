package allocator

import (
	"context"
	"fmt"
	"slices"

	"github.com/jakechorley/studio-scheduler/pkg/core/model"
	"github.com/jakechorley/studio-scheduler/pkg/core/performance"
)

// ClassSource tags IDs of classes placed by the optimiser
const ClassSource = "optimizer"

// OptimizeConfig contains the inputs for one optimiser run
type OptimizeConfig struct {
	// Index is the performance lookup built from history
	Index *performance.Index

	// Base is the current schedule. Locked entries are preserved, the rest are re-optimised
	Base model.Snapshot

	// Locks are the user's class and teacher locks
	Locks *model.LockSet

	// Iteration rotates the candidate order so repeated runs explore different schedules
	Iteration int

	Policy Policy

	// Criteria to apply on top of the built-in rules
	Criteria []Criterion

	// Candidates, when set, replaces ranking. It must already be rotated for Iteration
	Candidates []Candidate

	// Unavailable teachers receive no new classes, so they do not hold back the
	// soft threshold early stop. Keeping them off classes is left to Criteria.
	Unavailable []model.TeacherID
}

// SkipReason explains why a candidate produced no class
type SkipReason string

const (
	SkipBlackout  SkipReason = "blackout"
	SkipOccupied  SkipReason = "slot occupied"
	SkipCriterion SkipReason = "criterion"
	SkipNoTeacher SkipReason = "no teacher"
)

// Skip is a diagnostic for a candidate that was not placed
type Skip struct {
	Candidate model.CandidateKey
	Reason    SkipReason
	Detail    string
}

// Outcome represents the result of an optimiser run
type Outcome struct {
	// State is the final schedule state
	State *ScheduleState

	// Schedule is the proposed snapshot: preserved entries first, then placements in rank order
	Schedule model.Snapshot

	Preserved  int
	Placed     int
	Unassigned int

	// Skipped lists candidates that produced no class, in rank order
	Skipped []Skip

	// StoppedEarly is set when every historical teacher reached the soft threshold
	StoppedEarly bool

	// Cancelled is set when the context ended before every candidate was considered
	Cancelled bool

	ValidationErrors []ScheduleValidationError
}

type optimizer struct {
	state     *ScheduleState
	criteria  []Criterion
	blackouts []BlackoutWindow
	outcome   *Outcome
}

// Optimize builds a proposed weekly schedule from historical performance.
// Insufficient data yields a smaller schedule, never an error. The only errors
// are configuration errors.
func Optimize(ctx context.Context, config OptimizeConfig) (*Outcome, error) {
	if config.Index == nil {
		return nil, fmt.Errorf("optimize: performance index is required")
	}
	if err := config.Policy.Validate(); err != nil {
		return nil, fmt.Errorf("optimize: invalid policy: %w", err)
	}
	blackouts, err := ParseBlackoutRules(config.Policy.BlackoutRules)
	if err != nil {
		return nil, fmt.Errorf("optimize: %w", err)
	}

	// Work on a copy so the caller's lock set is never mutated
	o := &optimizer{
		state:     NewScheduleState(config.Index, config.Policy, config.Locks.Clone()),
		criteria:  config.Criteria,
		blackouts: blackouts,
		// Initialize with empty slices (not nil) for easier consumption
		outcome: &Outcome{
			Skipped:          []Skip{},
			ValidationErrors: []ScheduleValidationError{},
		},
	}

	o.preserveLocked(config.Base)

	candidates := config.Candidates
	if candidates == nil {
		candidates = RankCandidates(config.Index, config.Iteration)
	}

	teachers := o.assignableTeachers(config.Unavailable)

	for _, candidate := range candidates {
		if ctx.Err() != nil {
			o.outcome.Cancelled = true
			break
		}

		o.considerCandidate(candidate)

		if o.softThresholdReached(teachers) {
			o.outcome.StoppedEarly = true
			break
		}
	}

	return o.buildOutcome(), nil
}

// preserveLocked copies locked base entries verbatim and seeds the registry and ledger
func (o *optimizer) preserveLocked(base model.Snapshot) {
	for _, class := range base {
		if !o.state.Locks.IsLocked(class) {
			continue
		}
		o.state.Place(class)
		o.outcome.Preserved++
	}
}

func (o *optimizer) considerCandidate(candidate Candidate) {
	slot := candidate.Key.Slot()

	if o.state.Policy.IsWeekendExcluded(slot) {
		o.skip(candidate, SkipBlackout, fmt.Sprintf("weekend classes from %02d:00", o.state.Policy.WeekendExclusionHour))
		return
	}
	for _, window := range o.blackouts {
		if window.Covers(slot) {
			o.skip(candidate, SkipBlackout, window.Rule)
			return
		}
	}

	if occupant, taken := o.state.Conflicts.Occupant(slot); taken {
		o.skip(candidate, SkipOccupied, occupant)
		return
	}

	if ok, name := IsCandidateValid(o.state, candidate, o.criteria); !ok {
		o.skip(candidate, SkipCriterion, name)
		return
	}

	duration := model.ClassDuration(candidate.Key.Format)
	selection := SelectTeacher(o.state, candidate, duration, o.criteria)

	teacher := model.Unassigned
	if selection.Outcome == TeacherSelected {
		teacher = selection.Teacher
	} else if !o.state.Policy.EmitUnassigned {
		o.skip(candidate, SkipNoTeacher, selection.Outcome.String())
		return
	}

	class := model.NewScheduledClass(model.ClassID(ClassSource, candidate.Key, teacher), candidate.Key, teacher)
	class.Participants = candidate.Mean
	class.Revenue = candidate.MeanRevenue
	if selection.Outcome == TeacherSelected {
		class.Participants = selection.Average.Mean()
		class.Revenue = selection.Average.MeanRevenue()
	}

	o.state.Place(class)
	o.outcome.Placed++
	if !class.IsAssigned() {
		o.outcome.Unassigned++
	}
}

func (o *optimizer) skip(candidate Candidate, reason SkipReason, detail string) {
	o.outcome.Skipped = append(o.outcome.Skipped, Skip{Candidate: candidate.Key, Reason: reason, Detail: detail})
}

// assignableTeachers are historical teachers who may still receive classes:
// neither locked nor unavailable
func (o *optimizer) assignableTeachers(unavailable []model.TeacherID) []model.TeacherID {
	teachers := make([]model.TeacherID, 0)
	for _, teacher := range o.state.Index.Teachers() {
		if o.state.Locks.IsTeacherLocked(teacher) || slices.Contains(unavailable, teacher) {
			continue
		}
		teachers = append(teachers, teacher)
	}
	return teachers
}

// softThresholdReached reports whether every assignable teacher is at the soft threshold.
// With no assignable teachers the run continues so unassigned classes are still proposed.
func (o *optimizer) softThresholdReached(teachers []model.TeacherID) bool {
	if len(teachers) == 0 {
		return false
	}
	for _, teacher := range teachers {
		if o.state.Ledger.Hours(teacher) < o.state.Policy.SoftWarnHours {
			return false
		}
	}
	return true
}

// buildOutcome creates the final optimiser report
func (o *optimizer) buildOutcome() *Outcome {
	o.outcome.State = o.state
	o.outcome.Schedule = o.state.Schedule.Clone()
	o.outcome.ValidationErrors = ValidateScheduleState(o.state, o.criteria)
	return o.outcome
}
