package allocator

import (
	"fmt"

	"github.com/jakechorley/studio-scheduler/pkg/core/model"
	"github.com/jakechorley/studio-scheduler/pkg/core/performance"
)

// SelectionOutcome describes how a teacher search ended
type SelectionOutcome int

const (
	// TeacherSelected means an eligible historical teacher was found
	TeacherSelected SelectionOutcome = iota
	// NoHistoricalTeacher means nobody has taught the format on that day at that location
	NoHistoricalTeacher
	// NoEligibleTeacher means every historical teacher was rejected
	NoEligibleTeacher
)

func (o SelectionOutcome) String() string {
	switch o {
	case TeacherSelected:
		return "selected"
	case NoHistoricalTeacher:
		return "no historical teacher"
	case NoEligibleTeacher:
		return "no eligible teacher"
	}
	return fmt.Sprintf("SelectionOutcome(%d)", int(o))
}

// TeacherRejection records why a historical teacher could not take a candidate
type TeacherRejection struct {
	Teacher        model.TeacherID
	Reason         string
	ProjectedHours float64
}

// Selection is the result of SelectTeacher
type Selection struct {
	Outcome  SelectionOutcome
	Teacher  model.TeacherID
	Average  performance.Aggregate
	Rejected []TeacherRejection
}

// Rejection reasons applied by every selection
const (
	ReasonTeacherLocked = "teacher locked"
	ReasonHourCap       = "hour cap"
)

// SelectTeacher picks the historical teacher with the best mean attendance for the
// candidate's format on that day at that location. Locked teachers and teachers whose
// projected hours would exceed the hard cap are never chosen. Ties go to the teacher
// with more records, then to the lexicographically smallest ID.
func SelectTeacher(state *ScheduleState, candidate Candidate, duration float64, criteria []Criterion) Selection {
	key := candidate.Key
	historical := state.Index.TeachersAt(key.Format, key.Day, key.Location)

	selection := Selection{
		Outcome:  NoHistoricalTeacher,
		Rejected: []TeacherRejection{},
	}
	if len(historical) == 0 {
		return selection
	}

	found := false
	for _, teacher := range historical {
		projected := state.Ledger.Projected(teacher, duration)

		if state.Locks.IsTeacherLocked(teacher) {
			selection.Rejected = append(selection.Rejected, TeacherRejection{Teacher: teacher, Reason: ReasonTeacherLocked, ProjectedHours: projected})
			continue
		}
		if projected > state.Policy.HardCapHours {
			selection.Rejected = append(selection.Rejected, TeacherRejection{Teacher: teacher, Reason: ReasonHourCap, ProjectedHours: projected})
			continue
		}
		if ok, name := IsTeacherValid(state, candidate, teacher, duration, criteria); !ok {
			selection.Rejected = append(selection.Rejected, TeacherRejection{Teacher: teacher, Reason: name, ProjectedHours: projected})
			continue
		}

		avg := state.Index.TeacherAverage(key.Format, key.Day, key.Location, teacher)
		if !found || betterTeacher(teacher, avg, selection.Teacher, selection.Average) {
			selection.Teacher = teacher
			selection.Average = avg
			found = true
		}
	}

	if found {
		selection.Outcome = TeacherSelected
	} else {
		selection.Outcome = NoEligibleTeacher
	}
	return selection
}

func betterTeacher(teacher model.TeacherID, avg performance.Aggregate, best model.TeacherID, bestAvg performance.Aggregate) bool {
	if avg.Mean() != bestAvg.Mean() {
		return avg.Mean() > bestAvg.Mean()
	}
	if avg.Count != bestAvg.Count {
		return avg.Count > bestAvg.Count
	}
	return teacher < best
}
