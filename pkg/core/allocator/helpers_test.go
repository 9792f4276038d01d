package allocator

import (
	"fmt"

	"github.com/jakechorley/studio-scheduler/pkg/core/model"
	"github.com/jakechorley/studio-scheduler/pkg/core/performance"
)

func rec(format string, day model.Weekday, time, location string, teacher model.TeacherID, checkedIn int) model.HistoricalRecord {
	return model.HistoricalRecord{
		Format:    format,
		Day:       day,
		Time:      time,
		Location:  location,
		Teacher:   teacher,
		CheckedIn: checkedIn,
		Revenue:   float64(checkedIn) * 100,
	}
}

func key(format string, day model.Weekday, time, location string) model.CandidateKey {
	return model.CandidateKey{Format: format, Day: day, Time: time, Location: location}
}

func index(records ...model.HistoricalRecord) *performance.Index {
	return performance.New(records)
}

// lockedLoad builds classes for one teacher at distinct slots, each one hour long
func lockedLoad(teacher model.TeacherID, hours int) model.Snapshot {
	s := model.Snapshot{}
	for i := 0; i < hours; i++ {
		day := model.Weekdays[i%len(model.Weekdays)]
		time := fmt.Sprintf("%02d:00", 6+i/len(model.Weekdays))
		s = append(s, model.NewScheduledClass(fmt.Sprintf("load-%d", i), key("Barre", day, time, "Other"), teacher))
	}
	return s
}

// failingCriterion vetoes everything it is asked about
type failingCriterion struct {
	vetoCandidates bool
	vetoTeacher    model.TeacherID
	errors         []ScheduleValidationError
}

func (c *failingCriterion) Name() string { return "Failing" }

func (c *failingCriterion) IsCandidateValid(state *ScheduleState, candidate Candidate) bool {
	return !c.vetoCandidates
}

func (c *failingCriterion) IsTeacherValid(state *ScheduleState, candidate Candidate, teacher model.TeacherID, duration float64) bool {
	return teacher != c.vetoTeacher
}

func (c *failingCriterion) ValidateScheduleState(state *ScheduleState) []ScheduleValidationError {
	return c.errors
}
