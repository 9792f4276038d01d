// Package performance aggregates historical attendance into lookup tables
// used by the optimiser and the top-performer pass.
package performance

import (
	"slices"

	"github.com/jakechorley/studio-scheduler/pkg/core/model"
)

// Aggregate is a running total over a group of historical records
type Aggregate struct {
	Count          int
	TotalCheckedIn int
	TotalRevenue   float64
}

func (a *Aggregate) add(r model.HistoricalRecord) {
	a.Count++
	a.TotalCheckedIn += r.CheckedIn
	a.TotalRevenue += r.Revenue
}

// HasEvidence reports whether any record contributed to the aggregate
func (a Aggregate) HasEvidence() bool {
	return a.Count > 0
}

// Mean returns the average attendance, 0 without evidence
func (a Aggregate) Mean() float64 {
	if a.Count == 0 {
		return 0
	}
	return float64(a.TotalCheckedIn) / float64(a.Count)
}

// MeanRevenue returns the average revenue, 0 without evidence
func (a Aggregate) MeanRevenue() float64 {
	if a.Count == 0 {
		return 0
	}
	return a.TotalRevenue / float64(a.Count)
}

type formatDayLocation struct {
	format   string
	day      model.Weekday
	location string
}

type teacherAtKey struct {
	formatDayLocation
	teacher model.TeacherID
}

// Index is built once from the history and is read-only afterwards
type Index struct {
	records int
	overall Aggregate

	groups     map[model.CandidateKey]*Aggregate
	groupOrder []model.CandidateKey

	combos     map[model.ComboKey]*Aggregate
	comboOrder []model.ComboKey

	teacherAt  map[teacherAtKey]*Aggregate
	teachersAt map[formatDayLocation][]model.TeacherID

	locations map[string]*Aggregate

	teachers []model.TeacherID
}

// New builds an index over the records. Records without a teacher still count
// toward group, location and overall averages but never name a teacher.
func New(records []model.HistoricalRecord) *Index {
	idx := &Index{
		groups:     make(map[model.CandidateKey]*Aggregate),
		combos:     make(map[model.ComboKey]*Aggregate),
		teacherAt:  make(map[teacherAtKey]*Aggregate),
		teachersAt: make(map[formatDayLocation][]model.TeacherID),
		locations:  make(map[string]*Aggregate),
	}
	seenTeachers := make(map[model.TeacherID]bool)

	for _, r := range records {
		idx.records++
		idx.overall.add(r)

		key := r.Key()
		group, ok := idx.groups[key]
		if !ok {
			group = &Aggregate{}
			idx.groups[key] = group
			idx.groupOrder = append(idx.groupOrder, key)
		}
		group.add(r)

		combo := r.Combo()
		comboAgg, ok := idx.combos[combo]
		if !ok {
			comboAgg = &Aggregate{}
			idx.combos[combo] = comboAgg
			idx.comboOrder = append(idx.comboOrder, combo)
		}
		comboAgg.add(r)

		loc, ok := idx.locations[r.Location]
		if !ok {
			loc = &Aggregate{}
			idx.locations[r.Location] = loc
		}
		loc.add(r)

		if !r.Teacher.IsAssigned() {
			continue
		}

		fdl := formatDayLocation{format: r.Format, day: r.Day, location: r.Location}
		tk := teacherAtKey{formatDayLocation: fdl, teacher: r.Teacher}
		agg, ok := idx.teacherAt[tk]
		if !ok {
			agg = &Aggregate{}
			idx.teacherAt[tk] = agg
			idx.teachersAt[fdl] = append(idx.teachersAt[fdl], r.Teacher)
		}
		agg.add(r)

		if !seenTeachers[r.Teacher] {
			seenTeachers[r.Teacher] = true
			idx.teachers = append(idx.teachers, r.Teacher)
		}
	}

	return idx
}

// Len returns the number of records indexed
func (i *Index) Len() int {
	return i.records
}

// Overall aggregates every record
func (i *Index) Overall() Aggregate {
	return i.overall
}

// GroupAverage aggregates records of one format in one slot across all teachers
func (i *Index) GroupAverage(key model.CandidateKey) Aggregate {
	if agg, ok := i.groups[key]; ok {
		return *agg
	}
	return Aggregate{}
}

// ComboAverage aggregates records of one format in one slot taught by one teacher
func (i *Index) ComboAverage(key model.ComboKey) Aggregate {
	if agg, ok := i.combos[key]; ok {
		return *agg
	}
	return Aggregate{}
}

// TeacherAverage aggregates a teacher's records for a format on a day at a location, any time
func (i *Index) TeacherAverage(format string, day model.Weekday, location string, teacher model.TeacherID) Aggregate {
	key := teacherAtKey{
		formatDayLocation: formatDayLocation{format: format, day: day, location: location},
		teacher:           teacher,
	}
	if agg, ok := i.teacherAt[key]; ok {
		return *agg
	}
	return Aggregate{}
}

// LocationAverage aggregates every record at a location
func (i *Index) LocationAverage(location string) Aggregate {
	if agg, ok := i.locations[location]; ok {
		return *agg
	}
	return Aggregate{}
}

// TeachersAt lists, in first-seen order, the teachers who taught the format on the day at the location
func (i *Index) TeachersAt(format string, day model.Weekday, location string) []model.TeacherID {
	found := i.teachersAt[formatDayLocation{format: format, day: day, location: location}]
	out := make([]model.TeacherID, len(found))
	copy(out, found)
	return out
}

// Teachers lists every teacher with at least one record, in first-seen order
func (i *Index) Teachers() []model.TeacherID {
	out := make([]model.TeacherID, len(i.teachers))
	copy(out, i.teachers)
	return out
}

// Candidates lists every distinct candidate key in first-seen order
func (i *Index) Candidates() []model.CandidateKey {
	out := make([]model.CandidateKey, len(i.groupOrder))
	copy(out, i.groupOrder)
	return out
}

// Combos lists every distinct candidate and teacher pairing in first-seen order
func (i *Index) Combos() []model.ComboKey {
	out := make([]model.ComboKey, len(i.comboOrder))
	copy(out, i.comboOrder)
	return out
}

// Locations lists locations in sorted order
func (i *Index) Locations() []string {
	out := make([]string, 0, len(i.locations))
	for loc := range i.locations {
		out = append(out, loc)
	}
	slices.Sort(out)
	return out
}
