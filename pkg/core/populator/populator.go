// Package populator proposes top-performing classes from history: combinations
// whose mean attendance beats their location's average and a fixed floor.
package populator

import (
	"fmt"

	"github.com/jakechorley/studio-scheduler/pkg/core/allocator"
	"github.com/jakechorley/studio-scheduler/pkg/core/model"
	"github.com/jakechorley/studio-scheduler/pkg/core/performance"
)

// ClassSource tags IDs of classes proposed by the populator
const ClassSource = "top"

// Skip reasons
const (
	ReasonSlotOccupied = "slot occupied"
	ReasonHourCap      = "hour cap"
)

// Options controls a populate run
type Options struct {
	// AttributeTeacher keys combinations by teacher and names the teacher on each entry.
	// Without it entries are grouped across teachers and left unassigned.
	AttributeTeacher bool

	// EnforceHourCap drops entries that would take their teacher above the hard cap,
	// counting entries already proposed in the same run. Only meaningful with AttributeTeacher.
	EnforceHourCap bool

	// AllowMultiBooking emits entries even when their slot is already taken
	AllowMultiBooking bool

	Policy allocator.Policy
}

// Skipped is an entry that met the threshold but was not emitted
type Skipped struct {
	Key            model.ComboKey
	Reason         string
	ProjectedHours float64
	Occupant       string
}

func (s Skipped) String() string {
	switch s.Reason {
	case ReasonHourCap:
		return fmt.Sprintf("%s: %s would reach %.1fh", s.Key.CandidateKey, s.Key.Teacher, s.ProjectedHours)
	case ReasonSlotOccupied:
		return fmt.Sprintf("%s: slot held by %s", s.Key.CandidateKey, s.Occupant)
	}
	return fmt.Sprintf("%s: %s", s.Key.CandidateKey, s.Reason)
}

// Result holds the proposed entries and the ones dropped along the way
type Result struct {
	Entries model.Snapshot
	Skipped []Skipped
}

// Populate returns the top-performing classes not yet in the current schedule.
// Combinations are visited in first-seen history order. A combination is included
// when its mean attendance is strictly above its location's mean and at least the
// policy floor.
func Populate(index *performance.Index, current model.Snapshot, opts Options) Result {
	result := Result{
		Entries: model.Snapshot{},
		Skipped: []Skipped{},
	}

	registry := allocator.NewConflictRegistry(current)
	ledger := allocator.LedgerFromSnapshot(current)
	enforceCap := opts.AttributeTeacher && opts.EnforceHourCap

	for _, combo := range qualifyingCombos(index, opts) {
		agg := aggregateFor(index, combo, opts.AttributeTeacher)

		class := model.NewScheduledClass(model.ClassID(ClassSource, combo.CandidateKey, combo.Teacher), combo.CandidateKey, combo.Teacher)
		class.Participants = agg.Mean()
		class.Revenue = agg.MeanRevenue()
		class.IsTopPerformer = true

		if !opts.AllowMultiBooking {
			if occupant, taken := registry.Occupant(class.Slot()); taken {
				result.Skipped = append(result.Skipped, Skipped{Key: combo, Reason: ReasonSlotOccupied, Occupant: occupant})
				continue
			}
		}

		// A capped entry must not reserve its slot
		if enforceCap && class.IsAssigned() {
			if projected := ledger.Projected(class.Teacher, class.Duration); projected > opts.Policy.HardCapHours {
				result.Skipped = append(result.Skipped, Skipped{Key: combo, Reason: ReasonHourCap, ProjectedHours: projected})
				continue
			}
		}

		registry.Register(class)
		ledger.Add(class.Teacher, class.Duration)
		result.Entries = append(result.Entries, class)
	}

	return result
}

// qualifyingCombos lists the distinct keys that beat their location average and the floor
func qualifyingCombos(index *performance.Index, opts Options) []model.ComboKey {
	combos := make([]model.ComboKey, 0)
	seen := make(map[model.ComboKey]bool)

	for _, combo := range index.Combos() {
		if !opts.AttributeTeacher {
			combo.Teacher = model.Unassigned
		}
		if seen[combo] {
			continue
		}
		seen[combo] = true

		mean := aggregateFor(index, combo, opts.AttributeTeacher).Mean()
		locationMean := index.LocationAverage(combo.Location).Mean()
		if mean > locationMean && mean >= opts.Policy.TopPerformerFloor {
			combos = append(combos, combo)
		}
	}

	return combos
}

func aggregateFor(index *performance.Index, combo model.ComboKey, attributeTeacher bool) performance.Aggregate {
	if attributeTeacher {
		return index.ComboAverage(combo)
	}
	return index.GroupAverage(combo.CandidateKey)
}
