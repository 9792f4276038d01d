package services

import (
	"slices"

	"github.com/jakechorley/studio-scheduler/pkg/core/model"
)

// sortBySlot orders classes by day, time and location, keeping insertion order within a slot
func sortBySlot(schedule model.Snapshot) {
	slices.SortStableFunc(schedule, func(a, b model.ScheduledClass) int {
		switch {
		case a.Slot().Less(b.Slot()):
			return -1
		case b.Slot().Less(a.Slot()):
			return 1
		}
		return 0
	})
}
