package model

import "strings"

// Filter selects which classes of a schedule are shown
type Filter struct {
	HideTopPerformers bool
	HidePrivate       bool
	HideRegular       bool
	Teacher           string
	Format            string
	Day               Weekday
	Location          string
}

// Matches reports whether the class passes the filter.
// Teacher, format and location match case-insensitive substrings.
func (f Filter) Matches(c ScheduledClass) bool {
	switch {
	case c.IsTopPerformer && f.HideTopPerformers:
		return false
	case c.IsPrivate && f.HidePrivate:
		return false
	case !c.IsTopPerformer && !c.IsPrivate && f.HideRegular:
		return false
	}
	if f.Day != "" && c.Day != f.Day {
		return false
	}
	if !containsFold(c.Teacher.String(), f.Teacher) {
		return false
	}
	if !containsFold(c.Format, f.Format) {
		return false
	}
	return containsFold(c.Location, f.Location)
}

// Apply returns the classes of the snapshot that match, in their original order
func (f Filter) Apply(s Snapshot) Snapshot {
	out := make(Snapshot, 0, len(s))
	for _, c := range s {
		if f.Matches(c) {
			out = append(out, c)
		}
	}
	return out
}

func containsFold(s, substr string) bool {
	if substr == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
