package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Weekday is the day of the week a class runs on, spelt out in English ("Monday").
type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
)

// Weekdays lists the days of the week in schedule order
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// ParseWeekday accepts a day name in any case, or its three letter abbreviation
func ParseWeekday(s string) (Weekday, error) {
	trimmed := strings.ToLower(strings.TrimSpace(s))
	if trimmed == "" {
		return "", fmt.Errorf("empty weekday")
	}
	for _, day := range Weekdays {
		name := strings.ToLower(string(day))
		if trimmed == name || trimmed == name[:3] {
			return day, nil
		}
	}
	return "", fmt.Errorf("unknown weekday %q", s)
}

// Index returns the position of the day in the week, Monday being 0. Unknown days sort last.
func (d Weekday) Index() int {
	for i, day := range Weekdays {
		if day == d {
			return i
		}
	}
	return len(Weekdays)
}

func (d Weekday) IsWeekend() bool {
	return d == Saturday || d == Sunday
}

// TeacherID is the stable identity of a teacher. The zero value means unassigned.
type TeacherID string

// Unassigned marks a class that has no teacher yet
const Unassigned TeacherID = ""

// NewTeacherID normalises a display name into a TeacherID.
// Placeholder names used in exports ("Unassigned", "TBD") map to Unassigned.
func NewTeacherID(name string) TeacherID {
	normalised := strings.Join(strings.Fields(name), " ")
	switch strings.ToLower(normalised) {
	case "", "unassigned", "tbd", "n/a":
		return Unassigned
	}
	return TeacherID(normalised)
}

func (t TeacherID) IsAssigned() bool {
	return t != Unassigned
}

// Names splits the teacher into first and last names for display
func (t TeacherID) Names() (first, last string) {
	if !t.IsAssigned() {
		return "TBD", ""
	}
	parts := strings.SplitN(string(t), " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

func (t TeacherID) String() string {
	if !t.IsAssigned() {
		return "Unassigned"
	}
	return string(t)
}

// SlotKey identifies a physical studio slot. At most one class may occupy a slot.
type SlotKey struct {
	Day      Weekday
	Time     string
	Location string
}

// Less orders slots by day of week, then time, then location
func (k SlotKey) Less(o SlotKey) bool {
	if k.Day != o.Day {
		return k.Day.Index() < o.Day.Index()
	}
	if k.Time != o.Time {
		return k.Time < o.Time
	}
	return k.Location < o.Location
}

func (k SlotKey) String() string {
	return fmt.Sprintf("%s %s @ %s", k.Day, k.Time, k.Location)
}

// Hour returns the hour of day the slot starts at, or -1 when the time is malformed
func (k SlotKey) Hour() int {
	hour, _, ok := strings.Cut(k.Time, ":")
	if !ok {
		return -1
	}
	h, err := strconv.Atoi(hour)
	if err != nil {
		return -1
	}
	return h
}

// CandidateKey is a class format offered in a particular slot
type CandidateKey struct {
	Format   string
	Day      Weekday
	Time     string
	Location string
}

func (k CandidateKey) Slot() SlotKey {
	return SlotKey{Day: k.Day, Time: k.Time, Location: k.Location}
}

// Less orders candidates by format, then slot order
func (k CandidateKey) Less(o CandidateKey) bool {
	if k.Format != o.Format {
		return k.Format < o.Format
	}
	return k.Slot().Less(o.Slot())
}

func (k CandidateKey) String() string {
	return fmt.Sprintf("%s | %s", k.Format, k.Slot())
}

// ComboKey is a candidate taught by a specific teacher
type ComboKey struct {
	CandidateKey
	Teacher TeacherID
}

// HistoricalRecord is one observed class occurrence from the attendance history
type HistoricalRecord struct {
	Format    string    `json:"format" yaml:"format"`
	Day       Weekday   `json:"day" yaml:"day"`
	Time      string    `json:"time" yaml:"time"`
	Location  string    `json:"location" yaml:"location"`
	Teacher   TeacherID `json:"teacher" yaml:"teacher"`
	CheckedIn int       `json:"checkedIn" yaml:"checkedIn"`
	Revenue   float64   `json:"revenue" yaml:"revenue"`
}

func (r HistoricalRecord) Key() CandidateKey {
	return CandidateKey{Format: r.Format, Day: r.Day, Time: r.Time, Location: r.Location}
}

func (r HistoricalRecord) Combo() ComboKey {
	return ComboKey{CandidateKey: r.Key(), Teacher: r.Teacher}
}

// ClassDuration returns the teaching hours a class format consumes
func ClassDuration(format string) float64 {
	lower := strings.ToLower(format)
	switch {
	case strings.Contains(lower, "express"):
		return 0.75
	case strings.Contains(lower, "recovery"), strings.Contains(lower, "sweat in 30"):
		return 0.5
	default:
		return 1.0
	}
}

// ScheduledClass is one entry of the weekly schedule
type ScheduledClass struct {
	ID               string    `json:"id" yaml:"id"`
	Day              Weekday   `json:"day" yaml:"day"`
	Time             string    `json:"time" yaml:"time"`
	Location         string    `json:"location" yaml:"location"`
	Format           string    `json:"format" yaml:"format"`
	Teacher          TeacherID `json:"teacher" yaml:"teacher"`
	TeacherFirstName string    `json:"teacherFirstName" yaml:"teacherFirstName"`
	TeacherLastName  string    `json:"teacherLastName" yaml:"teacherLastName"`
	Duration         float64   `json:"duration" yaml:"duration"`
	Participants     float64   `json:"participants" yaml:"participants"`
	Revenue          float64   `json:"revenue" yaml:"revenue"`
	IsTopPerformer   bool      `json:"isTopPerformer,omitempty" yaml:"isTopPerformer,omitempty"`
	IsPrivate        bool      `json:"isPrivate,omitempty" yaml:"isPrivate,omitempty"`
}

func (c ScheduledClass) Slot() SlotKey {
	return SlotKey{Day: c.Day, Time: c.Time, Location: c.Location}
}

func (c ScheduledClass) Key() CandidateKey {
	return CandidateKey{Format: c.Format, Day: c.Day, Time: c.Time, Location: c.Location}
}

func (c ScheduledClass) IsAssigned() bool {
	return c.Teacher.IsAssigned()
}

// NewScheduledClass builds a class for a candidate, filling display names and duration
func NewScheduledClass(id string, key CandidateKey, teacher TeacherID) ScheduledClass {
	first, last := teacher.Names()
	return ScheduledClass{
		ID:               id,
		Day:              key.Day,
		Time:             key.Time,
		Location:         key.Location,
		Format:           key.Format,
		Teacher:          teacher,
		TeacherFirstName: first,
		TeacherLastName:  last,
		Duration:         ClassDuration(key.Format),
	}
}

var classNamespace = uuid.MustParse("6f1d7f0e-3c1b-4b8e-9a55-2f0d9e6c4a11")

// ClassID derives a deterministic ID for a generated class so that identical runs
// produce identical schedules. source distinguishes generators ("optimizer", "top").
func ClassID(source string, key CandidateKey, teacher TeacherID) string {
	name := strings.Join([]string{source, key.Format, string(key.Day), key.Time, key.Location, string(teacher)}, "\x1f")
	return uuid.NewSHA1(classNamespace, []byte(name)).String()
}

// Snapshot is an immutable copy of the schedule at a point in time
type Snapshot []ScheduledClass

// Clone returns a deep copy. A nil snapshot clones to an empty one.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	copy(out, s)
	return out
}

// Find returns the class with the given ID
func (s Snapshot) Find(id string) (ScheduledClass, bool) {
	for _, c := range s {
		if c.ID == id {
			return c, true
		}
	}
	return ScheduledClass{}, false
}

// Hours sums the scheduled hours per assigned teacher
func (s Snapshot) Hours() map[TeacherID]float64 {
	hours := make(map[TeacherID]float64)
	for _, c := range s {
		if c.IsAssigned() {
			hours[c.Teacher] += c.Duration
		}
	}
	return hours
}
