package allocator

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/jakechorley/studio-scheduler/pkg/core/model"
)

// Default policy values
const (
	DefaultHardCapHours         = 15.0
	DefaultSoftWarnHours        = 12.0
	DefaultWeekendExclusionHour = 18
	DefaultTopPerformerFloor    = 6.0
)

// Policy holds the tunable scheduling rules
type Policy struct {
	// HardCapHours is the weekly teaching limit no committed schedule may exceed
	HardCapHours float64

	// SoftWarnHours triggers a warning on manual adds and stops the optimiser early
	// once every historical teacher has reached it
	SoftWarnHours float64

	// WeekendExclusionHour excludes Saturday and Sunday classes starting at or after
	// this hour from generation. 0 disables the rule.
	WeekendExclusionHour int

	// TopPerformerFloor is the minimum mean attendance a top performer must reach
	TopPerformerFloor float64

	// BlackoutRules are RRULE strings. A slot is blacked out when a rule lists its
	// weekday (BYDAY) and, if BYHOUR is set, its starting hour.
	BlackoutRules []string

	// EmitUnassigned places candidates without an eligible teacher as unassigned
	// classes instead of dropping them
	EmitUnassigned bool
}

// DefaultPolicy returns the studio's standing rules
func DefaultPolicy() Policy {
	return Policy{
		HardCapHours:         DefaultHardCapHours,
		SoftWarnHours:        DefaultSoftWarnHours,
		WeekendExclusionHour: DefaultWeekendExclusionHour,
		TopPerformerFloor:    DefaultTopPerformerFloor,
		EmitUnassigned:       true,
	}
}

// Validate checks the policy is internally consistent
func (p Policy) Validate() error {
	if p.HardCapHours <= 0 {
		return fmt.Errorf("hard cap must be positive, got %.2f", p.HardCapHours)
	}
	if p.SoftWarnHours <= 0 || p.SoftWarnHours > p.HardCapHours {
		return fmt.Errorf("soft warning threshold %.2f must be positive and not above hard cap %.2f", p.SoftWarnHours, p.HardCapHours)
	}
	if p.WeekendExclusionHour < 0 || p.WeekendExclusionHour > 23 {
		return fmt.Errorf("weekend exclusion hour %d out of range", p.WeekendExclusionHour)
	}
	if p.TopPerformerFloor < 0 {
		return fmt.Errorf("top performer floor must not be negative")
	}
	if _, err := ParseBlackoutRules(p.BlackoutRules); err != nil {
		return err
	}
	return nil
}

// IsWeekendExcluded reports whether the slot falls in the late weekend window
func (p Policy) IsWeekendExcluded(slot model.SlotKey) bool {
	if p.WeekendExclusionHour == 0 || !slot.Day.IsWeekend() {
		return false
	}
	return slot.Hour() >= p.WeekendExclusionHour
}

// BlackoutWindow is a parsed blackout rule
type BlackoutWindow struct {
	Rule     string
	weekdays map[time.Weekday]bool
	hours    map[int]bool
}

// ParseBlackoutRules parses RRULE strings into blackout windows
func ParseBlackoutRules(rules []string) ([]BlackoutWindow, error) {
	windows := make([]BlackoutWindow, 0, len(rules))
	for i, rule := range rules {
		opt, err := rrule.StrToROption(rule)
		if err != nil {
			return nil, fmt.Errorf("invalid rrule in blackoutRules[%d]: %w", i, err)
		}
		if len(opt.Byweekday) == 0 {
			return nil, fmt.Errorf("blackoutRules[%d] must set BYDAY", i)
		}
		window := BlackoutWindow{
			Rule:     rule,
			weekdays: make(map[time.Weekday]bool),
			hours:    make(map[int]bool),
		}
		for _, wd := range opt.Byweekday {
			// rrule numbers weekdays from Monday = 0
			window.weekdays[time.Weekday((wd.Day()+1)%7)] = true
		}
		for _, h := range opt.Byhour {
			window.hours[h] = true
		}
		windows = append(windows, window)
	}
	return windows, nil
}

// Covers reports whether the window blacks out the slot
func (w BlackoutWindow) Covers(slot model.SlotKey) bool {
	if !w.weekdays[toTimeWeekday(slot.Day)] {
		return false
	}
	if len(w.hours) == 0 {
		return true
	}
	return w.hours[slot.Hour()]
}

func toTimeWeekday(d model.Weekday) time.Weekday {
	idx := d.Index()
	if idx >= len(model.Weekdays) {
		return -1
	}
	return time.Weekday((idx + 1) % 7)
}
