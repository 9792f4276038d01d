package commands

import (
	"fmt"
	"strings"

	"github.com/jakechorley/studio-scheduler/pkg/core/model"
	"github.com/jakechorley/studio-scheduler/pkg/core/services"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorDim    = "\033[2m"
)

// statusColor picks the color for a teacher's hour status
func statusColor(status services.HoursStatus) string {
	switch status {
	case services.HoursOverLimit:
		return colorRed
	case services.HoursNearLimit:
		return colorYellow
	}
	return colorGreen
}

// classFlags renders the markers shown after a class
func classFlags(c model.ScheduledClass, locked bool) string {
	flags := make([]string, 0, 3)
	if locked {
		flags = append(flags, "locked")
	}
	if c.IsTopPerformer {
		flags = append(flags, "top")
	}
	if c.IsPrivate {
		flags = append(flags, "private")
	}
	if len(flags) == 0 {
		return ""
	}
	return "[" + strings.Join(flags, ", ") + "]"
}

// printSchedule prints classes grouped by day. Classes must already be in slot order.
func printSchedule(classes []services.ViewClass) {
	if len(classes) == 0 {
		fmt.Println("No classes scheduled.")
		return
	}

	var day model.Weekday
	for _, c := range classes {
		if c.Day != day {
			day = c.Day
			fmt.Printf("\n%s\n%s\n", day, strings.Repeat("-", len(day)))
		}

		teacher := c.Teacher.String()
		if !c.IsAssigned() {
			teacher = colorDim + teacher + colorReset
		}
		fmt.Printf("  %s  %-22s %-24s %-20s %4.1f  %s\n",
			c.Time, truncate(c.Location, 22), truncate(c.Format, 24), teacher, c.Participants, classFlags(c.ScheduledClass, c.Locked))
	}
	fmt.Println()
}

// printCommit prints the hour cap outcome of a commit
func printCommit(result services.CommitResult) {
	if !result.Accepted {
		fmt.Printf("%s✗ Not committed, %s%s\n", colorRed, result.Diagnostic(), colorReset)
		fmt.Println("  The previous schedule was kept.")
		return
	}
	for _, w := range result.Warnings {
		fmt.Printf("%s⚠️  %s%s\n", colorYellow, w, colorReset)
	}
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}
