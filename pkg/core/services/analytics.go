package services

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/jakechorley/studio-scheduler/pkg/core/model"
	"github.com/jakechorley/studio-scheduler/pkg/core/performance"
	"github.com/jakechorley/studio-scheduler/pkg/db"
)

// DefaultRecommendations is how many formats RecommendForSlot suggests
const DefaultRecommendations = 3

// DayFormatCount is how many classes of a format the schedule runs on a day
type DayFormatCount struct {
	Day    model.Weekday
	Format string
	Count  int
}

// LocationSummary is a location's historical average attendance
type LocationSummary struct {
	Location    string
	Classes     int
	Average     float64
	MeanRevenue float64
}

// AnalyticsReport summarises the history and the current schedule
type AnalyticsReport struct {
	HistoricalClasses  int
	TotalCheckedIn     int
	AverageAttendance  float64
	TotalRevenue       float64
	AverageRevenue     float64
	ScheduledClasses   int
	ProjectedAttendees float64
	ProjectedRevenue   float64
	TopPerformers      int
	Unassigned         int
	ClassCounts        []DayFormatCount
	Locations          []LocationSummary
}

// Recommendation is a format worth running in a slot, ranked by historical attendance
type Recommendation struct {
	Format   string
	Average  float64
	Count    int
	Priority int
	Reason   string
}

// BuildAnalytics summarises history and the schedule. ClassCounts are ordered by
// day, then format.
func BuildAnalytics(index *performance.Index, schedule model.Snapshot) AnalyticsReport {
	overall := index.Overall()
	report := AnalyticsReport{
		HistoricalClasses: overall.Count,
		TotalCheckedIn:    overall.TotalCheckedIn,
		AverageAttendance: overall.Mean(),
		TotalRevenue:      overall.TotalRevenue,
		AverageRevenue:    overall.MeanRevenue(),
		ScheduledClasses:  len(schedule),
		ClassCounts:       []DayFormatCount{},
		Locations:         []LocationSummary{},
	}

	counts := make(map[DayFormatCount]int)
	for _, class := range schedule {
		report.ProjectedAttendees += class.Participants
		report.ProjectedRevenue += class.Revenue
		if class.IsTopPerformer {
			report.TopPerformers++
		}
		if !class.IsAssigned() {
			report.Unassigned++
		}
		counts[DayFormatCount{Day: class.Day, Format: class.Format}]++
	}

	for key, count := range counts {
		key.Count = count
		report.ClassCounts = append(report.ClassCounts, key)
	}
	slices.SortFunc(report.ClassCounts, func(a, b DayFormatCount) int {
		if a.Day != b.Day {
			return a.Day.Index() - b.Day.Index()
		}
		return strings.Compare(a.Format, b.Format)
	})

	for _, location := range index.Locations() {
		agg := index.LocationAverage(location)
		report.Locations = append(report.Locations, LocationSummary{
			Location:    location,
			Classes:     agg.Count,
			Average:     agg.Mean(),
			MeanRevenue: agg.MeanRevenue(),
		})
	}

	return report
}

// RecommendForSlot returns up to limit formats that have run in the slot, best
// historical mean attendance first. Ties go to the format with more history,
// then by name. Advisory only: nothing is placed.
func RecommendForSlot(index *performance.Index, slot model.SlotKey, limit int) []Recommendation {
	type scored struct {
		format string
		agg    performance.Aggregate
	}

	seen := make(map[string]bool)
	var candidates []scored
	for _, key := range index.Candidates() {
		if key.Slot() != slot || seen[key.Format] {
			continue
		}
		seen[key.Format] = true
		candidates = append(candidates, scored{format: key.Format, agg: index.GroupAverage(key)})
	}

	slices.SortFunc(candidates, func(a, b scored) int {
		if a.agg.Mean() != b.agg.Mean() {
			if a.agg.Mean() > b.agg.Mean() {
				return -1
			}
			return 1
		}
		if a.agg.Count != b.agg.Count {
			return b.agg.Count - a.agg.Count
		}
		return strings.Compare(a.format, b.format)
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	out := make([]Recommendation, len(candidates))
	for i, c := range candidates {
		out[i] = Recommendation{
			Format:   c.format,
			Average:  math.Round(c.agg.Mean()*10) / 10,
			Count:    c.agg.Count,
			Priority: i + 1,
			Reason:   fmt.Sprintf("Historical average: %.1f attendees", c.agg.Mean()),
		}
	}
	return out
}

// FormatCurrency renders an amount in rupees with Indian K/L/Cr suffixes
func FormatCurrency(amount float64) string {
	switch {
	case amount >= 1e7:
		return fmt.Sprintf("₹%.1fCr", amount/1e7)
	case amount >= 1e5:
		return fmt.Sprintf("₹%.1fL", amount/1e5)
	case amount >= 1e3:
		return fmt.Sprintf("₹%.1fK", amount/1e3)
	}
	return fmt.Sprintf("₹%.0f", amount)
}

// Analytics loads history and the current schedule and summarises both
func Analytics(ctx context.Context, store OptimizeStore, logger *zap.Logger) (*AnalyticsReport, error) {
	records, err := store.GetRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch historical records: %w", err)
	}
	session, err := db.LoadOrCreateSession(ctx, store)
	if err != nil {
		return nil, err
	}

	report := BuildAnalytics(performance.New(records), session.Schedule)
	logger.Debug("Built analytics",
		zap.Int("historical_classes", report.HistoricalClasses),
		zap.Int("scheduled_classes", report.ScheduledClasses))
	return &report, nil
}

// RecommendSlot loads history and recommends formats for the slot
func RecommendSlot(ctx context.Context, store db.HistoryStore, logger *zap.Logger, slot model.SlotKey, limit int) ([]Recommendation, error) {
	if limit <= 0 {
		limit = DefaultRecommendations
	}

	records, err := store.GetRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch historical records: %w", err)
	}

	recommendations := RecommendForSlot(performance.New(records), slot, limit)
	logger.Debug("Recommended formats", zap.String("slot", slot.String()), zap.Int("count", len(recommendations)))
	return recommendations, nil
}
