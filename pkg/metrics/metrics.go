// Package metrics records scheduler activity as Prometheus collectors. A CLI run
// writes them to a node_exporter textfile at exit.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jakechorley/studio-scheduler/pkg/core/allocator"
)

// Recorder holds the collectors. All methods are safe on a nil Recorder.
type Recorder struct {
	registry *prometheus.Registry

	optimizeRuns     *prometheus.CounterVec
	optimizeDuration prometheus.Histogram
	classesPlaced    *prometheus.CounterVec
	candidateSkips   *prometheus.CounterVec
	populated        prometheus.Counter
	populateSkips    *prometheus.CounterVec
	commits          *prometheus.CounterVec
	rankingCache     *prometheus.CounterVec
	teacherHours     *prometheus.GaugeVec
}

// NewRecorder registers the scheduler collectors on a fresh registry
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()

	r := &Recorder{
		registry: registry,
		optimizeRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "studio_optimize_runs_total",
			Help: "Optimiser runs by result",
		}, []string{"result"}),
		optimizeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "studio_optimize_duration_seconds",
			Help:    "Duration of optimiser runs",
			Buckets: prometheus.DefBuckets,
		}),
		classesPlaced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "studio_classes_placed_total",
			Help: "Classes in proposed schedules by kind",
		}, []string{"kind"}),
		candidateSkips: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "studio_candidate_skips_total",
			Help: "Candidates that produced no class, by reason",
		}, []string{"reason"}),
		populated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "studio_top_performers_added_total",
			Help: "Top performer classes proposed",
		}),
		populateSkips: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "studio_top_performers_skipped_total",
			Help: "Top performer classes dropped, by reason",
		}, []string{"reason"}),
		commits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "studio_commits_total",
			Help: "Schedule commits by result",
		}, []string{"result"}),
		rankingCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "studio_ranking_cache_lookups_total",
			Help: "Ranking cache lookups by result",
		}, []string{"result"}),
		teacherHours: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "studio_teacher_hours",
			Help: "Scheduled weekly hours per teacher in the committed schedule",
		}, []string{"teacher"}),
	}

	registry.MustRegister(
		r.optimizeRuns,
		r.optimizeDuration,
		r.classesPlaced,
		r.candidateSkips,
		r.populated,
		r.populateSkips,
		r.commits,
		r.rankingCache,
		r.teacherHours,
	)

	return r
}

// Registry exposes the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ObserveOptimize records an optimiser outcome
func (r *Recorder) ObserveOptimize(outcome *allocator.Outcome, elapsed time.Duration) {
	if r == nil || outcome == nil {
		return
	}

	result := "completed"
	switch {
	case outcome.Cancelled:
		result = "cancelled"
	case outcome.StoppedEarly:
		result = "stopped_early"
	}
	r.optimizeRuns.WithLabelValues(result).Inc()
	r.optimizeDuration.Observe(elapsed.Seconds())

	r.classesPlaced.WithLabelValues("preserved").Add(float64(outcome.Preserved))
	r.classesPlaced.WithLabelValues("assigned").Add(float64(outcome.Placed - outcome.Unassigned))
	r.classesPlaced.WithLabelValues("unassigned").Add(float64(outcome.Unassigned))

	for _, skip := range outcome.Skipped {
		r.candidateSkips.WithLabelValues(string(skip.Reason)).Inc()
	}
}

// ObservePopulate records a populate run
func (r *Recorder) ObservePopulate(added int, skippedByReason map[string]int) {
	if r == nil {
		return
	}
	r.populated.Add(float64(added))
	for reason, count := range skippedByReason {
		r.populateSkips.WithLabelValues(reason).Add(float64(count))
	}
}

// ObserveCommit records whether a commit was accepted
func (r *Recorder) ObserveCommit(accepted bool) {
	if r == nil {
		return
	}
	result := "accepted"
	if !accepted {
		result = "rejected"
	}
	r.commits.WithLabelValues(result).Inc()
}

// ObserveRankingCache records a cache hit or miss
func (r *Recorder) ObserveRankingCache(hit bool) {
	if r == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	r.rankingCache.WithLabelValues(result).Inc()
}

// SetTeacherHours replaces the per-teacher hours gauge with the ledger's entries
func (r *Recorder) SetTeacherHours(entries []allocator.LedgerEntry) {
	if r == nil {
		return
	}
	r.teacherHours.Reset()
	for _, entry := range entries {
		r.teacherHours.WithLabelValues(string(entry.Teacher)).Set(entry.Hours)
	}
}

// WriteTextfile writes every collector to path in the text exposition format
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
