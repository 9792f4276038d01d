package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jakechorley/studio-scheduler/pkg/cache"
	"github.com/jakechorley/studio-scheduler/pkg/core/allocator"
	"github.com/jakechorley/studio-scheduler/pkg/core/allocator/criteria"
	"github.com/jakechorley/studio-scheduler/pkg/core/model"
	"github.com/jakechorley/studio-scheduler/pkg/core/performance"
	"github.com/jakechorley/studio-scheduler/pkg/db"
	"github.com/jakechorley/studio-scheduler/pkg/metrics"
)

// OptimizeStore defines the storage operations needed to optimise the schedule
type OptimizeStore interface {
	db.HistoryStore
	db.SessionStore
}

// RankingCache stores sorted candidate lists keyed by a history fingerprint.
// *cache.RankingCache implements it. A nil RankingCache disables caching.
type RankingCache interface {
	Get(ctx context.Context, fingerprint string) ([]allocator.Candidate, bool, error)
	Set(ctx context.Context, fingerprint string, candidates []allocator.Candidate) error
}

// OptimizeResult contains the optimiser outcome and what happened to it at commit
type OptimizeResult struct {
	Outcome *allocator.Outcome
	Commit  CommitResult

	// Schedule is the current schedule after the run: the proposal when accepted,
	// the previous schedule otherwise
	Schedule model.Snapshot

	// Iteration is the rotation used for this run
	Iteration int

	RecordCount int
	CacheHit    bool
}

// ranking is the output of the background ranking pass
type ranking struct {
	index      *performance.Index
	candidates []allocator.Candidate
	records    int
	cacheHit   bool
}

// OptimizeSchedule runs the optimiser over the stored history and the current
// schedule. Locked classes are kept, everything else is regenerated. The proposal
// replaces the current schedule only if it passes the hour cap check. The
// iteration counter advances on every run so the next run explores a different
// candidate order.
func OptimizeSchedule(
	ctx context.Context,
	store OptimizeStore,
	rankings RankingCache,
	recorder *metrics.Recorder,
	policy allocator.Policy,
	logger *zap.Logger,
) (*OptimizeResult, error) {
	logger.Debug("Optimising schedule",
		zap.Float64("hard_cap_hours", policy.HardCapHours),
		zap.Float64("soft_warn_hours", policy.SoftWarnHours),
		zap.Int("weekend_exclusion_hour", policy.WeekendExclusionHour),
		zap.Int("blackout_rules", len(policy.BlackoutRules)))

	// Rank candidates in the background while the session loads
	var (
		ranked  ranking
		working *workingSession
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ranked, err = rankHistory(gctx, store, rankings, recorder, logger)
		return err
	})
	g.Go(func() error {
		var err error
		working, err = openSession(gctx, store, logger)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	session := working.session
	iteration := session.Iteration

	criteriaList := criteria.Default(policy, session.Unavailable)
	logger.Debug("Running optimiser",
		zap.Int("iteration", iteration),
		zap.Int("candidates", len(ranked.candidates)),
		zap.Int("base_classes", len(session.Schedule)),
		zap.Int("locked_classes", session.Locks.LockedClassCount(session.Schedule)),
		zap.Int("unavailable_teachers", len(session.Unavailable)),
		zap.Int("criteria", len(criteriaList)))

	started := time.Now()
	outcome, err := allocator.Optimize(ctx, allocator.OptimizeConfig{
		Index:       ranked.index,
		Base:        session.Schedule,
		Locks:       session.Locks,
		Iteration:   iteration,
		Policy:      policy,
		Criteria:    criteriaList,
		Candidates:  allocator.Rotate(ranked.candidates, iteration),
		Unavailable: session.Unavailable,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to optimise schedule: %w", err)
	}
	recorder.ObserveOptimize(outcome, time.Since(started))

	logger.Info("Optimiser finished",
		zap.Int("preserved", outcome.Preserved),
		zap.Int("placed", outcome.Placed),
		zap.Int("unassigned", outcome.Unassigned),
		zap.Int("skipped", len(outcome.Skipped)),
		zap.Bool("stopped_early", outcome.StoppedEarly),
		zap.Bool("cancelled", outcome.Cancelled))

	for _, verr := range outcome.ValidationErrors {
		logger.Warn("Schedule validation error",
			zap.String("criterion", verr.CriterionName),
			zap.String("slot", verr.Slot.String()),
			zap.String("description", verr.Description))
	}

	if outcome.Cancelled {
		logger.Warn("Optimisation cancelled, nothing was committed", zap.Error(ctx.Err()))
		return &OptimizeResult{
			Outcome:     outcome,
			Commit:      CommitResult{Violations: []HourCapViolation{}, Warnings: []HourWarning{}},
			Schedule:    session.Schedule.Clone(),
			Iteration:   iteration,
			RecordCount: ranked.records,
			CacheHit:    ranked.cacheHit,
		}, nil
	}

	commit := CheckCommit(policy, outcome.Schedule)
	recorder.ObserveCommit(commit.Accepted)

	if commit.Accepted {
		working.commit(outcome.Schedule, logger)
	} else {
		logger.Warn("Proposed schedule rejected, keeping previous schedule",
			zap.Int("violations", len(commit.Violations)))
	}

	session.Iteration = iteration + 1
	if err := working.save(ctx, store, logger); err != nil {
		return nil, err
	}
	recorder.SetTeacherHours(allocator.LedgerFromSnapshot(session.Schedule).Entries())

	return &OptimizeResult{
		Outcome:     outcome,
		Commit:      commit,
		Schedule:    session.Schedule.Clone(),
		Iteration:   iteration,
		RecordCount: ranked.records,
		CacheHit:    ranked.cacheHit,
	}, nil
}

// rankHistory loads the records, builds the index and returns the sorted candidate
// list, using the cache when the history has been ranked before
func rankHistory(ctx context.Context, store db.HistoryStore, rankings RankingCache, recorder *metrics.Recorder, logger *zap.Logger) (ranking, error) {
	logger.Debug("Fetching historical records")
	records, err := store.GetRecords(ctx)
	if err != nil {
		return ranking{}, fmt.Errorf("failed to fetch historical records: %w", err)
	}
	if len(records) == 0 {
		logger.Warn("No historical records loaded, the schedule will only contain locked classes")
	}

	index := performance.New(records)
	result := ranking{index: index, records: len(records)}

	if rankings == nil {
		result.candidates = allocator.SortCandidates(index)
		logger.Debug("Ranked candidates", zap.Int("records", len(records)), zap.Int("candidates", len(result.candidates)))
		return result, nil
	}

	fingerprint := cache.Fingerprint(records)
	cached, hit, err := rankings.Get(ctx, fingerprint)
	if err != nil {
		// Fall back to ranking
		logger.Warn("Failed to read ranking cache", zap.Error(err))
	}
	recorder.ObserveRankingCache(hit)

	if hit {
		logger.Debug("Using cached ranking", zap.String("fingerprint", fingerprint), zap.Int("candidates", len(cached)))
		result.candidates = cached
		result.cacheHit = true
		return result, nil
	}

	result.candidates = allocator.SortCandidates(index)
	logger.Debug("Ranked candidates", zap.Int("records", len(records)), zap.Int("candidates", len(result.candidates)))

	if err := rankings.Set(ctx, fingerprint, result.candidates); err != nil {
		logger.Warn("Failed to write ranking cache", zap.Error(err))
	}

	return result, nil
}
