package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/studio-scheduler/pkg/core/allocator"
	"github.com/jakechorley/studio-scheduler/pkg/core/model"
	"github.com/jakechorley/studio-scheduler/pkg/core/performance"
	"github.com/jakechorley/studio-scheduler/pkg/core/populator"
	"github.com/jakechorley/studio-scheduler/pkg/metrics"
)

// PopulateOptions controls a top performer run
type PopulateOptions struct {
	AttributeTeacher bool
	EnforceHourCap   bool

	// AllowMultiBooking adds top performers even into slots that already hold a class
	AllowMultiBooking bool
}

// PopulateResult contains the proposed top performers and the commit decision
type PopulateResult struct {
	Added    model.Snapshot
	Skipped  []populator.Skipped
	Commit   CommitResult
	Schedule model.Snapshot
}

// PopulateTopPerformers appends every qualifying top performer to the current
// schedule. Entries that would collide with an existing class are skipped unless
// multi-booking is allowed. The
// extended schedule is committed only if it passes the hour cap check.
func PopulateTopPerformers(
	ctx context.Context,
	store OptimizeStore,
	recorder *metrics.Recorder,
	policy allocator.Policy,
	logger *zap.Logger,
	opts PopulateOptions,
) (*PopulateResult, error) {
	logger.Debug("Populating top performers",
		zap.Bool("attribute_teacher", opts.AttributeTeacher),
		zap.Bool("enforce_hour_cap", opts.EnforceHourCap),
		zap.Bool("allow_multi_booking", opts.AllowMultiBooking),
		zap.Float64("floor", policy.TopPerformerFloor))

	records, err := store.GetRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch historical records: %w", err)
	}

	working, err := openSession(ctx, store, logger)
	if err != nil {
		return nil, err
	}
	session := working.session

	populated := populator.Populate(performance.New(records), session.Schedule, populator.Options{
		AttributeTeacher:  opts.AttributeTeacher,
		EnforceHourCap:    opts.EnforceHourCap,
		AllowMultiBooking: opts.AllowMultiBooking,
		Policy:            policy,
	})

	skippedByReason := make(map[string]int)
	for _, skipped := range populated.Skipped {
		skippedByReason[skipped.Reason]++
		logger.Debug("Skipped top performer", zap.String("detail", skipped.String()))
	}
	recorder.ObservePopulate(len(populated.Entries), skippedByReason)

	result := &PopulateResult{
		Added:   populated.Entries,
		Skipped: populated.Skipped,
	}

	if len(populated.Entries) == 0 {
		logger.Info("No new top performers to add", zap.Int("skipped", len(populated.Skipped)))
		result.Commit = CheckCommit(policy, session.Schedule)
		result.Schedule = session.Schedule.Clone()
		return result, nil
	}

	proposal := append(session.Schedule.Clone(), populated.Entries...)
	result.Commit = CheckCommit(policy, proposal)
	recorder.ObserveCommit(result.Commit.Accepted)

	if !result.Commit.Accepted {
		logger.Warn("Top performers rejected, keeping previous schedule",
			zap.Int("violations", len(result.Commit.Violations)))
		result.Schedule = session.Schedule.Clone()
		return result, nil
	}

	working.commit(proposal, logger)
	if err := working.save(ctx, store, logger); err != nil {
		return nil, err
	}

	logger.Info("Top performers added",
		zap.Int("added", len(populated.Entries)),
		zap.Int("skipped", len(populated.Skipped)),
		zap.Int("classes", len(session.Schedule)))

	result.Schedule = session.Schedule.Clone()
	return result, nil
}
