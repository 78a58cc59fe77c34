package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"credit-origination/internal/domain/credit"
	"credit-origination/internal/infrastructure/monitoring"
)

// StaleRequestReviewJob rejects credit requests that were never decided:
// anything still IN_PROGRESS after its own first installment date has
// passed can no longer be originated as requested.
type StaleRequestReviewJob struct {
	creditRepo credit.Repository
	logger     *slog.Logger
	now        func() time.Time
}

func NewStaleRequestReviewJob(creditRepo credit.Repository, logger *slog.Logger) *StaleRequestReviewJob {
	if creditRepo == nil || logger == nil {
		panic("StaleRequestReviewJob dependencies cannot be nil")
	}
	return &StaleRequestReviewJob{
		creditRepo: creditRepo,
		logger:     logger.With("job", "StaleRequestReview"),
		now:        time.Now,
	}
}

func (j *StaleRequestReviewJob) Run(ctx context.Context) error {
	startTime := time.Now()
	j.logger.InfoContext(ctx, "Starting stale credit request review job.")

	count, err := j.creditRepo.MarkExpired(ctx, j.now())
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to mark stale credit requests, aborting job.", slog.Any("error", err))
		return fmt.Errorf("cannot run job, failed to mark stale credit requests: %w", err)
	}

	if count > 0 {
		monitoring.RecordCreditsExpired(count)
	}

	j.logger.InfoContext(ctx, "Stale credit request review job finished.",
		slog.Int64("rejected", count),
		slog.Duration("duration", time.Since(startTime)))
	return nil
}
