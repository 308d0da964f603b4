package analytics

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates an analytics repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "analytics"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

// Report aggregates moderation metrics for resources analyzed within the
// trailing window in a single filtered-aggregate query.
func (r *repo) Report(ctx context.Context, timeframeDays int) (*Report, error) {
	if timeframeDays <= 0 {
		timeframeDays = DefaultTimeframeDays
	}
	if timeframeDays > MaxTimeframeDays {
		timeframeDays = MaxTimeframeDays
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -timeframeDays)

	const q = `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE ai_verdict = 'approve'),
			COUNT(*) FILTER (WHERE ai_verdict = 'reject'),
			COUNT(*) FILTER (WHERE ai_verdict = 'neutral'),
			COALESCE(AVG(ai_confidence), 0),
			COUNT(*) FILTER (WHERE status = 'approved' AND ai_verdict = 'approve'),
			COUNT(*) FILTER (WHERE status = 'rejected' AND ai_verdict = 'reject'),
			COUNT(*) FILTER (WHERE status IN ('approved', 'rejected')),
			AVG(ai_processing_ms) FILTER (WHERE ai_processing_ms IS NOT NULL),
			COALESCE(SUM(analysis_error_count), 0)
		FROM resources
		WHERE ai_analyzed_at >= $1`

	var (
		report         Report
		approveMatches int
		rejectMatches  int
		decided        int
		avgProcessing  sql.NullFloat64
	)

	err := r.db.QueryRowContext(ctx, q, cutoff).Scan(
		&report.TotalAnalyzed,
		&report.Approvals,
		&report.Rejections,
		&report.Neutral,
		&report.AverageConfidence,
		&approveMatches,
		&rejectMatches,
		&decided,
		&avgProcessing,
		&report.ServiceErrors,
	)
	if err != nil {
		return nil, fmt.Errorf("query moderation report: %w", err)
	}

	if decided > 0 {
		accuracy := float64(approveMatches+rejectMatches) / float64(decided)
		report.Accuracy = &accuracy
	}

	if avgProcessing.Valid {
		report.AvgProcessingMS = avgProcessing.Float64
	} else {
		report.AvgProcessingMS = fallbackProcessingMS
	}

	queue, err := r.queue(ctx)
	if err != nil {
		return nil, err
	}
	report.Queue = queue

	report.TimeframeDays = timeframeDays
	report.GeneratedAt = time.Now().UTC()

	return &report, nil
}

func (r *repo) queue(ctx context.Context) (Queue, error) {
	const q = `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE ai_analyzed_at IS NULL OR ai_verdict = 'unknown'),
			COUNT(*) FILTER (WHERE ai_analyzed_at IS NOT NULL AND ai_verdict <> 'unknown')
		FROM resources
		WHERE status = 'pending'`

	var queue Queue
	err := r.db.QueryRowContext(ctx, q).Scan(
		&queue.Pending,
		&queue.AwaitingAnalysis,
		&queue.ReadyForDecision,
	)
	if err != nil {
		return Queue{}, fmt.Errorf("query moderation queue counts: %w", err)
	}

	return queue, nil
}
