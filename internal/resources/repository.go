package resources

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/openshelf/warden/internal/verdict"
	"github.com/openshelf/warden/pkg/pagination"
	"github.com/openshelf/warden/pkg/query"
	"github.com/openshelf/warden/pkg/repository"
	"github.com/openshelf/warden/pkg/storage"
)

type repo struct {
	db         *sql.DB
	storage    storage.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a resource repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		logger:     logger.With("system", "resources"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Resource], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Name", "Subject")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count resources: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanResource)
	if err != nil {
		return nil, fmt.Errorf("query resources: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Resource, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	res, err := repository.QueryOne(ctx, r.db, q, args, scanResource)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &res, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Resource, error) {
	if cmd.Name == "" || cmd.Subject == "" {
		return nil, fmt.Errorf("%w: name and subject required", ErrInvalidResource)
	}
	if err := ValidateItems(cmd.Items); err != nil {
		return nil, err
	}

	id := uuid.New()

	tags, items, err := marshalContent(cmd.Tags, cmd.Items)
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`
		INSERT INTO resources(id, slug, name, subject, tags, items, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s`, resourceColumns)

	insertArgs := []any{
		id,
		buildSlug(cmd.Name, id),
		cmd.Name,
		cmd.Subject,
		tags,
		items,
		cmd.CreatedBy,
	}

	res, err := repository.QueryOne(ctx, r.db, q, insertArgs, scanResource)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("resource created", "id", res.ID, "slug", res.Slug)
	return &res, nil
}

// Update replaces the content of a pending resource and resets its current
// AI analysis state. previous_analyses is retained as audit history.
func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Resource, error) {
	if cmd.Name == "" || cmd.Subject == "" {
		return nil, fmt.Errorf("%w: name and subject required", ErrInvalidResource)
	}
	if err := ValidateItems(cmd.Items); err != nil {
		return nil, err
	}

	tags, items, err := marshalContent(cmd.Tags, cmd.Items)
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`
		UPDATE resources SET
			name = $2, subject = $3, tags = $4, items = $5,
			ai_verdict = 'unknown', ai_confidence = 0,
			ai_feedback = NULL, ai_issues = '[]'::jsonb, ai_recommendations = '[]'::jsonb,
			ai_analyzed_at = NULL, ai_analyzed_by = NULL,
			ai_raw_response = NULL, ai_processing_ms = NULL,
			updated_at = NOW()
		WHERE id = $1 AND status = '%s'
		RETURNING %s`, StatusPending, resourceColumns)

	res, err := repository.QueryOne(ctx, r.db, q, []any{id, cmd.Name, cmd.Subject, tags, items}, scanResource)
	if err != nil {
		return nil, r.mapPendingError(ctx, id, err)
	}

	r.logger.Info("resource updated", "id", id)
	return &res, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID, deleteFiles bool) error {
	res, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	if err := repository.ExecExpectOne(
		ctx, r.db,
		"DELETE FROM resources WHERE id = $1",
		id,
	); err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if deleteFiles {
		r.deleteItemFiles(ctx, res.Items)
	}

	r.logger.Info("resource deleted", "id", id)
	return nil
}

// ApplyAnalysis persists a completed analysis in one atomic update guarded
// on pending status, so a decision landing mid-analysis wins.
func (r *repo) ApplyAnalysis(ctx context.Context, id uuid.UUID, cmd AnalysisCommand) (*Resource, error) {
	res, err := r.applyAnalysis(ctx, r.db, id, cmd)
	if err != nil {
		return nil, r.mapPendingError(ctx, id, err)
	}

	r.logger.Info(
		"analysis applied",
		"id", id,
		"verdict", res.AIVerdict,
		"confidence", res.AIConfidence,
	)
	return res, nil
}

// ApplyReanalysis snapshots the current AI fields into previous_analyses,
// then applies the new analysis. Both steps run in one transaction; the
// returned snapshot is what was archived.
func (r *repo) ApplyReanalysis(
	ctx context.Context,
	id uuid.UUID,
	cmd AnalysisCommand,
) (*Resource, *PreviousAnalysis, error) {
	type outcome struct {
		res      *Resource
		snapshot *PreviousAnalysis
	}

	result, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (outcome, error) {
		snapshot, err := r.archiveAnalysis(ctx, tx, id, cmd.Operator)
		if err != nil {
			return outcome{}, err
		}

		res, err := r.applyAnalysis(ctx, tx, id, cmd)
		if err != nil {
			return outcome{}, err
		}

		return outcome{res: res, snapshot: snapshot}, nil
	})
	if err != nil {
		return nil, nil, r.mapPendingError(ctx, id, err)
	}

	r.logger.Info(
		"reanalysis applied",
		"id", id,
		"verdict", result.res.AIVerdict,
		"previous_verdict", result.snapshot.Verdict,
	)
	return result.res, result.snapshot, nil
}

// AnalysisQueue returns both moderation work queues in one call: pending
// resources awaiting analysis and analyzed resources ready for a decision.
// The verdict filter narrows the ready list only.
func (r *repo) AnalysisQueue(
	ctx context.Context,
	page pagination.PageRequest,
	verdict *string,
) (*AnalysisQueueResult, error) {
	page.Normalize(r.pagination)

	awaiting := query.
		NewBuilder(projection, query.SortField{Field: "CreatedAt"}).
		WhereEquals("Status", StatusPending).
		WhereExpr("(r.ai_analyzed_at IS NULL OR r.ai_verdict = 'unknown')")

	awaitingPage, err := r.queuePage(ctx, awaiting, page)
	if err != nil {
		return nil, fmt.Errorf("awaiting queue: %w", err)
	}

	ready := query.
		NewBuilder(projection, query.SortField{Field: "AIAnalyzedAt"}).
		WhereEquals("Status", StatusPending).
		WhereExpr("r.ai_analyzed_at IS NOT NULL").
		WhereExpr("r.ai_verdict <> 'unknown'").
		WhereEquals("AIVerdict", verdict)

	readyPage, err := r.queuePage(ctx, ready, page)
	if err != nil {
		return nil, fmt.Errorf("ready queue: %w", err)
	}

	return &AnalysisQueueResult{
		Awaiting: awaitingPage,
		Ready:    readyPage,
	}, nil
}

func (r *repo) queuePage(
	ctx context.Context,
	qb *query.Builder,
	page pagination.PageRequest,
) (*pagination.PageResult[Resource], error) {
	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, err
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanResource)
	if err != nil {
		return nil, err
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

// Approve transitions a pending resource to approved after the decision
// gate guards pass. Approval clears any stale rejection reason.
func (r *repo) Approve(ctx context.Context, id uuid.UUID, cmd ApproveCommand) (*Resource, error) {
	res, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.Status != StatusPending {
		return nil, fmt.Errorf("%w: current status is %s", ErrNotPending, res.Status)
	}

	if err := approvalGuard(res, cmd); err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`
		UPDATE resources SET
			status = '%s', approved_by = $2, approved_at = NOW(),
			rejection_reason = NULL,
			admin_notes = COALESCE($3, admin_notes),
			updated_at = NOW()
		WHERE id = $1 AND status = '%s'
		RETURNING %s`, StatusApproved, StatusPending, resourceColumns)

	updated, err := repository.QueryOne(ctx, r.db, q, []any{id, cmd.Operator, cmd.AdminNotes}, scanResource)
	if err != nil {
		return nil, r.mapPendingError(ctx, id, err)
	}

	r.logger.Info(
		"resource approved",
		"id", id,
		"operator", cmd.Operator,
		"force_approval", cmd.ForceApproval,
		"override_ai", cmd.OverrideAI,
	)
	return &updated, nil
}

// Reject transitions a pending resource to rejected. The AI verdict never
// gates rejection; only the human reason is validated. File cleanup is
// idempotent: already-missing blobs count as success.
func (r *repo) Reject(ctx context.Context, id uuid.UUID, cmd RejectCommand) (*Resource, error) {
	if err := rejectionGuard(cmd); err != nil {
		return nil, err
	}

	res, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.Status != StatusPending {
		return nil, fmt.Errorf("%w: current status is %s", ErrNotPending, res.Status)
	}

	q := fmt.Sprintf(`
		UPDATE resources SET
			status = '%s', rejection_reason = $2,
			admin_notes = COALESCE($3, admin_notes),
			updated_at = NOW()
		WHERE id = $1 AND status = '%s'
		RETURNING %s`, StatusRejected, StatusPending, resourceColumns)

	updated, err := repository.QueryOne(ctx, r.db, q, []any{id, cmd.Reason, cmd.AdminNotes}, scanResource)
	if err != nil {
		return nil, r.mapPendingError(ctx, id, err)
	}

	if cmd.DeleteFiles {
		r.deleteItemFiles(ctx, updated.Items)
	}

	r.logger.Info("resource rejected", "id", id, "operator", cmd.Operator)
	return &updated, nil
}

func (r *repo) applyAnalysis(
	ctx context.Context,
	q repository.Querier,
	id uuid.UUID,
	cmd AnalysisCommand,
) (*Resource, error) {
	issues, err := json.Marshal(cmd.Result.Issues)
	if err != nil {
		return nil, fmt.Errorf("encode issues: %w", err)
	}
	recs, err := json.Marshal(cmd.Result.Recommendations)
	if err != nil {
		return nil, fmt.Errorf("encode recommendations: %w", err)
	}

	errorIncrement := 0
	if cmd.ServiceErrored {
		errorIncrement = 1
	}

	stmt := fmt.Sprintf(`
		UPDATE resources SET
			ai_verdict = $2, ai_confidence = $3, ai_feedback = $4,
			ai_issues = $5, ai_recommendations = $6,
			ai_analyzed_at = NOW(), ai_analyzed_by = $7,
			ai_raw_response = $8, ai_processing_ms = $9,
			analysis_count = analysis_count + 1,
			analysis_error_count = analysis_error_count + $10,
			updated_at = NOW()
		WHERE id = $1 AND status = '%s'
		RETURNING %s`, StatusPending, resourceColumns)

	args := []any{
		id,
		string(cmd.Result.Verdict),
		cmd.Result.Confidence,
		cmd.Result.Feedback,
		issues,
		recs,
		cmd.Operator,
		cmd.Result.RawResponse,
		cmd.ProcessingMS,
		errorIncrement,
	}

	res, err := repository.QueryOne(ctx, q, stmt, args, scanResource)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// archiveAnalysis appends the current AI fields to previous_analyses and
// returns the archived snapshot. Fails with ErrNotAnalyzed when there is no
// prior analysis to archive.
func (r *repo) archiveAnalysis(
	ctx context.Context,
	tx *sql.Tx,
	id uuid.UUID,
	operator string,
) (*PreviousAnalysis, error) {
	var (
		snapshot  PreviousAnalysis
		aiVerdict string
		issues    []byte
		recs      []byte
	)

	err := tx.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT ai_verdict, ai_confidence, ai_feedback, ai_issues,
			ai_recommendations, ai_analyzed_at, ai_analyzed_by, ai_processing_ms
		FROM resources
		WHERE id = $1 AND status = '%s'
		FOR UPDATE`, StatusPending), id).Scan(
		&aiVerdict,
		&snapshot.Confidence,
		&snapshot.Feedback,
		&issues,
		&recs,
		&snapshot.AnalyzedAt,
		&snapshot.AnalyzedBy,
		&snapshot.ProcessingMS,
	)
	if err != nil {
		return nil, err
	}

	if snapshot.AnalyzedAt == nil {
		return nil, ErrNotAnalyzed
	}

	snapshot.Verdict = verdict.Verdict(aiVerdict)
	snapshot.ReanalyzedAt = time.Now().UTC()
	snapshot.ReanalyzedBy = operator

	if err := unmarshalColumn(issues, &snapshot.Issues); err != nil {
		return nil, fmt.Errorf("decode archived issues: %w", err)
	}
	if err := unmarshalColumn(recs, &snapshot.Recommendations); err != nil {
		return nil, fmt.Errorf("decode archived recommendations: %w", err)
	}

	encoded, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("encode analysis snapshot: %w", err)
	}

	if err := repository.ExecExpectOne(
		ctx, tx,
		`UPDATE resources
		SET previous_analyses = previous_analyses || $2::jsonb, updated_at = NOW()
		WHERE id = $1`,
		id, encoded,
	); err != nil {
		return nil, err
	}

	return &snapshot, nil
}

// mapPendingError resolves the ambiguity of a guarded UPDATE affecting no
// rows: the resource either does not exist or is no longer pending.
func (r *repo) mapPendingError(ctx context.Context, id uuid.UUID, err error) error {
	if !errors.Is(err, sql.ErrNoRows) {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	res, findErr := r.Find(ctx, id)
	if findErr != nil {
		return findErr
	}
	if res.Status != StatusPending {
		return fmt.Errorf("%w: current status is %s", ErrNotPending, res.Status)
	}
	return err
}

func (r *repo) deleteItemFiles(ctx context.Context, items []Item) {
	for _, key := range StorageKeys(items) {
		if err := r.storage.Delete(ctx, key); err != nil && !errors.Is(err, storage.ErrNotFound) {
			r.logger.Warn("item file delete failed", "key", key, "error", err)
		}
	}
}

func marshalContent(tags []string, items []Item) ([]byte, []byte, error) {
	if tags == nil {
		tags = []string{}
	}

	encodedTags, err := json.Marshal(tags)
	if err != nil {
		return nil, nil, fmt.Errorf("encode tags: %w", err)
	}

	encodedItems, err := json.Marshal(items)
	if err != nil {
		return nil, nil, fmt.Errorf("encode items: %w", err)
	}

	return encodedTags, encodedItems, nil
}
