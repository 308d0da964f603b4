package prompts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/openshelf/warden/pkg/pagination"
	"github.com/openshelf/warden/pkg/query"
	"github.com/openshelf/warden/pkg/repository"
)

const promptColumns = "id, name, stage, instructions, description, active"

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a prompt repository implementing the System interface.
func New(
	db *sql.DB,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "prompts"),
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
) (*pagination.PageResult[Prompt], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Name", "Instructions")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count prompts: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanPrompt)
	if err != nil {
		return nil, fmt.Errorf("query prompts: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Prompt, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	prompt, err := repository.QueryOne(ctx, r.db, q, args, scanPrompt)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &prompt, nil
}

// Create registers a new prompt override. New prompts always start inactive;
// activation is an explicit separate step.
func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Prompt, error) {
	if err := validateCommand(cmd.Name, cmd.Stage, cmd.Instructions); err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`
		INSERT INTO prompts(id, name, stage, instructions, description, active)
		VALUES ($1, $2, $3, $4, $5, false)
		RETURNING %s`, promptColumns)

	insertArgs := []any{
		uuid.New(),
		strings.TrimSpace(cmd.Name),
		cmd.Stage,
		cmd.Instructions,
		cmd.Description,
	}

	prompt, err := repository.QueryOne(ctx, r.db, q, insertArgs, scanPrompt)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("prompt created", "id", prompt.ID, "stage", prompt.Stage)
	return &prompt, nil
}

func (r *repo) Update(
	ctx context.Context,
	id uuid.UUID,
	cmd UpdateCommand,
) (*Prompt, error) {
	if err := validateCommand(cmd.Name, cmd.Stage, cmd.Instructions); err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`
		UPDATE prompts
		SET name = $2, stage = $3, instructions = $4, description = $5
		WHERE id = $1
		RETURNING %s`, promptColumns)

	args := []any{id, strings.TrimSpace(cmd.Name), cmd.Stage, cmd.Instructions, cmd.Description}

	prompt, err := repository.QueryOne(ctx, r.db, q, args, scanPrompt)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &prompt, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	err := repository.ExecExpectOne(ctx, r.db, "DELETE FROM prompts WHERE id = $1", id)
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("prompt deleted", "id", id)
	return nil
}

// Activate marks a prompt as the active override for its stage. Any
// previously active prompt for the same stage is deactivated in the same
// transaction, so at most one override per stage is ever active.
func (r *repo) Activate(ctx context.Context, id uuid.UUID) (*Prompt, error) {
	prompt, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Prompt, error) {
		lockSQL := fmt.Sprintf(
			"SELECT %s FROM prompts WHERE id = $1 FOR UPDATE", promptColumns,
		)

		found, err := repository.QueryOne(ctx, tx, lockSQL, []any{id}, scanPrompt)
		if err != nil {
			return Prompt{}, repository.MapError(err, ErrNotFound, ErrDuplicate)
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE prompts
			SET active = false
			WHERE stage = $1 AND active = true AND id <> $2`,
			found.Stage, id,
		); err != nil {
			return Prompt{}, fmt.Errorf("deactivate current prompt: %w", err)
		}

		activateSQL := fmt.Sprintf(`
			UPDATE prompts
			SET active = true
			WHERE id = $1
			RETURNING %s`, promptColumns)

		updated, err := repository.QueryOne(ctx, tx, activateSQL, []any{id}, scanPrompt)
		if err != nil {
			return Prompt{}, repository.MapError(err, ErrNotFound, ErrDuplicate)
		}

		return updated, nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("prompt activated", "id", prompt.ID, "stage", prompt.Stage)
	return &prompt, nil
}

func (r *repo) Deactivate(ctx context.Context, id uuid.UUID) (*Prompt, error) {
	q := fmt.Sprintf(`
		UPDATE prompts
		SET active = false
		WHERE id = $1
		RETURNING %s`, promptColumns)

	prompt, err := repository.QueryOne(ctx, r.db, q, []any{id}, scanPrompt)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("prompt deactivated", "id", prompt.ID, "stage", prompt.Stage)
	return &prompt, nil
}

func (r *repo) Instructions(ctx context.Context, stage Stage) (string, error) {
	if _, err := ParseStage(string(stage)); err != nil {
		return "", err
	}

	q, args := query.NewBuilder(projection).
		WhereEquals("Stage", stage).
		WhereEquals("Active", true).
		BuildSingleOrNull()

	prompt, err := repository.QueryOne(ctx, r.db, q, args, scanPrompt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Instructions(stage)
		}
		return "", fmt.Errorf("query active prompt: %w", err)
	}

	return prompt.Instructions, nil
}

func validateCommand(name string, stage Stage, text string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidPrompt)
	}
	if _, err := ParseStage(string(stage)); err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: instructions are required", ErrInvalidPrompt)
	}
	return nil
}
