package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var ErrTaskNotFound = errors.New("tasks: task not found")

// NewTaskRepository creates a repository for task records.
func NewTaskRepository(db *bun.DB) repository.Repository[*Task] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Task]{
		NewRecord: func() *Task { return &Task{} },
		GetID: func(task *Task) uuid.UUID {
			return task.ID
		},
		SetID: func(task *Task, id uuid.UUID) {
			task.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(task *Task) string {
			return task.ID.String()
		},
	})
}

// BunTaskRepository reads tasks through go-repository-bun.
type BunTaskRepository struct {
	repo repository.Repository[*Task]
}

func NewBunTaskRepository(db *bun.DB) *BunTaskRepository {
	return &BunTaskRepository{repo: NewTaskRepository(db)}
}

// List returns tasks oldest first.
func (r *BunTaskRepository) List(ctx context.Context) ([]*Task, error) {
	records, _, err := r.repo.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Order("created_at ASC", "id ASC")
	}))
	if err != nil {
		return nil, fmt.Errorf("task repository error: %w", err)
	}
	return records, nil
}

func (r *BunTaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*Task, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, id)
	}
	return record, nil
}

// insertTask and toggleTask run inside the mutation transaction, so they use
// the bun query builders directly.
func insertTask(ctx context.Context, tx bun.IDB, task *Task) error {
	if _, err := tx.NewInsert().Model(task).Exec(ctx); err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func toggleTask(ctx context.Context, tx bun.IDB, id uuid.UUID, at time.Time) error {
	res, err := tx.NewUpdate().
		Model((*Task)(nil)).
		Set("completed = NOT completed").
		Set("updated_at = ?", at).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("toggle task: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	return nil
}

func mapRepositoryError(err error, id uuid.UUID) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) || errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	return fmt.Errorf("task repository error: %w", err)
}
