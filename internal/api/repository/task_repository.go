package repository

import (
	"context"
	"ctchen222/todo-api/internal/api/models"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel/attribute"
)

// TaskRepository defines the interface for task data operations. Every
// method is scoped to the owning user.
type TaskRepository interface {
	ListOpen(ctx context.Context, ownerID int64) ([]models.Task, error)
	Create(ctx context.Context, ownerID int64, title, description string) (*models.Task, error)
	Update(ctx context.Context, ownerID, taskID int64, title, description string) (*models.Task, error)
	MarkDone(ctx context.Context, ownerID, taskID int64) (*models.Task, error)
}

type sqliteTaskRepository struct {
	db *sqlx.DB
}

// NewTaskRepository creates a new SQLite-based TaskRepository.
func NewTaskRepository(db *sqlx.DB) TaskRepository {
	return &sqliteTaskRepository{db: db}
}

const taskColumns = `id, title, description, status, created, updated, user_id`

// ListOpen returns the owner's NOT_DONE tasks. No tasks is an empty slice,
// not an error.
func (r *sqliteTaskRepository) ListOpen(ctx context.Context, ownerID int64) ([]models.Task, error) {
	ctx, span := tracer.Start(ctx, "TaskRepository.ListOpen")
	defer span.End()
	span.SetAttributes(attribute.Int64("user.id", ownerID))

	tasks := []models.Task{}
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = ? AND status = ? ORDER BY id`
	if err := r.db.SelectContext(ctx, &tasks, query, ownerID, models.StatusNotDone); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Create inserts a NOT_DONE task for the owner.
func (r *sqliteTaskRepository) Create(ctx context.Context, ownerID int64, title, description string) (*models.Task, error) {
	ctx, span := tracer.Start(ctx, "TaskRepository.Create")
	defer span.End()
	span.SetAttributes(attribute.Int64("user.id", ownerID))

	now := time.Now().UTC()
	task := &models.Task{
		Title:       title,
		Description: description,
		Status:      models.StatusNotDone,
		Created:     now,
		Updated:     now,
		UserID:      ownerID,
	}

	query := `INSERT INTO tasks (title, description, status, created, updated, user_id) VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, task.Title, task.Description, task.Status, task.Created, task.Updated, task.UserID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	if task.ID, err = res.LastInsertId(); err != nil {
		return nil, fmt.Errorf("failed to read new task id: %w", err)
	}
	return task, nil
}

// Update rewrites title and description of an open task owned by ownerID.
func (r *sqliteTaskRepository) Update(ctx context.Context, ownerID, taskID int64, title, description string) (*models.Task, error) {
	ctx, span := tracer.Start(ctx, "TaskRepository.Update")
	defer span.End()
	span.SetAttributes(attribute.Int64("user.id", ownerID), attribute.Int64("task.id", taskID))

	return r.updateOpen(ctx, ownerID, taskID,
		`UPDATE tasks SET title = ?, description = ?, updated = ? WHERE id = ? AND user_id = ? AND status = ?`,
		title, description, time.Now().UTC(), taskID, ownerID, models.StatusNotDone)
}

// MarkDone moves an open task owned by ownerID to DONE.
func (r *sqliteTaskRepository) MarkDone(ctx context.Context, ownerID, taskID int64) (*models.Task, error) {
	ctx, span := tracer.Start(ctx, "TaskRepository.MarkDone")
	defer span.End()
	span.SetAttributes(attribute.Int64("user.id", ownerID), attribute.Int64("task.id", taskID))

	return r.updateOpen(ctx, ownerID, taskID,
		`UPDATE tasks SET status = ?, updated = ? WHERE id = ? AND user_id = ? AND status = ?`,
		models.StatusDone, time.Now().UTC(), taskID, ownerID, models.StatusNotDone)
}

// updateOpen runs a conditional UPDATE and reads the row back in the same
// transaction. Zero affected rows means the task is missing, foreign or done.
func (r *sqliteTaskRepository) updateOpen(ctx context.Context, ownerID, taskID int64, query string, args ...any) (*models.Task, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return nil, ErrNotFound
	}

	var task models.Task
	err = tx.GetContext(ctx, &task, `SELECT `+taskColumns+` FROM tasks WHERE id = ? AND user_id = ?`, taskID, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to reload task: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit task update: %w", err)
	}
	return &task, nil
}
