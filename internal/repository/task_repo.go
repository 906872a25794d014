package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"todo_list/internal/models"
	"todo_list/internal/repository/db"
)

type TaskRepository struct {
	db      *sql.DB
	dialect db.Dialect
	now     func() time.Time
}

func NewTaskRepository(conn *sql.DB, dialect db.Dialect) *TaskRepository {
	return &TaskRepository{db: conn, dialect: dialect, now: time.Now}
}

var _ Tasks = (*TaskRepository)(nil)

// Every statement filters on user_id.
const (
	taskColumns = `id, title, description, completed, user_id, created_at, updated_at`

	selectTasksByOwnerSQL = `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = ? ORDER BY id ASC LIMIT ? OFFSET ?`
	selectTaskByOwnerSQL  = `SELECT ` + taskColumns + ` FROM tasks WHERE id = ? AND user_id = ?`
	insertTaskSQL         = `INSERT INTO tasks (title, description, completed, user_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?) RETURNING id`
	updateTaskByOwnerSQL  = `UPDATE tasks SET title = ?, description = ?, completed = ?, updated_at = ? WHERE id = ? AND user_id = ?`
	deleteTaskByOwnerSQL  = `DELETE FROM tasks WHERE id = ? AND user_id = ?`
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(s rowScanner) (models.Task, error) {
	var (
		t    models.Task
		desc sql.NullString
	)
	if err := s.Scan(&t.ID, &t.Title, &desc, &t.Completed, &t.UserID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return models.Task{}, err
	}
	if desc.Valid {
		d := desc.String
		t.Description = &d
	}
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return t, nil
}

// nullable converts an optional string into a driver value (nil -> NULL).
func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// List returns one page of the owner's tasks in insertion (id) order.
func (r *TaskRepository) List(ctx context.Context, userID int64, page models.Page) ([]models.Task, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(selectTasksByOwnerSQL), userID, page.Limit, page.Skip)
	if err != nil {
		return nil, fmt.Errorf("list tasks of user %d: %w", userID, err)
	}
	defer rows.Close()

	out := make([]models.Task, 0, page.Limit)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return out, nil
}

// Get returns the task only if it exists and belongs to userID; otherwise ErrNotFound.
func (r *TaskRepository) Get(ctx context.Context, userID, taskID int64) (models.Task, error) {
	return r.get(ctx, r.db, userID, taskID)
}

// queryRower is satisfied by *sql.DB and *sql.Tx.
type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *TaskRepository) get(ctx context.Context, q queryRower, userID, taskID int64) (models.Task, error) {
	t, err := scanTask(q.QueryRowContext(ctx, r.dialect.Rebind(selectTaskByOwnerSQL), taskID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Task{}, ErrNotFound
		}
		return models.Task{}, fmt.Errorf("select task %d: %w", taskID, err)
	}
	return t, nil
}

// Create persists a new task owned by userID; id and timestamps are assigned here.
func (r *TaskRepository) Create(ctx context.Context, userID int64, in models.TaskCreate) (models.Task, error) {
	now := r.now().UTC()
	t := models.Task{
		Title:       in.Title,
		Description: in.Description,
		Completed:   in.Completed,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(insertTaskSQL),
		t.Title, nullable(t.Description), t.Completed, t.UserID, t.CreatedAt, t.UpdatedAt,
	).Scan(&t.ID)
	if err != nil {
		return models.Task{}, fmt.Errorf("insert task for user %d: %w", userID, err)
	}
	return t, nil
}

// Update reads the owner's task, merges the patch and writes it back in one
// transaction. An empty patch returns the task unchanged.
func (r *TaskRepository) Update(ctx context.Context, userID, taskID int64, patch models.TaskPatch) (models.Task, error) {
	var out models.Task
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		t, err := r.get(ctx, tx, userID, taskID)
		if err != nil {
			return err
		}
		if patch.IsEmpty() {
			out = t
			return nil
		}

		patch.Apply(&t)
		t.UpdatedAt = r.now().UTC()

		res, err := tx.ExecContext(ctx, r.dialect.Rebind(updateTaskByOwnerSQL),
			t.Title, nullable(t.Description), t.Completed, t.UpdatedAt, taskID, userID,
		)
		if err != nil {
			return fmt.Errorf("update task %d: %w", taskID, err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return ErrNotFound
		}
		out = t
		return nil
	})
	if err != nil {
		return models.Task{}, err
	}
	return out, nil
}

// Delete removes the owner's task; ErrNotFound when nothing matched.
func (r *TaskRepository) Delete(ctx context.Context, userID, taskID int64) error {
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(deleteTaskByOwnerSQL), taskID, userID)
	if err != nil {
		return fmt.Errorf("delete task %d: %w", taskID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for task %d: %w", taskID, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
