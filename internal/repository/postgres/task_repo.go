package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"task_manager/internal/model"
	"task_manager/internal/repository"

	"github.com/jackc/pgx/v5"
)

type taskRepository struct {
	q Querier
}

func scanTask(row pgx.Row) (*model.Task, error) {
	t := &model.Task{}
	var due *time.Time
	if err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &due, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	if due != nil {
		d := model.NewDate(*due)
		t.DueDate = &d
	}
	return t, nil
}

// Create inserts a new task and fills in its ID
func (r *taskRepository) Create(ctx context.Context, t *model.Task) error {
	sql := `INSERT INTO tareas (usuario_id, titulo, descripcion, fecha_limite, creado_en, actualizado_en)
            VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, creado_en, actualizado_en`
	err := r.q.QueryRow(ctx, sql, t.UserID, t.Title, t.Description, nullableDate(t.DueDate), t.CreatedAt, t.UpdatedAt).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", translateError(err))
	}
	return nil
}

// FindByIDForOwner retrieves a task only when it belongs to userID
func (r *taskRepository) FindByIDForOwner(ctx context.Context, id, userID int64) (*model.Task, error) {
	sql := `SELECT ` + repository.TaskColumns + ` FROM tareas WHERE id = $1 AND usuario_id = $2`
	t, err := scanTask(r.q.QueryRow(ctx, sql, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find task by ID: %w", err)
	}
	return t, nil
}

// ListByOwner retrieves tasks for a specific user with optional filters
func (r *taskRepository) ListByOwner(ctx context.Context, userID int64, filter model.TaskFilter) ([]model.Task, error) {
	sql, args := repository.BuildTaskList(dialect, userID, filter)
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks by user: %w", err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}
	return tasks, nil
}

func (r *taskRepository) TitleExists(ctx context.Context, ownerID int64, title string, excludeID int64) (bool, error) {
	sql := `SELECT EXISTS(SELECT 1 FROM tareas WHERE usuario_id = $1 AND titulo = $2 AND id <> $3)`
	var exists bool
	if err := r.q.QueryRow(ctx, sql, ownerID, title, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check task title: %w", err)
	}
	return exists, nil
}

// Update modifies a task; the owner must match
func (r *taskRepository) Update(ctx context.Context, t *model.Task) (int64, error) {
	sql := `UPDATE tareas
            SET titulo = $1, descripcion = $2, fecha_limite = $3, actualizado_en = $4
            WHERE id = $5 AND usuario_id = $6`
	cmdTag, err := r.q.Exec(ctx, sql, t.Title, t.Description, nullableDate(t.DueDate), t.UpdatedAt, t.ID, t.UserID)
	if err != nil {
		return 0, fmt.Errorf("failed to update task: %w", translateError(err))
	}
	return cmdTag.RowsAffected(), nil
}

// Delete removes a task; the owner must match
func (r *taskRepository) Delete(ctx context.Context, id, userID int64) (int64, error) {
	cmdTag, err := r.q.Exec(ctx, `DELETE FROM tareas WHERE id = $1 AND usuario_id = $2`, id, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete task: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}

func (r *taskRepository) CountByOwner(ctx context.Context, userID int64) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM tareas WHERE usuario_id = $1`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return n, nil
}
