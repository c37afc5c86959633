package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"task_manager/internal/model"
	"task_manager/internal/repository"
)

type taskRepository struct {
	q DBTX
}

func scanTask(row rowScanner) (*model.Task, error) {
	var (
		t                model.Task
		due              *string
		created, updated string
	)
	if err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &due, &created, &updated); err != nil {
		return nil, err
	}
	if due != nil && *due != "" {
		d, err := model.ParseDate(*due)
		if err != nil {
			return nil, err
		}
		t.DueDate = &d
	}
	var err error
	if t.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *taskRepository) Create(ctx context.Context, t *model.Task) error {
	query := `INSERT INTO tareas (usuario_id, titulo, descripcion, fecha_limite, creado_en, actualizado_en)
            VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.q.ExecContext(ctx, query,
		t.UserID, t.Title, nullableString(t.Description), nullableDate(t.DueDate), formatTime(t.CreatedAt), formatTime(t.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to create task: %w", translateError(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read new task id: %w", err)
	}
	t.ID = id
	return nil
}

func (r *taskRepository) FindByIDForOwner(ctx context.Context, id, userID int64) (*model.Task, error) {
	query := `SELECT ` + repository.TaskColumns + ` FROM tareas WHERE id = ? AND usuario_id = ?`
	t, err := scanTask(r.q.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find task by ID: %w", err)
	}
	return t, nil
}

func (r *taskRepository) ListByOwner(ctx context.Context, userID int64, filter model.TaskFilter) ([]model.Task, error) {
	query, args := repository.BuildTaskList(dialect, userID, filter)
	rows, err := r.q.QueryContext(ctx, query, args...)
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
	query := `SELECT EXISTS(SELECT 1 FROM tareas WHERE usuario_id = ? AND titulo = ? AND id <> ?)`
	var exists bool
	if err := r.q.QueryRowContext(ctx, query, ownerID, title, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check task title: %w", err)
	}
	return exists, nil
}

func (r *taskRepository) Update(ctx context.Context, t *model.Task) (int64, error) {
	query := `UPDATE tareas
            SET titulo = ?, descripcion = ?, fecha_limite = ?, actualizado_en = ?
            WHERE id = ? AND usuario_id = ?`
	res, err := r.q.ExecContext(ctx, query,
		t.Title, nullableString(t.Description), nullableDate(t.DueDate), formatTime(t.UpdatedAt), t.ID, t.UserID)
	if err != nil {
		return 0, fmt.Errorf("failed to update task: %w", translateError(err))
	}
	return res.RowsAffected()
}

func (r *taskRepository) Delete(ctx context.Context, id, userID int64) (int64, error) {
	res, err := r.q.ExecContext(ctx, `DELETE FROM tareas WHERE id = ? AND usuario_id = ?`, id, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete task: %w", err)
	}
	return res.RowsAffected()
}

func (r *taskRepository) CountByOwner(ctx context.Context, userID int64) (int64, error) {
	var n int64
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM tareas WHERE usuario_id = ?`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return n, nil
}
