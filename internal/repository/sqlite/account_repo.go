package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"task_manager/internal/model"
	"task_manager/internal/repository"
)

type rowScanner interface {
	Scan(dest ...any) error
}

type accountRepository struct {
	q     DBTX
	table string
}

func scanAccount(row rowScanner) (*model.Account, error) {
	var (
		a                model.Account
		created, updated string
	)
	if err := row.Scan(&a.ID, &a.Identification, &a.FirstName, &a.LastName, &a.PasswordHash, &created, &updated); err != nil {
		return nil, err
	}
	var err error
	if a.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if a.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *accountRepository) Create(ctx context.Context, a *model.Account) error {
	query := `INSERT INTO ` + r.table + ` (identificacion, nombre, apellido, contrasena_hash, creado_en, actualizado_en)
            VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.q.ExecContext(ctx, query,
		a.Identification, a.FirstName, a.LastName, a.PasswordHash, formatTime(a.CreatedAt), formatTime(a.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to create account in %s: %w", r.table, translateError(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read new account id: %w", err)
	}
	a.ID = id
	return nil
}

func (r *accountRepository) findOne(ctx context.Context, column string, value any) (*model.Account, error) {
	query := `SELECT ` + repository.AccountColumns + ` FROM ` + r.table + ` WHERE ` + column + ` = ?`
	a, err := scanAccount(r.q.QueryRowContext(ctx, query, value))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find account by %s: %w", column, err)
	}
	return a, nil
}

func (r *accountRepository) FindByID(ctx context.Context, id int64) (*model.Account, error) {
	return r.findOne(ctx, "id", id)
}

func (r *accountRepository) FindByIdentification(ctx context.Context, identification string) (*model.Account, error) {
	return r.findOne(ctx, "identificacion", identification)
}

func (r *accountRepository) IdentificationExists(ctx context.Context, identification string, excludeID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM ` + r.table + ` WHERE identificacion = ? AND id <> ?)`
	var exists bool
	if err := r.q.QueryRowContext(ctx, query, identification, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check identification: %w", err)
	}
	return exists, nil
}

func (r *accountRepository) Update(ctx context.Context, a *model.Account) (int64, error) {
	query := `UPDATE ` + r.table + `
            SET identificacion = ?, nombre = ?, apellido = ?, contrasena_hash = ?, actualizado_en = ?
            WHERE id = ?`
	res, err := r.q.ExecContext(ctx, query,
		a.Identification, a.FirstName, a.LastName, a.PasswordHash, formatTime(a.UpdatedAt), a.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to update account: %w", translateError(err))
	}
	return res.RowsAffected()
}

func (r *accountRepository) Delete(ctx context.Context, id int64) (int64, error) {
	if r.table == repository.TableUsers {
		if _, err := r.q.ExecContext(ctx, `DELETE FROM `+repository.TableTasks+` WHERE usuario_id = ?`, id); err != nil {
			return 0, fmt.Errorf("failed to delete tasks of user: %w", err)
		}
	}
	res, err := r.q.ExecContext(ctx, `DELETE FROM `+r.table+` WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete account: %w", err)
	}
	return res.RowsAffected()
}

func (r *accountRepository) List(ctx context.Context, filter model.AccountFilter) (*model.AccountPage, error) {
	filter = repository.NormalizeAccountFilter(filter)
	q := repository.BuildAccountList(dialect, r.table, filter)

	page := &model.AccountPage{Items: []model.Account{}, CurrentPage: filter.Page}
	if err := r.q.QueryRowContext(ctx, q.CountSQL, q.CountArgs...).Scan(&page.Total); err != nil {
		return nil, fmt.Errorf("failed to count accounts: %w", err)
	}
	page.Pages = repository.PageCount(page.Total, filter.PerPage)

	rows, err := r.q.QueryContext(ctx, q.PageSQL, q.PageArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		page.Items = append(page.Items, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return page, nil
}
