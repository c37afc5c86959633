package postgres

import (
	"context"
	"errors"
	"fmt"

	"task_manager/internal/model"
	"task_manager/internal/repository"

	"github.com/jackc/pgx/v5"
)

type accountRepository struct {
	q     Querier
	table string
}

func scanAccount(row pgx.Row) (*model.Account, error) {
	a := &model.Account{}
	err := row.Scan(&a.ID, &a.Identification, &a.FirstName, &a.LastName, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Create inserts a new account and fills in its ID
func (r *accountRepository) Create(ctx context.Context, a *model.Account) error {
	sql := `INSERT INTO ` + r.table + ` (identificacion, nombre, apellido, contrasena_hash, creado_en, actualizado_en)
            VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, creado_en, actualizado_en`
	err := r.q.QueryRow(ctx, sql, a.Identification, a.FirstName, a.LastName, a.PasswordHash, a.CreatedAt, a.UpdatedAt).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create account in %s: %w", r.table, translateError(err))
	}
	return nil
}

func (r *accountRepository) findOne(ctx context.Context, column string, value any) (*model.Account, error) {
	sql := `SELECT ` + repository.AccountColumns + ` FROM ` + r.table + ` WHERE ` + column + ` = $1`
	a, err := scanAccount(r.q.QueryRow(ctx, sql, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // not found is not an error for this method's contract
		}
		return nil, fmt.Errorf("failed to find account by %s: %w", column, err)
	}
	return a, nil
}

// FindByID retrieves an account by its ID
func (r *accountRepository) FindByID(ctx context.Context, id int64) (*model.Account, error) {
	return r.findOne(ctx, "id", id)
}

// FindByIdentification retrieves an account by its identification number
func (r *accountRepository) FindByIdentification(ctx context.Context, identification string) (*model.Account, error) {
	return r.findOne(ctx, "identificacion", identification)
}

func (r *accountRepository) IdentificationExists(ctx context.Context, identification string, excludeID int64) (bool, error) {
	sql := `SELECT EXISTS(SELECT 1 FROM ` + r.table + ` WHERE identificacion = $1 AND id <> $2)`
	var exists bool
	if err := r.q.QueryRow(ctx, sql, identification, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check identification: %w", err)
	}
	return exists, nil
}

// Update writes every mutable column and returns the number of rows touched
func (r *accountRepository) Update(ctx context.Context, a *model.Account) (int64, error) {
	sql := `UPDATE ` + r.table + `
            SET identificacion = $1, nombre = $2, apellido = $3, contrasena_hash = $4, actualizado_en = $5
            WHERE id = $6`
	cmdTag, err := r.q.Exec(ctx, sql, a.Identification, a.FirstName, a.LastName, a.PasswordHash, a.UpdatedAt, a.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to update account: %w", translateError(err))
	}
	return cmdTag.RowsAffected(), nil
}

// Delete removes an account. Deleting a user also removes its tasks.
func (r *accountRepository) Delete(ctx context.Context, id int64) (int64, error) {
	if r.table == repository.TableUsers {
		if _, err := r.q.Exec(ctx, `DELETE FROM `+repository.TableTasks+` WHERE usuario_id = $1`, id); err != nil {
			return 0, fmt.Errorf("failed to delete tasks of user: %w", err)
		}
	}
	cmdTag, err := r.q.Exec(ctx, `DELETE FROM `+r.table+` WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete account: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}

// List returns one page of accounts
func (r *accountRepository) List(ctx context.Context, filter model.AccountFilter) (*model.AccountPage, error) {
	filter = repository.NormalizeAccountFilter(filter)
	q := repository.BuildAccountList(dialect, r.table, filter)

	page := &model.AccountPage{Items: []model.Account{}, CurrentPage: filter.Page}
	if err := r.q.QueryRow(ctx, q.CountSQL, q.CountArgs...).Scan(&page.Total); err != nil {
		return nil, fmt.Errorf("failed to count accounts: %w", err)
	}
	page.Pages = repository.PageCount(page.Total, filter.PerPage)

	rows, err := r.q.Query(ctx, q.PageSQL, q.PageArgs...)
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
