// Package repository declares the storage contract shared by the database
// engines. Engine implementations live in the postgres and sqlite subpackages.
package repository

import (
	"context"
	"errors"

	"task_manager/internal/model"
)

// ErrDuplicate is returned when a write violates a unique constraint
var ErrDuplicate = errors.New("duplicate value violates unique constraint")

// Table names
const (
	TableUsers  = "usuarios"
	TableAdmins = "administradores"
	TableTasks  = "tareas"
)

// AccountRepository defines operations on one account table. Lookups return
// (nil, nil) when the row does not exist.
type AccountRepository interface {
	Create(ctx context.Context, account *model.Account) error
	FindByID(ctx context.Context, id int64) (*model.Account, error)
	FindByIdentification(ctx context.Context, identification string) (*model.Account, error)
	// IdentificationExists reports whether another row holds the value.
	// excludeID 0 means no row is excluded.
	IdentificationExists(ctx context.Context, identification string, excludeID int64) (bool, error)
	Update(ctx context.Context, account *model.Account) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
	List(ctx context.Context, filter model.AccountFilter) (*model.AccountPage, error)
}

// TaskRepository defines operations on tasks. Every lookup and mutation is
// scoped to the owning user.
type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	FindByIDForOwner(ctx context.Context, id, userID int64) (*model.Task, error)
	ListByOwner(ctx context.Context, userID int64, filter model.TaskFilter) ([]model.Task, error)
	// TitleExists reports whether the owner already has a task with this
	// exact title. excludeID 0 means no task is excluded.
	TitleExists(ctx context.Context, ownerID int64, title string, excludeID int64) (bool, error)
	Update(ctx context.Context, task *model.Task) (int64, error)
	Delete(ctx context.Context, id, userID int64) (int64, error)
	CountByOwner(ctx context.Context, userID int64) (int64, error)
}

// Store hands out repositories bound to one connection pool, or to one
// transaction when obtained inside WithTx.
type Store interface {
	Users() AccountRepository
	Admins() AccountRepository
	Tasks() TaskRepository

	// WithTx runs fn inside a transaction. It commits when fn returns nil
	// and rolls back on error or panic. Calls nested in fn reuse the
	// running transaction.
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error

	Ping(ctx context.Context) error
	Migrate(ctx context.Context) error
	Close()
}
