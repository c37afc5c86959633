// Package sqlite implements the repository contract on a single database
// file through modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"task_manager/internal/migrations"
	"task_manager/internal/model"
	"task_manager/internal/repository"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// DBTX is the subset of database/sql used by the repositories.
// Both *sql.DB and *sql.Tx satisfy it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// timestamps are stored as fixed width UTC text so they compare lexically
const timeLayout = "2006-01-02 15:04:05.000000000"

// foldFunc replaces LOWER in searches, which SQLite only applies to ASCII
const foldFunc = "unicode_lower"

var dialect = repository.Dialect{
	Placeholder: repository.QuestionPlaceholder,
	Time:        func(t time.Time) any { return formatTime(t) },
	Date:        func(d model.Date) any { return d.String() },
	Lower:       foldFunc,
}

func init() {
	sqlite.MustRegisterDeterministicScalarFunction(foldFunc, 1, func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
		switch v := args[0].(type) {
		case string:
			return strings.ToLower(v), nil
		case []byte:
			return strings.ToLower(string(v)), nil
		default:
			return v, nil
		}
	})
}

type store struct {
	db   *sql.DB
	q    DBTX
	inTx bool
}

// DSN appends the connection pragmas every connection needs to path.
// Transactions take the write lock on BEGIN so a read-then-write
// transaction waits for other writers instead of failing with SQLITE_BUSY.
func DSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate"
}

// Open opens (creating if needed) the database file at path
func Open(ctx context.Context, path string) (repository.Store, error) {
	db, err := sql.Open("sqlite", DSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach sqlite database: %w", err)
	}
	log.Printf("INFO: Using sqlite database at %s", path)
	return New(db), nil
}

// New wraps an already opened database handle
func New(db *sql.DB) repository.Store {
	return &store{db: db, q: db}
}

func (s *store) Users() repository.AccountRepository {
	return &accountRepository{q: s.q, table: repository.TableUsers}
}

func (s *store) Admins() repository.AccountRepository {
	return &accountRepository{q: s.q, table: repository.TableAdmins}
}

func (s *store) Tasks() repository.TaskRepository {
	return &taskRepository{q: s.q}
}

func (s *store) WithTx(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) (err error) {
	if s.inTx {
		return fn(ctx, s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if cerr := tx.Commit(); cerr != nil {
			err = fmt.Errorf("failed to commit transaction: %w", translateError(cerr))
		}
	}()

	err = fn(ctx, &store{db: s.db, q: tx, inTx: true})
	return err
}

func (s *store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *store) Migrate(ctx context.Context) error {
	return migrations.Up(ctx, s.db, migrations.SQLite)
}

func (s *store) Close() {
	if err := s.db.Close(); err != nil {
		log.Printf("ERROR: Failed to close sqlite database: %v", err)
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid stored timestamp %q: %w", s, err)
	}
	return t, nil
}

func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullableDate(d *model.Date) any {
	if d == nil {
		return nil
	}
	return d.String()
}

// translateError maps unique constraint failures onto repository.ErrDuplicate
func translateError(err error) error {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE || sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY {
			return fmt.Errorf("%w: %s", repository.ErrDuplicate, sqliteErr.Error())
		}
		return err
	}
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %s", repository.ErrDuplicate, err.Error())
	}
	return err
}
