// Package postgres implements the repository contract on a pgx connection pool.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"task_manager/internal/migrations"
	"task_manager/internal/model"
	"task_manager/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const uniqueViolation = "23505"

// Querier is the subset of pgx shared by the pool and a transaction
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Pool is satisfied by *pgxpool.Pool
type Pool interface {
	Querier
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var dialect = repository.Dialect{
	Placeholder: repository.DollarPlaceholder,
	Time:        func(t time.Time) any { return t },
	Date:        func(d model.Date) any { return d.Time },
}

type store struct {
	pool Pool
	q    Querier
	dsn  string
	inTx bool
}

// New wraps a connection pool. dsn is only used to run migrations.
func New(pool Pool, dsn string) repository.Store {
	return &store{pool: pool, q: pool, dsn: dsn}
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

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if cerr := tx.Commit(ctx); cerr != nil {
			err = fmt.Errorf("failed to commit transaction: %w", translateError(cerr))
		}
	}()

	err = fn(ctx, &store{pool: s.pool, q: tx, dsn: s.dsn, inTx: true})
	return err
}

func (s *store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate runs the embedded migrations over a database/sql handle opened
// through the pgx stdlib driver.
func (s *store) Migrate(ctx context.Context) error {
	if s.dsn == "" {
		return errors.New("postgres migrations need a DSN")
	}
	db, err := sql.Open("pgx", s.dsn)
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}
	defer db.Close()
	return migrations.Up(ctx, db, migrations.Postgres)
}

func (s *store) Close() {
	s.pool.Close()
}

func nullableDate(d *model.Date) any {
	if d == nil {
		return nil
	}
	return d.Time
}

// translateError maps unique violations onto repository.ErrDuplicate
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", repository.ErrDuplicate, pgErr.ConstraintName)
	}
	return err
}
