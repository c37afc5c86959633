// Package migrations embeds the schema for both database engines and applies
// it with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS

// Migration directories inside FS, paired with their goose dialect
const (
	Postgres = "postgres"
	SQLite   = "sqlite"
)

var dialects = map[string]string{
	Postgres: "postgres",
	SQLite:   "sqlite3",
}

// Up applies every pending migration of the given engine directory
func Up(ctx context.Context, db *sql.DB, engine string) error {
	dialect, ok := dialects[engine]
	if !ok {
		return fmt.Errorf("unknown migration set %q", engine)
	}

	goose.SetBaseFS(FS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, engine); err != nil {
		return fmt.Errorf("failed to apply %s migrations: %w", engine, err)
	}
	return nil
}
