package seed

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*/*.sql
var migrations embed.FS

// gooseDialects maps adapter names to goose dialects with embedded migrations.
var gooseDialects = map[string]string{
	"postgres": "postgres",
	"sqlite":   "sqlite3",
}

// MigrationsSupported reports whether the backend has embedded migrations.
func MigrationsSupported(dialectName string) bool {
	_, ok := gooseDialects[dialectName]
	return ok
}

// Migrate runs all pending migrations for the backend and returns the resulting version.
// The migrations create the default system_references table.
func Migrate(db *sql.DB, dialectName string) (int64, error) {
	if db == nil {
		return 0, fmt.Errorf("database not opened")
	}
	gooseDialect, ok := gooseDialects[dialectName]
	if !ok {
		return 0, fmt.Errorf("%w: migrations for %s", ErrUnsupportedBackend, dialectName)
	}

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect(gooseDialect); err != nil {
		return 0, fmt.Errorf("failed to set dialect: %w", err)
	}

	dir := "migrations/" + dialectName
	if err := goose.Up(db, dir); err != nil {
		return 0, fmt.Errorf("failed to run migrations: %w", err)
	}

	return goose.GetDBVersion(db)
}
