package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"slices"

	"github.com/pressly/goose/v3"
)

// MigrationTableName is the table goose uses to track applied migrations.
const MigrationTableName = "schema_migrations"

//go:embed migrations/*.sql
var migrationFS embed.FS

// MigrationCommands lists the goose commands accepted by Migrate.
var MigrationCommands = []string{"up", "down", "status", "version"}

// slogGooseLogger adapts the goose logger interface to slog.
type slogGooseLogger struct {
	logger *slog.Logger
}

func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

// Fatalf logs at error level and does not exit; Migrate returns the error.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...))
}

// Migrate runs a goose command against the embedded migrations.
func Migrate(ctx context.Context, db *sql.DB, command string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	if !slices.Contains(MigrationCommands, command) {
		return fmt.Errorf("unsupported migration command %q", command)
	}

	goose.SetBaseFS(migrationFS)
	goose.SetTableName(MigrationTableName)
	goose.SetLogger(&slogGooseLogger{logger: logger.With("component", "migrations")})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.RunContext(ctx, command, db, "migrations"); err != nil {
		return fmt.Errorf("migration %s failed: %w", command, err)
	}
	return nil
}
