// ABOUTME: Database handle for SQLite (modernc.org/sqlite) and Postgres (pgx)
// ABOUTME: Opens the connection, applies versioned migrations, and creates entity tables

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Dialect selects the SQL flavor and driver.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// ParseDialect validates a configured driver name.
func ParseDialect(name string) (Dialect, error) {
	switch Dialect(name) {
	case DialectSQLite, DialectPostgres:
		return Dialect(name), nil
	case "":
		return DialectSQLite, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q (want sqlite or postgres)", name)
	}
}

func (d Dialect) driverName() string {
	if d == DialectPostgres {
		return "pgx"
	}
	return "sqlite"
}

func (d Dialect) placeholder() sq.PlaceholderFormat {
	if d == DialectPostgres {
		return sq.Dollar
	}
	return sq.Question
}

// idColumn renders the store-assigned id column. AUTOINCREMENT keeps SQLite
// from handing out the id of a deleted max row again.
func (d Dialect) idColumn() string {
	if d == DialectPostgres {
		return "id BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY"
	}
	return "id INTEGER PRIMARY KEY AUTOINCREMENT"
}

func (d Dialect) columnType(t ColumnType) string {
	switch t {
	case Integer:
		if d == DialectPostgres {
			return "BIGINT"
		}
		return "INTEGER"
	case Boolean:
		return "BOOLEAN NOT NULL DEFAULT FALSE"
	default:
		// DateTime is stored as ISO-8601 local date-time text in both dialects.
		return "TEXT"
	}
}

// DB wraps the sqlx handle with the dialect's statement builder.
type DB struct {
	*sqlx.DB
	dialect Dialect
	builder sq.StatementBuilderType
	logger  *slog.Logger
}

// Open connects to the database. For SQLite, dsn is a file path (parent
// directories are created) or ":memory:". For Postgres it is a connection URL.
// A nil logger uses slog.Default().
func Open(ctx context.Context, dialect Dialect, dsn string, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "store", "dialect", string(dialect))

	if dialect == DialectSQLite && dsn != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sqlx.Open(dialect.driverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if dialect == DialectSQLite {
		// Every pooled connection to :memory: would see its own empty database.
		if dsn == ":memory:" {
			db.SetMaxOpenConns(1)
		}
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enabling WAL mode: %w", err)
		}
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enabling foreign keys: %w", err)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	logger.Info("database opened")
	return &DB{
		DB:      db,
		dialect: dialect,
		builder: sq.StatementBuilder.PlaceholderFormat(dialect.placeholder()),
		logger:  logger,
	}, nil
}

// Dialect returns the SQL flavor of this database.
func (db *DB) Dialect() Dialect { return db.dialect }

// migration is one versioned schema change. Postgres falls back to SQL when
// PostgresSQL is empty.
type migration struct {
	Version     int
	Name        string
	SQL         string
	PostgresSQL string
}

var migrations = []migration{
	{
		Version: 1,
		Name:    "principals",
		SQL: `CREATE TABLE IF NOT EXISTS principals (
			id           TEXT PRIMARY KEY,
			email        TEXT NOT NULL UNIQUE,
			display_name TEXT NOT NULL,
			status       TEXT NOT NULL,
			created_at   TEXT NOT NULL,

			CHECK (status IN ('active', 'revoked'))
		)`,
	},
	{
		Version: 2,
		Name:    "roles",
		SQL: `CREATE TABLE IF NOT EXISTS roles (
			principal_id TEXT NOT NULL REFERENCES principals(id) ON DELETE CASCADE,
			role         TEXT NOT NULL,
			created_at   TEXT NOT NULL,

			PRIMARY KEY (principal_id, role),
			CHECK (role IN ('user', 'admin'))
		)`,
	},
	{
		Version: 3,
		Name:    "roles_principal_index",
		SQL:     `CREATE INDEX IF NOT EXISTS idx_roles_principal ON roles(principal_id)`,
	},
}

// Migrate applies pending migrations in order and creates the given entity
// tables. Safe to run on every startup.
func (db *DB) Migrate(ctx context.Context, tables ...TableDef) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		name       TEXT NOT NULL,
		applied_at TEXT NOT NULL
	)`); err != nil {
		return fmt.Errorf("creating schema_migrations: %w", err)
	}

	for _, m := range migrations {
		applied, err := db.migrationApplied(ctx, m.Version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		stmt := m.SQL
		if db.dialect == DialectPostgres && m.PostgresSQL != "" {
			stmt = m.PostgresSQL
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("applying migration %d (%s): %w", m.Version, m.Name, err)
		}

		query, args, err := db.builder.Insert("schema_migrations").
			Columns("version", "name", "applied_at").
			Values(m.Version, m.Name, time.Now().UTC().Format(time.RFC3339)).
			ToSql()
		if err != nil {
			return fmt.Errorf("building migration record: %w", err)
		}
		if _, err := db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("recording migration %d: %w", m.Version, err)
		}
		db.logger.Info("applied migration", "version", m.Version, "name", m.Name)
	}

	for _, t := range tables {
		if _, err := db.ExecContext(ctx, t.CreateTable(db.dialect)); err != nil {
			return fmt.Errorf("creating table %s: %w", t.TableName(), err)
		}
	}
	return nil
}

func (db *DB) migrationApplied(ctx context.Context, version int) (bool, error) {
	query, args, err := db.builder.Select("1").From("schema_migrations").
		Where(sq.Eq{"version": version}).ToSql()
	if err != nil {
		return false, fmt.Errorf("building migration check: %w", err)
	}
	var one int
	err = db.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking migration %d: %w", version, err)
	}
	return true, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	db.logger.Info("closing database")
	return db.DB.Close()
}
