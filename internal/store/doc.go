// Package store provides persistent storage for campus-api.
//
// # Architecture
//
// Entity records are stored through the generic Repository interface. Each
// entity declares a Schema (table, ordered columns, id accessors, and the
// record-to-row mapping); Table binds a Schema to an open DB and builds its
// statements with squirrel, scanning rows back with sqlx.
//
// DB also implements PrincipalStore and RoleStore, the identities that bearer
// tokens resolve to and the roles they hold.
//
// # Dialects
//
//   - sqlite: modernc.org/sqlite, WAL mode with foreign keys on; ":memory:" for tests
//   - postgres: pgx through database/sql
//
// # Error Handling
//
//   - ErrNotFound: FindByID found no row
//   - ErrPrincipalNotFound, ErrDuplicateEmail: principal lookups and inserts
//   - *PersistenceError: any failure of the underlying storage
//
// All methods accept context.Context for cancellation support.
//
// # Testing
//
// Use NewMemoryRepository and NewMockStore for handler tests, and
// Open(ctx, DialectSQLite, path, logger) with a temp dir for integration tests.
//
// # Migrations
//
// Versioned migrations are recorded in schema_migrations and run on every
// startup by DB.Migrate, which also creates the entity tables.
package store
