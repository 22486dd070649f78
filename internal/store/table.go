// ABOUTME: SQL-backed Repository built from a Schema definition
// ABOUTME: Statements come from squirrel, rows are scanned into records with sqlx

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// Table is the SQL implementation of Repository for one entity type.
type Table[T any] struct {
	db     *DB
	schema Schema[T]
}

var _ Repository[struct{}] = (*Table[struct{}])(nil)

// NewTable binds a schema to an open database. The table itself is created by
// DB.Migrate.
func NewTable[T any](db *DB, schema Schema[T]) (*Table[T], error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	return &Table[T]{db: db, schema: schema}, nil
}

func (t *Table[T]) columns() []string {
	return append([]string{"id"}, t.schema.ColumnNames()...)
}

func (t *Table[T]) fail(op string, err error) error {
	return &PersistenceError{Op: op, Entity: t.schema.Entity, Err: err}
}

// ListAll returns every row ordered by id.
func (t *Table[T]) ListAll(ctx context.Context) ([]T, error) {
	query, args, err := t.db.builder.Select(t.columns()...).
		From(t.schema.Table).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, t.fail("list", err)
	}

	records := []T{}
	if err := t.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, t.fail("list", err)
	}
	return records, nil
}

// FindByID returns the row with the given id, or ErrNotFound.
func (t *Table[T]) FindByID(ctx context.Context, id int64) (T, error) {
	var rec T
	query, args, err := t.db.builder.Select(t.columns()...).
		From(t.schema.Table).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return rec, t.fail("find", err)
	}

	err = t.db.GetContext(ctx, &rec, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, ErrNotFound
	}
	if err != nil {
		return rec, t.fail("find", err)
	}
	return rec, nil
}

// Save inserts rec when its id is zero and returns it with the assigned id.
// Otherwise the row with rec's id is overwritten, or recreated if it has been
// deleted in the meantime.
func (t *Table[T]) Save(ctx context.Context, rec T) (T, error) {
	id := t.schema.ID(rec)
	if id == 0 {
		return t.insert(ctx, rec)
	}

	names := t.schema.ColumnNames()
	sets := make([]string, len(names))
	for i, name := range names {
		sets[i] = fmt.Sprintf("%s = excluded.%s", name, name)
	}

	query, args, err := t.db.builder.Insert(t.schema.Table).
		Columns(t.columns()...).
		Values(append([]any{id}, t.schema.Values(rec)...)...).
		Suffix("ON CONFLICT (id) DO UPDATE SET " + strings.Join(sets, ", ")).
		ToSql()
	if err != nil {
		return rec, t.fail("update", err)
	}

	if _, err := t.db.ExecContext(ctx, query, args...); err != nil {
		return rec, t.fail("update", err)
	}
	t.db.logger.Debug("saved record", "entity", t.schema.Entity, "id", id)
	return rec, nil
}

func (t *Table[T]) insert(ctx context.Context, rec T) (T, error) {
	query, args, err := t.db.builder.Insert(t.schema.Table).
		Columns(t.schema.ColumnNames()...).
		Values(t.schema.Values(rec)...).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return rec, t.fail("create", err)
	}

	var id int64
	if err := t.db.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return rec, t.fail("create", err)
	}
	t.db.logger.Debug("created record", "entity", t.schema.Entity, "id", id)
	return t.schema.WithID(rec, id), nil
}

// Delete removes rec's row. Deleting a row that is already gone succeeds.
func (t *Table[T]) Delete(ctx context.Context, rec T) error {
	id := t.schema.ID(rec)
	query, args, err := t.db.builder.Delete(t.schema.Table).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return t.fail("delete", err)
	}

	if _, err := t.db.ExecContext(ctx, query, args...); err != nil {
		return t.fail("delete", err)
	}
	t.db.logger.Debug("deleted record", "entity", t.schema.Entity, "id", id)
	return nil
}
