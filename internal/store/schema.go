// ABOUTME: Explicit table definitions mapping records to storage rows
// ABOUTME: Schema[T] carries columns, id accessors, and the record-to-row mapping

package store

import (
	"fmt"
	"strings"
)

// ColumnType is the logical type of a column, rendered per dialect.
type ColumnType int

const (
	Text ColumnType = iota
	Integer
	Boolean
	DateTime
)

// Column is one non-id column of a table. Name must match the record's db tag.
type Column struct {
	Name string
	Type ColumnType
}

// Schema describes how records of type T are stored.
//
// Values must return one value per column, in Columns order. Rows are read back
// into T by column name, so every column needs a matching `db` struct tag on T
// (and the id column is tagged `db:"id"`).
type Schema[T any] struct {
	Entity  string // display name used in messages, e.g. "HelpRequest"
	Table   string
	Columns []Column
	ID      func(T) int64
	WithID  func(T, int64) T
	Values  func(T) []any
}

// TableName returns the table name.
func (s Schema[T]) TableName() string { return s.Table }

// ColumnNames returns the non-id column names in order.
func (s Schema[T]) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// CreateTable renders the CREATE TABLE IF NOT EXISTS statement for the dialect.
func (s Schema[T]) CreateTable(d Dialect) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n\t%s", s.Table, d.idColumn())
	for _, c := range s.Columns {
		fmt.Fprintf(&b, ",\n\t%s %s", c.Name, d.columnType(c.Type))
	}
	b.WriteString("\n)")
	return b.String()
}

// Validate checks the schema is internally consistent.
func (s Schema[T]) Validate() error {
	if s.Entity == "" || s.Table == "" {
		return fmt.Errorf("schema: entity and table are required")
	}
	if s.ID == nil || s.WithID == nil || s.Values == nil {
		return fmt.Errorf("schema %s: ID, WithID and Values mappings are required", s.Entity)
	}
	if len(s.Columns) == 0 {
		return fmt.Errorf("schema %s: at least one column is required", s.Entity)
	}
	seen := make(map[string]bool, len(s.Columns))
	for _, c := range s.Columns {
		if c.Name == "" || c.Name == "id" {
			return fmt.Errorf("schema %s: invalid column name %q", s.Entity, c.Name)
		}
		if seen[c.Name] {
			return fmt.Errorf("schema %s: duplicate column %q", s.Entity, c.Name)
		}
		seen[c.Name] = true
	}
	return nil
}

// TableDef is the non-generic view of a Schema used by migrations.
type TableDef interface {
	TableName() string
	CreateTable(d Dialect) string
}
