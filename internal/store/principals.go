// ABOUTME: SQL implementation of PrincipalStore
// ABOUTME: Principals are the identities bearer tokens resolve to

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
)

// principalRow is the storage shape of a Principal.
type principalRow struct {
	ID          string `db:"id"`
	Email       string `db:"email"`
	DisplayName string `db:"display_name"`
	Status      string `db:"status"`
	CreatedAt   string `db:"created_at"`
}

func (r principalRow) toPrincipal() (*Principal, error) {
	createdAt, err := time.Parse(time.RFC3339, r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at for principal %s: %w", r.ID, err)
	}
	return &Principal{
		ID:          r.ID,
		Email:       r.Email,
		DisplayName: r.DisplayName,
		Status:      PrincipalStatus(r.Status),
		CreatedAt:   createdAt,
	}, nil
}

var principalColumns = []string{"id", "email", "display_name", "status", "created_at"}

// isConstraintViolation checks if the error is a UNIQUE constraint violation.
// SQLite reports "UNIQUE constraint failed", Postgres SQLSTATE 23505.
func isConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "UNIQUE constraint failed") ||
		strings.Contains(errStr, "SQLSTATE 23505")
}

// CreatePrincipal inserts a new principal. Emails are unique.
func (db *DB) CreatePrincipal(ctx context.Context, p *Principal) error {
	query, args, err := db.builder.Insert("principals").
		Columns(principalColumns...).
		Values(p.ID, p.Email, p.DisplayName, string(p.Status), p.CreatedAt.UTC().Format(time.RFC3339)).
		ToSql()
	if err != nil {
		return fmt.Errorf("building principal insert: %w", err)
	}

	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		if isConstraintViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("inserting principal: %w", err)
	}

	db.logger.Debug("created principal", "id", p.ID, "email", p.Email)
	return nil
}

// GetPrincipal retrieves a principal by ID.
// Returns ErrPrincipalNotFound if it doesn't exist.
func (db *DB) GetPrincipal(ctx context.Context, id string) (*Principal, error) {
	return db.getPrincipal(ctx, sq.Eq{"id": id})
}

// GetPrincipalByEmail retrieves a principal by email address.
func (db *DB) GetPrincipalByEmail(ctx context.Context, email string) (*Principal, error) {
	return db.getPrincipal(ctx, sq.Eq{"email": email})
}

func (db *DB) getPrincipal(ctx context.Context, where sq.Eq) (*Principal, error) {
	query, args, err := db.builder.Select(principalColumns...).
		From("principals").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building principal query: %w", err)
	}

	var row principalRow
	err = db.GetContext(ctx, &row, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPrincipalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying principal: %w", err)
	}
	return row.toPrincipal()
}

// ListPrincipals returns every principal ordered by creation time.
func (db *DB) ListPrincipals(ctx context.Context) ([]*Principal, error) {
	query, args, err := db.builder.Select(principalColumns...).
		From("principals").
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building principal list: %w", err)
	}

	var rows []principalRow
	if err := db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("listing principals: %w", err)
	}

	principals := make([]*Principal, 0, len(rows))
	for _, r := range rows {
		p, err := r.toPrincipal()
		if err != nil {
			return nil, err
		}
		principals = append(principals, p)
	}
	return principals, nil
}

// UpdatePrincipalStatus changes a principal's status.
// Returns ErrPrincipalNotFound if it doesn't exist.
func (db *DB) UpdatePrincipalStatus(ctx context.Context, id string, status PrincipalStatus) error {
	query, args, err := db.builder.Update("principals").
		Set("status", string(status)).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building status update: %w", err)
	}

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating principal status: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return ErrPrincipalNotFound
	}

	db.logger.Info("updated principal status", "id", id, "status", status)
	return nil
}
