// ABOUTME: Role names and SQL store methods for authorization
// ABOUTME: Roles grant capabilities to principals

package store

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
)

// RoleName represents a role that can be granted
type RoleName string

const (
	RoleUser  RoleName = "user"
	RoleAdmin RoleName = "admin"
)

// ValidRoleNames lists all valid role names
var ValidRoleNames = []RoleName{
	RoleUser,
	RoleAdmin,
}

// IsValid reports whether r is a known role.
func (r RoleName) IsValid() bool {
	for _, v := range ValidRoleNames {
		if r == v {
			return true
		}
	}
	return false
}

// AddRole grants a role to a principal. This operation is idempotent - adding
// an existing role succeeds silently.
func (db *DB) AddRole(ctx context.Context, principalID string, role RoleName) error {
	query, args, err := db.builder.Insert("roles").
		Columns("principal_id", "role", "created_at").
		Values(principalID, string(role), time.Now().UTC().Format(time.RFC3339)).
		Suffix("ON CONFLICT (principal_id, role) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("building role insert: %w", err)
	}

	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("adding role: %w", err)
	}

	db.logger.Debug("added role", "principal_id", principalID, "role", role)
	return nil
}

// RemoveRole removes a role from a principal. This operation is idempotent -
// removing a role that was never granted succeeds silently.
func (db *DB) RemoveRole(ctx context.Context, principalID string, role RoleName) error {
	query, args, err := db.builder.Delete("roles").
		Where(sq.Eq{"principal_id": principalID, "role": string(role)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building role delete: %w", err)
	}

	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("removing role: %w", err)
	}

	db.logger.Debug("removed role", "principal_id", principalID, "role", role)
	return nil
}

// HasRole checks if a principal has a specific role. Returns false for
// unknown principals (not an error).
func (db *DB) HasRole(ctx context.Context, principalID string, role RoleName) (bool, error) {
	query, args, err := db.builder.Select("COUNT(*)").
		From("roles").
		Where(sq.Eq{"principal_id": principalID, "role": string(role)}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("building role check: %w", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("checking role: %w", err)
	}
	return count > 0, nil
}

// ListRoles returns all roles granted to a principal. Returns an empty slice
// if the principal has none.
func (db *DB) ListRoles(ctx context.Context, principalID string) ([]RoleName, error) {
	query, args, err := db.builder.Select("role").
		From("roles").
		Where(sq.Eq{"principal_id": principalID}).
		OrderBy("role").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building role list: %w", err)
	}

	var names []string
	if err := db.SelectContext(ctx, &names, query, args...); err != nil {
		return nil, fmt.Errorf("listing roles: %w", err)
	}

	roles := make([]RoleName, len(names))
	for i, n := range names {
		roles[i] = RoleName(n)
	}
	return roles, nil
}
