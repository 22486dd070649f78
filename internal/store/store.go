// ABOUTME: Store interfaces and shared data types for campus-api persistence
// ABOUTME: Defines the generic Repository contract, principals, and storage error kinds

package store

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("not found")

// ErrPrincipalNotFound is returned when a principal lookup finds nothing
var ErrPrincipalNotFound = errors.New("principal not found")

// ErrDuplicateEmail is returned when creating a principal whose email is taken
var ErrDuplicateEmail = errors.New("principal email already exists")

// PersistenceError reports a failure of the underlying storage: the database
// was unreachable, a statement failed, or a write violated a constraint.
type PersistenceError struct {
	Op     string // "list", "find", "create", "update", "delete"
	Entity string
	Err    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Entity, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// IsPersistence reports whether err is (or wraps) a PersistenceError.
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}

// Repository is keyed persistence for one entity type.
//
// FindByID returns ErrNotFound when no row carries the id. Save inserts when the
// record's id is zero (assigning a fresh id) and otherwise overwrites the row with
// that id. Delete of an absent row is a no-op. Any storage failure surfaces as a
// *PersistenceError.
type Repository[T any] interface {
	ListAll(ctx context.Context) ([]T, error)
	FindByID(ctx context.Context, id int64) (T, error)
	Save(ctx context.Context, rec T) (T, error)
	Delete(ctx context.Context, rec T) error
}

// PrincipalStatus is the lifecycle state of a principal
type PrincipalStatus string

const (
	PrincipalStatusActive  PrincipalStatus = "active"
	PrincipalStatusRevoked PrincipalStatus = "revoked"
)

// Principal is an identity that can call the API
type Principal struct {
	ID          string
	Email       string
	DisplayName string
	Status      PrincipalStatus
	CreatedAt   time.Time
}

// PrincipalStore persists principals
type PrincipalStore interface {
	CreatePrincipal(ctx context.Context, p *Principal) error
	GetPrincipal(ctx context.Context, id string) (*Principal, error)
	GetPrincipalByEmail(ctx context.Context, email string) (*Principal, error)
	ListPrincipals(ctx context.Context) ([]*Principal, error)
	UpdatePrincipalStatus(ctx context.Context, id string, status PrincipalStatus) error
}

// RoleStore persists role grants for principals
type RoleStore interface {
	AddRole(ctx context.Context, principalID string, role RoleName) error
	RemoveRole(ctx context.Context, principalID string, role RoleName) error
	HasRole(ctx context.Context, principalID string, role RoleName) (bool, error)
	ListRoles(ctx context.Context, principalID string) ([]RoleName, error)
}
