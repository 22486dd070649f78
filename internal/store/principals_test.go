// ABOUTME: Tests for principals store operations
// ABOUTME: Covers create, lookups, listing, and status updates

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPrincipal(id, email string) *Principal {
	return &Principal{
		ID:          id,
		Email:       email,
		DisplayName: "Test " + id,
		Status:      PrincipalStatusActive,
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}
}

func TestPrincipalStore_Create(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	p := newTestPrincipal("principal-123", "cgaucho@ucsb.edu")
	require.NoError(t, db.CreatePrincipal(ctx, p))

	retrieved, err := db.GetPrincipal(ctx, "principal-123")
	require.NoError(t, err)
	assert.Equal(t, p, retrieved)
}

func TestPrincipalStore_Create_DuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.CreatePrincipal(ctx, newTestPrincipal("p1", "same@ucsb.edu")))
	err := db.CreatePrincipal(ctx, newTestPrincipal("p2", "same@ucsb.edu"))
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestPrincipalStore_GetByEmail(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.CreatePrincipal(ctx, newTestPrincipal("p1", "ldelplaya@ucsb.edu")))

	p, err := db.GetPrincipalByEmail(ctx, "ldelplaya@ucsb.edu")
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)

	_, err = db.GetPrincipalByEmail(ctx, "nobody@ucsb.edu")
	assert.ErrorIs(t, err, ErrPrincipalNotFound)
}

func TestPrincipalStore_Get_NotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.GetPrincipal(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrPrincipalNotFound)
}

func TestPrincipalStore_List(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	empty, err := db.ListPrincipals(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	older := newTestPrincipal("b", "b@ucsb.edu")
	older.CreatedAt = older.CreatedAt.Add(-time.Hour)
	require.NoError(t, db.CreatePrincipal(ctx, newTestPrincipal("a", "a@ucsb.edu")))
	require.NoError(t, db.CreatePrincipal(ctx, older))

	list, err := db.ListPrincipals(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID)
	assert.Equal(t, "a", list[1].ID)
}

func TestPrincipalStore_UpdateStatus(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.CreatePrincipal(ctx, newTestPrincipal("p1", "p1@ucsb.edu")))
	require.NoError(t, db.UpdatePrincipalStatus(ctx, "p1", PrincipalStatusRevoked))

	p, err := db.GetPrincipal(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, PrincipalStatusRevoked, p.Status)

	err = db.UpdatePrincipalStatus(ctx, "missing", PrincipalStatusRevoked)
	assert.ErrorIs(t, err, ErrPrincipalNotFound)
}
