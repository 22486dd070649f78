// ABOUTME: Tests for roles store operations
// ABOUTME: Covers Add, Remove, Has, and List for role grants

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRoleDB(t *testing.T) *DB {
	t.Helper()
	db := setupTestDB(t)
	require.NoError(t, db.CreatePrincipal(context.Background(), newTestPrincipal("principal-123", "p@ucsb.edu")))
	return db
}

func TestRoleStore_Add(t *testing.T) {
	db := setupRoleDB(t)
	ctx := context.Background()

	err := db.AddRole(ctx, "principal-123", RoleAdmin)
	require.NoError(t, err)

	has, err := db.HasRole(ctx, "principal-123", RoleAdmin)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestRoleStore_Add_Idempotent(t *testing.T) {
	db := setupRoleDB(t)
	ctx := context.Background()

	require.NoError(t, db.AddRole(ctx, "principal-123", RoleAdmin))
	require.NoError(t, db.AddRole(ctx, "principal-123", RoleAdmin), "adding existing role should be idempotent")

	roles, err := db.ListRoles(ctx, "principal-123")
	require.NoError(t, err)
	assert.Len(t, roles, 1)
}

func TestRoleStore_Add_UnknownRoleRejected(t *testing.T) {
	db := setupRoleDB(t)

	err := db.AddRole(context.Background(), "principal-123", RoleName("owner"))
	assert.Error(t, err)
}

func TestRoleStore_Remove(t *testing.T) {
	db := setupRoleDB(t)
	ctx := context.Background()

	require.NoError(t, db.AddRole(ctx, "principal-123", RoleAdmin))
	require.NoError(t, db.RemoveRole(ctx, "principal-123", RoleAdmin))

	has, err := db.HasRole(ctx, "principal-123", RoleAdmin)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestRoleStore_Remove_Idempotent(t *testing.T) {
	db := setupRoleDB(t)

	err := db.RemoveRole(context.Background(), "principal-123", RoleAdmin)
	require.NoError(t, err, "removing non-existent role should be idempotent")
}

func TestRoleStore_Has_UnknownPrincipal(t *testing.T) {
	db := setupRoleDB(t)

	has, err := db.HasRole(context.Background(), "nobody", RoleUser)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestRoleStore_List(t *testing.T) {
	db := setupRoleDB(t)
	ctx := context.Background()

	roles, err := db.ListRoles(ctx, "principal-123")
	require.NoError(t, err)
	assert.NotNil(t, roles)
	assert.Empty(t, roles)

	require.NoError(t, db.AddRole(ctx, "principal-123", RoleUser))
	require.NoError(t, db.AddRole(ctx, "principal-123", RoleAdmin))

	roles, err = db.ListRoles(ctx, "principal-123")
	require.NoError(t, err)
	assert.Equal(t, []RoleName{RoleAdmin, RoleUser}, roles)
}

func TestRoleName_IsValid(t *testing.T) {
	assert.True(t, RoleAdmin.IsValid())
	assert.True(t, RoleUser.IsValid())
	assert.False(t, RoleName("owner").IsValid())
}
