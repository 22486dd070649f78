// ABOUTME: Tests for the SQL Repository implementation
// ABOUTME: Covers id assignment, overwrite, delete, and storage failures

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupWidgetTable(t *testing.T) (*DB, *Table[widget]) {
	t.Helper()
	db := setupTestDB(t)
	table, err := NewTable(db, widgetSchema)
	require.NoError(t, err)
	return db, table
}

func TestTable_ListAll_Empty(t *testing.T) {
	_, table := setupWidgetTable(t)

	all, err := table.ListAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestTable_Save_AssignsIncreasingIDs(t *testing.T) {
	_, table := setupWidgetTable(t)
	ctx := context.Background()

	first, err := table.Save(ctx, widget{Name: "bolt", Quantity: 3, Active: true})
	require.NoError(t, err)
	second, err := table.Save(ctx, widget{Name: "bolt", Quantity: 3, Active: true})
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)

	all, err := table.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []widget{first, second}, all)
}

func TestTable_FindByID(t *testing.T) {
	_, table := setupWidgetTable(t)
	ctx := context.Background()

	saved, err := table.Save(ctx, widget{Name: "nut", Quantity: 12})
	require.NoError(t, err)

	found, err := table.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved, found)

	_, err = table.FindByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTable_Save_Overwrites(t *testing.T) {
	_, table := setupWidgetTable(t)
	ctx := context.Background()

	saved, err := table.Save(ctx, widget{Name: "nut", Quantity: 12, Active: true})
	require.NoError(t, err)

	updated, err := table.Save(ctx, widget{ID: saved.ID, Name: "washer", Quantity: 0, Active: false})
	require.NoError(t, err)
	assert.Equal(t, saved.ID, updated.ID)

	found, err := table.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, widget{ID: saved.ID, Name: "washer"}, found)

	all, err := table.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestTable_Delete(t *testing.T) {
	_, table := setupWidgetTable(t)
	ctx := context.Background()

	saved, err := table.Save(ctx, widget{Name: "nut"})
	require.NoError(t, err)

	require.NoError(t, table.Delete(ctx, saved))
	_, err = table.FindByID(ctx, saved.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// deleting again is a no-op
	assert.NoError(t, table.Delete(ctx, saved))
}

func TestTable_IDsNotReusedAfterDelete(t *testing.T) {
	_, table := setupWidgetTable(t)
	ctx := context.Background()

	_, err := table.Save(ctx, widget{Name: "a"})
	require.NoError(t, err)
	last, err := table.Save(ctx, widget{Name: "b"})
	require.NoError(t, err)
	require.NoError(t, table.Delete(ctx, last))

	next, err := table.Save(ctx, widget{Name: "c"})
	require.NoError(t, err)
	assert.Greater(t, next.ID, last.ID)
}

func TestTable_Save_RecreatesDeletedRow(t *testing.T) {
	_, table := setupWidgetTable(t)
	ctx := context.Background()

	saved, err := table.Save(ctx, widget{Name: "a"})
	require.NoError(t, err)
	require.NoError(t, table.Delete(ctx, saved))

	// an overwrite that lost the race with a delete brings the row back
	saved.Name = "b"
	_, err = table.Save(ctx, saved)
	require.NoError(t, err)

	found, err := table.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "b", found.Name)
}

func TestTable_StorageFailure(t *testing.T) {
	db, table := setupWidgetTable(t)
	ctx := context.Background()
	require.NoError(t, db.Close())

	_, err := table.ListAll(ctx)
	assertPersistence(t, err, "list")

	_, err = table.FindByID(ctx, 1)
	assertPersistence(t, err, "find")

	_, err = table.Save(ctx, widget{Name: "x"})
	assertPersistence(t, err, "create")

	_, err = table.Save(ctx, widget{ID: 1, Name: "x"})
	assertPersistence(t, err, "update")

	err = table.Delete(ctx, widget{ID: 1})
	assertPersistence(t, err, "delete")
}

func assertPersistence(t *testing.T, err error, op string) {
	t.Helper()
	require.Error(t, err)
	pe, ok := err.(*PersistenceError)
	require.True(t, ok, "expected *PersistenceError, got %T", err)
	assert.Equal(t, op, pe.Op)
	assert.Equal(t, "Widget", pe.Entity)
}

func TestNewTable_InvalidSchema(t *testing.T) {
	db := setupTestDB(t)
	_, err := NewTable(db, Schema[widget]{Entity: "Widget"})
	assert.Error(t, err)
}
