// ABOUTME: Round-trips every entity schema through a real SQLite table
// ABOUTME: Catches column/tag mismatches between structs and schema definitions

package entities

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/cs156/campus-api/internal/store"
)

func openTestDB(t *testing.T) *store.DB {
	t.Helper()
	ctx := context.Background()
	db, err := store.Open(ctx, store.DialectSQLite, filepath.Join(t.TempDir(), "entities.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate(ctx, Tables()...))
	return db
}

func roundTrip[T any](t *testing.T, db *store.DB, schema store.Schema[T], rec T) {
	t.Helper()
	ctx := context.Background()

	table, err := store.NewTable(db, schema)
	require.NoError(t, err)

	saved, err := table.Save(ctx, rec)
	require.NoError(t, err)
	require.NotZero(t, schema.ID(saved))

	found, err := table.FindByID(ctx, schema.ID(saved))
	require.NoError(t, err)
	if diff := cmp.Diff(saved, found); diff != "" {
		t.Errorf("%s round trip mismatch (-saved +found):\n%s", schema.Entity, diff)
	}

	all, err := table.ListAll(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff([]T{saved}, all); diff != "" {
		t.Errorf("%s list mismatch (-want +got):\n%s", schema.Entity, diff)
	}
}

func TestSchemas_RoundTrip(t *testing.T) {
	db := openTestDB(t)
	jan3 := NewDateTime(2022, time.January, 3, 0, 0, 0)

	t.Run("HelpRequest", func(t *testing.T) {
		roundTrip(t, db, HelpRequestSchema, HelpRequest{
			RequesterEmail:      "a@ucsb.edu",
			TeamID:              "1",
			TableOrBreakoutRoom: "B",
			RequestTime:         jan3,
			Explanation:         "x",
			Solved:              true,
		})
	})
	t.Run("MenuItemReview", func(t *testing.T) {
		roundTrip(t, db, MenuItemReviewSchema, MenuItemReview{
			ItemID:        7,
			ReviewerEmail: "cgaucho@ucsb.edu",
			Stars:         5,
			DateReviewed:  jan3,
			Comments:      "great",
		})
	})
	t.Run("MenuItemReview without date", func(t *testing.T) {
		roundTrip(t, db, MenuItemReviewSchema, MenuItemReview{ItemID: 8, Stars: 1})
	})
	t.Run("UCSBDiningCommonsMenuItem", func(t *testing.T) {
		roundTrip(t, db, UCSBDiningCommonsMenuItemSchema, UCSBDiningCommonsMenuItem{
			DiningCommonsCode: "ortega",
			Name:              "Baked Pesto Pasta with Chicken",
			Station:           "Entree Specials",
		})
	})
	t.Run("Article", func(t *testing.T) {
		roundTrip(t, db, ArticleSchema, Article{
			Title:       "sample 1",
			URL:         "https://www.example.com/sample1",
			Explanation: "sample 1 description",
			Email:       "email1@ucsb.edu",
			DateAdded:   NewDateTime(2022, time.January, 2, 12, 0, 0),
		})
	})
	t.Run("UCSBOrganization", func(t *testing.T) {
		roundTrip(t, db, UCSBOrganizationSchema, UCSBOrganization{
			OrgCode:             "ZPY",
			OrgTranslationShort: "ZETA PHI RHO",
			OrgTranslation:      "ZETA PHI RHO",
			Inactive:            true,
		})
	})
	t.Run("RecommendationRequest", func(t *testing.T) {
		roundTrip(t, db, RecommendationRequestSchema, RecommendationRequest{
			RequesterEmail: "evania@ucsb.edu",
			ProfessorEmail: "prof@ucsb.edu",
			Explanation:    "sample explanation",
			DateRequested:  NewDateTime(2022, time.January, 2, 12, 0, 0),
			DateNeeded:     NewDateTime(2022, time.January, 12, 12, 0, 0),
		})
	})
}

func TestSchemas_Valid(t *testing.T) {
	require.NoError(t, HelpRequestSchema.Validate())
	require.NoError(t, MenuItemReviewSchema.Validate())
	require.NoError(t, UCSBDiningCommonsMenuItemSchema.Validate())
	require.NoError(t, ArticleSchema.Validate())
	require.NoError(t, UCSBOrganizationSchema.Validate())
	require.NoError(t, RecommendationRequestSchema.Validate())
}
