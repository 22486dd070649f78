package entities

import "github.com/cs156/campus-api/internal/store"

// Tables lists every entity table for migration.
func Tables() []store.TableDef {
	return []store.TableDef{
		HelpRequestSchema,
		MenuItemReviewSchema,
		UCSBDiningCommonsMenuItemSchema,
		ArticleSchema,
		UCSBOrganizationSchema,
		RecommendationRequestSchema,
	}
}
