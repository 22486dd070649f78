// ABOUTME: MenuItemReview is a star rating of a dining commons menu item
// ABOUTME: Stored in the menuitemreviews table

package entities

import "github.com/cs156/campus-api/internal/store"

// MenuItemReview is one reviewer's rating of a menu item.
type MenuItemReview struct {
	ID            int64    `json:"id" db:"id"`
	ItemID        int64    `json:"itemId" db:"item_id"`
	ReviewerEmail string   `json:"reviewerEmail" db:"reviewer_email"`
	Stars         int      `json:"stars" db:"stars"`
	DateReviewed  DateTime `json:"dateReviewed" db:"date_reviewed"`
	Comments      string   `json:"comments" db:"comments"`
}

var MenuItemReviewSchema = store.Schema[MenuItemReview]{
	Entity: "MenuItemReview",
	Table:  "menuitemreviews",
	Columns: []store.Column{
		{Name: "item_id", Type: store.Integer},
		{Name: "reviewer_email", Type: store.Text},
		{Name: "stars", Type: store.Integer},
		{Name: "date_reviewed", Type: store.DateTime},
		{Name: "comments", Type: store.Text},
	},
	ID:     func(r MenuItemReview) int64 { return r.ID },
	WithID: func(r MenuItemReview, id int64) MenuItemReview { r.ID = id; return r },
	Values: func(r MenuItemReview) []any {
		return []any{r.ItemID, r.ReviewerEmail, r.Stars, r.DateReviewed, r.Comments}
	},
}
