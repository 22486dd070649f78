// ABOUTME: Article is a link shared by a student with a short explanation
// ABOUTME: Stored in the articles table

package entities

import "github.com/cs156/campus-api/internal/store"

// Article is a shared link.
type Article struct {
	ID          int64    `json:"id" db:"id"`
	Title       string   `json:"title" db:"title"`
	URL         string   `json:"url" db:"url"`
	Explanation string   `json:"explanation" db:"explanation"`
	Email       string   `json:"email" db:"email"`
	DateAdded   DateTime `json:"dateAdded" db:"date_added"`
}

var ArticleSchema = store.Schema[Article]{
	Entity: "Article",
	Table:  "articles",
	Columns: []store.Column{
		{Name: "title", Type: store.Text},
		{Name: "url", Type: store.Text},
		{Name: "explanation", Type: store.Text},
		{Name: "email", Type: store.Text},
		{Name: "date_added", Type: store.DateTime},
	},
	ID:     func(r Article) int64 { return r.ID },
	WithID: func(r Article, id int64) Article { r.ID = id; return r },
	Values: func(r Article) []any {
		return []any{r.Title, r.URL, r.Explanation, r.Email, r.DateAdded}
	},
}
