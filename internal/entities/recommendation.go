// ABOUTME: RecommendationRequest is a student asking a professor for a letter
// ABOUTME: Stored in the recommendationrequests table

package entities

import "github.com/cs156/campus-api/internal/store"

type RecommendationRequest struct {
	ID             int64    `json:"id" db:"id"`
	RequesterEmail string   `json:"requesterEmail" db:"requester_email"`
	ProfessorEmail string   `json:"professorEmail" db:"professor_email"`
	Explanation    string   `json:"explanation" db:"explanation"`
	DateRequested  DateTime `json:"dateRequested" db:"date_requested"`
	DateNeeded     DateTime `json:"dateNeeded" db:"date_needed"`
	Done           bool     `json:"done" db:"done"`
}

var RecommendationRequestSchema = store.Schema[RecommendationRequest]{
	Entity: "RecommendationRequest",
	Table:  "recommendationrequests",
	Columns: []store.Column{
		{Name: "requester_email", Type: store.Text},
		{Name: "professor_email", Type: store.Text},
		{Name: "explanation", Type: store.Text},
		{Name: "date_requested", Type: store.DateTime},
		{Name: "date_needed", Type: store.DateTime},
		{Name: "done", Type: store.Boolean},
	},
	ID:     func(r RecommendationRequest) int64 { return r.ID },
	WithID: func(r RecommendationRequest, id int64) RecommendationRequest { r.ID = id; return r },
	Values: func(r RecommendationRequest) []any {
		return []any{r.RequesterEmail, r.ProfessorEmail, r.Explanation, r.DateRequested, r.DateNeeded, r.Done}
	},
}
