// ABOUTME: HelpRequest records a team asking for help during a lab section
// ABOUTME: Stored in the helprequests table

package entities

import "github.com/cs156/campus-api/internal/store"

// HelpRequest is a request for help from a team at a table or breakout room.
type HelpRequest struct {
	ID                  int64    `json:"id" db:"id"`
	RequesterEmail      string   `json:"requesterEmail" db:"requester_email"`
	TeamID              string   `json:"teamId" db:"team_id"`
	TableOrBreakoutRoom string   `json:"tableOrBreakoutRoom" db:"table_or_breakout_room"`
	RequestTime         DateTime `json:"requestTime" db:"request_time"`
	Explanation         string   `json:"explanation" db:"explanation"`
	Solved              bool     `json:"solved" db:"solved"`
}

// HelpRequestSchema maps HelpRequest to its table.
var HelpRequestSchema = store.Schema[HelpRequest]{
	Entity: "HelpRequest",
	Table:  "helprequests",
	Columns: []store.Column{
		{Name: "requester_email", Type: store.Text},
		{Name: "team_id", Type: store.Text},
		{Name: "table_or_breakout_room", Type: store.Text},
		{Name: "request_time", Type: store.DateTime},
		{Name: "explanation", Type: store.Text},
		{Name: "solved", Type: store.Boolean},
	},
	ID:     func(r HelpRequest) int64 { return r.ID },
	WithID: func(r HelpRequest, id int64) HelpRequest { r.ID = id; return r },
	Values: func(r HelpRequest) []any {
		return []any{r.RequesterEmail, r.TeamID, r.TableOrBreakoutRoom, r.RequestTime, r.Explanation, r.Solved}
	},
}
