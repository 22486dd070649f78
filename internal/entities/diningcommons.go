// ABOUTME: UCSBDiningCommonsMenuItem is a dish served at a dining commons station
// ABOUTME: Stored in the ucsbdiningcommonsmenuitems table

package entities

import "github.com/cs156/campus-api/internal/store"

type UCSBDiningCommonsMenuItem struct {
	ID                int64  `json:"id" db:"id"`
	DiningCommonsCode string `json:"diningCommonsCode" db:"dining_commons_code"`
	Name              string `json:"name" db:"name"`
	Station           string `json:"station" db:"station"`
}

var UCSBDiningCommonsMenuItemSchema = store.Schema[UCSBDiningCommonsMenuItem]{
	Entity: "UCSBDiningCommonsMenuItem",
	Table:  "ucsbdiningcommonsmenuitems",
	Columns: []store.Column{
		{Name: "dining_commons_code", Type: store.Text},
		{Name: "name", Type: store.Text},
		{Name: "station", Type: store.Text},
	},
	ID:     func(r UCSBDiningCommonsMenuItem) int64 { return r.ID },
	WithID: func(r UCSBDiningCommonsMenuItem, id int64) UCSBDiningCommonsMenuItem { r.ID = id; return r },
	Values: func(r UCSBDiningCommonsMenuItem) []any {
		return []any{r.DiningCommonsCode, r.Name, r.Station}
	},
}
