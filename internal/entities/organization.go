// ABOUTME: UCSBOrganization is a registered student organization
// ABOUTME: Stored in the ucsborganizations table

package entities

import "github.com/cs156/campus-api/internal/store"

// UCSBOrganization is keyed by a store-assigned id like every other record;
// OrgCode is data and is not unique.
type UCSBOrganization struct {
	ID                  int64  `json:"id" db:"id"`
	OrgCode             string `json:"orgCode" db:"org_code"`
	OrgTranslationShort string `json:"orgTranslationShort" db:"org_translation_short"`
	OrgTranslation      string `json:"orgTranslation" db:"org_translation"`
	Inactive            bool   `json:"inactive" db:"inactive"`
}

var UCSBOrganizationSchema = store.Schema[UCSBOrganization]{
	Entity: "UCSBOrganization",
	Table:  "ucsborganizations",
	Columns: []store.Column{
		{Name: "org_code", Type: store.Text},
		{Name: "org_translation_short", Type: store.Text},
		{Name: "org_translation", Type: store.Text},
		{Name: "inactive", Type: store.Boolean},
	},
	ID:     func(r UCSBOrganization) int64 { return r.ID },
	WithID: func(r UCSBOrganization, id int64) UCSBOrganization { r.ID = id; return r },
	Values: func(r UCSBOrganization) []any {
		return []any{r.OrgCode, r.OrgTranslationShort, r.OrgTranslation, r.Inactive}
	},
}
