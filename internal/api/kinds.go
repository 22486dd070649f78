// ABOUTME: Kind binds an entity schema to its URL prefix and create-parameter decoder
// ABOUTME: Declares the six resources served by campus-api

package api

import (
	"github.com/cs156/campus-api/internal/entities"
	"github.com/cs156/campus-api/internal/store"
)

// Kind describes one CRUD resource.
type Kind[T any] struct {
	Path   string // URL prefix, e.g. "/api/helprequest"
	Schema store.Schema[T]
	// FromQuery builds a record with id unset from the create parameters.
	FromQuery func(q *Query) T
}

// Name is the entity name used in messages.
func (k Kind[T]) Name() string { return k.Schema.Entity }

var HelpRequests = Kind[entities.HelpRequest]{
	Path:   "/api/helprequest",
	Schema: entities.HelpRequestSchema,
	FromQuery: func(q *Query) entities.HelpRequest {
		return entities.HelpRequest{
			RequesterEmail:      q.String("requesterEmail"),
			TeamID:              q.String("teamId"),
			TableOrBreakoutRoom: q.String("tableOrBreakoutRoom"),
			RequestTime:         q.DateTime("requestTime"),
			Explanation:         q.String("explanation"),
			Solved:              q.Bool("solved"),
		}
	},
}

var MenuItemReviews = Kind[entities.MenuItemReview]{
	Path:   "/api/menuitemreview",
	Schema: entities.MenuItemReviewSchema,
	FromQuery: func(q *Query) entities.MenuItemReview {
		return entities.MenuItemReview{
			ItemID:        q.Int64("itemId"),
			ReviewerEmail: q.String("reviewerEmail"),
			Stars:         q.Int("stars"),
			DateReviewed:  q.OptionalDateTime("dateReviewed"),
			Comments:      q.String("comments"),
		}
	},
}

var DiningCommonsMenuItems = Kind[entities.UCSBDiningCommonsMenuItem]{
	Path:   "/api/ucsbdiningcommonsmenuitem",
	Schema: entities.UCSBDiningCommonsMenuItemSchema,
	FromQuery: func(q *Query) entities.UCSBDiningCommonsMenuItem {
		return entities.UCSBDiningCommonsMenuItem{
			DiningCommonsCode: q.String("diningCommonsCode"),
			Name:              q.String("name"),
			Station:           q.String("station"),
		}
	},
}

var Articles = Kind[entities.Article]{
	Path:   "/api/articles",
	Schema: entities.ArticleSchema,
	FromQuery: func(q *Query) entities.Article {
		return entities.Article{
			Title:       q.String("title"),
			URL:         q.String("url"),
			Explanation: q.String("explanation"),
			Email:       q.String("email"),
			DateAdded:   q.DateTime("dateAdded"),
		}
	},
}

var Organizations = Kind[entities.UCSBOrganization]{
	Path:   "/api/ucsborganizations",
	Schema: entities.UCSBOrganizationSchema,
	FromQuery: func(q *Query) entities.UCSBOrganization {
		return entities.UCSBOrganization{
			OrgCode:             q.String("orgCode"),
			OrgTranslationShort: q.String("orgTranslationShort"),
			OrgTranslation:      q.String("orgTranslation"),
			Inactive:            q.Bool("inactive"),
		}
	},
}

var RecommendationRequests = Kind[entities.RecommendationRequest]{
	Path:   "/api/recommendationrequest",
	Schema: entities.RecommendationRequestSchema,
	FromQuery: func(q *Query) entities.RecommendationRequest {
		return entities.RecommendationRequest{
			RequesterEmail: q.String("requesterEmail"),
			ProfessorEmail: q.String("professorEmail"),
			Explanation:    q.String("explanation"),
			DateRequested:  q.DateTime("dateRequested"),
			DateNeeded:     q.DateTime("dateNeeded"),
			Done:           q.Bool("done"),
		}
	},
}
