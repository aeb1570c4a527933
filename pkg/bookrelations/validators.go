package bookrelations

import "github.com/shelfmark/shelfmark/pkg/binder"

// UpdateRelationPayload carries the fields a user can change on their
// relation to a book. Absent fields are left as they are; an explicit null
// rate clears the stored rating.
type UpdateRelationPayload struct {
	Like        *bool              `json:"like,omitempty"`
	InBookmarks *bool              `json:"in_bookmarks,omitempty"`
	Rate        binder.OptionalInt `json:"rate" validate:"omitnil,min=1,max=5"`
}
