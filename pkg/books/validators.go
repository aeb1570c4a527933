package books

import "github.com/shelfmark/shelfmark/pkg/models"

type ListBooksQuery struct {
	Search   *string       `query:"search" json:"search,omitempty" validate:"omitempty,max=100"`
	Price    *models.Price `query:"price" json:"price,omitempty"`
	Ordering *string       `query:"ordering" json:"ordering,omitempty" validate:"omitempty,max=30"`
	Limit    *int          `query:"limit" json:"limit,omitempty" validate:"omitempty,min=1,max=200"`
	Offset   *int          `query:"offset" json:"offset,omitempty" validate:"omitempty,min=0"`
}

// BookPayload is the body for both create and full update: a complete
// replacement of the writable fields.
type BookPayload struct {
	Name       string        `json:"name" mod:"trim" validate:"required,max=255"`
	AuthorName *string       `json:"author_name,omitempty" mod:"trim" validate:"omitempty,max=255"`
	Price      *models.Price `json:"price" validate:"required"`
}

// PartialUpdateBookPayload applies only the fields that are present.
type PartialUpdateBookPayload struct {
	Name       *string       `json:"name,omitempty" mod:"trim" validate:"omitempty,min=1,max=255"`
	AuthorName *string       `json:"author_name,omitempty" mod:"trim" validate:"omitempty,max=255"`
	Price      *models.Price `json:"price,omitempty"`
}
