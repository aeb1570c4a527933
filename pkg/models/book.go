package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID         int       `bun:",pk,nullzero" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Name       string    `bun:",nullzero" json:"name"`
	AuthorName *string   `json:"author_name"`
	Price      Price     `json:"price"`
	OwnerID    *int      `json:"owner_id"`
	Owner      *User     `bun:"rel:belongs-to,join:owner_id=id" json:"owner,omitempty"`

	// Aggregates computed from user_book_relations at read time. Never
	// written back to the books table.
	LikesCount    int      `bun:",scanonly" json:"likes_count"`
	AverageRating *float64 `bun:",scanonly" json:"average_rating"`

	Relations []*UserBookRelation `bun:"rel:has-many,join:id=book_id" json:"-"`
}
