package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Rating bounds for UserBookRelation.Rate.
const (
	RateMin = 1
	RateMax = 5
)

// UserBookRelation records a user's interaction with a book. There is at
// most one row per (user, book) pair; the row is created implicitly the
// first time the user touches the book.
type UserBookRelation struct {
	bun.BaseModel `bun:"table:user_book_relations,alias:r"`

	ID          int       `bun:",pk,nullzero" json:"-"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
	UserID      int       `bun:",nullzero" json:"-"`
	User        *User     `bun:"rel:belongs-to,join:user_id=id" json:"-"`
	BookID      int       `bun:",nullzero" json:"book"`
	Book        *Book     `bun:"rel:belongs-to,join:book_id=id" json:"-"`
	Like        bool      `json:"like"`
	InBookmarks bool      `json:"in_bookmarks"`
	Rate        *int      `json:"rate"`
}
