package models

import (
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           int       `bun:",pk,nullzero" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Username     string    `bun:",nullzero" json:"username"`
	Email        *string   `json:"email,omitempty"`
	PasswordHash string    `json:"-"` // Never expose password hash
	IsStaff      bool      `json:"is_staff"`
	IsActive     bool      `json:"is_active"`
}

// CanModify reports whether the user may mutate a book: staff users may
// modify any book, everyone else only their own.
func (u *User) CanModify(b *Book) bool {
	if u.IsStaff {
		return true
	}
	return b.OwnerID != nil && *b.OwnerID == u.ID
}
