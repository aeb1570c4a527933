package bookrelations

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/shelfmark/shelfmark/pkg/errcodes"
	"github.com/shelfmark/shelfmark/pkg/models"
	"github.com/uptrace/bun"
)

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

type UpsertRelationOptions struct {
	UserID int
	BookID int
	// nil fields are left untouched on an existing row.
	Like        *bool
	InBookmarks *bool
	Rate        *int
	// ClearRate nulls the stored rate; a nil Rate alone leaves it as is.
	ClearRate bool
}

// UpsertRelation resolves the relation row for (user, book), creating it on
// first write, and applies the supplied fields. The single INSERT ... ON
// CONFLICT statement keeps concurrent first writes to the same pair atomic.
func (svc *Service) UpsertRelation(ctx context.Context, opts UpsertRelationOptions) (*models.UserBookRelation, error) {
	exists, err := svc.db.
		NewSelect().
		Model((*models.Book)(nil)).
		Where("id = ?", opts.BookID).
		Exists(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if !exists {
		return nil, errcodes.NotFound("Book")
	}

	now := time.Now()
	rel := &models.UserBookRelation{
		CreatedAt: now,
		UpdatedAt: now,
		UserID:    opts.UserID,
		BookID:    opts.BookID,
	}
	if opts.Like != nil {
		rel.Like = *opts.Like
	}
	if opts.InBookmarks != nil {
		rel.InBookmarks = *opts.InBookmarks
	}
	if opts.Rate != nil {
		rel.Rate = opts.Rate
	}

	q := svc.db.
		NewInsert().
		Model(rel).
		On("CONFLICT (user_id, book_id) DO UPDATE").
		Set("updated_at = EXCLUDED.updated_at")

	if opts.Like != nil {
		q = q.Set(`"like" = EXCLUDED."like"`)
	}
	if opts.InBookmarks != nil {
		q = q.Set("in_bookmarks = EXCLUDED.in_bookmarks")
	}
	if opts.Rate != nil || opts.ClearRate {
		q = q.Set("rate = EXCLUDED.rate")
	}

	_, err = q.Returning("*").Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return rel, nil
}

type RetrieveRelationOptions struct {
	UserID int
	BookID int
}

func (svc *Service) RetrieveRelation(ctx context.Context, opts RetrieveRelationOptions) (*models.UserBookRelation, error) {
	rel := &models.UserBookRelation{}

	err := svc.db.
		NewSelect().
		Model(rel).
		Where("r.user_id = ?", opts.UserID).
		Where("r.book_id = ?", opts.BookID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Relation")
		}
		return nil, errors.WithStack(err)
	}

	return rel, nil
}
