package users

import (
	"context"
	"database/sql"

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

type ListUsersOptions struct {
	Limit  *int
	Offset *int

	includeTotal bool
}

func (svc *Service) ListUsers(ctx context.Context, opts ListUsersOptions) ([]*models.User, error) {
	users, _, err := svc.listUsersWithTotal(ctx, opts)
	return users, errors.WithStack(err)
}

func (svc *Service) ListUsersWithTotal(ctx context.Context, opts ListUsersOptions) ([]*models.User, int, error) {
	opts.includeTotal = true
	return svc.listUsersWithTotal(ctx, opts)
}

func (svc *Service) listUsersWithTotal(ctx context.Context, opts ListUsersOptions) ([]*models.User, int, error) {
	users := []*models.User{}
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&users).
		Order("u.id ASC")

	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}

	if opts.includeTotal {
		total, err = q.ScanAndCount(ctx)
	} else {
		err = q.Scan(ctx)
	}
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return users, total, nil
}

func (svc *Service) RetrieveUser(ctx context.Context, id int) (*models.User, error) {
	user := &models.User{}

	err := svc.db.
		NewSelect().
		Model(user).
		Where("u.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("User")
		}
		return nil, errors.WithStack(err)
	}

	return user, nil
}

// DeleteUser removes a user. The schema handles the fallout: owned books
// keep existing with a NULL owner, and the user's relation rows cascade
// away.
func (svc *Service) DeleteUser(ctx context.Context, id int) error {
	res, err := svc.db.
		NewDelete().
		Model((*models.User)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return errors.WithStack(err)
	}
	if affected == 0 {
		return errcodes.NotFound("User")
	}

	return nil
}
