package books

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shelfmark/shelfmark/pkg/errcodes"
	"github.com/shelfmark/shelfmark/pkg/models"
	"github.com/uptrace/bun"
)

// Columns the list endpoint can be ordered by.
var orderableColumns = map[string]string{
	"id":          "b.id",
	"name":        "b.name",
	"author_name": "b.author_name",
	"price":       "b.price",
}

const (
	likesCountExpr    = `(SELECT COUNT(*) FROM user_book_relations AS r WHERE r.book_id = b.id AND r."like") AS likes_count`
	averageRatingExpr = `(SELECT AVG(r.rate) FROM user_book_relations AS r WHERE r.book_id = b.id AND r.rate IS NOT NULL) AS average_rating`
)

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) CreateBook(ctx context.Context, book *models.Book) error {
	now := time.Now()
	if book.CreatedAt.IsZero() {
		book.CreatedAt = now
	}
	book.UpdatedAt = book.CreatedAt

	_, err := svc.db.
		NewInsert().
		Model(book).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

type RetrieveBookOptions struct {
	ID *int
}

func (svc *Service) RetrieveBook(ctx context.Context, opts RetrieveBookOptions) (*models.Book, error) {
	book := &models.Book{}

	q := svc.db.
		NewSelect().
		Model(book).
		ColumnExpr("b.*").
		ColumnExpr(likesCountExpr).
		ColumnExpr(averageRatingExpr)

	if opts.ID != nil {
		q = q.Where("b.id = ?", *opts.ID)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book")
		}
		return nil, errors.WithStack(err)
	}

	return book, nil
}

type ListBooksOptions struct {
	// Search matches books whose name or author name contains the value,
	// case-insensitively.
	Search *string
	// Price filters on exact equality.
	Price *models.Price
	// Ordering names an orderable column, with an optional leading minus
	// for descending. Ties always break in insertion order.
	Ordering *string
	Limit    *int
	Offset   *int

	includeTotal bool
}

func (svc *Service) ListBooks(ctx context.Context, opts ListBooksOptions) ([]*models.Book, error) {
	books, _, err := svc.listBooksWithTotal(ctx, opts)
	return books, errors.WithStack(err)
}

func (svc *Service) ListBooksWithTotal(ctx context.Context, opts ListBooksOptions) ([]*models.Book, int, error) {
	opts.includeTotal = true
	return svc.listBooksWithTotal(ctx, opts)
}

func (svc *Service) listBooksWithTotal(ctx context.Context, opts ListBooksOptions) ([]*models.Book, int, error) {
	books := []*models.Book{}
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&books).
		ColumnExpr("b.*").
		ColumnExpr(likesCountExpr).
		ColumnExpr(averageRatingExpr)

	if opts.Search != nil && *opts.Search != "" {
		pattern := "%" + escapeLike(*opts.Search) + "%"
		q = q.Where(`(b.name LIKE ? ESCAPE '\' OR b.author_name LIKE ? ESCAPE '\')`, pattern, pattern)
	}
	if opts.Price != nil {
		q = q.Where("b.price = ?", *opts.Price)
	}

	if opts.Ordering != nil && *opts.Ordering != "" {
		column, desc, err := resolveOrdering(*opts.Ordering)
		if err != nil {
			return nil, 0, err
		}
		if desc {
			q = q.OrderExpr(column + " DESC")
		} else {
			q = q.OrderExpr(column + " ASC")
		}
	}
	q = q.Order("b.id ASC")

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

	return books, total, nil
}

type UpdateBookOptions struct {
	Columns []string
}

func (svc *Service) UpdateBook(ctx context.Context, book *models.Book, opts UpdateBookOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	book.UpdatedAt = time.Now()
	columns := append(opts.Columns, "updated_at")

	_, err := svc.db.
		NewUpdate().
		Model(book).
		Column(columns...).
		Where("id = ?", book.ID).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// DeleteBook removes a book; its relation rows cascade away with it.
func (svc *Service) DeleteBook(ctx context.Context, id int) error {
	res, err := svc.db.
		NewDelete().
		Model((*models.Book)(nil)).
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
		return errcodes.NotFound("Book")
	}

	return nil
}

func resolveOrdering(ordering string) (string, bool, error) {
	desc := strings.HasPrefix(ordering, "-")
	field := strings.TrimPrefix(ordering, "-")

	column, ok := orderableColumns[field]
	if !ok {
		return "", false, errcodes.ValidationError("ordering", "\""+ordering+"\" is not a valid choice.")
	}

	return column, desc, nil
}

// escapeLike escapes LIKE wildcards so user input only ever matches
// literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
