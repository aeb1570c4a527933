package books

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/shelfmark/shelfmark/pkg/errcodes"
	"github.com/shelfmark/shelfmark/pkg/migrations"
	"github.com/shelfmark/shelfmark/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err)

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func createTestUser(ctx context.Context, t *testing.T, db *bun.DB, username string, isStaff bool) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		PasswordHash: "x",
		IsStaff:      isStaff,
		IsActive:     true,
	}
	_, err := db.NewInsert().Model(user).Returning("*").Exec(ctx)
	require.NoError(t, err)

	return user
}

func createTestBook(ctx context.Context, t *testing.T, svc *Service, name, author string, price models.Price, ownerID *int) *models.Book {
	t.Helper()

	var authorName *string
	if author != "" {
		authorName = &author
	}
	book := &models.Book{
		Name:       name,
		AuthorName: authorName,
		Price:      price,
		OwnerID:    ownerID,
	}
	require.NoError(t, svc.CreateBook(ctx, book))

	return book
}

func setRelation(ctx context.Context, t *testing.T, db *bun.DB, userID, bookID int, like bool, rate *int) {
	t.Helper()

	_, err := db.Exec(
		`INSERT INTO user_book_relations (user_id, book_id, "like", rate) VALUES (?, ?, ?, ?)`,
		userID, bookID, like, rate,
	)
	require.NoError(t, err)
}

func intPtr(i int) *int       { return &i }
func strPtr(s string) *string { return &s }

func TestServiceRetrieveBook_ComputesAggregates(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	u1 := createTestUser(ctx, t, db, "reader1", false)
	u2 := createTestUser(ctx, t, db, "reader2", false)
	u3 := createTestUser(ctx, t, db, "reader3", false)
	book := createTestBook(ctx, t, svc, "Dune", "Frank Herbert", 10000, nil)

	setRelation(ctx, t, db, u1.ID, book.ID, true, intPtr(5))
	setRelation(ctx, t, db, u2.ID, book.ID, true, intPtr(4))
	setRelation(ctx, t, db, u3.ID, book.ID, false, nil)

	got, err := svc.RetrieveBook(ctx, RetrieveBookOptions{ID: &book.ID})
	require.NoError(t, err)

	assert.Equal(t, 2, got.LikesCount)
	require.NotNil(t, got.AverageRating)
	assert.InDelta(t, 4.5, *got.AverageRating, 0.001)
}

func TestServiceRetrieveBook_NoRelations(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	book := createTestBook(ctx, t, svc, "Dune", "", 10000, nil)

	got, err := svc.RetrieveBook(ctx, RetrieveBookOptions{ID: &book.ID})
	require.NoError(t, err)

	assert.Equal(t, 0, got.LikesCount)
	assert.Nil(t, got.AverageRating)
}

func TestServiceRetrieveBook_NotFound(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)

	_, err := svc.RetrieveBook(context.Background(), RetrieveBookOptions{ID: intPtr(999)})
	require.Error(t, err)

	var e *errcodes.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, http.StatusNotFound, e.HTTPCode)
	assert.Equal(t, "Book not found.", e.Message)
}

func TestServiceListBooks_SearchMatchesNameAndAuthor(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	createTestBook(ctx, t, svc, "The Left Hand of Darkness", "Ursula K. Le Guin", 1500, nil)
	createTestBook(ctx, t, svc, "Earthsea", "Ursula K. Le Guin", 1200, nil)
	createTestBook(ctx, t, svc, "Dune", "Frank Herbert", 10000, nil)

	// Case-insensitive match on author_name
	books, err := svc.ListBooks(ctx, ListBooksOptions{Search: strPtr("ursula")})
	require.NoError(t, err)
	require.Len(t, books, 2)

	// Match on name
	books, err = svc.ListBooks(ctx, ListBooksOptions{Search: strPtr("dune")})
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Dune", books[0].Name)

	// No match
	books, err = svc.ListBooks(ctx, ListBooksOptions{Search: strPtr("tolkien")})
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestServiceListBooks_SearchEscapesWildcards(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	createTestBook(ctx, t, svc, "100% Wrong", "", 500, nil)
	createTestBook(ctx, t, svc, "Completely Right", "", 500, nil)

	books, err := svc.ListBooks(ctx, ListBooksOptions{Search: strPtr("100%")})
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "100% Wrong", books[0].Name)
}

func TestServiceListBooks_PriceFilter(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	b1 := createTestBook(ctx, t, svc, "Book 1", "Author 1", 10000, nil)
	b2 := createTestBook(ctx, t, svc, "Book 2", "Author 2", 10000, nil)
	createTestBook(ctx, t, svc, "Book 3", "Author 3", 9999, nil)

	price, err := models.ParsePrice("100.00")
	require.NoError(t, err)

	books, err := svc.ListBooks(ctx, ListBooksOptions{Price: &price})
	require.NoError(t, err)
	require.Len(t, books, 2)

	// Insertion order when no ordering is given
	assert.Equal(t, b1.ID, books[0].ID)
	assert.Equal(t, b2.ID, books[1].ID)
}

func TestServiceListBooks_Ordering(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	b1 := createTestBook(ctx, t, svc, "Cheap", "", 500, nil)
	b2 := createTestBook(ctx, t, svc, "Expensive", "", 10000, nil)
	b3 := createTestBook(ctx, t, svc, "Also Cheap", "", 500, nil)

	books, err := svc.ListBooks(ctx, ListBooksOptions{Ordering: strPtr("-price")})
	require.NoError(t, err)
	require.Len(t, books, 3)

	// Descending price, ties in insertion order
	assert.Equal(t, b2.ID, books[0].ID)
	assert.Equal(t, b1.ID, books[1].ID)
	assert.Equal(t, b3.ID, books[2].ID)

	books, err = svc.ListBooks(ctx, ListBooksOptions{Ordering: strPtr("author_name")})
	require.NoError(t, err)
	require.Len(t, books, 3)
}

func TestServiceListBooks_FiltersCompose(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	b1 := createTestBook(ctx, t, svc, "Alpha", "Ursula K. Le Guin", 10000, nil)
	createTestBook(ctx, t, svc, "Beta", "Frank Herbert", 10000, nil)
	b3 := createTestBook(ctx, t, svc, "Gamma", "Ursula K. Le Guin", 10000, nil)
	createTestBook(ctx, t, svc, "Delta", "Ursula K. Le Guin", 9999, nil)

	price, err := models.ParsePrice("100.00")
	require.NoError(t, err)

	// Search, price, and ordering all apply to the same query
	books, err := svc.ListBooks(ctx, ListBooksOptions{
		Search:   strPtr("ursula"),
		Price:    &price,
		Ordering: strPtr("-name"),
	})
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, b3.ID, books[0].ID)
	assert.Equal(t, b1.ID, books[1].ID)
}

func TestServiceListBooks_InvalidOrdering(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)

	_, err := svc.ListBooks(context.Background(), ListBooksOptions{Ordering: strPtr("created_at")})
	require.Error(t, err)

	var e *errcodes.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, http.StatusBadRequest, e.HTTPCode)
	assert.Equal(t, "ordering", e.Field)
	assert.Equal(t, `"created_at" is not a valid choice.`, e.Message)
}

func TestServiceListBooks_LimitOffset(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	for _, name := range []string{"A", "B", "C", "D"} {
		createTestBook(ctx, t, svc, name, "", 100, nil)
	}

	books, total, err := svc.ListBooksWithTotal(ctx, ListBooksOptions{Limit: intPtr(2), Offset: intPtr(1)})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	require.Len(t, books, 2)
	assert.Equal(t, "B", books[0].Name)
	assert.Equal(t, "C", books[1].Name)
}

func TestServiceUpdateBook_OnlyNamedColumns(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	book := createTestBook(ctx, t, svc, "Original", "Original Author", 1000, nil)

	book.Name = "Renamed"
	book.Price = 9999
	err := svc.UpdateBook(ctx, book, UpdateBookOptions{Columns: []string{"name"}})
	require.NoError(t, err)

	got, err := svc.RetrieveBook(ctx, RetrieveBookOptions{ID: &book.ID})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, models.Price(1000), got.Price)
}

func TestServiceDeleteBook(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	u := createTestUser(ctx, t, db, "reader", false)
	book := createTestBook(ctx, t, svc, "Doomed", "", 100, nil)
	setRelation(ctx, t, db, u.ID, book.ID, true, nil)

	require.NoError(t, svc.DeleteBook(ctx, book.ID))

	_, err := svc.RetrieveBook(ctx, RetrieveBookOptions{ID: &book.ID})
	require.Error(t, err)

	// Relation rows cascade with the book
	count, err := db.NewSelect().
		Model((*models.UserBookRelation)(nil)).
		Where("book_id = ?", book.ID).
		Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestServiceDeleteBook_NotFound(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)

	err := svc.DeleteBook(context.Background(), 999)
	require.Error(t, err)

	var e *errcodes.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, http.StatusNotFound, e.HTTPCode)
}
