package users

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

func createTestUser(ctx context.Context, t *testing.T, db *bun.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		PasswordHash: "x",
		IsActive:     true,
	}
	_, err := db.NewInsert().Model(user).Returning("*").Exec(ctx)
	require.NoError(t, err)

	return user
}

func TestServiceListUsersWithTotal(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	createTestUser(ctx, t, db, "alice")
	createTestUser(ctx, t, db, "bob")
	createTestUser(ctx, t, db, "carol")

	limit := 2
	users, total, err := svc.ListUsersWithTotal(ctx, ListUsersOptions{Limit: &limit})
	require.NoError(t, err)

	assert.Equal(t, 3, total)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "bob", users[1].Username)
}

func TestServiceRetrieveUser_NotFound(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)

	_, err := svc.RetrieveUser(context.Background(), 999)
	require.Error(t, err)

	var e *errcodes.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, http.StatusNotFound, e.HTTPCode)
	assert.Equal(t, "User not found.", e.Message)
}

func TestServiceDeleteUser_OrphansBooksAndDropsRelations(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	owner := createTestUser(ctx, t, db, "owner")
	reader := createTestUser(ctx, t, db, "reader")

	book := &models.Book{Name: "Dune", Price: 10000, OwnerID: &owner.ID}
	_, err := db.NewInsert().Model(book).Returning("*").Exec(ctx)
	require.NoError(t, err)

	_, err = db.Exec(
		`INSERT INTO user_book_relations (user_id, book_id, "like") VALUES (?, ?, TRUE), (?, ?, TRUE)`,
		owner.ID, book.ID, reader.ID, book.ID,
	)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(ctx, owner.ID))

	// The book survives with no owner
	got := &models.Book{}
	err = db.NewSelect().Model(got).Where("b.id = ?", book.ID).Scan(ctx)
	require.NoError(t, err)
	assert.Nil(t, got.OwnerID)

	// The deleted user's relation rows are gone, other users' remain
	count, err := db.NewSelect().
		Model((*models.UserBookRelation)(nil)).
		Where("book_id = ?", book.ID).
		Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestServiceDeleteUser_NotFound(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)

	err := svc.DeleteUser(context.Background(), 999)
	require.Error(t, err)

	var e *errcodes.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, http.StatusNotFound, e.HTTPCode)
}
