package sqlite

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsdesk/internal/domain"
)

func TestArticleRepository_ListOrdering(t *testing.T) {
	db := newTestDB(t)
	repo := NewArticleRepository(db)
	ctx := context.Background()
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	seed := []domain.Article{
		{UserID: alice.ID, Title: "old", Content: "c", Category: "tech", CreatedAt: base},
		{UserID: bob.ID, Title: "mid", Content: "c", Category: "sports", CreatedAt: base.Add(time.Hour)},
		{UserID: alice.ID, Title: "new", Content: "c", Category: "tech", CreatedAt: base.Add(2 * time.Hour)},
	}
	for i := range seed {
		_, err := repo.Create(ctx, &seed[i])
		require.NoError(t, err)
	}

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"new", "mid", "old"}, titles(all))

	mine, err := repo.ListByOwner(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"new", "old"}, titles(mine))

	tech, err := repo.ListByCategory(ctx, "tech")
	require.NoError(t, err)
	assert.Equal(t, []string{"new", "old"}, titles(tech))

	none, err := repo.ListByCategory(ctx, "Tech")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestArticleRepository_SameTimestampNewestIDFirst(t *testing.T) {
	db := newTestDB(t)
	repo := NewArticleRepository(db)
	user := createTestUser(t, db, "alice")
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, title := range []string{"first", "second"} {
		_, err := repo.Create(context.Background(), &domain.Article{UserID: user.ID, Title: title, Content: "c", Category: "x", CreatedAt: at})
		require.NoError(t, err)
	}

	got, err := repo.ListByOwner(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"second", "first"}, titles(got))
}

func TestArticleRepository_CreateRoundTrip(t *testing.T) {
	db := newTestDB(t)
	repo := NewArticleRepository(db)
	user := createTestUser(t, db, "alice")

	a := &domain.Article{UserID: user.ID, Title: "T", Content: "C", Category: "tech", ImageURL: "http://img"}
	id, err := repo.Create(context.Background(), a)
	require.NoError(t, err)
	assert.Equal(t, id, a.ID)
	assert.False(t, a.CreatedAt.IsZero())
	assert.Equal(t, time.UTC, a.CreatedAt.Location())

	got, err := repo.ListByOwner(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "http://img", got[0].ImageURL)
	assert.Equal(t, user.ID, got[0].UserID)
}

func TestArticleRepository_UnknownOwnerRejected(t *testing.T) {
	db := newTestDB(t)
	repo := NewArticleRepository(db)

	_, err := repo.Create(context.Background(), &domain.Article{UserID: 404, Title: "T", Content: "C", Category: "x"})
	require.Error(t, err)

	all, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestArticleRepository_CreateRollsBackOnInsertError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO articles`)).
		WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	_, err = NewArticleRepository(db).Create(context.Background(), &domain.Article{UserID: 1, Title: "T", Content: "C", Category: "x"})
	require.ErrorContains(t, err, "disk I/O error")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestArticleRepository_CommitFailureSurfaces(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO articles`)).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectCommit().WillReturnError(errors.New("database is locked"))

	a := &domain.Article{UserID: 1, Title: "T", Content: "C", Category: "x"}
	_, err = NewArticleRepository(db).Create(context.Background(), a)
	require.ErrorContains(t, err, "database is locked")
	assert.Zero(t, a.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func titles(articles []domain.Article) []string {
	out := make([]string, len(articles))
	for i, a := range articles {
		out[i] = a.Title
	}
	return out
}
