package repository

import (
	"context"
	"regexp"
	"testing"

	"yatube/internal/listing"
	"yatube/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	post := &models.Post{Text: "Test Post", AuthorID: 10}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "posts"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := repo.Create(context.Background(), post)
	assert.NoError(t, err)
	assert.Equal(t, uint(1), post.ID)
	assert.False(t, post.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_GetByID(t *testing.T) {
	tests := []struct {
		name         string
		postID       uint
		mockBehavior func(mock sqlmock.Sqlmock)
		expectedText string
		expectedCode string
	}{
		{
			name:   "Success",
			postID: 1,
			mockBehavior: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "posts" WHERE "posts"."id" = $1 ORDER BY "posts"."id" LIMIT $2`)).
					WithArgs(1, 1).
					WillReturnRows(sqlmock.NewRows([]string{"id", "text", "author_id", "group_id"}).AddRow(1, "Post 1", 10, nil))
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1`)).
					WithArgs(10).
					WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow(10, "leo"))
			},
			expectedText: "Post 1",
		},
		{
			name:   "Not Found",
			postID: 99,
			mockBehavior: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "posts" WHERE "posts"."id" = $1`)).
					WithArgs(99, 1).
					WillReturnRows(sqlmock.NewRows([]string{"id"}))
			},
			expectedCode: models.CodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupMockDB(t)
			repo := NewPostRepository(db)
			tt.mockBehavior(mock)

			post, err := repo.GetByID(context.Background(), tt.postID)
			if tt.expectedCode != "" {
				assert.True(t, models.IsCode(err, tt.expectedCode))
				assert.Nil(t, post)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedText, post.Text)
				require.NotNil(t, post.Author)
				assert.Equal(t, "leo", post.Author.Username)
				assert.Nil(t, post.Group)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostRepository_CountByAuthor(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "posts" WHERE author_id = $1`)).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(13))

	n, err := repo.CountByAuthor(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(13), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_Page_Empty(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "posts" WHERE group_id = $1`)).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	page, err := repo.Page(context.Background(), listing.ForGroup(3), 1, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.TotalPages)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_Page_SQLite(t *testing.T) {
	db := setupSQLite(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := &models.User{Username: "leo", Email: "leo@example.com", Password: "x"}
	other := &models.User{Username: "anna", Email: "anna@example.com", Password: "x"}
	require.NoError(t, db.Create(author).Error)
	require.NoError(t, db.Create(other).Error)
	group := &models.Group{Title: "Cats", Slug: "cats"}
	require.NoError(t, db.Create(group).Error)

	posts := seedPosts(t, db, author, 13, func(i int) *uint {
		if i%2 == 0 {
			return &group.ID
		}
		return nil
	})
	seedPosts(t, db, other, 2, nil)

	t.Run("index pages by author filter", func(t *testing.T) {
		first, err := repo.Page(ctx, listing.ForAuthor(author.ID), 1, 10)
		require.NoError(t, err)
		assert.Len(t, first.Items, 10)
		assert.Equal(t, int64(13), first.TotalCount)
		assert.Equal(t, 2, first.TotalPages)
		assert.Equal(t, posts[12].ID, first.Items[0].ID)
		require.NotNil(t, first.Items[0].Author)
		assert.Equal(t, "leo", first.Items[0].Author.Username)

		second, err := repo.Page(ctx, listing.ForAuthor(author.ID), 2, 10)
		require.NoError(t, err)
		assert.Len(t, second.Items, 3)
		assert.Equal(t, posts[0].ID, second.Items[2].ID)

		clamped, err := repo.Page(ctx, listing.ForAuthor(author.ID), 3, 10)
		require.NoError(t, err)
		assert.Equal(t, 2, clamped.Number)
		assert.Len(t, clamped.Items, 3)
		assert.Equal(t, second.Items[0].ID, clamped.Items[0].ID)
	})

	t.Run("group filter keeps order", func(t *testing.T) {
		page, err := repo.Page(ctx, listing.ForGroup(group.ID), 1, 100)
		require.NoError(t, err)
		assert.Len(t, page.Items, 7)
		for i, p := range page.Items {
			require.NotNil(t, p.GroupID)
			assert.Equal(t, group.ID, *p.GroupID)
			require.NotNil(t, p.Group)
			assert.Equal(t, "cats", p.Group.Slug)
			if i > 0 {
				assert.True(t, page.Items[i-1].CreatedAt.After(p.CreatedAt))
			}
		}
	})

	t.Run("all posts", func(t *testing.T) {
		page, err := repo.Page(ctx, listing.All(), 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(15), page.TotalCount)
	})
}

func TestPostRepository_Update_SQLite(t *testing.T) {
	db := setupSQLite(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := &models.User{Username: "leo", Email: "leo@example.com", Password: "x"}
	require.NoError(t, db.Create(author).Error)
	group := &models.Group{Title: "Cats", Slug: "cats"}
	require.NoError(t, db.Create(group).Error)
	post := seedPosts(t, db, author, 1, nil)[0]

	post.Text = "edited"
	post.GroupID = &group.ID
	post.AuthorID = 999
	require.NoError(t, repo.Update(ctx, &post))

	reloaded, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", reloaded.Text)
	assert.Equal(t, author.ID, reloaded.AuthorID)
	require.NotNil(t, reloaded.GroupID)
	assert.Equal(t, group.ID, *reloaded.GroupID)
	assert.True(t, reloaded.CreatedAt.Equal(post.CreatedAt))

	missing := models.Post{ID: 12345, Text: "nope"}
	assert.True(t, models.IsCode(repo.Update(ctx, &missing), models.CodeNotFound))
}
