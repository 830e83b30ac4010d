package service

import (
	"context"
	"errors"
	"testing"

	"yatube/internal/listing"
	"yatube/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn        func(context.Context, *models.Post) error
	getByIDFn       func(context.Context, uint) (*models.Post, error)
	updateFn        func(context.Context, *models.Post) error
	pageFn          func(context.Context, listing.Filter, int, int) (listing.Page[*models.Post], error)
	countByAuthorFn func(context.Context, uint) (int64, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Page(ctx context.Context, f listing.Filter, number, size int) (listing.Page[*models.Post], error) {
	return s.pageFn(ctx, f, number, size)
}
func (s *postRepoStub) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	return s.countByAuthorFn(ctx, authorID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:  func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) { return &models.Post{ID: id}, nil },
		updateFn:  func(_ context.Context, _ *models.Post) error { return nil },
		pageFn: func(_ context.Context, f listing.Filter, number, size int) (listing.Page[*models.Post], error) {
			return listing.Paginate[*models.Post](nil, f, number, size), nil
		},
		countByAuthorFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

// memoryPostRepo pages over an in-memory slice ordered newest first.
func memoryPostRepo(posts []*models.Post) *postRepoStub {
	repo := noopPostRepo()
	repo.pageFn = func(_ context.Context, f listing.Filter, number, size int) (listing.Page[*models.Post], error) {
		return listing.Paginate(posts, f, number, size), nil
	}
	repo.countByAuthorFn = func(_ context.Context, authorID uint) (int64, error) {
		var n int64
		for _, p := range posts {
			if p.AuthorID == authorID {
				n++
			}
		}
		return n, nil
	}
	return repo
}

// groupRepoStub is a stub for repository.GroupRepository.
type groupRepoStub struct {
	getBySlugFn func(context.Context, string) (*models.Group, error)
	getByIDFn   func(context.Context, uint) (*models.Group, error)
	listFn      func(context.Context) ([]models.Group, error)
	upsertFn    func(context.Context, []models.Group) error
	deleteFn    func(context.Context, uint) ([]uint, error)
}

func (s *groupRepoStub) GetBySlug(ctx context.Context, slug string) (*models.Group, error) {
	return s.getBySlugFn(ctx, slug)
}
func (s *groupRepoStub) GetByID(ctx context.Context, id uint) (*models.Group, error) {
	return s.getByIDFn(ctx, id)
}
func (s *groupRepoStub) List(ctx context.Context) ([]models.Group, error) {
	return s.listFn(ctx)
}
func (s *groupRepoStub) Upsert(ctx context.Context, groups []models.Group) error {
	return s.upsertFn(ctx, groups)
}
func (s *groupRepoStub) Delete(ctx context.Context, id uint) ([]uint, error) {
	return s.deleteFn(ctx, id)
}

// groupsOf serves lookups from a fixed set of groups.
func groupsOf(groups ...models.Group) *groupRepoStub {
	return &groupRepoStub{
		getBySlugFn: func(_ context.Context, slug string) (*models.Group, error) {
			for i := range groups {
				if groups[i].Slug == slug {
					g := groups[i]
					return &g, nil
				}
			}
			return nil, models.NewNotFoundError("Group", slug)
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Group, error) {
			for i := range groups {
				if groups[i].ID == id {
					g := groups[i]
					return &g, nil
				}
			}
			return nil, models.NewNotFoundError("Group", id)
		},
		listFn:   func(_ context.Context) ([]models.Group, error) { return groups, nil },
		upsertFn: func(_ context.Context, _ []models.Group) error { return nil },
		deleteFn: func(_ context.Context, _ uint) ([]uint, error) { return nil, nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn        func(context.Context, *models.User) error
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}

// memoryUserRepo keeps created users in a slice and assigns ids.
func memoryUserRepo(users ...*models.User) *userRepoStub {
	find := func(match func(*models.User) bool, key any) (*models.User, error) {
		for _, u := range users {
			if match(u) {
				return u, nil
			}
		}
		return nil, models.NewNotFoundError("User", key)
	}
	return &userRepoStub{
		createFn: func(_ context.Context, u *models.User) error {
			u.ID = uint(len(users) + 1)
			users = append(users, u)
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return find(func(u *models.User) bool { return u.ID == id }, id)
		},
		getByUsernameFn: func(_ context.Context, username string) (*models.User, error) {
			return find(func(u *models.User) bool { return u.Username == username }, username)
		},
		getByEmailFn: func(_ context.Context, email string) (*models.User, error) {
			return find(func(u *models.User) bool { return u.Email == email }, email)
		},
	}
}

// publisherStub records published posts.
type publisherStub struct {
	published []*models.Post
	err       error
}

func (p *publisherStub) PublishPostCreated(_ context.Context, post *models.Post) error {
	p.published = append(p.published, post)
	return p.err
}

func assertAppError(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

func uintPtr(v uint) *uint { return &v }
