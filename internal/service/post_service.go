package service

import (
	"context"

	"yatube/internal/cache"
	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/observability"
	"yatube/internal/repository"
	"yatube/internal/validation"
)

// EventPublisher fans out post events to live feed subscribers.
type EventPublisher interface {
	PublishPostCreated(ctx context.Context, post *models.Post) error
}

type PostService struct {
	postRepo  repository.PostRepository
	groupRepo repository.GroupRepository
	publisher EventPublisher
}

type CreatePostInput struct {
	AuthorID uint
	Text     string
	GroupID  *uint
}

type UpdatePostInput struct {
	UserID  uint
	PostID  uint
	Text    string
	GroupID *uint
}

// PostDetail is a single post with what its detail page shows.
type PostDetail struct {
	Post            *models.Post `json:"post"`
	Title           string       `json:"title"`
	AuthorPostCount int64        `json:"author_post_count"`
}

// NewPostService wires the post use cases. publisher may be nil when the live feed is off.
func NewPostService(
	postRepo repository.PostRepository,
	groupRepo repository.GroupRepository,
	publisher EventPublisher,
) *PostService {
	return &PostService{
		postRepo:  postRepo,
		groupRepo: groupRepo,
		publisher: publisher,
	}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if in.AuthorID == 0 {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	if err := validation.ValidatePostText(in.Text); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := s.ensureGroup(ctx, in.GroupID); err != nil {
		return nil, err
	}

	post := &models.Post{
		Text:     in.Text,
		AuthorID: in.AuthorID,
		GroupID:  in.GroupID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, models.NewInternalError(err)
	}
	observability.PostsCreated.Inc()
	cache.InvalidatePostLists(ctx)

	created, err := s.postRepo.GetByID(ctx, post.ID)
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		if err := s.publisher.PublishPostCreated(ctx, created); err != nil {
			middleware.Logger.WarnContext(ctx, "failed to publish post_created", "post_id", created.ID, "error", err)
		}
	}
	return created, nil
}

// GetPost returns the post with its detail-page title and the author's post count.
func (s *PostService) GetPost(ctx context.Context, id uint) (*PostDetail, error) {
	var post models.Post
	err := cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
		p, err := s.postRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		post = *p
		return nil
	})
	if err != nil {
		return nil, err
	}

	count, err := s.postRepo.CountByAuthor(ctx, post.AuthorID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	return &PostDetail{
		Post:            &post,
		Title:           post.Headline(),
		AuthorPostCount: count,
	}, nil
}

// UpdatePost edits text and group. Only the author may edit; the ownership
// check runs before input validation.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != in.UserID {
		return nil, models.NewForbiddenError("Only the author can edit this post")
	}

	if err := validation.ValidatePostText(in.Text); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := s.ensureGroup(ctx, in.GroupID); err != nil {
		return nil, err
	}

	post.Text = in.Text
	post.GroupID = in.GroupID
	post.Group = nil
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	cache.InvalidatePost(ctx, post.ID)

	return s.postRepo.GetByID(ctx, post.ID)
}

func (s *PostService) ensureGroup(ctx context.Context, groupID *uint) error {
	if groupID == nil {
		return nil
	}
	if _, err := s.groupRepo.GetByID(ctx, *groupID); err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			return models.NewValidationError("Selected group does not exist")
		}
		return models.NewInternalError(err)
	}
	return nil
}
