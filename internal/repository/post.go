// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"yatube/internal/listing"
	"yatube/internal/models"
	"yatube/internal/observability"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Page(ctx context.Context, f listing.Filter, number, size int) (listing.Page[*models.Post], error)
	CountByAuthor(ctx context.Context, authorID uint) (int64, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) span(ctx context.Context, method string) (context.Context, func(error)) {
	ctx, span := observability.StartRepositorySpan(ctx, r.db.Dialector.Name(), "posts", method)
	return ctx, func(err error) { observability.EndSpan(span, err) }
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) (err error) {
	ctx, end := r.span(ctx, "Create")
	defer func() { end(err) }()

	return r.db.WithContext(ctx).Omit("Author", "Group").Create(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (_ *models.Post, err error) {
	ctx, end := r.span(ctx, "GetByID")
	defer func() { end(err) }()

	var post models.Post
	err = r.db.WithContext(ctx).
		Preload("Author").
		Preload("Group").
		First(&post, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("post", id)
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Update writes the editable columns only; the author and creation time never change.
func (r *postRepository) Update(ctx context.Context, post *models.Post) (err error) {
	ctx, end := r.span(ctx, "Update")
	defer func() { end(err) }()

	res := r.db.WithContext(ctx).
		Model(post).
		Select("text", "group_id", "updated_at").
		Updates(map[string]interface{}{
			"text":     post.Text,
			"group_id": post.GroupID,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("post", post.ID)
	}
	return nil
}

// Page counts the filtered posts, clamps the requested number with
// listing.Window and loads only that window, newest first.
func (r *postRepository) Page(ctx context.Context, f listing.Filter, number, size int) (_ listing.Page[*models.Post], err error) {
	ctx, end := r.span(ctx, "Page")
	defer func() { end(err) }()

	var total int64
	if err = applyFilter(r.db.WithContext(ctx).Model(&models.Post{}), f).Count(&total).Error; err != nil {
		return listing.Page[*models.Post]{}, err
	}

	bounds := listing.Window(total, number, size)
	if bounds.Limit == 0 {
		return listing.NewPage([]*models.Post{}, bounds, total), nil
	}

	var posts []*models.Post
	err = applyFilter(r.db.WithContext(ctx), f).
		Preload("Author").
		Preload("Group").
		Order("created_at DESC").
		Order("id DESC").
		Limit(bounds.Limit).
		Offset(bounds.Offset).
		Find(&posts).Error
	if err != nil {
		return listing.Page[*models.Post]{}, err
	}

	return listing.NewPage(posts, bounds, total), nil
}

func (r *postRepository) CountByAuthor(ctx context.Context, authorID uint) (_ int64, err error) {
	ctx, end := r.span(ctx, "CountByAuthor")
	defer func() { end(err) }()

	var n int64
	err = r.db.WithContext(ctx).Model(&models.Post{}).Where("author_id = ?", authorID).Count(&n).Error
	return n, err
}

func applyFilter(tx *gorm.DB, f listing.Filter) *gorm.DB {
	switch f.Kind {
	case listing.ByGroup:
		return tx.Where("group_id = ?", f.ID)
	case listing.ByAuthor:
		return tx.Where("author_id = ?", f.ID)
	default:
		return tx
	}
}
