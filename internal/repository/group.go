package repository

import (
	"context"
	"errors"

	"yatube/internal/models"
	"yatube/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GroupRepository defines the interface for group data operations
type GroupRepository interface {
	GetBySlug(ctx context.Context, slug string) (*models.Group, error)
	GetByID(ctx context.Context, id uint) (*models.Group, error)
	List(ctx context.Context) ([]models.Group, error)
	Upsert(ctx context.Context, groups []models.Group) error
	Delete(ctx context.Context, id uint) ([]uint, error)
}

type groupRepository struct {
	db *gorm.DB
}

// NewGroupRepository creates a new group repository
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) span(ctx context.Context, method string) (context.Context, func(error)) {
	ctx, span := observability.StartRepositorySpan(ctx, r.db.Dialector.Name(), "groups", method)
	return ctx, func(err error) { observability.EndSpan(span, err) }
}

func (r *groupRepository) GetBySlug(ctx context.Context, slug string) (_ *models.Group, err error) {
	ctx, end := r.span(ctx, "GetBySlug")
	defer func() { end(err) }()

	var group models.Group
	err = r.db.WithContext(ctx).Where("slug = ?", slug).First(&group).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("group", slug)
	}
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepository) GetByID(ctx context.Context, id uint) (_ *models.Group, err error) {
	ctx, end := r.span(ctx, "GetByID")
	defer func() { end(err) }()

	var group models.Group
	err = r.db.WithContext(ctx).First(&group, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("group", id)
	}
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepository) List(ctx context.Context) (_ []models.Group, err error) {
	ctx, end := r.span(ctx, "List")
	defer func() { end(err) }()

	var groups []models.Group
	err = r.db.WithContext(ctx).Order("title ASC").Find(&groups).Error
	return groups, err
}

// Upsert inserts groups keyed by slug, refreshing title and description of existing rows.
func (r *groupRepository) Upsert(ctx context.Context, groups []models.Group) (err error) {
	if len(groups) == 0 {
		return nil
	}
	ctx, end := r.span(ctx, "Upsert")
	defer func() { end(err) }()

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "description", "updated_at"}),
	}).Create(&groups).Error
}

// Delete removes a group and detaches its posts in one transaction, so the
// posts survive even where the database does not enforce ON DELETE SET NULL.
// It returns the ids of the detached posts.
func (r *groupRepository) Delete(ctx context.Context, id uint) (detached []uint, err error) {
	ctx, end := r.span(ctx, "Delete")
	defer func() { end(err) }()

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{}).Where("group_id = ?", id).Pluck("id", &detached).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Post{}).Where("group_id = ?", id).Update("group_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Group{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("group", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detached, nil
}
