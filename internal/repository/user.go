package repository

import (
	"context"
	"errors"

	"yatube/internal/models"
	"yatube/internal/observability"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) span(ctx context.Context, method string) (context.Context, func(error)) {
	ctx, span := observability.StartRepositorySpan(ctx, r.db.Dialector.Name(), "users", method)
	return ctx, func(err error) { observability.EndSpan(span, err) }
}

func (r *userRepository) Create(ctx context.Context, user *models.User) (err error) {
	ctx, end := r.span(ctx, "Create")
	defer func() { end(err) }()

	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (_ *models.User, err error) {
	ctx, end := r.span(ctx, "GetByID")
	defer func() { end(err) }()

	return r.first("user", id, r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (_ *models.User, err error) {
	ctx, end := r.span(ctx, "GetByUsername")
	defer func() { end(err) }()

	return r.first("user", username, r.db.WithContext(ctx).Where("username = ?", username))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (_ *models.User, err error) {
	ctx, end := r.span(ctx, "GetByEmail")
	defer func() { end(err) }()

	return r.first("user", email, r.db.WithContext(ctx).Where("email = ?", email))
}

func (r *userRepository) first(resource string, key interface{}, tx *gorm.DB) (*models.User, error) {
	var user models.User
	err := tx.First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError(resource, key)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
