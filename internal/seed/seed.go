// Package seed fills the database with default groups and demo content.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configure a demo seed run.
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
	// Password is shared by every seeded user.
	Password string
	// MaxDays spreads post dates over this many days back from now.
	MaxDays int
	// RandSeed makes the generated data reproducible when non-zero.
	RandSeed int64
}

// DefaultPassword is used when Options.Password is empty.
const DefaultPassword = "yatube-demo-pass"

// Seed creates the default groups, NumUsers users and NumPosts posts spread
// across them. Roughly two thirds of the posts are filed under a group.
func Seed(ctx context.Context, db *gorm.DB, opts Options) error {
	middleware.Logger.Info("seeding database", "users", opts.NumUsers, "posts", opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			return fmt.Errorf("clear data: %w", err)
		}
	}

	groupRepo := repository.NewGroupRepository(db)
	if err := Groups(ctx, groupRepo); err != nil {
		return fmt.Errorf("seed groups: %w", err)
	}
	groups, err := groupRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("list groups: %w", err)
	}

	f := newFactory(opts)
	users, err := f.createUsers(ctx, repository.NewUserRepository(db), opts.NumUsers)
	if err != nil {
		return fmt.Errorf("create users: %w", err)
	}
	if len(users) == 0 {
		middleware.Logger.Info("seed finished", "groups", len(groups))
		return nil
	}

	posts := f.buildPosts(users, groups, opts.NumPosts)
	if len(posts) > 0 {
		if err := db.WithContext(ctx).CreateInBatches(posts, 200).Error; err != nil {
			return fmt.Errorf("create posts: %w", err)
		}
	}

	middleware.Logger.Info("seed finished", "groups", len(groups), "users", len(users), "posts", len(posts))
	return nil
}

type factory struct {
	rng      *rand.Rand
	faker    *gofakeit.Faker
	password string
	maxDays  int
	now      time.Time
}

func newFactory(opts Options) *factory {
	seed := opts.RandSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	password := opts.Password
	if password == "" {
		password = DefaultPassword
	}
	maxDays := opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	return &factory{
		rng:      rand.New(rand.NewSource(seed)),
		faker:    gofakeit.New(seed),
		password: password,
		maxDays:  maxDays,
		now:      time.Now(),
	}
}

func (f *factory) createUsers(ctx context.Context, repo repository.UserRepository, n int) ([]*models.User, error) {
	if n <= 0 {
		return nil, nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(f.password), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		first, last := f.faker.FirstName(), f.faker.LastName()
		username := fmt.Sprintf("%s.%s%d", strings.ToLower(first), strings.ToLower(last), i+1)
		u := &models.User{
			Username:  username,
			Email:     username + "@example.com",
			FirstName: first,
			LastName:  last,
			Password:  string(hashed),
		}
		if err := repo.Create(ctx, u); err != nil {
			return nil, fmt.Errorf("user %s: %w", username, err)
		}
		users = append(users, u)
	}
	return users, nil
}

func (f *factory) buildPosts(users []*models.User, groups []models.Group, n int) []*models.Post {
	posts := make([]*models.Post, 0, max(n, 0))
	for i := 0; i < n; i++ {
		author := users[f.rng.Intn(len(users))]
		p := &models.Post{
			Text:      f.faker.Paragraph(1, f.rng.Intn(4)+1, 12, " "),
			AuthorID:  author.ID,
			CreatedAt: f.pastTime(),
		}
		if len(groups) > 0 && f.rng.Intn(3) > 0 {
			id := groups[f.rng.Intn(len(groups))].ID
			p.GroupID = &id
		}
		posts = append(posts, p)
	}
	return posts
}

func (f *factory) pastTime() time.Time {
	back := time.Duration(f.rng.Intn(f.maxDays*24*60)) * time.Minute
	return f.now.Add(-back - time.Minute)
}

func clearData(db *gorm.DB) error {
	tx := db.Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, model := range []any{&models.Post{}, &models.Group{}, &models.User{}} {
		if err := tx.Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	return nil
}
