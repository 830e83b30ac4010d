package service

import (
	"context"
	"strconv"

	"yatube/internal/cache"
	"yatube/internal/listing"
	"yatube/internal/models"
	"yatube/internal/observability"
	"yatube/internal/repository"
)

// FeedPage is one page of posts, newest first.
type FeedPage = listing.Page[*models.Post]

// GroupFeed is a page of posts filed under one group.
type GroupFeed struct {
	Group *models.Group `json:"group"`
	Page  FeedPage      `json:"page"`
}

// ProfileFeed is a page of one author's posts plus their total post count.
type ProfileFeed struct {
	Author    *models.User `json:"author"`
	PostCount int64        `json:"post_count"`
	Page      FeedPage     `json:"page"`
}

// FeedService serves the index, group and profile listings. It resolves the
// filter target first so a missing group or author is a not-found error, then
// delegates paging to the repository.
type FeedService struct {
	posts    repository.PostRepository
	groups   repository.GroupRepository
	users    repository.UserRepository
	pageSize int
}

func NewFeedService(
	posts repository.PostRepository,
	groups repository.GroupRepository,
	users repository.UserRepository,
	pageSize int,
) *FeedService {
	if pageSize <= 0 {
		pageSize = listing.DefaultPageSize
	}
	return &FeedService{
		posts:    posts,
		groups:   groups,
		users:    users,
		pageSize: pageSize,
	}
}

// PageSize reports the number of posts per page.
func (s *FeedService) PageSize() int {
	return s.pageSize
}

// Index returns the requested page of all posts.
func (s *FeedService) Index(ctx context.Context, number int) (_ FeedPage, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "FeedService", "Index")
	defer func() { observability.EndSpan(span, err) }()

	return s.page(ctx, "index", listing.All(), number)
}

// GroupPosts returns the requested page of posts in the group with slug.
func (s *FeedService) GroupPosts(ctx context.Context, slug string, number int) (_ *GroupFeed, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "FeedService", "GroupPosts")
	defer func() { observability.EndSpan(span, err) }()

	var group models.Group
	err = cache.Aside(ctx, cache.GroupKey(slug), &group, cache.GroupTTL, func() error {
		g, err := s.groups.GetBySlug(ctx, slug)
		if err != nil {
			return err
		}
		group = *g
		return nil
	})
	if err != nil {
		return nil, err
	}

	page, err := s.page(ctx, "group", listing.ForGroup(group.ID), number)
	if err != nil {
		return nil, err
	}
	return &GroupFeed{Group: &group, Page: page}, nil
}

// Profile returns the requested page of posts by username and their post count.
func (s *FeedService) Profile(ctx context.Context, username string, number int) (_ *ProfileFeed, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "FeedService", "Profile")
	defer func() { observability.EndSpan(span, err) }()

	var author models.User
	err = cache.Aside(ctx, cache.UserKey(username), &author, cache.UserTTL, func() error {
		u, err := s.users.GetByUsername(ctx, username)
		if err != nil {
			return err
		}
		author = *u
		return nil
	})
	if err != nil {
		return nil, err
	}

	page, err := s.page(ctx, "profile", listing.ForAuthor(author.ID), number)
	if err != nil {
		return nil, err
	}
	return &ProfileFeed{Author: &author, PostCount: page.TotalCount, Page: page}, nil
}

func (s *FeedService) page(ctx context.Context, name string, f listing.Filter, number int) (FeedPage, error) {
	var page FeedPage
	key := cache.PostsListKey(ctx, f, number, s.pageSize)
	err := cache.Aside(ctx, key, &page, cache.ListTTL, func() error {
		p, err := s.posts.Page(ctx, f, number, s.pageSize)
		if err != nil {
			return err
		}
		page = p
		return nil
	})
	if err != nil {
		return FeedPage{}, err
	}

	clamped := page.TotalPages > 0 && page.Number != number
	observability.ListingPagesServed.WithLabelValues(name, strconv.FormatBool(clamped)).Inc()
	return page, nil
}
