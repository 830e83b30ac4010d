package service

import (
	"context"

	"yatube/internal/cache"
	"yatube/internal/middleware"
	"yatube/internal/observability"
	"yatube/internal/repository"
)

// GroupService runs administrative changes to groups.
type GroupService struct {
	groups repository.GroupRepository
}

func NewGroupService(groups repository.GroupRepository) *GroupService {
	return &GroupService{groups: groups}
}

// DeleteGroup removes the group with slug. Its posts stay published without a
// group, and every cached copy that still embeds the group is evicted.
// It returns the number of detached posts.
func (s *GroupService) DeleteGroup(ctx context.Context, slug string) (_ int, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "GroupService", "DeleteGroup")
	defer func() { observability.EndSpan(span, err) }()

	group, err := s.groups.GetBySlug(ctx, slug)
	if err != nil {
		return 0, err
	}

	detached, err := s.groups.Delete(ctx, group.ID)
	if err != nil {
		return 0, err
	}

	cache.InvalidateGroup(ctx, slug)
	for _, id := range detached {
		cache.Invalidate(ctx, cache.PostKey(id))
	}

	middleware.Logger.InfoContext(ctx, "group deleted",
		"slug", slug, "group_id", group.ID, "detached_posts", len(detached))
	return len(detached), nil
}
