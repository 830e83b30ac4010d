package cache

import (
	"context"
	"fmt"
	"time"

	"yatube/internal/listing"
	"yatube/internal/middleware"
)

const (
	PostKeyPrefix  = "post:%d"
	GroupKeyPrefix = "group:%s"
	UserKeyPrefix  = "user:%s"

	listVersionKey = "posts:list:version"
	listKeyFormat  = "posts:list:v%d:%s:p%d:s%d"
)

const (
	PostTTL  = 30 * time.Minute
	GroupTTL = 10 * time.Minute
	UserTTL  = 5 * time.Minute
	ListTTL  = time.Minute
)

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func GroupKey(slug string) string {
	return fmt.Sprintf(GroupKeyPrefix, slug)
}

func UserKey(username string) string {
	return fmt.Sprintf(UserKeyPrefix, username)
}

// PostsListKey returns the key for one cached listing page. The key embeds the
// current list version, so InvalidatePostLists retires every page at once.
func PostsListKey(ctx context.Context, f listing.Filter, number, size int) string {
	var version int64
	if client != nil {
		v, err := client.Get(ctx, listVersionKey).Int64()
		if err == nil {
			version = v
		}
	}
	return fmt.Sprintf(listKeyFormat, version, f, number, size)
}

// InvalidatePostLists retires every cached listing page.
func InvalidatePostLists(ctx context.Context) {
	if client == nil {
		return
	}
	if err := client.Incr(ctx, listVersionKey).Err(); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to bump post list version", "error", err)
	}
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
	InvalidatePostLists(ctx)
}

func InvalidateGroup(ctx context.Context, slug string) {
	Invalidate(ctx, GroupKey(slug))
	InvalidatePostLists(ctx)
}
