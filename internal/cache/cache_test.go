package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"yatube/internal/listing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedGroup struct {
	ID   uint   `json:"id"`
	Slug string `json:"slug"`
}

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() {
		_ = client.Close()
		SetClient(nil)
	})
	return mr
}

func TestAside_MissThenHit(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	calls := 0
	fetch := func(dest *cachedGroup) func() error {
		return func() error {
			calls++
			*dest = cachedGroup{ID: 1, Slug: "cats"}
			return nil
		}
	}

	var first cachedGroup
	require.NoError(t, Aside(ctx, GroupKey("cats"), &first, GroupTTL, fetch(&first)))
	assert.Equal(t, "cats", first.Slug)
	assert.True(t, mr.Exists("group:cats"))

	var second cachedGroup
	require.NoError(t, Aside(ctx, GroupKey("cats"), &second, GroupTTL, fetch(&second)))
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)

	ttl := mr.TTL("group:cats")
	assert.Equal(t, GroupTTL, ttl)
}

func TestAside_FetchErrorIsNotCached(t *testing.T) {
	mr := setupMiniredis(t)
	boom := errors.New("boom")

	var dest cachedGroup
	err := Aside(context.Background(), GroupKey("dogs"), &dest, GroupTTL, func() error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("group:dogs"))
}

func TestAside_CorruptEntryFallsThrough(t *testing.T) {
	mr := setupMiniredis(t)
	require.NoError(t, mr.Set("post:9", "{not json"))

	var dest cachedGroup
	err := Aside(context.Background(), PostKey(9), &dest, PostTTL, func() error {
		dest = cachedGroup{ID: 9}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, uint(9), dest.ID)
}

func TestAside_NoClient(t *testing.T) {
	SetClient(nil)
	var dest cachedGroup
	err := Aside(context.Background(), GroupKey("x"), &dest, GroupTTL, func() error {
		dest.Slug = "x"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "x", dest.Slug)
}

func TestPostsListKey_VersionBump(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	before := PostsListKey(ctx, listing.ForGroup(3), 2, 10)
	assert.Equal(t, "posts:list:v0:group:3:p2:s10", before)

	InvalidatePostLists(ctx)
	after := PostsListKey(ctx, listing.ForGroup(3), 2, 10)
	assert.Equal(t, "posts:list:v1:group:3:p2:s10", after)
}

func TestInvalidatePost(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()
	require.NoError(t, SetJSON(ctx, PostKey(5), cachedGroup{ID: 5}, time.Minute))

	InvalidatePost(ctx, 5)
	assert.False(t, mr.Exists("post:5"))
	v, err := mr.Get("posts:list:version")
	require.NoError(t, err)
	assert.Equal(t, "1", v)
}

func TestKeyFamily(t *testing.T) {
	assert.Equal(t, "group", keyFamily("group:cats"))
	assert.Equal(t, "posts", keyFamily("posts:list:v1:all:p1:s10"))
	assert.Equal(t, "plain", keyFamily("plain"))
}

func TestParseAddr(t *testing.T) {
	opts, err := ParseAddr("localhost:6379")
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", opts.Addr)

	opts, err = ParseAddr("redis://:secret@cache:6380/2")
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 2, opts.DB)

	_, err = ParseAddr("redis://cache:6380/not-a-db")
	assert.Error(t, err)
}

func TestInitRedis(t *testing.T) {
	t.Cleanup(func() { SetClient(nil) })

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	InitRedis(addr)
	require.NotNil(t, GetClient())
	_ = GetClient().Close()

	mr.Close()
	InitRedis(addr)
	assert.Nil(t, GetClient())
}
