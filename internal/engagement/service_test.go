package engagement_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/recruiterhub/backend/internal/app"
	"github.com/recruiterhub/backend/internal/cache"
	"github.com/recruiterhub/backend/internal/db"
	"github.com/recruiterhub/backend/internal/engagement"
	"github.com/recruiterhub/backend/internal/identity"
	"github.com/recruiterhub/backend/internal/notification"
	"github.com/recruiterhub/backend/internal/profile"
	"github.com/recruiterhub/backend/internal/relationship"
	"github.com/recruiterhub/backend/internal/treestore"

	svcErr "github.com/recruiterhub/backend/internal/errors"
)

type harness struct {
	appCtx        *app.AppContext
	profiles      *profile.Service
	notifications *notification.Service
	relationships *relationship.Service
	posts         *engagement.Service

	clock time.Time
}

func setup(t *testing.T) *harness {
	t.Helper()

	name := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	database, err := gorm.Open(sqlite.Open(name), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(&db.Node{}))
	sqlDB, err := database.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	mr := miniredis.RunT(t)
	rdb := &cache.RedisCache{Client: goredis.NewClient(&goredis.Options{Addr: mr.Addr()})}

	store := treestore.New(database)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	appCtx := app.New(database, store, rdb, logger)

	h := &harness{appCtx: appCtx, clock: time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)}
	h.profiles = profile.NewService(appCtx)
	h.notifications = notification.NewService(appCtx, h.profiles)
	h.relationships = relationship.NewService(appCtx, h.notifications)
	h.posts = engagement.NewService(appCtx, h.notifications, h.relationships)
	h.posts.Now = func() time.Time { return h.clock }
	h.notifications.Now = func() time.Time { return h.clock }
	return h
}

func (h *harness) register(t *testing.T, email, username string) identity.Session {
	t.Helper()
	require.NoError(t, h.profiles.InsertNewUser(context.Background(), profile.User{
		Email:     email,
		Username:  username,
		FirstName: "Test",
		LastName:  username,
	}))
	return identity.Session{Email: email, Username: username, Name: "Test " + username}
}

func (h *harness) tick() {
	h.clock = h.clock.Add(time.Minute)
}

func TestNewPostDefaultsAndOrder(t *testing.T) {
	ctx := context.Background()
	h := setup(t)
	alice := h.register(t, "alice@x.com", "alice22")

	require.NoError(t, h.posts.NewPost(ctx, alice, engagement.NewPostInput{URL: "u1", Caption: "first", Type: engagement.PostTypePhoto}))
	h.tick()
	require.NoError(t, h.posts.NewPost(ctx, alice, engagement.NewPostInput{URL: "u2", Caption: "second"}))

	posts, err := h.posts.Posts(ctx, "alice@x.com")
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, 0, posts[0].Index)
	assert.Equal(t, engagement.PostTypePhoto, posts[0].Type)
	// anything that is not a photo stores as video
	assert.Equal(t, engagement.PostTypeVideo, posts[1].Type)
	assert.Empty(t, posts[0].Likes)
	assert.Empty(t, posts[0].Comments)
}

func TestToggleLikePairRestoresState(t *testing.T) {
	ctx := context.Background()
	h := setup(t)
	alice := h.register(t, "alice@x.com", "alice22")
	bob := h.register(t, "bob@x.com", "bob9")

	require.NoError(t, h.posts.NewPost(ctx, alice, engagement.NewPostInput{URL: "u1"}))

	require.NoError(t, h.posts.ToggleLike(ctx, bob, "alice@x.com", 0))
	likes, err := h.posts.Likes(ctx, "alice@x.com", 0)
	require.NoError(t, err)
	require.Len(t, likes, 1)
	assert.Equal(t, "bob-x-com", likes[0].Email)
	assert.Equal(t, "bob9", likes[0].Username)

	require.NoError(t, h.posts.ToggleLike(ctx, bob, "alice@x.com", 0))
	likes, err = h.posts.Likes(ctx, "alice@x.com", 0)
	require.NoError(t, err)
	assert.Len(t, likes, 0)
}

func TestLikeUnlikeLikeEmitsOneNotification(t *testing.T) {
	ctx := context.Background()
	h := setup(t)
	alice := h.register(t, "alice@x.com", "alice22")
	bob := h.register(t, "bob@x.com", "bob9")

	require.NoError(t, h.posts.NewPost(ctx, alice, engagement.NewPostInput{URL: "https://cdn/x.mov"}))

	for i := 0; i < 3; i++ {
		require.NoError(t, h.posts.ToggleLike(ctx, bob, "alice@x.com", 0))
	}

	list, err := h.notifications.List(ctx, "alice@x.com")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, notification.TypeLike, list[0].Type)
	assert.Equal(t, "bob9 liked your post", list[0].Text)
	assert.Equal(t, "https://cdn/x.mov", list[0].PostID)
}

func TestDeletePostRenumbersLaterPosts(t *testing.T) {
	ctx := context.Background()
	h := setup(t)
	alice := h.register(t, "alice@x.com", "alice22")

	for _, url := range []string{"u0", "u1", "u2"} {
		require.NoError(t, h.posts.NewPost(ctx, alice, engagement.NewPostInput{URL: url}))
	}

	require.NoError(t, h.posts.DeletePost(ctx, alice, 1))

	posts, err := h.posts.Posts(ctx, "alice@x.com")
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "u0", posts[0].URL)
	// u2 moved down into index 1
	assert.Equal(t, "u2", posts[1].URL)
	assert.Equal(t, 1, posts[1].Index)

	assert.ErrorIs(t, h.posts.DeletePost(ctx, alice, 5), svcErr.ErrFetchFailed)
}

func TestAddCommentStrictlyAppends(t *testing.T) {
	ctx := context.Background()
	h := setup(t)
	alice := h.register(t, "alice@x.com", "alice22")
	bob := h.register(t, "bob@x.com", "bob9")

	require.NoError(t, h.posts.NewPost(ctx, alice, engagement.NewPostInput{URL: "u1"}))

	require.NoError(t, h.posts.AddComment(ctx, bob, "alice@x.com", 0, "nice"))
	require.NoError(t, h.posts.AddComment(ctx, bob, "alice@x.com", 0, "nice"))

	comments, err := h.posts.Comments(ctx, "alice@x.com", 0)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, 0, comments[0].Index)
	assert.Equal(t, 1, comments[1].Index)
	assert.Equal(t, "bob-x-com", comments[0].Email)
	assert.Equal(t, "nice", comments[1].Text)
}

func TestLikeCountCacheFirst(t *testing.T) {
	ctx := context.Background()
	h := setup(t)
	alice := h.register(t, "alice@x.com", "alice22")
	bob := h.register(t, "bob@x.com", "bob9")
	carol := h.register(t, "carol@x.com", "carol7")

	require.NoError(t, h.posts.NewPost(ctx, alice, engagement.NewPostInput{URL: "u1"}))
	require.NoError(t, h.posts.ToggleLike(ctx, bob, "alice@x.com", 0))
	require.NoError(t, h.posts.ToggleLike(ctx, carol, "alice@x.com", 0))

	count, err := h.posts.LikeCount(ctx, "alice@x.com", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// cold cache falls back to the tree
	key := h.appCtx.RedisCache.KeyForLikeCount("alice-x-com", 0)
	require.NoError(t, h.appCtx.RedisCache.Del(ctx, key))

	count, err = h.posts.LikeCount(ctx, "alice@x.com", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestFeedMergesFollowedUsersNewestFirst(t *testing.T) {
	ctx := context.Background()
	h := setup(t)
	viewer := h.register(t, "viewer@x.com", "viewer1")
	alice := h.register(t, "alice@x.com", "alice22")
	bob := h.register(t, "bob@x.com", "bob9")
	_ = h.register(t, "carol@x.com", "carol7")

	require.NoError(t, h.relationships.ToggleFollow(ctx, viewer, "alice@x.com"))
	require.NoError(t, h.relationships.ToggleFollow(ctx, viewer, "bob@x.com"))

	require.NoError(t, h.posts.NewPost(ctx, alice, engagement.NewPostInput{URL: "a0"}))
	h.tick()
	require.NoError(t, h.posts.NewPost(ctx, bob, engagement.NewPostInput{URL: "b0"}))
	h.tick()
	require.NoError(t, h.posts.NewPost(ctx, alice, engagement.NewPostInput{URL: "a1"}))

	// carol is not followed; her posts stay out of the feed
	carol := identity.Session{Email: "carol@x.com", Username: "carol7", Name: "Test carol7"}
	require.NoError(t, h.posts.NewPost(ctx, carol, engagement.NewPostInput{URL: "c0"}))

	feed, err := h.posts.Feed(ctx, viewer)
	require.NoError(t, err)
	require.Len(t, feed, 3)
	assert.Equal(t, "a1", feed[0].URL)
	assert.Equal(t, "b0", feed[1].URL)
	assert.Equal(t, "a0", feed[2].URL)
}

func TestFeedWithNoFollowingIsEmpty(t *testing.T) {
	ctx := context.Background()
	h := setup(t)
	viewer := h.register(t, "viewer@x.com", "viewer1")

	feed, err := h.posts.Feed(ctx, viewer)
	require.NoError(t, err)
	assert.Len(t, feed, 0)
}
