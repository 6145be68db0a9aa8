package notification_test

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
	"github.com/recruiterhub/backend/internal/notification"
	"github.com/recruiterhub/backend/internal/profile"
	"github.com/recruiterhub/backend/internal/treestore"
)

type harness struct {
	store         *treestore.Store
	profiles      *profile.Service
	notifications *notification.Service

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

	h := &harness{store: store, clock: time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)}
	h.profiles = profile.NewService(appCtx)
	h.notifications = notification.NewService(appCtx, h.profiles)
	h.notifications.Now = func() time.Time { return h.clock }
	return h
}

func (h *harness) register(t *testing.T, email, username string) {
	t.Helper()
	require.NoError(t, h.profiles.InsertNewUser(context.Background(), profile.User{
		Email:     email,
		Username:  username,
		FirstName: "Test",
		LastName:  username,
	}))
}

func TestEmitFollowDeduplicates(t *testing.T) {
	ctx := context.Background()
	h := setup(t)
	h.register(t, "alice@x.com", "alice22")
	h.register(t, "bob@x.com", "bob9")

	require.NoError(t, h.notifications.EmitFollow(ctx, "alice@x.com", "bob@x.com"))
	require.NoError(t, h.notifications.EmitFollow(ctx, "alice@x.com", "bob@x.com"))

	list, err := h.notifications.List(ctx, "bob@x.com")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "alice22 followed you", list[0].Text)
	assert.Equal(t, "alice-x-com", list[0].Email)
	require.NotNil(t, list[0].User)
	assert.Equal(t, "alice22", list[0].User.Username)
}

func TestEmitLikeKeyedByPost(t *testing.T) {
	ctx := context.Background()
	h := setup(t)
	h.register(t, "alice@x.com", "alice22")
	h.register(t, "bob@x.com", "bob9")

	require.NoError(t, h.notifications.EmitLike(ctx, "bob@x.com", "alice@x.com", "url-1"))
	require.NoError(t, h.notifications.EmitLike(ctx, "bob@x.com", "alice@x.com", "url-1"))
	// a different post is a different notification
	require.NoError(t, h.notifications.EmitLike(ctx, "bob@x.com", "alice@x.com", "url-2"))

	list, err := h.notifications.List(ctx, "alice@x.com")
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestEmitSkipsUnknownSourceUser(t *testing.T) {
	ctx := context.Background()
	h := setup(t)
	h.register(t, "bob@x.com", "bob9")

	// ghost has no profile; emission is a logged no-op
	require.NoError(t, h.notifications.EmitFollow(ctx, "ghost@x.com", "bob@x.com"))

	list, err := h.notifications.List(ctx, "bob@x.com")
	require.NoError(t, err)
	assert.Len(t, list, 0)
}

func TestListSortsNewestFirst(t *testing.T) {
	ctx := context.Background()
	h := setup(t)
	h.register(t, "alice@x.com", "alice22")
	h.register(t, "carol@x.com", "carol7")
	h.register(t, "bob@x.com", "bob9")

	require.NoError(t, h.notifications.EmitFollow(ctx, "alice@x.com", "bob@x.com"))
	h.clock = h.clock.Add(time.Hour)
	require.NoError(t, h.notifications.EmitFollow(ctx, "carol@x.com", "bob@x.com"))

	list, err := h.notifications.List(ctx, "bob@x.com")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "carol7 followed you", list[0].Text)
	assert.Equal(t, "alice22 followed you", list[1].Text)
}

func TestListSkipsRecordsFromDeletedUsers(t *testing.T) {
	ctx := context.Background()
	h := setup(t)
	h.register(t, "alice@x.com", "alice22")
	h.register(t, "bob@x.com", "bob9")

	require.NoError(t, h.notifications.EmitFollow(ctx, "alice@x.com", "bob@x.com"))

	// alice's profile disappears; her record is skipped on read
	require.NoError(t, h.store.Set(ctx, "alice-x-com", nil))

	list, err := h.notifications.List(ctx, "bob@x.com")
	require.NoError(t, err)
	assert.Len(t, list, 0)
}

func TestListMissingNodeIsEmpty(t *testing.T) {
	ctx := context.Background()
	h := setup(t)

	list, err := h.notifications.List(ctx, "nobody@x.com")
	require.NoError(t, err)
	assert.Len(t, list, 0)
}
