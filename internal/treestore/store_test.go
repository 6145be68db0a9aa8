package treestore_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/recruiterhub/backend/internal/db"
	"github.com/recruiterhub/backend/internal/treestore"
)

// setup in-memory DB
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	database, err := gorm.Open(sqlite.Open(name), &gorm.Config{
		NowFunc:                func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := database.AutoMigrate(&db.Node{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	sqlDB, err := database.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return database
}

func TestGetMissingReturnsNil(t *testing.T) {
	ctx := context.Background()
	store := treestore.New(setupTestDB(t))

	v, err := store.Get(ctx, "nobody-x-com/followers")
	assert.NoError(t, err)
	assert.Nil(t, v)
}

func TestSetAndGetSubtree(t *testing.T) {
	ctx := context.Background()
	store := treestore.New(setupTestDB(t))

	require.NoError(t, store.Set(ctx, "a-x-com/username", "ahelg"))
	require.NoError(t, store.Set(ctx, "a-x-com/followers", []any{
		map[string]any{"email": "b-x-com"},
	}))

	v, err := store.Get(ctx, "a-x-com/username")
	require.NoError(t, err)
	assert.Equal(t, "ahelg", v)

	v, err = store.Get(ctx, "a-x-com/followers/0/email")
	require.NoError(t, err)
	assert.Equal(t, "b-x-com", v)

	// root document holds both fields
	root, err := store.Get(ctx, "a-x-com")
	require.NoError(t, err)
	m, ok := treestore.Dict(root)
	require.True(t, ok)
	assert.Equal(t, "ahelg", m["username"])
}

func TestSetOverwritesWholeSubtree(t *testing.T) {
	ctx := context.Background()
	store := treestore.New(setupTestDB(t))

	require.NoError(t, store.Set(ctx, "a-x-com/Posts", []any{
		map[string]any{"caption": "first", "likes": []any{map[string]any{"email": "b-x-com"}}},
	}))
	require.NoError(t, store.Set(ctx, "a-x-com/Posts/0/likes", []any{}))

	v, err := store.Get(ctx, "a-x-com/Posts/0/likes")
	require.NoError(t, err)
	arr, ok := v.([]any)
	require.True(t, ok)
	assert.Len(t, arr, 0)

	// sibling fields untouched
	v, err = store.Get(ctx, "a-x-com/Posts/0/caption")
	require.NoError(t, err)
	assert.Equal(t, "first", v)
}

func TestNumericSegmentsExtendArrays(t *testing.T) {
	ctx := context.Background()
	store := treestore.New(setupTestDB(t))

	require.NoError(t, store.Set(ctx, "a-x-com/Posts/2/caption", "third"))

	v, err := store.Get(ctx, "a-x-com/Posts")
	require.NoError(t, err)
	arr, ok := v.([]any)
	require.True(t, ok)
	require.Len(t, arr, 3)
	assert.Nil(t, arr[0])
	assert.Nil(t, arr[1])
}

func TestSetNilDeletesDocument(t *testing.T) {
	ctx := context.Background()
	store := treestore.New(setupTestDB(t))

	require.NoError(t, store.Set(ctx, "a-x-com", map[string]any{"username": "ahelg"}))
	require.NoError(t, store.Set(ctx, "a-x-com", nil))

	v, err := store.Get(ctx, "a-x-com")
	assert.NoError(t, err)
	assert.Nil(t, v)
}

func TestObserveFiresOnOverlappingWrites(t *testing.T) {
	ctx := context.Background()
	store := treestore.New(setupTestDB(t))

	sub := store.Observe("a-x-com/followers")
	defer sub.Close()

	require.NoError(t, store.Set(ctx, "a-x-com/followers", []any{
		map[string]any{"email": "b-x-com"},
	}))

	select {
	case v := <-sub.C:
		records, ok := treestore.Records(v)
		require.True(t, ok)
		require.Len(t, records, 1)
		assert.Equal(t, "b-x-com", treestore.Str(records[0], "email"))
	case <-time.After(time.Second):
		t.Fatal("expected observer delivery")
	}

	// ancestor write also fires, observer sees value at its own path
	require.NoError(t, store.Set(ctx, "a-x-com", map[string]any{"username": "ahelg"}))
	select {
	case v := <-sub.C:
		assert.Nil(t, v)
	case <-time.After(time.Second):
		t.Fatal("expected observer delivery for ancestor write")
	}

	// unrelated document does not fire
	require.NoError(t, store.Set(ctx, "b-x-com/followers", []any{}))
	select {
	case <-sub.C:
		t.Fatal("unexpected delivery for unrelated document")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestTransactionHoldsNotificationsUntilCommit(t *testing.T) {
	ctx := context.Background()
	store := treestore.New(setupTestDB(t))

	sub := store.Observe("a-x-com/following")
	defer sub.Close()

	err := store.Transaction(ctx, func(tx *treestore.Store) error {
		if err := tx.Set(ctx, "a-x-com/following", []any{map[string]any{"email": "b-x-com"}}); err != nil {
			return err
		}
		return tx.Set(ctx, "b-x-com/followers", []any{map[string]any{"email": "a-x-com"}})
	})
	require.NoError(t, err)

	select {
	case v := <-sub.C:
		records, _ := treestore.Records(v)
		assert.Len(t, records, 1)
	case <-time.After(time.Second):
		t.Fatal("expected delivery after commit")
	}

	v, err := store.Get(ctx, "b-x-com/followers/0/email")
	require.NoError(t, err)
	assert.Equal(t, "a-x-com", v)
}

func TestTransactionRollsBackAllWrites(t *testing.T) {
	ctx := context.Background()
	database := setupTestDB(t)
	store := treestore.New(database)

	boom := fmt.Errorf("boom")
	err := store.Transaction(ctx, func(tx *treestore.Store) error {
		if err := tx.Set(ctx, "a-x-com/following", []any{map[string]any{"email": "b-x-com"}}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	v, err := store.Get(ctx, "a-x-com/following")
	assert.NoError(t, err)
	assert.Nil(t, v)
}
