package auth_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/recruiterhub/backend/internal/app"
	"github.com/recruiterhub/backend/internal/auth"
	"github.com/recruiterhub/backend/internal/cache"
	"github.com/recruiterhub/backend/internal/db"
	"github.com/recruiterhub/backend/internal/profile"
	"github.com/recruiterhub/backend/internal/treestore"
)

func setupService(t *testing.T) *auth.Service {
	t.Helper()

	name := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	database, err := gorm.Open(sqlite.Open(name), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(&db.Node{}, &db.Credential{}))
	sqlDB, err := database.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	mr := miniredis.RunT(t)
	rdb := &cache.RedisCache{Client: goredis.NewClient(&goredis.Options{Addr: mr.Addr()})}

	store := treestore.New(database)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	appCtx := app.New(database, store, rdb, logger)

	return auth.NewService("test-secret", appCtx, profile.NewService(appCtx))
}

func signupForm(email, username string) auth.RegisterRequest {
	return auth.RegisterRequest{
		User: profile.User{
			Email:     email,
			Username:  username,
			FirstName: "Alice",
			LastName:  "Hart",
		},
		Password: "hunter22",
	}
}

func TestRegisterCreatesProfileAndToken(t *testing.T) {
	ctx := context.Background()
	svc := setupService(t)

	session, tokens, err := svc.Register(ctx, signupForm("alice@x.com", "alice22"))
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", session.Email)
	assert.Equal(t, "alice22", session.Username)
	assert.Equal(t, "Alice Hart", session.Name)
	assert.Equal(t, "Bearer", tokens.TokenType)
	assert.NotEmpty(t, tokens.AccessToken)

	// token round-trips to the same session
	parsed, err := svc.ValidateToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, session, parsed)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	svc := setupService(t)

	_, _, err := svc.Register(ctx, signupForm("alice@x.com", "alice22"))
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, signupForm("alice@x.com", "someone-else"))
	assert.ErrorIs(t, err, auth.ErrAlreadyRegistered)

	_, _, err = svc.Register(ctx, signupForm("other@x.com", "alice22"))
	assert.ErrorIs(t, err, auth.ErrAlreadyRegistered)
}

func TestRegisterRequiresFields(t *testing.T) {
	ctx := context.Background()
	svc := setupService(t)

	form := signupForm("alice@x.com", "alice22")
	form.Password = ""
	_, _, err := svc.Register(ctx, form)
	assert.Error(t, err)
}

func TestLoginVerifiesPassword(t *testing.T) {
	ctx := context.Background()
	svc := setupService(t)

	_, _, err := svc.Register(ctx, signupForm("alice@x.com", "alice22"))
	require.NoError(t, err)

	session, tokens, err := svc.Login(ctx, auth.LoginRequest{Email: "alice@x.com", Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, "alice22", session.Username)
	assert.NotEmpty(t, tokens.AccessToken)

	_, _, err = svc.Login(ctx, auth.LoginRequest{Email: "alice@x.com", Password: "wrong"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, auth.LoginRequest{Email: "nobody@x.com", Password: "hunter22"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := setupService(t)

	_, err := svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}
