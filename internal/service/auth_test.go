package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/testhelpers"
	"github.com/foodgram/backend/internal/types"
)

func TestRegisterAndLogin(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewAuthService(db, "test-secret")
	ctx := context.Background()

	user, err := svc.Register(ctx, "cook@example.com", "cook", "Julia", "Child", "s3cr3t-pass")
	require.NoError(t, err)
	assert.Equal(t, "cook", user.Username)
	assert.NotEqual(t, "s3cr3t-pass", user.PasswordHash)

	token, err := svc.Login(ctx, "cook@example.com", "s3cr3t-pass")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "cook", claims.Username)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewAuthService(db, "test-secret")
	ctx := context.Background()

	_, err := svc.Register(ctx, "cook@example.com", "cook", "Julia", "Child", "s3cr3t-pass")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "cook@example.com", "othercook", "Jacques", "Pepin", "s3cr3t-pass")
	assert.ErrorIs(t, err, service.ErrAlreadyExists)
}

func TestRegisterInvalidUsername(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewAuthService(db, "test-secret")

	_, err := svc.Register(context.Background(), "cook@example.com", "bad name!", "Julia", "Child", "s3cr3t-pass")
	assert.True(t, service.IsValidation(err))
}

func TestLoginWrongPassword(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewAuthService(db, "test-secret")
	ctx := context.Background()

	_, err := svc.Register(ctx, "cook@example.com", "cook", "Julia", "Child", "s3cr3t-pass")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "cook@example.com", "wrong")
	assert.Error(t, err)

	_, err = svc.Login(ctx, "nobody@example.com", "s3cr3t-pass")
	assert.Error(t, err)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	issuer := service.NewAuthService(db, "secret-a")
	verifier := service.NewAuthService(db, "secret-b")

	user := testhelpers.CreateTestUser(t, db, "cook")
	token, err := issuer.GenerateToken(&types.TokenClaims{UserID: user.ID, Username: user.Username})
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestListUsersPagination(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewAuthService(db, "test-secret")
	ctx := context.Background()

	for _, name := range []string{"alice", "bob", "carol"} {
		testhelpers.CreateTestUser(t, db, name)
	}

	users, total, err := svc.ListUsers(ctx, 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, users, 2)

	users, total, err = svc.ListUsers(ctx, 2, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, users, 1)
}
