package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/testhelpers"
)

func TestSubscribeLifecycle(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewSubscriptionService(db)
	ctx := context.Background()

	follower := testhelpers.CreateTestUser(t, db, "follower")
	author := testhelpers.CreateTestUser(t, db, "author")

	require.NoError(t, svc.Subscribe(ctx, follower.ID, author.ID))
	assert.ErrorIs(t, svc.Subscribe(ctx, follower.ID, author.ID), service.ErrAlreadyExists)

	subscribed, err := svc.IsSubscribed(ctx, &follower.ID, author.ID)
	require.NoError(t, err)
	assert.True(t, subscribed)

	require.NoError(t, svc.Unsubscribe(ctx, follower.ID, author.ID))
	assert.ErrorIs(t, svc.Unsubscribe(ctx, follower.ID, author.ID), service.ErrNotFound)
}

func TestSubscribeToSelf(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewSubscriptionService(db)

	user := testhelpers.CreateTestUser(t, db, "loner")
	assert.ErrorIs(t, svc.Subscribe(context.Background(), user.ID, user.ID), service.ErrSelfSubscribe)
}

func TestSubscribeUnknownAuthor(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewSubscriptionService(db)

	user := testhelpers.CreateTestUser(t, db, "follower")
	assert.ErrorIs(t, svc.Subscribe(context.Background(), user.ID, uuid.New()), service.ErrNotFound)
}

func TestIsSubscribedAnonymousViewer(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewSubscriptionService(db)

	author := testhelpers.CreateTestUser(t, db, "author")
	subscribed, err := svc.IsSubscribed(context.Background(), nil, author.ID)
	require.NoError(t, err)
	assert.False(t, subscribed)
}

func TestListAuthors(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewSubscriptionService(db)
	ctx := context.Background()

	follower := testhelpers.CreateTestUser(t, db, "follower")
	alice := testhelpers.CreateTestUser(t, db, "alice")
	bob := testhelpers.CreateTestUser(t, db, "bob")
	testhelpers.CreateTestUser(t, db, "unfollowed")

	require.NoError(t, svc.Subscribe(ctx, follower.ID, alice.ID))
	require.NoError(t, svc.Subscribe(ctx, follower.ID, bob.ID))

	authors, total, err := svc.ListAuthors(ctx, follower.ID, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, authors, 2)

	names := []string{authors[0].Username, authors[1].Username}
	assert.ElementsMatch(t, []string{"alice", "bob"}, names)

	// Page past the end is empty but keeps the total.
	authors, total, err = svc.ListAuthors(ctx, follower.ID, 2, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Empty(t, authors)
}

func TestAuthorRecipesLimit(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewSubscriptionService(db)
	ctx := context.Background()

	author := testhelpers.CreateTestUser(t, db, "author")
	testhelpers.CreateTestRecipe(t, db, author, "First", nil, nil)
	testhelpers.CreateTestRecipe(t, db, author, "Second", nil, nil)
	testhelpers.CreateTestRecipe(t, db, author, "Third", nil, nil)

	recipes, total, err := svc.AuthorRecipes(ctx, author.ID, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, recipes, 3)

	limit := 2
	recipes, total, err = svc.AuthorRecipes(ctx, author.ID, &limit)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, recipes, 2)
}
