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

func TestListTags(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewCatalogService(db)

	testhelpers.CreateTestTag(t, db, "lunch")
	testhelpers.CreateTestTag(t, db, "breakfast")

	tags, err := svc.ListTags(context.Background())
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "breakfast", tags[0].Slug)
	assert.Equal(t, "lunch", tags[1].Slug)
}

func TestGetTagNotFound(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewCatalogService(db)

	_, err := svc.GetTag(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestListIngredientsPrefixFilter(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewCatalogService(db)
	ctx := context.Background()

	testhelpers.CreateTestIngredient(t, db, "Milk", "ml")
	testhelpers.CreateTestIngredient(t, db, "millet", "g")
	testhelpers.CreateTestIngredient(t, db, "whole milk", "ml")

	// The filter is a name prefix: "whole milk" contains "mil" but does
	// not start with it.
	ingredients, err := svc.ListIngredients(ctx, "mil")
	require.NoError(t, err)
	require.Len(t, ingredients, 2)

	names := []string{ingredients[0].Name, ingredients[1].Name}
	assert.ElementsMatch(t, []string{"Milk", "millet"}, names)
}

func TestListIngredientsPrefixCaseInsensitive(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewCatalogService(db)

	testhelpers.CreateTestIngredient(t, db, "Milk", "ml")

	ingredients, err := svc.ListIngredients(context.Background(), "MIL")
	require.NoError(t, err)
	require.Len(t, ingredients, 1)
	assert.Equal(t, "Milk", ingredients[0].Name)
}

func TestListIngredientsNoFilter(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewCatalogService(db)

	testhelpers.CreateTestIngredient(t, db, "Salt", "g")
	testhelpers.CreateTestIngredient(t, db, "Milk", "ml")

	ingredients, err := svc.ListIngredients(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, ingredients, 2)
	assert.Equal(t, "Milk", ingredients[0].Name)
	assert.Equal(t, "Salt", ingredients[1].Name)
}

func TestGetIngredient(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewCatalogService(db)

	salt := testhelpers.CreateTestIngredient(t, db, "Salt", "g")

	got, err := svc.GetIngredient(context.Background(), salt.ID)
	require.NoError(t, err)
	assert.Equal(t, "Salt", got.Name)
	assert.Equal(t, "g", got.MeasurementUnit)

	_, err = svc.GetIngredient(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrNotFound)
}
