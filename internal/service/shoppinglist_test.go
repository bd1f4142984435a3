package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/testhelpers"
)

func TestAggregateSumsAcrossCartRecipes(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewShoppingListService(db)
	ctx := context.Background()

	user := testhelpers.CreateTestUser(t, db, "shopper")
	salt := testhelpers.CreateTestIngredient(t, db, "Salt", "g")
	milk := testhelpers.CreateTestIngredient(t, db, "Milk", "ml")

	soup := testhelpers.CreateTestRecipe(t, db, user, "Soup", nil,
		map[*models.Ingredient]int{salt: 5, milk: 200})
	pie := testhelpers.CreateTestRecipe(t, db, user, "Pie", nil,
		map[*models.Ingredient]int{salt: 10})

	require.NoError(t, db.Create(&models.ShoppingCart{UserID: user.ID, RecipeID: soup.ID}).Error)
	require.NoError(t, db.Create(&models.ShoppingCart{UserID: user.ID, RecipeID: pie.ID}).Error)

	items, err := svc.Aggregate(ctx, user.ID)
	require.NoError(t, err)

	// Sorted by name: Milk before Salt, Salt summed over both recipes.
	require.Len(t, items, 2)
	assert.Equal(t, service.ShoppingListItem{Name: "Milk", MeasurementUnit: "ml", Amount: 200}, items[0])
	assert.Equal(t, service.ShoppingListItem{Name: "Salt", MeasurementUnit: "g", Amount: 15}, items[1])
}

func TestAggregateGroupsByNameAndUnit(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewShoppingListService(db)
	ctx := context.Background()

	user := testhelpers.CreateTestUser(t, db, "shopper")
	// Two distinct ingredient records sharing name and unit collapse into
	// one line; a same-named ingredient with another unit stays separate.
	saltA := testhelpers.CreateTestIngredient(t, db, "Salt", "g")
	saltB := testhelpers.CreateTestIngredient(t, db, "Salt", "g")
	saltKg := testhelpers.CreateTestIngredient(t, db, "Salt", "kg")

	recipe := testhelpers.CreateTestRecipe(t, db, user, "Brine", nil,
		map[*models.Ingredient]int{saltA: 5, saltB: 10, saltKg: 1})
	require.NoError(t, db.Create(&models.ShoppingCart{UserID: user.ID, RecipeID: recipe.ID}).Error)

	items, err := svc.Aggregate(ctx, user.ID)
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, service.ShoppingListItem{Name: "Salt", MeasurementUnit: "g", Amount: 15}, items[0])
	assert.Equal(t, service.ShoppingListItem{Name: "Salt", MeasurementUnit: "kg", Amount: 1}, items[1])
}

func TestAggregateIgnoresOtherUsersCarts(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewShoppingListService(db)
	ctx := context.Background()

	owner := testhelpers.CreateTestUser(t, db, "owner")
	other := testhelpers.CreateTestUser(t, db, "other")
	salt := testhelpers.CreateTestIngredient(t, db, "Salt", "g")
	recipe := testhelpers.CreateTestRecipe(t, db, owner, "Soup", nil,
		map[*models.Ingredient]int{salt: 5})

	require.NoError(t, db.Create(&models.ShoppingCart{UserID: other.ID, RecipeID: recipe.ID}).Error)

	items, err := svc.Aggregate(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRenderShoppingList(t *testing.T) {
	svc := service.NewShoppingListService(nil)

	out := svc.Render([]service.ShoppingListItem{
		{Name: "Milk", MeasurementUnit: "ml", Amount: 200},
		{Name: "Salt", MeasurementUnit: "g", Amount: 15},
	})

	assert.Equal(t, "ingredient measurement_unit amount\nMilk ml 200\nSalt g 15\n", out)
}

func TestRenderEmptyCartIsHeaderOnly(t *testing.T) {
	svc := service.NewShoppingListService(nil)
	assert.Equal(t, "ingredient measurement_unit amount\n", svc.Render(nil))
}

func TestShoppingListFileName(t *testing.T) {
	svc := service.NewShoppingListService(nil)

	now := time.Date(2024, 3, 9, 18, 4, 5, 0, time.UTC)
	assert.Equal(t, "shopping_cart_2024-03-09_18-04-05.txt", svc.FileName(now))
}
