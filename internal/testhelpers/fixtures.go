package testhelpers

import (
	"fmt"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
)

// TestPassword is the plaintext behind every fixture user's hash.
const TestPassword = "secret-password-123"

// CreateTestUser inserts a user whose email and username derive from name.
func CreateTestUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:        fmt.Sprintf("%s@example.com", name),
		Username:     name,
		FirstName:    name,
		LastName:     "Tester",
		PasswordHash: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestTag inserts a tag whose name and slug are both slug.
func CreateTestTag(t *testing.T, db *gorm.DB, slug string) *models.Tag {
	t.Helper()

	tag := &models.Tag{Name: slug, Color: "#49B64E", Slug: slug}
	if err := db.Create(tag).Error; err != nil {
		t.Fatalf("failed to create test tag: %v", err)
	}
	return tag
}

// CreateTestIngredient inserts one ingredient row.
func CreateTestIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()

	ing := &models.Ingredient{Name: name, MeasurementUnit: unit}
	if err := db.Create(ing).Error; err != nil {
		t.Fatalf("failed to create test ingredient: %v", err)
	}
	return ing
}

// CreateTestRecipe inserts a recipe for author with the given tags and
// ingredient amounts. The recipe text is derived from name so repeated
// fixtures with distinct names never collide on the text uniqueness.
func CreateTestRecipe(t *testing.T, db *gorm.DB, author *models.User, name string, tags []models.Tag, amounts map[*models.Ingredient]int) *models.Recipe {
	t.Helper()

	recipe := &models.Recipe{
		AuthorID:    author.ID,
		Name:        name,
		Image:       "/media/recipes/" + name + ".jpg",
		Text:        "How to cook " + name,
		CookingTime: 30,
		Tags:        tags,
	}
	if err := db.Omit("Tags.*").Create(recipe).Error; err != nil {
		t.Fatalf("failed to create test recipe: %v", err)
	}

	for ing, amount := range amounts {
		row := &models.RecipeIngredient{
			RecipeID:     recipe.ID,
			IngredientID: ing.ID,
			Amount:       amount,
		}
		if err := db.Create(row).Error; err != nil {
			t.Fatalf("failed to create test recipe ingredient: %v", err)
		}
	}
	return recipe
}
