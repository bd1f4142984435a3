package api

import (
	"context"

	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/service"
)

// Client-facing representations. Each view is built by an explicit
// projection function taking the requesting identity as an argument;
// there is no runtime serializer dispatch.

type UserView struct {
	Email        string    `json:"email"`
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsSubscribed bool      `json:"is_subscribed"`
}

type RecipeIngredientView struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
	Amount          int       `json:"amount"`
}

type RecipeView struct {
	ID               uuid.UUID              `json:"id"`
	Tags             []models.Tag           `json:"tags"`
	Author           UserView               `json:"author"`
	Ingredients      []RecipeIngredientView `json:"ingredients"`
	IsFavorited      bool                   `json:"is_favorited"`
	IsInShoppingCart bool                   `json:"is_in_shopping_cart"`
	Name             string                 `json:"name"`
	Image            string                 `json:"image"`
	Text             string                 `json:"text"`
	CookingTime      int                    `json:"cooking_time"`
}

// ShortRecipeView is the reduced representation used by the membership
// toggles and subscription listings.
type ShortRecipeView struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

type SubscriptionView struct {
	UserView
	RecipesCount int64             `json:"recipes_count"`
	Recipes      []ShortRecipeView `json:"recipes"`
}

func shortRecipeView(r *models.Recipe) ShortRecipeView {
	return ShortRecipeView{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}

func shortRecipeViews(recipes []models.Recipe) []ShortRecipeView {
	views := make([]ShortRecipeView, 0, len(recipes))
	for i := range recipes {
		views = append(views, shortRecipeView(&recipes[i]))
	}
	return views
}

// userView projects a user for the given viewer, resolving is_subscribed
// against the follow graph. Anonymous viewers get false without a query.
func userView(ctx context.Context, subs *service.SubscriptionService, u *models.User, viewerID *uuid.UUID) (UserView, error) {
	subscribed, err := subs.IsSubscribed(ctx, viewerID, u.ID)
	if err != nil {
		return UserView{}, err
	}
	return UserView{
		Email:        u.Email,
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}, nil
}

// recipeView projects a fully loaded recipe for the given viewer. The two
// membership flags cost one existence check each for authenticated viewers
// and none for anonymous ones.
func recipeView(ctx context.Context, recipes *service.RecipeService, subs *service.SubscriptionService, r *models.Recipe, viewerID *uuid.UUID) (RecipeView, error) {
	favorited, inCart, err := recipes.Flags(ctx, viewerID, r.ID)
	if err != nil {
		return RecipeView{}, err
	}

	author, err := userView(ctx, subs, &r.Author, viewerID)
	if err != nil {
		return RecipeView{}, err
	}

	ingredients := make([]RecipeIngredientView, 0, len(r.Ingredients))
	for _, row := range r.Ingredients {
		ingredients = append(ingredients, RecipeIngredientView{
			ID:              row.IngredientID,
			Name:            row.Ingredient.Name,
			MeasurementUnit: row.Ingredient.MeasurementUnit,
			Amount:          row.Amount,
		})
	}

	tags := r.Tags
	if tags == nil {
		tags = []models.Tag{}
	}

	return RecipeView{
		ID:               r.ID,
		Tags:             tags,
		Author:           author,
		Ingredients:      ingredients,
		IsFavorited:      favorited,
		IsInShoppingCart: inCart,
		Name:             r.Name,
		Image:            r.Image,
		Text:             r.Text,
		CookingTime:      r.CookingTime,
	}, nil
}

func recipeViews(ctx context.Context, recipes *service.RecipeService, subs *service.SubscriptionService, list []models.Recipe, viewerID *uuid.UUID) ([]RecipeView, error) {
	views := make([]RecipeView, 0, len(list))
	for i := range list {
		view, err := recipeView(ctx, recipes, subs, &list[i], viewerID)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}
