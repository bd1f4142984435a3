package api

import (
	"github.com/google/uuid"
)

// RegisterRequest is the account creation payload.
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email,max=254"`
	Username  string `json:"username" binding:"required,max=150"`
	FirstName string `json:"first_name" binding:"required,max=150"`
	LastName  string `json:"last_name" binding:"required,max=150"`
	Password  string `json:"password" binding:"required,max=150"`
}

// LoginRequest is the token login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RecipeIngredientPayload references an ingredient with its amount.
type RecipeIngredientPayload struct {
	ID     uuid.UUID `json:"id" binding:"required"`
	Amount int       `json:"amount" binding:"min=0"`
}

// RecipeDraftRequest is the payload for both recipe create and update.
// Image carries the embedded base64 transport format; it may be omitted on
// update to keep the stored image.
type RecipeDraftRequest struct {
	Ingredients []RecipeIngredientPayload `json:"ingredients" binding:"required,dive"`
	Tags        []uuid.UUID               `json:"tags" binding:"required"`
	Image       string                    `json:"image"`
	Name        string                    `json:"name" binding:"required,max=256"`
	Text        string                    `json:"text" binding:"required"`
	CookingTime int                       `json:"cooking_time" binding:"required,min=1"`
}
