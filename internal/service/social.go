package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
)

// SocialService drives the two membership sets over (user, recipe):
// favorites and the shopping cart. Both follow the same state machine —
// POST inserts or conflicts, DELETE removes or misses — with the store's
// unique index deciding races.
type SocialService struct {
	db *gorm.DB
}

func NewSocialService(db *gorm.DB) *SocialService {
	return &SocialService{db: db}
}

// AddFavorite adds the recipe to the user's favorites. Returns
// ErrAlreadyExists when the membership is already present and ErrNotFound
// when the recipe does not exist.
func (s *SocialService) AddFavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	return s.add(ctx, recipeID, &models.Favorite{UserID: userID, RecipeID: recipeID})
}

// RemoveFavorite removes the membership; ErrNotFound if it was absent.
func (s *SocialService) RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	return s.remove(s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.Favorite{}))
}

// AddToCart adds the recipe to the user's shopping cart.
func (s *SocialService) AddToCart(ctx context.Context, userID, recipeID uuid.UUID) error {
	return s.add(ctx, recipeID, &models.ShoppingCart{UserID: userID, RecipeID: recipeID})
}

// RemoveFromCart removes the membership; ErrNotFound if it was absent.
func (s *SocialService) RemoveFromCart(ctx context.Context, userID, recipeID uuid.UUID) error {
	return s.remove(s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.ShoppingCart{}))
}

func (s *SocialService) add(ctx context.Context, recipeID uuid.UUID, row interface{}) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("id = ?", recipeID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}

	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (s *SocialService) remove(result *gorm.DB) error {
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
