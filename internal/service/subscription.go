package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
)

// SubscriptionService manages the follow graph between users.
type SubscriptionService struct {
	db *gorm.DB
}

func NewSubscriptionService(db *gorm.DB) *SubscriptionService {
	return &SubscriptionService{db: db}
}

// Subscribe creates the follow edge. Self-subscription is rejected and a
// duplicate edge reports a conflict.
func (s *SubscriptionService) Subscribe(ctx context.Context, subscriberID, authorID uuid.UUID) error {
	if subscriberID == authorID {
		return ErrSelfSubscribe
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", authorID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}

	sub := models.Subscription{
		SubscriberID: subscriberID,
		AuthorID:     authorID,
	}
	if err := s.db.WithContext(ctx).Create(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Unsubscribe removes the follow edge; ErrNotFound if it was absent.
func (s *SubscriptionService) Unsubscribe(ctx context.Context, subscriberID, authorID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("subscriber_id = ? AND author_id = ?", subscriberID, authorID).
		Delete(&models.Subscription{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// IsSubscribed reports whether viewer follows author. A nil viewer is
// anonymous and never follows anyone.
func (s *SubscriptionService) IsSubscribed(ctx context.Context, viewerID *uuid.UUID, authorID uuid.UUID) (bool, error) {
	if viewerID == nil {
		return false, nil
	}
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("subscriber_id = ? AND author_id = ?", *viewerID, authorID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListAuthors returns the followed authors, paginated, with the total.
func (s *SubscriptionService) ListAuthors(ctx context.Context, subscriberID uuid.UUID, page, limit int) ([]models.User, int64, error) {
	base := s.db.WithContext(ctx).Model(&models.User{}).
		Joins("JOIN subscriptions ON subscriptions.author_id = users.id").
		Where("subscriptions.subscriber_id = ?", subscriberID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 10
	}
	if page <= 0 {
		page = 1
	}

	var authors []models.User
	if err := base.Order("subscriptions.created_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&authors).Error; err != nil {
		return nil, 0, err
	}

	return authors, total, nil
}

// AuthorRecipes returns the author's most recent recipes, capped by limit
// when limit is non-nil, plus the author's total recipe count.
func (s *SubscriptionService) AuthorRecipes(ctx context.Context, authorID uuid.UUID, limit *int) ([]models.Recipe, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("author_id = ?", authorID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := s.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC")
	if limit != nil {
		query = query.Limit(*limit)
	}

	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	return recipes, total, nil
}
