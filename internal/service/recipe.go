package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
)

// RecipeService handles recipe composition: validation and transactional
// persistence of a recipe together with its tag set and ingredient amounts.
type RecipeService struct {
	db     *gorm.DB
	images *ImageService
	logger *zap.Logger
}

func NewRecipeService(db *gorm.DB, images *ImageService, logger *zap.Logger) *RecipeService {
	return &RecipeService{
		db:     db,
		images: images,
		logger: logger,
	}
}

// IngredientAmount pairs an ingredient reference with its per-recipe amount.
type IngredientAmount struct {
	IngredientID uuid.UUID
	Amount       int
}

// RecipeDraft is the payload accepted by both create and update. On update
// an empty Image keeps the stored one.
type RecipeDraft struct {
	Name        string
	Text        string
	CookingTime int
	Image       string
	TagIDs      []uuid.UUID
	Ingredients []IngredientAmount
}

// RecipeFilter narrows listings. TagSlugs select recipes carrying any of
// the given slugs, without duplicates.
type RecipeFilter struct {
	TagSlugs []string
	AuthorID *uuid.UUID
	Page     int
	Limit    int
}

// Create persists the recipe row and bulk-inserts one association row per
// supplied ingredient pair, all inside one transaction.
func (s *RecipeService) Create(ctx context.Context, authorID uuid.UUID, draft *RecipeDraft) (*models.Recipe, error) {
	if err := s.validateDraft(ctx, draft); err != nil {
		return nil, err
	}
	if draft.Image == "" {
		return nil, &ValidationError{Field: "image", Message: "this field is required"}
	}

	tags, err := s.resolveTags(ctx, draft.TagIDs)
	if err != nil {
		return nil, err
	}

	imageURL, err := s.images.DecodeAndStore(ctx, draft.Image)
	if err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		AuthorID:    authorID,
		Name:        draft.Name,
		Image:       imageURL,
		Text:        draft.Text,
		CookingTime: draft.CookingTime,
		Tags:        tags,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Omit("Tags.*") creates the join rows without touching the tag rows.
		if err := tx.Omit("Tags.*").Create(&recipe).Error; err != nil {
			return err
		}
		return replaceIngredients(tx, recipe.ID, draft.Ingredients)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ValidationError{Field: "text", Message: "a recipe with this text already exists"}
		}
		return nil, err
	}

	s.logger.Info("recipe created", zap.String("id", recipe.ID.String()), zap.String("author", authorID.String()))
	return s.Get(ctx, recipe.ID)
}

// Update applies field changes and replaces the ingredient set wholesale:
// existing association rows are deleted and the supplied set inserted, so
// omitting an ingredient removes it. Only the author may update.
func (s *RecipeService) Update(ctx context.Context, id, userID uuid.UUID, draft *RecipeDraft) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if recipe.AuthorID != userID {
		return nil, ErrNotAuthor
	}

	if err := s.validateDraft(ctx, draft); err != nil {
		return nil, err
	}

	tags, err := s.resolveTags(ctx, draft.TagIDs)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"name":         draft.Name,
		"text":         draft.Text,
		"cooking_time": draft.CookingTime,
	}
	if draft.Image != "" {
		imageURL, err := s.images.DecodeAndStore(ctx, draft.Image)
		if err != nil {
			return nil, err
		}
		updates["image"] = imageURL
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&recipe).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Replace(&tags); err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		return replaceIngredients(tx, id, draft.Ingredients)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ValidationError{Field: "text", Message: "a recipe with this text already exists"}
		}
		return nil, err
	}

	return s.Get(ctx, id)
}

// Get retrieves a recipe with tags, ingredient amounts and author expanded.
func (s *RecipeService) Get(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Preload("Author").
		First(&recipe, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// List returns recipes ordered by publication date descending, with the
// total count for pagination.
func (s *RecipeService) List(ctx context.Context, filter RecipeFilter) ([]models.Recipe, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Recipe{})

	if len(filter.TagSlugs) > 0 {
		// Subquery keeps a recipe carrying several of the slugs to one row.
		sub := s.db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs)
		query = query.Where("recipes.id IN (?)", sub)
	}
	if filter.AuthorID != nil {
		query = query.Where("author_id = ?", *filter.AuthorID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit <= 0 {
		filter.Limit = 10
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}

	var recipes []models.Recipe
	err := query.
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Preload("Author").
		Order("recipes.created_at DESC").
		Limit(filter.Limit).
		Offset((filter.Page - 1) * filter.Limit).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, err
	}

	return recipes, total, nil
}

// Delete removes the recipe and every association, favorite and cart row
// referencing it. Only the author may delete.
func (s *RecipeService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if recipe.AuthorID != userID {
		return ErrNotAuthor
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.ShoppingCart{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&models.Recipe{}, "id = ?", id).Error
	})
}

// Flags computes the two per-viewer booleans for a recipe. An anonymous
// viewer short-circuits to false without touching the store.
func (s *RecipeService) Flags(ctx context.Context, viewerID *uuid.UUID, recipeID uuid.UUID) (favorited, inCart bool, err error) {
	if viewerID == nil {
		return false, false, nil
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Favorite{}).
		Where("user_id = ? AND recipe_id = ?", *viewerID, recipeID).
		Count(&count).Error; err != nil {
		return false, false, err
	}
	favorited = count > 0

	if err := s.db.WithContext(ctx).Model(&models.ShoppingCart{}).
		Where("user_id = ? AND recipe_id = ?", *viewerID, recipeID).
		Count(&count).Error; err != nil {
		return false, false, err
	}
	inCart = count > 0

	return favorited, inCart, nil
}

func (s *RecipeService) validateDraft(ctx context.Context, draft *RecipeDraft) error {
	if draft.CookingTime < 1 {
		return &ValidationError{Field: "cooking_time", Message: "must be at least 1"}
	}
	for _, item := range draft.Ingredients {
		if item.Amount < 0 {
			return &ValidationError{Field: "ingredients", Message: "amount must not be negative"}
		}
	}

	ids := make([]uuid.UUID, 0, len(draft.Ingredients))
	seen := make(map[uuid.UUID]bool, len(draft.Ingredients))
	for _, item := range draft.Ingredients {
		if seen[item.IngredientID] {
			return &ValidationError{Field: "ingredients", Message: "duplicate ingredient"}
		}
		seen[item.IngredientID] = true
		ids = append(ids, item.IngredientID)
	}
	if len(ids) > 0 {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Ingredient{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
			return err
		}
		if count != int64(len(ids)) {
			return &ValidationError{Field: "ingredients", Message: "unknown ingredient id"}
		}
	}

	return nil
}

func (s *RecipeService) resolveTags(ctx context.Context, tagIDs []uuid.UUID) ([]models.Tag, error) {
	if len(tagIDs) == 0 {
		return nil, nil
	}
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Where("id IN ?", tagIDs).Find(&tags).Error; err != nil {
		return nil, err
	}
	if len(tags) != len(tagIDs) {
		return nil, &ValidationError{Field: "tags", Message: "unknown tag id"}
	}
	return tags, nil
}

func replaceIngredients(tx *gorm.DB, recipeID uuid.UUID, items []IngredientAmount) error {
	if len(items) == 0 {
		return nil
	}
	rows := make([]models.RecipeIngredient, 0, len(items))
	for _, item := range items {
		rows = append(rows, models.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: item.IngredientID,
			Amount:       item.Amount,
		})
	}
	return tx.Create(&rows).Error
}
