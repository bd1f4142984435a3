package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/service"
)

type RecipeHandler struct {
	recipes       *service.RecipeService
	social        *service.SocialService
	shoppingList  *service.ShoppingListService
	subscriptions *service.SubscriptionService
	authService   middleware.TokenValidator
	rateLimiter   *middleware.RateLimiter
}

func NewRecipeHandler(
	recipes *service.RecipeService,
	social *service.SocialService,
	shoppingList *service.ShoppingListService,
	subscriptions *service.SubscriptionService,
	authService middleware.TokenValidator,
	rateLimiter *middleware.RateLimiter,
) *RecipeHandler {
	return &RecipeHandler{
		recipes:       recipes,
		social:        social,
		shoppingList:  shoppingList,
		subscriptions: subscriptions,
		authService:   authService,
		rateLimiter:   rateLimiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")

	auth := middleware.AuthMiddleware(h.authService)
	optional := middleware.OptionalAuthMiddleware(h.authService)

	recipes.GET("", optional, h.ListRecipes)
	recipes.GET("/:id", optional, h.GetRecipe)

	create := []gin.HandlerFunc{auth}
	if h.rateLimiter != nil {
		create = append(create, h.rateLimiter.RateLimitMiddleware())
	}
	recipes.POST("", append(create, h.CreateRecipe)...)

	recipes.PATCH("/:id", auth, h.UpdateRecipe)
	recipes.DELETE("/:id", auth, h.DeleteRecipe)
	recipes.POST("/:id/favorite", auth, h.FavoriteRecipe)
	recipes.DELETE("/:id/favorite", auth, h.UnfavoriteRecipe)
	recipes.POST("/:id/shopping_cart", auth, h.AddToShoppingCart)
	recipes.DELETE("/:id/shopping_cart", auth, h.RemoveFromShoppingCart)
	recipes.GET("/download_shopping_cart", auth, h.DownloadShoppingCart)
}

// ListRecipes returns recipes newest first, optionally narrowed to those
// carrying any of the given tag slugs.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	page, limit := pageParams(c)

	filter := service.RecipeFilter{Page: page, Limit: limit}
	if tags := c.QueryArray("tags"); len(tags) > 0 {
		filter.TagSlugs = tags
	} else if tags := c.Query("tags"); tags != "" {
		filter.TagSlugs = strings.Split(tags, ",")
	}
	if author := c.Query("author"); author != "" {
		authorID, err := uuid.Parse(author)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author id"})
			return
		}
		filter.AuthorID = &authorID
	}

	recipes, total, err := h.recipes.List(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	views, err := recipeViews(c.Request.Context(), h.recipes, h.subscriptions, recipes, viewerID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   total,
		"results": views,
	})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	recipe, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	view, err := recipeView(c.Request.Context(), h.recipes, h.subscriptions, recipe, viewerID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req RecipeDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	recipe, err := h.recipes.Create(c.Request.Context(), userID, draftFromRequest(&req))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	view, err := recipeView(c.Request.Context(), h.recipes, h.subscriptions, recipe, &userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

// UpdateRecipe accepts the same draft shape as create and responds with
// the full nested representation.
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	var req RecipeDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	recipe, err := h.recipes.Update(c.Request.Context(), id, userID, draftFromRequest(&req))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	view, err := recipeView(c.Request.Context(), h.recipes, h.subscriptions, recipe, &userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.recipes.Delete(c.Request.Context(), id, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) FavoriteRecipe(c *gin.Context) {
	h.addMembership(c, h.social.AddFavorite)
}

func (h *RecipeHandler) UnfavoriteRecipe(c *gin.Context) {
	h.removeMembership(c, h.social.RemoveFavorite)
}

func (h *RecipeHandler) AddToShoppingCart(c *gin.Context) {
	h.addMembership(c, h.social.AddToCart)
}

func (h *RecipeHandler) RemoveFromShoppingCart(c *gin.Context) {
	h.removeMembership(c, h.social.RemoveFromCart)
}

// DownloadShoppingCart streams the aggregated shopping list as a
// plain-text attachment with a second-precision timestamped filename.
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	items, err := h.shoppingList.Aggregate(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	fileName := h.shoppingList.FileName(time.Now())
	c.Header("Content-Disposition", `attachment; filename="`+fileName+`"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(h.shoppingList.Render(items)))
}

func (h *RecipeHandler) addMembership(c *gin.Context, add func(ctx context.Context, userID, recipeID uuid.UUID) error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := add(c.Request.Context(), userID, id); err != nil {
		respondServiceError(c, err)
		return
	}

	recipe, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, shortRecipeView(recipe))
}

func (h *RecipeHandler) removeMembership(c *gin.Context, remove func(ctx context.Context, userID, recipeID uuid.UUID) error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := remove(c.Request.Context(), userID, id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func draftFromRequest(req *RecipeDraftRequest) *service.RecipeDraft {
	ingredients := make([]service.IngredientAmount, 0, len(req.Ingredients))
	for _, item := range req.Ingredients {
		ingredients = append(ingredients, service.IngredientAmount{
			IngredientID: item.ID,
			Amount:       item.Amount,
		})
	}
	return &service.RecipeDraft{
		Name:        req.Name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		Image:       req.Image,
		TagIDs:      req.Tags,
		Ingredients: ingredients,
	}
}
