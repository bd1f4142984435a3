package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/service"
)

type UserHandler struct {
	authService   *service.AuthService
	subscriptions *service.SubscriptionService
}

func NewUserHandler(authService *service.AuthService, subscriptions *service.SubscriptionService) *UserHandler {
	return &UserHandler{
		authService:   authService,
		subscriptions: subscriptions,
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")

	auth := middleware.AuthMiddleware(h.authService)
	optional := middleware.OptionalAuthMiddleware(h.authService)

	users.POST("", h.Register)
	users.GET("", optional, h.ListUsers)
	users.GET("/me", auth, h.Me)
	users.GET("/subscriptions", auth, h.ListSubscriptions)
	users.GET("/:id", optional, h.GetUser)
	users.POST("/:id/subscribe", auth, h.Subscribe)
	users.DELETE("/:id/subscribe", auth, h.Unsubscribe)
}

func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Email, req.Username, req.FirstName, req.LastName, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"email":      user.Email,
		"id":         user.ID,
		"username":   user.Username,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
	})
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	page, limit := pageParams(c)

	users, total, err := h.authService.ListUsers(c.Request.Context(), page, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	viewer := viewerID(c)
	views := make([]UserView, 0, len(users))
	for i := range users {
		view, err := userView(c.Request.Context(), h.subscriptions, &users[i], viewer)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		views = append(views, view)
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   total,
		"results": views,
	})
}

func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	view, err := userView(c.Request.Context(), h.subscriptions, user, &userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	view, err := userView(c.Request.Context(), h.subscriptions, user, viewerID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	authorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.subscriptions.Subscribe(c.Request.Context(), userID, authorID); err != nil {
		respondServiceError(c, err)
		return
	}

	view, err := h.subscriptionView(c, authorID, userID, nil)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	authorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.subscriptions.Unsubscribe(c.Request.Context(), userID, authorID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListSubscriptions returns the followed authors, each with their recipe
// count and up to recipes_limit most recent recipes in short form.
func (h *UserHandler) ListSubscriptions(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	page, limit := pageParams(c)

	var recipesLimit *int
	if raw := c.Query("recipes_limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipes_limit"})
			return
		}
		recipesLimit = &n
	}

	authors, total, err := h.subscriptions.ListAuthors(c.Request.Context(), userID, page, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	views := make([]SubscriptionView, 0, len(authors))
	for i := range authors {
		view, err := h.subscriptionView(c, authors[i].ID, userID, recipesLimit)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		views = append(views, view)
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   total,
		"results": views,
	})
}

func (h *UserHandler) subscriptionView(c *gin.Context, authorID, viewerID uuid.UUID, recipesLimit *int) (SubscriptionView, error) {
	ctx := c.Request.Context()

	author, err := h.authService.GetUser(ctx, authorID)
	if err != nil {
		return SubscriptionView{}, err
	}

	base, err := userView(ctx, h.subscriptions, author, &viewerID)
	if err != nil {
		return SubscriptionView{}, err
	}

	recipes, count, err := h.subscriptions.AuthorRecipes(ctx, authorID, recipesLimit)
	if err != nil {
		return SubscriptionView{}, err
	}

	return SubscriptionView{
		UserView:     base,
		RecipesCount: count,
		Recipes:      shortRecipeViews(recipes),
	}, nil
}
