package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/api"
	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/router"
	"github.com/foodgram/backend/internal/service"
)

// Server wires the services and handlers together and owns the HTTP
// listener.
type Server struct {
	router *gin.Engine
	http   *http.Server
	logger *zap.Logger
}

// New builds a fully wired server. redisClient may be nil, which disables
// the recipe-creation rate limiter.
func New(cfg *config.Config, db *gorm.DB, s3cfg *config.S3Config, redisClient *redis.Client, logger *zap.Logger) *Server {
	var imageStore service.ImageStore
	if s3cfg != nil {
		imageStore = service.NewS3ImageStore(s3cfg)
	} else {
		imageStore = service.NewLocalImageStore(cfg.MediaDir, cfg.MediaBaseURL)
	}

	authService := service.NewAuthService(db, cfg.JWTSecret)
	imageService := service.NewImageService(imageStore)
	recipeService := service.NewRecipeService(db, imageService, logger)
	socialService := service.NewSocialService(db)
	shoppingListService := service.NewShoppingListService(db)
	subscriptionService := service.NewSubscriptionService(db)
	catalogService := service.NewCatalogService(db)

	var rateLimiter *middleware.RateLimiter
	if redisClient != nil {
		rateLimiter = middleware.NewRecipeCreationRateLimiter(redisClient)
	}

	engine := router.SetupRouter(
		api.NewAuthHandler(authService),
		api.NewUserHandler(authService, subscriptionService),
		api.NewRecipeHandler(recipeService, socialService, shoppingListService, subscriptionService, authService, rateLimiter),
		api.NewTagHandler(catalogService),
		api.NewIngredientHandler(catalogService),
	)

	// Serve local media when no S3 bucket is configured.
	if s3cfg == nil {
		engine.Static(cfg.MediaBaseURL, cfg.MediaDir)
	}

	return &Server{
		router: engine,
		http: &http.Server{
			Addr:    cfg.ServerHost + ":" + cfg.ServerPort,
			Handler: engine,
		},
		logger: logger,
	}
}

// Start begins serving; it blocks until the listener stops.
func (s *Server) Start() error {
	s.logger.Info("starting server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// Router exposes the underlying engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
