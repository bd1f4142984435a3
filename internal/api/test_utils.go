package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/testhelpers"
	"github.com/foodgram/backend/internal/types"
)

// testEnv bundles the router and services wired over an in-memory store.
type testEnv struct {
	DB     *gorm.DB
	Auth   *service.AuthService
	Router *gin.Engine
}

// setupTestEnv builds the full route table the way the server does, minus
// CORS and rate limiting.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDB(t)

	auth := service.NewAuthService(db, "test-secret")
	images := service.NewImageService(service.NewLocalImageStore(t.TempDir(), "/media/recipes"))
	recipes := service.NewRecipeService(db, images, zap.NewNop())
	social := service.NewSocialService(db)
	shoppingList := service.NewShoppingListService(db)
	subscriptions := service.NewSubscriptionService(db)
	catalog := service.NewCatalogService(db)

	router := gin.New()
	v1 := router.Group("/api")
	NewAuthHandler(auth).RegisterRoutes(v1)
	NewUserHandler(auth, subscriptions).RegisterRoutes(v1)
	NewRecipeHandler(recipes, social, shoppingList, subscriptions, auth, nil).RegisterRoutes(v1)
	NewTagHandler(catalog).RegisterRoutes(v1)
	NewIngredientHandler(catalog).RegisterRoutes(v1)

	return &testEnv{DB: db, Auth: auth, Router: router}
}

// createUserAndToken inserts a fixture user and issues a token for it.
func (e *testEnv) createUserAndToken(t *testing.T, name string) (*models.User, string) {
	t.Helper()

	user := testhelpers.CreateTestUser(t, e.DB, name)
	token, err := e.Auth.GenerateToken(&types.TokenClaims{
		UserID:   user.ID,
		Username: user.Username,
	})
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return user, token
}

// request performs one JSON request against the test router. An empty
// token leaves the request anonymous.
func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return out
}
