package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/testhelpers"
)

func TestServerRouteWiring(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		ServerHost:   "localhost",
		ServerPort:   "0",
		JWTSecret:    "test-secret",
		MediaDir:     t.TempDir(),
		MediaBaseURL: "/media",
	}
	db := testhelpers.SetupTestDB(t)

	srv := New(cfg, db, nil, nil, zap.NewNop())

	// Public catalog routes respond without auth.
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest("GET", "/api/tags", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest("GET", "/api/ingredients", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	// Protected routes reject anonymous requests.
	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest("GET", "/api/recipes/download_shopping_cart", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest("GET", "/api/users/me", nil))
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
