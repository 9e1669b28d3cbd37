package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/media"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

const testPageSize = 2

// testEnv is a router wired to real services over an in-memory database.
type testEnv struct {
	router  *gin.Engine
	db      *gorm.DB
	auth    *service.AuthService
	catalog testhelpers.Catalog
}

func setupTestRouter(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDatabase(t)
	log := logger.NewNop()
	auth := service.NewAuthService(db, "test-secret", time.Hour, service.NewMemoryDenylist(), log)

	router := gin.New()
	router.Use(middleware.Recovery(log))
	v1 := router.Group("/api")
	NewHealthHandler(db, log).RegisterRoutes(v1)
	NewAuthHandler(auth, log).RegisterRoutes(v1)
	NewUserHandler(service.NewUserService(db, log), service.NewSubscriptionService(db, log), auth, testPageSize, log).RegisterRoutes(v1)
	NewRecipeHandler(
		service.NewRecipeService(db, media.NewDiskStore(t.TempDir(), "/media"), log),
		service.NewRelationService(db, service.RelationFavorite, log),
		service.NewRelationService(db, service.RelationShoppingCart, log),
		auth, nil, testPageSize, log,
	).RegisterRoutes(v1)
	NewCatalogHandler(service.NewCatalogService(db, log), log).RegisterRoutes(v1)

	return &testEnv{router: router, db: db, auth: auth, catalog: testhelpers.SeedCatalog(t, db)}
}

// userWithToken creates a user and signs a token for it.
func (e *testEnv) userWithToken(t *testing.T, username string) (*models.User, string) {
	t.Helper()
	user := testhelpers.CreateUser(t, e.db, username)
	token, err := e.auth.GenerateToken(user)
	require.NoError(t, err)
	return user, token
}

// PerformRequest is a helper function to make anonymous HTTP requests in tests
func PerformRequest(router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	return PerformRequestWithToken(router, method, path, body, "")
}

// PerformRequestWithToken sends body as JSON with a "Token" authorization header.
func PerformRequestWithToken(router http.Handler, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			panic(err)
		}
		req = httptest.NewRequest(method, path, bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
