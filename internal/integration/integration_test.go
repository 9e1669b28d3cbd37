//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/pageza/foodgram/backend/internal/apperr"
	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/media"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/router"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testdb"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate redis: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	require.NoError(t, client.Ping(ctx).Err())
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func request(t *testing.T, h http.Handler, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// TestRecipeFlowOnPostgres drives the full router against the SQL migrations.
func TestRecipeFlowOnPostgres(t *testing.T) {
	tdb := testdb.SetupTestDB(t)
	rdb := startRedis(t)
	gin.SetMode(gin.TestMode)

	tdb.Config.MediaDriver = "disk"
	tdb.Config.MediaRoot = t.TempDir()
	tdb.Config.RecipeCreateLimit = 1
	tdb.Config.RecipeCreateWindow = time.Hour
	h := router.SetupRouter(router.Dependencies{
		Config: tdb.Config,
		DB:     tdb.DB,
		Redis:  rdb,
		Store:  media.NewDiskStore(tdb.Config.MediaRoot, tdb.Config.MediaBaseURL),
		Log:    logger.NewNop(),
	})
	catalog := testhelpers.SeedCatalog(t, tdb.DB)
	testhelpers.CreateUser(t, tdb.DB, "chef")

	w := request(t, h, http.MethodPost, "/api/auth/token/login", map[string]string{
		"email": "chef@example.com", "password": testhelpers.TestPassword,
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var tokenResp types.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tokenResp))
	token := tokenResp.AuthToken

	body := map[string]interface{}{
		"name":         "Borscht",
		"text":         "Simmer.",
		"image":        testhelpers.PNGDataURI,
		"cooking_time": 90,
		"tags":         []uint{catalog.Tags[2].ID},
		"ingredients": []map[string]interface{}{
			{"id": catalog.Ingredients[0].ID, "amount": 10},
			{"id": catalog.Ingredients[2].ID, "amount": "3"},
		},
	}
	w = request(t, h, http.MethodPost, "/api/recipes", body, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created types.RecipeRead
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Len(t, created.Ingredients, 2)

	// The second create in the window is rate limited.
	w = request(t, h, http.MethodPost, "/api/recipes", body, token)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	w = request(t, h, http.MethodGet, "/api/rate-limits/recipe-creation", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	// The CHECK constraint backs up the validator.
	err := tdb.DB.Model(&models.Recipe{}).Where("id = ?", created.ID).UpdateColumn("cooking_time", 0).Error
	assert.Error(t, err)

	w = request(t, h, http.MethodPost, "/api/auth/token/logout", nil, token)
	require.Equal(t, http.StatusNoContent, w.Code)
	w = request(t, h, http.MethodGet, "/api/users/me", nil, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestConcurrentFavoriteOnPostgres(t *testing.T) {
	tdb := testdb.SetupTestDB(t)
	log := logger.NewNop()
	testhelpers.SeedCatalog(t, tdb.DB)
	author := testhelpers.CreateUser(t, tdb.DB, "author")
	reader := testhelpers.CreateUser(t, tdb.DB, "reader")
	recipe := testhelpers.CreateRecipe(t, tdb.DB, author, "race", nil, nil)
	favorites := service.NewRelationService(tdb.DB, service.RelationFavorite, log)

	const workers = 10
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := favorites.Add(context.Background(), types.AuthenticatedViewer(reader.ID), recipe.ID)
			if err != nil {
				assert.True(t, apperr.HasCode(err, apperr.CodeAlreadyExists), "unexpected error: %v", err)
				return
			}
			mu.Lock()
			wins++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	var count int64
	require.NoError(t, tdb.DB.Model(&models.Favorite{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRedisDenylistAndRateLimiter(t *testing.T) {
	rdb := startRedis(t)
	ctx := context.Background()

	denylist := service.NewRedisDenylist(rdb)
	require.NoError(t, denylist.Revoke(ctx, "jti-1", time.Now().Add(time.Minute)))
	revoked, err := denylist.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
	revoked, err = denylist.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)

	limiter := middleware.NewRecipeCreationRateLimiter(rdb, 2, time.Hour, logger.NewNop())
	remaining, _, err := limiter.GetRemainingRequests(ctx, "user")
	require.NoError(t, err)
	assert.Equal(t, 2, remaining)
	for i, want := range []bool{true, true, false} {
		allowed, _, _, err := limiter.IsAllowed(ctx, "user")
		require.NoError(t, err)
		assert.Equal(t, want, allowed, "request %d", i)
	}
}
