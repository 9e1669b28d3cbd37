package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func TestRegisterLoginLogout(t *testing.T) {
	env := setupTestRouter(t)

	body := map[string]interface{}{
		"email":      "cook@example.com",
		"username":   "cook",
		"first_name": "Ann",
		"last_name":  "Cook",
		"password":   "long-enough",
	}
	w := PerformRequest(env.router, http.MethodPost, "/api/users", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	user := decode(t, w)
	assert.Equal(t, "cook", user["username"])
	assert.NotContains(t, user, "password")

	w = PerformRequest(env.router, http.MethodPost, "/api/users", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w), "email")

	w = PerformRequest(env.router, http.MethodPost, "/api/auth/token/login", map[string]string{
		"email": "cook@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = PerformRequest(env.router, http.MethodPost, "/api/auth/token/login", map[string]string{
		"email": "cook@example.com", "password": "long-enough",
	})
	require.Equal(t, http.StatusOK, w.Code)
	token := decode(t, w)["auth_token"].(string)

	w = PerformRequestWithToken(env.router, http.MethodGet, "/api/users/me", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, user["id"], decode(t, w)["id"])

	w = PerformRequestWithToken(env.router, http.MethodPost, "/api/auth/token/logout", nil, token)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = PerformRequestWithToken(env.router, http.MethodGet, "/api/users/me", nil, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSetPasswordEndpoint(t *testing.T) {
	env := setupTestRouter(t)
	_, token := env.userWithToken(t, "cook")

	w := PerformRequestWithToken(env.router, http.MethodPost, "/api/users/set_password", map[string]string{
		"new_password": "another-pass", "current_password": "nope",
	}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w), "current_password")

	w = PerformRequestWithToken(env.router, http.MethodPost, "/api/users/set_password", map[string]string{
		"new_password": "another-pass", "current_password": testhelpers.TestPassword,
	}, token)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestSubscriptionEndpoints(t *testing.T) {
	env := setupTestRouter(t)
	author, authorToken := env.userWithToken(t, "chef")
	_, token := env.userWithToken(t, "fan")
	for i := 0; i < 3; i++ {
		testhelpers.CreateRecipe(t, env.db, author, fmt.Sprintf("dish%d", i), nil, nil)
	}
	path := fmt.Sprintf("/api/users/%s/subscribe", author.ID)

	w := PerformRequestWithToken(env.router, http.MethodPost, path, nil, authorToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = PerformRequestWithToken(env.router, http.MethodPost, path+"?recipes_limit=1", nil, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	follow := decode(t, w)
	assert.Equal(t, true, follow["is_subscribed"])
	assert.Equal(t, float64(3), follow["recipes_count"])
	assert.Len(t, follow["recipes"], 1)

	w = PerformRequestWithToken(env.router, http.MethodPost, path, nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = PerformRequestWithToken(env.router, http.MethodGet, "/api/users/subscriptions?recipes_limit=2", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode(t, w)
	assert.Equal(t, float64(1), page["count"])
	results := page["results"].([]interface{})
	require.Len(t, results, 1)
	assert.Len(t, results[0].(map[string]interface{})["recipes"], 2)

	w = PerformRequestWithToken(env.router, http.MethodGet, fmt.Sprintf("/api/users/%s", author.ID), nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["is_subscribed"])

	w = PerformRequestWithToken(env.router, http.MethodDelete, path, nil, token)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = PerformRequestWithToken(env.router, http.MethodDelete, path, nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListUsers(t *testing.T) {
	env := setupTestRouter(t)
	env.userWithToken(t, "a")
	env.userWithToken(t, "b")
	env.userWithToken(t, "c")

	w := PerformRequest(env.router, http.MethodGet, "/api/users?limit=2&page=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode(t, w)
	assert.Equal(t, float64(3), page["count"])
	assert.Len(t, page["results"], 1)
	assert.Equal(t, "http://example.com/api/users?limit=2", page["previous"])
}
