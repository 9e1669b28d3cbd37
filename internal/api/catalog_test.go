package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogEndpoints(t *testing.T) {
	env := setupTestRouter(t)

	w := PerformRequest(env.router, http.MethodGet, "/api/tags", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tags []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tags))
	assert.Len(t, tags, 3)

	w = PerformRequest(env.router, http.MethodGet, fmt.Sprintf("/api/tags/%d", env.catalog.Tags[2].ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "dinner", decode(t, w)["slug"])

	w = PerformRequest(env.router, http.MethodGet, "/api/ingredients?name=MI", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var ingredients []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ingredients))
	require.Len(t, ingredients, 1)
	assert.Equal(t, "milk", ingredients[0]["name"])
	assert.Equal(t, "ml", ingredients[0]["measurement_unit"])

	for _, path := range []string{"/api/tags/999", "/api/tags/abc", "/api/ingredients/999"} {
		w = PerformRequest(env.router, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}
}

func TestHealthCheck(t *testing.T) {
	env := setupTestRouter(t)

	w := PerformRequest(env.router, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decode(t, w)["status"])
}
