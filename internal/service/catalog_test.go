package service_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/apperr"
	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
)

func TestListIngredientsByPrefix(t *testing.T) {
	f := setup(t)
	catalog := service.NewCatalogService(f.db, logger.NewNop())
	ctx := context.Background()

	_, err := catalog.SeedIngredients(ctx, []models.Ingredient{
		{Name: "Mint", MeasurementUnit: "g"},
		{Name: "mi_x", MeasurementUnit: "g"},
	})
	require.NoError(t, err)

	all, err := catalog.ListIngredients(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 6)

	found, err := catalog.ListIngredients(ctx, "MI")
	require.NoError(t, err)
	names := make([]string, 0, len(found))
	for _, i := range found {
		names = append(names, i.Name)
	}
	assert.ElementsMatch(t, []string{"milk", "Mint", "mi_x"}, names)

	// Wildcards in the prefix match literally.
	found, err = catalog.ListIngredients(ctx, "mi_")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "mi_x", found[0].Name)

	found, err = catalog.ListIngredients(ctx, "%")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestCatalogLookups(t *testing.T) {
	f := setup(t)
	catalog := service.NewCatalogService(f.db, logger.NewNop())
	ctx := context.Background()

	tags, err := catalog.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 3)
	assert.Equal(t, "breakfast", tags[0].Slug)

	tag, err := catalog.GetTag(ctx, f.tag(1))
	require.NoError(t, err)
	assert.Equal(t, "#49B64E", tag.Color)

	ingredient, err := catalog.GetIngredient(ctx, f.ingredient(1))
	require.NoError(t, err)
	assert.Equal(t, "ml", ingredient.MeasurementUnit)

	_, err = catalog.GetTag(ctx, 999)
	assert.True(t, apperr.HasStatus(err, http.StatusNotFound))
	_, err = catalog.GetIngredient(ctx, 999)
	assert.True(t, apperr.HasStatus(err, http.StatusNotFound))
}

func TestSeedingIsIdempotent(t *testing.T) {
	f := setup(t)
	catalog := service.NewCatalogService(f.db, logger.NewNop())
	ctx := context.Background()

	inserted, err := catalog.SeedIngredients(ctx, []models.Ingredient{
		{Name: "flour", MeasurementUnit: "g"},
		{Name: "salt", MeasurementUnit: "pinch"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), inserted)
	assert.Equal(t, int64(5), f.count(t, &models.Ingredient{}))

	inserted, err = catalog.SeedTags(ctx, []models.Tag{{Name: "Brunch", Color: "#123456", Slug: "brunch"}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), inserted)

	inserted, err = catalog.SeedTags(ctx, []models.Tag{{Name: "Brunch", Color: "#123456", Slug: "brunch"}})
	require.NoError(t, err)
	assert.Zero(t, inserted)

	_, err = catalog.SeedTags(ctx, []models.Tag{{Name: "Bad", Color: "red", Slug: "bad"}})
	assert.True(t, apperr.HasStatus(err, http.StatusBadRequest))
}
