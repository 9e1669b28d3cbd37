package testhelpers

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
)

// TestPassword is the plain-text password of every fixture user.
const TestPassword = "s3cret-pass"

// PNGDataURI is a valid 1x1 PNG image encoded as a data URI.
const PNGDataURI = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

// Catalog is the reference data created by SeedCatalog.
type Catalog struct {
	Ingredients []models.Ingredient
	Tags        []models.Tag
}

// CreateUser inserts a user whose email and names derive from username.
func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		ID:           uuid.New(),
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    "Test",
		LastName:     username,
		PasswordHash: string(hash),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// SeedCatalog inserts four ingredients and three tags.
func SeedCatalog(t *testing.T, db *gorm.DB) Catalog {
	t.Helper()
	c := Catalog{
		Ingredients: []models.Ingredient{
			{Name: "flour", MeasurementUnit: "g"},
			{Name: "milk", MeasurementUnit: "ml"},
			{Name: "egg", MeasurementUnit: "pcs"},
			{Name: "sugar", MeasurementUnit: "g"},
		},
		Tags: []models.Tag{
			{Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"},
			{Name: "Lunch", Color: "#49B64E", Slug: "lunch"},
			{Name: "Dinner", Color: "#8775D2", Slug: "dinner"},
		},
	}
	require.NoError(t, db.Create(&c.Ingredients).Error)
	require.NoError(t, db.Create(&c.Tags).Error)
	return c
}

// CreateRecipe inserts a recipe directly, bypassing validation.
func CreateRecipe(t *testing.T, db *gorm.DB, author *models.User, name string, tags []models.Tag, lines map[uint]int) *models.Recipe {
	t.Helper()
	recipe := &models.Recipe{
		AuthorID:    author.ID,
		Name:        name,
		Image:       "/media/recipes/" + name + ".png",
		Text:        "Cook " + name,
		CookingTime: 10,
	}
	require.NoError(t, db.Omit("Author", "Tags", "Ingredients").Create(recipe).Error)
	for _, tag := range tags {
		require.NoError(t, db.Create(&models.RecipeTag{RecipeID: recipe.ID, TagID: tag.ID}).Error)
	}
	for ingredientID, amount := range lines {
		require.NoError(t, db.Omit("Ingredient").Create(&models.IngredientInRecipe{
			RecipeID:     recipe.ID,
			IngredientID: ingredientID,
			Amount:       amount,
		}).Error)
	}
	return recipe
}
