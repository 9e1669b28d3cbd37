package types

import (
	"time"

	"github.com/google/uuid"
)

// UserRead is the public representation of a user.
type UserRead struct {
	Email        string    `json:"email"`
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsSubscribed bool      `json:"is_subscribed"`
}

// FollowRead is an author as seen from the subscriptions endpoints.
type FollowRead struct {
	UserRead
	Recipes      []RecipeShort `json:"recipes"`
	RecipesCount int64         `json:"recipes_count"`
}

type TagRead struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Slug  string `json:"slug"`
}

type IngredientRead struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

// RecipeIngredientRead is one ingredient line of a recipe.
type RecipeIngredientRead struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// RecipeRead is the full representation of a recipe for a given viewer.
type RecipeRead struct {
	ID               uuid.UUID              `json:"id"`
	Tags             []TagRead              `json:"tags"`
	Author           UserRead               `json:"author"`
	Ingredients      []RecipeIngredientRead `json:"ingredients"`
	IsFavorited      bool                   `json:"is_favorited"`
	IsInShoppingCart bool                   `json:"is_in_shopping_cart"`
	Name             string                 `json:"name"`
	Image            string                 `json:"image"`
	Text             string                 `json:"text"`
	CookingTime      int                    `json:"cooking_time"`
	PubDate          time.Time              `json:"pub_date"`
}

// RecipeShort is the compact representation used by relation endpoints.
type RecipeShort struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

// Page is one page of a paginated listing.
type Page[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// ShoppingListItem is one aggregated line of the shopping list download.
type ShoppingListItem struct {
	Name            string
	MeasurementUnit string
	Amount          int64
}
