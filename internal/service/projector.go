package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// Projector builds read models for a viewer. Viewer-relative flags are
// resolved with one query per relation for the whole batch.
type Projector struct {
	db *gorm.DB
}

func NewProjector(db *gorm.DB) *Projector {
	return &Projector{db: db}
}

// withRecipeAssociations preloads everything RecipeRead needs.
func withRecipeAssociations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.id") }).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("ingredient_lines.id") }).
		Preload("Ingredients.Ingredient")
}

// Recipes projects recipes loaded with withRecipeAssociations.
func (p *Projector) Recipes(ctx context.Context, viewer types.Viewer, recipes []models.Recipe) ([]types.RecipeRead, error) {
	out := make([]types.RecipeRead, 0, len(recipes))
	if len(recipes) == 0 {
		return out, nil
	}

	recipeIDs := make([]uuid.UUID, 0, len(recipes))
	authorIDs := make([]uuid.UUID, 0, len(recipes))
	for _, r := range recipes {
		recipeIDs = append(recipeIDs, r.ID)
		authorIDs = append(authorIDs, r.AuthorID)
	}

	favorited, err := p.bookmarked(ctx, viewer, &models.Favorite{}, recipeIDs)
	if err != nil {
		return nil, err
	}
	inCart, err := p.bookmarked(ctx, viewer, &models.Cart{}, recipeIDs)
	if err != nil {
		return nil, err
	}
	subscribed, err := p.subscribedTo(ctx, viewer, authorIDs)
	if err != nil {
		return nil, err
	}

	for _, r := range recipes {
		read := types.RecipeRead{
			ID:               r.ID,
			Tags:             tagReads(r.Tags),
			Author:           userRead(r.Author, subscribed[r.AuthorID]),
			Ingredients:      make([]types.RecipeIngredientRead, 0, len(r.Ingredients)),
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
			Name:             r.Name,
			Image:            r.Image,
			Text:             r.Text,
			CookingTime:      r.CookingTime,
			PubDate:          r.PubDate,
		}
		for _, line := range r.Ingredients {
			read.Ingredients = append(read.Ingredients, types.RecipeIngredientRead{
				ID:              line.Ingredient.ID,
				Name:            line.Ingredient.Name,
				MeasurementUnit: line.Ingredient.MeasurementUnit,
				Amount:          line.Amount,
			})
		}
		out = append(out, read)
	}
	return out, nil
}

// Recipe projects a single recipe.
func (p *Projector) Recipe(ctx context.Context, viewer types.Viewer, recipe models.Recipe) (*types.RecipeRead, error) {
	reads, err := p.Recipes(ctx, viewer, []models.Recipe{recipe})
	if err != nil {
		return nil, err
	}
	return &reads[0], nil
}

// Users projects users with the viewer's subscription flag.
func (p *Projector) Users(ctx context.Context, viewer types.Viewer, users []models.User) ([]types.UserRead, error) {
	ids := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	subscribed, err := p.subscribedTo(ctx, viewer, ids)
	if err != nil {
		return nil, err
	}
	out := make([]types.UserRead, 0, len(users))
	for _, u := range users {
		out = append(out, userRead(u, subscribed[u.ID]))
	}
	return out, nil
}

// bookmarked returns the recipe ids among recipeIDs the viewer has a row for
// in the table of model.
func (p *Projector) bookmarked(ctx context.Context, viewer types.Viewer, model interface{}, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	set := make(map[uuid.UUID]bool)
	if !viewer.Authenticated || len(recipeIDs) == 0 {
		return set, nil
	}
	var ids []uuid.UUID
	err := p.db.WithContext(ctx).Model(model).
		Where("user_id = ? AND recipe_id IN ?", viewer.UserID, recipeIDs).
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("load viewer bookmarks: %w", err)
	}
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func (p *Projector) subscribedTo(ctx context.Context, viewer types.Viewer, authorIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	set := make(map[uuid.UUID]bool)
	if !viewer.Authenticated || len(authorIDs) == 0 {
		return set, nil
	}
	var ids []uuid.UUID
	err := p.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("user_id = ? AND author_id IN ?", viewer.UserID, authorIDs).
		Pluck("author_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("load viewer subscriptions: %w", err)
	}
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func userRead(u models.User, subscribed bool) types.UserRead {
	return types.UserRead{
		Email:        u.Email,
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
}

func tagReads(tags []models.Tag) []types.TagRead {
	out := make([]types.TagRead, 0, len(tags))
	for _, t := range tags {
		out = append(out, tagRead(t))
	}
	return out
}

func tagRead(t models.Tag) types.TagRead {
	return types.TagRead{ID: t.ID, Name: t.Name, Color: t.Color, Slug: t.Slug}
}

func ingredientRead(i models.Ingredient) types.IngredientRead {
	return types.IngredientRead{ID: i.ID, Name: i.Name, MeasurementUnit: i.MeasurementUnit}
}

func recipeShort(r models.Recipe) types.RecipeShort {
	return types.RecipeShort{ID: r.ID, Name: r.Name, Image: r.Image, CookingTime: r.CookingTime}
}
