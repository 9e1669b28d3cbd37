package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/foodgram/backend/internal/apperr"
	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/media"
	"github.com/pageza/foodgram/backend/internal/metrics"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

const duplicateIngredientMsg = "Each ingredient may appear only once in a recipe."

// RecipeService handles recipe operations
type RecipeService struct {
	db        *gorm.DB
	validator *RecipeValidator
	projector *Projector
	store     media.Store
	log       *logger.Logger
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB, store media.Store, log *logger.Logger) *RecipeService {
	return &RecipeService{
		db:        db,
		validator: NewRecipeValidator(db),
		projector: NewProjector(db),
		store:     store,
		log:       log.With("service", "RecipeService"),
	}
}

// Create validates req and stores a new recipe authored by the viewer.
func (s *RecipeService) Create(ctx context.Context, viewer types.Viewer, req *types.RecipeWriteRequest) (*types.RecipeRead, error) {
	valid, err := s.validator.Validate(ctx, viewer, req, true)
	if err != nil {
		metrics.RecordRecipeMutation("create", outcomeOf(err))
		return nil, err
	}

	imageURL, err := s.store.Save(ctx, media.NewKey(valid.Image), valid.Image)
	if err != nil {
		metrics.RecordRecipeMutation("create", metrics.OutcomeError)
		return nil, fmt.Errorf("store recipe image: %w", err)
	}

	recipe := models.Recipe{
		AuthorID:    viewer.UserID,
		Name:        valid.Name,
		Image:       imageURL,
		Text:        valid.Text,
		CookingTime: valid.CookingTime,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&recipe).Error; err != nil {
			return err
		}
		if err := replaceTags(tx, recipe.ID, valid.TagIDs); err != nil {
			return err
		}
		return replaceIngredientLines(tx, recipe.ID, valid.Ingredients)
	})
	if err != nil {
		s.discardImage(ctx, imageURL)
		err = classify(err, "create recipe", apperr.CodeConflict, duplicateIngredientMsg)
		metrics.RecordRecipeMutation("create", outcomeOf(err))
		return nil, err
	}

	metrics.RecordRecipeMutation("create", metrics.OutcomeOK)
	s.log.Info("Recipe created", "recipe_id", recipe.ID, "author_id", viewer.UserID)
	return s.Get(ctx, viewer, recipe.ID)
}

// Update replaces every field, tag link and ingredient line of a recipe the
// viewer authored. The current image is kept when req carries none.
func (s *RecipeService) Update(ctx context.Context, viewer types.Viewer, id uuid.UUID, req *types.RecipeWriteRequest) (*types.RecipeRead, error) {
	if !viewer.Authenticated {
		return nil, apperr.Unauthorized("Authentication credentials were not provided.")
	}
	recipe, err := s.authored(ctx, viewer, id)
	if err != nil {
		metrics.RecordRecipeMutation("update", outcomeOf(err))
		return nil, err
	}

	valid, err := s.validator.Validate(ctx, viewer, req, false)
	if err != nil {
		metrics.RecordRecipeMutation("update", outcomeOf(err))
		return nil, err
	}

	oldImage := recipe.Image
	newImage := ""
	if valid.Image != nil {
		newImage, err = s.store.Save(ctx, media.NewKey(valid.Image), valid.Image)
		if err != nil {
			metrics.RecordRecipeMutation("update", metrics.OutcomeError)
			return nil, fmt.Errorf("store recipe image: %w", err)
		}
		recipe.Image = newImage
	}
	recipe.Name = valid.Name
	recipe.Text = valid.Text
	recipe.CookingTime = valid.CookingTime

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(recipe).Error; err != nil {
			return err
		}
		if err := replaceTags(tx, recipe.ID, valid.TagIDs); err != nil {
			return err
		}
		return replaceIngredientLines(tx, recipe.ID, valid.Ingredients)
	})
	if err != nil {
		if newImage != "" {
			s.discardImage(ctx, newImage)
		}
		err = classify(err, "update recipe", apperr.CodeConflict, duplicateIngredientMsg)
		metrics.RecordRecipeMutation("update", outcomeOf(err))
		return nil, err
	}

	if newImage != "" {
		s.discardImage(ctx, oldImage)
	}
	metrics.RecordRecipeMutation("update", metrics.OutcomeOK)
	s.log.Info("Recipe updated", "recipe_id", recipe.ID)
	return s.Get(ctx, viewer, recipe.ID)
}

// Delete removes a recipe the viewer authored along with its lines, tag
// links, favorites and cart entries.
func (s *RecipeService) Delete(ctx context.Context, viewer types.Viewer, id uuid.UUID) error {
	if !viewer.Authenticated {
		return apperr.Unauthorized("Authentication credentials were not provided.")
	}
	recipe, err := s.authored(ctx, viewer, id)
	if err != nil {
		metrics.RecordRecipeMutation("delete", outcomeOf(err))
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, dependent := range []interface{}{
			&models.IngredientInRecipe{},
			&models.RecipeTag{},
			&models.Favorite{},
			&models.Cart{},
		} {
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(dependent).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Recipe{}, "id = ?", recipe.ID).Error
	})
	if err != nil {
		err = classify(err, "delete recipe", apperr.CodeConflict, "Recipe could not be deleted.")
		metrics.RecordRecipeMutation("delete", outcomeOf(err))
		return err
	}

	s.discardImage(ctx, recipe.Image)
	metrics.RecordRecipeMutation("delete", metrics.OutcomeOK)
	s.log.Info("Recipe deleted", "recipe_id", recipe.ID)
	return nil
}

// Get returns the read projection of a recipe for the viewer.
func (s *RecipeService) Get(ctx context.Context, viewer types.Viewer, id uuid.UUID) (*types.RecipeRead, error) {
	var recipe models.Recipe
	err := withRecipeAssociations(s.db.WithContext(ctx)).First(&recipe, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Recipe not found.")
	}
	if err != nil {
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	return s.projector.Recipe(ctx, viewer, recipe)
}

// List returns one page of recipes, newest first, and the total count.
func (s *RecipeService) List(ctx context.Context, viewer types.Viewer, filter types.RecipeFilter, page types.PageQuery) ([]types.RecipeRead, int64, error) {
	db := s.db.WithContext(ctx)
	query := db.Model(&models.Recipe{})

	if filter.AuthorID != "" {
		authorID, err := uuid.Parse(filter.AuthorID)
		if err != nil {
			return nil, 0, apperr.Validation("author", "Enter a valid user id.")
		}
		query = query.Where("recipes.author_id = ?", authorID)
	}
	if len(filter.TagSlugs) > 0 {
		tagged := db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs)
		query = query.Where("recipes.id IN (?)", tagged)
	}
	if viewer.Authenticated && filter.IsFavorited {
		query = query.Where("recipes.id IN (?)",
			db.Model(&models.Favorite{}).Select("recipe_id").Where("user_id = ?", viewer.UserID))
	}
	if viewer.Authenticated && filter.IsInShoppingCart {
		query = query.Where("recipes.id IN (?)",
			db.Model(&models.Cart{}).Select("recipe_id").Where("user_id = ?", viewer.UserID))
	}
	query = query.Session(&gorm.Session{})

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("count recipes: %w", err)
	}

	var recipes []models.Recipe
	err := withRecipeAssociations(query).
		Order("recipes.pub_date DESC").
		Order("recipes.id").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list recipes: %w", err)
	}

	reads, err := s.projector.Recipes(ctx, viewer, recipes)
	if err != nil {
		return nil, 0, err
	}
	return reads, count, nil
}

// ShoppingList sums ingredient amounts over every recipe in the viewer's
// cart, per ingredient name and unit.
func (s *RecipeService) ShoppingList(ctx context.Context, viewer types.Viewer) ([]types.ShoppingListItem, error) {
	if !viewer.Authenticated {
		return nil, apperr.Unauthorized("Authentication credentials were not provided.")
	}
	var items []types.ShoppingListItem
	err := s.db.WithContext(ctx).
		Table("shopping_carts").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(ingredient_lines.amount) AS amount").
		Joins("JOIN ingredient_lines ON ingredient_lines.recipe_id = shopping_carts.recipe_id").
		Joins("JOIN ingredients ON ingredients.id = ingredient_lines.ingredient_id").
		Where("shopping_carts.user_id = ?", viewer.UserID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name").
		Scan(&items).Error
	if err != nil {
		return nil, fmt.Errorf("build shopping list: %w", err)
	}
	return items, nil
}

// FormatShoppingList renders items as the plain-text download.
func FormatShoppingList(items []types.ShoppingListItem) string {
	var b strings.Builder
	b.WriteString("Shopping list\n\n")
	if len(items) == 0 {
		b.WriteString("Your shopping cart is empty.\n")
		return b.String()
	}
	for _, item := range items {
		fmt.Fprintf(&b, "- %s (%s): %d\n", item.Name, item.MeasurementUnit, item.Amount)
	}
	return b.String()
}

// authored loads a recipe and checks the viewer wrote it.
func (s *RecipeService) authored(ctx context.Context, viewer types.Viewer, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Recipe not found.")
	}
	if err != nil {
		return nil, fmt.Errorf("load recipe: %w", err)
	}
	if recipe.AuthorID != viewer.UserID {
		return nil, apperr.Forbidden("You do not have permission to perform this action.")
	}
	return &recipe, nil
}

func (s *RecipeService) discardImage(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.store.Delete(ctx, url); err != nil {
		s.log.Warn("Failed to delete recipe image", "image", url, "error", err)
	}
}

func replaceTags(tx *gorm.DB, recipeID uuid.UUID, tagIDs []uint) error {
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeTag{}).Error; err != nil {
		return err
	}
	links := make([]models.RecipeTag, 0, len(tagIDs))
	for _, id := range tagIDs {
		links = append(links, models.RecipeTag{RecipeID: recipeID, TagID: id})
	}
	if len(links) == 0 {
		return nil
	}
	return tx.Create(&links).Error
}

func replaceIngredientLines(tx *gorm.DB, recipeID uuid.UUID, lines []IngredientLine) error {
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.IngredientInRecipe{}).Error; err != nil {
		return err
	}
	rows := make([]models.IngredientInRecipe, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, models.IngredientInRecipe{
			RecipeID:     recipeID,
			IngredientID: line.IngredientID,
			Amount:       line.Amount,
		})
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.Omit(clause.Associations).Create(&rows).Error
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case apperr.HasStatus(err, http.StatusConflict):
		return metrics.OutcomeConflict
	case apperr.StatusOf(err) < http.StatusInternalServerError:
		return metrics.OutcomeInvalid
	default:
		return metrics.OutcomeError
	}
}
