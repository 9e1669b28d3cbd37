package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/foodgram/backend/internal/apperr"
	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/metrics"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// RelationKind selects the user-recipe relation a RelationService toggles.
type RelationKind string

const (
	RelationFavorite     RelationKind = "favorite"
	RelationShoppingCart RelationKind = "shopping_cart"
)

// model returns an empty row of the relation's table.
func (k RelationKind) model() interface{} {
	if k == RelationShoppingCart {
		return &models.Cart{}
	}
	return &models.Favorite{}
}

func (k RelationKind) newRow(userID, recipeID uuid.UUID) interface{} {
	bm := models.RecipeBookmark{UserID: userID, RecipeID: recipeID}
	if k == RelationShoppingCart {
		return &models.Cart{RecipeBookmark: bm}
	}
	return &models.Favorite{RecipeBookmark: bm}
}

func (k RelationKind) existsMsg() string {
	if k == RelationShoppingCart {
		return "Recipe is already in the shopping cart."
	}
	return "Recipe is already in favorites."
}

func (k RelationKind) missingMsg() string {
	if k == RelationShoppingCart {
		return "Recipe is not in the shopping cart."
	}
	return "Recipe is not in favorites."
}

// RelationService adds and removes (viewer, recipe) rows of one relation.
type RelationService struct {
	db   *gorm.DB
	kind RelationKind
	log  *logger.Logger
}

func NewRelationService(db *gorm.DB, kind RelationKind, log *logger.Logger) *RelationService {
	return &RelationService{
		db:   db,
		kind: kind,
		log:  log.With("service", "RelationService", "kind", string(kind)),
	}
}

// Add links the recipe to the viewer. A pair that already exists is a
// validation error; a concurrent insert that loses at the unique index is
// reported as a conflict with the same code.
func (s *RelationService) Add(ctx context.Context, viewer types.Viewer, recipeID uuid.UUID) (*types.RecipeShort, error) {
	if !viewer.Authenticated {
		return nil, apperr.Unauthorized("Authentication credentials were not provided.")
	}
	recipe, err := s.recipe(ctx, recipeID)
	if err != nil {
		s.record("add", err)
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(s.kind.model()).
			Where("user_id = ? AND recipe_id = ?", viewer.UserID, recipeID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return apperr.Invalid(apperr.CodeAlreadyExists, s.kind.existsMsg())
		}
		return tx.Omit(clause.Associations).Create(s.kind.newRow(viewer.UserID, recipeID)).Error
	})
	if err != nil {
		err = classify(err, "add "+string(s.kind), apperr.CodeAlreadyExists, s.kind.existsMsg())
		s.record("add", err)
		return nil, err
	}

	s.record("add", nil)
	short := recipeShort(*recipe)
	return &short, nil
}

// Remove unlinks the recipe from the viewer.
func (s *RelationService) Remove(ctx context.Context, viewer types.Viewer, recipeID uuid.UUID) error {
	if !viewer.Authenticated {
		return apperr.Unauthorized("Authentication credentials were not provided.")
	}
	if _, err := s.recipe(ctx, recipeID); err != nil {
		s.record("remove", err)
		return err
	}

	res := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", viewer.UserID, recipeID).
		Delete(s.kind.model())
	if res.Error != nil {
		return fmt.Errorf("remove %s: %w", s.kind, res.Error)
	}
	if res.RowsAffected == 0 {
		err := apperr.Invalid(apperr.CodeRelationNotFound, s.kind.missingMsg())
		s.record("remove", err)
		return err
	}

	s.record("remove", nil)
	return nil
}

func (s *RelationService) recipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Recipe not found.")
	}
	if err != nil {
		return nil, fmt.Errorf("load recipe: %w", err)
	}
	return &recipe, nil
}

func (s *RelationService) record(op string, err error) {
	metrics.RecordRelationToggle(string(s.kind), op, outcomeOf(err))
	if err != nil && apperr.StatusOf(err) >= 500 {
		s.log.Error("Relation toggle failed", "op", op, "error", err)
	}
}
