package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/foodgram/backend/internal/apperr"
	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
	"github.com/pageza/foodgram/backend/internal/validation"
)

// CatalogService serves the read-only ingredient and tag reference data.
type CatalogService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCatalogService(db *gorm.DB, log *logger.Logger) *CatalogService {
	return &CatalogService{db: db, log: log.With("service", "CatalogService")}
}

func (s *CatalogService) ListTags(ctx context.Context) ([]types.TagRead, error) {
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Order("id").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tagReads(tags), nil
}

func (s *CatalogService) GetTag(ctx context.Context, id uint) (*types.TagRead, error) {
	var tag models.Tag
	err := s.db.WithContext(ctx).First(&tag, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Tag not found.")
	}
	if err != nil {
		return nil, fmt.Errorf("get tag: %w", err)
	}
	read := tagRead(tag)
	return &read, nil
}

// ListIngredients returns ingredients ordered by name. A non-empty prefix
// keeps those whose name starts with it, ignoring case.
func (s *CatalogService) ListIngredients(ctx context.Context, prefix string) ([]types.IngredientRead, error) {
	query := s.db.WithContext(ctx).Order("name").Order("id")
	if prefix = strings.TrimSpace(prefix); prefix != "" {
		query = query.Where(`LOWER(name) LIKE ? ESCAPE '\'`, escapeLike(strings.ToLower(prefix))+"%")
	}
	var ingredients []models.Ingredient
	if err := query.Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	out := make([]types.IngredientRead, 0, len(ingredients))
	for _, i := range ingredients {
		out = append(out, ingredientRead(i))
	}
	return out, nil
}

func (s *CatalogService) GetIngredient(ctx context.Context, id uint) (*types.IngredientRead, error) {
	var ingredient models.Ingredient
	err := s.db.WithContext(ctx).First(&ingredient, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Ingredient not found.")
	}
	if err != nil {
		return nil, fmt.Errorf("get ingredient: %w", err)
	}
	read := ingredientRead(ingredient)
	return &read, nil
}

// SeedIngredients inserts ingredients, skipping any (name, unit) pair that
// already exists. It returns the number of rows inserted.
func (s *CatalogService) SeedIngredients(ctx context.Context, ingredients []models.Ingredient) (int64, error) {
	if len(ingredients) == 0 {
		return 0, nil
	}
	for _, i := range ingredients {
		if err := validation.Struct(&i); err != nil {
			return 0, err
		}
	}
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(&ingredients, 500)
	if res.Error != nil {
		return 0, fmt.Errorf("seed ingredients: %w", res.Error)
	}
	s.log.Info("Seeded ingredients", "inserted", res.RowsAffected, "total", len(ingredients))
	return res.RowsAffected, nil
}

// SeedTags inserts tags, skipping those that clash with an existing one.
func (s *CatalogService) SeedTags(ctx context.Context, tags []models.Tag) (int64, error) {
	if len(tags) == 0 {
		return 0, nil
	}
	for _, t := range tags {
		if err := validation.Struct(&t); err != nil {
			return 0, err
		}
	}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&tags)
	if res.Error != nil {
		return 0, fmt.Errorf("seed tags: %w", res.Error)
	}
	s.log.Info("Seeded tags", "inserted", res.RowsAffected, "total", len(tags))
	return res.RowsAffected, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
