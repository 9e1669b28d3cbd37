package models

import (
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/apperr"
)

// Cooking time bounds in minutes.
const (
	MinCookingTime = 1
	MaxCookingTime = 2880
	MinAmount      = 1
	MaxAmount      = math.MaxInt32
)

// Ingredient is catalog reference data, read-only to clients.
type Ingredient struct {
	ID              uint   `gorm:"primarykey" json:"id"`
	Name            string `gorm:"size:100;not null;uniqueIndex:idx_ingredient_name_unit" json:"name" validate:"required,max=100"`
	MeasurementUnit string `gorm:"size:100;not null;uniqueIndex:idx_ingredient_name_unit" json:"measurement_unit" validate:"required,max=100"`
}

// Tag is catalog reference data, read-only to clients.
type Tag struct {
	ID    uint   `gorm:"primarykey" json:"id"`
	Name  string `gorm:"size:20;not null;uniqueIndex" json:"name" validate:"required,max=20"`
	Color string `gorm:"size:7;not null;uniqueIndex" json:"color" validate:"required,hexcolor,len=7"`
	Slug  string `gorm:"size:10;not null;uniqueIndex" json:"slug" validate:"required,max=10"`
}

type Recipe struct {
	ID          uuid.UUID            `gorm:"type:varchar(36);primarykey" json:"id"`
	AuthorID    uuid.UUID            `gorm:"type:varchar(36);not null;index" json:"author_id"`
	Author      User                 `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	Name        string               `gorm:"size:200;not null" json:"name"`
	Image       string               `gorm:"size:255;not null" json:"image"`
	Text        string               `gorm:"type:text;not null" json:"text"`
	CookingTime int                  `gorm:"not null;check:chk_recipes_cooking_time,cooking_time >= 1 AND cooking_time <= 2880" json:"cooking_time"`
	PubDate     time.Time            `gorm:"autoCreateTime;<-:create;index" json:"pub_date"`
	Tags        []Tag                `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE" json:"tags"`
	Ingredients []IngredientInRecipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"ingredients"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// BeforeSave enforces the cooking time range on every write.
func (r *Recipe) BeforeSave(tx *gorm.DB) error {
	if r.CookingTime < MinCookingTime || r.CookingTime > MaxCookingTime {
		return apperr.Validation("cooking_time", "Cooking time must be between 1 and 2880 minutes.")
	}
	return nil
}

// RecipeTag is the join row between recipes and tags.
type RecipeTag struct {
	RecipeID uuid.UUID `gorm:"type:varchar(36);primarykey"`
	TagID    uint      `gorm:"primarykey"`
}

func (RecipeTag) TableName() string {
	return "recipe_tags"
}

// IngredientInRecipe is one ingredient line of a recipe.
type IngredientInRecipe struct {
	ID           uint       `gorm:"primarykey" json:"id"`
	RecipeID     uuid.UUID  `gorm:"type:varchar(36);not null;uniqueIndex:idx_recipe_ingredient" json:"recipe_id"`
	IngredientID uint       `gorm:"not null;uniqueIndex:idx_recipe_ingredient" json:"ingredient_id"`
	Ingredient   Ingredient `gorm:"constraint:OnDelete:CASCADE" json:"ingredient"`
	Amount       int        `gorm:"not null;check:chk_ingredient_lines_amount,amount >= 1" json:"amount"`
}

func (IngredientInRecipe) TableName() string {
	return "ingredient_lines"
}

func (l *IngredientInRecipe) BeforeSave(tx *gorm.DB) error {
	if l.Amount < MinAmount {
		return apperr.Validation("ingredients", "Amount must be at least 1.")
	}
	if l.Amount > MaxAmount {
		return apperr.Validation("ingredients", "Amount is out of range.")
	}
	return nil
}
