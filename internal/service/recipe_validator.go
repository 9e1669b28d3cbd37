package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/apperr"
	"github.com/pageza/foodgram/backend/internal/media"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
	"github.com/pageza/foodgram/backend/internal/validation"
)

// IngredientLine is a validated ingredient reference with its amount.
type IngredientLine struct {
	IngredientID uint
	Amount       int
}

// ValidatedRecipe is a recipe write request whose references all resolve.
// Image is nil when an update keeps the current image.
type ValidatedRecipe struct {
	Name        string
	Text        string
	Image       *media.Upload
	CookingTime int
	TagIDs      []uint
	Ingredients []IngredientLine
}

// RecipeValidator checks recipe write requests against the catalog.
type RecipeValidator struct {
	db *gorm.DB
}

func NewRecipeValidator(db *gorm.DB) *RecipeValidator {
	return &RecipeValidator{db: db}
}

// Validate checks every field of req and reports all failing fields at once,
// one message per field. requireImage is set for creation.
func (v *RecipeValidator) Validate(ctx context.Context, viewer types.Viewer, req *types.RecipeWriteRequest, requireImage bool) (*ValidatedRecipe, error) {
	if !viewer.Authenticated {
		return nil, apperr.Unauthorized("Authentication credentials were not provided.")
	}

	verr := apperr.NewValidation()
	validation.ValidateStruct(req, verr)

	out := &ValidatedRecipe{Name: req.Name, Text: req.Text}

	switch {
	case req.Image != "":
		upload, err := media.DecodeDataURI("image", req.Image)
		if err != nil {
			ae, ok := apperr.As(err)
			if !ok {
				return nil, err
			}
			for _, msg := range ae.Fields["image"] {
				verr.Add("image", msg)
			}
			break
		}
		out.Image = upload
	case requireImage:
		verr.Add("image", "This field is required.")
	}

	tagIDs, err := v.validateTags(ctx, req.Tags, verr)
	if err != nil {
		return nil, err
	}
	out.TagIDs = tagIDs

	lines, err := v.validateIngredients(ctx, req.Ingredients, verr)
	if err != nil {
		return nil, err
	}
	out.Ingredients = lines

	out.CookingTime = validateCookingTime(req.CookingTime, verr)

	if !verr.Empty() {
		return nil, verr
	}
	return out, nil
}

func (v *RecipeValidator) validateTags(ctx context.Context, ids []uint, verr *apperr.Error) ([]uint, error) {
	if len(ids) == 0 {
		verr.Add("tags", "Provide at least one tag.")
		return nil, nil
	}

	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			verr.Add("tags", "Tags must not repeat.")
			return nil, nil
		}
		seen[id] = struct{}{}
	}

	var found []uint
	if err := v.db.WithContext(ctx).Model(&models.Tag{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, fmt.Errorf("lookup tags: %w", err)
	}
	existing := make(map[uint]struct{}, len(found))
	for _, id := range found {
		existing[id] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := existing[id]; !ok {
			verr.Add("tags", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id))
			return nil, nil
		}
	}
	return ids, nil
}

// validateIngredients rejects an entry that repeats an earlier entry exactly
// (same ingredient and amount). The same ingredient with a different amount
// is left to the unique (recipe, ingredient) index.
func (v *RecipeValidator) validateIngredients(ctx context.Context, items []types.IngredientAmountInput, verr *apperr.Error) ([]IngredientLine, error) {
	if len(items) == 0 {
		verr.Add("ingredients", "Provide at least one ingredient.")
		return nil, nil
	}

	ids := make([]uint, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	var found []uint
	if err := v.db.WithContext(ctx).Model(&models.Ingredient{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, fmt.Errorf("lookup ingredients: %w", err)
	}
	existing := make(map[uint]struct{}, len(found))
	for _, id := range found {
		existing[id] = struct{}{}
	}

	lines := make([]IngredientLine, 0, len(items))
	seen := make(map[IngredientLine]struct{}, len(items))
	for _, item := range items {
		if _, ok := existing[item.ID]; !ok {
			verr.Add("ingredients", fmt.Sprintf("Ingredient %d does not exist.", item.ID))
			return nil, nil
		}
		if !item.Amount.IsSet() {
			verr.Add("ingredients", "Amount is required.")
			return nil, nil
		}
		amount, err := item.Amount.Int()
		if errors.Is(err, types.ErrOutOfRange) {
			verr.Add("ingredients", "Amount is out of range.")
			return nil, nil
		}
		if err != nil {
			verr.Add("ingredients", "Amount must be an integer.")
			return nil, nil
		}
		if amount < 0 {
			verr.Add("ingredients", "Amount must not be negative.")
			return nil, nil
		}
		line := IngredientLine{IngredientID: item.ID, Amount: amount}
		if _, dup := seen[line]; dup {
			verr.Add("ingredients", "Ingredients must not repeat.")
			return nil, nil
		}
		seen[line] = struct{}{}
		lines = append(lines, line)
	}
	return lines, nil
}

func validateCookingTime(raw types.LooseInt, verr *apperr.Error) int {
	if !raw.IsSet() {
		verr.Add("cooking_time", "This field is required.")
		return 0
	}
	minutes, err := raw.Int()
	if errors.Is(err, types.ErrOutOfRange) {
		verr.Add("cooking_time", "Cooking time must be between 1 and 2880 minutes.")
		return 0
	}
	if err != nil {
		verr.Add("cooking_time", "Cooking time must be an integer.")
		return 0
	}
	if minutes < models.MinCookingTime {
		verr.Add("cooking_time", "Cooking time must be at least 1 minute.")
		return 0
	}
	return minutes
}
