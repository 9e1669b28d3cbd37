package service_test

import (
	"testing"

	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/media"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

type fixture struct {
	db        *gorm.DB
	catalog   testhelpers.Catalog
	mediaRoot string
	recipes   *service.RecipeService
	favorites *service.RelationService
	carts     *service.RelationService
	subs      *service.SubscriptionService
	author    *models.User
	reader    *models.User
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db := testhelpers.SetupTestDatabase(t)
	log := logger.NewNop()
	root := t.TempDir()

	return &fixture{
		db:        db,
		catalog:   testhelpers.SeedCatalog(t, db),
		mediaRoot: root,
		recipes:   service.NewRecipeService(db, media.NewDiskStore(root, "/media"), log),
		favorites: service.NewRelationService(db, service.RelationFavorite, log),
		carts:     service.NewRelationService(db, service.RelationShoppingCart, log),
		subs:      service.NewSubscriptionService(db, log),
		author:    testhelpers.CreateUser(t, db, "author"),
		reader:    testhelpers.CreateUser(t, db, "reader"),
	}
}

func (f *fixture) as(u *models.User) types.Viewer {
	return types.AuthenticatedViewer(u.ID)
}

func (f *fixture) ingredient(i int) uint {
	return f.catalog.Ingredients[i].ID
}

func (f *fixture) tag(i int) uint {
	return f.catalog.Tags[i].ID
}

func line(id uint, amount int) types.IngredientAmountInput {
	return types.IngredientAmountInput{ID: id, Amount: types.IntValue(amount)}
}

// validRequest builds a create request with the first tag and the given lines.
func (f *fixture) validRequest(lines ...types.IngredientAmountInput) *types.RecipeWriteRequest {
	if len(lines) == 0 {
		lines = []types.IngredientAmountInput{line(f.ingredient(0), 200)}
	}
	return &types.RecipeWriteRequest{
		Name:        "Pancakes",
		Text:        "Mix and fry.",
		Image:       testhelpers.PNGDataURI,
		CookingTime: types.IntValue(20),
		Tags:        []uint{f.tag(0)},
		Ingredients: lines,
	}
}

func (f *fixture) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	if err := f.db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}
