package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/foodgram/backend/internal/types"
)

// MockRecipeService is a mock implementation of the recipe service
type MockRecipeService struct {
	mock.Mock
}

func (m *MockRecipeService) Create(ctx context.Context, viewer types.Viewer, req *types.RecipeWriteRequest) (*types.RecipeRead, error) {
	args := m.Called(ctx, viewer, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipeRead), args.Error(1)
}

func (m *MockRecipeService) Update(ctx context.Context, viewer types.Viewer, id uuid.UUID, req *types.RecipeWriteRequest) (*types.RecipeRead, error) {
	args := m.Called(ctx, viewer, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipeRead), args.Error(1)
}

func (m *MockRecipeService) Delete(ctx context.Context, viewer types.Viewer, id uuid.UUID) error {
	args := m.Called(ctx, viewer, id)
	return args.Error(0)
}

func (m *MockRecipeService) Get(ctx context.Context, viewer types.Viewer, id uuid.UUID) (*types.RecipeRead, error) {
	args := m.Called(ctx, viewer, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipeRead), args.Error(1)
}

func (m *MockRecipeService) List(ctx context.Context, viewer types.Viewer, filter types.RecipeFilter, page types.PageQuery) ([]types.RecipeRead, int64, error) {
	args := m.Called(ctx, viewer, filter, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]types.RecipeRead), args.Get(1).(int64), args.Error(2)
}

func (m *MockRecipeService) ShoppingList(ctx context.Context, viewer types.Viewer) ([]types.ShoppingListItem, error) {
	args := m.Called(ctx, viewer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.ShoppingListItem), args.Error(1)
}

// MockRelationService is a mock implementation of a favorite or cart toggle
type MockRelationService struct {
	mock.Mock
}

func (m *MockRelationService) Add(ctx context.Context, viewer types.Viewer, recipeID uuid.UUID) (*types.RecipeShort, error) {
	args := m.Called(ctx, viewer, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipeShort), args.Error(1)
}

func (m *MockRelationService) Remove(ctx context.Context, viewer types.Viewer, recipeID uuid.UUID) error {
	args := m.Called(ctx, viewer, recipeID)
	return args.Error(0)
}
