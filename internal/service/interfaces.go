package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/types"
)

// IAuthService defines the interface for token authentication
type IAuthService interface {
	Login(ctx context.Context, req *types.LoginRequest) (*types.TokenResponse, error)
	Logout(ctx context.Context, claims *types.TokenClaims) error
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
}

// IUserService defines the interface for user operations
type IUserService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*types.UserRead, error)
	List(ctx context.Context, viewer types.Viewer, page types.PageQuery) ([]types.UserRead, int64, error)
	Get(ctx context.Context, viewer types.Viewer, id uuid.UUID) (*types.UserRead, error)
	Me(ctx context.Context, viewer types.Viewer) (*types.UserRead, error)
	SetPassword(ctx context.Context, viewer types.Viewer, req *types.SetPasswordRequest) error
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	Create(ctx context.Context, viewer types.Viewer, req *types.RecipeWriteRequest) (*types.RecipeRead, error)
	Update(ctx context.Context, viewer types.Viewer, id uuid.UUID, req *types.RecipeWriteRequest) (*types.RecipeRead, error)
	Delete(ctx context.Context, viewer types.Viewer, id uuid.UUID) error
	Get(ctx context.Context, viewer types.Viewer, id uuid.UUID) (*types.RecipeRead, error)
	List(ctx context.Context, viewer types.Viewer, filter types.RecipeFilter, page types.PageQuery) ([]types.RecipeRead, int64, error)
	ShoppingList(ctx context.Context, viewer types.Viewer) ([]types.ShoppingListItem, error)
}

// IRelationService defines the interface for toggling a user-recipe relation
type IRelationService interface {
	Add(ctx context.Context, viewer types.Viewer, recipeID uuid.UUID) (*types.RecipeShort, error)
	Remove(ctx context.Context, viewer types.Viewer, recipeID uuid.UUID) error
}

// ISubscriptionService defines the interface for following authors
type ISubscriptionService interface {
	Subscribe(ctx context.Context, viewer types.Viewer, authorID uuid.UUID, recipesLimit int) (*types.FollowRead, error)
	Unsubscribe(ctx context.Context, viewer types.Viewer, authorID uuid.UUID) error
	List(ctx context.Context, viewer types.Viewer, page types.PageQuery, recipesLimit int) ([]types.FollowRead, int64, error)
}

// ICatalogService defines the interface for reference data lookups
type ICatalogService interface {
	ListTags(ctx context.Context) ([]types.TagRead, error)
	GetTag(ctx context.Context, id uint) (*types.TagRead, error)
	ListIngredients(ctx context.Context, prefix string) ([]types.IngredientRead, error)
	GetIngredient(ctx context.Context, id uint) (*types.IngredientRead, error)
}

var (
	_ IAuthService         = (*AuthService)(nil)
	_ IUserService         = (*UserService)(nil)
	_ IRecipeService       = (*RecipeService)(nil)
	_ IRelationService     = (*RelationService)(nil)
	_ ISubscriptionService = (*SubscriptionService)(nil)
	_ ICatalogService      = (*CatalogService)(nil)
)
