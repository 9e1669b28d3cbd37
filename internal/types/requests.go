package types

// IngredientAmountInput is one ingredient line of a recipe write request.
type IngredientAmountInput struct {
	ID     uint     `json:"id"`
	Amount LooseInt `json:"amount"`
}

// RecipeWriteRequest is the body of recipe create and update requests.
// Image is a base64 data URI; on update an empty image keeps the current one.
type RecipeWriteRequest struct {
	Name        string                  `json:"name" validate:"required,max=200"`
	Text        string                  `json:"text" validate:"required"`
	Image       string                  `json:"image"`
	CookingTime LooseInt                `json:"cooking_time"`
	Tags        []uint                  `json:"tags"`
	Ingredients []IngredientAmountInput `json:"ingredients"`
}

// RegisterRequest is the body of user registration.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Username  string `json:"username" validate:"required,max=150,username"`
	FirstName string `json:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name" validate:"required,max=150"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest is the body of token login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SetPasswordRequest changes the current user's password.
type SetPasswordRequest struct {
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
	CurrentPassword string `json:"current_password" validate:"required"`
}

// Pagination bounds. MaxPage keeps (Page-1)*MaxPageSize well inside int32.
const (
	MaxPage     = 1_000_000
	MaxPageSize = 100
)

// PageQuery selects one page of a listing. Zero values mean "use defaults".
type PageQuery struct {
	Page  int
	Limit int
}

// Normalize fills in defaults and clamps out-of-range values.
func (p PageQuery) Normalize(defaultLimit int) PageQuery {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.Limit < 1 {
		p.Limit = defaultLimit
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	return p
}

// Offset is the number of rows skipped before this page.
func (p PageQuery) Offset() int {
	return (p.Page - 1) * p.Limit
}

// RecipeFilter narrows recipe listings.
type RecipeFilter struct {
	AuthorID         string
	TagSlugs         []string
	IsFavorited      bool
	IsInShoppingCart bool
}
