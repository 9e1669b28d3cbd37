package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/apperr"
)

// RecipeBookmark is the row shape shared by favorites and shopping cart
// entries: one row per (user, recipe) pair.
type RecipeBookmark struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;index:,unique,composite:user_recipe" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:varchar(36);not null;index:,unique,composite:user_recipe" json:"recipe_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Favorite struct {
	RecipeBookmark
	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Recipe Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Favorite) TableName() string {
	return "favorites"
}

type Cart struct {
	RecipeBookmark
	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Recipe Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Cart) TableName() string {
	return "shopping_carts"
}

// Subscription records that UserID follows AuthorID.
type Subscription struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_subscription_pair;check:chk_subscriptions_no_self,user_id <> author_id" json:"user_id"`
	AuthorID  uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_subscription_pair;index" json:"author_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.UserID == s.AuthorID {
		return apperr.Invalid(apperr.CodeSelfSubscription, "You cannot subscribe to yourself.")
	}
	return nil
}

// All lists every model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Ingredient{},
		&Tag{},
		&Recipe{},
		&RecipeTag{},
		&IngredientInRecipe{},
		&Favorite{},
		&Cart{},
		&Subscription{},
	}
}
