package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	FavoritesTable    = "favorites"
	ShoppingListTable = "shopping_list_entries"
)

// RecipeMembership is a (user, recipe) pair; the row existing is the membership.
type RecipeMembership struct {
	UserID    uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:varchar(36);primaryKey;index" json:"recipe_id"`
	CreatedAt time.Time `json:"created_at"`
}

type FavoriteEntry struct {
	RecipeMembership
	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Recipe *Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
}

func (FavoriteEntry) TableName() string {
	return FavoritesTable
}

type ShoppingListEntry struct {
	RecipeMembership
	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Recipe *Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ShoppingListEntry) TableName() string {
	return ShoppingListTable
}

// All lists every persisted model in dependency order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Follow{},
		&Tag{},
		&Ingredient{},
		&Recipe{},
		&RecipeTag{},
		&IngredientInRecipe{},
		&FavoriteEntry{},
		&ShoppingListEntry{},
	}
}
