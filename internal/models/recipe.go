package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Cooking time bounds in minutes and ingredient amount bounds.
const (
	MinCookingTime = 1
	MaxCookingTime = 600
	MinAmount      = 1
	MaxAmount      = 32767
)

type Recipe struct {
	ID          uuid.UUID            `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt   time.Time            `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
	AuthorID    uuid.UUID            `gorm:"type:varchar(36);not null;index" json:"author_id"`
	Author      *User                `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Name        string               `gorm:"size:200;not null" json:"name"`
	Text        string               `gorm:"type:text;not null" json:"text"`
	Image       string               `gorm:"size:512" json:"image"`
	CookingTime int                  `gorm:"not null;check:chk_recipe_cooking_time,cooking_time >= 1 AND cooking_time <= 600" json:"cooking_time"`
	RecipeTags  []RecipeTag          `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
	Ingredients []IngredientInRecipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TagList returns the preloaded tags in link order.
func (r *Recipe) TagList() []Tag {
	tags := make([]Tag, 0, len(r.RecipeTags))
	for _, rt := range r.RecipeTags {
		tags = append(tags, rt.Tag)
	}
	return tags
}

type RecipeTag struct {
	RecipeID uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"recipe_id"`
	TagID    uuid.UUID `gorm:"type:varchar(36);primaryKey;index" json:"tag_id"`
	Tag      Tag       `gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE" json:"-"`
}

// IngredientInRecipe binds an ingredient and its amount to a recipe.
type IngredientInRecipe struct {
	ID           uuid.UUID  `gorm:"type:varchar(36);primarykey" json:"id"`
	RecipeID     uuid.UUID  `gorm:"type:varchar(36);not null;uniqueIndex:idx_recipe_ingredient" json:"recipe_id"`
	IngredientID uuid.UUID  `gorm:"type:varchar(36);not null;uniqueIndex:idx_recipe_ingredient;index" json:"ingredient_id"`
	Ingredient   Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE" json:"-"`
	Amount       int        `gorm:"not null;check:chk_recipe_ingredient_amount,amount BETWEEN 1 AND 32767" json:"amount"`
}

func (IngredientInRecipe) TableName() string {
	return "recipe_ingredients"
}

func (i *IngredientInRecipe) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
