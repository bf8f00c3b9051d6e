package testhelpers

import (
	"testing"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabaseSetup(t *testing.T) {
	db := SetupTestDB(t)

	user := CreateUser(t, db, "cook")
	tag := CreateTag(t, db, "Dinner", "#00FF00", "dinner")
	flour := CreateIngredient(t, db, "flour", "g")

	recipe := &models.Recipe{
		AuthorID:    user.ID,
		Name:        "Bread",
		Text:        "Bake it.",
		Image:       "https://example.com/bread.png",
		CookingTime: 60,
		RecipeTags:  []models.RecipeTag{{TagID: tag.ID}},
		Ingredients: []models.IngredientInRecipe{{IngredientID: flour.ID, Amount: 500}},
	}
	require.NoError(t, db.Create(recipe).Error)
	assert.NotZero(t, recipe.ID)

	var loaded models.Recipe
	err := db.Preload("RecipeTags.Tag").Preload("Ingredients.Ingredient").First(&loaded, "id = ?", recipe.ID).Error
	require.NoError(t, err)
	require.Len(t, loaded.Ingredients, 1)
	assert.Equal(t, "flour", loaded.Ingredients[0].Ingredient.Name)
	assert.Equal(t, 500, loaded.Ingredients[0].Amount)
	require.Len(t, loaded.TagList(), 1)
	assert.Equal(t, "dinner", loaded.TagList()[0].Slug)
}

func TestDatabaseConstraints(t *testing.T) {
	db := SetupTestDB(t)
	user := CreateUser(t, db, "cook")

	t.Run("follow self is rejected", func(t *testing.T) {
		err := db.Omit("User", "Author").Create(&models.Follow{UserID: user.ID, AuthorID: user.ID}).Error
		assert.Error(t, err)
	})

	t.Run("duplicate ingredient is rejected", func(t *testing.T) {
		CreateIngredient(t, db, "salt", "g")
		err := db.Create(&models.Ingredient{Name: "salt", MeasurementUnit: "g"}).Error
		assert.Error(t, err)
	})

	t.Run("same ingredient with other unit is allowed", func(t *testing.T) {
		err := db.Create(&models.Ingredient{Name: "salt", MeasurementUnit: "pinch"}).Error
		assert.NoError(t, err)
	})
}
