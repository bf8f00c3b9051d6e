package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRecipe(tag, ingredient uuid.UUID) *types.RecipeRequest {
	return &types.RecipeRequest{
		Tags:        []uuid.UUID{tag},
		Ingredients: []types.RecipeIngredientInput{{ID: ingredient, Amount: 200}},
		Name:        "Pancakes",
		Text:        "Mix and fry.",
		CookingTime: 20,
	}
}

func TestValidateRecipeAccepts(t *testing.T) {
	tag, ingredient := uuid.New(), uuid.New()
	err := ValidateRecipe(validRecipe(tag, ingredient), NewIDSet(tag), NewIDSet(ingredient))
	assert.NoError(t, err)
}

func TestValidateRecipeCookingTimeBounds(t *testing.T) {
	tag, ingredient := uuid.New(), uuid.New()
	tests := []struct {
		minutes int
		valid   bool
	}{
		{0, false},
		{-5, false},
		{1, true},
		{600, true},
		{601, false},
	}
	for _, tt := range tests {
		req := validRecipe(tag, ingredient)
		req.CookingTime = tt.minutes
		err := ValidateRecipe(req, NewIDSet(tag), NewIDSet(ingredient))
		if tt.valid {
			assert.NoError(t, err, "minutes=%d", tt.minutes)
			continue
		}
		assert.ErrorIs(t, err, types.ErrInvalidDuration, "minutes=%d", tt.minutes)
	}
}

func TestValidateRecipeTagSet(t *testing.T) {
	tag, other, ingredient := uuid.New(), uuid.New(), uuid.New()
	known := NewIDSet(tag, other)

	tests := map[string][]uuid.UUID{
		"empty":     {},
		"unknown":   {uuid.New()},
		"duplicate": {tag, other, tag},
	}
	for name, tags := range tests {
		t.Run(name, func(t *testing.T) {
			req := validRecipe(tag, ingredient)
			req.Tags = tags
			err := ValidateRecipe(req, known, NewIDSet(ingredient))
			assert.ErrorIs(t, err, types.ErrInvalidTagSet)

			var fieldErr *types.FieldError
			require.True(t, errors.As(err, &fieldErr))
			assert.Equal(t, "tags", fieldErr.Field)
		})
	}
}

func TestValidateRecipeIngredientSet(t *testing.T) {
	tag, flour, milk := uuid.New(), uuid.New(), uuid.New()
	known := NewIDSet(flour, milk)

	tests := map[string][]types.RecipeIngredientInput{
		"empty":       {},
		"unknown":     {{ID: uuid.New(), Amount: 1}},
		"duplicate":   {{ID: flour, Amount: 1}, {ID: milk, Amount: 2}, {ID: flour, Amount: 3}},
		"zero amount": {{ID: flour, Amount: 0}},
		"huge amount": {{ID: flour, Amount: models.MaxAmount + 1}},
	}
	for name, items := range tests {
		t.Run(name, func(t *testing.T) {
			req := validRecipe(tag, flour)
			req.Ingredients = items
			err := ValidateRecipe(req, NewIDSet(tag), known)
			assert.ErrorIs(t, err, types.ErrInvalidIngredientSet)
		})
	}
}

func TestValidateRecipeRequiresNameAndText(t *testing.T) {
	tag, ingredient := uuid.New(), uuid.New()

	req := validRecipe(tag, ingredient)
	req.Name = "  "
	assert.ErrorIs(t, ValidateRecipe(req, NewIDSet(tag), NewIDSet(ingredient)), types.ErrInvalidField)

	req = validRecipe(tag, ingredient)
	req.Name = strings.Repeat("a", 201)
	assert.ErrorIs(t, ValidateRecipe(req, NewIDSet(tag), NewIDSet(ingredient)), types.ErrInvalidField)

	req = validRecipe(tag, ingredient)
	req.Text = ""
	assert.ErrorIs(t, ValidateRecipe(req, NewIDSet(tag), NewIDSet(ingredient)), types.ErrInvalidField)
}

func TestValidateUsername(t *testing.T) {
	valid := []string{"chef", "anna.b", "a+b@c-d_e", "повар"}
	for _, name := range valid {
		assert.NoError(t, ValidateUsername(name), name)
	}

	invalid := []string{"", "me", "ME", "has space", "semi;colon", strings.Repeat("x", 151)}
	for _, name := range invalid {
		assert.ErrorIs(t, ValidateUsername(name), types.ErrInvalidField, name)
	}
}

func TestValidateTag(t *testing.T) {
	assert.NoError(t, ValidateTag("Breakfast", "#E26C2D", "breakfast"))
	assert.ErrorIs(t, ValidateTag("Breakfast", "orange", "breakfast"), types.ErrInvalidField)
	assert.ErrorIs(t, ValidateTag("Breakfast", "#E26C2D", "bad slug"), types.ErrInvalidField)
	assert.ErrorIs(t, ValidateTag("", "#E26C2D", "breakfast"), types.ErrInvalidField)
}

func TestValidateIngredient(t *testing.T) {
	assert.NoError(t, ValidateIngredient("flour", "g"))
	assert.ErrorIs(t, ValidateIngredient("flour", ""), types.ErrInvalidField)
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("long-enough"))
	assert.ErrorIs(t, ValidatePassword("short"), types.ErrInvalidField)
	assert.NoError(t, ValidatePassword(strings.Repeat("a", MaxPasswordBytes)))
	assert.ErrorIs(t, ValidatePassword(strings.Repeat("a", MaxPasswordBytes+1)), types.ErrInvalidField)
	// 37 runes, 74 bytes
	assert.ErrorIs(t, ValidatePassword(strings.Repeat("ж", 37)), types.ErrInvalidField)
}
