package service_test

import (
	"testing"

	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateIngredients(t *testing.T) {
	rows := []types.ShoppingItem{
		{Name: "sugar", MeasurementUnit: "g", Amount: 10},
		{Name: "flour", MeasurementUnit: "g", Amount: 200},
		{Name: "flour", MeasurementUnit: "g", Amount: 300},
		{Name: "flour", MeasurementUnit: "cup", Amount: 1},
	}

	items := service.AggregateIngredients(rows)
	assert.Equal(t, []types.ShoppingItem{
		{Name: "flour", MeasurementUnit: "cup", Amount: 1},
		{Name: "flour", MeasurementUnit: "g", Amount: 500},
		{Name: "sugar", MeasurementUnit: "g", Amount: 10},
	}, items)

	empty := service.AggregateIngredients(nil)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestRenderShoppingList(t *testing.T) {
	assert.Equal(t, "Shopping list:\n", service.RenderShoppingList(nil))

	text := service.RenderShoppingList([]types.ShoppingItem{
		{Name: "flour", MeasurementUnit: "g", Amount: 500},
		{Name: "egg", MeasurementUnit: "pcs", Amount: 3},
	})
	assert.Equal(t, "Shopping list:\nflour - 500, g\negg - 3, pcs\n", text)
}

func TestShoppingListService_Aggregate(t *testing.T) {
	f := setupRecipeTest(t)
	cart := service.NewShoppingCartService(f.db, testhelpers.Logger())
	shopping := service.NewShoppingListService(f.db, testhelpers.Logger())

	bread, err := f.svc.CreateRecipe(f.context, f.author.ID, testhelpers.RecipeRequest("Bread", f.lunch.ID, f.flour.ID, 200))
	require.NoError(t, err)
	cakeReq := testhelpers.RecipeRequest("Cake", f.lunch.ID, f.flour.ID, 300)
	cakeReq.Ingredients = append(cakeReq.Ingredients, types.RecipeIngredientInput{ID: f.sugar.ID, Amount: 150})
	cake, err := f.svc.CreateRecipe(f.context, f.author.ID, cakeReq)
	require.NoError(t, err)

	items, err := shopping.Aggregate(f.context, f.other.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = cart.Add(f.context, f.other.ID, bread.ID)
	require.NoError(t, err)
	_, err = cart.Add(f.context, f.other.ID, cake.ID)
	require.NoError(t, err)

	items, err = shopping.Aggregate(f.context, f.other.ID)
	require.NoError(t, err)
	assert.Equal(t, []types.ShoppingItem{
		{Name: "flour", MeasurementUnit: "g", Amount: 500},
		{Name: "sugar", MeasurementUnit: "g", Amount: 150},
	}, items)

	// Another user's cart is unaffected.
	mine, err := shopping.Aggregate(f.context, f.author.ID)
	require.NoError(t, err)
	assert.Empty(t, mine)
}
