package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogService_Tags(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewCatalogService(db, testhelpers.Logger())
	ctx := context.Background()

	tag, err := svc.CreateTag(ctx, "Breakfast", "#e26c2d", "breakfast")
	require.NoError(t, err)
	assert.Equal(t, "#E26C2D", tag.Color)

	_, err = svc.CreateTag(ctx, "Breakfast", "#000000", "other")
	assert.ErrorIs(t, err, types.ErrAlreadyExists)

	_, err = svc.CreateTag(ctx, "Supper", "green", "supper")
	assert.ErrorIs(t, err, types.ErrInvalidField)

	_, err = svc.CreateTag(ctx, "Supper", "#111111", "not a slug")
	assert.ErrorIs(t, err, types.ErrInvalidField)

	got, err := svc.GetTag(ctx, tag.ID)
	require.NoError(t, err)
	assert.Equal(t, "breakfast", got.Slug)

	_, err = svc.GetTag(ctx, uuid.New())
	assert.ErrorIs(t, err, types.ErrResourceNotFound)

	tags, err := svc.ListTags(ctx)
	require.NoError(t, err)
	assert.Len(t, tags, 1)
}

func TestCatalogService_Ingredients(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewCatalogService(db, testhelpers.Logger())
	ctx := context.Background()

	for _, in := range [][2]string{{"Sugar", "g"}, {"salt", "g"}, {"salt", "pinch"}, {"100%_juice", "ml"}} {
		_, err := svc.CreateIngredient(ctx, in[0], in[1])
		require.NoError(t, err)
	}

	_, err := svc.CreateIngredient(ctx, "salt", "g")
	assert.ErrorIs(t, err, types.ErrAlreadyExists)

	tests := []struct {
		prefix string
		want   int
	}{
		{"", 4},
		{"s", 3},
		{"SA", 2},
		{"sug", 1},
		{"alt", 0},
		{"100%", 1},
		{"%", 0},
		{"_", 0},
	}
	for _, tt := range tests {
		t.Run("prefix "+tt.prefix, func(t *testing.T) {
			got, err := svc.ListIngredients(ctx, tt.prefix)
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}

	salts, err := svc.ListIngredients(ctx, "salt")
	require.NoError(t, err)
	require.Len(t, salts, 2)
	assert.Equal(t, "g", salts[0].MeasurementUnit)
	assert.Equal(t, "pinch", salts[1].MeasurementUnit)

	_, err = svc.GetIngredient(ctx, uuid.New())
	assert.ErrorIs(t, err, types.ErrResourceNotFound)
}

func TestCatalogService_ImportIngredients(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewCatalogService(db, testhelpers.Logger())
	ctx := context.Background()

	_, err := svc.CreateIngredient(ctx, "salt", "g")
	require.NoError(t, err)

	csvData := "flour,g\nsalt,g\n\"milk, whole\",ml\nsalt,pinch\n"
	result, err := svc.ImportIngredients(ctx, strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, service.ImportResult{Created: 3, Skipped: 1}, result)

	all, err := svc.ListIngredients(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	milk, err := svc.ListIngredients(ctx, "milk")
	require.NoError(t, err)
	require.Len(t, milk, 1)
	assert.Equal(t, "milk, whole", milk[0].Name)

	_, err = svc.ImportIngredients(ctx, strings.NewReader("sugar\n"))
	assert.ErrorContains(t, err, "line 1")

	_, err = svc.ImportIngredients(ctx, strings.NewReader("butter,\n"))
	assert.ErrorIs(t, err, types.ErrInvalidField)
}
