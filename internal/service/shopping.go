package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
	"gorm.io/gorm"
)

const (
	ShoppingListHeader   = "Shopping list:"
	ShoppingListFilename = "shopping_cart.txt"
)

// ShoppingListService aggregates the ingredients of the recipes in a
// user's shopping list.
type ShoppingListService struct {
	db  *gorm.DB
	log *logger.Logger
}

var _ IShoppingListService = (*ShoppingListService)(nil)

func NewShoppingListService(db *gorm.DB, log *logger.Logger) *ShoppingListService {
	return &ShoppingListService{
		db:  db,
		log: log.With("service", "ShoppingListService"),
	}
}

// Aggregate flattens every (ingredient, amount) row of the user's shopping
// list recipes and sums them per ingredient name and unit.
func (s *ShoppingListService) Aggregate(ctx context.Context, userID uuid.UUID) ([]types.ShoppingItem, error) {
	var rows []types.ShoppingItem
	err := s.db.WithContext(ctx).
		Table(models.IngredientInRecipe{}.TableName()+" AS ri").
		Select("i.name AS name, i.measurement_unit AS measurement_unit, ri.amount AS amount").
		Joins("JOIN ingredients AS i ON i.id = ri.ingredient_id").
		Joins(fmt.Sprintf("JOIN %s AS sl ON sl.recipe_id = ri.recipe_id", models.ShoppingListTable)).
		Where("sl.user_id = ?", userID).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load shopping list: %w", err)
	}

	items := AggregateIngredients(rows)
	s.log.Debug("shopping list aggregated", "rows", len(rows), "items", len(items))
	return items, nil
}

// AggregateIngredients groups rows by (name, unit), sums their amounts and
// orders the result by name then unit. It returns an empty, non-nil slice
// for no rows.
func AggregateIngredients(rows []types.ShoppingItem) []types.ShoppingItem {
	type key struct{ name, unit string }

	totals := make(map[key]int, len(rows))
	for _, row := range rows {
		totals[key{row.Name, row.MeasurementUnit}] += row.Amount
	}

	items := make([]types.ShoppingItem, 0, len(totals))
	for k, amount := range totals {
		items = append(items, types.ShoppingItem{Name: k.name, MeasurementUnit: k.unit, Amount: amount})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].MeasurementUnit < items[j].MeasurementUnit
	})
	return items
}

// RenderShoppingList produces the downloadable text: a header line followed
// by one "<name> - <amount>, <unit>" line per item.
func RenderShoppingList(items []types.ShoppingItem) string {
	var b strings.Builder
	b.WriteString(ShoppingListHeader)
	b.WriteByte('\n')
	for _, item := range items {
		fmt.Fprintf(&b, "%s - %d, %s\n", item.Name, item.Amount, item.MeasurementUnit)
	}
	return b.String()
}
