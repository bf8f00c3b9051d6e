package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
	"github.com/pageza/foodgram/backend/internal/validation"
	"gorm.io/gorm"
)

// MembershipService keeps a set of (user, recipe) pairs in one table.
// Favorites and the shopping list are both instances of it.
type MembershipService struct {
	db    *gorm.DB
	table string
	log   *logger.Logger
}

var _ IMembershipService = (*MembershipService)(nil)

func NewMembershipService(db *gorm.DB, table string, log *logger.Logger) *MembershipService {
	return &MembershipService{
		db:    db,
		table: table,
		log:   log.With("service", "MembershipService", "table", table),
	}
}

func NewFavoriteService(db *gorm.DB, log *logger.Logger) *MembershipService {
	return NewMembershipService(db, models.FavoritesTable, log)
}

func NewShoppingCartService(db *gorm.DB, log *logger.Logger) *MembershipService {
	return NewMembershipService(db, models.ShoppingListTable, log)
}

// Add inserts the pair. A present pair is rejected rather than upserted.
func (s *MembershipService) Add(ctx context.Context, userID, recipeID uuid.UUID) (*types.RecipeShortResponse, error) {
	recipe, err := findRecipe(ctx, s.db, recipeID)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	var count int64
	if err := db.Table(s.table).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check %s: %w", s.table, err)
	}
	if count > 0 {
		return nil, s.alreadyExists()
	}

	entry := models.RecipeMembership{UserID: userID, RecipeID: recipeID}
	if err := db.Table(s.table).Create(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, s.alreadyExists()
		}
		return nil, fmt.Errorf("failed to add to %s: %w", s.table, err)
	}

	s.log.Debug("membership added", "recipe_id", recipeID.String())
	short := toRecipeShort(recipe)
	return &short, nil
}

// Remove deletes the pair, failing with ErrNotFound when it is absent.
func (s *MembershipService) Remove(ctx context.Context, userID, recipeID uuid.UUID) error {
	if _, err := findRecipe(ctx, s.db, recipeID); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).Table(s.table).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.RecipeMembership{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove from %s: %w", s.table, result.Error)
	}
	if result.RowsAffected == 0 {
		return types.NewFieldError(types.ErrNotFound, "recipe", "recipe is not in %s", s.label())
	}

	s.log.Debug("membership removed", "recipe_id", recipeID.String())
	return nil
}

func (s *MembershipService) alreadyExists() error {
	return types.NewFieldError(types.ErrAlreadyExists, "recipe", "recipe is already in %s", s.label())
}

func (s *MembershipService) label() string {
	switch s.table {
	case models.FavoritesTable:
		return "favorites"
	case models.ShoppingListTable:
		return "the shopping list"
	default:
		return s.table
	}
}

// memberRecipes returns which of recipeIDs the user holds in table.
func memberRecipes(ctx context.Context, db *gorm.DB, table string, userID *uuid.UUID, recipeIDs []uuid.UUID) (validation.IDSet, error) {
	if userID == nil || len(recipeIDs) == 0 {
		return validation.IDSet{}, nil
	}
	var ids []uuid.UUID
	if err := db.WithContext(ctx).Table(table).
		Where("user_id = ? AND recipe_id IN ?", *userID, recipeIDs).
		Pluck("recipe_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", table, err)
	}
	return validation.NewIDSet(ids...), nil
}

// followedAuthors returns which of authorIDs the viewer follows.
func followedAuthors(ctx context.Context, db *gorm.DB, viewerID *uuid.UUID, authorIDs []uuid.UUID) (validation.IDSet, error) {
	if viewerID == nil || len(authorIDs) == 0 {
		return validation.IDSet{}, nil
	}
	var ids []uuid.UUID
	if err := db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_id = ? AND author_id IN ?", *viewerID, authorIDs).
		Pluck("author_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to load follows: %w", err)
	}
	return validation.NewIDSet(ids...), nil
}
