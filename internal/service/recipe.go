package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
	"github.com/pageza/foodgram/backend/internal/validation"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecipeService handles recipe CRUD. Every write is validated before the
// transaction starts.
type RecipeService struct {
	db     *gorm.DB
	images ImageStore
	log    *logger.Logger
}

var _ IRecipeService = (*RecipeService)(nil)

func NewRecipeService(db *gorm.DB, images ImageStore, log *logger.Logger) *RecipeService {
	return &RecipeService{
		db:     db,
		images: images,
		log:    log.With("service", "RecipeService"),
	}
}

func (s *RecipeService) CreateRecipe(ctx context.Context, authorID uuid.UUID, req *types.RecipeRequest) (*types.RecipeResponse, error) {
	if err := s.validate(ctx, req); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Image) == "" {
		return nil, types.NewFieldError(types.ErrInvalidField, "image", "image is required")
	}
	image, err := s.storeImage(ctx, req.Image, "")
	if err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		AuthorID:    authorID,
		Name:        req.Name,
		Text:        req.Text,
		Image:       image,
		CookingTime: req.CookingTime,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&recipe).Error; err != nil {
			return fmt.Errorf("failed to create recipe: %w", err)
		}
		return replaceComponents(tx, recipe.ID, req)
	})
	if err != nil {
		s.discardImage(ctx, image, "")
		return nil, err
	}

	s.log.Info("recipe created", "recipe_id", recipe.ID.String(), "author_ref", authorID.String())
	return s.GetRecipe(ctx, &authorID, recipe.ID)
}

// UpdateRecipe replaces the recipe's fields, tags and ingredients. An empty
// image keeps the stored one.
func (s *RecipeService) UpdateRecipe(ctx context.Context, actor types.Actor, id uuid.UUID, req *types.RecipeRequest) (*types.RecipeResponse, error) {
	recipe, err := findRecipe(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanModify(recipe.AuthorID) {
		return nil, fmt.Errorf("update recipe %s: %w", id, types.ErrForbidden)
	}
	if err := s.validate(ctx, req); err != nil {
		return nil, err
	}
	image, err := s.storeImage(ctx, req.Image, recipe.Image)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(recipe).
			Select("name", "text", "image", "cooking_time").
			Updates(models.Recipe{
				Name:        req.Name,
				Text:        req.Text,
				Image:       image,
				CookingTime: req.CookingTime,
			}).Error; err != nil {
			return fmt.Errorf("failed to update recipe: %w", err)
		}
		return replaceComponents(tx, recipe.ID, req)
	})
	if err != nil {
		s.discardImage(ctx, image, recipe.Image)
		return nil, err
	}

	s.log.Info("recipe updated", "recipe_id", id.String())
	return s.GetRecipe(ctx, &actor.ID, id)
}

// DeleteRecipe removes the recipe and every row that references it.
func (s *RecipeService) DeleteRecipe(ctx context.Context, actor types.Actor, id uuid.UUID) error {
	recipe, err := findRecipe(ctx, s.db, id)
	if err != nil {
		return err
	}
	if !actor.CanModify(recipe.AuthorID) {
		return fmt.Errorf("delete recipe %s: %w", id, types.ErrForbidden)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{models.FavoritesTable, models.ShoppingListTable} {
			if err := tx.Table(table).Where("recipe_id = ?", id).Delete(&models.RecipeMembership{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.IngredientInRecipe{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Recipe{}, "id = ?", id).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}

	s.log.Info("recipe deleted", "recipe_id", id.String())
	return nil
}

func (s *RecipeService) GetRecipe(ctx context.Context, viewerID *uuid.UUID, id uuid.UUID) (*types.RecipeResponse, error) {
	var recipes []models.Recipe
	if err := s.withDetails(ctx).Where("recipes.id = ?", id).Limit(1).Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}
	if len(recipes) == 0 {
		return nil, fmt.Errorf("recipe %s: %w", id, types.ErrResourceNotFound)
	}

	views, err := s.toResponses(ctx, viewerID, recipes)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// ListRecipes returns recipes newest first. The favorite and shopping cart
// filters only apply for an authenticated viewer.
func (s *RecipeService) ListRecipes(ctx context.Context, viewerID *uuid.UUID, filter types.RecipeFilter) ([]types.RecipeResponse, error) {
	query := s.withDetails(ctx)

	if filter.AuthorID != nil {
		query = query.Where("recipes.author_id = ?", *filter.AuthorID)
	}
	if len(filter.TagSlugs) > 0 {
		tagged := s.db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs)
		query = query.Where("recipes.id IN (?)", tagged)
	}
	if viewerID != nil && filter.IsFavorited {
		query = query.Where("recipes.id IN (?)",
			s.db.Table(models.FavoritesTable).Select("recipe_id").Where("user_id = ?", *viewerID))
	}
	if viewerID != nil && filter.IsInShoppingCart {
		query = query.Where("recipes.id IN (?)",
			s.db.Table(models.ShoppingListTable).Select("recipe_id").Where("user_id = ?", *viewerID))
	}

	var recipes []models.Recipe
	if err := query.Order("recipes.created_at DESC").Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return s.toResponses(ctx, viewerID, recipes)
}

func (s *RecipeService) withDetails(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Preload("Author").
		Preload("RecipeTags.Tag").
		Preload("Ingredients.Ingredient")
}

// validate loads the referenced tag and ingredient ids that exist and runs
// the pure recipe rules against them.
func (s *RecipeService) validate(ctx context.Context, req *types.RecipeRequest) error {
	db := s.db.WithContext(ctx)

	var tagIDs []uuid.UUID
	if len(req.Tags) > 0 {
		if err := db.Model(&models.Tag{}).Where("id IN ?", req.Tags).Pluck("id", &tagIDs).Error; err != nil {
			return fmt.Errorf("failed to load tags: %w", err)
		}
	}

	ingredientIDs := make([]uuid.UUID, 0, len(req.Ingredients))
	for _, item := range req.Ingredients {
		ingredientIDs = append(ingredientIDs, item.ID)
	}
	var knownIngredients []uuid.UUID
	if len(ingredientIDs) > 0 {
		if err := db.Model(&models.Ingredient{}).Where("id IN ?", ingredientIDs).Pluck("id", &knownIngredients).Error; err != nil {
			return fmt.Errorf("failed to load ingredients: %w", err)
		}
	}

	return validation.ValidateRecipe(req, validation.NewIDSet(tagIDs...), validation.NewIDSet(knownIngredients...))
}

// storeImage uploads a data URI image. An empty value or the current
// reference keeps current.
func (s *RecipeService) storeImage(ctx context.Context, raw, current string) (string, error) {
	if raw == "" || (current != "" && raw == current) {
		return current, nil
	}
	if s.images == nil {
		return "", errors.New("image storage is not configured")
	}

	data, contentType, err := DecodeDataURI(raw)
	if err != nil {
		return "", err
	}
	ref, err := s.images.Save(ctx, data, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	return ref, nil
}

// discardImage removes an upload whose recipe write was rolled back. The
// stored reference is never touched.
func (s *RecipeService) discardImage(ctx context.Context, ref, current string) {
	if ref == "" || ref == current || s.images == nil {
		return
	}
	if err := s.images.Delete(context.WithoutCancel(ctx), ref); err != nil {
		s.log.Warn("orphaned recipe image", "image", ref, "error", err)
	}
}

// replaceComponents rewrites the tag links and ingredient rows of a recipe.
func replaceComponents(tx *gorm.DB, recipeID uuid.UUID, req *types.RecipeRequest) error {
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeTag{}).Error; err != nil {
		return fmt.Errorf("failed to clear recipe tags: %w", err)
	}
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.IngredientInRecipe{}).Error; err != nil {
		return fmt.Errorf("failed to clear recipe ingredients: %w", err)
	}

	links := make([]models.RecipeTag, len(req.Tags))
	for i, tagID := range req.Tags {
		links[i] = models.RecipeTag{RecipeID: recipeID, TagID: tagID}
	}
	if err := tx.Omit(clause.Associations).Create(&links).Error; err != nil {
		return fmt.Errorf("failed to link tags: %w", err)
	}

	rows := make([]models.IngredientInRecipe, len(req.Ingredients))
	for i, item := range req.Ingredients {
		rows[i] = models.IngredientInRecipe{RecipeID: recipeID, IngredientID: item.ID, Amount: item.Amount}
	}
	if err := tx.Omit(clause.Associations).Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to add ingredients: %w", err)
	}
	return nil
}

// toResponses attaches the viewer-specific flags with one query per flag.
func (s *RecipeService) toResponses(ctx context.Context, viewerID *uuid.UUID, recipes []models.Recipe) ([]types.RecipeResponse, error) {
	recipeIDs := make([]uuid.UUID, len(recipes))
	authorIDs := make([]uuid.UUID, len(recipes))
	for i, r := range recipes {
		recipeIDs[i] = r.ID
		authorIDs[i] = r.AuthorID
	}

	favorites, err := memberRecipes(ctx, s.db, models.FavoritesTable, viewerID, recipeIDs)
	if err != nil {
		return nil, err
	}
	cart, err := memberRecipes(ctx, s.db, models.ShoppingListTable, viewerID, recipeIDs)
	if err != nil {
		return nil, err
	}
	followed, err := followedAuthors(ctx, s.db, viewerID, authorIDs)
	if err != nil {
		return nil, err
	}

	result := make([]types.RecipeResponse, len(recipes))
	for i := range recipes {
		r := &recipes[i]

		tags := r.TagList()
		sort.Slice(tags, func(a, b int) bool { return tags[a].Name < tags[b].Name })
		tagViews := make([]types.TagResponse, len(tags))
		for j, t := range tags {
			tagViews[j] = types.TagResponse{ID: t.ID, Name: t.Name, Color: t.Color, Slug: t.Slug}
		}

		ingredients := make([]types.RecipeIngredientResponse, len(r.Ingredients))
		for j, item := range r.Ingredients {
			ingredients[j] = types.RecipeIngredientResponse{
				ID:              item.IngredientID,
				Name:            item.Ingredient.Name,
				MeasurementUnit: item.Ingredient.MeasurementUnit,
				Amount:          item.Amount,
			}
		}
		sort.Slice(ingredients, func(a, b int) bool { return ingredients[a].Name < ingredients[b].Name })

		var author types.UserResponse
		if r.Author != nil {
			author = toUserResponse(r.Author, followed.Has(r.AuthorID))
		}

		result[i] = types.RecipeResponse{
			ID:               r.ID,
			Tags:             tagViews,
			Author:           author,
			Ingredients:      ingredients,
			IsFavorited:      favorites.Has(r.ID),
			IsInShoppingCart: cart.Has(r.ID),
			Name:             r.Name,
			Image:            r.Image,
			Text:             r.Text,
			CookingTime:      r.CookingTime,
		}
	}
	return result, nil
}

func findRecipe(ctx context.Context, db *gorm.DB, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("recipe %s: %w", id, types.ErrResourceNotFound)
		}
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}
	return &recipe, nil
}
