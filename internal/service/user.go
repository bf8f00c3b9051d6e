package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
	"gorm.io/gorm"
)

// UserService handles user profiles and follows
type UserService struct {
	db  *gorm.DB
	log *logger.Logger
}

var _ IUserService = (*UserService)(nil)

func NewUserService(db *gorm.DB, log *logger.Logger) *UserService {
	return &UserService{
		db:  db,
		log: log.With("service", "UserService"),
	}
}

func (s *UserService) GetUser(ctx context.Context, viewerID *uuid.UUID, id uuid.UUID) (*types.UserResponse, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}
	followed, err := followedAuthors(ctx, s.db, viewerID, []uuid.UUID{user.ID})
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(user, followed.Has(user.ID))
	return &resp, nil
}

func (s *UserService) ListUsers(ctx context.Context, viewerID *uuid.UUID) ([]types.UserResponse, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("username").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	ids := make([]uuid.UUID, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	followed, err := followedAuthors(ctx, s.db, viewerID, ids)
	if err != nil {
		return nil, err
	}

	result := make([]types.UserResponse, len(users))
	for i := range users {
		result[i] = toUserResponse(&users[i], followed.Has(users[i].ID))
	}
	return result, nil
}

// Follow subscribes userID to authorID and returns the author with a
// preview of their recipes.
func (s *UserService) Follow(ctx context.Context, userID, authorID uuid.UUID, recipesLimit int) (*types.SubscriptionResponse, error) {
	if userID == authorID {
		return nil, types.NewFieldError(types.ErrInvalidTarget, "author", "you cannot follow yourself")
	}

	author, err := s.findUser(ctx, authorID)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	var count int64
	if err := db.Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check follow: %w", err)
	}
	if count > 0 {
		return nil, types.NewFieldError(types.ErrAlreadyExists, "author", "you already follow this author")
	}

	follow := models.Follow{UserID: userID, AuthorID: authorID}
	if err := db.Omit("User", "Author").Create(&follow).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, types.NewFieldError(types.ErrAlreadyExists, "author", "you already follow this author")
		}
		return nil, fmt.Errorf("failed to follow: %w", err)
	}

	subs, err := s.subscriptionViews(ctx, []models.User{*author}, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &subs[0], nil
}

func (s *UserService) Unfollow(ctx context.Context, userID, authorID uuid.UUID) error {
	if _, err := s.findUser(ctx, authorID); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Follow{})
	if result.Error != nil {
		return fmt.Errorf("failed to unfollow: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return types.NewFieldError(types.ErrNotFound, "author", "you do not follow this author")
	}
	return nil
}

// Subscriptions lists the authors userID follows, most recent follow first.
func (s *UserService) Subscriptions(ctx context.Context, userID uuid.UUID, recipesLimit int) ([]types.SubscriptionResponse, error) {
	var authors []models.User
	if err := s.db.WithContext(ctx).
		Select("users.*").
		Joins("JOIN follows ON follows.author_id = users.id").
		Where("follows.user_id = ?", userID).
		Order("follows.created_at DESC").
		Find(&authors).Error; err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return s.subscriptionViews(ctx, authors, recipesLimit)
}

// subscriptionViews loads every recipe of the given authors in one query.
// All of them are followed by the caller, so is_subscribed is always true.
func (s *UserService) subscriptionViews(ctx context.Context, authors []models.User, recipesLimit int) ([]types.SubscriptionResponse, error) {
	result := make([]types.SubscriptionResponse, 0, len(authors))
	if len(authors) == 0 {
		return result, nil
	}

	ids := make([]uuid.UUID, len(authors))
	for i, a := range authors {
		ids[i] = a.ID
	}

	var recipes []models.Recipe
	if err := s.db.WithContext(ctx).
		Where("author_id IN ?", ids).
		Order("created_at DESC").
		Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to load author recipes: %w", err)
	}

	byAuthor := make(map[uuid.UUID][]models.Recipe, len(authors))
	for _, r := range recipes {
		byAuthor[r.AuthorID] = append(byAuthor[r.AuthorID], r)
	}

	for i := range authors {
		own := byAuthor[authors[i].ID]
		preview := own
		if recipesLimit > 0 && len(preview) > recipesLimit {
			preview = preview[:recipesLimit]
		}
		shorts := make([]types.RecipeShortResponse, len(preview))
		for j := range preview {
			shorts[j] = toRecipeShort(&preview[j])
		}
		result = append(result, types.SubscriptionResponse{
			UserResponse: toUserResponse(&authors[i], true),
			Recipes:      shorts,
			RecipesCount: int64(len(own)),
		})
	}
	return result, nil
}

func (s *UserService) findUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", id, types.ErrResourceNotFound)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

func toUserResponse(u *models.User, subscribed bool) types.UserResponse {
	return types.UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
}

func toRecipeShort(r *models.Recipe) types.RecipeShortResponse {
	return types.RecipeShortResponse{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}
