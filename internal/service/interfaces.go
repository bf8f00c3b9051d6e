package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context, claims *types.TokenClaims) error
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
	SetPassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error
}

// IUserService defines user profile and follow operations
type IUserService interface {
	GetUser(ctx context.Context, viewerID *uuid.UUID, id uuid.UUID) (*types.UserResponse, error)
	ListUsers(ctx context.Context, viewerID *uuid.UUID) ([]types.UserResponse, error)
	Follow(ctx context.Context, userID, authorID uuid.UUID, recipesLimit int) (*types.SubscriptionResponse, error)
	Unfollow(ctx context.Context, userID, authorID uuid.UUID) error
	Subscriptions(ctx context.Context, userID uuid.UUID, recipesLimit int) ([]types.SubscriptionResponse, error)
}

// ICatalogService defines read access to tags and ingredients
type ICatalogService interface {
	ListTags(ctx context.Context) ([]models.Tag, error)
	GetTag(ctx context.Context, id uuid.UUID) (*models.Tag, error)
	ListIngredients(ctx context.Context, namePrefix string) ([]models.Ingredient, error)
	GetIngredient(ctx context.Context, id uuid.UUID) (*models.Ingredient, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	CreateRecipe(ctx context.Context, authorID uuid.UUID, req *types.RecipeRequest) (*types.RecipeResponse, error)
	GetRecipe(ctx context.Context, viewerID *uuid.UUID, id uuid.UUID) (*types.RecipeResponse, error)
	UpdateRecipe(ctx context.Context, actor types.Actor, id uuid.UUID, req *types.RecipeRequest) (*types.RecipeResponse, error)
	DeleteRecipe(ctx context.Context, actor types.Actor, id uuid.UUID) error
	ListRecipes(ctx context.Context, viewerID *uuid.UUID, filter types.RecipeFilter) ([]types.RecipeResponse, error)
}

// IMembershipService toggles a (user, recipe) pair such as a favorite
type IMembershipService interface {
	Add(ctx context.Context, userID, recipeID uuid.UUID) (*types.RecipeShortResponse, error)
	Remove(ctx context.Context, userID, recipeID uuid.UUID) error
}

// IShoppingListService builds the aggregated shopping list
type IShoppingListService interface {
	Aggregate(ctx context.Context, userID uuid.UUID) ([]types.ShoppingItem, error)
}

// ImageStore persists recipe images and returns a reference to them
type ImageStore interface {
	Save(ctx context.Context, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, ref string) error
}
