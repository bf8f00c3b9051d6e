package api

import (
	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
)

// Services are the dependencies of every handler.
type Services struct {
	Auth            service.IAuthService
	Users           service.IUserService
	Catalog         service.ICatalogService
	Recipes         service.IRecipeService
	Favorites       service.IMembershipService
	ShoppingCart    service.IMembershipService
	ShoppingList    service.IShoppingListService
	CreationLimiter *middleware.RateLimiter
	HealthChecks    map[string]HealthChecker
}

// RegisterRoutes mounts /health and the /api/v1 resources on router.
func RegisterRoutes(router *gin.Engine, svc Services, log *logger.Logger) {
	NewHealthHandler(svc.HealthChecks).RegisterRoutes(router)

	v1 := router.Group("/api/v1")
	NewAuthHandler(svc.Auth, log).RegisterRoutes(v1)
	NewUserHandler(svc.Auth, svc.Users, log).RegisterRoutes(v1)
	NewCatalogHandler(svc.Catalog, log).RegisterRoutes(v1)
	NewRecipeHandler(RecipeHandlerDeps{
		Recipes:         svc.Recipes,
		Favorites:       svc.Favorites,
		ShoppingCart:    svc.ShoppingCart,
		ShoppingList:    svc.ShoppingList,
		Validator:       svc.Auth,
		CreationLimiter: svc.CreationLimiter,
	}, log).RegisterRoutes(v1)
}
