package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

type RecipeHandler struct {
	recipeService   service.IRecipeService
	favorites       service.IMembershipService
	shoppingCart    service.IMembershipService
	shoppingList    service.IShoppingListService
	validator       middleware.TokenValidator
	creationLimiter *middleware.RateLimiter
	log             *logger.Logger
}

type RecipeHandlerDeps struct {
	Recipes         service.IRecipeService
	Favorites       service.IMembershipService
	ShoppingCart    service.IMembershipService
	ShoppingList    service.IShoppingListService
	Validator       middleware.TokenValidator
	CreationLimiter *middleware.RateLimiter
}

func NewRecipeHandler(deps RecipeHandlerDeps, log *logger.Logger) *RecipeHandler {
	return &RecipeHandler{
		recipeService:   deps.Recipes,
		favorites:       deps.Favorites,
		shoppingCart:    deps.ShoppingCart,
		shoppingList:    deps.ShoppingList,
		validator:       deps.Validator,
		creationLimiter: deps.CreationLimiter,
		log:             log.With("handler", "RecipeHandler"),
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	required := middleware.AuthMiddleware(h.validator)
	optional := middleware.OptionalAuth(h.validator)

	recipes := router.Group("/recipes")
	{
		recipes.GET("", optional, h.ListRecipes)
		recipes.POST("", required, h.creationLimiter.RateLimitMiddleware(), h.CreateRecipe)
		recipes.GET("/download_shopping_cart", required, h.DownloadShoppingCart)
		recipes.GET("/:id", optional, h.GetRecipe)
		recipes.PUT("/:id", required, h.UpdateRecipe)
		recipes.PATCH("/:id", required, h.UpdateRecipe)
		recipes.DELETE("/:id", required, h.DeleteRecipe)
		recipes.POST("/:id/favorite", required, h.addTo(h.favorites))
		recipes.DELETE("/:id/favorite", required, h.removeFrom(h.favorites))
		recipes.POST("/:id/shopping_cart", required, h.addTo(h.shoppingCart))
		recipes.DELETE("/:id/shopping_cart", required, h.removeFrom(h.shoppingCart))
	}
}

// ListRecipes supports ?author=<id>, repeated ?tags=<slug>, ?is_favorited=1
// and ?is_in_shopping_cart=1.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	var filter types.RecipeFilter

	if raw := c.Query("author"); raw != "" {
		authorID, err := uuid.Parse(raw)
		if err != nil {
			badRequest(c, "author", "author must be a user id")
			return
		}
		filter.AuthorID = &authorID
	}
	for _, slug := range c.QueryArray("tags") {
		if slug = strings.TrimSpace(slug); slug != "" {
			filter.TagSlugs = append(filter.TagSlugs, slug)
		}
	}
	filter.IsFavorited = queryFlag(c, "is_favorited")
	filter.IsInShoppingCart = queryFlag(c, "is_in_shopping_cart")

	recipes, err := h.recipeService.ListRecipes(c.Request.Context(), middleware.ViewerID(c), filter)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), middleware.ViewerID(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}
	var req types.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "", err.Error())
		return
	}

	recipe, err := h.recipeService.CreateRecipe(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

// UpdateRecipe serves PUT and PATCH; both take the full recipe payload.
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req types.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "", err.Error())
		return
	}

	recipe, err := h.recipeService.UpdateRecipe(c.Request.Context(), claims.Actor(), id, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.recipeService.DeleteRecipe(c.Request.Context(), claims.Actor(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) addTo(set service.IMembershipService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := currentClaims(c)
		if !ok {
			return
		}
		id, ok := pathID(c)
		if !ok {
			return
		}

		short, err := set.Add(c.Request.Context(), claims.UserID, id)
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		c.JSON(http.StatusCreated, short)
	}
}

func (h *RecipeHandler) removeFrom(set service.IMembershipService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := currentClaims(c)
		if !ok {
			return
		}
		id, ok := pathID(c)
		if !ok {
			return
		}

		if err := set.Remove(c.Request.Context(), claims.UserID, id); err != nil {
			respondError(c, h.log, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// DownloadShoppingCart returns the aggregated shopping list as a text file.
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	items, err := h.shoppingList.Aggregate(c.Request.Context(), claims.UserID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, service.ShoppingListFilename))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(service.RenderShoppingList(items)))
}

// queryFlag treats "1" and any strconv.ParseBool truth value as set.
func queryFlag(c *gin.Context, name string) bool {
	v, err := strconv.ParseBool(c.Query(name))
	return err == nil && v
}
