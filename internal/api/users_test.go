package api

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/types"
)

func TestSubscriptions(t *testing.T) {
	a := setupTestAPI(t)
	_, readerToken := a.userWithToken(t, "reader")
	author, authorToken := a.userWithToken(t, "author")

	tag, ingredient := seedCatalog(t, a)
	for _, name := range []string{"Soup", "Salad"} {
		rr := a.do(t, http.MethodPost, "/api/v1/recipes", authorToken, recipeBody(name, tag, ingredient, 100))
		requireStatus(t, rr, http.StatusCreated)
	}

	subscribe := "/api/v1/users/" + author.ID.String() + "/subscribe"

	rr := a.do(t, http.MethodPost, subscribe+"?recipes_limit=1", readerToken, nil)
	requireStatus(t, rr, http.StatusCreated)
	var sub types.SubscriptionResponse
	decodeJSON(t, rr, &sub)
	assert.True(t, sub.IsSubscribed)
	assert.Len(t, sub.Recipes, 1)
	assert.Equal(t, int64(2), sub.RecipesCount)

	rr = a.do(t, http.MethodPost, subscribe, readerToken, nil)
	requireStatus(t, rr, http.StatusBadRequest)
	assert.Contains(t, rr.Body.String(), `"code":"already_exists"`)

	rr = a.do(t, http.MethodPost, subscribe, authorToken, nil)
	requireStatus(t, rr, http.StatusBadRequest)
	assert.Contains(t, rr.Body.String(), `"code":"invalid_target"`)

	rr = a.do(t, http.MethodPost, "/api/v1/users/"+uuid.NewString()+"/subscribe", readerToken, nil)
	requireStatus(t, rr, http.StatusNotFound)

	rr = a.do(t, http.MethodGet, "/api/v1/users/subscriptions?recipes_limit=-1", readerToken, nil)
	requireStatus(t, rr, http.StatusBadRequest)

	rr = a.do(t, http.MethodGet, "/api/v1/users/subscriptions", readerToken, nil)
	requireStatus(t, rr, http.StatusOK)
	var subs []types.SubscriptionResponse
	decodeJSON(t, rr, &subs)
	require.Len(t, subs, 1)
	assert.Len(t, subs[0].Recipes, 2)

	rr = a.do(t, http.MethodGet, "/api/v1/users/"+author.ID.String(), readerToken, nil)
	requireStatus(t, rr, http.StatusOK)
	var viewed types.UserResponse
	decodeJSON(t, rr, &viewed)
	assert.True(t, viewed.IsSubscribed)

	rr = a.do(t, http.MethodDelete, subscribe, readerToken, nil)
	requireStatus(t, rr, http.StatusNoContent)

	rr = a.do(t, http.MethodDelete, subscribe, readerToken, nil)
	requireStatus(t, rr, http.StatusBadRequest)
	assert.Contains(t, rr.Body.String(), `"code":"not_found"`)
}

func TestUsersReadAccess(t *testing.T) {
	a := setupTestAPI(t)
	user, _ := a.userWithToken(t, "cook")

	rr := a.do(t, http.MethodGet, "/api/v1/users", "", nil)
	requireStatus(t, rr, http.StatusOK)
	var users []types.UserResponse
	decodeJSON(t, rr, &users)
	require.Len(t, users, 1)
	assert.False(t, users[0].IsSubscribed)

	rr = a.do(t, http.MethodGet, "/api/v1/users/"+user.ID.String(), "", nil)
	requireStatus(t, rr, http.StatusOK)

	rr = a.do(t, http.MethodGet, "/api/v1/users/not-a-uuid", "", nil)
	requireStatus(t, rr, http.StatusNotFound)

	rr = a.do(t, http.MethodGet, "/api/v1/users/me", "", nil)
	requireStatus(t, rr, http.StatusUnauthorized)

	rr = a.do(t, http.MethodGet, "/api/v1/users", "garbage", nil)
	requireStatus(t, rr, http.StatusUnauthorized)
}
