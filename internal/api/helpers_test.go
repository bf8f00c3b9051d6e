package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

const testJWTSecret = "api-test-secret-with-at-least-32-bytes"

// memoryImageStore keeps uploads in memory.
type memoryImageStore struct {
	mu     sync.Mutex
	images [][]byte
}

func (m *memoryImageStore) Save(_ context.Context, data []byte, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.images = append(m.images, data)
	return "https://images.test/recipes/" + time.Now().Format("150405.000000000"), nil
}

func (m *memoryImageStore) Delete(context.Context, string) error {
	return nil
}

// testAPI is a router wired to real services over an in-memory database.
type testAPI struct {
	router *gin.Engine
	db     *gorm.DB
	auth   *service.AuthService
}

func setupTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDB(t)
	log := logger.Nop()
	auth := service.NewAuthService(db, testJWTSecret, time.Hour, log)

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Recovery(log))
	RegisterRoutes(router, Services{
		Auth:         auth,
		Users:        service.NewUserService(db, log),
		Catalog:      service.NewCatalogService(db, log),
		Recipes:      service.NewRecipeService(db, &memoryImageStore{}, log),
		Favorites:    service.NewFavoriteService(db, log),
		ShoppingCart: service.NewShoppingCartService(db, log),
		ShoppingList: service.NewShoppingListService(db, log),
		HealthChecks: map[string]HealthChecker{
			"database": func(ctx context.Context) error { return nil },
		},
	}, log)

	return &testAPI{router: router, db: db, auth: auth}
}

// userWithToken creates a user and signs a token for them.
func (a *testAPI) userWithToken(t *testing.T, username string) (*models.User, string) {
	t.Helper()
	user := testhelpers.CreateUser(t, a.db, username)
	token, err := a.auth.GenerateToken(user)
	require.NoError(t, err)
	return user, token
}

// do sends a request; body is JSON-encoded unless nil.
func (a *testAPI) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(testhelpers.JSONMarshal(t, body))
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}

func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), v), "body: %s", rr.Body.String())
}

func requireStatus(t *testing.T, rr *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, rr.Code, "body: %s", rr.Body.String())
}
