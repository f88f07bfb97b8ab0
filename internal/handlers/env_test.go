package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/monbijou/storefront/internal/cart"
	"github.com/monbijou/storefront/internal/config"
	"github.com/monbijou/storefront/internal/hash"
	"github.com/monbijou/storefront/internal/models"
	"github.com/monbijou/storefront/internal/service/orders"
	"github.com/monbijou/storefront/internal/service/token"
)

var (
	testJWTSecret     = []byte("test-jwt-secret")
	testRefreshSecret = []byte("test-refresh-secret")
)

type testEnv struct {
	T         *testing.T
	E         *echo.Echo
	DB        *gorm.DB
	CartStore cart.Store

	Auth     *AuthHandler
	Product  *ProductHandler
	Category *CategoryHandler
	Cart     *CartHandler
	Order    *OrderHandler
	Hire     *HireHandler
	Review   *ReviewHandler
	Wishlist *WishlistHandler
	Inquiry  *InquiryHandler
	Tokens   *token.TokenService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	store := cart.NewMemoryStore()
	svc := &orders.Service{DB: db}

	return &testEnv{
		T:         t,
		E:         echo.New(),
		DB:        db,
		CartStore: store,
		Auth:      &AuthHandler{DB: db, JWTSecret: testJWTSecret, RefreshSecret: testRefreshSecret},
		Product:   &ProductHandler{DB: db},
		Category:  &CategoryHandler{DB: db},
		Cart:      &CartHandler{DB: db, Store: store},
		Order:     &OrderHandler{Svc: svc, CartStore: store},
		Hire:      &HireHandler{Svc: svc},
		Review:    &ReviewHandler{DB: db},
		Wishlist:  &WishlistHandler{DB: db},
		Inquiry:   &InquiryHandler{DB: db},
		Tokens:    &token.TokenService{DB: db, JWTSecret: testJWTSecret, RefreshSecret: testRefreshSecret},
	}
}

func (env *testEnv) doJSONRequest(method, path string, body interface{}, cookies ...*http.Cookie) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func (env *testEnv) createUser(t *testing.T, email, role string) *models.User {
	t.Helper()
	passwordHash, err := hash.HashPassword("password")
	require.NoError(t, err)
	user := &models.User{
		Email:        email,
		Name:         "Test User",
		PasswordHash: passwordHash,
		Role:         role,
	}
	require.NoError(t, env.DB.Create(user).Error)
	return user
}

func (env *testEnv) createProduct(t *testing.T, p models.Product) *models.Product {
	t.Helper()
	if p.Name == "" {
		p.Name = "pearl tiara"
	}
	if p.Slug == "" {
		p.Slug = p.Name + "-slug"
	}
	if p.Description == "" {
		p.Description = "a test product"
	}
	p.IsActive = true
	require.NoError(t, env.DB.Create(&p).Error)
	return &p
}

func requireHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected *echo.HTTPError, got %v", err)
	require.Equal(t, code, he.Code)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}
