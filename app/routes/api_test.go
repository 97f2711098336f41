package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/shashiranjanraj/bazaar/app/controllers"
	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/repositories"
	"github.com/shashiranjanraj/bazaar/app/services"
	"github.com/shashiranjanraj/bazaar/config"
	"github.com/shashiranjanraj/bazaar/pkg/auth"
	"github.com/shashiranjanraj/bazaar/pkg/event"
	"github.com/shashiranjanraj/bazaar/pkg/queue"
	"github.com/shashiranjanraj/bazaar/pkg/router"
	"github.com/shashiranjanraj/bazaar/pkg/storage"
	"github.com/shashiranjanraj/bazaar/pkg/testkit"
)

var apiDBSeq int64

type testAPI struct {
	router *router.Router
	db     *gorm.DB
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	dsn := fmt.Sprintf("file:api_test_%d?mode=memory&cache=shared", atomic.AddInt64(&apiDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{}, &models.Subcategory{},
		&models.Product{}, &models.Rating{}, &models.Comment{},
		&models.Cart{}, &models.CartItem{},
		&models.Order{}, &models.OrderItem{},
	))

	q := queue.NewManager(queue.NewMemoryDriver(16), nil)
	q.Register(services.JobSendOTPMail, func(ctx context.Context, payload json.RawMessage) error {
		return nil
	})
	t.Cleanup(q.Shutdown)

	disk, err := storage.NewLocalDisk(t.TempDir(), "http://localhost/uploads")
	require.NoError(t, err)

	userRepo := repositories.NewUserRepository(db)
	catalogRepo := repositories.NewCatalogRepository(db)
	productRepo := repositories.NewProductRepository(db)
	cartRepo := repositories.NewCartRepository(db)
	orderRepo := repositories.NewOrderRepository(db)

	authSvc := services.NewAuthService(userRepo, q)
	catalogSvc := services.NewCatalogService(catalogRepo)
	productSvc := services.NewProductService(productRepo, catalogRepo, userRepo)
	cartSvc := services.NewCartService(cartRepo, productRepo)
	orderSvc := services.NewOrderService(orderRepo, event.NewBus())

	r := router.New()
	Register(r, Controllers{
		Auth:    controllers.NewAuthController(authSvc),
		Catalog: controllers.NewCatalogController(catalogSvc),
		Product: controllers.NewProductController(productSvc),
		Cart:    controllers.NewCartController(cartSvc),
		Order:   controllers.NewOrderController(orderSvc),
		Admin:   controllers.NewAdminController(authSvc, catalogSvc, productSvc, orderSvc, disk),
	})
	return &testAPI{router: r, db: db}
}

func (a *testAPI) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.router.Handler().ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) tokenFor(t *testing.T, userID uint, role string) *http.Cookie {
	t.Helper()
	token, err := auth.GenerateToken(userID, role)
	require.NoError(t, err)
	return &http.Cookie{Name: config.AuthCookieName(), Value: token}
}

func (a *testAPI) seedProduct(t *testing.T, name string, price float64) *models.Product {
	t.Helper()
	category := &models.Category{Name: "cat-" + name, Image: "https://example.com/c.png"}
	require.NoError(t, a.db.Create(category).Error)
	sub := &models.Subcategory{Name: "sub-" + name, Image: "https://example.com/s.png", CategoryID: category.ID}
	require.NoError(t, a.db.Create(sub).Error)
	product := &models.Product{
		Name: name, Description: "d", Brand: "Acme", Price: price, Stock: 5,
		Images:     models.StringSlice{"https://example.com/p.png"},
		CategoryID: category.ID, SubcategoryID: sub.ID,
	}
	require.NoError(t, a.db.Create(product).Error)
	return product
}

func TestRegisterLoginAndMe(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(testkit.JSONRequest(t, http.MethodPost, "/api/auth/register", map[string]string{
		"username": "ada", "email": "ada@example.com", "password": "secret123",
	}))
	require.Equal(t, http.StatusCreated, rec.Code)

	// Duplicate registration conflicts.
	rec = api.do(testkit.JSONRequest(t, http.MethodPost, "/api/auth/register", map[string]string{
		"username": "ada", "email": "ada@example.com", "password": "secret123",
	}))
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Login sets the auth cookie.
	rec = api.do(testkit.JSONRequest(t, http.MethodPost, "/api/auth/login", map[string]string{
		"username": "ada", "password": "secret123",
	}))
	require.Equal(t, http.StatusOK, rec.Code)

	var sessionCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == config.AuthCookieName() {
			sessionCookie = c
		}
	}
	require.NotNil(t, sessionCookie)
	assert.True(t, sessionCookie.HttpOnly)

	// The cookie authenticates /me.
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(sessionCookie)
	rec = api.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	env := testkit.DecodeEnvelope(t, rec)
	var me models.User
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "ada", me.Username)

	// Without a cookie /me is unauthorized.
	rec = api.do(httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterValidation(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(testkit.JSONRequest(t, http.MethodPost, "/api/auth/register", map[string]string{
		"username": "ab", "email": "nope", "password": "123",
	}))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	env := testkit.DecodeEnvelope(t, rec)
	assert.Contains(t, env.Errors, "username")
	assert.Contains(t, env.Errors, "email")
	assert.Contains(t, env.Errors, "password")
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	api := newTestAPI(t)

	user := &models.User{Username: "ada", Email: "a@b.co", Password: "x", Role: models.RoleUser}
	require.NoError(t, api.db.Create(user).Error)

	req := testkit.JSONRequest(t, http.MethodPost, "/api/admin/categories", map[string]string{
		"name": "Electronics", "image": "https://example.com/e.png",
	})
	req.AddCookie(api.tokenFor(t, user.ID, models.RoleUser))
	rec := api.do(req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	admin := &models.User{Username: "boss", Email: "b@b.co", Password: "x", Role: models.RoleAdmin}
	require.NoError(t, api.db.Create(admin).Error)

	req = testkit.JSONRequest(t, http.MethodPost, "/api/admin/categories", map[string]string{
		"name": "Electronics", "image": "https://example.com/e.png",
	})
	req.AddCookie(api.tokenFor(t, admin.ID, models.RoleAdmin))
	rec = api.do(req)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestCartCheckoutFlow(t *testing.T) {
	api := newTestAPI(t)

	user := &models.User{Username: "ada", Email: "a@b.co", Password: "x", Role: models.RoleUser}
	require.NoError(t, api.db.Create(user).Error)
	cookie := api.tokenFor(t, user.ID, models.RoleUser)
	product := api.seedProduct(t, "widget", 12.5)

	// Empty checkout is a 400.
	req := testkit.JSONRequest(t, http.MethodPost, "/api/checkout", nil)
	req.AddCookie(cookie)
	assert.Equal(t, http.StatusBadRequest, api.do(req).Code)

	// Add to cart, then check out.
	req = testkit.JSONRequest(t, http.MethodPost, "/api/cart/items", map[string]interface{}{
		"product_id": product.ID, "quantity": 2,
	})
	req.AddCookie(cookie)
	require.Equal(t, http.StatusOK, api.do(req).Code)

	req = testkit.JSONRequest(t, http.MethodPost, "/api/checkout", nil)
	req.AddCookie(cookie)
	rec := api.do(req)
	require.Equal(t, http.StatusCreated, rec.Code)

	env := testkit.DecodeEnvelope(t, rec)
	var order models.Order
	require.NoError(t, json.Unmarshal(env.Data, &order))
	assert.InDelta(t, 25.0, order.Total, 0.001)
	assert.Equal(t, models.OrderPending, order.Status)

	// Order history shows the summary.
	req = httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.AddCookie(cookie)
	rec = api.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	var summaries []map[string]interface{}
	env = testkit.DecodeEnvelope(t, rec)
	require.NoError(t, json.Unmarshal(env.Data, &summaries))
	require.Len(t, summaries, 1)
	assert.EqualValues(t, 2, summaries[0]["item_count"])
}

func TestPublicCatalogReads(t *testing.T) {
	api := newTestAPI(t)
	api.seedProduct(t, "widget", 10)

	rec := api.do(httptest.NewRequest(http.MethodGet, "/api/categories", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(httptest.NewRequest(http.MethodGet, "/api/products", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	env := testkit.DecodeEnvelope(t, rec)
	var data struct {
		Items []models.Product `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Len(t, data.Items, 1)
}
