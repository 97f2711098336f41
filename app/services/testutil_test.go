package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/repositories"
	"github.com/shashiranjanraj/bazaar/pkg/event"
	"github.com/shashiranjanraj/bazaar/pkg/queue"
)

var testDBSeq int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A named shared in-memory database keeps all connections of one test
	// on the same schema while isolating tests from each other.
	dsn := fmt.Sprintf("file:svc_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
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
		&queue.FailedJob{},
	))
	return db
}

// newTestQueue returns a manager with the OTP mail job stubbed out.
// Workers are not started; dispatched jobs just sit in the memory driver.
func newTestQueue(t *testing.T) *queue.Manager {
	t.Helper()

	m := queue.NewManager(queue.NewMemoryDriver(16), nil)
	m.Register(JobSendOTPMail, func(ctx context.Context, payload json.RawMessage) error {
		return nil
	})
	t.Cleanup(m.Shutdown)
	return m
}

type fixtures struct {
	db       *gorm.DB
	users    *repositories.UserRepository
	catalog  *repositories.CatalogRepository
	products *repositories.ProductRepository
	carts    *repositories.CartRepository
	orders   *repositories.OrderRepository
	events   *event.Bus
}

func newFixtures(t *testing.T) *fixtures {
	t.Helper()
	db := newTestDB(t)
	return &fixtures{
		db:       db,
		users:    repositories.NewUserRepository(db),
		catalog:  repositories.NewCatalogRepository(db),
		products: repositories.NewProductRepository(db),
		carts:    repositories.NewCartRepository(db),
		orders:   repositories.NewOrderRepository(db),
		events:   event.NewBus(),
	}
}

func (f *fixtures) seedUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "x",
		Role:     models.RoleUser,
	}
	require.NoError(t, f.db.Create(user).Error)
	return user
}

func (f *fixtures) seedProduct(t *testing.T, name string, price float64) *models.Product {
	t.Helper()

	category := &models.Category{Name: "cat-" + name, Image: "https://example.com/c.png"}
	require.NoError(t, f.db.Create(category).Error)
	sub := &models.Subcategory{Name: "sub-" + name, Image: "https://example.com/s.png", CategoryID: category.ID}
	require.NoError(t, f.db.Create(sub).Error)

	product := &models.Product{
		Name:          name,
		Description:   "test product",
		Brand:         "Acme",
		Price:         price,
		Stock:         10,
		Images:        models.StringSlice{"https://example.com/p.png"},
		CategoryID:    category.ID,
		SubcategoryID: sub.ID,
	}
	require.NoError(t, f.db.Create(product).Error)
	return product
}
