// Package migrations registers the schema migrations in order.
package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/pkg/migration"
	"github.com/shashiranjanraj/bazaar/pkg/queue"
)

func init() {
	migration.Register(migration.Migration{
		Name: "0001_create_users",
		Up: func(db *gorm.DB) error {
			return db.AutoMigrate(&models.User{})
		},
		Down: func(db *gorm.DB) error {
			return db.Migrator().DropTable(&models.User{})
		},
	})

	migration.Register(migration.Migration{
		Name: "0002_create_catalog",
		Up: func(db *gorm.DB) error {
			return db.AutoMigrate(&models.Category{}, &models.Subcategory{})
		},
		Down: func(db *gorm.DB) error {
			return db.Migrator().DropTable(&models.Subcategory{}, &models.Category{})
		},
	})

	migration.Register(migration.Migration{
		Name: "0003_create_products",
		Up: func(db *gorm.DB) error {
			return db.AutoMigrate(&models.Product{}, &models.Rating{}, &models.Comment{})
		},
		Down: func(db *gorm.DB) error {
			return db.Migrator().DropTable(&models.Comment{}, &models.Rating{}, &models.Product{})
		},
	})

	migration.Register(migration.Migration{
		Name: "0004_create_carts",
		Up: func(db *gorm.DB) error {
			return db.AutoMigrate(&models.Cart{}, &models.CartItem{})
		},
		Down: func(db *gorm.DB) error {
			return db.Migrator().DropTable(&models.CartItem{}, &models.Cart{})
		},
	})

	migration.Register(migration.Migration{
		Name: "0005_create_orders",
		Up: func(db *gorm.DB) error {
			return db.AutoMigrate(&models.Order{}, &models.OrderItem{})
		},
		Down: func(db *gorm.DB) error {
			return db.Migrator().DropTable(&models.OrderItem{}, &models.Order{})
		},
	})

	migration.Register(migration.Migration{
		Name: "0006_create_failed_jobs",
		Up: func(db *gorm.DB) error {
			return db.AutoMigrate(&queue.FailedJob{})
		},
		Down: func(db *gorm.DB) error {
			return db.Migrator().DropTable(&queue.FailedJob{})
		},
	})
}
