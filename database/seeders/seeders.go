// Package seeders fills a fresh database with an admin account and a
// small demo catalog.
package seeders

import (
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/config"
	"github.com/shashiranjanraj/bazaar/pkg/auth"
)

// Run executes all seeders. Seeding is idempotent: existing rows are left
// alone.
func Run(db *gorm.DB) error {
	if err := seedAdmin(db); err != nil {
		return err
	}
	return seedCatalog(db)
}

func seedAdmin(db *gorm.DB) error {
	username := config.Get("SEED_ADMIN_USERNAME", "admin")

	var existing models.User
	err := db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := auth.HashPassword(config.Get("SEED_ADMIN_PASSWORD", "admin123"))
	if err != nil {
		return err
	}
	admin := models.User{
		Username: username,
		Email:    config.Get("SEED_ADMIN_EMAIL", "admin@bazaar.local"),
		Password: hash,
		Role:     models.RoleAdmin,
		Verified: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	slog.Info("admin account seeded", "username", username)
	return nil
}

func seedCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	electronics := models.Category{
		Name:  "Electronics",
		Image: "https://picsum.photos/seed/electronics/600/400",
		Subcategories: []models.Subcategory{
			{Name: "Phones", Image: "https://picsum.photos/seed/phones/600/400"},
			{Name: "Laptops", Image: "https://picsum.photos/seed/laptops/600/400"},
		},
	}
	fashion := models.Category{
		Name:  "Fashion",
		Image: "https://picsum.photos/seed/fashion/600/400",
		Subcategories: []models.Subcategory{
			{Name: "Shoes", Image: "https://picsum.photos/seed/shoes/600/400"},
		},
	}
	if err := db.Create(&electronics).Error; err != nil {
		return err
	}
	if err := db.Create(&fashion).Error; err != nil {
		return err
	}

	products := []models.Product{
		{
			Name:        "Aurora X1",
			Description: "6.5-inch OLED smartphone with a 50MP camera.",
			Brand:       "Aurora",
			Price:       699,
			Stock:       40,
			Images:      models.StringSlice{"https://picsum.photos/seed/aurorax1/600/400"},
			Specifications: models.StringMap{
				"display": "6.5\" OLED",
				"storage": "256GB",
			},
			CategoryID:    electronics.ID,
			SubcategoryID: electronics.Subcategories[0].ID,
		},
		{
			Name:        "Nimbus Book 14",
			Description: "Lightweight 14-inch laptop for everyday work.",
			Brand:       "Nimbus",
			Price:       1099,
			Stock:       15,
			Images:      models.StringSlice{"https://picsum.photos/seed/nimbus14/600/400"},
			Specifications: models.StringMap{
				"cpu": "8-core",
				"ram": "16GB",
			},
			CategoryID:    electronics.ID,
			SubcategoryID: electronics.Subcategories[1].ID,
		},
		{
			Name:        "Strider Runner",
			Description: "Cushioned running shoe with a breathable mesh upper.",
			Brand:       "Strider",
			Price:       89,
			Stock:       120,
			Images:      models.StringSlice{"https://picsum.photos/seed/strider/600/400"},
			CategoryID:    fashion.ID,
			SubcategoryID: fashion.Subcategories[0].ID,
		},
	}
	if err := db.Create(&products).Error; err != nil {
		return err
	}
	slog.Info("demo catalog seeded", "categories", 2, "products", len(products))
	return nil
}
