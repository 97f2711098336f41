package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/repositories"
	"github.com/shashiranjanraj/bazaar/pkg/cache"
	"github.com/shashiranjanraj/bazaar/pkg/logger"
	"github.com/shashiranjanraj/bazaar/pkg/metrics"
)

const (
	catalogCacheTTL    = 5 * time.Minute
	categoriesCacheKey = "bazaar:catalog:categories"
	catalogCachePrefix = "bazaar:catalog:"
)

type CatalogService struct {
	catalog *repositories.CatalogRepository
}

func NewCatalogService(catalog *repositories.CatalogRepository) *CatalogService {
	return &CatalogService{catalog: catalog}
}

// CategoryInput is the payload for category create/update.
type CategoryInput struct {
	Name  string `json:"name"  validate:"required,min=2,max=255"`
	Image string `json:"image" validate:"required,url"`
}

// SubcategoryInput is the payload for subcategory create/update.
type SubcategoryInput struct {
	Name       string `json:"name"        validate:"required,min=2,max=255"`
	Image      string `json:"image"       validate:"required,url"`
	CategoryID uint   `json:"category_id" validate:"required"`
}

// ListCategories serves the category tree through a read-through cache.
func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	if raw, err := cache.Get(ctx, categoriesCacheKey); err == nil {
		var cs []models.Category
		if json.Unmarshal([]byte(raw), &cs) == nil {
			metrics.CacheHits.WithLabelValues("hit").Inc()
			return cs, nil
		}
	}
	metrics.CacheHits.WithLabelValues("miss").Inc()

	cs, err := s.catalog.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(cs); err == nil {
		if err := cache.Set(ctx, categoriesCacheKey, string(raw), catalogCacheTTL); err != nil {
			logger.WithCtx(ctx).Warn("category cache write failed", "error", err)
		}
	}
	return cs, nil
}

func (s *CatalogService) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	return s.catalog.FindCategory(ctx, id)
}

func (s *CatalogService) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	c := &models.Category{Name: in.Name, Image: in.Image}
	if err := s.catalog.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return c, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id uint, in CategoryInput) (*models.Category, error) {
	c, err := s.catalog.FindCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Name = in.Name
	c.Image = in.Image
	if err := s.catalog.SaveCategory(ctx, c); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return c, nil
}

// DeleteCategory cascades to subcategories and their products.
func (s *CatalogService) DeleteCategory(ctx context.Context, id uint) error {
	if err := s.catalog.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CatalogService) ListSubcategories(ctx context.Context, categoryID uint) ([]models.Subcategory, error) {
	return s.catalog.ListSubcategories(ctx, categoryID)
}

func (s *CatalogService) CreateSubcategory(ctx context.Context, in SubcategoryInput) (*models.Subcategory, error) {
	if _, err := s.catalog.FindCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}
	sub := &models.Subcategory{Name: in.Name, Image: in.Image, CategoryID: in.CategoryID}
	if err := s.catalog.CreateSubcategory(ctx, sub); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return sub, nil
}

func (s *CatalogService) UpdateSubcategory(ctx context.Context, id uint, in SubcategoryInput) (*models.Subcategory, error) {
	sub, err := s.catalog.FindSubcategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.CategoryID != sub.CategoryID {
		if _, err := s.catalog.FindCategory(ctx, in.CategoryID); err != nil {
			return nil, err
		}
	}
	sub.Name = in.Name
	sub.Image = in.Image
	sub.CategoryID = in.CategoryID
	if err := s.catalog.SaveSubcategory(ctx, sub); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return sub, nil
}

// DeleteSubcategory cascades to the subcategory's products.
func (s *CatalogService) DeleteSubcategory(ctx context.Context, id uint) error {
	if err := s.catalog.DeleteSubcategory(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context) {
	if err := cache.Forget(ctx, catalogCachePrefix+"*"); err != nil {
		logger.WithCtx(ctx).Warn("catalog cache invalidation failed", "error", err)
	}
}
