package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shashiranjanraj/bazaar/app/apperr"
	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/repositories"
	"github.com/shashiranjanraj/bazaar/pkg/cache"
	"github.com/shashiranjanraj/bazaar/pkg/logger"
	"github.com/shashiranjanraj/bazaar/pkg/metrics"
	"github.com/shashiranjanraj/bazaar/pkg/orm"
)

type ProductService struct {
	products *repositories.ProductRepository
	catalog  *repositories.CatalogRepository
	users    *repositories.UserRepository
}

func NewProductService(
	products *repositories.ProductRepository,
	catalog *repositories.CatalogRepository,
	users *repositories.UserRepository,
) *ProductService {
	return &ProductService{products: products, catalog: catalog, users: users}
}

// ProductInput is the payload for product creation.
type ProductInput struct {
	Name           string            `json:"name"           validate:"required,min=2,max=255"`
	Description    string            `json:"description"    validate:"required"`
	Brand          string            `json:"brand"          validate:"required,max=255"`
	Price          float64           `json:"price"          validate:"gte=0"`
	Stock          int               `json:"stock"          validate:"gte=0"`
	Images         []string          `json:"images"         validate:"required"`
	Specifications map[string]string `json:"specifications"`
	CategoryID     uint              `json:"category_id"    validate:"required"`
	SubcategoryID  uint              `json:"subcategory_id" validate:"required"`
}

// ProductPatch carries a partial product update; nil fields are left
// untouched.
type ProductPatch struct {
	Name           *string            `json:"name"           validate:"nullable,min=2,max=255"`
	Description    *string            `json:"description"`
	Brand          *string            `json:"brand"          validate:"nullable,max=255"`
	Price          *float64           `json:"price"          validate:"nullable,gte=0"`
	Stock          *int               `json:"stock"          validate:"nullable,gte=0"`
	Images         *[]string          `json:"images"`
	Specifications *map[string]string `json:"specifications"`
	CategoryID     *uint              `json:"category_id"`
	SubcategoryID  *uint              `json:"subcategory_id"`
}

func (s *ProductService) List(ctx context.Context, f repositories.ProductFilter) ([]models.Product, orm.Pagination, error) {
	key := listCacheKey(f)
	if raw, err := cache.Get(ctx, key); err == nil {
		var cached struct {
			Products []models.Product `json:"products"`
			Page     orm.Pagination   `json:"page"`
		}
		if json.Unmarshal([]byte(raw), &cached) == nil {
			metrics.CacheHits.WithLabelValues("hit").Inc()
			return cached.Products, cached.Page, nil
		}
	}
	metrics.CacheHits.WithLabelValues("miss").Inc()

	products, page, err := s.products.List(ctx, f)
	if err != nil {
		return nil, orm.Pagination{}, err
	}
	if raw, err := json.Marshal(struct {
		Products []models.Product `json:"products"`
		Page     orm.Pagination   `json:"page"`
	}{products, page}); err == nil {
		if err := cache.Set(ctx, key, string(raw), catalogCacheTTL); err != nil {
			logger.WithCtx(ctx).Warn("product cache write failed", "error", err)
		}
	}
	return products, page, nil
}

func (s *ProductService) Get(ctx context.Context, id uint) (*models.Product, error) {
	return s.products.FindByID(ctx, id)
}

func (s *ProductService) Brands(ctx context.Context) ([]string, error) {
	return s.products.Brands(ctx)
}

func (s *ProductService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	if _, err := s.catalog.FindCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}
	sub, err := s.catalog.FindSubcategory(ctx, in.SubcategoryID)
	if err != nil {
		return nil, err
	}
	if sub.CategoryID != in.CategoryID {
		return nil, apperr.Wrap(apperr.ErrValidation,
			fmt.Errorf("subcategory %d does not belong to category %d", in.SubcategoryID, in.CategoryID))
	}

	p := &models.Product{
		Name:           in.Name,
		Description:    in.Description,
		Brand:          in.Brand,
		Price:          in.Price,
		Stock:          in.Stock,
		Images:         in.Images,
		Specifications: in.Specifications,
		CategoryID:     in.CategoryID,
		SubcategoryID:  in.SubcategoryID,
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return p, nil
}

// Patch applies the non-nil fields of the patch and returns the updated
// product.
func (s *ProductService) Patch(ctx context.Context, id uint, patch ProductPatch) (*models.Product, error) {
	fields := map[string]interface{}{}
	if patch.Name != nil {
		fields["name"] = *patch.Name
	}
	if patch.Description != nil {
		fields["description"] = *patch.Description
	}
	if patch.Brand != nil {
		fields["brand"] = *patch.Brand
	}
	if patch.Price != nil {
		fields["price"] = *patch.Price
	}
	if patch.Stock != nil {
		fields["stock"] = *patch.Stock
	}
	if patch.Images != nil {
		fields["images"] = models.StringSlice(*patch.Images)
	}
	if patch.Specifications != nil {
		fields["specifications"] = models.StringMap(*patch.Specifications)
	}
	if patch.CategoryID != nil {
		if _, err := s.catalog.FindCategory(ctx, *patch.CategoryID); err != nil {
			return nil, err
		}
		fields["category_id"] = *patch.CategoryID
	}
	if patch.SubcategoryID != nil {
		if _, err := s.catalog.FindSubcategory(ctx, *patch.SubcategoryID); err != nil {
			return nil, err
		}
		fields["subcategory_id"] = *patch.SubcategoryID
	}

	if err := s.products.Patch(ctx, id, fields); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return s.products.FindByID(ctx, id)
}

func (s *ProductService) Delete(ctx context.Context, id uint) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Rate records the user's rating (1..5) and returns the product with its
// refreshed ratings and average. Re-rating replaces the previous value.
func (s *ProductService) Rate(ctx context.Context, productID, userID uint, value int) (*models.Product, error) {
	if value < 1 || value > 5 {
		return nil, apperr.ErrInvalidRating
	}
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return nil, err
	}
	_, err := s.products.UpsertRating(ctx, &models.Rating{
		ProductID: productID,
		UserID:    userID,
		Value:     value,
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return s.products.FindByID(ctx, productID)
}

// CommentInput is the payload for adding a product comment.
type CommentInput struct {
	Text string `json:"text" validate:"required,min=1,max=2000"`
}

// Comment appends a remark to the product's comment ledger and returns
// the product with comments resolved.
func (s *ProductService) Comment(ctx context.Context, productID, userID uint, in CommentInput) (*models.Product, error) {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	c := &models.Comment{
		ProductID: productID,
		UserID:    userID,
		Username:  user.Username,
		Text:      in.Text,
	}
	if err := s.products.AddComment(ctx, c); err != nil {
		return nil, err
	}
	return s.products.FindByID(ctx, productID)
}

func (s *ProductService) invalidate(ctx context.Context) {
	if err := cache.Forget(ctx, catalogCachePrefix+"*"); err != nil {
		logger.WithCtx(ctx).Warn("catalog cache invalidation failed", "error", err)
	}
}

func listCacheKey(f repositories.ProductFilter) string {
	return fmt.Sprintf("%sproducts:c%d:s%d:b%s:q%s:p%d:n%d",
		catalogCachePrefix, f.CategoryID, f.SubcategoryID, f.Brand, f.Search, f.Page, f.PerPage)
}
