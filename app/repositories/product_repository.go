package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/bazaar/app/apperr"
	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/pkg/orm"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// ProductFilter narrows product listings.
type ProductFilter struct {
	CategoryID    uint
	SubcategoryID uint
	Brand         string
	Search        string
	Page          int
	PerPage       int
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ProductRepository) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	err := orm.New(r.db).WithCtx(ctx).
		Preload("Ratings").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Where("id = ?", id).
		First(&p)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	return &p, err
}

// List returns a page of products matching the filter.
func (r *ProductRepository) List(ctx context.Context, f ProductFilter) ([]models.Product, orm.Pagination, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{})
	if f.CategoryID != 0 {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if f.SubcategoryID != 0 {
		q = q.Where("subcategory_id = ?", f.SubcategoryID)
	}
	if f.Brand != "" {
		q = q.Where("brand = ?", f.Brand)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("name LIKE ? OR description LIKE ?", like, like)
	}
	q = q.Order("created_at DESC")

	var products []models.Product
	page, err := orm.New(q).GetWithPagination(&products, f.Page, f.PerPage)
	return products, page, err
}

func (r *ProductRepository) Save(ctx context.Context, p *models.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// Patch applies a partial update of the given columns.
func (r *ProductRepository) Patch(ctx context.Context, id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// Delete removes a product with its ratings, comments and cart lines.
func (r *ProductRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p models.Product
		if err := tx.First(&p, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrNotFound
			}
			return err
		}
		return deleteProductsWhere(tx, "id = ?", id)
	})
}

// UpsertRating inserts or replaces the user's rating for the product and
// recomputes the denormalized average in the same transaction.
func (r *ProductRepository) UpsertRating(ctx context.Context, rating *models.Rating) (float64, error) {
	var avg float64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(rating).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Rating{}).
			Where("product_id = ?", rating.ProductID).
			Select("COALESCE(AVG(value), 0)").
			Scan(&avg).Error; err != nil {
			return err
		}

		return tx.Model(&models.Product{}).
			Where("id = ?", rating.ProductID).
			Update("average_rating", avg).Error
	})
	return avg, err
}

func (r *ProductRepository) AddComment(ctx context.Context, c *models.Comment) error {
	return r.db.WithContext(ctx).Create(c).Error
}

// Brands returns the distinct brand names in the catalog.
func (r *ProductRepository) Brands(ctx context.Context) ([]string, error) {
	var brands []string
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("brand <> ''").
		Distinct().
		Order("brand ASC").
		Pluck("brand", &brands).Error
	return brands, err
}
