package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/bazaar/app/apperr"
	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/pkg/orm"
)

type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ── Categories ───────────────────────────────────────────────────────────────

func (r *CatalogRepository) CreateCategory(ctx context.Context, c *models.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CatalogRepository) FindCategory(ctx context.Context, id uint) (*models.Category, error) {
	var c models.Category
	err := orm.New(r.db).WithCtx(ctx).Preload("Subcategories").Where("id = ?", id).First(&c)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	return &c, err
}

func (r *CatalogRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var cs []models.Category
	err := orm.New(r.db).WithCtx(ctx).Preload("Subcategories").Order("name ASC").Get(&cs)
	return cs, err
}

func (r *CatalogRepository) SaveCategory(ctx context.Context, c *models.Category) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// DeleteCategory removes a category and its subcategories in one
// transaction. Products referencing the category are left in place with
// dangling references.
func (r *CatalogRepository) DeleteCategory(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Category{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.ErrNotFound
		}
		return tx.Where("category_id = ?", id).Delete(&models.Subcategory{}).Error
	})
}

// ── Subcategories ────────────────────────────────────────────────────────────

func (r *CatalogRepository) CreateSubcategory(ctx context.Context, s *models.Subcategory) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *CatalogRepository) FindSubcategory(ctx context.Context, id uint) (*models.Subcategory, error) {
	var s models.Subcategory
	err := orm.New(r.db).WithCtx(ctx).Where("id = ?", id).First(&s)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	return &s, err
}

func (r *CatalogRepository) ListSubcategories(ctx context.Context, categoryID uint) ([]models.Subcategory, error) {
	q := orm.New(r.db).WithCtx(ctx)
	if categoryID != 0 {
		q = q.Where("category_id = ?", categoryID)
	}
	var ss []models.Subcategory
	err := q.Order("name ASC").Get(&ss)
	return ss, err
}

func (r *CatalogRepository) SaveSubcategory(ctx context.Context, s *models.Subcategory) error {
	return r.db.WithContext(ctx).Save(s).Error
}

// DeleteSubcategory removes a subcategory. Products keep their now
// dangling subcategory reference.
func (r *CatalogRepository) DeleteSubcategory(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Subcategory{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// deleteProductsWhere removes products matching the condition together
// with their ratings, comments and any cart lines referencing them.
func deleteProductsWhere(tx *gorm.DB, cond string, arg interface{}) error {
	var ids []uint
	if err := tx.Model(&models.Product{}).Where(cond, arg).Pluck("id", &ids).Error; err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Where("product_id IN ?", ids).Delete(&models.Rating{}).Error; err != nil {
		return err
	}
	if err := tx.Where("product_id IN ?", ids).Delete(&models.Comment{}).Error; err != nil {
		return err
	}
	if err := tx.Where("product_id IN ?", ids).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", ids).Delete(&models.Product{}).Error
}
