package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/bazaar/app/apperr"
	"github.com/shashiranjanraj/bazaar/app/models"
)

type CartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

// FindByUser returns the user's cart with items and their current
// products, or ErrNotFound.
func (r *CartRepository) FindByUser(ctx context.Context, userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Preload("Items.Product").
		Where("user_id = ?", userID).
		First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	return &cart, err
}

// AddItem merges a product into the user's cart, creating the cart when
// absent and incrementing quantity when the product is already present.
func (r *CartRepository) AddItem(ctx context.Context, userID uint, item models.CartItem) (*models.Cart, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		err := tx.Where("user_id = ?", userID).First(&cart).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			cart = models.Cart{UserID: userID}
			if err := tx.Create(&cart).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		item.CartID = cart.ID
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity": gorm.Expr("quantity + ?", item.Quantity),
			}),
		}).Create(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return r.FindByUser(ctx, userID)
}

// RemoveItem drops a product line from the cart. Removing an absent
// product is a no-op.
func (r *CartRepository) RemoveItem(ctx context.Context, userID, productID uint) (*models.Cart, error) {
	cart, err := r.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cart.ID, productID).
		Delete(&models.CartItem{}).Error; err != nil {
		return nil, err
	}
	return r.FindByUser(ctx, userID)
}
