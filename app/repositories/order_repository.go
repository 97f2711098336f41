package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/bazaar/app/apperr"
	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/pkg/orm"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Checkout converts the user's cart into an order and deletes the cart,
// all inside one transaction. The total is priced from the products as
// they stand right now, not as they were when added to the cart. An empty
// or missing cart aborts with ErrEmptyCart.
func (r *OrderRepository) Checkout(ctx context.Context, userID uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		err := tx.Preload("Items").Where("user_id = ?", userID).First(&cart).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.ErrEmptyCart
		}
		if err != nil {
			return err
		}
		if len(cart.Items) == 0 {
			return apperr.ErrEmptyCart
		}

		ids := make([]uint, 0, len(cart.Items))
		for _, it := range cart.Items {
			ids = append(ids, it.ProductID)
		}
		var products []models.Product
		if err := tx.Where("id IN ?", ids).Find(&products).Error; err != nil {
			return err
		}
		prices := make(map[uint]float64, len(products))
		for _, p := range products {
			prices[p.ID] = p.Price
		}

		order = models.Order{
			UserID: userID,
			Status: models.OrderPending,
		}
		for _, it := range cart.Items {
			order.Total += prices[it.ProductID] * float64(it.Quantity)
			order.Items = append(order.Items, models.OrderItem{
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
			})
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&cart).Error
	})
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, order.ID)
}

func (r *OrderRepository) FindByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Preload("Items.Product").First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	return &order, err
}

// ListByUser returns the user's orders, newest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items.Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// ListAll returns a page of every order for the back office.
func (r *OrderRepository) ListAll(ctx context.Context, page, perPage int) ([]models.Order, orm.Pagination, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Preload("Items.Product").
		Order("created_at DESC")
	var orders []models.Order
	meta, err := orm.New(q).GetWithPagination(&orders, page, perPage)
	return orders, meta, err
}

// Delete removes an order and its items.
func (r *OrderRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		err := tx.First(&order, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.ErrNotFound
		}
		if err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&order).Error
	})
}

// UpdateStatus moves an order to a new status.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id uint, status string) (*models.Order, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperr.ErrNotFound
	}
	return r.FindByID(ctx, id)
}
