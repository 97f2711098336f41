package services

import (
	"context"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/repositories"
)

type CartService struct {
	carts    *repositories.CartRepository
	products *repositories.ProductRepository
}

func NewCartService(carts *repositories.CartRepository, products *repositories.ProductRepository) *CartService {
	return &CartService{carts: carts, products: products}
}

// AddItemInput is the payload for adding a product to the cart.
type AddItemInput struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity"   validate:"required,gte=1,lte=99"`
}

// Get returns the user's cart. A user with no cart gets an empty one
// rather than an error.
func (s *CartService) Get(ctx context.Context, userID uint) (*models.Cart, error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if isNotFound(err) {
		return &models.Cart{UserID: userID, Items: []models.CartItem{}}, nil
	}
	return nil, err
}

// AddItem puts a product reference into the cart, merging quantities when
// the product is already present. The cart stores no product data of its
// own; prices come from the catalog when the cart is read or checked out.
func (s *CartService) AddItem(ctx context.Context, userID uint, in AddItemInput) (*models.Cart, error) {
	if _, err := s.products.FindByID(ctx, in.ProductID); err != nil {
		return nil, err
	}
	return s.carts.AddItem(ctx, userID, models.CartItem{
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
	})
}

// RemoveItem drops a product from the cart. Removing a product that is not
// in the cart leaves the cart unchanged.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID uint) (*models.Cart, error) {
	cart, err := s.carts.RemoveItem(ctx, userID, productID)
	if err != nil && isNotFound(err) {
		return &models.Cart{UserID: userID, Items: []models.CartItem{}}, nil
	}
	return cart, err
}
