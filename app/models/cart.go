package models

import "time"

// Cart is a user's open shopping cart. One cart per user; checkout deletes
// it.
type Cart struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex" json:"user_id"`

	Items []CartItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CartItem is one cart line: a live product reference plus a quantity.
// Nothing is copied from the product; price and display data are resolved
// from the catalog every time the cart is read.
type CartItem struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	CartID    uint `gorm:"index:idx_cart_product,unique" json:"cart_id"`
	ProductID uint `gorm:"index:idx_cart_product,unique" json:"product_id"`
	Quantity  int  `json:"quantity"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}
