package models

import "time"

// Order statuses.
const (
	OrderPending   = "pending"
	OrderShipped   = "shipped"
	OrderDelivered = "delivered"
	OrderCancelled = "cancelled"
)

// OrderStatuses lists the valid status values in lifecycle order.
var OrderStatuses = []string{OrderPending, OrderShipped, OrderDelivered, OrderCancelled}

// Order is a placed purchase. Total is priced once at checkout; the lines
// keep live product references, so later catalog edits show up when the
// order is read.
type Order struct {
	ID     uint    `gorm:"primaryKey" json:"id"`
	UserID uint    `gorm:"index" json:"user_id"`
	Total  float64 `json:"total"`
	Status string  `gorm:"size:20;default:pending" json:"status"`

	Items []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrderItem is one line of an order: the cart line carried over at
// checkout, product reference and quantity only.
type OrderItem struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	OrderID   uint `gorm:"index" json:"order_id"`
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}
