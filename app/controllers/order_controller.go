package controllers

import (
	"time"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/services"
	"github.com/shashiranjanraj/bazaar/pkg/ctx"
	"github.com/shashiranjanraj/bazaar/pkg/resource"
)

// orderSummary is the compact shape the order history list returns; the
// detail endpoint serves the full order.
type orderSummary struct {
	ID        uint      `json:"id"`
	Total     float64   `json:"total"`
	Status    string    `json:"status"`
	ItemCount int       `json:"item_count"`
	CreatedAt time.Time `json:"created_at"`
}

var orderSummaries = resource.Resource[models.Order, orderSummary](func(o models.Order) orderSummary {
	count := 0
	for _, item := range o.Items {
		count += item.Quantity
	}
	return orderSummary{
		ID:        o.ID,
		Total:     o.Total,
		Status:    o.Status,
		ItemCount: count,
		CreatedAt: o.CreatedAt,
	}
})

type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// Checkout converts the caller's cart into an order.
// POST /api/checkout
func (oc *OrderController) Checkout(c *ctx.Context) {
	order, err := oc.orders.Checkout(c.Ctx(), c.UserID())
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(order)
}

// ListMine returns the caller's order history.
// GET /api/orders
func (oc *OrderController) ListMine(c *ctx.Context) {
	orders, err := oc.orders.ListMine(c.Ctx(), c.UserID())
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(orderSummaries.Many(orders))
}

// Get returns one order; non-admins only see their own.
// GET /api/orders/{id}
func (oc *OrderController) Get(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.NotFound("Order not found")
		return
	}
	order, err := oc.orders.Get(c.Ctx(), id, c.UserID(), c.Role())
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(order)
}
