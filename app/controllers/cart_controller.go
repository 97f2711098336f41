package controllers

import (
	"github.com/shashiranjanraj/bazaar/app/services"
	"github.com/shashiranjanraj/bazaar/pkg/ctx"
)

type CartController struct {
	carts *services.CartService
}

func NewCartController(carts *services.CartService) *CartController {
	return &CartController{carts: carts}
}

// Get returns the caller's cart, empty when none exists.
// GET /api/cart
func (cc *CartController) Get(c *ctx.Context) {
	cart, err := cc.carts.Get(c.Ctx(), c.UserID())
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(cart)
}

// AddItem puts a product into the cart, merging quantities.
// POST /api/cart/items
func (cc *CartController) AddItem(c *ctx.Context) {
	var in services.AddItemInput
	if !c.Bind(&in) {
		return
	}
	cart, err := cc.carts.AddItem(c.Ctx(), c.UserID(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(cart)
}

// RemoveItem drops a product from the cart; removing an absent product
// still returns the cart unchanged.
// DELETE /api/cart/items/{productID}
func (cc *CartController) RemoveItem(c *ctx.Context) {
	productID, ok := c.ParamUint("productID")
	if !ok {
		c.NotFound("Product not found")
		return
	}
	cart, err := cc.carts.RemoveItem(c.Ctx(), c.UserID(), productID)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(cart)
}
