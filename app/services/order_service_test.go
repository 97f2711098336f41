package services

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/bazaar/app/apperr"
	"github.com/shashiranjanraj/bazaar/app/models"
)

func TestCheckout(t *testing.T) {
	f := newFixtures(t)
	cartSvc := NewCartService(f.carts, f.products)
	orderSvc := NewOrderService(f.orders, f.events)
	ctx := context.Background()

	var fired int64
	f.events.On(EventOrderCreated, func(ctx context.Context, payload interface{}) {
		if _, ok := payload.(*models.Order); ok {
			atomic.AddInt64(&fired, 1)
		}
	})

	user := f.seedUser(t, "ada")
	widget := f.seedProduct(t, "widget", 10)
	gadget := f.seedProduct(t, "gadget", 5)

	_, err := cartSvc.AddItem(ctx, user.ID, AddItemInput{ProductID: widget.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = cartSvc.AddItem(ctx, user.ID, AddItemInput{ProductID: gadget.ID, Quantity: 1})
	require.NoError(t, err)

	order, err := orderSvc.Checkout(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.InDelta(t, 25.0, order.Total, 0.001)
	assert.Len(t, order.Items, 2)
	assert.Equal(t, int64(1), atomic.LoadInt64(&fired))

	// The cart is gone after checkout.
	cart, err := cartSvc.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	// And checking out again fails on the now-empty cart.
	_, err = orderSvc.Checkout(ctx, user.ID)
	assert.ErrorIs(t, err, apperr.ErrEmptyCart)
}

func TestCheckoutPricesAtCheckoutTime(t *testing.T) {
	f := newFixtures(t)
	cartSvc := NewCartService(f.carts, f.products)
	orderSvc := NewOrderService(f.orders, f.events)
	ctx := context.Background()

	user := f.seedUser(t, "ada")
	widget := f.seedProduct(t, "widget", 10)

	_, err := cartSvc.AddItem(ctx, user.ID, AddItemInput{ProductID: widget.ID, Quantity: 2})
	require.NoError(t, err)

	// A price change between add and checkout must be reflected in the
	// total: the cart holds references, not copies.
	require.NoError(t, f.db.Model(widget).Update("price", 50.0).Error)

	order, err := orderSvc.Checkout(ctx, user.ID)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, order.Total, 0.001)
}

func TestOrderItemsTrackLiveProducts(t *testing.T) {
	f := newFixtures(t)
	cartSvc := NewCartService(f.carts, f.products)
	orderSvc := NewOrderService(f.orders, f.events)
	ctx := context.Background()

	user := f.seedUser(t, "ada")
	widget := f.seedProduct(t, "widget", 10)
	_, err := cartSvc.AddItem(ctx, user.ID, AddItemInput{ProductID: widget.ID, Quantity: 1})
	require.NoError(t, err)
	order, err := orderSvc.Checkout(ctx, user.ID)
	require.NoError(t, err)

	// Rename the product after checkout; the order shows the new name but
	// keeps the total it was priced at.
	require.NoError(t, f.db.Model(widget).Update("name", "widget pro").Error)

	got, err := orderSvc.Get(ctx, order.ID, user.ID, models.RoleUser)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	require.NotNil(t, got.Items[0].Product)
	assert.Equal(t, "widget pro", got.Items[0].Product.Name)
	assert.InDelta(t, 10.0, got.Total, 0.001)
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newFixtures(t)
	orderSvc := NewOrderService(f.orders, f.events)

	user := f.seedUser(t, "ada")
	_, err := orderSvc.Checkout(context.Background(), user.ID)
	assert.ErrorIs(t, err, apperr.ErrEmptyCart)
}

func TestOrderVisibility(t *testing.T) {
	f := newFixtures(t)
	cartSvc := NewCartService(f.carts, f.products)
	orderSvc := NewOrderService(f.orders, f.events)
	ctx := context.Background()

	ada := f.seedUser(t, "ada")
	bob := f.seedUser(t, "bob")
	widget := f.seedProduct(t, "widget", 10)

	_, err := cartSvc.AddItem(ctx, ada.ID, AddItemInput{ProductID: widget.ID, Quantity: 1})
	require.NoError(t, err)
	order, err := orderSvc.Checkout(ctx, ada.ID)
	require.NoError(t, err)

	// Owner and admin can read; another user cannot.
	_, err = orderSvc.Get(ctx, order.ID, ada.ID, models.RoleUser)
	assert.NoError(t, err)
	_, err = orderSvc.Get(ctx, order.ID, bob.ID, models.RoleAdmin)
	assert.NoError(t, err)
	_, err = orderSvc.Get(ctx, order.ID, bob.ID, models.RoleUser)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	mine, err := orderSvc.ListMine(ctx, ada.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	theirs, err := orderSvc.ListMine(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

func TestUpdateOrderStatus(t *testing.T) {
	f := newFixtures(t)
	cartSvc := NewCartService(f.carts, f.products)
	orderSvc := NewOrderService(f.orders, f.events)
	ctx := context.Background()

	user := f.seedUser(t, "ada")
	widget := f.seedProduct(t, "widget", 10)
	_, err := cartSvc.AddItem(ctx, user.ID, AddItemInput{ProductID: widget.ID, Quantity: 1})
	require.NoError(t, err)
	order, err := orderSvc.Checkout(ctx, user.ID)
	require.NoError(t, err)

	updated, err := orderSvc.UpdateStatus(ctx, order.ID, models.OrderShipped)
	require.NoError(t, err)
	assert.Equal(t, models.OrderShipped, updated.Status)

	_, err = orderSvc.UpdateStatus(ctx, order.ID, "lost")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = orderSvc.UpdateStatus(ctx, 999, models.OrderShipped)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDeleteOrder(t *testing.T) {
	f := newFixtures(t)
	cartSvc := NewCartService(f.carts, f.products)
	orderSvc := NewOrderService(f.orders, f.events)
	ctx := context.Background()

	user := f.seedUser(t, "ada")
	widget := f.seedProduct(t, "widget", 10)
	_, err := cartSvc.AddItem(ctx, user.ID, AddItemInput{ProductID: widget.ID, Quantity: 1})
	require.NoError(t, err)
	order, err := orderSvc.Checkout(ctx, user.ID)
	require.NoError(t, err)

	require.NoError(t, orderSvc.Delete(ctx, order.ID))
	_, err = orderSvc.Get(ctx, order.ID, user.ID, models.RoleAdmin)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	assert.ErrorIs(t, orderSvc.Delete(ctx, order.ID), apperr.ErrNotFound)
}
