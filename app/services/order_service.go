package services

import (
	"context"
	"errors"

	"github.com/shashiranjanraj/bazaar/app/apperr"
	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/repositories"
	"github.com/shashiranjanraj/bazaar/pkg/collection"
	"github.com/shashiranjanraj/bazaar/pkg/event"
	"github.com/shashiranjanraj/bazaar/pkg/metrics"
	"github.com/shashiranjanraj/bazaar/pkg/orm"
)

// EventOrderCreated fires after a successful checkout with an
// *models.Order payload.
const EventOrderCreated = "order.created"

type OrderService struct {
	orders *repositories.OrderRepository
	events *event.Bus
}

func NewOrderService(orders *repositories.OrderRepository, events *event.Bus) *OrderService {
	return &OrderService{orders: orders, events: events}
}

// Checkout turns the user's cart into an order. The cart is gone once this
// returns successfully.
func (s *OrderService) Checkout(ctx context.Context, userID uint) (*models.Order, error) {
	order, err := s.orders.Checkout(ctx, userID)
	if err != nil {
		return nil, err
	}

	metrics.OrdersPlaced.Inc()
	s.events.Fire(ctx, EventOrderCreated, order)
	return order, nil
}

// ListMine returns the caller's orders, newest first.
func (s *OrderService) ListMine(ctx context.Context, userID uint) ([]models.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

// Get returns one order. Non-admin callers can only see their own.
func (s *OrderService) Get(ctx context.Context, orderID, userID uint, role string) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if role != models.RoleAdmin && order.UserID != userID {
		return nil, apperr.ErrForbidden
	}
	return order, nil
}

// ListAll pages through every order for the back office.
func (s *OrderService) ListAll(ctx context.Context, page, perPage int) ([]models.Order, orm.Pagination, error) {
	return s.orders.ListAll(ctx, page, perPage)
}

// Delete removes an order record outright. Kept for back-office cleanup;
// the storefront never cancels this way.
func (s *OrderService) Delete(ctx context.Context, orderID uint) error {
	return s.orders.Delete(ctx, orderID)
}

// UpdateStatusInput is the payload for the admin status change.
type UpdateStatusInput struct {
	Status string `json:"status" validate:"required,in=pending,shipped,delivered,cancelled"`
}

// UpdateStatus moves an order to a new status.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint, status string) (*models.Order, error) {
	if !collection.Contains(models.OrderStatuses, status) {
		return nil, apperr.Wrap(apperr.ErrValidation, errors.New("unknown order status"))
	}
	return s.orders.UpdateStatus(ctx, orderID, status)
}
