package service

import (
	"context" // Request scoped cancellation

	"online_shop/internal/apperr"     // Error taxonomy
	"online_shop/internal/auth"       // Caller identity
	"online_shop/internal/domain"     // Importing domain models
	"online_shop/internal/metrics"    // Shop counters
	"online_shop/internal/repository" // Persistence

	"github.com/sirupsen/logrus" // Structured logging
)

const (
	defaultOrderPageSize = 20
	maxOrderPageSize     = 100
)

// OrderService reads and administers orders
type OrderService struct {
	store   repository.Store
	metrics *metrics.Metrics
}

func NewOrderService(store repository.Store, m *metrics.Metrics) *OrderService {
	return &OrderService{store: store, metrics: m}
}

// OrderPage is one page of the admin order listing
type OrderPage struct {
	Orders   []OrderView `json:"orders"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

// ListForUser returns the user's orders, newest first
func (s *OrderService) ListForUser(ctx context.Context, userID uint) ([]OrderView, error) {
	orders, err := s.store.Orders().ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(err, "Failed to load orders")
	}
	return toOrderViews(orders), nil
}

// ListAll returns every order with its owner
func (s *OrderService) ListAll(ctx context.Context, actor *auth.Identity, page, pageSize int) (*OrderPage, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Forbidden("Access denied")
	}
	offset, limit := pageBounds(page, pageSize, defaultOrderPageSize, maxOrderPageSize)
	orders, total, err := s.store.Orders().ListAll(ctx, offset, limit)
	if err != nil {
		return nil, apperr.Wrap(err, "Failed to load orders")
	}
	return &OrderPage{Orders: toOrderViews(orders), Total: total, Page: offset/limit + 1, PageSize: limit}, nil
}

// Get returns one order to its owner or an admin
func (s *OrderService) Get(ctx context.Context, actor *auth.Identity, id uint) (*OrderView, error) {
	order, err := s.store.Orders().FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Wrap(orNotFound(err, "id", "Order not found"), "Failed to load order")
	}
	if !auth.CanAccess(actor, order.UserID) {
		return nil, apperr.Forbidden("Access denied")
	}
	view := toOrderView(order)
	return &view, nil
}

// UpdateStatus sets the order status. Any listed status may follow any other.
func (s *OrderService) UpdateStatus(ctx context.Context, actor *auth.Identity, id uint, status domain.OrderStatus) (*OrderView, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Forbidden("Access denied")
	}
	if id == 0 {
		return nil, apperr.BadRequest("Invalid order ID").WithField("orderId")
	}
	if !status.Valid() {
		return nil, apperr.BadRequest("Invalid status").WithDetails(map[string]any{"field": "status", "allowed": domain.OrderStatuses})
	}

	var order *domain.Order
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := tx.Orders().UpdateStatus(ctx, id, status); err != nil {
			return orNotFound(err, "orderId", "Order not found")
		}
		var err error
		order, err = tx.Orders().FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, apperr.Wrap(err, "Failed to update order status")
	}

	s.metrics.OrderTransitions.WithLabelValues(string(status)).Inc()
	logrus.WithFields(logrus.Fields{
		"admin_id": actor.UserID, // Acting admin
		"order_id": id,           // Updated order
		"status":   status,       // New status
	}).Info("Order status updated")
	view := toOrderView(order)
	return &view, nil
}

// Delete removes an order and its lines
func (s *OrderService) Delete(ctx context.Context, actor *auth.Identity, id uint) error {
	if !actor.IsAdmin() {
		return apperr.Forbidden("Access denied")
	}
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := tx.Orders().DeleteLines(ctx, id); err != nil {
			return err
		}
		deleted, err := tx.Orders().Delete(ctx, id)
		if err != nil {
			return err
		}
		if deleted == 0 {
			return apperr.NotFound("Order not found").WithField("id")
		}
		return nil
	})
	if err != nil {
		return apperr.Wrap(err, "Failed to delete order")
	}
	logrus.WithFields(logrus.Fields{"admin_id": actor.UserID, "order_id": id}).Info("Order deleted")
	return nil
}
