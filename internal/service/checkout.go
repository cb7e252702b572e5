package service

import (
	"context" // Request scoped cancellation
	"fmt"     // Error formatting
	"math"    // Overflow bound

	"online_shop/internal/apperr"     // Error taxonomy
	"online_shop/internal/domain"     // Importing domain models
	"online_shop/internal/metrics"    // Shop counters
	"online_shop/internal/repository" // Persistence

	"github.com/sirupsen/logrus" // Structured logging
)

// CheckoutService turns a basket into an order
type CheckoutService struct {
	store   repository.Store
	metrics *metrics.Metrics
}

func NewCheckoutService(store repository.Store, m *metrics.Metrics) *CheckoutService {
	return &CheckoutService{store: store, metrics: m}
}

// Checkout creates an order from the caller's basket and empties the basket.
// Either the order, all of its lines and the cleared basket are committed, or nothing is.
func (s *CheckoutService) Checkout(ctx context.Context, userID uint, address string) (*OrderView, error) {
	address, err := normalizeAddress(address)
	if err != nil {
		return nil, err
	}

	var order *domain.Order
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		basket, err := tx.Baskets().LockByUser(ctx, userID) // Concurrent basket edits wait for the order
		if err != nil {
			return orNotFound(err, "userId", "Basket not found for this user")
		}
		lines, err := tx.Baskets().Lines(ctx, basket.ID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return apperr.BadRequest("Basket is empty")
		}

		var total int64
		orderLines := make([]domain.OrderLine, 0, len(lines))
		for _, l := range lines {
			if l.Device == nil {
				return apperr.NotFound("Device %d not found", l.DeviceID).WithField("deviceId")
			}
			price, qty := l.Device.Price, int64(l.Quantity)
			if price > 0 && qty > (math.MaxInt64-total)/price {
				return apperr.BadRequest("Order total is too large")
			}
			total += price * qty // Sum of current price times quantity
			orderLines = append(orderLines, domain.OrderLine{
				DeviceID: l.DeviceID,
				Quantity: l.Quantity,
				Price:    price, // Price snapshot at checkout
				Device:   l.Device,
			})
		}

		o := &domain.Order{UserID: userID, Total: total, Address: address, Status: domain.OrderPending}
		if err := tx.Orders().Create(ctx, o); err != nil {
			return err
		}
		for i := range orderLines {
			orderLines[i].OrderID = o.ID
		}
		if err := tx.Orders().CreateLines(ctx, orderLines); err != nil {
			return err
		}
		cleared, err := tx.Baskets().Clear(ctx, basket.ID)
		if err != nil {
			return err
		}
		if cleared != int64(len(lines)) {
			return fmt.Errorf("basket %d changed during checkout: cleared %d of %d lines", basket.ID, cleared, len(lines))
		}
		o.Lines = orderLines
		order = o
		return nil
	})
	if err != nil {
		outcome := "failed"
		if apperr.KindOf(err) != apperr.KindInternal {
			outcome = "rejected"
		}
		s.metrics.Checkouts.WithLabelValues(outcome).Inc()
		return nil, apperr.Wrap(err, "Error processing checkout")
	}

	s.metrics.Checkouts.WithLabelValues("ok").Inc()
	s.metrics.OrderRevenue.Add(float64(order.Total))
	logrus.WithFields(logrus.Fields{
		"user_id":  userID,           // Buyer
		"order_id": order.ID,         // Created order
		"total":    order.Total,      // Minor units
		"lines":    len(order.Lines), // Distinct devices
	}).Info("Checkout completed")

	view := toOrderView(order)
	return &view, nil
}
