package service

import (
	"context" // Request scoped cancellation
	"fmt"     // Response messages

	"online_shop/internal/apperr"     // Error taxonomy
	"online_shop/internal/metrics"    // Shop counters
	"online_shop/internal/repository" // Persistence

	"github.com/sirupsen/logrus" // Structured logging
)

// BasketService manages a user's basket. Each mutation locks the basket row first,
// so concurrent adds and removes on the same basket serialize.
type BasketService struct {
	store   repository.Store
	metrics *metrics.Metrics
}

func NewBasketService(store repository.Store, m *metrics.Metrics) *BasketService {
	return &BasketService{store: store, metrics: m}
}

// Get returns the basket contents, newest line first
func (s *BasketService) Get(ctx context.Context, userID uint) ([]BasketItem, error) {
	basket, err := s.store.Baskets().FindByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(orNotFound(err, "userId", "Basket not found for user"), "Failed to load basket")
	}
	lines, err := s.store.Baskets().Lines(ctx, basket.ID)
	if err != nil {
		return nil, apperr.Wrap(err, "Failed to load basket")
	}
	return toBasketItems(lines), nil
}

// Add puts one more unit of the device into the basket
func (s *BasketService) Add(ctx context.Context, userID, deviceID uint) ([]BasketItem, string, error) {
	if deviceID == 0 {
		return nil, "", apperr.BadRequest("Invalid device ID").WithField("deviceId")
	}

	var items []BasketItem
	var name string
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		basket, err := tx.Baskets().LockByUser(ctx, userID) // Serialize mutations on this basket
		if err != nil {
			return orNotFound(err, "userId", "Basket not found for user")
		}
		device, err := tx.Catalog().FindDevice(ctx, deviceID)
		if err != nil {
			return orNotFound(err, "deviceId", "Device not found")
		}
		if err := tx.Baskets().Increment(ctx, basket.ID, deviceID); err != nil {
			return err
		}
		lines, err := tx.Baskets().Lines(ctx, basket.ID)
		if err != nil {
			return err
		}
		items, name = toBasketItems(lines), device.Name
		return nil
	})
	if err != nil {
		return nil, "", apperr.Wrap(err, "Failed to add device to basket")
	}

	s.metrics.BasketMutations.WithLabelValues("add").Inc()
	logrus.WithFields(logrus.Fields{
		"user_id":   userID,   // Basket owner
		"device_id": deviceID, // Added device
	}).Info("Device added to basket")
	return items, fmt.Sprintf("Device %s added to basket", name), nil
}

// Remove takes one unit of the device out of the basket, dropping the line at zero
func (s *BasketService) Remove(ctx context.Context, userID, deviceID uint) ([]BasketItem, string, error) {
	if deviceID == 0 {
		return nil, "", apperr.BadRequest("Invalid device ID").WithField("deviceId")
	}

	var items []BasketItem
	var name string
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		basket, err := tx.Baskets().LockByUser(ctx, userID)
		if err != nil {
			return orNotFound(err, "userId", "Basket not found for user")
		}
		device, err := tx.Catalog().FindDevice(ctx, deviceID)
		if err != nil {
			return orNotFound(err, "deviceId", "Device not found in basket")
		}
		removed, err := tx.Baskets().Decrement(ctx, basket.ID, deviceID)
		if err != nil {
			return err
		}
		if !removed {
			return apperr.NotFound("Device not found in basket").WithField("deviceId")
		}
		lines, err := tx.Baskets().Lines(ctx, basket.ID)
		if err != nil {
			return err
		}
		items, name = toBasketItems(lines), device.Name
		return nil
	})
	if err != nil {
		return nil, "", apperr.Wrap(err, "Failed to remove device from basket")
	}

	s.metrics.BasketMutations.WithLabelValues("remove").Inc()
	logrus.WithFields(logrus.Fields{
		"user_id":   userID,
		"device_id": deviceID,
	}).Info("Device removed from basket")
	return items, fmt.Sprintf("Device %s removed from basket", name), nil
}

// Clear empties the basket
func (s *BasketService) Clear(ctx context.Context, userID uint) error {
	var cleared int64
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		basket, err := tx.Baskets().LockByUser(ctx, userID)
		if err != nil {
			return orNotFound(err, "userId", "Basket not found for user")
		}
		cleared, err = tx.Baskets().Clear(ctx, basket.ID)
		return err
	})
	if err != nil {
		return apperr.Wrap(err, "Failed to clear basket")
	}

	s.metrics.BasketMutations.WithLabelValues("clear").Inc()
	logrus.WithFields(logrus.Fields{"user_id": userID, "lines": cleared}).Info("Basket cleared")
	return nil
}
