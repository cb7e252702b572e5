package service

import (
	"context" // Request scoped cancellation
	"math"    // Rounding
	"strings" // Comment trimming

	"online_shop/internal/apperr"     // Error taxonomy
	"online_shop/internal/domain"     // Importing domain models
	"online_shop/internal/repository" // Persistence
	"online_shop/internal/utils"      // Read-through cache

	"github.com/sirupsen/logrus" // Structured logging
)

// RatingResult is returned after rating a device
type RatingResult struct {
	Message    string        `json:"message"`
	DeviceName string        `json:"deviceName"`
	Rating     domain.Rating `json:"rating"`
}

// RatingService records one rating per user and device and keeps the device average current
type RatingService struct {
	store repository.Store
	cache catalogCache
}

func NewRatingService(store repository.Store, loader *utils.Loader) *RatingService {
	return &RatingService{store: store, cache: catalogCache{loader: loader}}
}

// Rate creates or overwrites the caller's rating of a device
func (s *RatingService) Rate(ctx context.Context, userID, deviceID uint, rate int, comment string) (*RatingResult, error) {
	if deviceID == 0 {
		return nil, apperr.BadRequest("Invalid device ID").WithField("deviceId")
	}
	if rate < 1 || rate > 5 {
		return nil, apperr.BadRequest("Rating must be between 1 and 5").WithField("rate")
	}
	comment = strings.TrimSpace(comment)
	if len(comment) > maxCommentLen {
		return nil, apperr.BadRequest("Comment must not exceed %d characters", maxCommentLen).WithField("comment")
	}

	var result RatingResult
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		device, err := tx.Catalog().FindDevice(ctx, deviceID)
		if err != nil {
			return orNotFound(err, "deviceId", "Device not found")
		}
		if err := tx.Ratings().Upsert(ctx, &domain.Rating{UserID: userID, DeviceID: deviceID, Rate: rate, Comment: comment}); err != nil {
			return err
		}
		rating, err := tx.Ratings().Find(ctx, userID, deviceID)
		if err != nil {
			return err
		}
		if err := recomputeRating(ctx, tx, deviceID); err != nil {
			return err
		}
		result = RatingResult{Message: "Rating saved", DeviceName: device.Name, Rating: *rating}
		return nil
	})
	if err != nil {
		return nil, apperr.Wrap(err, "Failed to save rating")
	}

	s.cache.devices(ctx, deviceID)
	logrus.WithFields(logrus.Fields{
		"user_id":   userID,
		"device_id": deviceID,
		"rate":      rate,
	}).Info("Device rated")
	return &result, nil
}

// recomputeRating stores the rounded average of the device's ratings, zero when none remain
func recomputeRating(ctx context.Context, tx repository.Store, deviceID uint) error {
	avg, err := tx.Ratings().AverageForDevice(ctx, deviceID)
	if err != nil {
		return err
	}
	return tx.Catalog().SetRating(ctx, deviceID, int(math.Round(avg)))
}
