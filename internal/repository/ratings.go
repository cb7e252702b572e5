package repository

import (
	"context"      // Request scoped cancellation
	"database/sql" // Nullable aggregate
	"time"         // Update timestamp

	"online_shop/internal/domain" // Importing domain models

	"gorm.io/gorm"        // GORM ORM library
	"gorm.io/gorm/clause" // Upsert clause
)

type ratingRepository struct {
	db *gorm.DB
}

func (r *ratingRepository) Upsert(ctx context.Context, rating *domain.Rating) error {
	rating.UpdatedAt = time.Now()
	// Conflict on (user_id, device_id): overwrite rate and comment in place
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "device_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rate", "comment", "updated_at"}),
	}).Create(rating).Error
}

func (r *ratingRepository) Find(ctx context.Context, userID, deviceID uint) (*domain.Rating, error) {
	var rating domain.Rating
	err := r.db.WithContext(ctx).Where("user_id = ? AND device_id = ?", userID, deviceID).First(&rating).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &rating, nil
}

func (r *ratingRepository) AverageForDevice(ctx context.Context, deviceID uint) (float64, error) {
	var avg sql.NullFloat64 // NULL when the device has no ratings
	err := r.db.WithContext(ctx).Model(&domain.Rating{}).
		Where("device_id = ?", deviceID).
		Select("AVG(rate)").
		Row().Scan(&avg)
	if err != nil {
		return 0, err
	}
	return avg.Float64, nil
}

func (r *ratingRepository) DeviceIDsByUser(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&domain.Rating{}).Where("user_id = ?", userID).Pluck("device_id", &ids).Error
	return ids, err
}

func (r *ratingRepository) DeleteByUser(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.Rating{}).Error
}

func (r *ratingRepository) DeleteByDevice(ctx context.Context, deviceID uint) error {
	return r.db.WithContext(ctx).Where("device_id = ?", deviceID).Delete(&domain.Rating{}).Error
}
