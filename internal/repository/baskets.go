package repository

import (
	"context" // Request scoped cancellation
	"time"    // Line timestamps

	"online_shop/internal/domain" // Importing domain models

	"gorm.io/gorm"        // GORM ORM library
	"gorm.io/gorm/clause" // Upsert and locking clauses
)

type basketRepository struct {
	db *gorm.DB
}

func (r *basketRepository) Create(ctx context.Context, userID uint) (*domain.Basket, error) {
	basket := domain.Basket{UserID: userID}
	if err := r.db.WithContext(ctx).Create(&basket).Error; err != nil {
		return nil, err
	}
	return &basket, nil
}

func (r *basketRepository) FindByUser(ctx context.Context, userID uint) (*domain.Basket, error) {
	var basket domain.Basket
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&basket).Error; err != nil {
		return nil, notFound(err)
	}
	return &basket, nil
}

func (r *basketRepository) LockByUser(ctx context.Context, userID uint) (*domain.Basket, error) {
	var basket domain.Basket
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}). // SELECT ... FOR UPDATE; SQLite ignores it and serializes writers instead
		Where("user_id = ?", userID).
		First(&basket).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &basket, nil
}

func (r *basketRepository) Lines(ctx context.Context, basketID uint) ([]domain.BasketLine, error) {
	var lines []domain.BasketLine
	err := r.db.WithContext(ctx).
		Preload("Device.Brand").
		Preload("Device.Type").
		Where("basket_id = ?", basketID).
		Order("created_at DESC").Order("id DESC").
		Find(&lines).Error
	return lines, err
}

func (r *basketRepository) Increment(ctx context.Context, basketID, deviceID uint) error {
	now := time.Now()
	line := domain.BasketLine{BasketID: basketID, DeviceID: deviceID, Quantity: 1, CreatedAt: now, UpdatedAt: now}
	// One statement: insert the line or bump the quantity of the existing one
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "basket_id"}, {Name: "device_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"quantity":   gorm.Expr("basket_lines.quantity + ?", 1),
			"updated_at": now,
		}),
	}).Create(&line).Error
}

func (r *basketRepository) Decrement(ctx context.Context, basketID, deviceID uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.BasketLine{}).
		Where("basket_id = ? AND device_id = ? AND quantity > 1", basketID, deviceID).
		Update("quantity", gorm.Expr("quantity - ?", 1))
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return true, nil
	}
	// Quantity one (or no line at all): the line goes away instead of reaching zero
	res = r.db.WithContext(ctx).
		Where("basket_id = ? AND device_id = ? AND quantity <= 1", basketID, deviceID).
		Delete(&domain.BasketLine{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *basketRepository) Clear(ctx context.Context, basketID uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("basket_id = ?", basketID).Delete(&domain.BasketLine{})
	return res.RowsAffected, res.Error
}

func (r *basketRepository) DeleteByUser(ctx context.Context, userID uint) error {
	sub := r.db.Model(&domain.Basket{}).Select("id").Where("user_id = ?", userID)
	if err := r.db.WithContext(ctx).Where("basket_id IN (?)", sub).Delete(&domain.BasketLine{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.Basket{}).Error
}

func (r *basketRepository) DeleteLinesForDevice(ctx context.Context, deviceID uint) error {
	return r.db.WithContext(ctx).Where("device_id = ?", deviceID).Delete(&domain.BasketLine{}).Error
}
