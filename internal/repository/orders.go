package repository

import (
	"context" // Request scoped cancellation

	"online_shop/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

type orderRepository struct {
	db *gorm.DB
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	return r.db.WithContext(ctx).Omit("User", "Lines").Create(order).Error
}

func (r *orderRepository) CreateLines(ctx context.Context, lines []domain.OrderLine) error {
	if len(lines) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit("Device").CreateInBatches(&lines, 100).Error
}

func (r *orderRepository) FindByID(ctx context.Context, id uint) (*domain.Order, error) {
	var order domain.Order
	if err := r.db.WithContext(ctx).Preload("Lines.Device").First(&order, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &order, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID uint) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.db.WithContext(ctx).
		Preload("Lines.Device").
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC"). // Newest orders first
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) ListAll(ctx context.Context, offset, limit int) ([]domain.Order, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Order{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var orders []domain.Order
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Lines.Device").
		Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error
	return orders, total, err
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uint, status domain.OrderStatus) error {
	res := r.db.WithContext(ctx).Model(&domain.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *orderRepository) DeleteLines(ctx context.Context, orderID uint) error {
	return r.db.WithContext(ctx).Where("order_id = ?", orderID).Delete(&domain.OrderLine{}).Error
}

func (r *orderRepository) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&domain.Order{}, id)
	return res.RowsAffected, res.Error
}

func (r *orderRepository) IDsByUser(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&domain.Order{}).Where("user_id = ?", userID).Pluck("id", &ids).Error
	return ids, err
}

func (r *orderRepository) CountLinesForDevice(ctx context.Context, deviceID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.OrderLine{}).Where("device_id = ?", deviceID).Count(&count).Error
	return count, err
}
