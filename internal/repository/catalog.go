package repository

import (
	"context" // Request scoped cancellation

	"online_shop/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

type catalogRepository struct {
	db *gorm.DB
}

func (r *catalogRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Type").Preload("Brand").Preload("Infos")
}

func (r *catalogRepository) FindDevice(ctx context.Context, id uint) (*domain.Device, error) {
	var device domain.Device
	if err := r.withRelations(ctx).First(&device, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &device, nil
}

func (r *catalogRepository) FindDeviceByName(ctx context.Context, name string) (*domain.Device, error) {
	var device domain.Device
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&device).Error; err != nil {
		return nil, notFound(err)
	}
	return &device, nil
}

func (r *catalogRepository) ListDevices(ctx context.Context, filter DeviceFilter) ([]domain.Device, int64, error) {
	filtered := func(db *gorm.DB) *gorm.DB {
		if filter.TypeID > 0 {
			db = db.Where("type_id = ?", filter.TypeID) // Filter by type
		}
		if filter.BrandID > 0 {
			db = db.Where("brand_id = ?", filter.BrandID) // Filter by brand
		}
		return db
	}
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Device{}).Scopes(filtered).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var devices []domain.Device
	err := r.withRelations(ctx).Scopes(filtered).
		Order("id").Offset(filter.Offset).Limit(filter.Limit).
		Find(&devices).Error
	return devices, total, err
}

func (r *catalogRepository) CreateDevice(ctx context.Context, device *domain.Device) error {
	// Infos are created through the association; type and brand must already exist
	return r.db.WithContext(ctx).Omit("Type", "Brand").Create(device).Error
}

func (r *catalogRepository) UpdateDevice(ctx context.Context, id uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&domain.Device{}).Where("id = ?", id).Updates(fields).Error
}

func (r *catalogRepository) ReplaceInfos(ctx context.Context, deviceID uint, infos []domain.DeviceInfo) error {
	if err := r.db.WithContext(ctx).Where("device_id = ?", deviceID).Delete(&domain.DeviceInfo{}).Error; err != nil {
		return err
	}
	if len(infos) == 0 {
		return nil
	}
	for i := range infos {
		infos[i].ID = 0
		infos[i].DeviceID = deviceID
	}
	return r.db.WithContext(ctx).Create(&infos).Error
}

func (r *catalogRepository) DeleteDevice(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Where("device_id = ?", id).Delete(&domain.DeviceInfo{}).Error; err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Delete(&domain.Device{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *catalogRepository) SetRating(ctx context.Context, deviceID uint, rating int) error {
	return r.db.WithContext(ctx).Model(&domain.Device{}).Where("id = ?", deviceID).Update("rating", rating).Error
}

func (r *catalogRepository) CountByBrand(ctx context.Context, brandID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Device{}).Where("brand_id = ?", brandID).Count(&count).Error
	return count, err
}

func (r *catalogRepository) CountByType(ctx context.Context, typeID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Device{}).Where("type_id = ?", typeID).Count(&count).Error
	return count, err
}

// nameRepository serves brands and types, which share the id + unique name shape
type nameRepository[T Named] struct {
	db *gorm.DB
}

func (r *nameRepository[T]) List(ctx context.Context) ([]T, error) {
	var items []T
	err := r.db.WithContext(ctx).Order("name").Find(&items).Error
	return items, err
}

func (r *nameRepository[T]) FindByID(ctx context.Context, id uint) (*T, error) {
	var item T
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}

func (r *nameRepository[T]) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(new(T)).Where("name = ?", name).Count(&count).Error
	return count > 0, err
}

func (r *nameRepository[T]) Create(ctx context.Context, name string) (*T, error) {
	if err := r.db.WithContext(ctx).Model(new(T)).Create(map[string]any{"name": name}).Error; err != nil {
		return nil, err
	}
	var item T
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&item).Error; err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}

// Rename does not report missing rows: MySQL counts an unchanged name as zero rows affected
func (r *nameRepository[T]) Rename(ctx context.Context, id uint, name string) error {
	return r.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Update("name", name).Error
}

func (r *nameRepository[T]) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(new(T), id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
