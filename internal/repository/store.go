// Package repository persists the shop's aggregates with GORM. Services depend on the
// interfaces declared here; GormStore is the only production implementation.
package repository

import (
	"context" // Request scoped cancellation
	"errors"  // Error inspection

	"online_shop/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// ErrNotFound is returned when a looked-up record does not exist
var ErrNotFound = errors.New("record not found")

// Store bundles the repositories. Transaction runs fn against a Store bound to a
// single database transaction; fn returning an error rolls everything back.
type Store interface {
	Users() UserRepository
	Baskets() BasketRepository
	Catalog() CatalogRepository
	Brands() NameRepository[domain.Brand]
	Types() NameRepository[domain.DeviceType]
	Orders() OrderRepository
	Ratings() RatingRepository
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

// UserRepository is the credential store
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id uint) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, id uint, fields map[string]any) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]domain.User, int64, error)
	LockByRole(ctx context.Context, role domain.Role) (int64, error) // Must run inside Transaction
}

// BasketRepository persists baskets and their lines
type BasketRepository interface {
	Create(ctx context.Context, userID uint) (*domain.Basket, error)
	FindByUser(ctx context.Context, userID uint) (*domain.Basket, error)
	// LockByUser loads the basket and holds a row lock until the transaction ends.
	LockByUser(ctx context.Context, userID uint) (*domain.Basket, error)
	// Lines returns the basket lines joined with device, brand and type, newest first.
	Lines(ctx context.Context, basketID uint) ([]domain.BasketLine, error)
	// Increment adds one unit of the device, creating the line when absent.
	Increment(ctx context.Context, basketID, deviceID uint) error
	// Decrement removes one unit of the device, deleting the line at quantity one.
	// It reports false when the basket holds no such line.
	Decrement(ctx context.Context, basketID, deviceID uint) (bool, error)
	Clear(ctx context.Context, basketID uint) (int64, error)
	DeleteByUser(ctx context.Context, userID uint) error
	DeleteLinesForDevice(ctx context.Context, deviceID uint) error
}

// DeviceFilter narrows device listings
type DeviceFilter struct {
	TypeID  uint // Zero matches any type
	BrandID uint // Zero matches any brand
	Offset  int
	Limit   int
}

// CatalogRepository persists devices and their characteristics
type CatalogRepository interface {
	FindDevice(ctx context.Context, id uint) (*domain.Device, error)
	FindDeviceByName(ctx context.Context, name string) (*domain.Device, error)
	ListDevices(ctx context.Context, filter DeviceFilter) ([]domain.Device, int64, error)
	CreateDevice(ctx context.Context, device *domain.Device) error
	UpdateDevice(ctx context.Context, id uint, fields map[string]any) error
	ReplaceInfos(ctx context.Context, deviceID uint, infos []domain.DeviceInfo) error
	DeleteDevice(ctx context.Context, id uint) error
	SetRating(ctx context.Context, deviceID uint, rating int) error
	CountByBrand(ctx context.Context, brandID uint) (int64, error)
	CountByType(ctx context.Context, typeID uint) (int64, error)
}

// Named is the set of catalog models identified by a unique name
type Named interface {
	domain.Brand | domain.DeviceType
}

// NameRepository persists a named catalog model
type NameRepository[T Named] interface {
	List(ctx context.Context) ([]T, error)
	FindByID(ctx context.Context, id uint) (*T, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, name string) (*T, error)
	Rename(ctx context.Context, id uint, name string) error
	Delete(ctx context.Context, id uint) error
}

// OrderRepository persists orders and their lines
type OrderRepository interface {
	// Create inserts the order header only.
	Create(ctx context.Context, order *domain.Order) error
	CreateLines(ctx context.Context, lines []domain.OrderLine) error
	// FindByID loads the order with lines and their devices.
	FindByID(ctx context.Context, id uint) (*domain.Order, error)
	ListByUser(ctx context.Context, userID uint) ([]domain.Order, error)
	// ListAll loads orders with their owners, lines and devices, newest first.
	ListAll(ctx context.Context, offset, limit int) ([]domain.Order, int64, error)
	UpdateStatus(ctx context.Context, id uint, status domain.OrderStatus) error
	DeleteLines(ctx context.Context, orderID uint) error
	Delete(ctx context.Context, id uint) (int64, error)
	IDsByUser(ctx context.Context, userID uint) ([]uint, error)
	CountLinesForDevice(ctx context.Context, deviceID uint) (int64, error)
}

// RatingRepository persists device ratings
type RatingRepository interface {
	// Upsert creates the rating or overwrites rate and comment of the existing one.
	Upsert(ctx context.Context, rating *domain.Rating) error
	Find(ctx context.Context, userID, deviceID uint) (*domain.Rating, error)
	AverageForDevice(ctx context.Context, deviceID uint) (float64, error)
	DeviceIDsByUser(ctx context.Context, userID uint) ([]uint, error)
	DeleteByUser(ctx context.Context, userID uint) error
	DeleteByDevice(ctx context.Context, deviceID uint) error
}

// GormStore implements Store on a *gorm.DB
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a GormStore
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Users() UserRepository      { return &userRepository{db: s.db} }
func (s *GormStore) Baskets() BasketRepository  { return &basketRepository{db: s.db} }
func (s *GormStore) Catalog() CatalogRepository { return &catalogRepository{db: s.db} }
func (s *GormStore) Orders() OrderRepository    { return &orderRepository{db: s.db} }
func (s *GormStore) Ratings() RatingRepository  { return &ratingRepository{db: s.db} }

func (s *GormStore) Brands() NameRepository[domain.Brand] {
	return &nameRepository[domain.Brand]{db: s.db}
}

func (s *GormStore) Types() NameRepository[domain.DeviceType] {
	return &nameRepository[domain.DeviceType]{db: s.db}
}

// Transaction runs fn inside one database transaction
func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

// notFound maps GORM's missing-record error onto ErrNotFound
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
