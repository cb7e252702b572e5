package service

import (
	"context" // Request context
	"fmt"     // Unique names
	"strings" // Name sanitizing
	"testing" // Go's testing package

	"online_shop/internal/auth"       // Caller identity
	"online_shop/internal/db"         // In-memory database
	"online_shop/internal/domain"     // Importing domain models
	"online_shop/internal/metrics"    // Shop counters
	"online_shop/internal/repository" // Persistence
	"online_shop/internal/utils"      // Tokens and cache

	"github.com/stretchr/testify/require" // Fatal assertions
	"gorm.io/gorm"                        // GORM ORM library
)

// fixture wires every service to a fresh in-memory database
type fixture struct {
	db       *gorm.DB
	store    repository.Store
	users    *UserService
	baskets  *BasketService
	checkout *CheckoutService
	orders   *OrderService
	ratings  *RatingService
	catalog  *CatalogService
	brands   *NamedService[domain.Brand]
	types    *NamedService[domain.DeviceType]
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	conn, err := db.OpenMemory(name)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	store := repository.NewGormStore(conn)
	loader := utils.NewLoader(utils.NoopCache{}, 0)
	m := metrics.New()
	tokens := utils.NewTokenManager("test-secret", 0)
	return &fixture{
		db:       conn,
		store:    store,
		users:    NewUserService(store, tokens, loader, "bootstrap"),
		baskets:  NewBasketService(store, m),
		checkout: NewCheckoutService(store, m),
		orders:   NewOrderService(store, m),
		ratings:  NewRatingService(store, loader),
		catalog:  NewCatalogService(store, loader),
		brands:   NewBrandService(store, loader),
		types:    NewTypeService(store, loader),
	}
}

// register creates a user with a basket and returns its identity
func (f *fixture) register(t *testing.T, email string) *auth.Identity {
	t.Helper()
	res, err := f.users.Register(context.Background(), nil, email, "secret1", "")
	require.NoError(t, err)
	return &auth.Identity{UserID: res.User.ID, Email: res.User.Email, Role: res.User.Role}
}

// admin creates an admin account through the bootstrap path
func (f *fixture) admin(t *testing.T) *auth.Identity {
	t.Helper()
	res, err := f.users.InitAdmin(context.Background(), "admin@shop.test", "adminpass", "bootstrap")
	require.NoError(t, err)
	return &auth.Identity{UserID: res.User.ID, Email: res.User.Email, Role: res.User.Role}
}

// device creates a device priced price, creating its brand and type on first use
func (f *fixture) device(t *testing.T, name string, price int64) *domain.Device {
	t.Helper()
	ctx := context.Background()
	brand, err := f.brands.Create(ctx, fmt.Sprintf("brand-%s", name))
	require.NoError(t, err)
	typ, err := f.types.Create(ctx, fmt.Sprintf("type-%s", name))
	require.NoError(t, err)
	d, err := f.catalog.CreateDevice(ctx, DeviceInput{
		Name:    name,
		Price:   price,
		TypeID:  typ.ID,
		BrandID: brand.ID,
		Img:     name + ".jpg",
		Info:    []InfoInput{{Title: "Color", Description: "Black"}},
	})
	require.NoError(t, err)
	return d
}

// basketLines reads the raw basket lines of a user
func (f *fixture) basketLines(t *testing.T, userID uint) []domain.BasketLine {
	t.Helper()
	var lines []domain.BasketLine
	sub := f.db.Model(&domain.Basket{}).Select("id").Where("user_id = ?", userID)
	require.NoError(t, f.db.Where("basket_id IN (?)", sub).Find(&lines).Error)
	return lines
}

func (f *fixture) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Count(&n).Error)
	return n
}
