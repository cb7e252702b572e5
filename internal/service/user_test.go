package service

import (
	"context" // Request context
	"fmt"     // Unique emails
	"sync"    // Concurrent guards
	"testing" // Go's testing package

	"online_shop/internal/apperr" // Error taxonomy
	"online_shop/internal/auth"   // Caller identity
	"online_shop/internal/domain" // Importing domain models

	"github.com/stretchr/testify/assert"  // For assertions
	"github.com/stretchr/testify/require" // Fatal assertions
)

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.users.Register(ctx, nil, "  A@B.com ", "secret1", "")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "a@b.com", res.User.Email)
	assert.Equal(t, domain.RoleUser, res.User.Role)
	assert.Equal(t, int64(1), f.count(t, &domain.Basket{}))

	_, err = f.users.Register(ctx, nil, "a@b.com", "secret1", "")
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))

	login, err := f.users.Login(ctx, "A@b.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, login.User.ID)

	_, err = f.users.Login(ctx, "a@b.com", "wrongpass")
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
	_, err = f.users.Login(ctx, "nobody@b.com", "secret1")
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
		role     string
	}{
		{"missing email", "", "secret1", ""},
		{"bad email", "not-an-email", "secret1", ""},
		{"short password", "a@b.com", "12345", ""},
		{"unknown role", "a@b.com", "secret1", "ROOT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.users.Register(ctx, nil, tt.email, tt.password, tt.role)
			assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
		})
	}
	assert.Zero(t, f.count(t, &domain.User{}))
}

func TestRegisterAdminRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.register(t, "a@b.com")

	_, err := f.users.Register(ctx, nil, "x@b.com", "secret1", "ADMIN")
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	_, err = f.users.Register(ctx, user, "x@b.com", "secret1", "ADMIN")
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	admin := f.admin(t)
	res, err := f.users.Register(ctx, admin, "x@b.com", "secret1", "admin")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, res.User.Role)
}

func TestInitAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.users.InitAdmin(ctx, "root@b.com", "secret1", "wrong")
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	res, err := f.users.InitAdmin(ctx, "root@b.com", "secret1", "bootstrap")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, res.User.Role)

	// Only the first admin can be bootstrapped
	_, err = f.users.InitAdmin(ctx, "second@b.com", "secret1", "bootstrap")
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	disabled := NewUserService(f.store, f.users.tokens, nil, "")
	_, err = disabled.InitAdmin(ctx, "third@b.com", "secret1", "")
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestRefreshReflectsCurrentRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.register(t, "a@b.com")
	admin := f.admin(t)

	role := "ADMIN"
	_, err := f.users.Update(ctx, admin, user.UserID, UserPatch{Role: &role})
	require.NoError(t, err)

	res, err := f.users.Refresh(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, res.User.Role)
	claims, err := f.users.tokens.Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, claims.Role)

	_, err = f.users.Refresh(ctx, &auth.Identity{UserID: 9999, Role: domain.RoleUser})
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestUserUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.register(t, "a@b.com")
	other := f.register(t, "other@b.com")
	admin := f.admin(t)

	email := "new@b.com"
	_, err := f.users.Update(ctx, other, user.UserID, UserPatch{Email: &email})
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	view, err := f.users.Update(ctx, user, user.UserID, UserPatch{Email: &email})
	require.NoError(t, err)
	assert.Equal(t, "new@b.com", view.Email)

	taken := "other@b.com"
	_, err = f.users.Update(ctx, user, user.UserID, UserPatch{Email: &taken})
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))

	role := "ADMIN"
	_, err = f.users.Update(ctx, user, user.UserID, UserPatch{Role: &role})
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	demote := "USER"
	_, err = f.users.Update(ctx, admin, admin.UserID, UserPatch{Role: &demote})
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))

	password := "changed1"
	_, err = f.users.Update(ctx, user, user.UserID, UserPatch{Password: &password})
	require.NoError(t, err)
	_, err = f.users.Login(ctx, "new@b.com", "changed1")
	assert.NoError(t, err)
}

func TestUserDeleteCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.register(t, "a@b.com")
	other := f.register(t, "other@b.com")
	phone := f.device(t, "phone", 100)

	placeOrder(t, f, user, phone.ID)
	_, _, err := f.baskets.Add(ctx, user.UserID, phone.ID)
	require.NoError(t, err)
	_, err = f.ratings.Rate(ctx, user.UserID, phone.ID, 5, "great")
	require.NoError(t, err)

	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(f.users.Delete(ctx, other, user.UserID)))
	require.NoError(t, f.users.Delete(ctx, user, user.UserID))

	assert.Equal(t, int64(1), f.count(t, &domain.User{}))
	assert.Equal(t, int64(1), f.count(t, &domain.Basket{}))
	assert.Zero(t, f.count(t, &domain.BasketLine{}))
	assert.Zero(t, f.count(t, &domain.Order{}))
	assert.Zero(t, f.count(t, &domain.OrderLine{}))
	assert.Zero(t, f.count(t, &domain.Rating{}))

	device, err := f.catalog.GetDevice(ctx, phone.ID)
	require.NoError(t, err)
	assert.Zero(t, device.Rating)
}

func TestUserList(t *testing.T) {
	f := newFixture(t)
	f.register(t, "a@b.com")
	f.register(t, "b@b.com")
	f.register(t, "c@b.com")

	page, err := f.users.List(context.Background(), 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.Page)
	require.Len(t, page.Users, 1)
	assert.Equal(t, "c@b.com", page.Users[0].Email)
}

func TestInitAdminConcurrentCreatesOneAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const n = 5
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.users.InitAdmin(ctx, fmt.Sprintf("root%d@b.com", i), "secret1", "bootstrap")
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	created := 0
	for err := range errs {
		if err == nil {
			created++
			continue
		}
		assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	}
	assert.Equal(t, 1, created)
	var admins int64
	require.NoError(t, f.db.Model(&domain.User{}).Where("role = ?", domain.RoleAdmin).Count(&admins).Error)
	assert.Equal(t, int64(1), admins)
}

func TestConcurrentAdminDeletesKeepOneAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.admin(t)
	res, err := f.users.Register(ctx, first, "second@shop.test", "secret1", "ADMIN")
	require.NoError(t, err)
	second := &auth.Identity{UserID: res.User.ID, Email: res.User.Email, Role: res.User.Role}

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for _, id := range []*auth.Identity{first, second} {
		wg.Add(1)
		go func(id *auth.Identity) {
			defer wg.Done()
			errs <- f.users.Delete(ctx, id, id.UserID)
		}(id)
	}
	wg.Wait()
	close(errs)

	failed := 0
	for err := range errs {
		if err != nil {
			failed++
			assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
		}
	}
	assert.Equal(t, 1, failed)
	var admins int64
	require.NoError(t, f.db.Model(&domain.User{}).Where("role = ?", domain.RoleAdmin).Count(&admins).Error)
	assert.Equal(t, int64(1), admins)
}
