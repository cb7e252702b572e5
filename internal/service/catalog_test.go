package service

import (
	"context" // Request context
	"strings" // Long names
	"testing" // Go's testing package

	"online_shop/internal/apperr" // Error taxonomy
	"online_shop/internal/domain" // Importing domain models

	"github.com/stretchr/testify/assert"  // For assertions
	"github.com/stretchr/testify/require" // Fatal assertions
)

func TestCreateDeviceValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	phone := f.device(t, "phone", 100)

	valid := DeviceInput{Name: "tablet", Price: 10, TypeID: phone.TypeID, BrandID: phone.BrandID, Img: "tablet.jpg"}
	tests := []struct {
		name   string
		mutate func(in *DeviceInput)
		kind   apperr.Kind
	}{
		{"missing name", func(in *DeviceInput) { in.Name = "  " }, apperr.KindBadRequest},
		{"zero price", func(in *DeviceInput) { in.Price = 0 }, apperr.KindBadRequest},
		{"missing type", func(in *DeviceInput) { in.TypeID = 0 }, apperr.KindBadRequest},
		{"missing image", func(in *DeviceInput) { in.Img = "" }, apperr.KindBadRequest},
		{"empty info", func(in *DeviceInput) { in.Info = []InfoInput{{Title: "Color"}} }, apperr.KindBadRequest},
		{"duplicate name", func(in *DeviceInput) { in.Name = "phone" }, apperr.KindBadRequest},
		{"unknown brand", func(in *DeviceInput) { in.BrandID = 999 }, apperr.KindNotFound},
		{"unknown type", func(in *DeviceInput) { in.TypeID = 999 }, apperr.KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			_, err := f.catalog.CreateDevice(ctx, in)
			assert.Equal(t, tt.kind, apperr.KindOf(err))
		})
	}
	assert.Equal(t, int64(1), f.count(t, &domain.Device{}))
}

func TestGetDeviceLoadsRelations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	phone := f.device(t, "phone", 100)

	got, err := f.catalog.GetDevice(ctx, phone.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Brand)
	require.NotNil(t, got.Type)
	assert.Equal(t, "brand-phone", got.Brand.Name)
	assert.Equal(t, "type-phone", got.Type.Name)
	require.Len(t, got.Infos, 1)
	assert.Equal(t, "Color", got.Infos[0].Title)

	_, err = f.catalog.GetDevice(ctx, phone.ID+100)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestListDevicesFiltersAndCounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	apple, err := f.brands.Create(ctx, "Apple")
	require.NoError(t, err)
	samsung, err := f.brands.Create(ctx, "Samsung")
	require.NoError(t, err)
	phones, err := f.types.Create(ctx, "Phones")
	require.NoError(t, err)

	for _, d := range []struct {
		name  string
		brand uint
	}{{"iPhone 15", apple.ID}, {"iPhone 16", apple.ID}, {"Galaxy S24", samsung.ID}} {
		_, err := f.catalog.CreateDevice(ctx, DeviceInput{Name: d.name, Price: 1000, TypeID: phones.ID, BrandID: d.brand, Img: "x.jpg"})
		require.NoError(t, err)
	}

	page, err := f.catalog.ListDevices(ctx, 0, apple.ID, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Count)
	require.Len(t, page.Rows, 1)
	assert.Equal(t, "iPhone 16", page.Rows[0].Name)

	page, err = f.catalog.ListDevices(ctx, phones.ID, 0, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Count)
	assert.Len(t, page.Rows, 3)

	page, err = f.catalog.ListDevices(ctx, phones.ID+1, 0, 0, 0)
	require.NoError(t, err)
	assert.Zero(t, page.Count)
	assert.NotNil(t, page.Rows)
}

func TestUpdateDevice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	phone := f.device(t, "phone", 100)
	f.device(t, "tablet", 200)

	taken := "tablet"
	_, err := f.catalog.UpdateDevice(ctx, phone.ID, DevicePatch{Name: &taken})
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))

	missing := uint(999)
	_, err = f.catalog.UpdateDevice(ctx, phone.ID, DevicePatch{BrandID: &missing})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	name := "phone pro"
	infos := []InfoInput{{Title: "Memory", Description: "256GB"}, {Title: "Color", Description: "Blue"}}
	got, err := f.catalog.UpdateDevice(ctx, phone.ID, DevicePatch{Name: &name, Info: &infos})
	require.NoError(t, err)
	assert.Equal(t, "phone pro", got.Name)
	assert.Equal(t, int64(100), got.Price)
	assert.Len(t, got.Infos, 2)
	assert.Equal(t, int64(3), f.count(t, &domain.DeviceInfo{}))
}

func TestDeleteDevice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.register(t, "a@b.com")
	ordered := f.device(t, "ordered", 100)
	spare := f.device(t, "spare", 100)

	placeOrder(t, f, user, ordered.ID)
	err := f.catalog.DeleteDevice(ctx, ordered.ID)
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))

	_, _, err = f.baskets.Add(ctx, user.UserID, spare.ID)
	require.NoError(t, err)
	_, err = f.ratings.Rate(ctx, user.UserID, spare.ID, 4, "")
	require.NoError(t, err)

	require.NoError(t, f.catalog.DeleteDevice(ctx, spare.ID))
	assert.Empty(t, f.basketLines(t, user.UserID))
	assert.Zero(t, f.count(t, &domain.Rating{}))
	assert.Equal(t, int64(1), f.count(t, &domain.DeviceInfo{}))

	err = f.catalog.DeleteDevice(ctx, spare.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestNamedService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.brands.Create(ctx, " ")
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
	_, err = f.brands.Create(ctx, strings.Repeat("x", 51))
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))

	apple, err := f.brands.Create(ctx, "Apple")
	require.NoError(t, err)
	_, err = f.brands.Create(ctx, "Apple")
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
	_, err = f.brands.Create(ctx, "Samsung")
	require.NoError(t, err)

	list, err := f.brands.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Apple", list[0].Name)

	renamed, err := f.brands.Rename(ctx, apple.ID, "Apple Inc")
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc", renamed.Name)
	_, err = f.brands.Rename(ctx, apple.ID, "Samsung")
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
	_, err = f.brands.Rename(ctx, 999, "Nokia")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = f.types.Get(ctx, 999)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestNamedDeleteInUse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	phone := f.device(t, "phone", 100)

	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(f.brands.Delete(ctx, phone.BrandID)))
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(f.types.Delete(ctx, phone.TypeID)))

	require.NoError(t, f.catalog.DeleteDevice(ctx, phone.ID))
	require.NoError(t, f.brands.Delete(ctx, phone.BrandID))
	require.NoError(t, f.types.Delete(ctx, phone.TypeID))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(f.brands.Delete(ctx, phone.BrandID)))
}
