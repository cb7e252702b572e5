package service

import (
	"context" // Request scoped cancellation
	"errors"  // Error inspection
	"fmt"     // Cache keys
	"strings" // Name normalization

	"online_shop/internal/apperr"     // Error taxonomy
	"online_shop/internal/domain"     // Importing domain models
	"online_shop/internal/repository" // Persistence
	"online_shop/internal/utils"      // Read-through cache

	"github.com/sirupsen/logrus" // Structured logging
)

const (
	defaultDeviceLimit = 10
	maxDeviceLimit     = 100

	deviceKeyPrefix     = "catalog:device:"  // One device by id
	deviceListKeyPrefix = "catalog:devices:" // Filtered device pages
)

// catalogCache names and drops the cached catalog reads
type catalogCache struct {
	loader *utils.Loader
}

func deviceKey(id uint) string { return fmt.Sprintf("%s%d", deviceKeyPrefix, id) }

// devices drops the given devices and every cached listing
func (c catalogCache) devices(ctx context.Context, ids ...uint) {
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, deviceKey(id))
	}
	c.loader.Invalidate(ctx, keys, deviceListKeyPrefix)
}

// everything drops all catalog entries; brand and type renames show up inside devices
func (c catalogCache) everything(ctx context.Context) {
	c.loader.Invalidate(ctx, nil, "catalog:")
}

// InfoInput is one characteristic of a device
type InfoInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// DeviceInput creates a device
type DeviceInput struct {
	Name    string      `json:"name"`
	Price   int64       `json:"price"`
	TypeID  uint        `json:"typeId"`
	BrandID uint        `json:"brandId"`
	Img     string      `json:"img"`
	Info    []InfoInput `json:"info"`
}

// DevicePatch updates the non-nil fields of a device. A non-nil Info replaces all characteristics.
type DevicePatch struct {
	Name    *string      `json:"name"`
	Price   *int64       `json:"price"`
	TypeID  *uint        `json:"typeId"`
	BrandID *uint        `json:"brandId"`
	Img     *string      `json:"img"`
	Info    *[]InfoInput `json:"info"`
}

// DevicePage is one page of the device listing
type DevicePage struct {
	Count int64           `json:"count"`
	Rows  []domain.Device `json:"rows"`
}

// CatalogService manages devices. Reads go through the cache, writes invalidate it.
type CatalogService struct {
	store repository.Store
	cache catalogCache
}

func NewCatalogService(store repository.Store, loader *utils.Loader) *CatalogService {
	return &CatalogService{store: store, cache: catalogCache{loader: loader}}
}

// ListDevices returns a filtered page of devices with the total match count
func (s *CatalogService) ListDevices(ctx context.Context, typeID, brandID uint, limit, page int) (*DevicePage, error) {
	offset, limit := pageBounds(page, limit, defaultDeviceLimit, maxDeviceLimit)
	key := fmt.Sprintf("%stype=%d:brand=%d:offset=%d:limit=%d", deviceListKeyPrefix, typeID, brandID, offset, limit)

	var out DevicePage
	err := s.cache.loader.Load(ctx, key, &out, func() (any, error) {
		rows, count, err := s.store.Catalog().ListDevices(ctx, repository.DeviceFilter{
			TypeID:  typeID,
			BrandID: brandID,
			Offset:  offset,
			Limit:   limit,
		})
		if err != nil {
			return nil, err
		}
		if rows == nil {
			rows = []domain.Device{}
		}
		return DevicePage{Count: count, Rows: rows}, nil
	})
	if err != nil {
		return nil, apperr.Wrap(err, "Failed to load devices")
	}
	return &out, nil
}

// GetDevice returns one device with type, brand and characteristics
func (s *CatalogService) GetDevice(ctx context.Context, id uint) (*domain.Device, error) {
	var out domain.Device
	err := s.cache.loader.Load(ctx, deviceKey(id), &out, func() (any, error) {
		return s.store.Catalog().FindDevice(ctx, id)
	})
	if err != nil {
		return nil, apperr.Wrap(orNotFound(err, "id", "Device not found"), "Failed to load device")
	}
	return &out, nil
}

func validateInfos(infos []InfoInput) ([]domain.DeviceInfo, error) {
	out := make([]domain.DeviceInfo, 0, len(infos))
	for _, i := range infos {
		title, desc := strings.TrimSpace(i.Title), strings.TrimSpace(i.Description)
		if title == "" || desc == "" {
			return nil, apperr.BadRequest("Each info entry needs a title and a description").WithField("info")
		}
		out = append(out, domain.DeviceInfo{Title: title, Description: desc})
	}
	return out, nil
}

// checkRefs verifies that the referenced type and brand exist
func checkRefs(ctx context.Context, tx repository.Store, typeID, brandID uint) error {
	if _, err := tx.Types().FindByID(ctx, typeID); err != nil {
		return orNotFound(err, "typeId", "Type not found")
	}
	if _, err := tx.Brands().FindByID(ctx, brandID); err != nil {
		return orNotFound(err, "brandId", "Brand not found")
	}
	return nil
}

// CreateDevice adds a device with its characteristics
func (s *CatalogService) CreateDevice(ctx context.Context, in DeviceInput) (*domain.Device, error) {
	in.Name, in.Img = strings.TrimSpace(in.Name), strings.TrimSpace(in.Img)
	switch {
	case in.Name == "":
		return nil, apperr.BadRequest("Device name is required").WithField("name")
	case in.Price <= 0:
		return nil, apperr.BadRequest("Price must be a positive integer").WithField("price")
	case in.TypeID == 0:
		return nil, apperr.BadRequest("Invalid typeId").WithField("typeId")
	case in.BrandID == 0:
		return nil, apperr.BadRequest("Invalid brandId").WithField("brandId")
	case in.Img == "":
		return nil, apperr.BadRequest("Device image is required").WithField("img")
	}
	infos, err := validateInfos(in.Info)
	if err != nil {
		return nil, err
	}

	var device *domain.Device
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := tx.Catalog().FindDeviceByName(ctx, in.Name); err == nil {
			return apperr.BadRequest("Device with this name already exists").WithField("name")
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		if err := checkRefs(ctx, tx, in.TypeID, in.BrandID); err != nil {
			return err
		}
		d := &domain.Device{Name: in.Name, Price: in.Price, TypeID: in.TypeID, BrandID: in.BrandID, Img: in.Img, Infos: infos}
		if err := tx.Catalog().CreateDevice(ctx, d); err != nil {
			return err
		}
		var err error
		device, err = tx.Catalog().FindDevice(ctx, d.ID)
		return err
	})
	if err != nil {
		return nil, apperr.Wrap(err, "Failed to create device")
	}

	s.cache.devices(ctx)
	logrus.WithFields(logrus.Fields{"device_id": device.ID, "name": device.Name}).Info("Device created")
	return device, nil
}

// UpdateDevice applies a partial update
func (s *CatalogService) UpdateDevice(ctx context.Context, id uint, patch DevicePatch) (*domain.Device, error) {
	fields := map[string]any{}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, apperr.BadRequest("Device name is required").WithField("name")
		}
		fields["name"] = name
	}
	if patch.Price != nil {
		if *patch.Price <= 0 {
			return nil, apperr.BadRequest("Price must be a positive integer").WithField("price")
		}
		fields["price"] = *patch.Price
	}
	if patch.TypeID != nil {
		if *patch.TypeID == 0 {
			return nil, apperr.BadRequest("Invalid typeId").WithField("typeId")
		}
		fields["type_id"] = *patch.TypeID
	}
	if patch.BrandID != nil {
		if *patch.BrandID == 0 {
			return nil, apperr.BadRequest("Invalid brandId").WithField("brandId")
		}
		fields["brand_id"] = *patch.BrandID
	}
	if patch.Img != nil {
		img := strings.TrimSpace(*patch.Img)
		if img == "" {
			return nil, apperr.BadRequest("Device image is required").WithField("img")
		}
		fields["img"] = img
	}
	var infos []domain.DeviceInfo
	if patch.Info != nil {
		var err error
		if infos, err = validateInfos(*patch.Info); err != nil {
			return nil, err
		}
	}

	var device *domain.Device
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		current, err := tx.Catalog().FindDevice(ctx, id)
		if err != nil {
			return orNotFound(err, "id", "Device not found")
		}
		if name, ok := fields["name"].(string); ok && name != current.Name {
			if _, err := tx.Catalog().FindDeviceByName(ctx, name); err == nil {
				return apperr.BadRequest("Device with this name already exists").WithField("name")
			} else if !errors.Is(err, repository.ErrNotFound) {
				return err
			}
		}
		typeID, brandID := current.TypeID, current.BrandID
		if patch.TypeID != nil {
			typeID = *patch.TypeID
		}
		if patch.BrandID != nil {
			brandID = *patch.BrandID
		}
		if err := checkRefs(ctx, tx, typeID, brandID); err != nil {
			return err
		}
		if err := tx.Catalog().UpdateDevice(ctx, id, fields); err != nil {
			return err
		}
		if patch.Info != nil {
			if err := tx.Catalog().ReplaceInfos(ctx, id, infos); err != nil {
				return err
			}
		}
		device, err = tx.Catalog().FindDevice(ctx, id)
		return err
	})
	if err != nil {
		return nil, apperr.Wrap(err, "Failed to update device")
	}

	s.cache.devices(ctx, id)
	logrus.WithFields(logrus.Fields{"device_id": id}).Info("Device updated")
	return device, nil
}

// DeleteDevice removes a device with its characteristics, ratings and basket lines.
// Devices that appear in orders cannot be deleted.
func (s *CatalogService) DeleteDevice(ctx context.Context, id uint) error {
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := tx.Catalog().FindDevice(ctx, id); err != nil {
			return orNotFound(err, "id", "Device not found")
		}
		ordered, err := tx.Orders().CountLinesForDevice(ctx, id)
		if err != nil {
			return err
		}
		if ordered > 0 {
			return apperr.BadRequest("Device is referenced by orders and cannot be deleted").WithField("id")
		}
		if err := tx.Baskets().DeleteLinesForDevice(ctx, id); err != nil {
			return err
		}
		if err := tx.Ratings().DeleteByDevice(ctx, id); err != nil {
			return err
		}
		return tx.Catalog().DeleteDevice(ctx, id)
	})
	if err != nil {
		return apperr.Wrap(orNotFound(err, "id", "Device not found"), "Failed to delete device")
	}

	s.cache.devices(ctx, id)
	logrus.WithFields(logrus.Fields{"device_id": id}).Info("Device deleted")
	return nil
}

// NamedService manages brands or types, which differ only in table and label
type NamedService[T repository.Named] struct {
	store repository.Store
	cache catalogCache
	label string                                              // "Brand" or "Type"
	repo  func(repository.Store) repository.NameRepository[T] // Picks the repository on a Store
	inUse func(context.Context, repository.Store, uint) (int64, error)
}

// NewBrandService creates the brand service
func NewBrandService(store repository.Store, loader *utils.Loader) *NamedService[domain.Brand] {
	return &NamedService[domain.Brand]{
		store: store,
		cache: catalogCache{loader: loader},
		label: "Brand",
		repo:  func(s repository.Store) repository.NameRepository[domain.Brand] { return s.Brands() },
		inUse: func(ctx context.Context, s repository.Store, id uint) (int64, error) {
			return s.Catalog().CountByBrand(ctx, id)
		},
	}
}

// NewTypeService creates the device type service
func NewTypeService(store repository.Store, loader *utils.Loader) *NamedService[domain.DeviceType] {
	return &NamedService[domain.DeviceType]{
		store: store,
		cache: catalogCache{loader: loader},
		label: "Type",
		repo:  func(s repository.Store) repository.NameRepository[domain.DeviceType] { return s.Types() },
		inUse: func(ctx context.Context, s repository.Store, id uint) (int64, error) {
			return s.Catalog().CountByType(ctx, id)
		},
	}
}

func (s *NamedService[T]) listKey() string {
	return "catalog:" + strings.ToLower(s.label) + "s"
}

// List returns every entry ordered by name
func (s *NamedService[T]) List(ctx context.Context) ([]T, error) {
	var out []T
	err := s.cache.loader.Load(ctx, s.listKey(), &out, func() (any, error) {
		items, err := s.repo(s.store).List(ctx)
		if items == nil {
			items = []T{}
		}
		return items, err
	})
	if err != nil {
		return nil, apperr.Wrap(err, fmt.Sprintf("Failed to load %ss", strings.ToLower(s.label)))
	}
	return out, nil
}

// Get returns one entry
func (s *NamedService[T]) Get(ctx context.Context, id uint) (*T, error) {
	item, err := s.repo(s.store).FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Wrap(orNotFound(err, "id", "%s not found", s.label), "Failed to load "+strings.ToLower(s.label))
	}
	return item, nil
}

func (s *NamedService[T]) validName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperr.BadRequest("%s name is required", s.label).WithField("name")
	}
	if len(name) > maxNameLen {
		return "", apperr.BadRequest("%s name must not exceed %d characters", s.label, maxNameLen).WithField("name")
	}
	return name, nil
}

// Create adds an entry with a unique name
func (s *NamedService[T]) Create(ctx context.Context, name string) (*T, error) {
	name, err := s.validName(name)
	if err != nil {
		return nil, err
	}
	var item *T
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		exists, err := s.repo(tx).ExistsByName(ctx, name)
		if err != nil {
			return err
		}
		if exists {
			return apperr.BadRequest("%s with this name already exists", s.label).WithField("name")
		}
		item, err = s.repo(tx).Create(ctx, name)
		return err
	})
	if err != nil {
		return nil, apperr.Wrap(err, "Failed to create "+strings.ToLower(s.label))
	}
	s.cache.loader.Invalidate(ctx, []string{s.listKey()})
	logrus.WithFields(logrus.Fields{"kind": s.label, "name": name}).Info("Catalog entry created")
	return item, nil
}

// Rename changes the name of an entry
func (s *NamedService[T]) Rename(ctx context.Context, id uint, name string) (*T, error) {
	name, err := s.validName(name)
	if err != nil {
		return nil, err
	}
	var item *T
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := s.repo(tx).FindByID(ctx, id); err != nil {
			return orNotFound(err, "id", "%s not found", s.label)
		}
		exists, err := s.repo(tx).ExistsByName(ctx, name)
		if err != nil {
			return err
		}
		if exists {
			return apperr.BadRequest("%s with this name already exists", s.label).WithField("name")
		}
		if err := s.repo(tx).Rename(ctx, id, name); err != nil {
			return err
		}
		item, err = s.repo(tx).FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, apperr.Wrap(err, "Failed to update "+strings.ToLower(s.label))
	}
	s.cache.everything(ctx)
	logrus.WithFields(logrus.Fields{"kind": s.label, "id": id, "name": name}).Info("Catalog entry renamed")
	return item, nil
}

// Delete removes an entry no device refers to
func (s *NamedService[T]) Delete(ctx context.Context, id uint) error {
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		used, err := s.inUse(ctx, tx, id)
		if err != nil {
			return err
		}
		if used > 0 {
			return apperr.BadRequest("%s is used by %d devices", s.label, used).WithField("id")
		}
		return s.repo(tx).Delete(ctx, id)
	})
	if err != nil {
		return apperr.Wrap(orNotFound(err, "id", "%s not found", s.label), "Failed to delete "+strings.ToLower(s.label))
	}
	s.cache.loader.Invalidate(ctx, []string{s.listKey()})
	logrus.WithFields(logrus.Fields{"kind": s.label, "id": id}).Info("Catalog entry deleted")
	return nil
}
