package service

import (
	"time" // Timestamps

	"online_shop/internal/domain" // Importing domain models

	"github.com/shopspring/decimal" // Minor-unit to display conversion
)

// BasketItem is one basket line joined with its device
type BasketItem struct {
	DeviceID uint   `json:"deviceId"`        // Device ID
	Name     string `json:"name"`            // Device name
	Price    int64  `json:"price"`           // Current unit price, minor units
	Img      string `json:"img"`             // Device image path
	BrandID  uint   `json:"brandId"`         // Brand ID
	TypeID   uint   `json:"typeId"`          // Type ID
	Brand    string `json:"brand,omitempty"` // Brand name
	Type     string `json:"type,omitempty"`  // Type name
	Quantity int    `json:"quantity"`        // Units in the basket
}

func toBasketItems(lines []domain.BasketLine) []BasketItem {
	items := make([]BasketItem, 0, len(lines))
	for _, l := range lines {
		item := BasketItem{DeviceID: l.DeviceID, Quantity: l.Quantity}
		if d := l.Device; d != nil {
			item.Name, item.Price, item.Img = d.Name, d.Price, d.Img
			item.BrandID, item.TypeID = d.BrandID, d.TypeID
			if d.Brand != nil {
				item.Brand = d.Brand.Name
			}
			if d.Type != nil {
				item.Type = d.Type.Name
			}
		}
		items = append(items, item)
	}
	return items
}

// OrderDevice is one purchased device of an order
type OrderDevice struct {
	ID       uint   `json:"id"`       // Device ID
	Name     string `json:"name"`     // Device name
	Price    int64  `json:"price"`    // Unit price at checkout
	Img      string `json:"img"`      // Device image path
	Quantity int    `json:"quantity"` // Units purchased
}

// OrderOwner identifies the buyer in admin views
type OrderOwner struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
}

// OrderView is the client representation of an order
type OrderView struct {
	ID             uint               `json:"id"`
	User           *OrderOwner        `json:"user,omitempty"`
	Total          int64              `json:"total"`          // Minor units
	TotalFormatted string             `json:"totalFormatted"` // Major units, two decimals
	Address        string             `json:"address"`
	Status         domain.OrderStatus `json:"status"`
	CreatedAt      time.Time          `json:"createdAt"`
	Devices        []OrderDevice      `json:"devices"`
}

// FormatMinor renders an amount in minor units as a fixed two-decimal string
func FormatMinor(amount int64) string {
	return decimal.New(amount, -2).StringFixed(2)
}

func toOrderView(o *domain.Order) OrderView {
	view := OrderView{
		ID:             o.ID,
		Total:          o.Total,
		TotalFormatted: FormatMinor(o.Total),
		Address:        o.Address,
		Status:         o.Status,
		CreatedAt:      o.CreatedAt,
		Devices:        make([]OrderDevice, 0, len(o.Lines)),
	}
	if o.User != nil {
		view.User = &OrderOwner{ID: o.User.ID, Email: o.User.Email}
	}
	for _, l := range o.Lines {
		d := OrderDevice{ID: l.DeviceID, Price: l.Price, Quantity: l.Quantity}
		if l.Device != nil {
			d.Name, d.Img = l.Device.Name, l.Device.Img
		}
		view.Devices = append(view.Devices, d)
	}
	return view
}

func toOrderViews(orders []domain.Order) []OrderView {
	views := make([]OrderView, 0, len(orders))
	for i := range orders {
		views = append(views, toOrderView(&orders[i]))
	}
	return views
}

// UserView is the public representation of a user
type UserView struct {
	ID    uint        `json:"id"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

func toUserView(u *domain.User) UserView {
	return UserView{ID: u.ID, Email: u.Email, Role: u.Role}
}

// AuthResult is returned by registration, login and token refresh
type AuthResult struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
}
