package domain

import (
	"time"

	"github.com/m04kA/SMC-VenueCRM/pkg/money"
)

// AddonService is a catalogue entry (catering, decor, equipment)
type AddonService struct {
	ID        int64
	Name      string
	SalePrice float64
	CostPrice float64
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BookingAddon is an add-on line attached to a booking.
// Prices are copied from the catalogue at attach time.
type BookingAddon struct {
	ID          int64
	BookingID   int64
	ServiceID   int64
	ServiceName string
	Quantity    int
	SalePrice   float64
	CostPrice   float64
	CreatedAt   time.Time
}

// TotalCents returns sale_price * quantity in cents
func (a *BookingAddon) TotalCents() int64 {
	return money.ToCents(a.SalePrice) * int64(a.Quantity)
}

// Total returns sale_price * quantity
func (a *BookingAddon) Total() float64 {
	return money.FromCents(a.TotalCents())
}

// GrandTotal returns rental cost plus all add-on lines
func GrandTotal(rentalCost float64, addons []*BookingAddon) float64 {
	cents := money.ToCents(rentalCost)
	for _, a := range addons {
		cents += a.TotalCents()
	}
	return money.FromCents(cents)
}
