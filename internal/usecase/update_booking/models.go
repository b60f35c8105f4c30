package update_booking

import (
	"time"

	"github.com/m04kA/SMC-VenueCRM/internal/domain"
	"github.com/m04kA/SMC-VenueCRM/internal/pricing"
)

// Request модель запроса на изменение бронирования.
// nil поля не меняются.
type Request struct {
	ID            int64
	Date          *time.Time
	StartTime     *string
	EndTime       *string
	GuestCount    *int
	EventType     *string
	Notes         *string
	DepositAmount *float64
}

// Response модель ответа с изменённым бронированием
type Response struct {
	Booking        *domain.Booking
	Quote          *pricing.Quote // nil, если время не менялось
	Repriced       bool
	PreviousStatus domain.BookingStatus
	GrandTotal     float64
	TotalPaid      float64
}
