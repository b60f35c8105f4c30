package domain

import (
	"time"

	"github.com/m04kA/SMC-VenueCRM/pkg/types"
)

// BookingStatus represents the workflow status of a venue booking
type BookingStatus string

const (
	StatusPreliminary BookingStatus = "preliminary"
	StatusNoDeposit   BookingStatus = "no_deposit"
	StatusDepositPaid BookingStatus = "deposit_paid"
	StatusFullyPaid   BookingStatus = "fully_paid"
	StatusCompleted   BookingStatus = "completed"
	StatusCancelled   BookingStatus = "cancelled"
	StatusRescheduled BookingStatus = "rescheduled"
)

// IsValid reports whether s is a known status
func (s BookingStatus) IsValid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsTerminal returns true for statuses that payments never change
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// IsManualTarget returns true for statuses a user may set explicitly
func (s BookingStatus) IsManualTarget() bool {
	return s == StatusCancelled || s == StatusRescheduled || s == StatusCompleted
}

// Booking represents a venue rental
type Booking struct {
	ID          int64
	ClientID    int64
	BookingDate time.Time
	StartTime   types.TimeString
	EndTime     types.TimeString // may be before StartTime for overnight events

	Hours         float64
	HourlyRate    float64 // effective blended rate
	RentalCost    float64
	DepositAmount float64

	Status     BookingStatus
	GuestCount *int
	EventType  *string
	Notes      *string

	IsArchived      bool
	CalendarEventID *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BlocksVenue returns true if the booking takes part in overlap checks
func (b *Booking) BlocksVenue() bool {
	if b.IsArchived {
		return false
	}
	for _, s := range BlockingExcludedStatuses {
		if b.Status == s {
			return false
		}
	}
	return true
}

// IsOvernight returns true if the booking ends on the next calendar day
func (b *Booking) IsOvernight() bool {
	return !b.EndTime.IsAfter(b.StartTime)
}

// Period returns the absolute interval occupied by the booking
func (b *Booking) Period() (Period, error) {
	return NewPeriod(b.BookingDate, b.StartTime, b.EndTime)
}

// BookingsFilter фильтр для выборки бронирований
type BookingsFilter struct {
	ClientID        *int64         // Фильтр по клиенту
	StartDate       *time.Time     // Начало периода (включительно)
	EndDate         *time.Time     // Конец периода (включительно)
	Status          *BookingStatus // Конкретный статус
	ExcludeID       *int64         // Исключить бронирование (при переносе)
	BlockingOnly    bool           // Только занимающие площадку: не архивные и не отменённые
	IncludeArchived bool           // Включать архивные
}
