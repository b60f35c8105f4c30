package domain

// Business validation constants
const (
	MaxNotesLength     = 1000
	MaxEventTypeLength = 100
	MaxGuestCount      = 1000
	MaxAddonQuantity   = 1000
	MaxClientNameLen   = 200
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// OverlapLookbackDays сколько соседних дат просматривается при проверке пересечений.
// Ночное бронирование заканчивается не позже следующих суток.
const OverlapLookbackDays = 1

// BlockingExcludedStatuses статусы, которые не занимают площадку
var BlockingExcludedStatuses = []BookingStatus{
	StatusCancelled,
}

// AllStatuses все статусы бронирования
var AllStatuses = []BookingStatus{
	StatusPreliminary,
	StatusNoDeposit,
	StatusDepositPaid,
	StatusFullyPaid,
	StatusCompleted,
	StatusCancelled,
	StatusRescheduled,
}
