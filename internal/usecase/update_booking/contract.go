package update_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-VenueCRM/internal/domain"
	"github.com/m04kA/SMC-VenueCRM/internal/pricing"
	"github.com/m04kA/SMC-VenueCRM/internal/service/status"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Update(ctx context.Context, booking *domain.Booking) error
}

// PriceCalculator рассчитывает стоимость аренды
type PriceCalculator interface {
	Calculate(date time.Time, start, end string) (*pricing.Quote, error)
}

// OverlapChecker ищет пересечения в транзакции из контекста
type OverlapChecker interface {
	FindConflicts(ctx context.Context, date time.Time, period domain.Period, excludeID *int64) ([]domain.ConflictingBooking, error)
}

// StatusRecalculator пересчитывает статус после изменения стоимости
type StatusRecalculator interface {
	Recalc(ctx context.Context, bookingID int64) (*status.Result, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher публикует события бронирований
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// MetricsRecorder фиксирует конфликты при переносе
type MetricsRecorder interface {
	IncBookingConflict()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
