package bookings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-VenueCRM/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	Archive(ctx context.Context, id int64) error
}

// PaymentRepository интерфейс репозитория платежей
type PaymentRepository interface {
	SumByBooking(ctx context.Context, bookingID int64) (float64, error)
}

// AddonRepository интерфейс репозитория доп. услуг
type AddonRepository interface {
	ListByBooking(ctx context.Context, bookingID int64) ([]*domain.BookingAddon, error)
}

// OverlapChecker ищет пересечения в транзакции из контекста
type OverlapChecker interface {
	FindConflicts(ctx context.Context, date time.Time, period domain.Period, excludeID *int64) ([]domain.ConflictingBooking, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher публикует события бронирований
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// MetricsRecorder фиксирует ручные переходы статусов
type MetricsRecorder interface {
	IncStatusTransition(from, to string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
