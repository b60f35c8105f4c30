package status

import (
	"context"

	"github.com/m04kA/SMC-VenueCRM/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
}

// PaymentRepository интерфейс репозитория платежей
type PaymentRepository interface {
	SumByBooking(ctx context.Context, bookingID int64) (float64, error)
}

// AddonRepository интерфейс репозитория доп. услуг
type AddonRepository interface {
	ListByBooking(ctx context.Context, bookingID int64) ([]*domain.BookingAddon, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// MetricsRecorder фиксирует переходы статусов
type MetricsRecorder interface {
	IncStatusTransition(from, to string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
