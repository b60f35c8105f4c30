package export

import (
	"context"

	"github.com/m04kA/SMC-VenueCRM/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
}

// PaymentRepository интерфейс репозитория платежей
type PaymentRepository interface {
	SumByBooking(ctx context.Context, bookingID int64) (float64, error)
}

// AddonRepository интерфейс репозитория доп. услуг
type AddonRepository interface {
	ListByBooking(ctx context.Context, bookingID int64) ([]*domain.BookingAddon, error)
}

// ClientRepository интерфейс репозитория клиентов
type ClientRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Client, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}
