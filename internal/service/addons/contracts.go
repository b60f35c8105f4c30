package addons

import (
	"context"

	"github.com/m04kA/SMC-VenueCRM/internal/domain"
	"github.com/m04kA/SMC-VenueCRM/internal/service/status"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
}

// AddonRepository интерфейс репозитория доп. услуг
type AddonRepository interface {
	CreateService(ctx context.Context, service *domain.AddonService) (*domain.AddonService, error)
	GetServiceByID(ctx context.Context, id int64) (*domain.AddonService, error)
	ListServices(ctx context.Context, activeOnly bool) ([]*domain.AddonService, error)
	AddToBooking(ctx context.Context, line *domain.BookingAddon) (*domain.BookingAddon, error)
	GetBookingAddon(ctx context.Context, id int64) (*domain.BookingAddon, error)
	DeleteBookingAddon(ctx context.Context, id int64) error
}

// StatusRecalculator пересчитывает статус после изменения итоговой стоимости
type StatusRecalculator interface {
	Recalc(ctx context.Context, bookingID int64) (*status.Result, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
