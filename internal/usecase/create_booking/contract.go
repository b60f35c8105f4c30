package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-VenueCRM/internal/domain"
	"github.com/m04kA/SMC-VenueCRM/internal/pricing"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// ClientRepository интерфейс репозитория клиентов
type ClientRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Client, error)
}

// AddonRepository интерфейс репозитория доп. услуг
type AddonRepository interface {
	GetServiceByID(ctx context.Context, id int64) (*domain.AddonService, error)
	AddToBooking(ctx context.Context, line *domain.BookingAddon) (*domain.BookingAddon, error)
}

// PriceCalculator рассчитывает стоимость аренды
type PriceCalculator interface {
	Calculate(date time.Time, start, end string) (*pricing.Quote, error)
	FirstHourRate(date time.Time, start string) (float64, error)
}

// OverlapChecker ищет пересечения в транзакции из контекста
type OverlapChecker interface {
	FindConflicts(ctx context.Context, date time.Time, period domain.Period, excludeID *int64) ([]domain.ConflictingBooking, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher публикует события бронирований
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// MetricsRecorder фиксирует созданные бронирования и конфликты
type MetricsRecorder interface {
	IncBookingCreated()
	IncBookingConflict()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
