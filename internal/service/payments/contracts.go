package payments

import (
	"context"
	"time"

	"github.com/m04kA/SMC-VenueCRM/internal/domain"
	"github.com/m04kA/SMC-VenueCRM/internal/service/status"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
}

// PaymentRepository интерфейс репозитория платежей
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) (*domain.Payment, error)
	GetByID(ctx context.Context, id int64) (*domain.Payment, error)
	ListByBooking(ctx context.Context, bookingID int64) ([]*domain.Payment, error)
	Delete(ctx context.Context, id int64) error
}

// StatusRecalculator пересчитывает статус после изменения платежей
type StatusRecalculator interface {
	Recalc(ctx context.Context, bookingID int64) (*status.Result, error)
}

// IdempotencyStore хранилище ключей идемпотентности
type IdempotencyStore interface {
	Reserve(ctx context.Context, key string) (int64, bool, error)
	Complete(ctx context.Context, key string, id int64) error
	Release(ctx context.Context, key string) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher публикует события платежей
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// MetricsRecorder фиксирует записанные платежи
type MetricsRecorder interface {
	IncPaymentRecorded(method string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
