package idempotency

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrInProgress запрос с этим ключом ещё выполняется
	ErrInProgress = errors.New("idempotency: request with this key is in progress")

	// ErrStore ошибка хранилища ключей
	ErrStore = errors.New("idempotency: store error")
)

// DefaultTTL время жизни ключа идемпотентности
const DefaultTTL = 24 * time.Hour

const pendingValue = "pending"

// Store резервирует ключи идемпотентности и запоминает ID созданной сущности
type Store interface {
	// Reserve возвращает reserved=true, если ключ свободен.
	// Если ключ уже завершён, возвращает ID сохранённой сущности.
	Reserve(ctx context.Context, key string) (existingID int64, reserved bool, err error)
	Complete(ctx context.Context, key string, id int64) error
	Release(ctx context.Context, key string) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
