package payments

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("payments: booking not found")

	// ErrPaymentNotFound возвращается, когда платеж не найден
	ErrPaymentNotFound = errors.New("payments: payment not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("payments: invalid input data")

	// ErrRequestInProgress возвращается, когда запрос с тем же ключом идемпотентности ещё выполняется
	ErrRequestInProgress = errors.New("payments: request with this idempotency key is in progress")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("payments: internal error")
)
