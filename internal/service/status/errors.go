package status

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("status: booking not found")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("status: internal error")
)
