package update_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("update_booking: booking not found")

	// ErrBookingArchived возвращается при попытке изменить архивное бронирование
	ErrBookingArchived = errors.New("update_booking: booking is archived")

	// ErrInvalidTimeFormat возвращается, когда время не в формате HH:MM
	ErrInvalidTimeFormat = errors.New("update_booking: invalid time format")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("update_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_booking: internal error")
)
