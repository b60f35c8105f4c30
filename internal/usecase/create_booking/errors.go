package create_booking

import "errors"

var (
	// ErrClientNotFound возвращается, когда клиент не найден
	ErrClientNotFound = errors.New("create_booking: client not found")

	// ErrAddonServiceNotFound возвращается, когда доп. услуга не найдена в каталоге
	ErrAddonServiceNotFound = errors.New("create_booking: addon service not found")

	// ErrAddonServiceInactive возвращается, когда доп. услуга снята с продажи
	ErrAddonServiceInactive = errors.New("create_booking: addon service is inactive")

	// ErrInvalidTimeFormat возвращается, когда время не в формате HH:MM
	ErrInvalidTimeFormat = errors.New("create_booking: invalid time format")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
