package addons

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("addons: booking not found")

	// ErrServiceNotFound возвращается, когда услуга каталога не найдена
	ErrServiceNotFound = errors.New("addons: addon service not found")

	// ErrServiceInactive возвращается при попытке добавить снятую с продажи услугу
	ErrServiceInactive = errors.New("addons: addon service is inactive")

	// ErrServiceExists возвращается, когда услуга с таким названием уже есть
	ErrServiceExists = errors.New("addons: addon service already exists")

	// ErrBookingAddonNotFound возвращается, когда позиция бронирования не найдена
	ErrBookingAddonNotFound = errors.New("addons: booking addon not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("addons: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("addons: internal error")
)
