package addon

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга каталога не найдена
	ErrServiceNotFound = errors.New("addon.repository: addon service not found")

	// ErrBookingAddonNotFound возвращается, когда позиция бронирования не найдена
	ErrBookingAddonNotFound = errors.New("addon.repository: booking addon not found")

	// ErrDuplicateService возвращается при попытке создать услугу с существующим названием
	ErrDuplicateService = errors.New("addon.repository: addon service with this name already exists")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("addon.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("addon.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("addon.repository: failed to scan row")
)
