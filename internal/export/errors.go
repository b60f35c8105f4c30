package export

import "errors"

var (
	// ErrInvalidPeriod возвращается, когда начало периода позже конца
	ErrInvalidPeriod = errors.New("export: invalid period")

	// ErrPeriodTooLong возвращается, когда период превышает MaxPeriodDays
	ErrPeriodTooLong = errors.New("export: period too long")

	// ErrInternal возвращается при внутренних ошибках экспорта
	ErrInternal = errors.New("export: internal error")
)
