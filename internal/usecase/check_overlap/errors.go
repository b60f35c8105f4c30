package check_overlap

import "errors"

var (
	// ErrInvalidTimeFormat возвращается, когда время не в формате HH:MM
	ErrInvalidTimeFormat = errors.New("check_overlap: invalid time format")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("check_overlap: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("check_overlap: internal error")
)
