package get_available_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-VenueCRM/internal/pricing"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.MinMinutes < 0 || req.MinMinutes > pricing.WindowMinutes {
		return fmt.Errorf("%w: minMinutes must be in [0, %d]", ErrInvalidInput, pricing.WindowMinutes)
	}

	return nil
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	// Обнуляем время, чтобы сравнивать только даты
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return dateOnly.Before(nowOnly)
}
