package create_booking

import (
	"fmt"

	"github.com/m04kA/SMC-VenueCRM/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ClientID <= 0 {
		return fmt.Errorf("%w: clientID must be positive", ErrInvalidInput)
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime == "" || req.EndTime == "" {
		return fmt.Errorf("%w: startTime and endTime are required", ErrInvalidInput)
	}

	if req.GuestCount != nil && (*req.GuestCount < 0 || *req.GuestCount > domain.MaxGuestCount) {
		return fmt.Errorf("%w: guestCount must be between 0 and %d", ErrInvalidInput, domain.MaxGuestCount)
	}

	if req.EventType != nil && len(*req.EventType) > domain.MaxEventTypeLength {
		return fmt.Errorf("%w: eventType exceeds %d characters", ErrInvalidInput, domain.MaxEventTypeLength)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	if req.DepositAmount != nil && *req.DepositAmount < 0 {
		return fmt.Errorf("%w: depositAmount must not be negative", ErrInvalidInput)
	}

	for _, line := range req.Addons {
		if line.ServiceID <= 0 {
			return fmt.Errorf("%w: addon serviceID must be positive", ErrInvalidInput)
		}
		if line.Quantity <= 0 || line.Quantity > domain.MaxAddonQuantity {
			return fmt.Errorf("%w: addon quantity must be between 1 and %d", ErrInvalidInput, domain.MaxAddonQuantity)
		}
	}

	return nil
}
