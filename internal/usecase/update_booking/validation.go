package update_booking

import (
	"fmt"

	"github.com/m04kA/SMC-VenueCRM/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ID <= 0 {
		return fmt.Errorf("%w: id must be positive", ErrInvalidInput)
	}

	if req.Date != nil && req.Date.IsZero() {
		return fmt.Errorf("%w: date must not be empty", ErrInvalidInput)
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

	return nil
}

// changesSchedule сообщает, меняются ли дата или время
func (r *Request) changesSchedule() bool {
	return r.Date != nil || r.StartTime != nil || r.EndTime != nil
}
