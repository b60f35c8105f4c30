package set_booking_status

import "github.com/m04kA/SMC-VenueCRM/internal/service/bookings/models"

// SetStatusRequest HTTP request model
type SetStatusRequest struct {
	Status string `json:"status" validate:"required,booking_status"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *SetStatusRequest) ToServiceRequest() *models.SetStatusRequest {
	return &models.SetStatusRequest{
		Status: r.Status,
	}
}
