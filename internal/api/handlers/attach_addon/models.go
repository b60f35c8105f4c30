package attach_addon

import "github.com/m04kA/SMC-VenueCRM/internal/service/addons/models"

// AttachAddonRequest HTTP request model
type AttachAddonRequest struct {
	ServiceID int64 `json:"serviceId" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,gte=1,lte=10000"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *AttachAddonRequest) ToServiceRequest(bookingID int64) *models.AttachRequest {
	return &models.AttachRequest{
		BookingID: bookingID,
		ServiceID: r.ServiceID,
		Quantity:  r.Quantity,
	}
}
