package create_addon_service

import "github.com/m04kA/SMC-VenueCRM/internal/service/addons/models"

// CreateServiceRequest HTTP request model
type CreateServiceRequest struct {
	Name      string  `json:"name" validate:"required,min=1,max=200"`
	SalePrice float64 `json:"salePrice" validate:"gte=0"`
	CostPrice float64 `json:"costPrice" validate:"gte=0"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CreateServiceRequest) ToServiceRequest() *models.CreateServiceRequest {
	return &models.CreateServiceRequest{
		Name:      r.Name,
		SalePrice: r.SalePrice,
		CostPrice: r.CostPrice,
	}
}
