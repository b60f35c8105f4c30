package create_client

import (
	"strings"

	"github.com/m04kA/SMC-VenueCRM/internal/service/clients/models"
)

// CreateClientRequest HTTP request model
type CreateClientRequest struct {
	Name   string  `json:"name" validate:"required,max=200"`
	Phone  string  `json:"phone" validate:"required,min=5,max=32"`
	Email  *string `json:"email,omitempty" validate:"omitempty,email"`
	Source *string `json:"source,omitempty" validate:"omitempty,max=100"` // откуда пришёл клиент
	Notes  *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CreateClientRequest) ToServiceRequest() *models.CreateClientRequest {
	return &models.CreateClientRequest{
		Name:   strings.TrimSpace(r.Name),
		Phone:  strings.TrimSpace(r.Phone),
		Email:  r.Email,
		Source: r.Source,
		Notes:  r.Notes,
	}
}
