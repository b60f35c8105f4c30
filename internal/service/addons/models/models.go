package models

import (
	"time"

	"github.com/m04kA/SMC-VenueCRM/internal/domain"
)

// CreateServiceRequest запрос на создание услуги каталога
type CreateServiceRequest struct {
	Name      string
	SalePrice float64
	CostPrice float64
}

// AttachRequest запрос на добавление услуги к бронированию
type AttachRequest struct {
	BookingID int64
	ServiceID int64
	Quantity  int
}

// ServiceResponse услуга каталога
type ServiceResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	SalePrice float64   `json:"salePrice"`
	CostPrice float64   `json:"costPrice"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// ServiceListResponse каталог услуг
type ServiceListResponse struct {
	Services []ServiceResponse `json:"services"`
}

// LineResponse позиция доп. услуги в бронировании и новый статус бронирования
type LineResponse struct {
	ID            int64   `json:"id"`
	BookingID     int64   `json:"bookingId"`
	ServiceID     int64   `json:"serviceId"`
	ServiceName   string  `json:"serviceName"`
	Quantity      int     `json:"quantity"`
	SalePrice     float64 `json:"salePrice"`
	Total         float64 `json:"total"`
	BookingStatus string  `json:"bookingStatus"`
	GrandTotal    float64 `json:"grandTotal"`
}

// DetachResponse результат удаления позиции
type DetachResponse struct {
	BookingID     int64   `json:"bookingId"`
	BookingStatus string  `json:"bookingStatus"`
	GrandTotal    float64 `json:"grandTotal"`
}

// FromDomainService конвертирует domain модель в DTO
func FromDomainService(s *domain.AddonService) ServiceResponse {
	return ServiceResponse{
		ID:        s.ID,
		Name:      s.Name,
		SalePrice: s.SalePrice,
		CostPrice: s.CostPrice,
		IsActive:  s.IsActive,
		CreatedAt: s.CreatedAt,
	}
}
