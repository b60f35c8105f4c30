package models

import (
	"time"

	"github.com/m04kA/SMC-VenueCRM/internal/domain"
)

// DefaultListLimit размер страницы по умолчанию
const DefaultListLimit = 50

// CreateClientRequest запрос на создание клиента
type CreateClientRequest struct {
	Name   string
	Phone  string
	Email  *string
	Source *string
	Notes  *string
}

// ListClientsRequest запрос на поиск клиентов
type ListClientsRequest struct {
	Search string
	Limit  uint64
	Offset uint64
}

// ClientResponse ответ с данными клиента
type ClientResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     *string   `json:"email,omitempty"`
	Source    *string   `json:"source,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ClientListResponse список клиентов
type ClientListResponse struct {
	Clients []ClientResponse `json:"clients"`
}

// FromDomainClient конвертирует domain модель в DTO
func FromDomainClient(c *domain.Client) ClientResponse {
	return ClientResponse{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		Email:     c.Email,
		Source:    c.Source,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
