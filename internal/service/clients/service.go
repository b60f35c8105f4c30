package clients

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-VenueCRM/internal/domain"
	clientRepo "github.com/m04kA/SMC-VenueCRM/internal/infra/storage/client"
	bookingModels "github.com/m04kA/SMC-VenueCRM/internal/service/bookings/models"
	"github.com/m04kA/SMC-VenueCRM/internal/service/clients/models"
)

// Service сервис для работы с клиентами
type Service struct {
	clientRepo  ClientRepository
	bookingRepo BookingRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса клиентов
func NewService(clientRepo ClientRepository, bookingRepo BookingRepository, logger Logger) *Service {
	return &Service{
		clientRepo:  clientRepo,
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// Create создает клиента
func (s *Service) Create(ctx context.Context, req *models.CreateClientRequest) (*models.ClientResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > domain.MaxClientNameLen {
		return nil, fmt.Errorf("%w: name must be 1..%d characters", ErrInvalidInput, domain.MaxClientNameLen)
	}
	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return nil, fmt.Errorf("%w: notes are too long", ErrInvalidInput)
	}

	created, err := s.clientRepo.Create(ctx, &domain.Client{
		Name:   name,
		Phone:  strings.TrimSpace(req.Phone),
		Email:  req.Email,
		Source: req.Source,
		Notes:  req.Notes,
	})
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("Create: client id=%d created", created.ID)
	resp := models.FromDomainClient(created)
	return &resp, nil
}

// GetByID получает клиента по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.ClientResponse, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, clientRepo.ErrClientNotFound) {
			s.logger.Warn("GetByID: client id=%d not found", id)
			return nil, ErrClientNotFound
		}
		s.logger.Error("GetByID: repository error for client id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %w", ErrInternal, err)
	}

	resp := models.FromDomainClient(client)
	return &resp, nil
}

// List ищет клиентов по имени или телефону
func (s *Service) List(ctx context.Context, req *models.ListClientsRequest) (*models.ClientListResponse, error) {
	limit := req.Limit
	if limit == 0 {
		limit = models.DefaultListLimit
	}

	clients, err := s.clientRepo.List(ctx, strings.TrimSpace(req.Search), limit, req.Offset)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %w", ErrInternal, err)
	}

	resp := &models.ClientListResponse{Clients: make([]models.ClientResponse, 0, len(clients))}
	for _, c := range clients {
		resp.Clients = append(resp.Clients, models.FromDomainClient(c))
	}
	return resp, nil
}

// Bookings возвращает историю бронирований клиента, включая архивные
func (s *Service) Bookings(ctx context.Context, clientID int64) (*bookingModels.BookingListResponse, error) {
	if _, err := s.GetByID(ctx, clientID); err != nil {
		return nil, err
	}

	bookings, err := s.bookingRepo.List(ctx, domain.BookingsFilter{
		ClientID:        &clientID,
		IncludeArchived: true,
	})
	if err != nil {
		s.logger.Error("Bookings: repository error for client id=%d: %v", clientID, err)
		return nil, fmt.Errorf("%w: Bookings - repository error: %w", ErrInternal, err)
	}

	return bookingModels.FromDomainBookingList(bookings), nil
}
