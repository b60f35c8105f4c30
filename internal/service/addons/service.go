package addons

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-VenueCRM/internal/domain"
	addonRepo "github.com/m04kA/SMC-VenueCRM/internal/infra/storage/addon"
	bookingRepo "github.com/m04kA/SMC-VenueCRM/internal/infra/storage/booking"
	"github.com/m04kA/SMC-VenueCRM/internal/service/addons/models"
	"github.com/m04kA/SMC-VenueCRM/internal/service/status"
	"github.com/m04kA/SMC-VenueCRM/pkg/money"
)

// Service сервис каталога доп. услуг и позиций бронирований
type Service struct {
	bookingRepo  BookingRepository
	addonRepo    AddonRepository
	recalculator StatusRecalculator
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса доп. услуг
func NewService(
	bookingRepo BookingRepository,
	addonRepo AddonRepository,
	recalculator StatusRecalculator,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		addonRepo:    addonRepo,
		recalculator: recalculator,
		txManager:    txManager,
		logger:       logger,
	}
}

// ListServices возвращает каталог услуг
func (s *Service) ListServices(ctx context.Context, activeOnly bool) (*models.ServiceListResponse, error) {
	services, err := s.addonRepo.ListServices(ctx, activeOnly)
	if err != nil {
		s.logger.Error("ListServices: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListServices - repository error: %w", ErrInternal, err)
	}

	resp := &models.ServiceListResponse{Services: make([]models.ServiceResponse, 0, len(services))}
	for _, svc := range services {
		resp.Services = append(resp.Services, models.FromDomainService(svc))
	}
	return resp, nil
}

// CreateService добавляет услугу в каталог
func (s *Service) CreateService(ctx context.Context, req *models.CreateServiceRequest) (*models.ServiceResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if req.SalePrice < 0 || req.CostPrice < 0 {
		return nil, fmt.Errorf("%w: prices must not be negative", ErrInvalidInput)
	}

	created, err := s.addonRepo.CreateService(ctx, &domain.AddonService{
		Name:      name,
		SalePrice: money.Round2(req.SalePrice),
		CostPrice: money.Round2(req.CostPrice),
		IsActive:  true,
	})
	if err != nil {
		if errors.Is(err, addonRepo.ErrDuplicateService) {
			s.logger.Warn("CreateService: service %q already exists", name)
			return nil, ErrServiceExists
		}
		s.logger.Error("CreateService: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateService - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("CreateService: created addon service id=%d name=%q", created.ID, created.Name)
	resp := models.FromDomainService(created)
	return &resp, nil
}

// Attach добавляет услугу к бронированию по текущей цене каталога и пересчитывает статус
func (s *Service) Attach(ctx context.Context, req *models.AttachRequest) (*models.LineResponse, error) {
	s.logger.Info("Attach: booking=%d, service=%d, quantity=%d", req.BookingID, req.ServiceID, req.Quantity)

	if req.Quantity <= 0 || req.Quantity > domain.MaxAddonQuantity {
		return nil, fmt.Errorf("%w: quantity must be between 1 and %d", ErrInvalidInput, domain.MaxAddonQuantity)
	}

	var (
		line   *domain.BookingAddon
		result *status.Result
	)
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		if _, err := s.bookingRepo.GetByID(txCtx, req.BookingID); err != nil {
			return err
		}

		service, err := s.addonRepo.GetServiceByID(txCtx, req.ServiceID)
		if err != nil {
			return err
		}
		if !service.IsActive {
			return ErrServiceInactive
		}

		line, err = s.addonRepo.AddToBooking(txCtx, &domain.BookingAddon{
			BookingID:   req.BookingID,
			ServiceID:   service.ID,
			ServiceName: service.Name,
			Quantity:    req.Quantity,
			SalePrice:   service.SalePrice,
			CostPrice:   service.CostPrice,
		})
		if err != nil {
			return err
		}

		result, err = s.recalculator.Recalc(txCtx, req.BookingID)
		return err
	})
	if err != nil {
		return nil, s.mapError("Attach", err)
	}

	s.logger.Info("Attach: line id=%d added to booking id=%d, status=%s", line.ID, req.BookingID, result.Current)
	return &models.LineResponse{
		ID:            line.ID,
		BookingID:     line.BookingID,
		ServiceID:     line.ServiceID,
		ServiceName:   line.ServiceName,
		Quantity:      line.Quantity,
		SalePrice:     line.SalePrice,
		Total:         line.Total(),
		BookingStatus: string(result.Current),
		GrandTotal:    result.GrandTotal,
	}, nil
}

// Detach удаляет позицию из бронирования и пересчитывает статус
func (s *Service) Detach(ctx context.Context, lineID int64) (*models.DetachResponse, error) {
	s.logger.Info("Detach: line id=%d", lineID)

	var (
		line   *domain.BookingAddon
		result *status.Result
	)
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		line, err = s.addonRepo.GetBookingAddon(txCtx, lineID)
		if err != nil {
			return err
		}

		if err := s.addonRepo.DeleteBookingAddon(txCtx, lineID); err != nil {
			return err
		}

		result, err = s.recalculator.Recalc(txCtx, line.BookingID)
		return err
	})
	if err != nil {
		return nil, s.mapError("Detach", err)
	}

	s.logger.Info("Detach: line id=%d removed from booking id=%d, status=%s", lineID, line.BookingID, result.Current)
	return &models.DetachResponse{
		BookingID:     line.BookingID,
		BookingStatus: string(result.Current),
		GrandTotal:    result.GrandTotal,
	}, nil
}

// mapError переводит ошибки репозиториев в ошибки сервиса
func (s *Service) mapError(op string, err error) error {
	switch {
	case errors.Is(err, bookingRepo.ErrBookingNotFound), errors.Is(err, status.ErrBookingNotFound):
		s.logger.Warn("%s: booking not found", op)
		return ErrBookingNotFound
	case errors.Is(err, addonRepo.ErrServiceNotFound):
		s.logger.Warn("%s: addon service not found", op)
		return ErrServiceNotFound
	case errors.Is(err, addonRepo.ErrBookingAddonNotFound):
		s.logger.Warn("%s: booking addon not found", op)
		return ErrBookingAddonNotFound
	case errors.Is(err, ErrServiceInactive):
		s.logger.Warn("%s: addon service is inactive", op)
		return err
	default:
		s.logger.Error("%s: repository error: %v", op, err)
		return fmt.Errorf("%w: %s - repository error: %w", ErrInternal, op, err)
	}
}
