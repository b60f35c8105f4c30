package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-VenueCRM/internal/domain"
	"github.com/m04kA/SMC-VenueCRM/internal/events"
	bookingRepo "github.com/m04kA/SMC-VenueCRM/internal/infra/storage/booking"
	"github.com/m04kA/SMC-VenueCRM/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo BookingRepository
	paymentRepo PaymentRepository
	addonRepo   AddonRepository
	overlap     OverlapChecker
	txManager   TransactionManager
	events      EventPublisher
	metrics     MetricsRecorder
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований.
// events и metrics могут быть nil.
func NewService(
	bookingRepo BookingRepository,
	paymentRepo PaymentRepository,
	addonRepo AddonRepository,
	overlap OverlapChecker,
	txManager TransactionManager,
	events EventPublisher,
	metrics MetricsRecorder,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		paymentRepo: paymentRepo,
		addonRepo:   addonRepo,
		overlap:     overlap,
		txManager:   txManager,
		events:      events,
		metrics:     metrics,
		logger:      logger,
	}
}

// GetByID получает карточку бронирования: доп. услуги, итог, оплачено, остаток
func (s *Service) GetByID(ctx context.Context, id int64) (*models.BookingDetailsResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d", id)

	var resp *models.BookingDetailsResponse
	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		addons, err := s.addonRepo.ListByBooking(txCtx, id)
		if err != nil {
			return err
		}

		totalPaid, err := s.paymentRepo.SumByBooking(txCtx, id)
		if err != nil {
			return err
		}

		resp = models.NewBookingDetails(booking, addons, totalPaid)
		return nil
	})
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %w", ErrInternal, err)
	}

	return resp, nil
}

// List получает бронирования с фильтрацией по периоду, клиенту, статусу
func (s *Service) List(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	logMsg := "List: fetching bookings"
	if req.ClientID != nil {
		logMsg += fmt.Sprintf(", client=%d", *req.ClientID)
	}
	if req.StartDate != nil && req.EndDate != nil {
		logMsg += fmt.Sprintf(", period=%s to %s", req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	if req.IncludeArchived {
		logMsg += ", includeArchived=true"
	}
	s.logger.Info(logMsg)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d bookings", len(bookings))
	return models.FromDomainBookingList(bookings), nil
}

// SetStatus вручную устанавливает статус: cancelled, rescheduled или completed.
// Остальные статусы выставляются только пересчётом по платежам.
// Возврат отменённого бронирования снова занимает площадку, поэтому проверяет пересечения.
func (s *Service) SetStatus(ctx context.Context, id int64, req *models.SetStatusRequest) (*models.StatusResponse, error) {
	s.logger.Info("SetStatus: booking id=%d to status=%s", id, req.Status)

	target, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("SetStatus: invalid status=%s for booking id=%d", req.Status, id)
		return nil, fmt.Errorf("%w: invalid status %q", ErrInvalidInput, req.Status)
	}
	if !target.IsManualTarget() {
		s.logger.Warn("SetStatus: status=%s cannot be set manually", target)
		return nil, ErrInvalidTransition
	}

	var booking *domain.Booking
	var previous domain.BookingStatus
	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		var err error
		booking, err = s.bookingRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		previous = booking.Status
		if previous == target {
			return nil
		}

		revived := *booking
		revived.Status = target
		if !booking.BlocksVenue() && revived.BlocksVenue() {
			if err := s.ensureSlotFree(txCtx, booking); err != nil {
				return err
			}
		}

		if err := s.bookingRepo.UpdateStatus(txCtx, id, target); err != nil {
			return err
		}
		booking.Status = target
		return nil
	})
	if err != nil {
		var conflict *domain.DoubleBookingConflictError
		switch {
		case errors.As(err, &conflict):
			s.logger.Warn("SetStatus: booking id=%d overlaps active bookings: %v", id, err)
			return nil, conflict
		case errors.Is(err, bookingRepo.ErrSlotNotAvailable):
			s.logger.Warn("SetStatus: booking id=%d rejected by exclusion constraint", id)
			return nil, &domain.DoubleBookingConflictError{}
		case errors.Is(err, bookingRepo.ErrBookingNotFound):
			s.logger.Warn("SetStatus: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("SetStatus: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: SetStatus - repository error: %w", ErrInternal, err)
	}

	if previous != target {
		if s.metrics != nil {
			s.metrics.IncStatusTransition(string(previous), string(target))
		}
		s.publish(events.EventBookingStatusChanged, booking, previous)
		s.logger.Info("SetStatus: booking id=%d status %s -> %s", id, previous, target)
	}

	return &models.StatusResponse{
		ID:             id,
		Status:         string(target),
		PreviousStatus: string(previous),
	}, nil
}

func (s *Service) ensureSlotFree(ctx context.Context, booking *domain.Booking) error {
	if s.overlap == nil {
		return nil
	}

	period, err := booking.Period()
	if err != nil {
		return fmt.Errorf("%w: booking id=%d: %w", ErrInternal, booking.ID, err)
	}

	conflicts, err := s.overlap.FindConflicts(ctx, booking.BookingDate, period, &booking.ID)
	if err != nil {
		return err
	}
	if len(conflicts) > 0 {
		return &domain.DoubleBookingConflictError{Conflicts: conflicts}
	}
	return nil
}

// Archive архивирует бронирование (мягкое удаление). Архивные не занимают площадку.
func (s *Service) Archive(ctx context.Context, id int64) error {
	s.logger.Info("Archive: booking id=%d", id)

	var booking *domain.Booking
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		booking, err = s.bookingRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if booking.IsArchived {
			return nil
		}
		if err := s.bookingRepo.Archive(txCtx, id); err != nil {
			return err
		}
		booking.IsArchived = true
		return nil
	})
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Archive: booking id=%d not found", id)
			return ErrBookingNotFound
		}
		s.logger.Error("Archive: repository error for booking id=%d: %v", id, err)
		return fmt.Errorf("%w: Archive - repository error: %w", ErrInternal, err)
	}

	s.publish(events.EventBookingArchived, booking, booking.Status)
	s.logger.Info("Archive: booking id=%d archived", id)
	return nil
}

func (s *Service) publish(eventType string, b *domain.Booking, previous domain.BookingStatus) {
	if s.events == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID:  b.ID,
		ClientID:   b.ClientID,
		Date:       b.BookingDate.Format(domain.DateFormat),
		StartTime:  b.StartTime.String(),
		EndTime:    b.EndTime.String(),
		Status:     string(b.Status),
		RentalCost: b.RentalCost,
		Archived:   b.IsArchived,
	}
	if previous != b.Status {
		payload.PreviousStatus = string(previous)
	}
	if b.EventType != nil {
		payload.EventType = *b.EventType
	}
	if b.GuestCount != nil {
		payload.GuestCount = *b.GuestCount
	}
	if b.CalendarEventID != nil {
		payload.CalendarEventID = *b.CalendarEventID
	}

	if err := s.events.PublishJSON(eventType, payload); err != nil {
		s.logger.Warn("publish %s: %v", eventType, err)
	}
}
