package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-VenueCRM/internal/domain"
	"github.com/m04kA/SMC-VenueCRM/internal/events"
	"github.com/m04kA/SMC-VenueCRM/internal/infra/storage/addon"
	bookingRepo "github.com/m04kA/SMC-VenueCRM/internal/infra/storage/booking"
	clientRepo "github.com/m04kA/SMC-VenueCRM/internal/infra/storage/client"
	"github.com/m04kA/SMC-VenueCRM/internal/pricing"
	"github.com/m04kA/SMC-VenueCRM/pkg/money"
	"github.com/m04kA/SMC-VenueCRM/pkg/types"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo BookingRepository
	clientRepo  ClientRepository
	addonRepo   AddonRepository
	calculator  PriceCalculator
	overlap     OverlapChecker
	txManager   TransactionManager
	events      EventPublisher
	metrics     MetricsRecorder
	logger      Logger
}

// NewUseCase создает новый экземпляр use case.
// events и metrics могут быть nil.
func NewUseCase(
	bookingRepo BookingRepository,
	clientRepo ClientRepository,
	addonRepo AddonRepository,
	calculator PriceCalculator,
	overlap OverlapChecker,
	txManager TransactionManager,
	events EventPublisher,
	metrics MetricsRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		clientRepo:  clientRepo,
		addonRepo:   addonRepo,
		calculator:  calculator,
		overlap:     overlap,
		txManager:   txManager,
		events:      events,
		metrics:     metrics,
		logger:      logger,
	}
}

// Execute выполняет use case создания бронирования.
// Проверка пересечений и вставка выполняются в одной сериализуемой транзакции.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: client=%d, date=%s, time=%s-%s",
		req.ClientID, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	start, err := types.NewTimeStringFromString(req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: startTime: %w", ErrInvalidTimeFormat, err)
	}
	end, err := types.NewTimeStringFromString(req.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: endTime: %w", ErrInvalidTimeFormat, err)
	}

	// 2. Проверяем клиента
	if _, err := uc.clientRepo.GetByID(ctx, req.ClientID); err != nil {
		if errors.Is(err, clientRepo.ErrClientNotFound) {
			uc.logger.Warn("CreateBooking: client id=%d not found", req.ClientID)
			return nil, ErrClientNotFound
		}
		uc.logger.Error("CreateBooking: failed to get client id=%d: %v", req.ClientID, err)
		return nil, fmt.Errorf("%w: failed to get client: %w", ErrInternal, err)
	}

	// 3. Рассчитываем стоимость
	quote, err := uc.calculator.Calculate(req.Date, start.String(), end.String())
	if err != nil {
		if errors.Is(err, pricing.ErrInvalidTimeFormat) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidTimeFormat, err)
		}
		uc.logger.Error("CreateBooking: pricing failed: %v", err)
		return nil, fmt.Errorf("%w: pricing failed: %w", ErrInternal, err)
	}

	// 4. Задаток по умолчанию равен ставке первого часа
	deposit, err := uc.depositAmount(req, start)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get first hour rate: %v", err)
		return nil, fmt.Errorf("%w: first hour rate: %w", ErrInternal, err)
	}

	period, err := domain.NewPeriod(req.Date, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTimeFormat, err)
	}

	booking := &domain.Booking{
		ClientID:      req.ClientID,
		BookingDate:   req.Date,
		StartTime:     start,
		EndTime:       end,
		Hours:         quote.Hours,
		HourlyRate:    quote.HourlyRate,
		RentalCost:    quote.RentalCost,
		DepositAmount: deposit,
		Status:        domain.StatusPreliminary,
		GuestCount:    req.GuestCount,
		EventType:     req.EventType,
		Notes:         req.Notes,
	}

	var lines []*domain.BookingAddon

	// 5. Проверка пересечений и сохранение в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		lines = nil

		// 5.1. Ищем пересечения (FOR UPDATE на Postgres, BEGIN IMMEDIATE на SQLite)
		conflicts, err := uc.overlap.FindConflicts(txCtx, req.Date, period, nil)
		if err != nil {
			return fmt.Errorf("%w: failed to check overlap: %w", ErrInternal, err)
		}
		if len(conflicts) > 0 {
			return &domain.DoubleBookingConflictError{Conflicts: conflicts}
		}

		// 5.2. Сохраняем бронирование
		booking.ID = 0
		if _, err := uc.bookingRepo.Create(txCtx, booking); err != nil {
			if errors.Is(err, bookingRepo.ErrSlotNotAvailable) {
				return &domain.DoubleBookingConflictError{}
			}
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		// 5.3. Добавляем доп. услуги по ценам каталога
		for _, item := range req.Addons {
			line, err := uc.attachAddon(txCtx, booking.ID, item)
			if err != nil {
				return err
			}
			lines = append(lines, line)
		}
		return nil
	})

	if err != nil {
		var conflict *domain.DoubleBookingConflictError
		switch {
		case errors.As(err, &conflict):
			uc.logger.Warn("CreateBooking: double booking on %s %s-%s: %v",
				req.Date.Format(domain.DateFormat), start, end, err)
			if uc.metrics != nil {
				uc.metrics.IncBookingConflict()
			}
			return nil, conflict
		case errors.Is(err, ErrAddonServiceNotFound), errors.Is(err, ErrAddonServiceInactive):
			uc.logger.Warn("CreateBooking: %v", err)
			return nil, err
		case errors.Is(err, ErrInternal):
			uc.logger.Error("CreateBooking: %v", err)
			return nil, err
		default:
			uc.logger.Error("CreateBooking: transaction failed: %v", err)
			return nil, fmt.Errorf("%w: transaction failed: %w", ErrInternal, err)
		}
	}

	if uc.metrics != nil {
		uc.metrics.IncBookingCreated()
	}
	uc.publish(booking)

	uc.logger.Info("CreateBooking: successfully created booking id=%d, rental=%.2f, hours=%.2f",
		booking.ID, booking.RentalCost, booking.Hours)

	return &Response{
		Booking:    booking,
		Addons:     lines,
		Quote:      quote,
		GrandTotal: domain.GrandTotal(booking.RentalCost, lines),
	}, nil
}

func (uc *UseCase) depositAmount(req *Request, start types.TimeString) (float64, error) {
	if req.DepositAmount != nil {
		return money.Round2(*req.DepositAmount), nil
	}
	return uc.calculator.FirstHourRate(req.Date, start.String())
}

func (uc *UseCase) attachAddon(ctx context.Context, bookingID int64, item AddonLine) (*domain.BookingAddon, error) {
	service, err := uc.addonRepo.GetServiceByID(ctx, item.ServiceID)
	if err != nil {
		if errors.Is(err, addon.ErrServiceNotFound) {
			return nil, fmt.Errorf("%w: id=%d", ErrAddonServiceNotFound, item.ServiceID)
		}
		return nil, fmt.Errorf("%w: failed to get addon service: %w", ErrInternal, err)
	}
	if !service.IsActive {
		return nil, fmt.Errorf("%w: id=%d", ErrAddonServiceInactive, item.ServiceID)
	}

	line, err := uc.addonRepo.AddToBooking(ctx, &domain.BookingAddon{
		BookingID:   bookingID,
		ServiceID:   service.ID,
		ServiceName: service.Name,
		Quantity:    item.Quantity,
		SalePrice:   service.SalePrice,
		CostPrice:   service.CostPrice,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to add addon: %w", ErrInternal, err)
	}
	return line, nil
}

func (uc *UseCase) publish(b *domain.Booking) {
	if uc.events == nil {
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
	}
	if b.EventType != nil {
		payload.EventType = *b.EventType
	}
	if b.GuestCount != nil {
		payload.GuestCount = *b.GuestCount
	}

	if err := uc.events.PublishJSON(events.EventBookingCreated, payload); err != nil {
		uc.logger.Warn("CreateBooking: publish event: %v", err)
	}
}
