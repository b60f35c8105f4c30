package update_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-VenueCRM/internal/domain"
	"github.com/m04kA/SMC-VenueCRM/internal/events"
	bookingRepo "github.com/m04kA/SMC-VenueCRM/internal/infra/storage/booking"
	"github.com/m04kA/SMC-VenueCRM/internal/pricing"
	"github.com/m04kA/SMC-VenueCRM/pkg/money"
	"github.com/m04kA/SMC-VenueCRM/pkg/types"
)

// UseCase use case для изменения бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	calculator   PriceCalculator
	overlap      OverlapChecker
	recalculator StatusRecalculator
	txManager    TransactionManager
	events       EventPublisher
	metrics      MetricsRecorder
	logger       Logger
}

// NewUseCase создает новый экземпляр use case.
// events и metrics могут быть nil.
func NewUseCase(
	bookingRepo BookingRepository,
	calculator PriceCalculator,
	overlap OverlapChecker,
	recalculator StatusRecalculator,
	txManager TransactionManager,
	events EventPublisher,
	metrics MetricsRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		calculator:   calculator,
		overlap:      overlap,
		recalculator: recalculator,
		txManager:    txManager,
		events:       events,
		metrics:      metrics,
		logger:       logger,
	}
}

// Execute применяет изменения к бронированию.
// Проверка пересечений, сохранение и пересчёт статуса выполняются в одной транзакции.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UpdateBooking: id=%d", req.ID)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("UpdateBooking: validation failed: %v", err)
		return nil, err
	}

	var resp *Response

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		resp = nil

		// 1. Загружаем текущее состояние
		booking, err := uc.bookingRepo.GetByID(txCtx, req.ID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: failed to get booking: %w", ErrInternal, err)
		}
		if booking.IsArchived {
			return ErrBookingArchived
		}

		result := &Response{Booking: booking, PreviousStatus: booking.Status}

		// 2. Перенос: пересчёт стоимости и проверка пересечений без самого бронирования
		if req.changesSchedule() {
			if err := uc.reschedule(txCtx, booking, req, result); err != nil {
				return err
			}
		}

		applyDetails(booking, req)

		// 3. Сохраняем
		if err := uc.bookingRepo.Update(txCtx, booking); err != nil {
			if errors.Is(err, bookingRepo.ErrSlotNotAvailable) {
				return &domain.DoubleBookingConflictError{}
			}
			return fmt.Errorf("%w: failed to update booking: %w", ErrInternal, err)
		}

		// 4. Итоговая сумма могла измениться, пересчитываем статус
		recalc, err := uc.recalculator.Recalc(txCtx, booking.ID)
		if err != nil {
			return fmt.Errorf("%w: failed to recalc status: %w", ErrInternal, err)
		}
		booking.Status = recalc.Current
		result.GrandTotal = recalc.GrandTotal
		result.TotalPaid = recalc.TotalPaid

		resp = result
		return nil
	})

	if err != nil {
		var conflict *domain.DoubleBookingConflictError
		switch {
		case errors.As(err, &conflict):
			uc.logger.Warn("UpdateBooking: double booking for id=%d: %v", req.ID, err)
			if uc.metrics != nil {
				uc.metrics.IncBookingConflict()
			}
			return nil, conflict
		case errors.Is(err, ErrBookingNotFound), errors.Is(err, ErrBookingArchived),
			errors.Is(err, ErrInvalidTimeFormat), errors.Is(err, ErrInvalidInput):
			uc.logger.Warn("UpdateBooking: id=%d: %v", req.ID, err)
			return nil, err
		case errors.Is(err, ErrInternal):
			uc.logger.Error("UpdateBooking: id=%d: %v", req.ID, err)
			return nil, err
		default:
			uc.logger.Error("UpdateBooking: transaction failed: %v", err)
			return nil, fmt.Errorf("%w: transaction failed: %w", ErrInternal, err)
		}
	}

	uc.publish(resp.Booking, resp.PreviousStatus)

	uc.logger.Info("UpdateBooking: successfully updated booking id=%d (repriced=%t, status=%s)",
		resp.Booking.ID, resp.Repriced, resp.Booking.Status)

	return resp, nil
}

func (uc *UseCase) reschedule(ctx context.Context, booking *domain.Booking, req *Request, result *Response) error {
	date := booking.BookingDate
	if req.Date != nil {
		date = *req.Date
	}

	start := booking.StartTime
	if req.StartTime != nil {
		parsed, err := types.NewTimeStringFromString(*req.StartTime)
		if err != nil {
			return fmt.Errorf("%w: startTime: %w", ErrInvalidTimeFormat, err)
		}
		start = parsed
	}

	end := booking.EndTime
	if req.EndTime != nil {
		parsed, err := types.NewTimeStringFromString(*req.EndTime)
		if err != nil {
			return fmt.Errorf("%w: endTime: %w", ErrInvalidTimeFormat, err)
		}
		end = parsed
	}

	quote, err := uc.calculator.Calculate(date, start.String(), end.String())
	if err != nil {
		if errors.Is(err, pricing.ErrInvalidTimeFormat) {
			return fmt.Errorf("%w: %w", ErrInvalidTimeFormat, err)
		}
		return fmt.Errorf("%w: pricing failed: %w", ErrInternal, err)
	}

	period, err := domain.NewPeriod(date, start, end)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTimeFormat, err)
	}

	// Отменённое бронирование не занимает площадку, его можно переносить куда угодно
	if booking.BlocksVenue() {
		conflicts, err := uc.overlap.FindConflicts(ctx, date, period, &booking.ID)
		if err != nil {
			return fmt.Errorf("%w: failed to check overlap: %w", ErrInternal, err)
		}
		if len(conflicts) > 0 {
			return &domain.DoubleBookingConflictError{Conflicts: conflicts}
		}
	}

	booking.BookingDate = date
	booking.StartTime = start
	booking.EndTime = end
	booking.Hours = quote.Hours
	booking.HourlyRate = quote.HourlyRate
	booking.RentalCost = quote.RentalCost

	result.Quote = quote
	result.Repriced = true
	return nil
}

func applyDetails(booking *domain.Booking, req *Request) {
	if req.GuestCount != nil {
		booking.GuestCount = req.GuestCount
	}
	if req.EventType != nil {
		booking.EventType = req.EventType
	}
	if req.Notes != nil {
		booking.Notes = req.Notes
	}
	if req.DepositAmount != nil {
		booking.DepositAmount = money.Round2(*req.DepositAmount)
	}
}

func (uc *UseCase) publish(b *domain.Booking, previous domain.BookingStatus) {
	if uc.events == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID:      b.ID,
		ClientID:       b.ClientID,
		Date:           b.BookingDate.Format(domain.DateFormat),
		StartTime:      b.StartTime.String(),
		EndTime:        b.EndTime.String(),
		Status:         string(b.Status),
		PreviousStatus: string(previous),
		RentalCost:     b.RentalCost,
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

	if err := uc.events.PublishJSON(events.EventBookingUpdated, payload); err != nil {
		uc.logger.Warn("UpdateBooking: publish event: %v", err)
	}
}
