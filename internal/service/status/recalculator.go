package status

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-VenueCRM/internal/domain"
	bookingRepo "github.com/m04kA/SMC-VenueCRM/internal/infra/storage/booking"
)

// Result итог пересчёта статуса
type Result struct {
	Previous   domain.BookingStatus
	Current    domain.BookingStatus
	TotalPaid  float64
	GrandTotal float64
}

// Changed сообщает, изменился ли статус
func (r *Result) Changed() bool {
	return r.Previous != r.Current
}

// Recalculator пересчитывает статус бронирования по сумме платежей.
// Единственный источник автоматических переходов статуса.
type Recalculator struct {
	bookingRepo BookingRepository
	paymentRepo PaymentRepository
	addonRepo   AddonRepository
	txManager   TransactionManager
	metrics     MetricsRecorder
	logger      Logger
}

// NewRecalculator создает пересчёт статусов. metrics может быть nil.
func NewRecalculator(
	bookingRepo BookingRepository,
	paymentRepo PaymentRepository,
	addonRepo AddonRepository,
	txManager TransactionManager,
	metrics MetricsRecorder,
	logger Logger,
) *Recalculator {
	return &Recalculator{
		bookingRepo: bookingRepo,
		paymentRepo: paymentRepo,
		addonRepo:   addonRepo,
		txManager:   txManager,
		metrics:     metrics,
		logger:      logger,
	}
}

// Recalc пересчитывает и сохраняет статус бронирования.
// Если ctx уже содержит транзакцию, пересчёт выполняется в ней.
func (r *Recalculator) Recalc(ctx context.Context, bookingID int64) (*Result, error) {
	var result *Result

	err := r.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Блокируем бронирование
		booking, err := r.bookingRepo.GetByID(txCtx, bookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: Recalc - get booking: %w", ErrInternal, err)
		}

		// 2. Сумма платежей
		totalPaid, err := r.paymentRepo.SumByBooking(txCtx, bookingID)
		if err != nil {
			return fmt.Errorf("%w: Recalc - sum payments: %w", ErrInternal, err)
		}

		// 3. Итоговая стоимость: аренда + доп. услуги
		addons, err := r.addonRepo.ListByBooking(txCtx, bookingID)
		if err != nil {
			return fmt.Errorf("%w: Recalc - list addons: %w", ErrInternal, err)
		}
		grandTotal := domain.GrandTotal(booking.RentalCost, addons)

		// 4. Новый статус
		next := domain.NextStatus(booking.Status, totalPaid, grandTotal)
		result = &Result{
			Previous:   booking.Status,
			Current:    next,
			TotalPaid:  totalPaid,
			GrandTotal: grandTotal,
		}
		if next == booking.Status {
			return nil
		}

		if err := r.bookingRepo.UpdateStatus(txCtx, bookingID, next); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: Recalc - update status: %w", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			r.logger.Warn("Recalc: booking id=%d not found", bookingID)
			return nil, err
		}
		r.logger.Error("Recalc: failed for booking id=%d: %v", bookingID, err)
		if errors.Is(err, ErrInternal) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: Recalc - transaction: %w", ErrInternal, err)
	}

	if result.Changed() {
		if r.metrics != nil {
			r.metrics.IncStatusTransition(string(result.Previous), string(result.Current))
		}
		r.logger.Info("Recalc: booking id=%d status %s -> %s (paid=%.2f, total=%.2f)",
			bookingID, result.Previous, result.Current, result.TotalPaid, result.GrandTotal)
	}

	return result, nil
}
