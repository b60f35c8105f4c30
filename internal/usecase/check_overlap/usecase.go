package check_overlap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-VenueCRM/internal/domain"
	"github.com/m04kA/SMC-VenueCRM/pkg/types"
)

// UseCase use case проверки пересечений бронирований
type UseCase struct {
	bookingRepo BookingRepository
	txManager   TransactionManager
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(bookingRepo BookingRepository, txManager TransactionManager, logger Logger) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// Execute возвращает бронирования, пересекающиеся с интервалом.
// Пустой список означает, что площадка свободна.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CheckOverlap: date=%s, time=%s-%s", req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime)

	// 1. Валидация входных данных
	start, end, err := ParseInterval(req.StartTime, req.EndTime)
	if err != nil {
		uc.logger.Warn("CheckOverlap: validation failed: %v", err)
		return nil, err
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	period, err := domain.NewPeriod(req.Date, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTimeFormat, err)
	}

	// 2. Ищем конфликты в согласованном снимке
	var conflicts []domain.ConflictingBooking
	err = uc.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		conflicts, err = uc.FindConflicts(txCtx, req.Date, period, req.ExcludeID)
		return err
	})
	if err != nil {
		uc.logger.Error("CheckOverlap: failed to find conflicts: %v", err)
		if errors.Is(err, ErrInternal) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: CheckOverlap - transaction: %w", ErrInternal, err)
	}

	uc.logger.Info("CheckOverlap: found %d conflicts", len(conflicts))

	return &Response{
		Date:      req.Date,
		StartTime: start,
		EndTime:   end,
		Overnight: !end.IsAfter(start),
		Available: len(conflicts) == 0,
		Conflicts: conflicts,
	}, nil
}

// FindConflicts загружает занимающие площадку бронирования с соседних дат и сравнивает
// абсолютные интервалы, поэтому ночные события конфликтуют с утром следующего дня.
// Выполняется в транзакции из ctx, если она есть (create_booking, update_booking).
func (uc *UseCase) FindConflicts(ctx context.Context, date time.Time, period domain.Period, excludeID *int64) ([]domain.ConflictingBooking, error) {
	from := date.AddDate(0, 0, -domain.OverlapLookbackDays)
	to := date.AddDate(0, 0, domain.OverlapLookbackDays)

	bookings, err := uc.bookingRepo.List(ctx, domain.BookingsFilter{
		StartDate:    &from,
		EndDate:      &to,
		ExcludeID:    excludeID,
		BlockingOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: FindConflicts - list bookings: %w", ErrInternal, err)
	}

	conflicts, err := domain.FindConflicts(period, bookings, excludeID)
	if err != nil {
		return nil, fmt.Errorf("%w: FindConflicts - compare: %w", ErrInternal, err)
	}
	return conflicts, nil
}

// ParseInterval нормализует время начала и окончания
func ParseInterval(start, end string) (types.TimeString, types.TimeString, error) {
	s, err := types.NewTimeStringFromString(start)
	if err != nil {
		return "", "", fmt.Errorf("%w: startTime: %w", ErrInvalidTimeFormat, err)
	}
	e, err := types.NewTimeStringFromString(end)
	if err != nil {
		return "", "", fmt.Errorf("%w: endTime: %w", ErrInvalidTimeFormat, err)
	}
	return s, e, nil
}
