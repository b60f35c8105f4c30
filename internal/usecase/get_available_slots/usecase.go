package get_available_slots

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-VenueCRM/internal/domain"
)

// UseCase use case для получения свободных окон площадки на дату
type UseCase struct {
	bookingRepo  BookingRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	txManager TransactionManager,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}
	return &UseCase{
		bookingRepo:  bookingRepo,
		txManager:    txManager,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Execute выполняет use case получения свободных окон
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: date=%s, minMinutes=%d", req.Date.Format(domain.DateFormat), req.MinMinutes)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	minMinutes := req.MinMinutes
	if minMinutes == 0 {
		minMinutes = DefaultMinMinutes
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Прошедшая дата: свободных окон нет
	if isDateInPast(req.Date, now) {
		uc.logger.Info("GetAvailableSlots: date %s is in the past", req.Date.Format(domain.DateFormat))
		return &Response{Date: req.Date, Slots: []Slot{}}, nil
	}

	// 4. Загружаем бронирования с соседних дат: ночные события заходят в окно
	from := req.Date.AddDate(0, 0, -domain.OverlapLookbackDays)
	to := req.Date.AddDate(0, 0, domain.OverlapLookbackDays)

	var bookings []*domain.Booking
	err := uc.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		bookings, err = uc.bookingRepo.List(txCtx, domain.BookingsFilter{
			StartDate:    &from,
			EndDate:      &to,
			BlockingOnly: true,
		})
		return err
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %w", ErrInternal, err)
	}

	// 5. Вычитаем занятые интервалы из окна даты
	busy, err := busyPeriods(bookings)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: broken booking interval: %v", err)
		return nil, fmt.Errorf("%w: busy periods: %w", ErrInternal, err)
	}

	window := dayWindow(req.Date)
	free := freeWindows(window, busy, wallClockMinute(now), int64(minMinutes))
	slots := toSlots(window, free)

	uc.logger.Info("GetAvailableSlots: found %d free windows on %s (busy=%d)",
		len(slots), req.Date.Format(domain.DateFormat), len(busy))

	return &Response{
		Date:  req.Date,
		Slots: slots,
	}, nil
}
