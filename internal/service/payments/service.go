package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-VenueCRM/internal/domain"
	"github.com/m04kA/SMC-VenueCRM/internal/events"
	bookingRepo "github.com/m04kA/SMC-VenueCRM/internal/infra/storage/booking"
	"github.com/m04kA/SMC-VenueCRM/internal/infra/storage/idempotency"
	paymentRepo "github.com/m04kA/SMC-VenueCRM/internal/infra/storage/payment"
	"github.com/m04kA/SMC-VenueCRM/internal/service/payments/models"
	"github.com/m04kA/SMC-VenueCRM/internal/service/status"
	"github.com/m04kA/SMC-VenueCRM/pkg/money"
)

// Service сервис для работы с платежами
type Service struct {
	bookingRepo  BookingRepository
	paymentRepo  PaymentRepository
	recalculator StatusRecalculator
	idempotency  IdempotencyStore
	txManager    TransactionManager
	events       EventPublisher
	metrics      MetricsRecorder
	timeProvider TimeProvider
	logger       Logger
}

// Option настраивает сервис
type Option func(*Service)

// WithIdempotency включает ключи идемпотентности
func WithIdempotency(store IdempotencyStore) Option {
	return func(s *Service) { s.idempotency = store }
}

// WithEvents включает публикацию событий
func WithEvents(publisher EventPublisher) Option {
	return func(s *Service) { s.events = publisher }
}

// WithMetrics включает метрики
func WithMetrics(metrics MetricsRecorder) Option {
	return func(s *Service) { s.metrics = metrics }
}

// WithTimeProvider задаёт источник текущего времени (часовой пояс площадки)
func WithTimeProvider(tp TimeProvider) Option {
	return func(s *Service) { s.timeProvider = tp }
}

type realTimeProvider struct{}

func (realTimeProvider) Now() time.Time { return time.Now() }

// NewService создает новый экземпляр сервиса платежей
func NewService(
	bookingRepo BookingRepository,
	paymentRepo PaymentRepository,
	recalculator StatusRecalculator,
	txManager TransactionManager,
	logger Logger,
	opts ...Option,
) *Service {
	s := &Service{
		bookingRepo:  bookingRepo,
		paymentRepo:  paymentRepo,
		recalculator: recalculator,
		txManager:    txManager,
		timeProvider: realTimeProvider{},
		logger:       logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record записывает платеж и пересчитывает статус бронирования в одной транзакции.
// Повтор запроса с тем же ключом идемпотентности возвращает уже созданный платеж.
func (s *Service) Record(ctx context.Context, req *models.RecordPaymentRequest) (*models.RecordPaymentResponse, error) {
	s.logger.Info("Record: booking=%d, amount=%.2f, type=%s, method=%s",
		req.BookingID, req.Amount, req.PaymentType, req.PaymentMethod)

	// 1. Валидация
	payment, err := s.toDomainPayment(req)
	if err != nil {
		s.logger.Warn("Record: validation failed: %v", err)
		return nil, err
	}

	// 2. Резервируем ключ идемпотентности
	useKey := req.IdempotencyKey != "" && s.idempotency != nil
	if useKey {
		existingID, reserved, err := s.idempotency.Reserve(ctx, req.IdempotencyKey)
		if err != nil {
			if errors.Is(err, idempotency.ErrInProgress) {
				s.logger.Warn("Record: key %q is in progress", req.IdempotencyKey)
				return nil, ErrRequestInProgress
			}
			s.logger.Error("Record: idempotency store error: %v", err)
			return nil, fmt.Errorf("%w: Record - reserve key: %w", ErrInternal, err)
		}
		if !reserved {
			s.logger.Info("Record: key %q replayed, payment id=%d", req.IdempotencyKey, existingID)
			return s.replay(ctx, existingID)
		}
	}

	// 3. Платеж и пересчёт статуса в одной транзакции
	var (
		created *domain.Payment
		result  *status.Result
	)
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		if _, err = s.bookingRepo.GetByID(txCtx, payment.BookingID); err != nil {
			return s.mapBookingError(err)
		}

		created, err = s.paymentRepo.Create(txCtx, payment)
		if err != nil {
			return fmt.Errorf("%w: Record - create payment: %w", ErrInternal, err)
		}

		result, err = s.recalculator.Recalc(txCtx, payment.BookingID)
		if err != nil {
			if errors.Is(err, status.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: Record - recalc status: %w", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		if useKey {
			if relErr := s.idempotency.Release(ctx, req.IdempotencyKey); relErr != nil {
				s.logger.Warn("Record: failed to release key %q: %v", req.IdempotencyKey, relErr)
			}
		}
		if errors.Is(err, ErrBookingNotFound) {
			s.logger.Warn("Record: booking id=%d not found", req.BookingID)
			return nil, err
		}
		s.logger.Error("Record: failed for booking id=%d: %v", req.BookingID, err)
		return nil, wrapInternal("Record", err)
	}

	if useKey {
		if err := s.idempotency.Complete(ctx, req.IdempotencyKey, created.ID); err != nil {
			s.logger.Warn("Record: failed to complete key %q: %v", req.IdempotencyKey, err)
		}
	}

	if s.metrics != nil {
		s.metrics.IncPaymentRecorded(string(created.PaymentMethod))
	}
	s.publish(events.EventPaymentRecorded, created, result.Current)

	s.logger.Info("Record: payment id=%d recorded, booking id=%d status=%s",
		created.ID, created.BookingID, result.Current)

	return &models.RecordPaymentResponse{
		Payment:       models.FromDomainPayment(created),
		BookingStatus: string(result.Current),
		TotalPaid:     result.TotalPaid,
		GrandTotal:    result.GrandTotal,
	}, nil
}

// Delete удаляет платеж и пересчитывает статус бронирования
func (s *Service) Delete(ctx context.Context, paymentID int64) (*models.DeletePaymentResponse, error) {
	s.logger.Info("Delete: payment id=%d", paymentID)

	var (
		deleted *domain.Payment
		result  *status.Result
	)
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		deleted, err = s.paymentRepo.GetByID(txCtx, paymentID)
		if err != nil {
			if errors.Is(err, paymentRepo.ErrPaymentNotFound) {
				return ErrPaymentNotFound
			}
			return fmt.Errorf("%w: Delete - get payment: %w", ErrInternal, err)
		}

		if err := s.paymentRepo.Delete(txCtx, paymentID); err != nil {
			if errors.Is(err, paymentRepo.ErrPaymentNotFound) {
				return ErrPaymentNotFound
			}
			return fmt.Errorf("%w: Delete - delete payment: %w", ErrInternal, err)
		}

		result, err = s.recalculator.Recalc(txCtx, deleted.BookingID)
		if err != nil {
			if errors.Is(err, status.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: Delete - recalc status: %w", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrPaymentNotFound) || errors.Is(err, ErrBookingNotFound) {
			s.logger.Warn("Delete: payment id=%d: %v", paymentID, err)
			return nil, err
		}
		s.logger.Error("Delete: failed for payment id=%d: %v", paymentID, err)
		return nil, wrapInternal("Delete", err)
	}

	s.publish(events.EventPaymentDeleted, deleted, result.Current)
	s.logger.Info("Delete: payment id=%d deleted, booking id=%d status=%s",
		paymentID, deleted.BookingID, result.Current)

	return &models.DeletePaymentResponse{
		BookingID:     deleted.BookingID,
		BookingStatus: string(result.Current),
		TotalPaid:     result.TotalPaid,
	}, nil
}

// ListByBooking возвращает платежи бронирования
func (s *Service) ListByBooking(ctx context.Context, bookingID int64) (*models.PaymentListResponse, error) {
	if _, err := s.bookingRepo.GetByID(ctx, bookingID); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("ListByBooking: booking id=%d not found", bookingID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("ListByBooking: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: ListByBooking - get booking: %w", ErrInternal, err)
	}

	payments, err := s.paymentRepo.ListByBooking(ctx, bookingID)
	if err != nil {
		s.logger.Error("ListByBooking: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: ListByBooking - list payments: %w", ErrInternal, err)
	}

	resp := &models.PaymentListResponse{Payments: make([]models.PaymentResponse, 0, len(payments))}
	var totalCents int64
	for _, p := range payments {
		resp.Payments = append(resp.Payments, models.FromDomainPayment(p))
		totalCents += money.ToCents(p.Amount)
	}
	resp.TotalPaid = money.FromCents(totalCents)

	return resp, nil
}

// replay возвращает ранее созданный платеж
func (s *Service) replay(ctx context.Context, paymentID int64) (*models.RecordPaymentResponse, error) {
	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, paymentRepo.ErrPaymentNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("%w: replay - get payment: %w", ErrInternal, err)
	}

	booking, err := s.bookingRepo.GetByID(ctx, payment.BookingID)
	if err != nil {
		return nil, s.mapBookingError(err)
	}

	return &models.RecordPaymentResponse{
		Payment:       models.FromDomainPayment(payment),
		BookingStatus: string(booking.Status),
		Replayed:      true,
	}, nil
}

func (s *Service) toDomainPayment(req *models.RecordPaymentRequest) (*domain.Payment, error) {
	if req.BookingID <= 0 {
		return nil, fmt.Errorf("%w: bookingId must be positive", ErrInvalidInput)
	}
	if money.ToCents(req.Amount) <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}

	paymentType := domain.PaymentType(req.PaymentType)
	if !paymentType.IsValid() {
		return nil, fmt.Errorf("%w: unknown payment type %q", ErrInvalidInput, req.PaymentType)
	}
	method := domain.PaymentMethod(req.PaymentMethod)
	if !method.IsValid() {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrInvalidInput, req.PaymentMethod)
	}

	date := s.timeProvider.Now()
	if req.PaymentDate != nil {
		date = *req.PaymentDate
	}

	return &domain.Payment{
		BookingID:     req.BookingID,
		Amount:        money.Round2(req.Amount),
		PaymentType:   paymentType,
		PaymentMethod: method,
		PaymentDate:   date,
	}, nil
}

func (s *Service) mapBookingError(err error) error {
	if errors.Is(err, bookingRepo.ErrBookingNotFound) {
		return ErrBookingNotFound
	}
	return fmt.Errorf("%w: get booking: %w", ErrInternal, err)
}

func (s *Service) publish(eventType string, p *domain.Payment, current domain.BookingStatus) {
	if s.events == nil {
		return
	}
	err := s.events.PublishJSON(eventType, events.PaymentEventPayload{
		PaymentID: p.ID,
		BookingID: p.BookingID,
		Amount:    p.Amount,
		Type:      string(p.PaymentType),
		Method:    string(p.PaymentMethod),
		Status:    string(current),
	})
	if err != nil {
		s.logger.Warn("publish %s: %v", eventType, err)
	}
}

func wrapInternal(op string, err error) error {
	if errors.Is(err, ErrInternal) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrInternal, op, err)
}
