package record_payment

import (
	"errors"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-VenueCRM/internal/api/handlers"
	"github.com/m04kA/SMC-VenueCRM/internal/service/payments"
)

const (
	maxIdempotencyKeyLen = 128

	msgInvalidBookingID      = "некорректный ID бронирования"
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgValidationFailed      = "некорректные данные платежа"
	msgInvalidIdempotencyKey = "некорректный ключ идемпотентности"
	msgNotFound              = "бронирование не найдено"
	msgInProgress            = "платеж с этим ключом уже обрабатывается"
)

type Handler struct {
	service PaymentService
	logger  Logger
}

func NewHandler(service PaymentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/payments
// Header: Idempotency-Key (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathID(r, "bookingId")
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/payments - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	key := strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader))
	if len(key) > maxIdempotencyKeyLen {
		h.logger.Warn("POST /bookings/{id}/payments - Idempotency key too long: %d", len(key))
		handlers.RespondBadRequest(w, msgInvalidIdempotencyKey)
		return
	}

	var req RecordPaymentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/payments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if fields := handlers.ValidateStruct(&req); fields != nil {
		h.logger.Warn("POST /bookings/{id}/payments - Validation failed: %v", fields)
		handlers.RespondValidationError(w, msgValidationFailed, fields)
		return
	}

	serviceReq, err := req.ToServiceRequest(bookingID, key)
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/payments - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Record(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/payments - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, payments.ErrRequestInProgress):
			h.logger.Warn("POST /bookings/{id}/payments - Request in progress: booking_id=%d, key=%s",
				bookingID, key)
			handlers.RespondError(w, http.StatusConflict, msgInProgress)

		case errors.Is(err, payments.ErrInvalidInput):
			h.logger.Warn("POST /bookings/{id}/payments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgValidationFailed)

		default:
			h.logger.Error("POST /bookings/{id}/payments - Failed to record payment: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/payments - Payment recorded: booking_id=%d, payment_id=%d, status=%s",
		bookingID, result.Payment.ID, result.BookingStatus)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
